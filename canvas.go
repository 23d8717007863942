package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gfascope/camera"
	"gfascope/gfa"
)

// ---------------------------------------------------------------------------
// Half-block canvas
// ---------------------------------------------------------------------------
// The canvas doubles vertical resolution by packing two virtual rows into one
// terminal row with ▀/▄/█ glyphs, the way terminal image viewers do. All
// plotting happens on the virtual grid; pairing into glyphs is the last step.

// cellClass is what occupies a virtual cell. Higher classes win when plots
// overlap, so a selected node is never hidden under an edge.
type cellClass uint8

const (
	cellEmpty cellClass = iota
	cellEdge
	cellNode
	cellCov0
	cellCov1
	cellCov2
	cellCov3
	cellCov4
	cellPath
	cellSelected
	cellCurrent
)

func (c cellClass) color() lipgloss.Color {
	switch c {
	case cellEdge:
		return colorCanvasEdge
	case cellNode:
		return colorCanvasNode
	case cellCov0:
		return colorCanvasCov0
	case cellCov1:
		return colorCanvasCov1
	case cellCov2:
		return colorCanvasCov2
	case cellCov3:
		return colorCanvasCov3
	case cellCov4:
		return colorCanvasCov4
	case cellPath:
		return colorCanvasPath
	case cellSelected:
		return colorCanvasSelected
	case cellCurrent:
		return colorCanvasCurrent
	default:
		return colorBase
	}
}

// coverageClass maps a coverage bucket onto its cell class. Hotter buckets
// sit higher so overlapping nodes resolve toward the denser one.
func coverageClass(bucket uint8) cellClass {
	if bucket > 4 {
		bucket = 4
	}
	return cellCov0 + cellClass(bucket)
}

// canvasGrid is a width x height field of virtual cells. Height is in
// virtual rows, twice the terminal row count.
type canvasGrid struct {
	width  int
	height int
	cells  []cellClass
}

func newCanvasGrid(width, height int) *canvasGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &canvasGrid{width: width, height: height, cells: make([]cellClass, width*height)}
}

func (g *canvasGrid) at(x, y int) cellClass {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return cellEmpty
	}
	return g.cells[y*g.width+x]
}

// set plots c at (x, y). Out-of-bounds plots are dropped, which is what clips
// lines running off the viewport. A cell keeps the highest class plotted.
func (g *canvasGrid) set(x, y int, c cellClass) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	idx := y*g.width + x
	if g.cells[idx] < c {
		g.cells[idx] = c
	}
}

// line plots a Bresenham segment between two virtual cells.
func (g *canvasGrid) line(x0, y0, x1, y1 int, c cellClass) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		g.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// render pairs virtual rows into half-block glyphs. Identical class pairs are
// styled once and reused across the frame.
func (g *canvasGrid) render() string {
	type pair struct{ top, bottom cellClass }
	cache := make(map[pair]string)
	var b strings.Builder
	for row := 0; row+1 < g.height; row += 2 {
		for col := 0; col < g.width; col++ {
			p := pair{top: g.at(col, row), bottom: g.at(col, row+1)}
			cell, ok := cache[p]
			if !ok {
				cell = renderCellPair(p.top, p.bottom)
				cache[p] = cell
			}
			b.WriteString(cell)
		}
		if row+2 < g.height {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderCellPair(top, bottom cellClass) string {
	switch {
	case top == cellEmpty && bottom == cellEmpty:
		return " "
	case bottom == cellEmpty:
		return lipgloss.NewStyle().Foreground(top.color()).Render("▀")
	case top == cellEmpty:
		return lipgloss.NewStyle().Foreground(bottom.color()).Render("▄")
	default:
		return lipgloss.NewStyle().Foreground(top.color()).Background(bottom.color()).Render("▀")
	}
}

// ---------------------------------------------------------------------------
// Graph plotting
// ---------------------------------------------------------------------------

type canvasOptions struct {
	showEdges  bool
	selected   map[uint64]bool
	current    uint64
	hasCurrent bool
	pathMember map[uint64]bool
	coverage   map[uint64]uint8 // nil disables the overlay
}

// cellIndex maps a virtual cell to the node plotted there, for pointer hit
// tests. Rebuilt every frame alongside the canvas itself.
type cellIndex map[[2]int]uint64

func (ix cellIndex) nodeAt(col, termRow int) (uint64, bool) {
	// One terminal row covers two virtual rows; check both halves.
	if id, ok := ix[[2]int{col, termRow * 2}]; ok {
		return id, true
	}
	if id, ok := ix[[2]int{col, termRow*2 + 1}]; ok {
		return id, true
	}
	return 0, false
}

// renderCanvas projects the layout through the camera view onto a half-block
// grid. The view's Width/Height are virtual cell dimensions.
func renderCanvas(g *gfa.Graph, lay *gfa.Layout, view camera.View, opts canvasOptions) (string, cellIndex) {
	grid := newCanvasGrid(int(view.Width), int(view.Height))
	index := make(cellIndex)
	if g == nil || lay == nil || grid.width == 0 || grid.height == 0 {
		return grid.render(), index
	}

	if opts.showEdges {
		margin := 2.0 * (view.Width + view.Height)
		for _, e := range g.Edges() {
			fp, ok := lay.Pos(e.From)
			if !ok {
				continue
			}
			tp, ok := lay.Pos(e.To)
			if !ok {
				continue
			}
			fs := view.WorldToScreen(camera.Vec2{X: fp.X, Y: fp.Y})
			ts := view.WorldToScreen(camera.Vec2{X: tp.X, Y: tp.Y})
			if offscreen(fs, view, margin) && offscreen(ts, view, margin) {
				continue
			}
			grid.line(int(fs.X), int(fs.Y), int(ts.X), int(ts.Y), cellEdge)
		}
	}

	for _, id := range g.NodeIDs() {
		p, ok := lay.Pos(id)
		if !ok {
			continue
		}
		class := cellNode
		if opts.coverage != nil {
			class = coverageClass(opts.coverage[id])
		}
		if opts.pathMember != nil && opts.pathMember[id] {
			class = cellPath
		}
		if opts.selected != nil && opts.selected[id] {
			class = cellSelected
		}
		if opts.hasCurrent && opts.current == id {
			class = cellCurrent
		}

		sp := view.WorldToScreen(camera.Vec2{X: p.X, Y: p.Y})
		row := int(sp.Y)
		seqLen := 0
		if n, ok := g.Node(id); ok {
			seqLen = len(n.Seq)
		}
		span := nodeSpan(seqLen, view.Scale)
		start := int(sp.X) - span/2
		for x := start; x < start+span; x++ {
			if x < 0 || x >= grid.width || row < 0 || row >= grid.height {
				continue
			}
			grid.set(x, row, class)
			index[[2]int{x, row}] = id
		}
	}

	return grid.render(), index
}

// nodeSpan is a node's width in cells: its sequence length through the
// current zoom, at least one cell, capped so a megabase node cannot smear
// across the whole frame when fully zoomed in.
func nodeSpan(seqLen int, scale float64) int {
	if scale <= 0 {
		return 1
	}
	span := int(float64(seqLen) / scale)
	if span < 1 {
		span = 1
	}
	if span > 512 {
		span = 512
	}
	return span
}

func offscreen(p camera.Vec2, view camera.View, margin float64) bool {
	return p.X < -margin || p.X > view.Width+margin || p.Y < -margin || p.Y > view.Height+margin
}
