package gfa

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Pos is a 2D world-space position.
type Pos struct {
	X float64
	Y float64
}

// Layout maps segment ids to world positions and keeps the bounding box of
// every point it was built from.
type Layout struct {
	pos map[uint64]Pos
	min Pos
	max Pos
}

// Pos returns a segment's position.
func (l *Layout) Pos(id uint64) (Pos, bool) {
	p, ok := l.pos[id]
	return p, ok
}

// Len reports how many segments are placed.
func (l *Layout) Len() int { return len(l.pos) }

// Bounds returns the corners of the layout's bounding box.
func (l *Layout) Bounds() (min, max Pos) { return l.min, l.max }

// Fit returns the camera center and scale that bring the whole layout into
// a viewport of the given size, with a small margin.
func (l *Layout) Fit(width, height float64) (Pos, float64) {
	center := Pos{
		X: (l.min.X + l.max.X) / 2,
		Y: (l.min.Y + l.max.Y) / 2,
	}
	if width <= 0 || height <= 0 {
		return center, 1
	}
	sx := (l.max.X - l.min.X) / width
	sy := (l.max.Y - l.min.Y) / height
	scale := sx
	if sy > scale {
		scale = sy
	}
	scale *= 1.1
	if scale <= 0 {
		scale = 1
	}
	return center, scale
}

// layoutBuilder accumulates points per segment. Layout TSVs exported from
// odgi carry two points per segment, one per node endpoint; the final
// position is the centroid of whatever points a segment got.
type layoutBuilder struct {
	points map[uint64][]Pos
	min    Pos
	max    Pos
	any    bool
}

func newLayoutBuilder() *layoutBuilder {
	return &layoutBuilder{points: make(map[uint64][]Pos)}
}

func (b *layoutBuilder) add(id uint64, p Pos) {
	b.points[id] = append(b.points[id], p)
	if !b.any {
		b.min, b.max = p, p
		b.any = true
		return
	}
	if p.X < b.min.X {
		b.min.X = p.X
	}
	if p.Y < b.min.Y {
		b.min.Y = p.Y
	}
	if p.X > b.max.X {
		b.max.X = p.X
	}
	if p.Y > b.max.Y {
		b.max.Y = p.Y
	}
}

func (b *layoutBuilder) build() *Layout {
	l := &Layout{pos: make(map[uint64]Pos, len(b.points)), min: b.min, max: b.max}
	for id, pts := range b.points {
		var sum Pos
		for _, p := range pts {
			sum.X += p.X
			sum.Y += p.Y
		}
		n := float64(len(pts))
		l.pos[id] = Pos{X: sum.X / n, Y: sum.Y / n}
	}
	return l
}

// LoadLayoutTSV reads a tab-separated layout of "id x y" rows for the given
// graph. A non-numeric first row is treated as a header and skipped. Every
// row must name a segment in the graph, and every segment must end up with
// a position.
func LoadLayoutTSV(path string, g *Graph) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	b := newLayoutBuilder()
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s line %d: expected id, x, y", path, line)
		}
		id, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("%s line %d: id %q is not numeric: %w", path, line, fields[0], err)
		}
		if !g.HasNode(id) {
			return nil, fmt.Errorf("%s line %d: unknown segment %d", path, line, id)
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: x: %w", path, line, err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: y: %w", path, line, err)
		}
		b.add(id, Pos{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	l := b.build()
	var missing []uint64
	for _, id := range g.NodeIDs() {
		if _, ok := l.pos[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, fmt.Errorf("layout %s is missing %d segments (first: %d)", path, len(missing), missing[0])
	}
	return l, nil
}

// Spine layout constants. Spacing is in world units; the zigzag keeps links
// between consecutive segments visible instead of collapsing onto one line.
const (
	spineGap       = 8.0
	spineAmplitude = 8.0
)

// SpineLayout places segments along a horizontal spine in id order, each
// spanning its sequence length, alternating above and below the axis. It is
// the fallback when no layout file is given.
func SpineLayout(g *Graph) *Layout {
	b := newLayoutBuilder()
	x := 0.0
	for i, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		width := float64(len(n.Seq))
		if width < 1 {
			width = 1
		}
		y := 0.0
		if i%2 == 1 {
			y = spineAmplitude
		}
		b.add(id, Pos{X: x + width/2, Y: y})
		x += width + spineGap
	}
	return b.build()
}
