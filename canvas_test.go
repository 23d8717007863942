package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"gfascope/camera"
	"gfascope/gfa"
)

func TestGridKeepsHighestClass(t *testing.T) {
	g := newCanvasGrid(4, 4)
	g.set(1, 1, cellEdge)
	g.set(1, 1, cellSelected)
	if got := g.at(1, 1); got != cellSelected {
		t.Fatalf("cell = %d, want selected", got)
	}
	// A lower class never overwrites a higher one.
	g.set(1, 1, cellNode)
	if got := g.at(1, 1); got != cellSelected {
		t.Fatalf("cell = %d after plotting a node on top, want selected", got)
	}
}

func TestGridBoundsAreSafe(t *testing.T) {
	g := newCanvasGrid(3, 3)
	g.set(-1, 0, cellNode)
	g.set(0, -1, cellNode)
	g.set(3, 0, cellNode)
	g.set(0, 3, cellNode)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if g.at(x, y) != cellEmpty {
				t.Fatalf("out-of-bounds plot landed at (%d,%d)", x, y)
			}
		}
	}
	if got := g.at(-1, 5); got != cellEmpty {
		t.Fatalf("out-of-bounds read = %d, want empty", got)
	}
}

func TestGridLine(t *testing.T) {
	g := newCanvasGrid(8, 8)
	g.line(0, 0, 5, 5, cellEdge)
	if g.at(0, 0) != cellEdge || g.at(5, 5) != cellEdge {
		t.Fatal("line endpoints not plotted")
	}
	for i := 0; i <= 5; i++ {
		if g.at(i, i) != cellEdge {
			t.Fatalf("diagonal cell (%d,%d) not plotted", i, i)
		}
	}
	// Lines running off the grid clip instead of panicking.
	g.line(6, 6, 20, 9, cellEdge)
}

func TestCellClassPriority(t *testing.T) {
	order := []cellClass{
		cellEmpty, cellEdge, cellNode,
		cellCov0, cellCov1, cellCov2, cellCov3, cellCov4,
		cellPath, cellSelected, cellCurrent,
	}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Fatalf("class %d does not outrank class %d", order[i], order[i-1])
		}
	}
}

func TestCoverageClass(t *testing.T) {
	for b := uint8(0); b <= 4; b++ {
		if got := coverageClass(b); got != cellCov0+cellClass(b) {
			t.Errorf("coverageClass(%d) = %d", b, got)
		}
	}
	if got := coverageClass(9); got != cellCov4 {
		t.Errorf("coverageClass(9) = %d, want the hottest class", got)
	}
}

func TestNodeSpan(t *testing.T) {
	tests := []struct {
		seqLen int
		scale  float64
		want   int
	}{
		{4, 0, 1},
		{4, -1, 1},
		{0, 1, 1},
		{4, 1, 4},
		{4, 8, 1},
		{100, 0.5, 200},
		{1_000_000, 1, 512},
	}
	for _, tt := range tests {
		if got := nodeSpan(tt.seqLen, tt.scale); got != tt.want {
			t.Errorf("nodeSpan(%d, %g) = %d, want %d", tt.seqLen, tt.scale, got, tt.want)
		}
	}
}

func TestRenderPairsRows(t *testing.T) {
	if got := lineCount(newCanvasGrid(10, 8).render()); got != 4 {
		t.Fatalf("8 virtual rows rendered as %d lines, want 4", got)
	}
	// An odd trailing row has no partner and is dropped.
	if got := lineCount(newCanvasGrid(10, 7).render()); got != 3 {
		t.Fatalf("7 virtual rows rendered as %d lines, want 3", got)
	}
	if got := newCanvasGrid(0, 0).render(); got != "" {
		t.Fatalf("empty grid rendered %q", got)
	}
}

func TestRenderCanvasEmptyGraph(t *testing.T) {
	g := mustGraph(t, "")
	lay := gfa.SpineLayout(g)
	s, idx := renderCanvas(g, lay, camera.NewView(10, 6), canvasOptions{})
	if len(idx) != 0 {
		t.Fatalf("empty graph produced %d hit cells", len(idx))
	}
	if plottedCells(s) != 0 {
		t.Fatalf("empty graph plotted glyphs:\n%s", s)
	}
}

func TestCanvasHitIndex(t *testing.T) {
	g := mustGraph(t, "S\t1\tAC\n")
	lay := gfa.SpineLayout(g)
	p, ok := lay.Pos(1)
	if !ok {
		t.Fatal("layout has no position for node 1")
	}

	view := camera.NewView(16, 8)
	view.Center = camera.Vec2{X: p.X, Y: p.Y}
	_, idx := renderCanvas(g, lay, view, canvasOptions{})

	// The node projects to the view center: virtual row 4, terminal row 2.
	if id, ok := idx.nodeAt(7, 2); !ok || id != 1 {
		t.Fatalf("nodeAt(7,2) = (%d,%v), want node 1", id, ok)
	}
	if id, ok := idx.nodeAt(8, 2); !ok || id != 1 {
		t.Fatalf("nodeAt(8,2) = (%d,%v), want node 1", id, ok)
	}
	if _, ok := idx.nodeAt(0, 0); ok {
		t.Fatal("hit reported on an empty corner")
	}
}

func TestEdgesAddCells(t *testing.T) {
	g := mustGraph(t, "S\t1\tA\nS\t2\tA\nL\t1\t+\t2\t+\t0M\n")
	lay := gfa.SpineLayout(g)
	p1, _ := lay.Pos(1)
	p2, _ := lay.Pos(2)

	view := camera.NewView(24, 20)
	view.Center = camera.Vec2{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}

	bare, bareIdx := renderCanvas(g, lay, view, canvasOptions{})
	wired, wiredIdx := renderCanvas(g, lay, view, canvasOptions{showEdges: true})

	if len(bareIdx) != 2 || len(wiredIdx) != 2 {
		t.Fatalf("hit index sizes %d/%d, want 2 node cells each", len(bareIdx), len(wiredIdx))
	}
	if plottedCells(wired) <= plottedCells(bare) {
		t.Fatalf("edges added no cells: %d with, %d without", plottedCells(wired), plottedCells(bare))
	}
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// plottedCells counts non-blank glyphs after stripping styling.
func plottedCells(s string) int {
	n := 0
	for _, r := range ansi.Strip(s) {
		if r != ' ' && r != '\n' {
			n++
		}
	}
	return n
}
