// Package gfa holds the pangenome graph model: segments, links and paths
// parsed from a GFA 1.0 file, plus the 2D layout used to draw them.
package gfa

import (
	"fmt"
	"sort"
	"strings"
)

// Node is one segment. IDs are numeric: layout files and node references
// key on the integer, so non-numeric segment names are rejected at parse
// time.
type Node struct {
	ID  uint64
	Seq string
}

// Edge is one link between oriented segment ends.
type Edge struct {
	From    uint64
	To      uint64
	FromRev bool
	ToRev   bool
}

// Step is one oriented visit in a path.
type Step struct {
	Node    uint64
	Reverse bool
}

// Path is one named walk through the graph.
type Path struct {
	Name  string
	Steps []Step
}

// Graph is an immutable segment graph. Build one with Parse; lookups are
// safe from any goroutine once parsing returns.
type Graph struct {
	nodes       map[uint64]*Node
	order       []uint64
	edges       []Edge
	adj         map[uint64][]uint64
	paths       []*Path
	pathsByName map[string]*Path
	totalLen    int
}

func newGraph() *Graph {
	return &Graph{
		nodes:       make(map[uint64]*Node),
		adj:         make(map[uint64][]uint64),
		pathsByName: make(map[string]*Path),
	}
}

func (g *Graph) addNode(id uint64, seq string) {
	g.nodes[id] = &Node{ID: id, Seq: seq}
	g.order = append(g.order, id)
	g.totalLen += len(seq)
}

func (g *Graph) addEdge(e Edge) {
	g.edges = append(g.edges, e)
	g.adj[e.From] = append(g.adj[e.From], e.To)
	if e.To != e.From {
		g.adj[e.To] = append(g.adj[e.To], e.From)
	}
}

func (g *Graph) addPath(p *Path) {
	g.paths = append(g.paths, p)
	g.pathsByName[p.Name] = p
}

// finish sorts the id and adjacency indexes once all records are in.
func (g *Graph) finish() {
	sort.Slice(g.order, func(i, j int) bool { return g.order[i] < g.order[j] })
	for id, ns := range g.adj {
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
		g.adj[id] = ns
	}
}

// NodeCount reports the number of segments.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount reports the number of links.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// PathCount reports the number of paths.
func (g *Graph) PathCount() int { return len(g.paths) }

// TotalSeqLen reports the summed sequence length across all segments.
func (g *Graph) TotalSeqLen() int { return g.totalLen }

// HasNode reports whether a segment with the given id exists.
func (g *Graph) HasNode(id uint64) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the segment with the given id.
func (g *Graph) Node(id uint64) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Sequence returns a segment's sequence. Segments declared with "*" have an
// empty sequence.
func (g *Graph) Sequence(id uint64) (string, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return "", false
	}
	return n.Seq, true
}

// NodeIDs returns every segment id in ascending order. The slice is shared;
// callers must not modify it.
func (g *Graph) NodeIDs() []uint64 { return g.order }

// Edges returns every link. The slice is shared; callers must not modify it.
func (g *Graph) Edges() []Edge { return g.edges }

// Neighbors returns the ids linked to a segment, either direction, in
// ascending order.
func (g *Graph) Neighbors(id uint64) []uint64 { return g.adj[id] }

// Paths returns every path in file order.
func (g *Graph) Paths() []*Path { return g.paths }

// Path returns the path with the given name.
func (g *Graph) Path(name string) (*Path, bool) {
	p, ok := g.pathsByName[name]
	return p, ok
}

// PathCoverage reports, per segment, how many distinct paths visit it. A
// path that loops through a segment twice counts once. Segments no path
// touches are absent from the map.
func (g *Graph) PathCoverage() map[uint64]int {
	cov := make(map[uint64]int, len(g.nodes))
	seen := make(map[uint64]bool)
	for _, p := range g.paths {
		for id := range seen {
			delete(seen, id)
		}
		for _, s := range p.Steps {
			if seen[s.Node] {
				continue
			}
			seen[s.Node] = true
			cov[s.Node]++
		}
	}
	return cov
}

// SubgraphGFA renders the induced subgraph over the given segments as GFA
// text: the segments in ascending id order, then the links with both
// endpoints inside the selection. Unknown ids are skipped.
func (g *Graph) SubgraphGFA(ids []uint64) string {
	keep := make(map[uint64]bool, len(ids))
	var sorted []uint64
	for _, id := range ids {
		if !g.HasNode(id) || keep[id] {
			continue
		}
		keep[id] = true
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var b strings.Builder
	b.WriteString("H\tVN:Z:1.0\n")
	for _, id := range sorted {
		seq := g.nodes[id].Seq
		if seq == "" {
			seq = "*"
		}
		fmt.Fprintf(&b, "S\t%d\t%s\n", id, seq)
	}
	for _, e := range g.edges {
		if !keep[e.From] || !keep[e.To] {
			continue
		}
		fmt.Fprintf(&b, "L\t%d\t%s\t%d\t%s\t0M\n",
			e.From, orientString(e.FromRev), e.To, orientString(e.ToRev))
	}
	return b.String()
}

func orientString(rev bool) string {
	if rev {
		return "-"
	}
	return "+"
}
