package gfa

import (
	"strings"
	"testing"
)

const sampleGFA = `H	VN:Z:1.0
S	1	GAT
S	2	TACA
S	3	*
L	1	+	2	+	0M
L	2	+	3	-	0M
L	1	+	3	+	0M
P	chr1	1+,2+,3-	*
`

func mustParse(t *testing.T, text string) *Graph {
	t.Helper()
	g, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return g
}

func TestParseCounts(t *testing.T) {
	g := mustParse(t, sampleGFA)
	if got := g.NodeCount(); got != 3 {
		t.Fatalf("node count = %d, want 3", got)
	}
	if got := g.EdgeCount(); got != 3 {
		t.Fatalf("edge count = %d, want 3", got)
	}
	if got := g.PathCount(); got != 1 {
		t.Fatalf("path count = %d, want 1", got)
	}
	if got := g.TotalSeqLen(); got != 7 {
		t.Fatalf("total sequence length = %d, want 7", got)
	}
}

func TestParseSequences(t *testing.T) {
	g := mustParse(t, sampleGFA)
	seq, ok := g.Sequence(2)
	if !ok || seq != "TACA" {
		t.Fatalf("Sequence(2) = %q, %v", seq, ok)
	}
	// "*" means no sequence recorded.
	seq, ok = g.Sequence(3)
	if !ok || seq != "" {
		t.Fatalf("Sequence(3) = %q, %v, want empty", seq, ok)
	}
	if _, ok := g.Sequence(99); ok {
		t.Fatal("Sequence(99) reported ok for missing segment")
	}
	if !g.HasNode(1) || g.HasNode(99) {
		t.Fatal("HasNode wrong for 1 or 99")
	}
}

func TestParseNeighborsSorted(t *testing.T) {
	g := mustParse(t, sampleGFA)
	tests := []struct {
		id   uint64
		want []uint64
	}{
		{id: 1, want: []uint64{2, 3}},
		{id: 2, want: []uint64{1, 3}},
		{id: 3, want: []uint64{1, 2}},
		{id: 99, want: nil},
	}
	for _, tt := range tests {
		got := g.Neighbors(tt.id)
		if len(got) != len(tt.want) {
			t.Fatalf("Neighbors(%d) = %v, want %v", tt.id, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("Neighbors(%d) = %v, want %v", tt.id, got, tt.want)
			}
		}
	}
}

func TestParsePathSteps(t *testing.T) {
	g := mustParse(t, sampleGFA)
	p, ok := g.Path("chr1")
	if !ok {
		t.Fatal("path chr1 missing")
	}
	want := []Step{{Node: 1}, {Node: 2}, {Node: 3, Reverse: true}}
	if len(p.Steps) != len(want) {
		t.Fatalf("steps = %v, want %v", p.Steps, want)
	}
	for i, st := range p.Steps {
		if st != want[i] {
			t.Fatalf("step %d = %v, want %v", i, st, want[i])
		}
	}
	if _, ok := g.Path("chr2"); ok {
		t.Fatal("lookup of missing path reported ok")
	}
}

func TestParseLinkBeforeSegment(t *testing.T) {
	g := mustParse(t, "L\t1\t+\t2\t+\t0M\nS\t1\tA\nS\t2\tC\n")
	if got := g.EdgeCount(); got != 1 {
		t.Fatalf("edge count = %d, want 1", got)
	}
}

func TestParseNodeIDsSorted(t *testing.T) {
	g := mustParse(t, "S\t30\tA\nS\t2\tC\nS\t11\tG\n")
	want := []uint64{2, 11, 30}
	got := g.NodeIDs()
	if len(got) != len(want) {
		t.Fatalf("NodeIDs() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("NodeIDs() = %v, want %v", got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "segment name not numeric",
			text: "S\tabc\tGAT\n",
			want: "line 1",
		},
		{
			name: "segment too short",
			text: "S\t1\n",
			want: "segment needs name and sequence",
		},
		{
			name: "duplicate segment",
			text: "S\t1\tG\nS\t1\tT\n",
			want: "duplicate segment 1",
		},
		{
			name: "link unknown segment",
			text: "S\t1\tG\nL\t1\t+\t2\t+\t0M\n",
			want: "line 2: link references unknown segment 2",
		},
		{
			name: "bad orientation",
			text: "S\t1\tG\nS\t2\tC\nL\t1\tx\t2\t+\t0M\n",
			want: "must be + or -",
		},
		{
			name: "path step missing orientation",
			text: "S\t1\tG\nS\t2\tC\nP\tp1\t1+,2\t*\n",
			want: "missing orientation",
		},
		{
			name: "path unknown segment",
			text: "S\t1\tG\nP\tp1\t5+\t*\n",
			want: "unknown segment 5",
		},
		{
			name: "duplicate path",
			text: "S\t1\tG\nP\tp1\t1+\t*\nP\tp1\t1+\t*\n",
			want: "duplicate path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.text))
			if err == nil {
				t.Fatal("parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestPathCoverage(t *testing.T) {
	g := mustParse(t, "S\t1\tA\nS\t2\tC\nS\t3\tG\nS\t4\tT\n"+
		"P\talpha\t1+,2+,3+\t*\n"+
		"P\tbeta\t1-,3+\t*\n"+
		"P\tloop\t2+,2-,2+\t*\n")

	cov := g.PathCoverage()
	tests := []struct {
		id   uint64
		want int
	}{
		{id: 1, want: 2},
		{id: 2, want: 2}, // the loop path counts once
		{id: 3, want: 2},
		{id: 4, want: 0}, // untouched segments are absent
	}
	for _, tt := range tests {
		if got := cov[tt.id]; got != tt.want {
			t.Fatalf("coverage[%d] = %d, want %d", tt.id, got, tt.want)
		}
	}
	if _, ok := cov[4]; ok {
		t.Fatal("segment 4 should not appear in the coverage map")
	}
}

func TestSubgraphGFA(t *testing.T) {
	g := mustParse(t, sampleGFA)

	// Order, duplicates and unknown ids in the selection don't matter.
	got := g.SubgraphGFA([]uint64{3, 2, 2, 99})
	want := "H\tVN:Z:1.0\n" +
		"S\t2\tTACA\n" +
		"S\t3\t*\n" +
		"L\t2\t+\t3\t-\t0M\n"
	if got != want {
		t.Fatalf("subgraph:\n%s\nwant:\n%s", got, want)
	}
}

func TestSubgraphGFAEmptySelection(t *testing.T) {
	g := mustParse(t, sampleGFA)
	if got := g.SubgraphGFA(nil); got != "H\tVN:Z:1.0\n" {
		t.Fatalf("empty selection produced %q", got)
	}
}
