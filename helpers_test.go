package main

import (
	"strings"
	"testing"

	"gfascope/gfa"
	"gfascope/internal/config"
	applog "gfascope/log"
)

// testGFA is a small graph with two overlapping paths: node 1 sits on both,
// nodes 2 and 3 each on one, node 4 on none.
const testGFA = `H	VN:Z:1.0
S	1	ACGT
S	2	TTTT
S	3	*
S	4	GG
L	1	+	2	+	0M
L	2	+	3	-	0M
L	3	+	4	+	0M
P	alpha	1+,2+	*
P	beta	1-,3+	*
`

func testConfig() config.Config {
	return config.Config{
		Camera: config.CameraConfig{MinScale: 0.5, PanStep: 120, ZoomStep: 0.25},
		UI:     config.UIConfig{FPS: 60, ShowEdges: true},
	}
}

func mustGraph(t *testing.T, text string) *gfa.Graph {
	t.Helper()
	g, err := gfa.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse test graph: %v", err)
	}
	return g
}

// newTestModelWith builds a model over the given graph text with no history
// store. The animator goroutine stays unstarted; tests drive the pipeline by
// hand through onFrame.
func newTestModelWith(t *testing.T, gfaText string) model {
	t.Helper()
	g := mustGraph(t, gfaText)
	m := newModel(testConfig(), applog.New("test"), "/tmp/test.gfa", "", g, gfa.SpineLayout(g), nil)
	m.width = 80
	m.height = 24
	t.Cleanup(func() {
		m.broker.Cancel()
		m.pool.Close()
	})
	return m
}

func newTestModel(t *testing.T) model {
	t.Helper()
	return newTestModelWith(t, testGFA)
}

// runFrames drives the frame pipeline n times.
func runFrames(t *testing.T, m model, n int) model {
	t.Helper()
	for i := 0; i < n; i++ {
		next, _ := m.onFrame()
		m = next.(model)
	}
	return m
}

// readyModel is a model whose context store has been ticked to Ready.
func readyModel(t *testing.T) model {
	t.Helper()
	return runFrames(t, newTestModel(t), 2)
}

// drainMsgs empties the model's command queue, returning what was in it.
func drainMsgs(m model) []appMsg {
	var out []appMsg
	m.cmds.Drain(func(am appMsg) { out = append(out, am) })
	return out
}

// materializeWith rebuilds the snapshot immediately from the current pointer
// state, the way the next frame would.
func materializeWith(t *testing.T, m *model) {
	t.Helper()
	if !m.store.RequestOpen() {
		t.Fatal("store not ready for a snapshot request")
	}
	if !m.store.Materialize() {
		t.Fatal("snapshot did not materialize")
	}
}
