package main

import (
	"fmt"
	"strconv"
	"strings"

	"gfascope/menu"
	"gfascope/work"
)

// registerActions installs the built-in context actions. Effects run on the
// render goroutine; anything slow or blocking moves onto the pool, and every
// result comes back through the command queue so the next frame applies it.
func registerActions(r *menu.Registry[*actionEnv]) {
	r.MustRegister(menu.Action[*actionEnv]{
		ID:       "copy-node-id",
		Label:    "Copy node ID",
		Requires: []menu.Key{menu.KeyNode},
		Effect:   copyNodeID,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:       "copy-node-seq",
		Label:    "Copy node sequence",
		Requires: []menu.Key{menu.KeyNode},
		Effect:   copyNodeSeq,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:       "copy-path-name",
		Label:    "Copy path name",
		Requires: []menu.Key{menu.KeyPath},
		Effect:   copyPathName,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:       "copy-subgraph",
		Label:    "Copy subgraph GFA",
		Requires: []menu.Key{menu.KeySelection},
		Effect:   copySubgraph,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:     "pan-to-node",
		Label:  "Go to node",
		Effect: panToNode,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:       "pan-to-selection",
		Label:    "Pan to selection",
		Requires: []menu.Key{menu.KeySelection},
		Effect:   panToSelection,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:       "clear-selection",
		Label:    "Clear selection",
		Requires: []menu.Key{menu.KeySelection},
		Effect: func(env *actionEnv) {
			env.cmds.Push(clearSelectionMsg{})
		},
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:     "coverage-overlay",
		Label:  "Path coverage overlay",
		Effect: computeCoverage,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:     "save-view",
		Label:  "Save view",
		Effect: saveView,
	})
	r.MustRegister(menu.Action[*actionEnv]{
		ID:    "fit-view",
		Label: "Fit view to graph",
		Effect: func(env *actionEnv) {
			env.cmds.Push(fitViewMsg{})
		},
	})
}

func copyNodeID(env *actionEnv) {
	id, ok := env.store.Node()
	if !ok {
		return
	}
	env.clip.Set("node id", strconv.FormatUint(id, 10))
	env.cmds.Push(noteMsg{text: fmt.Sprintf("Copied node id %d", id)})
}

func copyNodeSeq(env *actionEnv) {
	id, ok := env.store.Node()
	if !ok {
		return
	}
	seq, ok := env.graph.Sequence(id)
	if !ok {
		return
	}
	if seq == "" {
		env.cmds.Push(noteMsg{text: fmt.Sprintf("Node %d has no stored sequence", id), isErr: true})
		return
	}
	env.clip.Set("node sequence", seq)
	env.cmds.Push(noteMsg{text: fmt.Sprintf("Copied node %d sequence (%s)", id, humanBases(len(seq)))})
}

func copyPathName(env *actionEnv) {
	name, ok := env.store.Path()
	if !ok {
		return
	}
	env.clip.Set("path name", name)
	env.cmds.Push(noteMsg{text: fmt.Sprintf("Copied path name %q", name)})
}

// copySubgraph renders the selected nodes as GFA text off the render
// goroutine. The frame loop polls the returned handle and lands the text in
// the clipboard when it is done.
func copySubgraph(env *actionEnv) {
	ids, ok := env.store.Selection()
	if !ok || len(ids) == 0 {
		return
	}
	g := env.graph
	h := work.Spawn(env.pool, func() subgraphResult {
		kept := 0
		for _, id := range ids {
			if g.HasNode(id) {
				kept++
			}
		}
		return subgraphResult{gfaText: g.SubgraphGFA(ids), nodes: kept}
	})
	env.log.Debugf("subgraph export task %s: %d selected nodes", h.ID(), len(ids))
	env.cmds.Push(subgraphTaskMsg{handle: h})
}

// panToNode prompts for a node id and, once the dialog resolves, pushes the
// move command. The await runs on a pool worker; the dialog staying open
// never stalls a frame. Cancelled or unusable input ends the flow silently,
// the dialog closing is feedback enough.
func panToNode(env *actionEnv) {
	ch, err := env.broker.Open("Go to node", "node id")
	if err != nil {
		env.cmds.Push(noteMsg{text: "Another dialog is already open", isErr: true})
		return
	}
	g := env.graph
	cmds := env.cmds
	ok := work.SpawnForget(env.pool, func() {
		res := <-ch
		if res.Canceled {
			return
		}
		id, err := strconv.ParseUint(strings.TrimSpace(res.Value), 10, 64)
		if err != nil {
			return
		}
		if !g.HasNode(id) {
			return
		}
		cmds.Push(gotoNodeMsg{id: id})
	})
	if !ok {
		env.broker.Cancel()
	}
}

func panToSelection(env *actionEnv) {
	ids, ok := env.store.Selection()
	if !ok || len(ids) == 0 {
		return
	}
	env.cmds.Push(panToSelectionMsg{ids: ids})
}

// saveView prompts for a name and defers the actual write to the frame loop,
// which owns the current camera view and the history store.
func saveView(env *actionEnv) {
	ch, err := env.broker.Open("Save view as", "view name")
	if err != nil {
		env.cmds.Push(noteMsg{text: "Another dialog is already open", isErr: true})
		return
	}
	cmds := env.cmds
	ok := work.SpawnForget(env.pool, func() {
		res := <-ch
		if res.Canceled {
			return
		}
		name := strings.TrimSpace(res.Value)
		if name == "" {
			return
		}
		cmds.Push(saveViewMsg{name: name})
	})
	if !ok {
		env.broker.Cancel()
	}
}

// computeCoverage walks every path once on a pool worker and buckets each
// node by how many paths visit it. The handle comes back through the queue
// and the frame loop adopts the classes when the walk finishes.
func computeCoverage(env *actionEnv) {
	g := env.graph
	h := work.Spawn(env.pool, func() overlayResult {
		if g.PathCount() == 0 {
			return overlayResult{err: fmt.Errorf("graph has no paths")}
		}
		counts := g.PathCoverage()
		classes := make(map[uint64]uint8, g.NodeCount())
		for _, id := range g.NodeIDs() {
			classes[id] = coverageBucket(counts[id])
		}
		return overlayResult{classes: classes}
	})
	env.log.Debugf("coverage overlay task %s: %d paths over %d nodes", h.ID(), g.PathCount(), g.NodeCount())
	env.cmds.Push(overlayTaskMsg{handle: h})
}

// coverageBucket maps a path count onto the five display classes. The steps
// double so dense pangenome cores don't wash out the whole ramp.
func coverageBucket(n int) uint8 {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 1
	case n <= 3:
		return 2
	case n <= 7:
		return 3
	default:
		return 4
	}
}
