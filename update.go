package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gfascope/camera"
	"gfascope/internal/history"
	"gfascope/menu"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m.onFrame()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.anim.Send(camera.Resize{Width: float64(msg.Width), Height: float64(m.canvasRows() * 2)})
		if !m.fitted {
			m.fitted = true
			m.cmds.Push(fitViewMsg{})
		}
		return m, nil
	case tea.KeyMsg:
		if next, cmd, handled := m.dispatchOverlayKey(msg); handled {
			return next, cmd
		}
		return m.updateCanvas(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case statusMsg:
		if msg.isErr {
			m.setError(msg.text)
		} else if msg.text != "" {
			m.setStatus(msg.text)
		}
		return m, nil
	case recentFilesMsg:
		return m.handleRecentFiles(msg)
	case savedViewsMsg:
		return m.handleSavedViews(msg)
	case viewSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Save view failed: %v", msg.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("View %q saved", msg.name))
		return m, nil
	case viewDeletedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Delete failed: %v", msg.err))
			return m, nil
		}
		m.setStatus("Saved view deleted")
		if m.picker != nil && m.picker.kind == pickerViews && m.hist != nil {
			return m, savedViewsCmd(m.hist, m.graphPath)
		}
		return m, nil
	case graphLoadedMsg:
		return m.handleGraphLoaded(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Frame pipeline
// ---------------------------------------------------------------------------

// onFrame runs the per-frame pipeline in a fixed order: drain deferred
// commands, poll background tasks, advance the context store, adopt the
// latest camera view, then re-render the canvas from the result.
// fpsSmoothing is the EMA weight for the frame-rate readout.
const fpsSmoothing = 0.1

func (m model) onFrame() (tea.Model, tea.Cmd) {
	now := time.Now()
	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
			inst := 1 / dt
			if m.fpsEMA == 0 {
				m.fpsEMA = inst
			} else {
				m.fpsEMA += fpsSmoothing * (inst - m.fpsEMA)
			}
		}
	}
	m.lastFrame = now
	m.frameN++
	if m.frameN%600 == 0 {
		m.log.Debugf("frame %d: %.1f fps, zoom %.2f", m.frameN, m.fpsEMA, m.view.Scale)
	}

	var cmds []tea.Cmd

	m.cmds.Drain(func(am appMsg) {
		if c := m.applyAppMsg(am); c != nil {
			cmds = append(cmds, c)
		}
	})

	if m.subgraphTask != nil && m.subgraphTask.Poll() {
		if res, ok := m.subgraphTask.Take(); ok {
			m.clip.Set("subgraph gfa", res.gfaText)
			m.setStatus(fmt.Sprintf("Copied %d-node subgraph GFA to clipboard", res.nodes))
		}
		m.subgraphTask = nil
	}

	if m.covTask != nil && m.covTask.Poll() {
		if res, ok := m.covTask.Take(); ok {
			if res.err != nil {
				m.setError(fmt.Sprintf("Coverage overlay: %v", res.err))
			} else {
				m.coverage = res.classes
				m.setStatus("Coverage overlay on")
			}
		}
		m.covTask = nil
	}

	m.store.Tick()
	if m.store.Materialize() {
		if m.menuWait {
			m.menuWait = false
			m.openMenuFromSnapshot()
		}
		if m.palette != nil {
			m.palette.rebuild(m.registry, m.store)
		}
	}

	if v, ok := m.anim.TryView(); ok {
		m.view = v
	}

	m.canvas, m.cellIdx = renderCanvas(m.graph, m.layout, m.view, canvasOptions{
		showEdges:  m.showEdges,
		selected:   m.selected,
		current:    m.current,
		hasCurrent: m.hasCur,
		pathMember: m.pathMember,
		coverage:   m.coverage,
	})

	cmds = append(cmds, m.frameTick())
	return m, tea.Batch(cmds...)
}

// applyAppMsg handles one drained command. Some commands turn into async
// follow-ups, returned as a tea.Cmd.
func (m *model) applyAppMsg(am appMsg) tea.Cmd {
	switch am := am.(type) {
	case gotoNodeMsg:
		if p, ok := m.layout.Pos(am.id); ok {
			m.anim.Send(camera.SetCenter{Center: camera.Vec2{X: p.X, Y: p.Y}})
			m.setCurrent(am.id)
			m.setStatus(fmt.Sprintf("Moved to node %d", am.id))
		}
	case panToSelectionMsg:
		var sx, sy float64
		n := 0
		for _, id := range am.ids {
			if p, ok := m.layout.Pos(id); ok {
				sx += p.X
				sy += p.Y
				n++
			}
		}
		if n > 0 {
			m.anim.Send(camera.SetCenter{Center: camera.Vec2{X: sx / float64(n), Y: sy / float64(n)}})
			m.setStatus(fmt.Sprintf("Centered on %d selected nodes", n))
		}
	case fitViewMsg:
		center, scale := m.layout.Fit(m.view.Width, m.view.Height)
		m.anim.Send(camera.SetCenter{Center: camera.Vec2{X: center.X, Y: center.Y}})
		m.anim.Send(camera.SetScale{Scale: scale})
	case saveViewMsg:
		if m.hist == nil {
			m.setError("History store unavailable")
			return nil
		}
		return saveViewCmd(m.hist, m.graphPath, am.name, m.view)
	case clearSelectionMsg:
		m.clearSelection()
		m.setStatus("Selection cleared")
	case toggleEdgesMsg:
		m.showEdges = !m.showEdges
	case subgraphTaskMsg:
		m.subgraphTask = am.handle
	case overlayTaskMsg:
		m.covTask = am.handle
		m.setStatus("Computing path coverage")
	case noteMsg:
		if am.isErr {
			m.setError(am.text)
		} else {
			m.setStatus(am.text)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Canvas key handling
// ---------------------------------------------------------------------------

func (m model) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := msg.String()
	binding := m.keys.Lookup(keyName, scopeCanvas)
	if binding == nil {
		return m, nil
	}

	switch binding.Action {
	case actionQuit:
		m.shutdown()
		return m, tea.Quit
	case actionPan:
		dx, dy := panDirection(keyName)
		step := m.cfg.Camera.PanStep
		m.anim.Send(camera.Pan{Delta: camera.Vec2{X: dx * step, Y: dy * step}})
	case actionCruise:
		dx, dy := panDirection(keyName)
		step := m.cfg.Camera.PanStep
		m.anim.Send(camera.PanConstant{Delta: camera.Vec2{X: dx * step, Y: dy * step}})
	case actionStop:
		m.anim.Send(camera.PanConstant{})
	case actionZoomIn:
		m.anim.Send(camera.Zoom{Delta: -m.cfg.Camera.ZoomStep})
	case actionZoomOut:
		m.anim.Send(camera.Zoom{Delta: m.cfg.Camera.ZoomStep})
	case actionResetView:
		m.cmds.Push(fitViewMsg{})
	case actionCycleNode:
		if keyName == "N" {
			m.cycleCurrent(-1)
		} else {
			m.cycleCurrent(1)
		}
	case actionToggleSelect:
		if m.hasCur {
			m.toggleSelected(m.current)
		}
	case actionClearSelection:
		m.cmds.Push(clearSelectionMsg{})
	case actionToggleEdges:
		m.cmds.Push(toggleEdgesMsg{})
	case actionCoverage:
		if m.coverage != nil {
			m.coverage = nil
			m.setStatus("Coverage overlay off")
		} else if m.covTask == nil {
			m.registry.Invoke("coverage-overlay", m.store, m.env)
		}
	case actionGotoNode:
		m.registry.Invoke("pan-to-node", m.store, m.env)
	case actionSaveView:
		m.registry.Invoke("save-view", m.store, m.env)
	case actionPalette:
		m.openPalette()
	case actionMenu:
		m.openMenuAtCurrent()
	case actionPaths:
		m.paths = newPathsPane(m.graph.PathCount())
	case actionOpenFile:
		if m.hist == nil {
			// No history store: browse-only picker.
			m.picker = newFilePicker(nil, m.browseDir())
			return m, nil
		}
		return m, recentFilesCmd(m.hist)
	case actionViews:
		if m.hist == nil {
			m.setError("History store unavailable")
			return m, nil
		}
		return m, savedViewsCmd(m.hist, m.graphPath)
	}
	return m, nil
}

// panDirection maps a pressed key to a unit direction. The binding already
// guarantees the key is one of the pan/cruise set.
func panDirection(keyName string) (dx, dy float64) {
	switch keyName {
	case "h", "H", "left":
		return -1, 0
	case "l", "L", "right":
		return 1, 0
	case "k", "K", "up":
		return 0, -1
	case "j", "J", "down":
		return 0, 1
	}
	return 0, 0
}

// ---------------------------------------------------------------------------
// Mouse handling
// ---------------------------------------------------------------------------

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Overlays swallow pointer input except the wheel, which always zooms.
	if m.overlayActive() {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.anim.Send(camera.Zoom{Delta: -m.cfg.Camera.ZoomStep})
		case tea.MouseButtonWheelDown:
			m.anim.Send(camera.Zoom{Delta: m.cfg.Camera.ZoomStep})
		}
		return m, nil
	}

	col, row := msg.X, msg.Y-1 // canvas starts under the header line

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.anim.Send(camera.Zoom{Delta: -m.cfg.Camera.ZoomStep})
	case msg.Button == tea.MouseButtonWheelDown:
		m.anim.Send(camera.Zoom{Delta: m.cfg.Camera.ZoomStep})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if id, ok := m.cellIdx.nodeAt(col, row); ok {
			m.setCurrent(id)
			m.toggleSelected(id)
		} else {
			m.dragging = true
			m.dragCol, m.dragRow = col, row
		}
	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft && m.dragging:
		dx := float64(col-m.dragCol) * m.view.Scale
		dy := float64(row-m.dragRow) * 2 * m.view.Scale
		m.dragCol, m.dragRow = col, row
		m.anim.Send(camera.SetCenter{Center: camera.Vec2{X: m.view.Center.X - dx, Y: m.view.Center.Y - dy}})
	case msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion:
		if id, ok := m.cellIdx.nodeAt(col, row); ok {
			m.setCurrent(id)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		if id, ok := m.cellIdx.nodeAt(col, row); ok {
			m.setCurrent(id)
			m.store.Publish(menu.NodeValue{ID: id})
		}
		m.openMenuAt(col, row)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Async message handlers
// ---------------------------------------------------------------------------

func (m model) handleRecentFiles(msg recentFilesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Recent files: %v", msg.err))
		return m, nil
	}
	m.picker = newFilePicker(msg.files, m.browseDir())
	return m, nil
}

func (m model) handleSavedViews(msg savedViewsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Saved views: %v", msg.err))
		return m, nil
	}
	m.picker = newViewsPicker(msg.views)
	return m, nil
}

func (m model) handleGraphLoaded(msg graphLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Open failed: %v", msg.err))
		return m, nil
	}
	// Cancel any prompt still waiting on the old graph before swapping it out.
	m.broker.Cancel()
	m.graph = msg.graph
	m.layout = msg.layout
	m.graphPath = msg.path
	m.layoutPath = msg.layoutPath
	m.env.graph = msg.graph
	m.env.layout = msg.layout
	m.selected = make(map[uint64]bool)
	m.syncSelection()
	m.clearCurrent()
	m.setHighlightPath("")
	m.subgraphTask = nil
	m.covTask = nil
	m.coverage = nil
	m.cmds.Push(fitViewMsg{})
	m.setStatus(fmt.Sprintf("Opened %s: %d nodes, %d edges, %d paths",
		msg.path, msg.graph.NodeCount(), msg.graph.EdgeCount(), msg.graph.PathCount()))
	if m.hist != nil {
		return m, touchRecentCmd(m.hist, msg.path)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Async commands
// ---------------------------------------------------------------------------

const historyTimeout = 5 * time.Second

func recentFilesCmd(hist *history.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		files, err := hist.RecentFiles(ctx, 20)
		return recentFilesMsg{files: files, err: err}
	}
}

func savedViewsCmd(hist *history.Store, file string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		views, err := hist.ViewsFor(ctx, file)
		return savedViewsMsg{views: views, err: err}
	}
}

func saveViewCmd(hist *history.Store, file, name string, v camera.View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		_, err := hist.SaveView(ctx, history.SavedView{
			File:    file,
			Name:    name,
			CenterX: v.Center.X,
			CenterY: v.Center.Y,
			Scale:   v.Scale,
		})
		return viewSavedMsg{name: name, err: err}
	}
}

func deleteViewCmd(hist *history.Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		return viewDeletedMsg{err: hist.DeleteView(ctx, id)}
	}
}

func touchRecentCmd(hist *history.Store, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if err := hist.TouchRecent(ctx, path); err != nil {
			return statusMsg{text: fmt.Sprintf("History: %v", err), isErr: true}
		}
		return statusMsg{}
	}
}

func loadGraphCmd(path, layoutPath string) tea.Cmd {
	return func() tea.Msg {
		g, lay, resolved, err := loadGraph(path, layoutPath)
		if err != nil {
			return graphLoadedMsg{path: path, err: err}
		}
		return graphLoadedMsg{path: path, layoutPath: resolved, graph: g, layout: lay}
	}
}
