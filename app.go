package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gfascope/camera"
	"gfascope/flow"
	"gfascope/gfa"
	"gfascope/internal/config"
	"gfascope/internal/history"
	applog "gfascope/log"
	"gfascope/menu"
	"gfascope/modal"
	"gfascope/work"
)

const appName = "gfascope"

// ---------------------------------------------------------------------------
// Shared pointer state
// ---------------------------------------------------------------------------

// pointerState is the live interaction state the context producers read when
// a menu snapshot materializes. Update mutates it through the model's
// pointer; producers close over it at startup.
type pointerState struct {
	mu         sync.Mutex
	current    uint64
	hasCurrent bool
	selected   []uint64
	path       string
	hasPath    bool
}

func (st *pointerState) setCurrent(id uint64, ok bool) {
	st.mu.Lock()
	st.current, st.hasCurrent = id, ok
	st.mu.Unlock()
}

func (st *pointerState) setSelected(ids []uint64) {
	st.mu.Lock()
	st.selected = ids
	st.mu.Unlock()
}

func (st *pointerState) setPath(name string, ok bool) {
	st.mu.Lock()
	st.path, st.hasPath = name, ok
	st.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Action environment
// ---------------------------------------------------------------------------

// actionEnv is what action effects run against. Effects read the snapshot
// through store, publish results through clip and cmds, and start background
// flows on pool; they never reach into the model.
type actionEnv struct {
	graph  *gfa.Graph
	layout *gfa.Layout
	store  *menu.Store
	clip   *menu.Clipboard
	cmds   *flow.Queue[appMsg]
	pool   *work.Pool
	broker *modal.Broker
	log    applog.Logger
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	cfg  config.Config
	log  applog.Logger
	keys *KeyRegistry

	graphPath  string
	layoutPath string
	graph      *gfa.Graph
	layout     *gfa.Layout

	hist *history.Store // nil when history is unavailable

	anim     *camera.Animator
	stopAnim context.CancelFunc
	view     camera.View
	pool     *work.Pool
	broker   *modal.Broker
	store    *menu.Store
	registry *menu.Registry[*actionEnv]
	clip     *menu.Clipboard
	cmds     *flow.Queue[appMsg]
	ptr      *pointerState
	env      *actionEnv

	width  int
	height int
	fitted bool // initial fit applied after the first resize

	selected map[uint64]bool
	current  uint64
	hasCur   bool
	cycleIdx int // position in NodeIDs for n/N cycling

	highlightPath string
	pathMember    map[uint64]bool

	showEdges bool

	palette  *paletteState
	menuUI   *menuState
	menuWait bool // menu requested, waiting for the snapshot
	menuCol  int
	menuRow  int
	picker   *pickerState
	paths    *pathsPane

	subgraphTask *work.Handle[subgraphResult]
	covTask      *work.Handle[overlayResult]
	coverage     map[uint64]uint8 // nil while no overlay is active

	dragging bool
	dragCol  int
	dragRow  int

	canvas  string
	cellIdx cellIndex

	status    string
	statusErr bool

	frameEvery time.Duration
	frameN     uint64
	lastFrame  time.Time
	fpsEMA     float64
}

func newModel(cfg config.Config, logger applog.Logger, graphPath, layoutPath string, g *gfa.Graph, lay *gfa.Layout, hist *history.Store) model {
	fps := cfg.UI.FPS
	if fps < 1 {
		fps = 60
	}

	pool := work.NewPool(work.DefaultWorkers)
	broker := modal.NewBroker()
	store := menu.NewStore()
	clip := menu.NewClipboard()
	cmds := flow.NewQueue[appMsg]()
	ptr := &pointerState{}

	store.Register(func() (menu.Value, bool) {
		ptr.mu.Lock()
		defer ptr.mu.Unlock()
		if !ptr.hasCurrent {
			return nil, false
		}
		return menu.NodeValue{ID: ptr.current}, true
	})
	store.Register(func() (menu.Value, bool) {
		ptr.mu.Lock()
		defer ptr.mu.Unlock()
		if len(ptr.selected) == 0 {
			return nil, false
		}
		ids := append([]uint64(nil), ptr.selected...)
		return menu.SelectionValue{IDs: ids}, true
	})
	store.Register(func() (menu.Value, bool) {
		ptr.mu.Lock()
		defer ptr.mu.Unlock()
		if !ptr.hasPath {
			return nil, false
		}
		return menu.PathValue{Name: ptr.path}, true
	})

	env := &actionEnv{
		graph:  g,
		layout: lay,
		store:  store,
		clip:   clip,
		cmds:   cmds,
		pool:   pool,
		broker: broker,
		log:    logger,
	}
	registry := menu.NewRegistry[*actionEnv]()
	registerActions(registry)

	// Seed the camera with a provisional viewport; the first resize refits.
	initial := camera.NewView(80, 48)
	center, scale := lay.Fit(initial.Width, initial.Height)
	initial.Center = camera.Vec2{X: center.X, Y: center.Y}
	initial.Scale = scale

	m := model{
		cfg:        cfg,
		log:        logger,
		keys:       NewKeyRegistry(),
		graphPath:  graphPath,
		layoutPath: layoutPath,
		graph:      g,
		layout:     lay,
		hist:       hist,
		anim:       camera.NewAnimator(initial, cfg.Camera.MinScale),
		view:       initial,
		pool:       pool,
		broker:     broker,
		store:      store,
		registry:   registry,
		clip:       clip,
		cmds:       cmds,
		ptr:        ptr,
		selected:   make(map[uint64]bool),
		cycleIdx:   -1,
		showEdges:  cfg.UI.ShowEdges,
		frameEvery: time.Second / time.Duration(fps),
	}
	m.env = env
	return m
}

// startAnimator launches the camera integrator. The returned cancel is kept
// on the model for shutdown.
func (m *model) startAnimator() {
	ctx, cancel := context.WithCancel(context.Background())
	m.stopAnim = cancel
	go m.anim.Run(ctx)
}

// shutdown releases everything the model owns, in dependency order: pending
// dialogs resolve first so pool tasks blocked on them can finish, then the
// pool drains, then the animator stops.
func (m *model) shutdown() {
	m.broker.Cancel()
	m.pool.Close()
	if m.stopAnim != nil {
		m.stopAnim()
	}
	if m.hist != nil {
		_ = m.hist.Close()
	}
}

func (m model) frameTick() tea.Cmd {
	return tea.Tick(m.frameEvery, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m model) Init() tea.Cmd {
	return m.frameTick()
}

// ---------------------------------------------------------------------------
// Selection and current-node bookkeeping
// ---------------------------------------------------------------------------

func (m *model) setCurrent(id uint64) {
	m.current = id
	m.hasCur = true
	ids := m.graph.NodeIDs()
	m.cycleIdx = sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if m.cycleIdx >= len(ids) || ids[m.cycleIdx] != id {
		m.cycleIdx = -1
	}
	m.ptr.setCurrent(id, true)
}

func (m *model) clearCurrent() {
	m.hasCur = false
	m.cycleIdx = -1
	m.ptr.setCurrent(0, false)
}

func (m *model) cycleCurrent(step int) {
	ids := m.graph.NodeIDs()
	if len(ids) == 0 {
		return
	}
	idx := m.cycleIdx + step
	if m.cycleIdx < 0 {
		idx = 0
		if step < 0 {
			idx = len(ids) - 1
		}
	}
	idx = ((idx % len(ids)) + len(ids)) % len(ids)
	m.cycleIdx = idx
	m.current = ids[idx]
	m.hasCur = true
	m.ptr.setCurrent(m.current, true)
}

func (m *model) toggleSelected(id uint64) {
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
	m.syncSelection()
}

func (m *model) clearSelection() {
	m.selected = make(map[uint64]bool)
	m.syncSelection()
}

func (m *model) syncSelection() {
	ids := make([]uint64, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	m.ptr.setSelected(ids)
}

func (m *model) setHighlightPath(name string) {
	m.highlightPath = name
	if name == "" {
		m.pathMember = nil
		m.ptr.setPath("", false)
		return
	}
	member := make(map[uint64]bool)
	if p, ok := m.graph.Path(name); ok {
		for _, step := range p.Steps {
			member[step.Node] = true
		}
	}
	m.pathMember = member
	m.ptr.setPath(name, true)
}

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

// canvasRows is the terminal rows left for the canvas after the header,
// status and footer lines.
func (m model) canvasRows() int {
	rows := m.height - 3
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m *model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m model) headerInfo() string {
	info := fmt.Sprintf("%d nodes  %d edges  %d paths  %s",
		m.graph.NodeCount(), m.graph.EdgeCount(), m.graph.PathCount(),
		humanBases(m.graph.TotalSeqLen()))
	info += fmt.Sprintf("  zoom %.2f at (%.0f, %.0f)", m.view.Scale, m.view.Center.X, m.view.Center.Y)
	if m.fpsEMA > 0 {
		info += fmt.Sprintf("  %.0f fps", m.fpsEMA)
	}
	if m.hasCur {
		info += fmt.Sprintf("  node %d", m.current)
	}
	if len(m.selected) > 0 {
		info += fmt.Sprintf("  sel %d", len(m.selected))
	}
	if m.highlightPath != "" {
		info += "  path " + m.highlightPath
	}
	return info
}

func humanBases(n int) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1f Gb", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1f Mb", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1f kb", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d b", n)
	}
}

