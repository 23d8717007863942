package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal  = "global"
	scopeCanvas  = "canvas"
	scopeModal   = "modal"
	scopePalette = "palette"
	scopeMenu    = "menu"
	scopePicker  = "picker"
	scopePaths   = "paths"
)

const (
	actionQuit           Action = "quit"
	actionPalette        Action = "palette"
	actionPan            Action = "pan"
	actionCruise         Action = "cruise"
	actionStop           Action = "stop"
	actionZoomIn         Action = "zoom_in"
	actionZoomOut        Action = "zoom_out"
	actionResetView      Action = "reset_view"
	actionGotoNode       Action = "goto_node"
	actionSaveView       Action = "save_view"
	actionCycleNode      Action = "cycle_node"
	actionToggleSelect   Action = "toggle_select"
	actionClearSelection Action = "clear_selection"
	actionToggleEdges    Action = "toggle_edges"
	actionCoverage       Action = "coverage"
	actionMenu           Action = "menu"
	actionOpenFile       Action = "open_file"
	actionViews          Action = "views"
	actionPaths          Action = "paths"
	actionNavigate       Action = "navigate"
	actionPage           Action = "page"
	actionSelect         Action = "select"
	actionDelete         Action = "delete"
	actionClose          Action = "close"
	actionConfirm        Action = "confirm"
	actionCancel         Action = "cancel"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	// Global fallback lookup.
	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(scopeGlobal, actionPalette, []string{"ctrl+k"}, "actions")

	// Canvas footer. Pan and cruise resolve their direction from the pressed
	// key in the handler; the first entry is the display label.
	reg(scopeCanvas, actionPan, []string{"h/j/k/l", "h", "j", "k", "l", "left", "down", "up", "right"}, "pan")
	reg(scopeCanvas, actionCruise, []string{"shift+h/j/k/l", "H", "J", "K", "L"}, "cruise")
	reg(scopeCanvas, actionStop, []string{"space", " "}, "stop")
	reg(scopeCanvas, actionZoomIn, []string{"+", "="}, "zoom in")
	reg(scopeCanvas, actionZoomOut, []string{"-"}, "zoom out")
	reg(scopeCanvas, actionResetView, []string{"0"}, "fit")
	reg(scopeCanvas, actionCycleNode, []string{"n/N", "n", "N"}, "cycle node")
	reg(scopeCanvas, actionToggleSelect, []string{"x"}, "select")
	reg(scopeCanvas, actionClearSelection, []string{"u"}, "clear sel")
	reg(scopeCanvas, actionGotoNode, []string{"g"}, "go to")
	reg(scopeCanvas, actionMenu, []string{"m"}, "menu")
	reg(scopeCanvas, actionPaths, []string{"p"}, "paths")
	reg(scopeCanvas, actionToggleEdges, []string{"e"}, "edges")
	reg(scopeCanvas, actionCoverage, []string{"c"}, "coverage")
	reg(scopeCanvas, actionSaveView, []string{"s"}, "save view")
	reg(scopeCanvas, actionViews, []string{"v"}, "saved views")
	reg(scopeCanvas, actionOpenFile, []string{"o"}, "open file")

	// Typed input dialog footer. The dialog itself consumes the keys.
	reg(scopeModal, actionConfirm, []string{"enter"}, "confirm")
	reg(scopeModal, actionCancel, []string{"esc"}, "cancel")

	// Action palette footer: printable keys edit the filter query.
	reg(scopePalette, actionNavigate, []string{"ctrl+p/n", "up", "down", "ctrl+p", "ctrl+n"}, "navigate")
	reg(scopePalette, actionSelect, []string{"enter"}, "run")
	reg(scopePalette, actionClose, []string{"esc"}, "close")

	// Context menu footer.
	reg(scopeMenu, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeMenu, actionSelect, []string{"enter"}, "run")
	reg(scopeMenu, actionClose, []string{"esc", "m"}, "close")

	// Recent-file / saved-view picker footer.
	reg(scopePicker, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopePicker, actionSelect, []string{"enter"}, "open")
	reg(scopePicker, actionDelete, []string{"d"}, "delete")
	reg(scopePicker, actionClose, []string{"esc"}, "close")

	// Paths pane footer.
	reg(scopePaths, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopePaths, actionPage, []string{"h/l", "h", "l", "left", "right"}, "page")
	reg(scopePaths, actionSelect, []string{"enter"}, "highlight")
	reg(scopePaths, actionClose, []string{"esc", "p"}, "close")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.bindingsByScope[scope]; !ok {
			r.bindingsByScope[scope] = nil
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 {
			continue
		}
		if r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		if b := r.lookupInScope(keyName, scopeGlobal); b != nil {
			return b
		}
	}
	return nil
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if len(b.Keys) == 0 {
			continue
		}
		helpKey := b.Keys[0]
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey, b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	if scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Preserve single uppercase rune so uppercase/lowercase bindings
			// can be distinct actions within the same scope.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}
