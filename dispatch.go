package main

// ---------------------------------------------------------------------------
// Shared dispatch table: single source of truth for overlay priority
// ---------------------------------------------------------------------------
//
// Three consumers read this table:
//   - Update (update.go)        — finds the active handler for a tea.KeyMsg
//   - footerBindings (view.go)  — finds the active scope for footer hints
//   - updateMouse (update.go)   — checks whether any overlay eats the pointer
//
// Adding a new overlay: add one entry in the correct priority position and
// all consumers stay in sync.

import tea "github.com/charmbracelet/bubbletea"

// overlayEntry defines one level in the overlay precedence chain. Guard
// reports whether the overlay is active; the first active entry wins.
type overlayEntry struct {
	name    string
	guard   func(m model) bool
	scope   func(m model) string
	handler func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd)
}

// overlayPrecedence returns the authoritative priority table, highest first.
// The typed-input dialog outranks everything because a background task is
// blocked on its answer.
func overlayPrecedence() []overlayEntry {
	return []overlayEntry{
		{
			name:    "dialog",
			guard:   func(m model) bool { return m.broker.Active() },
			scope:   func(m model) string { return scopeModal },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updateDialog(msg) },
		},
		{
			name:    "palette",
			guard:   func(m model) bool { return m.palette != nil },
			scope:   func(m model) string { return scopePalette },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updatePalette(msg) },
		},
		{
			name:    "menu",
			guard:   func(m model) bool { return m.menuUI != nil },
			scope:   func(m model) string { return scopeMenu },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updateMenu(msg) },
		},
		{
			name:    "picker",
			guard:   func(m model) bool { return m.picker != nil },
			scope:   func(m model) string { return scopePicker },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updatePicker(msg) },
		},
		{
			name:    "paths",
			guard:   func(m model) bool { return m.paths != nil },
			scope:   func(m model) string { return scopePaths },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) { return m.updatePathsPane(msg) },
		},
	}
}

// dispatchOverlayKey finds the first active overlay and dispatches the key.
// Returns handled=false when no overlay is active and the caller should
// continue with canvas-level dispatch.
func (m model) dispatchOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			next, cmd := entry.handler(m, msg)
			return next, cmd, true
		}
	}
	return m, nil, false
}

// activeOverlayScope returns the scope of the highest-priority active
// overlay, or "" when the canvas has the keyboard.
func (m model) activeOverlayScope() string {
	for _, entry := range overlayPrecedence() {
		if entry.guard(m) {
			return entry.scope(m)
		}
	}
	return ""
}

// overlayActive reports whether any overlay is on screen.
func (m model) overlayActive() bool {
	return m.activeOverlayScope() != ""
}

// updateDialog routes keys to the typed-input dialog.
func (m model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, cmd := m.broker.HandleKey(msg)
	return m, cmd
}
