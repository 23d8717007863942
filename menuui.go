package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gfascope/camera"
	"gfascope/menu"
)

// ---------------------------------------------------------------------------
// Context menu
// ---------------------------------------------------------------------------
// The menu never opens on the frame that requested it: the request raises the
// snapshot flag and the menu appears right after the snapshot materializes,
// listing exactly the actions that snapshot supports.

type menuState struct {
	items  []*menu.Action[*actionEnv]
	cursor int
}

// openMenuAt requests a context menu anchored at a canvas cell. Before the
// store is ready the request is silently dropped.
func (m *model) openMenuAt(col, row int) {
	if !m.store.RequestOpen() {
		return
	}
	m.menuWait = true
	m.menuCol = col
	m.menuRow = row
}

// openMenuAtCurrent anchors the menu at the current node when one is on
// screen and at the canvas center otherwise.
func (m *model) openMenuAtCurrent() {
	col := m.width / 2
	row := m.canvasRows() / 2
	if m.hasCur {
		if p, ok := m.layout.Pos(m.current); ok {
			sp := m.view.WorldToScreen(camera.Vec2{X: p.X, Y: p.Y})
			c, r := int(sp.X), int(sp.Y)/2
			if c >= 0 && c < m.width && r >= 0 && r < m.canvasRows() {
				col, row = c, r
			}
		}
	}
	m.openMenuAt(col, row)
}

// openMenuFromSnapshot builds the menu from the just-materialized snapshot.
// A context with nothing to offer shows no menu at all.
func (m *model) openMenuFromSnapshot() {
	items := m.registry.Applicable(m.store)
	if len(items) == 0 {
		m.setStatus("No actions apply here")
		return
	}
	m.log.Debugf("context menu: %d actions offered", len(items))
	m.menuUI = &menuState{items: items}
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ui := m.menuUI
	binding := m.keys.Lookup(msg.String(), scopeMenu)
	if binding == nil {
		return m, nil
	}
	switch binding.Action {
	case actionClose:
		m.menuUI = nil
	case actionNavigate:
		switch msg.String() {
		case "k", "up":
			if ui.cursor > 0 {
				ui.cursor--
			}
		case "j", "down":
			if ui.cursor < len(ui.items)-1 {
				ui.cursor++
			}
		}
	case actionSelect:
		if ui.cursor < len(ui.items) {
			id := ui.items[ui.cursor].ID
			m.menuUI = nil
			if !m.registry.Invoke(id, m.store, m.env) {
				m.setStatus("Action no longer applicable")
			}
		}
	case actionQuit:
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func renderMenu(ui *menuState) string {
	if ui == nil {
		return ""
	}
	width := 0
	for _, a := range ui.items {
		if w := len(a.Label); w > width {
			width = w
		}
	}
	width += 4

	var b strings.Builder
	for i, a := range ui.items {
		label := lipgloss.NewStyle().Foreground(colorText).Render(a.Label)
		row := "  " + label
		if i == ui.cursor {
			row = cursorStyle.Render("> ") + label
			row = lipgloss.NewStyle().Background(colorSurface0).Render(padStyledLine(row, width))
		} else {
			row = padStyledLine(row, width)
		}
		b.WriteString(row)
		if i < len(ui.items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
