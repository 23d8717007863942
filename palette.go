package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gfascope/menu"
)

// ---------------------------------------------------------------------------
// Action palette
// ---------------------------------------------------------------------------
// Fuzzy-searchable list of every action applicable to the current context
// snapshot. Opening it raises the snapshot flag, so the first materialization
// after open refreshes the offered set.

type paletteState struct {
	query   string
	cursor  int
	results []*menu.Action[*actionEnv]
}

func (m *model) openPalette() {
	m.store.RequestOpen()
	p := &paletteState{}
	p.rebuild(m.registry, m.store)
	m.palette = p
}

// rebuild intersects the fuzzy search ranking with the applicable set, so a
// query can never surface an action the snapshot does not support.
func (p *paletteState) rebuild(reg *menu.Registry[*actionEnv], s *menu.Store) {
	offered := make(map[string]bool)
	for _, a := range reg.Applicable(s) {
		offered[a.ID] = true
	}
	var out []*menu.Action[*actionEnv]
	for _, a := range reg.Search(p.query) {
		if offered[a.ID] {
			out = append(out, a)
		}
	}
	p.results = out
	if p.cursor >= len(p.results) {
		p.cursor = len(p.results) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (m model) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.palette
	switch keyName := msg.String(); keyName {
	case "esc":
		m.palette = nil
	case "enter":
		if p.cursor < len(p.results) {
			id := p.results[p.cursor].ID
			m.palette = nil
			if !m.registry.Invoke(id, m.store, m.env) {
				m.setStatus("Action no longer applicable")
			}
		} else {
			m.palette = nil
		}
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "ctrl+n":
		if p.cursor < len(p.results)-1 {
			p.cursor++
		}
	case "backspace":
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			p.rebuild(m.registry, m.store)
		}
	default:
		if isPrintableASCIIKey(keyName) {
			p.query += keyName
			p.rebuild(m.registry, m.store)
		}
	}
	return m, nil
}

func renderPalette(p *paletteState, width int, keys *KeyRegistry) string {
	if p == nil {
		return ""
	}
	var lines []string

	query := strings.TrimSpace(p.query)
	searchValue := lipgloss.NewStyle().Foreground(colorOverlay1).Render("(type to filter)")
	if query != "" {
		searchValue = searchInputStyle.Render(query)
	}
	searchLine := infoLabelStyle.Render("Filter: ") + searchValue
	if width > 0 {
		searchLine = padStyledLine(searchLine, width)
	}
	lines = append(lines, searchLine)

	if len(p.results) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorOverlay1).Render("  no matching actions"))
	}
	for i, a := range p.results {
		label := lipgloss.NewStyle().Foreground(colorText).Render(a.Label)
		row := "  " + label
		if i == p.cursor {
			row = cursorStyle.Render("> ") + label
			row = lipgloss.NewStyle().Background(colorSurface0).Render(padStyledLine(row, width))
		} else if width > 0 {
			row = padStyledLine(row, width)
		}
		lines = append(lines, row)
	}

	footer := strings.Join([]string{
		renderActionHint(keys, scopePalette, actionNavigate, "ctrl+p/n", "navigate"),
		renderActionHint(keys, scopePalette, actionSelect, "enter", "run"),
		renderActionHint(keys, scopePalette, actionClose, "esc", "close"),
	}, "  ")

	return renderModalContent("Actions", lines, footer)
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}
