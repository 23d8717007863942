package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gfascope/gfa"
)

// ---------------------------------------------------------------------------
// Paths pane
// ---------------------------------------------------------------------------
// Paged listing of the graph's paths. Selecting one highlights its member
// nodes on the canvas; selecting it again clears the highlight.

const pathsPageSize = 12

type pathsPane struct {
	pageSize int
	page     int
	cursor   int // within the current page
}

func newPathsPane(total int) *pathsPane {
	p := &pathsPane{pageSize: pathsPageSize}
	p.clamp(total)
	return p
}

// pageCount is the number of pages needed for total entries. An empty list
// has zero pages.
func (p *pathsPane) pageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.pageSize - 1) / p.pageSize
}

// clamp keeps page and cursor inside the listing after any navigation.
func (p *pathsPane) clamp(total int) {
	pages := p.pageCount(total)
	if pages == 0 {
		p.page = 0
		p.cursor = 0
		return
	}
	if p.page >= pages {
		p.page = pages - 1
	}
	if p.page < 0 {
		p.page = 0
	}
	onPage := p.onPageCount(total)
	if p.cursor >= onPage {
		p.cursor = onPage - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// onPageCount is how many entries the current page holds; the last page may
// be short.
func (p *pathsPane) onPageCount(total int) int {
	start := p.page * p.pageSize
	n := total - start
	if n > p.pageSize {
		n = p.pageSize
	}
	if n < 0 {
		n = 0
	}
	return n
}

// absIndex is the index of the cursor row in the full path list, or -1 when
// the list is empty.
func (p *pathsPane) absIndex(total int) int {
	if total == 0 {
		return -1
	}
	idx := p.page*p.pageSize + p.cursor
	if idx >= total {
		return -1
	}
	return idx
}

func (p *pathsPane) move(step, total int) {
	p.cursor += step
	if p.cursor < 0 {
		p.cursor = 0
	}
	if onPage := p.onPageCount(total); p.cursor >= onPage {
		p.cursor = onPage - 1
	}
	p.clamp(total)
}

func (p *pathsPane) turn(step, total int) {
	p.page += step
	p.cursor = 0
	p.clamp(total)
}

func (m model) updatePathsPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := m.graph.PathCount()
	binding := m.keys.Lookup(msg.String(), scopePaths)
	if binding == nil {
		return m, nil
	}
	switch binding.Action {
	case actionClose:
		m.paths = nil
	case actionNavigate:
		switch msg.String() {
		case "k", "up":
			m.paths.move(-1, total)
		case "j", "down":
			m.paths.move(1, total)
		}
	case actionPage:
		switch msg.String() {
		case "h", "left":
			m.paths.turn(-1, total)
		case "l", "right":
			m.paths.turn(1, total)
		}
	case actionSelect:
		idx := m.paths.absIndex(total)
		if idx < 0 {
			return m, nil
		}
		name := m.graph.Paths()[idx].Name
		if m.highlightPath == name {
			m.setHighlightPath("")
			m.setStatus("Path highlight cleared")
		} else {
			m.setHighlightPath(name)
			m.setStatus(fmt.Sprintf("Highlighting path %s", name))
		}
	case actionQuit:
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func renderPathsPane(p *pathsPane, g *gfa.Graph, highlighted string, keys *KeyRegistry) string {
	if p == nil {
		return ""
	}
	total := g.PathCount()
	var lines []string

	if total == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorOverlay1).Render("  graph has no paths"))
	} else {
		paths := g.Paths()
		start := p.page * p.pageSize
		for i := 0; i < p.onPageCount(total); i++ {
			pt := paths[start+i]
			mark := "  "
			if pt.Name == highlighted {
				mark = lipgloss.NewStyle().Foreground(colorCanvasPath).Render("* ")
			}
			label := lipgloss.NewStyle().Foreground(colorText).Render(pt.Name)
			meta := lipgloss.NewStyle().Foreground(colorSubtext0).
				Render(fmt.Sprintf("  %d steps, %s", len(pt.Steps), humanBases(pathSeqLen(g, pt))))
			row := mark + label + meta
			if i == p.cursor {
				row = cursorStyle.Render("> ") + label + meta
				row = lipgloss.NewStyle().Background(colorSurface0).Render(row)
			}
			lines = append(lines, row)
		}
		pageLine := lipgloss.NewStyle().Foreground(colorOverlay1).
			Render(fmt.Sprintf("Page %d/%d", p.page+1, p.pageCount(total)))
		lines = append(lines, "", pageLine)
	}

	footer := strings.Join([]string{
		renderActionHint(keys, scopePaths, actionNavigate, "j/k", "navigate"),
		renderActionHint(keys, scopePaths, actionPage, "h/l", "page"),
		renderActionHint(keys, scopePaths, actionSelect, "enter", "highlight"),
		renderActionHint(keys, scopePaths, actionClose, "esc", "close"),
	}, "  ")

	return renderModalContent("Paths", lines, footer)
}

// pathSeqLen sums the sequence lengths along a path's steps. Nodes the path
// visits twice count twice, matching walked bases rather than node span.
func pathSeqLen(g *gfa.Graph, p *gfa.Path) int {
	n := 0
	for _, step := range p.Steps {
		if seq, ok := g.Sequence(step.Node); ok {
			n += len(seq)
		}
	}
	return n
}
