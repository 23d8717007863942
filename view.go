package main

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View assembles the frame: header, the canvas rendered by the frame
// pipeline, and the status and footer lines, with at most one overlay
// composited on top. Overlay precedence here mirrors dispatchOverlayKey.
func (m model) View() string {
	header := renderHeader(appName, filepath.Base(m.graphPath), m.headerInfo(), m.width)
	statusLine := m.renderStatus(m.status, m.statusErr)
	footer := m.renderFooter(m.footerBindings())

	main := header + "\n" + m.canvas

	if m.broker.Active() {
		return m.composeOverlay(main, statusLine, footer, m.broker.View())
	}
	if m.palette != nil {
		return m.composeOverlay(main, statusLine, footer, renderPalette(m.palette, min(56, m.width-10), m.keys))
	}
	if m.menuUI != nil {
		return m.composeOverlayAt(main, statusLine, footer, renderMenu(m.menuUI), m.menuCol, m.menuRow)
	}
	if m.picker != nil {
		return m.composeOverlay(main, statusLine, footer, renderPicker(m.picker, min(56, m.width-10), m.keys))
	}
	if m.paths != nil {
		return m.composeOverlay(main, statusLine, footer, renderPathsPane(m.paths, m.graph, m.highlightPath, m.keys))
	}
	return m.placeWithFooter(main, statusLine, footer)
}

func (m model) footerBindings() []key.Binding {
	if scope := m.activeOverlayScope(); scope != "" {
		return m.keys.HelpBindings(scope)
	}
	b := append([]key.Binding{}, m.keys.HelpBindings(scopeCanvas)...)
	b = append(b, m.keys.HelpBindings(scopeGlobal)...)
	return b
}

func (m model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Ensure every line is full-width to prevent ghosting from previous frames
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	main = strings.Join(lines, "\n")
	return main + "\n" + statusLine + "\n" + footer
}

func (m model) composeOverlay(base, statusLine, footer, content string) string {
	baseView := m.placeWithFooter(base, statusLine, footer)
	if m.height == 0 || m.width == 0 {
		return baseView + "\n\n" + content
	}
	modalContent := lipgloss.NewStyle().Width(min(60, m.width-10)).Render(content)
	modal := modalStyle.Render(modalContent)

	targetHeight := m.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	return overlayCentered(baseView, modal, m.width, targetHeight)
}

// composeOverlayAt anchors the overlay at a canvas cell, shifting it back
// inside the viewport when it would spill past an edge.
func (m model) composeOverlayAt(base, statusLine, footer, content string, col, row int) string {
	baseView := m.placeWithFooter(base, statusLine, footer)
	if m.height == 0 || m.width == 0 {
		return baseView + "\n\n" + content
	}
	modal := modalStyle.Render(content)
	lines := splitLines(modal)
	modalWidth := maxLineWidth(lines)
	modalHeight := len(lines)

	targetHeight := m.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	x := col
	if x+modalWidth > m.width {
		x = m.width - modalWidth
	}
	if x < 0 {
		x = 0
	}
	y := row + 1 // header offset
	if y+modalHeight > targetHeight {
		y = targetHeight - modalHeight
	}
	if y < 0 {
		y = 0
	}
	return overlayAt(baseView, modal, x, y, m.width, targetHeight)
}
