package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Styles — Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	// Modal titles
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	// Header bar (spans full width)
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	// App name in header
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	// File name in header
	headerFileStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle)

	// Graph stats / camera readout in header
	headerInfoStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Background(colorSurface0).
			Padding(0, 2)

	// Modal overlay
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	// Help key styling
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	// Filter query inside pickers and the palette
	searchInputStyle = lipgloss.NewStyle().Foreground(colorText)

	infoLabelStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// applyAccent recolors the accent-driven chrome. Runs once at startup,
// before the first render.
func applyAccent(hex string) {
	c := lipgloss.Color(hex)
	colorAccent = c
	modalStyle = modalStyle.BorderForeground(c)
	helpKeyStyle = helpKeyStyle.Foreground(c)
	cursorStyle = cursorStyle.Foreground(c)
}

// ---------------------------------------------------------------------------
// Chrome rendering
// ---------------------------------------------------------------------------

func renderHeader(appName, file, info string, width int) string {
	name := headerAppStyle.Render(appName)
	content := name + "  " + headerFileStyle.Render(file)
	if info != "" {
		content += "  " + headerInfoStyle.Render(info)
	}
	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(content)
}

func (m model) renderFooter(bindings []key.Binding) string {
	// Build help text where every character carries the footer background.
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(truncate(content, m.width-4))
}

func (m model) renderStatus(text string, isErr bool) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	style := statusBarStyle
	if isErr {
		style = statusErrStyle
	}
	if m.width == 0 {
		return style.Render(flat)
	}
	return style.Width(m.width).Render(truncate(flat, m.width-4))
}

// ---------------------------------------------------------------------------
// Modal content helpers
// ---------------------------------------------------------------------------

// renderModalContent stacks a styled title, body lines and a footer hint line
// into the body of a modal. Framing (border, width) is applied by the caller.
func renderModalContent(title string, lines []string, footer string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	return b.String()
}

// renderActionHint renders one "key description" help fragment for a modal
// footer, preferring the registered binding over the fallback labels.
func renderActionHint(keys *KeyRegistry, scope string, action Action, fallbackKey, fallbackDesc string) string {
	keyLabel, desc := fallbackKey, fallbackDesc
	if keys != nil {
		for _, b := range keys.BindingsForScope(scope) {
			if b.Action == action && len(b.Keys) > 0 {
				keyLabel = b.Keys[0]
				if b.Help != "" {
					desc = b.Help
				}
				break
			}
		}
	}
	return helpKeyStyle.Render(keyLabel) + " " + helpDescStyle.Render(desc)
}

func padStyledLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
