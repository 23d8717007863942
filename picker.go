package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gfascope/camera"
	"gfascope/internal/history"
)

// ---------------------------------------------------------------------------
// File / saved-view picker
// ---------------------------------------------------------------------------

type pickerKind int

const (
	pickerFiles pickerKind = iota
	pickerViews
)

type pickerItem struct {
	label string
	meta  string
	path  string            // files picker
	view  history.SavedView // views picker
	isDir bool
}

type pickerState struct {
	kind     pickerKind
	title    string
	items    []pickerItem
	filtered []pickerItem
	query    string
	cursor   int
	dir      string       // files picker: directory being browsed
	recents  []pickerItem // files picker: history section, kept across descents
}

type pickerAction int

const (
	pickerActionNone pickerAction = iota
	pickerActionMoved
	pickerActionSelected
	pickerActionDeleted
	pickerActionBrowsed
	pickerActionCancelled
)

type pickerResult struct {
	action pickerAction
	item   pickerItem
}

type scoredPickerItem struct {
	item  pickerItem
	score int
}

func newFilePicker(files []history.RecentFile, dir string) *pickerState {
	recents := make([]pickerItem, 0, len(files))
	for _, f := range files {
		recents = append(recents, pickerItem{
			label: filepath.Base(f.Path),
			meta:  f.LastOpened.Local().Format("2006-01-02 15:04"),
			path:  f.Path,
		})
	}
	p := &pickerState{kind: pickerFiles, title: "Open file", dir: dir, recents: recents}
	p.setItems(append(append([]pickerItem(nil), recents...), browseItems(dir)...))
	return p
}

// browseItems lists dir for the files picker: parent link first, then
// subdirectories, then .gfa files. Hidden entries are skipped; an unreadable
// directory yields no browse section.
func browseItems(dir string) []pickerItem {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var items []pickerItem
	if parent := filepath.Dir(dir); parent != dir {
		items = append(items, pickerItem{label: "..", path: parent, isDir: true})
	}
	var dirs, files []pickerItem
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if e.IsDir() {
			dirs = append(dirs, pickerItem{label: name + "/", path: full, isDir: true})
		} else if strings.EqualFold(filepath.Ext(name), ".gfa") {
			files = append(files, pickerItem{label: name, path: full})
		}
	}
	items = append(items, dirs...)
	return append(items, files...)
}

// browseDir is where the file picker starts browsing: beside the loaded
// graph, else the working directory.
func (m model) browseDir() string {
	if m.graphPath != "" {
		return filepath.Dir(m.graphPath)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// descend re-lists the picker at dir, keeping the recents section and
// dropping any active filter.
func (p *pickerState) descend(dir string) {
	p.dir = dir
	p.query = ""
	p.cursor = 0
	p.setItems(append(append([]pickerItem(nil), p.recents...), browseItems(dir)...))
}

func newViewsPicker(views []history.SavedView) *pickerState {
	items := make([]pickerItem, 0, len(views))
	for _, v := range views {
		items = append(items, pickerItem{
			label: v.Name,
			meta:  fmt.Sprintf("zoom %.2f at (%.0f, %.0f)", v.Scale, v.CenterX, v.CenterY),
			view:  v,
		})
	}
	p := &pickerState{kind: pickerViews, title: "Saved views"}
	p.setItems(items)
	return p
}

func (p *pickerState) setItems(items []pickerItem) {
	p.items = append([]pickerItem(nil), items...)
	p.rebuildFiltered()
}

func (p *pickerState) setQuery(q string) {
	p.query = q
	p.rebuildFiltered()
}

func (p *pickerState) rebuildFiltered() {
	q := strings.TrimSpace(p.query)
	if q == "" {
		// No filter: keep section order (recents, then parent/dirs/files).
		p.filtered = append(p.filtered[:0], p.items...)
		p.clampCursor()
		return
	}
	scored := make([]scoredPickerItem, 0, len(p.items))
	for _, it := range p.items {
		matched, score := fuzzyMatchScore(it.label, q)
		if !matched {
			continue
		}
		scored = append(scored, scoredPickerItem{item: it, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return strings.ToLower(scored[i].item.label) < strings.ToLower(scored[j].item.label)
	})

	p.filtered = p.filtered[:0]
	for _, s := range scored {
		p.filtered = append(p.filtered, s.item)
	}
	p.clampCursor()
}

func (p *pickerState) clampCursor() {
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *pickerState) currentItem() (pickerItem, bool) {
	if p.cursor < 0 || p.cursor >= len(p.filtered) {
		return pickerItem{}, false
	}
	return p.filtered[p.cursor], true
}

func (p *pickerState) handleKey(keyName string) pickerResult {
	switch keyName {
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
			return pickerResult{action: pickerActionMoved}
		}
		return pickerResult{action: pickerActionNone}
	case "j", "down":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
			return pickerResult{action: pickerActionMoved}
		}
		return pickerResult{action: pickerActionNone}
	case "enter":
		if it, ok := p.currentItem(); ok {
			if it.isDir {
				p.descend(it.path)
				return pickerResult{action: pickerActionBrowsed}
			}
			return pickerResult{action: pickerActionSelected, item: it}
		}
		return pickerResult{action: pickerActionNone}
	case "d":
		// Delete is a views-picker verb; in the files picker "d" filters.
		if p.kind == pickerViews {
			if it, ok := p.currentItem(); ok {
				return pickerResult{action: pickerActionDeleted, item: it}
			}
			return pickerResult{action: pickerActionNone}
		}
		p.setQuery(p.query + "d")
		return pickerResult{action: pickerActionNone}
	case "esc":
		return pickerResult{action: pickerActionCancelled}
	case "backspace":
		if len(p.query) > 0 {
			p.setQuery(p.query[:len(p.query)-1])
		}
		return pickerResult{action: pickerActionNone}
	default:
		if isPrintableASCIIKey(keyName) {
			p.setQuery(p.query + keyName)
		}
		return pickerResult{action: pickerActionNone}
	}
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.picker.handleKey(msg.String())
	switch res.action {
	case pickerActionSelected:
		switch m.picker.kind {
		case pickerFiles:
			path := res.item.path
			m.picker = nil
			m.setStatus("Opening " + path)
			return m, loadGraphCmd(path, "")
		case pickerViews:
			v := res.item.view
			m.picker = nil
			m.anim.Send(camera.SetCenter{Center: camera.Vec2{X: v.CenterX, Y: v.CenterY}})
			m.anim.Send(camera.SetScale{Scale: v.Scale})
			m.setStatus(fmt.Sprintf("View %q restored", v.Name))
		}
	case pickerActionDeleted:
		if m.picker.kind == pickerViews && m.hist != nil && res.item.view.ID != "" {
			return m, deleteViewCmd(m.hist, res.item.view.ID)
		}
	case pickerActionCancelled:
		m.picker = nil
	}
	return m, nil
}

func renderPicker(p *pickerState, width int, keys *KeyRegistry) string {
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

	if p.kind == pickerFiles && p.dir != "" {
		loc := infoLabelStyle.Render("In: ") +
			lipgloss.NewStyle().Foreground(colorSubtext0).Render(truncate(p.dir, 48))
		if width > 0 {
			loc = padStyledLine(loc, width)
		}
		lines = append(lines, loc)
	}

	if len(p.filtered) == 0 {
		empty := "  nothing matches"
		if query == "" {
			empty = "  nothing to open here"
			if p.kind == pickerViews {
				empty = "  no saved views for this file"
			}
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(colorOverlay1).Render(empty))
	}
	for i, it := range p.filtered {
		labelColor := colorText
		if it.isDir {
			labelColor = colorSapphire
		}
		label := lipgloss.NewStyle().Foreground(labelColor).Render(it.label)
		meta := ""
		if strings.TrimSpace(it.meta) != "" {
			meta = lipgloss.NewStyle().Foreground(colorSubtext0).Render(" - " + strings.TrimSpace(it.meta))
		}
		row := "  " + label + meta
		if i == p.cursor {
			row = cursorStyle.Render("> ") + label + meta
			row = lipgloss.NewStyle().Background(colorSurface0).Render(padStyledLine(row, width))
		} else if width > 0 {
			row = padStyledLine(row, width)
		}
		lines = append(lines, row)
	}

	footerParts := []string{
		renderActionHint(keys, scopePicker, actionNavigate, "j/k", "navigate"),
		renderActionHint(keys, scopePicker, actionSelect, "enter", "open"),
	}
	if p.kind == pickerViews {
		footerParts = append(footerParts, renderActionHint(keys, scopePicker, actionDelete, "d", "delete"))
	}
	footerParts = append(footerParts, renderActionHint(keys, scopePicker, actionClose, "esc", "close"))

	return renderModalContent(p.title, lines, strings.Join(footerParts, "  "))
}

// fuzzyMatchScore reports whether every query character appears, in order, in
// the label, and how strong the match is. First-character and consecutive
// matches rank higher; an exact match tops everything.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}
