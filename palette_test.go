package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestOpenPaletteRequestsSnapshot(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	if m.palette == nil {
		t.Fatal("palette did not open")
	}
	if !m.store.Pending() {
		t.Fatal("opening the palette did not raise the snapshot flag")
	}
	// The next materialization refreshes the offered set.
	m = runFrames(t, m, 1)
	if m.store.Pending() {
		t.Fatal("snapshot flag still raised after a frame")
	}
}

func TestPaletteOffersOnlyApplicable(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	m = runFrames(t, m, 1)

	// Empty snapshot: only the unconditional actions survive the intersect.
	for _, a := range m.palette.results {
		if len(a.Requires) != 0 {
			t.Fatalf("palette offered %q on an empty snapshot", a.ID)
		}
	}
	if len(m.palette.results) != 4 {
		t.Fatalf("palette offered %d actions, want 4", len(m.palette.results))
	}

	// With a node in the snapshot the node actions appear.
	m.setCurrent(2)
	m.openPalette()
	m = runFrames(t, m, 1)
	found := false
	for _, a := range m.palette.results {
		if a.ID == "copy-node-id" {
			found = true
		}
	}
	if !found {
		t.Fatal("palette missing copy-node-id with a node in the snapshot")
	}
}

func TestPaletteQueryFilters(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	m = runFrames(t, m, 1)

	for _, r := range "coverage" {
		next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	if len(m.palette.results) != 1 || m.palette.results[0].ID != "coverage-overlay" {
		var ids []string
		for _, a := range m.palette.results {
			ids = append(ids, a.ID)
		}
		t.Fatalf("query coverage offered %v, want coverage-overlay alone", ids)
	}

	// Backspacing widens the results again.
	for i := 0; i < len("coverage"); i++ {
		next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyBackspace})
		m = next.(model)
	}
	if len(m.palette.results) != 4 {
		t.Fatalf("cleared query offers %d actions, want 4", len(m.palette.results))
	}
}

func TestPaletteQueryNeverWidensPastContext(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	m = runFrames(t, m, 1)

	// "copy" matches several registered actions, but none of them are
	// applicable without a node, path or selection in the snapshot.
	for _, r := range "copy" {
		next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	for _, a := range m.palette.results {
		if len(a.Requires) != 0 {
			t.Fatalf("query surfaced inapplicable action %q", a.ID)
		}
	}
}

func TestPaletteEnterInvokes(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	m = runFrames(t, m, 1)

	for _, r := range "fit" {
		next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	if len(m.palette.results) == 0 || m.palette.results[0].ID != "fit-view" {
		t.Fatal("query fit did not rank fit-view first")
	}

	next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.palette != nil {
		t.Fatal("palette still open after enter")
	}
	msgs := drainMsgs(m)
	if len(msgs) != 1 {
		t.Fatalf("queued %d messages, want the fit", len(msgs))
	}
	if _, ok := msgs[0].(fitViewMsg); !ok {
		t.Fatalf("queued %#v, want fitViewMsg", msgs[0])
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	if m.palette != nil {
		t.Fatal("palette still open after esc")
	}
}

func TestPaletteCursorClampsToResults(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	m = runFrames(t, m, 1)

	p := m.palette
	p.cursor = len(p.results) - 1
	p.query = "coverage"
	p.rebuild(m.registry, m.store)
	if p.cursor != 0 {
		t.Fatalf("cursor = %d after the result set shrank, want 0", p.cursor)
	}
}

func TestPaletteNavigationKeys(t *testing.T) {
	m := readyModel(t)
	m.openPalette()
	m = runFrames(t, m, 1)

	next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	if m.palette.cursor != 1 {
		t.Fatalf("cursor = %d after down, want 1", m.palette.cursor)
	}
	next, _ = m.updatePalette(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)
	if m.palette.cursor != 0 {
		t.Fatalf("cursor = %d after up, want 0", m.palette.cursor)
	}
	next, _ = m.updatePalette(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)
	if m.palette.cursor != 0 {
		t.Fatal("cursor moved above the first result")
	}
}

// Invoking through the palette is re-guarded against the live snapshot, so a
// snapshot that went stale between open and enter turns into a notice rather
// than a misfire.
func TestPaletteEnterReguards(t *testing.T) {
	m := readyModel(t)
	m.setCurrent(2)
	m.openPalette()
	m = runFrames(t, m, 1)

	for _, r := range "copy node id" {
		next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	if len(m.palette.results) == 0 || m.palette.results[0].ID != "copy-node-id" {
		t.Fatal("query did not rank copy-node-id first")
	}

	// Drop the node from the snapshot behind the palette's back.
	m.clearCurrent()
	materializeWith(t, &m)

	next, _ := m.updatePalette(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.status != "Action no longer applicable" {
		t.Fatalf("status = %q", m.status)
	}
	if _, _, ok := m.clip.Get(); ok {
		t.Fatal("stale action still ran")
	}
}
