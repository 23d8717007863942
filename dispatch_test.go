package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestOverlayPrecedenceOrder(t *testing.T) {
	want := []string{"dialog", "palette", "menu", "picker", "paths"}
	entries := overlayPrecedence()
	if len(entries) != len(want) {
		t.Fatalf("precedence has %d entries, want %d", len(entries), len(want))
	}
	for i, entry := range entries {
		if entry.name != want[i] {
			t.Errorf("entry %d = %s, want %s", i, entry.name, want[i])
		}
	}
}

func TestActiveOverlayScope(t *testing.T) {
	m := readyModel(t)
	if got := m.activeOverlayScope(); got != "" {
		t.Fatalf("scope = %q with nothing open, want empty", got)
	}
	if m.overlayActive() {
		t.Fatal("overlayActive with nothing open")
	}

	// Stack the overlays up from the bottom; the top of the precedence
	// chain must win at every level.
	m.paths = newPathsPane(2)
	if got := m.activeOverlayScope(); got != scopePaths {
		t.Fatalf("scope = %q, want paths", got)
	}
	m.picker = newFilePicker(nil, "")
	if got := m.activeOverlayScope(); got != scopePicker {
		t.Fatalf("scope = %q, want picker", got)
	}
	m.menuUI = &menuState{}
	if got := m.activeOverlayScope(); got != scopeMenu {
		t.Fatalf("scope = %q, want menu", got)
	}
	m.openPalette()
	if got := m.activeOverlayScope(); got != scopePalette {
		t.Fatalf("scope = %q, want palette", got)
	}
	if _, err := m.broker.Open("Go to node", "node id"); err != nil {
		t.Fatalf("open dialog: %v", err)
	}
	if got := m.activeOverlayScope(); got != scopeModal {
		t.Fatalf("scope = %q, want modal", got)
	}
	if !m.overlayActive() {
		t.Fatal("overlayActive false with everything open")
	}
}

func TestDispatchLeavesCanvasKeysAlone(t *testing.T) {
	m := readyModel(t)
	_, _, handled := m.dispatchOverlayKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if handled {
		t.Fatal("key handled with no overlay open")
	}
}

func TestDispatchRoutesToTopOverlay(t *testing.T) {
	m := readyModel(t)
	m.paths = newPathsPane(2)

	next, _, handled := m.dispatchOverlayKey(tea.KeyMsg{Type: tea.KeyEsc})
	if !handled {
		t.Fatal("open paths pane did not claim the key")
	}
	m = next.(model)
	if m.paths != nil {
		t.Fatal("esc did not close the paths pane")
	}
}

func TestDialogOutranksEverything(t *testing.T) {
	m := readyModel(t)
	m.paths = newPathsPane(2)
	ch, err := m.broker.Open("Save view as", "view name")
	if err != nil {
		t.Fatalf("open dialog: %v", err)
	}
	_ = m.broker.View() // first render focuses the input

	next, _, handled := m.dispatchOverlayKey(tea.KeyMsg{Type: tea.KeyEsc})
	if !handled {
		t.Fatal("dialog did not claim the key")
	}
	m = next.(model)

	select {
	case res := <-ch:
		if !res.Canceled {
			t.Fatalf("result = %+v, want canceled", res)
		}
	default:
		t.Fatal("esc did not resolve the dialog")
	}
	if m.broker.Active() {
		t.Fatal("dialog still active after esc")
	}
	// The paths pane below never saw the key.
	if m.paths == nil {
		t.Fatal("esc leaked through the dialog to the paths pane")
	}
}

func TestOverlayScopesAreBound(t *testing.T) {
	m := readyModel(t)
	for _, entry := range overlayPrecedence() {
		scope := entry.scope(m)
		if len(m.keys.BindingsForScope(scope)) == 0 {
			t.Errorf("overlay %s maps to scope %s with no bindings", entry.name, scope)
		}
	}
}
