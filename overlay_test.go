package main

import (
	"strings"
	"testing"
)

func TestOverlayAt(t *testing.T) {
	base := strings.Join([]string{
		"..........",
		"..........",
		"..........",
	}, "\n")

	got := overlayAt(base, "XX\nYY", 2, 1, 10, 3)
	want := strings.Join([]string{
		"..........",
		"..XX......",
		"..YY......",
	}, "\n")
	if got != want {
		t.Fatalf("composite mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestOverlayAtPadsShortBase(t *testing.T) {
	// A base row narrower than the target width is padded before splicing,
	// so the text to the right of the overlay stays aligned.
	got := overlayAt("ab", "XX", 4, 0, 8, 1)
	if got != "ab  XX  " {
		t.Fatalf("composite = %q", got)
	}
}

func TestOverlayAtClips(t *testing.T) {
	base := "....\n...."

	if got := overlayAt(base, "XX", 0, 5, 4, 2); got != base {
		t.Fatalf("row past the bottom modified the base: %q", got)
	}
	if got := overlayAt(base, "XX", 0, -1, 4, 2); got != base {
		t.Fatalf("negative row modified the base: %q", got)
	}
	// Height clamps independently of the base line count.
	if got := overlayAt(base, "XX\nYY\nZZ", 0, 1, 4, 2); strings.Contains(got, "ZZ") {
		t.Fatalf("overlay row past the height survived: %q", got)
	}
}

func TestOverlayCentered(t *testing.T) {
	base := strings.Join([]string{
		strings.Repeat(" ", 11),
		strings.Repeat(" ", 11),
		strings.Repeat(" ", 11),
		strings.Repeat(" ", 11),
		strings.Repeat(" ", 11),
	}, "\n")

	got := overlayCentered(base, "XXX", 11, 5)
	lines := strings.Split(got, "\n")
	if lines[2] != "    XXX    " {
		t.Fatalf("middle line = %q, want XXX centered in 11 columns", lines[2])
	}
	for _, i := range []int{0, 1, 3, 4} {
		if strings.TrimSpace(lines[i]) != "" {
			t.Fatalf("line %d = %q, want blank", i, lines[i])
		}
	}
}

func TestOverlayCenteredClampsOversize(t *testing.T) {
	base := "    \n    "
	got := overlayCentered(base, "WIDE-OVERLAY", 4, 2)
	if !strings.HasPrefix(strings.Split(got, "\n")[0], "WIDE") {
		t.Fatalf("oversized overlay not clamped to the corner: %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\n", []string{"a", ""}},
	}
	for _, tt := range tests {
		got := splitLines(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitLines(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitLines(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth([]string{"ab", "abcd", "a"}); got != 4 {
		t.Fatalf("maxLineWidth = %d, want 4", got)
	}
	if got := maxLineWidth(nil); got != 0 {
		t.Fatalf("maxLineWidth(nil) = %d, want 0", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("padRight shortened the string: %q", got)
	}
	if got := padRight("ab", 0); got != "ab" {
		t.Fatalf("padRight with zero width = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q, want abc…", got)
	}
	if got := truncate("ab", 4); got != "ab" {
		t.Fatalf("truncate grew the string: %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("truncate with zero width = %q", got)
	}
}
