package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTruncateRunesHelper(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Track Your Progress", 40, "Track Your Progress"},
		{"Track Your Progress", 8, "Track Y…"},
		{"Track", 0, ""},
		{"日本語日本", 5, "日本…"},
	}
	for _, tt := range tests {
		got := truncateRunesHelper(tt.in, tt.max, "…")
		if got != tt.want {
			t.Errorf("truncateRunesHelper(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if runewidth.StringWidth(got) > tt.max {
			t.Errorf("result %q exceeds width %d", got, tt.max)
		}
	}
}

func TestWrapWords(t *testing.T) {
	lines := wrapWords("Save the foods and recipes you eat often", 12)
	for _, l := range lines {
		if runewidth.StringWidth(l) > 12 {
			t.Errorf("line %q exceeds 12 cells", l)
		}
	}
	if strings.Join(lines, " ") != "Save the foods and recipes you eat often" {
		t.Errorf("words lost: %q", lines)
	}
	if wrapWords("anything", 0) != nil {
		t.Error("zero width should produce no lines")
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 0, 3) != 3 || clamp(-2, 0, 3) != 0 || clamp(2, 0, 3) != 2 {
		t.Error("clamp out of range")
	}
	if clamp(4, 2, 1) != 2 {
		t.Error("inverted bounds should return lo")
	}
}
