package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/kcal/pkg/tutorial"
)

func testTheme() Theme {
	return DefaultTheme(lipgloss.DefaultRenderer())
}

func TestTabBar_RegistersAnchorsForEveryStep(t *testing.T) {
	bar := NewTabBar(0)
	anchors := make(Anchors)
	rendered := bar.Render(testTheme(), tabRow, -1, anchors)

	for _, step := range tutorial.ActionableSteps() {
		rect, ok := anchors.For(step)
		if !ok {
			t.Errorf("%s: no anchor registered", step)
			continue
		}
		if rect.Y != tabRow || rect.Width <= 0 {
			t.Errorf("%s: unexpected rect %+v", step, rect)
		}
		tab, _ := step.TargetTab()
		label := ansi.Strip(rendered)
		if !strings.Contains(label, tabTitles[tab]) {
			t.Errorf("tab title %q missing from bar", tabTitles[tab])
		}
	}
	if _, ok := anchors.For(tutorial.StepCompleted); ok {
		t.Error("completed step must not have an anchor")
	}

	// Anchors advance left to right in tab order.
	prev := -1
	for _, step := range tutorial.ActionableSteps() {
		rect, _ := anchors.For(step)
		if rect.X <= prev {
			t.Errorf("%s: anchor x %d not after %d", step, rect.X, prev)
		}
		prev = rect.X
	}
}

func TestTabBar_SelectClampsAndMoveWraps(t *testing.T) {
	bar := NewTabBar(99)
	if bar.SelectedTab() != tutorial.TabCount-1 {
		t.Errorf("expected clamp to last tab, got %d", bar.SelectedTab())
	}
	bar.Move(1)
	if bar.SelectedTab() != 0 {
		t.Errorf("expected wrap to 0, got %d", bar.SelectedTab())
	}
	bar.Move(-1)
	if bar.SelectedTab() != tutorial.TabCount-1 {
		t.Errorf("expected wrap to last, got %d", bar.SelectedTab())
	}
	bar.SelectTab(-4)
	if bar.SelectedTab() != 0 || bar.Title() != "Today" {
		t.Errorf("expected Today, got %d %q", bar.SelectedTab(), bar.Title())
	}
}

func TestCoachMark_RenderContent(t *testing.T) {
	c := NewCoachMark(testTheme())
	card := ansi.Strip(c.Render(tutorial.LastActionable(), 48))

	info := tutorial.LastActionable().Info()
	for _, want := range []string{info.Title, tutorial.ConfirmFinish, tutorial.LastActionable().PositionIndicator()} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
	for _, line := range strings.Split(card, "\n") {
		if w := ansi.StringWidth(line); w > 48 {
			t.Errorf("card line wider than 48 (%d): %q", w, line)
		}
	}

	if c.Render(tutorial.StepCompleted, 48) != "" {
		t.Error("completed step should render no card")
	}
}

func TestPlace(t *testing.T) {
	tests := []struct {
		name      string
		anchor    Rect
		hasAnchor bool
		wantX     int
		wantY     int
	}{
		{"below anchor", Rect{X: 10, Y: 1, Width: 7, Height: 1}, true, 10, 3},
		{"clamped right", Rect{X: 70, Y: 1, Width: 9, Height: 1}, true, 40, 3},
		{"above when no room below", Rect{X: 0, Y: 20, Width: 5, Height: 1}, true, 0, 10},
		{"centered without anchor", Rect{}, false, 20, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Place(tt.anchor, tt.hasAnchor, 40, 10, 80, 24)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Place = (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestOverlayAt(t *testing.T) {
	base := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc"
	got := overlayAt(base, "XY\nZW", 3, 1, 10)
	want := "aaaaaaaaaa\nbbbXYbbbbb\ncccZWccccc"
	if got != want {
		t.Errorf("overlayAt =\n%s\nwant\n%s", got, want)
	}

	// Rows past the bottom are dropped.
	got = overlayAt("ab", "1\n2", 0, 0, 2)
	if got != "1b" {
		t.Errorf("expected clipped overlay, got %q", got)
	}
}

func TestCardWidth(t *testing.T) {
	if CardWidth(200) != cardMaxWidth {
		t.Errorf("wide viewport: %d", CardWidth(200))
	}
	if CardWidth(10) != cardMinWidth {
		t.Errorf("narrow viewport: %d", CardWidth(10))
	}
}
