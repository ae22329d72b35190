package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/kcal/pkg/tutorial"
)

// tabTitles are indexed by the tutorial tab constants.
var tabTitles = [tutorial.TabCount]string{
	tutorial.TabToday:    "Today",
	tutorial.TabLog:      "Log",
	tutorial.TabFoods:    "Foods",
	tutorial.TabProgress: "Progress",
	tutorial.TabProfile:  "Profile",
}

// TabBar tracks the selected tab. It is shared by pointer between the model
// and the tutorial router so routing survives bubbletea's value copies.
type TabBar struct {
	selected int
}

// NewTabBar starts on tab start, clamped to the valid range.
func NewTabBar(start int) *TabBar {
	t := &TabBar{}
	t.SelectTab(start)
	return t
}

// SelectedTab implements tutorial.TabSelector.
func (t *TabBar) SelectedTab() int { return t.selected }

// SelectTab implements tutorial.TabSelector. Out-of-range indices are clamped.
func (t *TabBar) SelectTab(index int) {
	switch {
	case index < 0:
		index = 0
	case index >= tutorial.TabCount:
		index = tutorial.TabCount - 1
	}
	t.selected = index
}

// Move selects the tab delta positions away, wrapping around.
func (t *TabBar) Move(delta int) {
	t.selected = ((t.selected+delta)%tutorial.TabCount + tutorial.TabCount) % tutorial.TabCount
}

// Title returns the title of the selected tab.
func (t *TabBar) Title() string { return tabTitles[t.selected] }

// Render draws the bar on row y and registers, for every actionable step,
// the rectangle of the tab it targets. highlight is the tab the walkthrough
// currently points at, or -1.
func (t *TabBar) Render(theme Theme, y, highlight int, anchors Anchors) string {
	var b strings.Builder
	x := 0
	rects := make([]Rect, tutorial.TabCount)

	for i, title := range tabTitles {
		style := theme.TabIdle
		switch {
		case i == highlight:
			style = theme.TabTarget
		case i == t.selected:
			style = theme.TabActive
		}
		cell := style.Render(title)
		w := lipgloss.Width(cell)
		rects[i] = Rect{X: x, Y: y, Width: w, Height: 1}

		b.WriteString(cell)
		x += w
		if i < len(tabTitles)-1 {
			b.WriteString(theme.MutedText.Render("│"))
			x++
		}
	}

	for _, step := range tutorial.ActionableSteps() {
		if tab, ok := step.TargetTab(); ok {
			anchors.Register(step, rects[tab])
		}
	}
	return b.String()
}
