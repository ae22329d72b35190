package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/kcal/pkg/debug"
	"github.com/vanderheijden86/kcal/pkg/tutorial"
)

const (
	cardMaxWidth = 48
	cardMinWidth = 24
)

// CoachMark renders the walkthrough card for the current step and places it
// under the step's anchor.
type CoachMark struct {
	theme Theme

	// Glamour renderers are costly to build; keep one per wrap width.
	mdWidth    int
	mdRenderer *glamour.TermRenderer
}

// NewCoachMark returns a card renderer using theme.
func NewCoachMark(theme Theme) *CoachMark {
	return &CoachMark{theme: theme}
}

// CardWidth is the outer width of the card for a viewport width.
func CardWidth(viewport int) int {
	return clamp(viewport-2, cardMinWidth, cardMaxWidth)
}

// Render draws the card for step at the given outer width. The terminal
// step renders nothing.
func (c *CoachMark) Render(step tutorial.Step, width int) string {
	if step.IsTerminal() || !step.Valid() {
		return ""
	}
	info := step.Info()
	t := c.theme
	r := t.Renderer

	// border (2) + padding (2)
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	indicator := t.MutedText.Render(step.PositionIndicator())
	titleRoom := inner - lipgloss.Width(indicator) - 1
	title := IconGlyph(info.IconID) + " " + info.Title
	title = t.CardTitle.Render(truncateRunesHelper(title, titleRoom, "…"))
	gap := inner - lipgloss.Width(title) - lipgloss.Width(indicator)
	if gap < 1 {
		gap = 1
	}
	header := title + strings.Repeat(" ", gap) + indicator

	body := c.renderMessage(info.Message, inner)

	button := t.Button.Render(step.ConfirmLabel())
	hint := t.MutedText.Render("enter continue · s skip")
	footerGap := inner - lipgloss.Width(button) - lipgloss.Width(hint)
	if footerGap < 1 {
		footerGap = 1
	}
	footer := hint + strings.Repeat(" ", footerGap) + button

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
	return t.Card.Width(width - 2).Render(r.NewStyle().Width(inner).Render(content))
}

// renderMessage renders markdown with glamour, falling back to plain
// word-wrapped text if the renderer fails.
func (c *CoachMark) renderMessage(msg string, width int) string {
	if c.mdRenderer == nil || c.mdWidth != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			debug.Log("coachmark: glamour renderer: %v", err)
			c.mdRenderer = nil
		} else {
			c.mdRenderer = renderer
			c.mdWidth = width
		}
	}

	if c.mdRenderer != nil {
		out, err := c.mdRenderer.Render(msg)
		if err == nil {
			return trimRendered(out, width)
		}
		debug.Log("coachmark: rendering message: %v", err)
	}
	return strings.Join(wrapWords(strings.ReplaceAll(msg, "**", ""), width), "\n")
}

// trimRendered drops glamour's blank margin lines and clips to width.
func trimRendered(out string, width int) string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(ansi.Strip(line)) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

// Place computes the card's top-left corner: one row below anchor with the
// card aligned to the anchor's left edge, kept inside a viewport of size
// width x height. Without an anchor the card is centered.
func Place(anchor Rect, hasAnchor bool, cardW, cardH, width, height int) (x, y int) {
	if !hasAnchor {
		return clamp((width-cardW)/2, 0, width-cardW), clamp((height-cardH)/2, 0, height-cardH)
	}
	x = clamp(anchor.X, 0, width-cardW)
	y = anchor.Bottom() + 1
	if y+cardH > height {
		// Not enough room below: sit above the anchor instead.
		y = anchor.Y - cardH
	}
	return x, clamp(y, 0, height-cardH)
}

// Overlay draws the card for step over base, a width x height screen.
// The caret under the anchor is drawn only when the card sits below it.
func (c *CoachMark) Overlay(base string, step tutorial.Step, anchors Anchors, width, height int) string {
	cardW := CardWidth(width)
	card := c.Render(step, cardW)
	if card == "" {
		return base
	}
	cardH := lipgloss.Height(card)

	anchor, ok := anchors.For(step)
	x, y := Place(anchor, ok, cardW, cardH, width, height)
	if ok && y > anchor.Bottom() {
		caret := c.theme.Renderer.NewStyle().Foreground(c.theme.Primary).Render("▲")
		base = overlayAt(base, caret, anchor.CenterX(), anchor.Bottom(), width)
	}
	return overlayAt(base, card, x, y, width)
}
