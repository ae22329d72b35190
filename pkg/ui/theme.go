package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile is the terminal color profile, detected once at init.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns hex on TrueColor terminals and NoColor otherwise, leaving
// lower-depth terminals on their own background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// Theme holds the palette and the styles built from it.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Nutrition
	Calories lipgloss.AdaptiveColor
	Protein  lipgloss.AdaptiveColor
	Carbs    lipgloss.AdaptiveColor
	Fat      lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base      lipgloss.Style
	Header    lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
	TabTarget lipgloss.Style // Tab highlighted by the walkthrough
	MutedText lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Button    lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,

		Calories: ColorWarning,
		Protein:  ColorDanger,
		Carbs:    ColorInfo,
		Fat:      ColorSuccess,

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: ColorBgHighlight,
		Muted:     ColorMuted,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.TabActive = r.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Underline(true).
		Padding(0, SpaceXS)

	t.TabIdle = r.NewStyle().
		Foreground(t.Subtext).
		Padding(0, SpaceXS)

	t.TabTarget = r.NewStyle().
		Background(ThemeBg(t.Highlight.Dark)).
		Reverse(TermProfile < colorprofile.TrueColor).
		Foreground(t.Primary).
		Bold(true).
		Padding(0, SpaceXS)

	t.MutedText = r.NewStyle().Foreground(t.Muted)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, SpaceXS)

	t.CardTitle = r.NewStyle().Bold(true).Foreground(t.Primary)

	t.Button = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, SpaceXS)

	return t
}
