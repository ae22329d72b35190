package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/kcal/pkg/tutorial"
)

// Static sample content for the tab bodies. Food logging itself is not part
// of this program; the screens exist so the walkthrough has something to
// point at.
type meal struct {
	name string
	kcal int
}

var (
	sampleBudget = 2000
	sampleMeals  = []meal{
		{"Breakfast · oatmeal, banana", 420},
		{"Lunch · chicken salad", 610},
		{"Snack · greek yogurt", 150},
	}
	sampleFoods = []meal{
		{"Oatmeal (80 g)", 300},
		{"Banana", 120},
		{"Chicken breast (150 g)", 250},
		{"Greek yogurt (170 g)", 150},
	}
	sampleWeights = []float64{82.4, 82.1, 81.9, 81.6, 81.7, 81.2, 80.9}
)

func eatenToday() int {
	total := 0
	for _, m := range sampleMeals {
		total += m.kcal
	}
	return total
}

func renderScreen(tab int, theme Theme, width int, budget progress.Model) string {
	r := theme.Renderer
	heading := r.NewStyle().Bold(true).Foreground(theme.Primary)
	muted := theme.MutedText

	var b strings.Builder
	switch tab {
	case tutorial.TabToday:
		eaten := eatenToday()
		left := sampleBudget - eaten
		b.WriteString(heading.Render("Today"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%d / %d kcal", eaten, sampleBudget))
		b.WriteString(muted.Render(fmt.Sprintf("   %d left", left)))
		b.WriteString("\n")
		budget.Width = clamp(width-4, 10, 60)
		b.WriteString(budget.ViewAs(float64(eaten) / float64(sampleBudget)))
		b.WriteString("\n\n")
		b.WriteString(macroLine(theme))

	case tutorial.TabLog:
		b.WriteString(heading.Render("Log"))
		b.WriteString("\n\n")
		for _, m := range sampleMeals {
			b.WriteString(mealLine(m, width, muted))
		}
		b.WriteString("\n")
		b.WriteString(muted.Render("+ add a meal"))

	case tutorial.TabFoods:
		b.WriteString(heading.Render("Foods"))
		b.WriteString("\n\n")
		for _, f := range sampleFoods {
			b.WriteString(mealLine(f, width, muted))
		}

	case tutorial.TabProgress:
		b.WriteString(heading.Render("Progress"))
		b.WriteString("\n\n")
		b.WriteString(sparkline(sampleWeights))
		first, last := sampleWeights[0], sampleWeights[len(sampleWeights)-1]
		b.WriteString(muted.Render(fmt.Sprintf("   %.1f kg → %.1f kg this week", first, last)))

	case tutorial.TabProfile:
		b.WriteString(heading.Render("Profile"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Daily target   %d kcal\n", sampleBudget))
		b.WriteString("Macro split    30 / 40 / 30\n")
		b.WriteString("Units          metric")
	}
	return b.String()
}

func mealLine(m meal, width int, muted lipgloss.Style) string {
	kcal := fmt.Sprintf("%d kcal", m.kcal)
	name := truncateRunesHelper(m.name, clamp(width-len(kcal)-3, 4, 60), "…")
	return name + "  " + muted.Render(kcal) + "\n"
}

func macroLine(theme Theme) string {
	r := theme.Renderer
	return lipgloss.JoinHorizontal(lipgloss.Top,
		r.NewStyle().Foreground(theme.Protein).Render("protein 92 g"), "   ",
		r.NewStyle().Foreground(theme.Carbs).Render("carbs 141 g"), "   ",
		r.NewStyle().Foreground(theme.Fat).Render("fat 38 g"),
	)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}
