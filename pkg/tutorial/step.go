// Package tutorial drives the first-run walkthrough of kcal.
//
// The walkthrough is a fixed sequence of steps. Each step highlights one tab
// of the main view and carries the text shown in the coach-mark card. The
// Sequencer owns the current position, persists it through a Store, and
// notifies subscribers whenever it moves.
package tutorial

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one stop in the walkthrough. Its value is the persisted ordinal.
type Step int

const (
	StepToday Step = iota
	StepLogMeal
	StepFoods
	StepProgress
	StepGoals
	// StepCompleted is terminal: no content, no target tab, absorbing under Next.
	StepCompleted
)

// FirstStep is where a fresh or reset walkthrough starts.
const FirstStep = StepToday

// Tab indices of the main view, in display order.
const (
	TabToday = iota
	TabLog
	TabFoods
	TabProgress
	TabProfile

	TabCount
)

// Confirm button labels.
const (
	ConfirmNext   = "Next"
	ConfirmFinish = "Got it!"
)

// StepInfo is the immutable display and routing data for a step.
type StepInfo struct {
	Name      string
	TargetTab int // -1 when the step has no target tab
	Title     string
	Message   string
	IconID    string
}

// stepTable is indexed by Step. The terminal entry must stay last.
var stepTable = [...]StepInfo{
	StepToday: {
		Name:      "today",
		TargetTab: TabToday,
		Title:     "Your Daily Budget",
		Message:   "This is **today** at a glance: calories eaten, what is left of your budget, and your macro split.",
		IconID:    "flame",
	},
	StepLogMeal: {
		Name:      "log-meal",
		TargetTab: TabLog,
		Title:     "Log a Meal",
		Message:   "Add breakfast, lunch, dinner or a snack. Search a food or type the calories in directly.",
		IconID:    "fork.knife",
	},
	StepFoods: {
		Name:      "foods",
		TargetTab: TabFoods,
		Title:     "Your Food Library",
		Message:   "Save the foods and recipes you eat often so logging them takes a single keystroke.",
		IconID:    "book",
	},
	StepProgress: {
		Name:      "progress",
		TargetTab: TabProgress,
		Title:     "Track Your Progress",
		Message:   "Follow your weight and calorie trends over weeks and months.",
		IconID:    "chart.line",
	},
	StepGoals: {
		Name:      "goals",
		TargetTab: TabProfile,
		Title:     "Set Your Goals",
		Message:   "Adjust your daily calorie target, macro split and units whenever your plan changes.",
		IconID:    "person",
	},
	StepCompleted: {
		Name:      "completed",
		TargetTab: -1,
	},
}

// Steps returns every step in order, the terminal step last.
func Steps() []Step {
	steps := make([]Step, 0, len(stepTable))
	for i := range stepTable {
		steps = append(steps, Step(i))
	}
	return steps
}

// ActionableSteps returns the steps that show a card, in order.
func ActionableSteps() []Step {
	steps := Steps()
	return steps[:len(steps)-1]
}

// ActionableCount is the number of non-terminal steps.
func ActionableCount() int {
	return len(stepTable) - 1
}

// LastActionable is the final step before StepCompleted.
func LastActionable() Step {
	return StepCompleted - 1
}

// StepFromOrdinal maps a persisted ordinal back to a step.
func StepFromOrdinal(n int) (Step, bool) {
	if n < 0 || n >= len(stepTable) {
		return FirstStep, false
	}
	return Step(n), true
}

// ParseStep resolves a step by name (case-insensitive) or by ordinal.
func ParseStep(s string) (Step, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for i, info := range stepTable {
		if info.Name == s {
			return Step(i), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return StepFromOrdinal(n)
	}
	return FirstStep, false
}

// Valid reports whether s is a member of the enumeration.
func (s Step) Valid() bool {
	return s >= 0 && int(s) < len(stepTable)
}

// Ordinal returns the 0-based rank of the step.
func (s Step) Ordinal() int { return int(s) }

// String returns the step's stable name.
func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepTable[s].Name
}

// Info returns the metadata record for s. Invalid steps get the terminal record.
func (s Step) Info() StepInfo {
	if !s.Valid() {
		return stepTable[StepCompleted]
	}
	return stepTable[s]
}

// IsTerminal reports whether s is StepCompleted.
func (s Step) IsTerminal() bool { return s == StepCompleted }

// Next returns the immediate successor of s. StepCompleted is absorbing, and
// anything outside the enumeration also lands there.
func (s Step) Next() Step {
	if !s.Valid() || s >= LastActionable() {
		return StepCompleted
	}
	return s + 1
}

// TargetTab returns the tab this step highlights.
func (s Step) TargetTab() (int, bool) {
	info := s.Info()
	if info.TargetTab < 0 {
		return 0, false
	}
	return info.TargetTab, true
}

// ConfirmLabel is the text of the card's confirm button.
func (s Step) ConfirmLabel() string {
	switch {
	case s.IsTerminal() || !s.Valid():
		return ""
	case s == LastActionable():
		return ConfirmFinish
	default:
		return ConfirmNext
	}
}

// PositionIndicator renders "k of N" over the actionable steps.
func (s Step) PositionIndicator() string {
	if s.IsTerminal() || !s.Valid() {
		return ""
	}
	return fmt.Sprintf("%d of %d", s.Ordinal()+1, ActionableCount())
}
