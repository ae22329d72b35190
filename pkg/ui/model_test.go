package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/kcal/internal/kvstore"
	"github.com/vanderheijden86/kcal/pkg/tutorial"
)

func newTestModel(t *testing.T, store tutorial.Store) (Model, *tutorial.Sequencer) {
	t.Helper()
	if store == nil {
		store = kvstore.NewMemory()
	}
	seq := tutorial.New(store)
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	m := NewModel(seq, Options{Theme: &theme})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, seq
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_StartsOnFirstStep(t *testing.T) {
	m, seq := newTestModel(t, nil)

	if seq.CurrentStep() != tutorial.FirstStep {
		t.Fatalf("expected first step, got %s", seq.CurrentStep())
	}
	if m.SelectedTab() != tutorial.TabToday {
		t.Errorf("expected Today tab, got %d", m.SelectedTab())
	}
	view := m.View()
	if !strings.Contains(view, "Your Daily Budget") {
		t.Error("expected the first card in the view")
	}
	if !strings.Contains(view, "1 of 5") {
		t.Error("expected position indicator in the view")
	}
}

func TestModel_AdvanceRoutesTabs(t *testing.T) {
	m, seq := newTestModel(t, nil)

	for i := 0; i < 3; i++ {
		m = update(t, m, keyMsg("enter"))
	}
	if seq.CurrentStep().Ordinal() != 3 {
		t.Fatalf("expected ordinal 3, got %d", seq.CurrentStep().Ordinal())
	}
	if m.SelectedTab() != tutorial.TabProgress {
		t.Errorf("expected Progress tab, got %d", m.SelectedTab())
	}
	if !strings.Contains(m.View(), "Track Your Progress") {
		t.Error("expected the progress card in the view")
	}
}

func TestModel_SkipHidesCard(t *testing.T) {
	m, seq := newTestModel(t, nil)

	m = update(t, m, keyMsg("s"))
	if seq.IsActive() {
		t.Fatal("expected tutorial inactive after skip")
	}
	view := m.View()
	if strings.Contains(view, "Your Daily Budget") {
		t.Error("card should be gone after skip")
	}
	if !strings.Contains(m.StatusMessage(), "skipped") {
		t.Errorf("unexpected status %q", m.StatusMessage())
	}

	// Skip keys do nothing once the tour is over.
	m = update(t, m, keyMsg("enter"))
	if seq.CurrentStep() != tutorial.StepCompleted {
		t.Errorf("enter after skip moved to %s", seq.CurrentStep())
	}
}

func TestModel_ReplayRestartsTour(t *testing.T) {
	m, seq := newTestModel(t, nil)
	m = update(t, m, keyMsg("enter"))
	m = update(t, m, keyMsg("esc"))
	m = update(t, m, keyMsg("tab"))

	m = update(t, m, keyMsg("r"))
	if seq.CurrentStep() != tutorial.FirstStep || !seq.IsActive() {
		t.Fatalf("expected active first step, got %s", seq.CurrentStep())
	}
	if m.SelectedTab() != tutorial.TabToday {
		t.Errorf("expected router to return to Today, got tab %d", m.SelectedTab())
	}
}

func TestModel_ManualTabsDoNotMoveTour(t *testing.T) {
	m, seq := newTestModel(t, nil)

	m = update(t, m, keyMsg("tab"))
	m = update(t, m, keyMsg("tab"))
	if m.SelectedTab() != tutorial.TabFoods {
		t.Errorf("expected Foods tab, got %d", m.SelectedTab())
	}
	m = update(t, m, keyMsg("5"))
	if m.SelectedTab() != tutorial.TabProfile {
		t.Errorf("expected Profile tab, got %d", m.SelectedTab())
	}
	m = update(t, m, keyMsg("shift+tab"))
	if m.SelectedTab() != tutorial.TabProgress {
		t.Errorf("expected Progress tab, got %d", m.SelectedTab())
	}
	if seq.CurrentStep() != tutorial.FirstStep {
		t.Errorf("manual navigation moved the tour to %s", seq.CurrentStep())
	}
}

func TestModel_FinishingCompletesOnboarding(t *testing.T) {
	m, seq := newTestModel(t, nil)

	for range tutorial.ActionableSteps() {
		m = update(t, m, keyMsg("enter"))
	}
	if seq.IsActive() {
		t.Fatal("expected tour finished")
	}
	if !seq.HasCompletedOnboarding() {
		t.Error("finishing the tour should set the onboarding flag")
	}
	if !strings.Contains(m.StatusMessage(), "all set") {
		t.Errorf("unexpected status %q", m.StatusMessage())
	}
}

func TestModel_SkipDoesNotCompleteOnboarding(t *testing.T) {
	m, seq := newTestModel(t, nil)
	update(t, m, keyMsg("s"))
	if seq.HasCompletedOnboarding() {
		t.Error("skipping should leave the onboarding flag alone")
	}
}

func TestModel_StoreChangedReloads(t *testing.T) {
	store := kvstore.NewMemory()
	m, seq := newTestModel(t, store)

	if err := store.SetInt(tutorial.KeyCurrentStep, int(tutorial.StepGoals)); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, StoreChangedMsg{})

	if seq.CurrentStep() != tutorial.StepGoals {
		t.Errorf("expected reload to %s, got %s", tutorial.StepGoals, seq.CurrentStep())
	}
	if m.SelectedTab() != tutorial.TabProfile {
		t.Errorf("expected Profile tab after reload, got %d", m.SelectedTab())
	}
}

func TestModel_PersistErrorShownInStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = update(t, m, PersistErrorMsg{Err: errors.New("disk full")})
	if !strings.Contains(m.View(), "disk full") {
		t.Error("expected persistence error in the header")
	}
}

func TestModel_QuitReturnsQuitCmd(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_StartTabOption(t *testing.T) {
	store := kvstore.NewMemory()
	seq := tutorial.New(store)
	seq.Skip()
	m := NewModel(seq, Options{StartTab: tutorial.TabFoods})
	if m.SelectedTab() != tutorial.TabFoods {
		t.Errorf("expected start tab Foods, got %d", m.SelectedTab())
	}
}
