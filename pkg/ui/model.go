// Package ui is the kcal terminal front end: a tab bar over static calorie
// screens, with the walkthrough card drawn on top while the tutorial runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/kcal/pkg/debug"
	"github.com/vanderheijden86/kcal/pkg/metrics"
	"github.com/vanderheijden86/kcal/pkg/tutorial"
	"github.com/vanderheijden86/kcal/pkg/version"
)

// StoreChangedMsg reports that the persisted state was changed by another
// process and should be re-read.
type StoreChangedMsg struct{}

// PersistErrorMsg carries a store write failure for the status line.
type PersistErrorMsg struct {
	Err error
}

// Options configures a Model.
type Options struct {
	StartTab int
	ShowHelp bool
	Theme    *Theme
}

// tabRow is the screen row the tab bar is drawn on.
const tabRow = 1

// Model is the root bubbletea model.
type Model struct {
	seq    *tutorial.Sequencer
	router *tutorial.Router
	tabs   *TabBar
	coach  *CoachMark

	theme  Theme
	keys   keyMap
	help   help.Model
	budget progress.Model

	width     int
	height    int
	statusMsg string
}

// NewModel builds the view over seq. The sequencer is injected, never global.
func NewModel(seq *tutorial.Sequencer, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	tabs := NewTabBar(opts.StartTab)
	router := tutorial.NewRouter(seq, tabs)
	router.OnTabChange(func(tab int) {
		debug.Log("ui: walkthrough now targets tab %d (%s)", tab, tabTitles[tab])
	})
	router.Sync()

	h := help.New()
	h.ShowAll = opts.ShowHelp

	m := Model{
		seq:    seq,
		router: router,
		tabs:   tabs,
		coach:  NewCoachMark(theme),
		theme:  theme,
		keys:   defaultKeyMap(),
		help:   h,
		budget: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:  80,
		height: 24,
	}
	m.keys.setTutorialActive(seq.IsActive())
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case StoreChangedMsg:
		m.seq.Reload()
		m.keys.setTutorialActive(m.seq.IsActive())
		return m, nil

	case PersistErrorMsg:
		m.statusMsg = fmt.Sprintf("progress not saved: %v", msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.router.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Continue):
		finishing := m.seq.CurrentStep() == tutorial.LastActionable()
		m.seq.Advance()
		if finishing && !m.seq.IsActive() {
			m.seq.CompleteOnboarding()
			m.statusMsg = "You're all set. Press r to replay the tour."
		}

	case key.Matches(msg, m.keys.Skip):
		m.seq.Skip()
		m.statusMsg = "Tour skipped. Press r to replay it."

	case key.Matches(msg, m.keys.Replay):
		m.seq.Reset()
		m.statusMsg = ""

	case key.Matches(msg, m.keys.NextTab):
		m.tabs.Move(1)

	case key.Matches(msg, m.keys.PrevTab):
		m.tabs.Move(-1)

	case key.Matches(msg, m.keys.JumpTab):
		m.tabs.SelectTab(int(msg.String()[0] - '1'))
	}

	m.keys.setTutorialActive(m.seq.IsActive())
	return m, nil
}

// SelectedTab returns the index of the tab on screen.
func (m Model) SelectedTab() int { return m.tabs.SelectedTab() }

// StatusMessage returns the current status line text.
func (m Model) StatusMessage() string { return m.statusMsg }

// View renders the screen and, while the walkthrough runs, the card.
func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	anchors := make(Anchors)
	step := m.seq.CurrentStep()
	active := m.seq.IsActive()

	highlight := -1
	if tab, ok := step.TargetTab(); ok && active {
		highlight = tab
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderHeader())
	lines = append(lines, m.tabs.Render(m.theme, tabRow, highlight, anchors))
	lines = append(lines, m.theme.MutedText.Render(strings.Repeat("─", max(m.width, 1))))

	body := renderScreen(m.tabs.SelectedTab(), m.theme, m.width, m.budget)
	lines = append(lines, strings.Split(body, "\n")...)

	footer := m.renderFooter()
	footerLines := strings.Split(footer, "\n")
	for len(lines)+len(footerLines) < m.height {
		lines = append(lines, "")
	}
	lines = append(lines, footerLines...)
	screen := strings.Join(lines, "\n")

	if !active {
		return screen
	}
	return m.coach.Overlay(screen, step, anchors, m.width, m.height)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("kcal")
	ver := m.theme.MutedText.Render(" " + version.Version)
	status := ""
	if m.statusMsg != "" {
		status = "  " + m.theme.MutedText.Render(m.statusMsg)
	}
	return title + ver + status
}

func (m Model) renderFooter() string {
	return m.help.View(m.keys)
}
