package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	JumpTab  key.Binding
	Continue key.Binding
	Skip     key.Binding
	Replay   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		JumpTab: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "jump to tab"),
		),
		Continue: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "next tip"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s", "esc"),
			key.WithHelp("s", "skip tour"),
		),
		Replay: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "replay tour"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Replay, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.JumpTab},
		{k.Continue, k.Skip, k.Replay},
		{k.Help, k.Quit},
	}
}

// setTutorialActive enables the walkthrough-only bindings while a card is up.
func (k *keyMap) setTutorialActive(active bool) {
	k.Continue.SetEnabled(active)
	k.Skip.SetEnabled(active)
}
