package main

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the card's key bindings. Every binding that changes the
// phase goes through the same phase.Machine operation a click would.
type keyMap struct {
	Activate   key.Binding // the click action for the current phase
	Reset      key.Binding
	Copy       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

var defaultKeyMap = keyMap{
	Activate: key.NewBinding(
		key.WithKeys("enter", " ", "space"),
		key.WithHelp("enter/click", "open"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "start over"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy letter"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "scroll"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "scroll"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Copy, k.ScrollDown, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
