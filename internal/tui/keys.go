package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Prev      key.Binding
	Next      key.Binding
	Add       key.Binding
	Remove    key.Binding
	Multiple  key.Binding
	Mandatory key.Binding
	MaxUp     key.Binding
	MaxDown   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		Remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove item")),
		Multiple:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "multiple")),
		Mandatory: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "mandatory")),
		MaxUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "max up")),
		MaxDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "max down")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Prev, k.Next, k.Add, k.Remove, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Prev, k.Next},
		{k.Add, k.Remove},
		{k.Multiple, k.Mandatory, k.MaxUp, k.MaxDown},
		{k.Help, k.Quit},
	}
}
