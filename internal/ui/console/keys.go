// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package console

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Filter  key.Binding
	Search  key.Binding
	Actions key.Binding
	Enter   key.Binding
	Back    key.Binding
	Esc     key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Actions: key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "actions")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:    key.NewBinding(key.WithKeys("backspace", "b"), key.WithHelp("b", "back")),
		Esc:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Search, k.Actions, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Filter, k.Search, k.Actions, k.Back},
		{k.Reload, k.Help, k.Quit},
	}
}

// menuKeyMap is shown while the action menu or a modal is open.
type menuKeyMap struct {
	keyMap
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Esc}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
