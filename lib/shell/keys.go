// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the hrdesk shell.
type KeyMap struct {
	// Form navigation.
	NextField key.Binding // Move focus to the next form field.
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding // Abort the current form or pending request.

	// Authenticated shell.
	NextPage       key.Binding
	PrevPage       key.Binding
	DismissWarning key.Binding
	Logout         key.Binding
	Quit           key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "previous page"),
	),
	DismissWarning: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "dismiss warning"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "log out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
