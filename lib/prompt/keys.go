// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the form. Text entry (runes and
// backspace) is handled directly by the field editor and is not
// rebindable.
type KeyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Accept     key.Binding
	Toggle     key.Binding
	CyclePrev  key.Binding
	CycleNext  key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the standard form bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		CyclePrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "previous choice"),
		),
		CycleNext: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "next choice"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
