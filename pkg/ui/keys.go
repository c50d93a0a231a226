// Copyright 2025 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Increment    key.Binding
	Decrement    key.Binding
	ApproachZero key.Binding
	Reset        key.Binding
	Blink        key.Binding
	Quit         key.Binding
}

var _ interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
} = keyMap{}

func newKeyMap() keyMap {
	return keyMap{
		Increment: key.NewBinding(
			key.WithKeys("+", "up"),
			key.WithHelp("+/↑", "increment"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-", "down"),
			key.WithHelp("-/↓", "decrement"),
		),
		ApproachZero: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "towards zero"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Blink: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle blink"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "disconnect"),
		),
	}
}

// ShortHelp returns the bindings shown in the single line help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Increment, k.Decrement, k.ApproachZero, k.Reset, k.Blink, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Increment, k.Decrement, k.ApproachZero},
		{k.Reset, k.Blink, k.Quit},
	}
}
