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
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, r Root, msg tea.Msg) Root {
	m, _ := r.Update(msg)
	result, ok := m.(Root)
	require.True(t, ok)
	return result
}

func TestRootKeys(t *testing.T) {
	c := counter.New(counter.Config{Min: -10, Max: 1500}, counter.Dependencies{Log: zerolog.Nop()})
	require.True(t, c.Initialize(1))
	r := NewRoot("xterm", "abc", c, nil)
	assert.Nil(t, r.Init())

	r = update(t, r, keyPress("+"))
	r = update(t, r, keyPress("up"))
	assert.Equal(t, int32(3), c.Count())
	assert.Equal(t, int32(3), r.snapshot.Count)

	r = update(t, r, keyPress("-"))
	r = update(t, r, keyPress("down"))
	r = update(t, r, keyPress("z"))
	assert.Equal(t, int32(0), c.Count())
	r = update(t, r, keyPress("z"))
	assert.Equal(t, "towards zero refused", r.status)
	assert.Contains(t, r.View(), "refused")

	r = update(t, r, keyPress("r"))
	assert.Equal(t, int32(1), c.Count())
	assert.Empty(t, r.status)

	// Without display, blinking is a no-op
	r = update(t, r, keyPress("b"))
	assert.Empty(t, r.status)
	assert.False(t, c.IsBlinking())

	_, cmd := r.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRootChanges(t *testing.T) {
	c := counter.New(counter.Config{Min: 0, Max: 5000}, counter.Dependencies{Log: zerolog.Nop()})
	require.True(t, c.Initialize(1234))
	changes := make(chan counter.Snapshot, 1)
	r := NewRoot("xterm", "abc", c, changes)
	assert.Contains(t, r.View(), "1,234")

	changes <- counter.Snapshot{Count: 4321, Max: 5000, Started: true}
	msg := r.Init()()
	r = update(t, r, msg)
	assert.Equal(t, int32(4321), r.snapshot.Count)
	assert.Contains(t, r.View(), "4,321")
}

func TestRootNotStarted(t *testing.T) {
	c := counter.New(counter.Config{Min: 0, Max: 10}, counter.Dependencies{Log: zerolog.Nop()})
	r := NewRoot("xterm", "abc", c, nil)
	assert.Contains(t, r.View(), "not started")
	r = update(t, r, keyPress("+"))
	assert.Equal(t, "increment refused", r.status)
}

func TestPushChangeKeepsNewest(t *testing.T) {
	changes := make(chan counter.Snapshot, 2)
	for i := int32(1); i <= 5; i++ {
		pushChange(changes, counter.Snapshot{Count: i})
	}
	require.Len(t, changes, 2)
	assert.Equal(t, int32(4), (<-changes).Count)
	assert.Equal(t, int32(5), (<-changes).Count)
}
