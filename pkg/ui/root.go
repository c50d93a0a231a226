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
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	countStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder())
	blinkStyle = countStyle.
			BorderForeground(lipgloss.Color("9"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
	refusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// changeMsg is sent when the counter has changed.
type changeMsg counter.Snapshot

type Root struct {
	term     string
	hostID   string
	width    int
	counter  *counter.Counter
	changes  <-chan counter.Snapshot
	snapshot counter.Snapshot
	status   string
	keys     keyMap
	help     help.Model
}

var _ tea.Model = Root{}

// NewRoot creates the root model for the given counter.
// Changes received on the given channel trigger a redraw.
func NewRoot(term, hostID string, c *counter.Counter, changes <-chan counter.Snapshot) Root {
	return Root{
		term:     term,
		hostID:   hostID,
		counter:  c,
		changes:  changes,
		snapshot: c.Snapshot(),
		keys:     newKeyMap(),
		help:     help.New(),
	}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (r Root) Init() tea.Cmd {
	return waitForChange(r.changes)
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (r Root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changeMsg:
		r.snapshot = counter.Snapshot(msg)
		return r, waitForChange(r.changes)
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, r.keys.Quit):
			return r, tea.Quit
		case key.Matches(msg, r.keys.Increment):
			r = r.apply("increment", r.counter.Increment(1))
		case key.Matches(msg, r.keys.Decrement):
			r = r.apply("decrement", r.counter.Decrement(1))
		case key.Matches(msg, r.keys.ApproachZero):
			r = r.apply("towards zero", r.counter.ApproachZero(1))
		case key.Matches(msg, r.keys.Reset):
			r = r.apply("reset", r.counter.Reset())
		case key.Matches(msg, r.keys.Blink):
			if r.counter.IsBlinking() {
				r = r.apply("stop blink", r.counter.StopBlink())
			} else {
				r = r.apply("blink", r.counter.Blink())
			}
		}
	}
	return r, nil
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (r Root) View() string {
	s := r.snapshot
	title := titleStyle.Render("BinkyNet click counter") + dimStyle.Render(" "+r.hostID)
	if !s.Started {
		return title + "\n\n" + dimStyle.Render("Counter not started") + "\n\n" + r.help.View(r.keys) + "\n"
	}
	style := countStyle
	if s.Blinking {
		style = blinkStyle
	}
	count := style.Render(humanize.Comma(int64(s.Count)))
	info := dimStyle.Render(fmt.Sprintf("range %s..%s\nstart %s",
		humanize.Comma(int64(s.Min)), humanize.Comma(int64(s.Max)),
		humanize.Comma(int64(s.StartValue))))
	body := lipgloss.JoinHorizontal(lipgloss.Center, count, "  ", info)
	status := ""
	if r.status != "" {
		status = refusedStyle.Render(r.status) + "\n"
	}
	return title + "\n\n" + body + "\n" + status + "\n" + r.help.View(r.keys) + "\n"
}

// apply records the result of a counter operation.
func (r Root) apply(op string, ok bool) Root {
	r.snapshot = r.counter.Snapshot()
	if ok {
		r.status = ""
	} else {
		r.status = op + " refused"
	}
	return r
}

// waitForChange waits for the next change of the counter.
func waitForChange(changes <-chan counter.Snapshot) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		snapshot, ok := <-changes
		if !ok {
			return nil
		}
		return changeMsg(snapshot)
	}
}
