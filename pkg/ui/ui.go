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
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/rs/zerolog"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

const (
	// Number of changes buffered per session
	sessionChangesSize = 16
)

// Service needed by the UI.
type Service interface {
	// HostID returns the ID of this host.
	HostID() string
	// Counter returns the counter.
	Counter() *counter.Counter
	// RegisterChangeReceiver registers a callback that is called for every
	// change of the count.
	RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc
}

// UI creates a counter model for every SSH session.
type UI struct {
	log     zerolog.Logger
	service Service
}

// New creates a new UI.
func New(log zerolog.Logger, service Service) *UI {
	return &UI{
		log:     log.With().Str("component", "ui").Logger(),
		service: service,
	}
}

// Handler creates a Bubble Tea model for the given SSH session.
func (u *UI) Handler(s ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := s.Pty()
	changes := make(chan counter.Snapshot, sessionChangesSize)
	unregister := u.service.RegisterChangeReceiver(func(snapshot counter.Snapshot) {
		pushChange(changes, snapshot)
	})
	go func() {
		<-s.Context().Done()
		unregister()
	}()
	u.log.Debug().Str("user", s.User()).Msg("New UI session")
	root := NewRoot(pty.Term, u.service.HostID(), u.service.Counter(), changes)
	return root, []tea.ProgramOption{tea.WithAltScreen()}
}

// pushChange adds the given snapshot to the channel without blocking.
// When the session is not keeping up, the oldest change is dropped so the
// newest state is always shown.
func pushChange(changes chan counter.Snapshot, snapshot counter.Snapshot) {
	for {
		select {
		case changes <- snapshot:
			return
		default:
			select {
			case <-changes:
				// Dropped oldest
			default:
			}
		}
	}
}
