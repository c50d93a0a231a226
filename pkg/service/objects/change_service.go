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

package objects

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

const (
	// Number of changes buffered before they are dropped
	changeQueueSize = 64
	// Receivers slower than this are reported
	slowReceiverThreshold = time.Second
)

// changeService distributes counter changes to registered receivers.
// Changes are queued by the counter (which holds its lock at that time)
// and delivered from Run, one at a time and in queue order.
type changeService struct {
	log   zerolog.Logger
	queue chan counter.Snapshot

	mutex     sync.Mutex
	lastID    uint64
	receivers []changeReceiver

	deliverMutex sync.Mutex
}

type changeReceiver struct {
	id uint64
	cb func(counter.Snapshot)
}

// newChangeService creates a new changeService.
func newChangeService(log zerolog.Logger) *changeService {
	return &changeService{
		log:   log,
		queue: make(chan counter.Snapshot, changeQueueSize),
	}
}

// Run the service until the given context is canceled
func (s *changeService) Run(ctx context.Context) error {
	for {
		select {
		case snapshot := <-s.queue:
			s.deliverMutex.Lock()
			s.deliver(snapshot)
			s.deliverMutex.Unlock()
		case <-ctx.Done():
			return nil
		}
	}
}

// flush delivers all queued changes without waiting for new ones.
func (s *changeService) flush() {
	s.deliverMutex.Lock()
	defer s.deliverMutex.Unlock()

	for {
		select {
		case snapshot := <-s.queue:
			s.deliver(snapshot)
		default:
			return
		}
	}
}

// enqueue a change without blocking.
func (s *changeService) enqueue(snapshot counter.Snapshot) {
	select {
	case s.queue <- snapshot:
		// Done
	default:
		changesDroppedTotal.Inc()
		s.log.Warn().
			Int32("count", snapshot.Count).
			Msg("Change queue full, dropping change")
	}
}

// deliver the given change to all receivers, in order of registration.
func (s *changeService) deliver(snapshot counter.Snapshot) {
	s.mutex.Lock()
	receivers := append([]changeReceiver(nil), s.receivers...)
	s.mutex.Unlock()

	for _, r := range receivers {
		s.call(r, snapshot)
	}
	changesPublishedTotal.Inc()
}

// call a single receiver, recovering from a panic in it.
func (s *changeService) call(r changeReceiver, snapshot counter.Snapshot) {
	defer func() {
		if p := recover(); p != nil {
			changeReceiverPanicsTotal.Inc()
			s.log.Error().
				Uint64("receiver", r.id).
				Interface("panic", p).
				Msg("Change receiver panicked")
		}
	}()
	start := time.Now()
	r.cb(snapshot)
	if d := time.Since(start); d > slowReceiverThreshold {
		s.log.Warn().
			Uint64("receiver", r.id).
			Dur("duration", d).
			Msg("Slow change receiver")
	}
}

// RegisterChangeReceiver registers a callback that is called for every
// change of the counter.
// The callback is called from a single goroutine, so it must not block.
func (s *changeService) RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastID++
	id := s.lastID
	s.receivers = append(s.receivers, changeReceiver{id: id, cb: cb})
	return func() {
		s.unregister(id)
	}
}

// unregister removes the receiver with given ID.
func (s *changeService) unregister(id uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, r := range s.receivers {
		if r.id == id {
			s.receivers = append(s.receivers[:i:i], s.receivers[i+1:]...)
			return
		}
	}
}
