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
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/ClickCounter/pkg/counter"
	"github.com/binkynet/ClickCounter/pkg/service/bridge"
	utils "github.com/binkynet/ClickCounter/pkg/service/util"
)

const (
	// How long the green led blinks when the count reaches zero
	zeroBlinkDuration = time.Second * 2
	zeroBlinkDelay    = time.Second / 10
)

// Service contains the API that is exposed by the object service.
type Service interface {
	// Counter returns the counter owned by this service.
	Counter() *counter.Counter
	// Configure starts the counter at the configured start value.
	Configure(ctx context.Context) error
	// Run the button poll loop & change distribution until the given
	// context is canceled.
	Run(ctx context.Context) error
	// Close stops the counter and delivers the remaining changes.
	Close(ctx context.Context) error
	// RegisterChangeReceiver registers a callback that is called for every
	// change of the count. Call the returned function to unregister.
	RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc
}

// Config of the object service.
type Config struct {
	// Value the counter starts at
	StartValue int32
	// Configuration of the counter
	Counter counter.Config
}

// Dependencies of the object service.
type Dependencies struct {
	Log    zerolog.Logger
	Bridge bridge.API
	// Optional display & button, passed to the counter
	Display counter.Display
	Button  counter.Button
}

type service struct {
	Config
	log           zerolog.Logger
	bAPI          bridge.API
	counter       *counter.Counter
	changeService *changeService
	zeros         chan struct{}
}

// NewService instantiates a new object Service.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	log := deps.Log.With().Str("component", "object-service").Logger()
	s := &service{
		Config:        cfg,
		log:           log,
		bAPI:          deps.Bridge,
		changeService: newChangeService(log),
		zeros:         make(chan struct{}, 1),
	}
	s.counter = counter.New(cfg.Counter, counter.Dependencies{
		Log:      deps.Log,
		Display:  deps.Display,
		Button:   deps.Button,
		OnZero:   s.onZero,
		OnChange: s.changeService.enqueue,
	})
	return s, nil
}

// Counter returns the counter owned by this service.
func (s *service) Counter() *counter.Counter {
	return s.counter
}

// Configure starts the counter at the configured start value.
func (s *service) Configure(ctx context.Context) error {
	if s.counter.IsStarted() {
		return nil
	}
	if !s.counter.Initialize(s.StartValue) {
		return errors.Errorf("failed to initialize counter at %d", s.StartValue)
	}
	s.log.Info().
		Int32("start", s.StartValue).
		Int32("min", s.counter.Min()).
		Int32("max", s.counter.Max()).
		Msg("Counter started")
	return nil
}

// Run the button poll loop & change distribution until the given
// context is canceled.
func (s *service) Run(ctx context.Context) error {
	log := s.log
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.changeService.Run(ctx)
	})
	g.Go(func() error {
		return s.runZeroNotify(ctx)
	})
	if s.counter.IsButtonBound() {
		g.Go(func() error {
			return utils.UntilCanceled(ctx, log, "pollButton", func() error {
				s.counter.Poll()
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Msg("Run objects failed")
		return err
	}
	return nil
}

// Close stops the counter and delivers the remaining changes.
// It is called after Run has returned.
func (s *service) Close(ctx context.Context) error {
	if s.counter.IsStarted() && !s.counter.Deinitialize() {
		return errors.New("failed to deinitialize counter")
	}
	s.changeService.flush()
	return nil
}

// RegisterChangeReceiver registers a callback that is called for every
// change of the count.
func (s *service) RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc {
	return s.changeService.RegisterChangeReceiver(cb)
}

// onZero is called by the counter (while locked) when the count reaches zero.
func (s *service) onZero() {
	zeroReachedTotal.Inc()
	select {
	case s.zeros <- struct{}{}:
	default:
		// Already pending
	}
}

// runZeroNotify blinks the green led for a while when the count reached zero.
func (s *service) runZeroNotify(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.zeros:
			s.log.Info().Msg("Count reached zero")
			if s.bAPI == nil {
				continue
			}
			s.bAPI.BlinkGreenLED(zeroBlinkDelay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(zeroBlinkDuration):
				s.bAPI.SetGreenLED(true)
			}
		}
	}
}
