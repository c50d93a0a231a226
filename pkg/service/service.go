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

package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/ClickCounter/pkg/counter"
	"github.com/binkynet/ClickCounter/pkg/service/bridge"
	"github.com/binkynet/ClickCounter/pkg/service/devices"
	"github.com/binkynet/ClickCounter/pkg/service/objects"
)

// Service runs the click counter.
type Service interface {
	// Run the click counter until the given context is cancelled.
	Run(ctx context.Context) error
	// HostID returns the ID of this host.
	HostID() string
	// ProgramVersion returns the version of this program.
	ProgramVersion() string
	// Counter returns the counter.
	Counter() *counter.Counter
	// RegisterChangeReceiver registers a callback that is called for every
	// change of the count. Call the returned function to unregister.
	RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc
}

type Config struct {
	ProgramVersion string
	HostID         string // Only used if not empty
	// Value the counter starts at
	StartValue int32
	Counter    counter.Config
	Devices    devices.Config
}

type Dependencies struct {
	Logger zerolog.Logger
	Bridge bridge.API
}

type service struct {
	Config
	Dependencies

	hostID     string
	devService devices.Service
	objService objects.Service
}

// NewService creates a Service instance and returns it.
func NewService(conf Config, deps Dependencies) (Service, error) {
	deps.Logger = deps.Logger.With().Str("component", "service").Logger()
	// Create host ID
	hostID := conf.HostID
	if hostID == "" {
		var err error
		hostID, err = createHostID()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to create host ID")
		}
	}
	deps.Logger = deps.Logger.With().Str("host-id", hostID).Logger()
	if conf.Devices.ModuleID == "" {
		conf.Devices.ModuleID = hostID
	}

	// Build devices service
	devService, err := devices.NewService(conf.Devices, deps.Bridge, deps.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "devices.NewService failed")
	}
	// Build objects service
	var button counter.Button
	if btn := devService.Button(); btn != nil {
		button = btn
	}
	objService, err := objects.NewService(objects.Config{
		StartValue: conf.StartValue,
		Counter:    conf.Counter,
	}, objects.Dependencies{
		Log:     deps.Logger,
		Bridge:  deps.Bridge,
		Display: devService.Display(),
		Button:  button,
	})
	if err != nil {
		return nil, errors.Wrap(err, "objects.NewService failed")
	}
	infoGauge.WithLabelValues(conf.ProgramVersion, hostID).Set(1)
	return &service{
		Config:       conf,
		Dependencies: deps,
		hostID:       hostID,
		devService:   devService,
		objService:   objService,
	}, nil
}

// HostID returns the ID of this host.
func (s *service) HostID() string {
	return s.hostID
}

// ProgramVersion returns the version of this program.
func (s *service) ProgramVersion() string {
	return s.Config.ProgramVersion
}

// Counter returns the counter.
func (s *service) Counter() *counter.Counter {
	return s.objService.Counter()
}

// RegisterChangeReceiver registers a callback that is called for every
// change of the count.
func (s *service) RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc {
	return s.objService.RegisterChangeReceiver(cb)
}

// Run configures the devices, starts the counter and then runs
// devices & objects until the given context is cancelled.
func (s *service) Run(ctx context.Context) error {
	log := s.Logger
	defer s.Bridge.Close()

	s.Bridge.BlinkGreenLED(time.Millisecond * 250)
	s.Bridge.SetRedLED(false)

	defer func() {
		log.Debug().Msg("closing devices service")
		if err := s.devService.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to close devices")
		}
	}()

	// Configure devices
	log.Debug().Msg("configure devices")
	if err := s.devService.Configure(ctx); err != nil {
		configureDevicesFailuresTotal.Inc()
		log.Error().Err(err).Msg("Not all devices are configured")
	}
	// Stop fast if context canceled
	if ctx.Err() != nil {
		return nil
	}

	// Start the counter
	log.Debug().Msg("configure objects")
	if err := s.objService.Configure(ctx); err != nil {
		s.Bridge.SetRedLED(true)
		return errors.Wrap(err, "Failed to start counter")
	}
	defer func() {
		log.Debug().Msg("stopping counter")
		if err := s.objService.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to stop counter")
		}
	}()

	s.Bridge.SetGreenLED(true)
	runningGauge.Set(1)
	defer runningGauge.Set(0)
	log.Info().Msg("Click counter running")

	// Run devices & objects
	g, lctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Debug().Msg("run devices")
		if err := s.devService.Run(lctx); err != nil {
			log.Error().Err(err).Msg("Run devices failed")
			return errors.Wrap(err, "failed to run devices")
		}
		log.Debug().Msg("run devices ended")
		return nil
	})
	g.Go(func() error {
		log.Debug().Msg("run objects")
		if err := s.objService.Run(lctx); err != nil {
			log.Error().Err(err).Msg("Run objects failed")
			return errors.Wrap(err, "failed to run objects")
		}
		log.Debug().Msg("run objects ended")
		return nil
	})
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "Wait failed")
	}
	s.Bridge.SetGreenLED(false)
	return nil
}
