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

package devices

import (
	"context"
	"sync/atomic"
	"time"

	aerr "github.com/ewoutp/go-aggregate-error"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/ClickCounter/pkg/service/bridge"
)

// Config of the device service.
type Config struct {
	// Identifier of this module, used for MQTT client IDs & topics.
	ModuleID string
	// Number of digits of the display.
	// NoDisplay means the counter runs without display, using its
	// configured range.
	DisplayDigits int
	// Address (host:port) of the MQTT broker.
	// If empty, a virtual display is used and there is no button.
	MQTTBrokerAddress string
	// Prefix of all MQTT topics, ending with '/'.
	// If empty, a prefix is derived from the module ID.
	TopicPrefix string
	// If set, a button is used to increment the count.
	Button bool
}

// NoDisplay is the DisplayDigits value for a counter without display.
const NoDisplay = 0

// Service contains the API that is exposed by the device service.
type Service interface {
	// Display returns the display that shows the count, or nil.
	Display() Display
	// Button returns the button used to increment the count, or nil.
	Button() Button
	// Configure is called once to put all devices in the desired state.
	Configure(ctx context.Context) error
	// Run the service until the given context is canceled.
	Run(ctx context.Context) error
	// Close brings all devices back to a safe state.
	Close(context.Context) error
}

type service struct {
	log         zerolog.Logger
	bAPI        bridge.API
	display     Display
	button      Button
	devices     []Device
	activeCount uint32
}

// NewService instantiates a new Service and the Device's for the given
// configuration.
func NewService(cfg Config, bAPI bridge.API, log zerolog.Logger) (Service, error) {
	s := &service{
		log:  log.With().Str("component", "device-service").Logger(),
		bAPI: bAPI,
	}
	topicPrefix := cfg.TopicPrefix
	if topicPrefix == "" {
		topicPrefix = DefaultMQTTTopicPrefix(cfg.ModuleID)
	}
	if cfg.DisplayDigits < 0 {
		return nil, errors.Wrapf(InvalidArgumentError, "digits must not be negative, got %d", cfg.DisplayDigits)
	}
	switch {
	case cfg.DisplayDigits == NoDisplay:
		s.log.Info().Msg("No display, using configured counter range")
	case cfg.MQTTBrokerAddress == "":
		disp, err := NewLogDisplay(s.log, cfg.DisplayDigits, s.onActive)
		if err != nil {
			return nil, err
		}
		s.display = disp
	default:
		disp, err := newMQTTDisplay(s.log, cfg.DisplayDigits, s.onActive, cfg.ModuleID, topicPrefix, cfg.MQTTBrokerAddress)
		if err != nil {
			return nil, err
		}
		s.display = disp
	}
	if cfg.Button && cfg.MQTTBrokerAddress != "" {
		btn, err := newMQTTButton(s.log, s.onActive, cfg.ModuleID, topicPrefix, cfg.MQTTBrokerAddress)
		if err != nil {
			return nil, err
		}
		s.button = btn
	}
	if s.display != nil {
		s.devices = append(s.devices, s.display)
	}
	if s.button != nil {
		s.devices = append(s.devices, s.button)
	} else if cfg.Button {
		s.log.Warn().Msg("Button requires an MQTT broker, continuing without button")
	}
	devicesCreatedTotal.Set(float64(len(s.devices)))
	return s, nil
}

// Display returns the display that shows the count, or nil.
func (s *service) Display() Display {
	return s.display
}

// Button returns the button used to increment the count, or nil.
func (s *service) Button() Button {
	return s.button
}

// Configure is called once to put all devices in the desired state.
func (s *service) Configure(ctx context.Context) error {
	log := s.log
	var ae aerr.AggregateError
	configured := 0
	for _, d := range s.devices {
		log.Debug().Msg("configuring device...")
		if err := d.Configure(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to configure device")
			ae.Add(err)
		} else {
			configured++
			log.Debug().Msg("configured device")
		}
	}
	log.Info().Int("count", configured).Msg("Configured devices")
	devicesConfiguredTotal.Set(float64(configured))
	return ae.AsError()
}

// Run the service until the given context is canceled.
func (s *service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.runActiveNotify(ctx) })
	return g.Wait()
}

// Close brings all devices back to a safe state.
func (s *service) Close(ctx context.Context) error {
	var ae aerr.AggregateError
	for _, d := range s.devices {
		if err := d.Close(ctx); err != nil {
			ae.Add(err)
		}
	}
	return ae.AsError()
}

// onActive is called when a device change is activated.
func (s *service) onActive() {
	atomic.AddUint32(&s.activeCount, 1)
}

// runActiveNotify blinks the red LED when a device has become active.
func (s *service) runActiveNotify(ctx context.Context) error {
	lastActiveCount := uint32(0)
	count := 0
	for {
		select {
		case <-ctx.Done():
			// Context canceled
			return nil
		case <-time.After(time.Second / 10):
			newActiveCount := atomic.LoadUint32(&s.activeCount)
			if newActiveCount != lastActiveCount {
				lastActiveCount = newActiveCount
				s.bAPI.BlinkRedLED(time.Second / 10)
				count = 0
			} else if count < 20 {
				count++
			} else {
				count = 0
				s.bAPI.SetRedLED(false)
			}
		}
	}
}
