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
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogDisplay is a virtual display that writes everything it shows to the log.
type LogDisplay struct {
	log      zerolog.Logger
	mutex    sync.Mutex
	onActive func()
	state    displayState
}

var _ Display = &LogDisplay{}

// NewLogDisplay creates a virtual display with the given number of digits.
func NewLogDisplay(log zerolog.Logger, digits int, onActive func()) (*LogDisplay, error) {
	state, err := newDisplayState(digits)
	if err != nil {
		return nil, err
	}
	if onActive == nil {
		onActive = func() {}
	}
	return &LogDisplay{
		log:      log.With().Str("device", "log-display").Logger(),
		onActive: onActive,
		state:    state,
	}, nil
}

// Configure is called once to put the device in the desired state.
func (d *LogDisplay) Configure(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.state.clear()
	d.onActive()
	return nil
}

// Close brings the device back to a safe state.
func (d *LogDisplay) Close(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.state.clear()
	d.state.blinking = false
	d.onActive()
	return nil
}

func (d *LogDisplay) DisplayableMin() int32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state.displayableMin()
}

func (d *LogDisplay) DisplayableMax() int32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state.displayableMax()
}

// Print shows the given value.
func (d *LogDisplay) Print(value int32, rightAligned, zeroPadded bool) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.state.print(value, rightAligned, zeroPadded); err != nil {
		return err
	}
	d.log.Info().Str("text", "["+d.state.text+"]").Msg("display")
	d.onActive()
	return nil
}

// Clear turns off all segments.
func (d *LogDisplay) Clear() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.state.clear()
	d.log.Info().Msg("display cleared")
	d.onActive()
	return nil
}

// Blink starts blinking at the current rate.
func (d *LogDisplay) Blink() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.state.blinking {
		d.state.blinking = true
		d.logBlink()
	}
	return nil
}

// BlinkAt starts blinking at the given rate.
func (d *LogDisplay) BlinkAt(onRate, offRate time.Duration) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.state.blinking {
		return nil
	}
	if err := d.state.setBlinkRate(onRate, offRate); err != nil {
		return err
	}
	d.state.blinking = true
	d.logBlink()
	return nil
}

// StopBlink stops blinking.
func (d *LogDisplay) StopBlink() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.state.blinking {
		d.state.blinking = false
		d.logBlink()
	}
	return nil
}

// SetBlinkRate changes the blink rate.
func (d *LogDisplay) SetBlinkRate(onRate, offRate time.Duration) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.state.setBlinkRate(onRate, offRate); err != nil {
		return err
	}
	if d.state.blinking {
		d.logBlink()
	}
	return nil
}

func (d *LogDisplay) MinBlinkRate() time.Duration { return minBlinkRate }
func (d *LogDisplay) MaxBlinkRate() time.Duration { return maxBlinkRate }

// Text returns the text currently shown.
func (d *LogDisplay) Text() string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state.text
}

// BlinkState returns the blink state as published to remote displays.
func (d *LogDisplay) BlinkState() string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state.blinkPayload()
}

func (d *LogDisplay) logBlink() {
	d.log.Info().Str("blink", d.state.blinkPayload()).Msg("display blink changed")
	d.onActive()
}
