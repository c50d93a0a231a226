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

package counter

import "time"

// Blink makes the display blink at the rate set before.
// Without a display this is a successful no-op.
func (c *Counter) Blink() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.display == nil || c.blinking {
		return c.result(opBlink, true)
	}
	if err := c.display.Blink(); err != nil {
		c.log.Warn().Err(err).Msg("Blink failed")
		displayErrorsTotal.WithLabelValues("blink").Inc()
		return c.result(opBlink, false)
	}
	c.blinking = true
	return c.result(opBlink, true)
}

// BlinkAt makes the display blink with given on & off durations.
// An offRate of 0 results in a symmetric blink using onRate.
// When the display is already blinking, nothing is changed.
func (c *Counter) BlinkAt(onRate, offRate time.Duration) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.display == nil || c.blinking {
		return c.result(opBlink, true)
	}
	onRate, offRate = symmetric(onRate, offRate)
	if !c.validBlinkRate(onRate, offRate) {
		return c.result(opBlink, false)
	}
	if err := c.display.BlinkAt(onRate, offRate); err != nil {
		c.log.Warn().Err(err).Msg("BlinkAt failed")
		displayErrorsTotal.WithLabelValues("blink").Inc()
		return c.result(opBlink, false)
	}
	c.blinking = true
	return c.result(opBlink, true)
}

// StopBlink stops the display from blinking.
func (c *Counter) StopBlink() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.display == nil {
		return c.result(opStopBlink, true)
	}
	if err := c.display.StopBlink(); err != nil {
		c.log.Warn().Err(err).Msg("StopBlink failed")
		displayErrorsTotal.WithLabelValues("stop_blink").Inc()
		return c.result(opStopBlink, false)
	}
	c.blinking = false
	return c.result(opStopBlink, true)
}

// SetBlinkRate changes the on & off durations of blinking.
// An offRate of 0 results in a symmetric blink using onRate.
func (c *Counter) SetBlinkRate(onRate, offRate time.Duration) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.display == nil {
		return c.result(opSetBlinkRate, true)
	}
	onRate, offRate = symmetric(onRate, offRate)
	if !c.validBlinkRate(onRate, offRate) {
		return c.result(opSetBlinkRate, false)
	}
	if err := c.display.SetBlinkRate(onRate, offRate); err != nil {
		c.log.Warn().Err(err).Msg("SetBlinkRate failed")
		displayErrorsTotal.WithLabelValues("set_blink_rate").Inc()
		return c.result(opSetBlinkRate, false)
	}
	return c.result(opSetBlinkRate, true)
}

// IsBlinking returns true when the display was told to blink.
func (c *Counter) IsBlinking() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.blinking
}

// MinBlinkRate returns the smallest blink rate of the display, 0 without display.
func (c *Counter) MinBlinkRate() time.Duration {
	if c.display == nil {
		return 0
	}
	return c.display.MinBlinkRate()
}

// MaxBlinkRate returns the largest blink rate of the display, 0 without display.
func (c *Counter) MaxBlinkRate() time.Duration {
	if c.display == nil {
		return 0
	}
	return c.display.MaxBlinkRate()
}

// ClearDisplay turns the display off, the count is kept.
func (c *Counter) ClearDisplay() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.display == nil {
		return c.result(opClear, true)
	}
	if err := c.display.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("Clear failed")
		displayErrorsTotal.WithLabelValues("clear").Inc()
		return c.result(opClear, false)
	}
	return c.result(opClear, true)
}

// RefreshDisplay shows the current count on the display again.
func (c *Counter) RefreshDisplay() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.started {
		return c.result(opRefresh, false)
	}
	return c.result(opRefresh, c.show(c.count))
}

// validBlinkRate checks the given rates against the limits of the display.
func (c *Counter) validBlinkRate(onRate, offRate time.Duration) bool {
	lo, hi := c.display.MinBlinkRate(), c.display.MaxBlinkRate()
	return onRate >= lo && onRate <= hi && offRate >= lo && offRate <= hi
}

func symmetric(onRate, offRate time.Duration) (time.Duration, time.Duration) {
	if offRate == 0 {
		return onRate, onRate
	}
	return onRate, offRate
}
