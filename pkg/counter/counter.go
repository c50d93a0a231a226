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

import (
	"sync"

	"github.com/rs/zerolog"
)

// Alignment of the count on the display.
type Alignment uint8

const (
	// AlignRight pads the count at the left side.
	AlignRight Alignment = iota
	// AlignLeft pads the count at the right side.
	AlignLeft
)

// Config of a counter.
type Config struct {
	// Range of the count, only used when no display is attached.
	Min int32
	Max int32
	// Align of the count on the display
	Align Alignment
	// If set, leading free digits are filled with zeros (right aligned only)
	ZeroPadded bool
}

// Dependencies of a counter.
type Dependencies struct {
	Log zerolog.Logger
	// Optional display showing the count
	Display Display
	// Optional button that increments the count on every click
	Button Button
	// OnZero is called when a mutation brings the count to 0.
	// It is called with the counter locked, so it must not call
	// any counter method.
	OnZero func()
	// OnChange is called after every successful count mutation and
	// after the counter is started or stopped.
	// Same locking rules as OnZero apply.
	OnChange func(Snapshot)
}

// Snapshot of the state of a counter.
type Snapshot struct {
	Count      int32 `json:"count"`
	Min        int32 `json:"min"`
	Max        int32 `json:"max"`
	StartValue int32 `json:"start_value"`
	Started    bool  `json:"started"`
	Blinking   bool  `json:"blinking"`
}

// Counter is a bounded tally counter, optionally shown on a display.
// All methods are safe for concurrent use.
type Counter struct {
	log      zerolog.Logger
	config   Config
	display  Display
	button   Button
	onZero   func()
	onChange func(Snapshot)

	mutex      sync.Mutex
	count      int32
	countMin   int32
	countMax   int32
	startValue int32
	started    bool
	blinking   bool
}

// New creates a counter that is not started yet.
// When a display is given, the range of the counter is taken from the
// display during Initialize and the Min/Max in the config are ignored.
func New(cfg Config, deps Dependencies) *Counter {
	return &Counter{
		log:      deps.Log.With().Str("component", "counter").Logger(),
		config:   cfg,
		display:  deps.Display,
		button:   deps.Button,
		onZero:   deps.OnZero,
		onChange: deps.OnChange,
	}
}

// IsDisplayBound returns true when a display is attached to the counter.
func (c *Counter) IsDisplayBound() bool {
	return c.display != nil
}

// IsButtonBound returns true when a button is attached to the counter.
func (c *Counter) IsButtonBound() bool {
	return c.button != nil
}

// Initialize starts the counter at the given value.
// Fails when already started, when the range is empty or when the start
// value is out of range.
func (c *Counter) Initialize(startValue int32) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.started {
		return c.result(opInitialize, false)
	}
	countMin, countMax := c.config.Min, c.config.Max
	if c.display != nil {
		countMin, countMax = c.display.DisplayableMin(), c.display.DisplayableMax()
	}
	if countMin >= countMax {
		c.log.Debug().
			Int32("min", countMin).
			Int32("max", countMax).
			Msg("Invalid counter range")
		return c.result(opInitialize, false)
	}
	if startValue < countMin || startValue > countMax {
		return c.result(opInitialize, false)
	}
	if !c.show(startValue) {
		return c.result(opInitialize, false)
	}
	c.countMin, c.countMax = countMin, countMax
	c.count = startValue
	c.startValue = startValue
	c.started = true
	c.log.Debug().
		Int32("start", startValue).
		Int32("min", countMin).
		Int32("max", countMax).
		Msg("Counter initialized")
	c.notifyChange()
	return c.result(opInitialize, true)
}

// Deinitialize stops the counter.
// The display (if any) is cleared and the count and range are zeroed.
func (c *Counter) Deinitialize() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.started {
		return c.result(opDeinitialize, false)
	}
	if c.display != nil {
		if c.blinking {
			if err := c.display.StopBlink(); err != nil {
				c.log.Warn().Err(err).Msg("StopBlink failed")
			}
		}
		if err := c.display.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("Clear failed")
		}
	}
	c.count, c.countMin, c.countMax, c.startValue = 0, 0, 0, 0
	c.blinking = false
	c.started = false
	c.notifyChange()
	return c.result(opDeinitialize, true)
}

// Increment adds |qty| to the count.
func (c *Counter) Increment(qty int32) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	q := absQty(qty)
	if !c.started || q == 0 || int64(c.count)+q > int64(c.countMax) {
		return c.result(opIncrement, false)
	}
	return c.result(opIncrement, c.commit(int32(int64(c.count)+q)))
}

// Decrement subtracts |qty| from the count.
func (c *Counter) Decrement(qty int32) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	q := absQty(qty)
	if !c.started || q == 0 || int64(c.count)-q < int64(c.countMin) {
		return c.result(opDecrement, false)
	}
	return c.result(opDecrement, c.commit(int32(int64(c.count)-q)))
}

// ApproachZero moves the count |qty| closer to zero, without crossing it.
// Fails when the count is already zero.
func (c *Counter) ApproachZero(qty int32) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	q := absQty(qty)
	if !c.started || q == 0 {
		return c.result(opApproachZero, false)
	}
	current := int64(c.count)
	var next int64
	switch {
	case current > 0:
		next = current - q
		if next < 0 {
			return c.result(opApproachZero, false)
		}
	case current < 0:
		next = current + q
		if next > 0 {
			return c.result(opApproachZero, false)
		}
	default:
		return c.result(opApproachZero, false)
	}
	// Zero may lie outside the range
	if next < int64(c.countMin) || next > int64(c.countMax) {
		return c.result(opApproachZero, false)
	}
	return c.result(opApproachZero, c.commit(int32(next)))
}

// Reset sets the count back to the start value given to Initialize.
func (c *Counter) Reset() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.result(opReset, c.restart(c.startValue))
}

// Restart sets the count to the given value, when in range.
// The start value is not changed.
func (c *Counter) Restart(value int32) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.result(opRestart, c.restart(value))
}

// Poll consumes a click of the attached button (if any) and increments
// the count by one for it.
// Returns true when the count was incremented.
func (c *Counter) Poll() bool {
	if c.button == nil || !c.button.WasClicked() {
		return false
	}
	clicksTotal.Inc()
	return c.Increment(1)
}

// IsZero returns true when the count equals 0.
func (c *Counter) IsZero() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.count == 0
}

// Count returns the current count.
func (c *Counter) Count() int32 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.count
}

// Min returns the lowest valid count.
func (c *Counter) Min() int32 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.countMin
}

// Max returns the highest valid count.
func (c *Counter) Max() int32 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.countMax
}

// StartValue returns the value given to Initialize.
func (c *Counter) StartValue() int32 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.startValue
}

// IsStarted returns true between a successful Initialize and Deinitialize.
func (c *Counter) IsStarted() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.started
}

// Snapshot returns a consistent copy of the counter state.
func (c *Counter) Snapshot() Snapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.snapshot()
}

func (c *Counter) snapshot() Snapshot {
	return Snapshot{
		Count:      c.count,
		Min:        c.countMin,
		Max:        c.countMax,
		StartValue: c.startValue,
		Started:    c.started,
		Blinking:   c.blinking,
	}
}

// restart sets the count to the given value.
// Requires the mutex to be held.
func (c *Counter) restart(value int32) bool {
	if !c.started || value < c.countMin || value > c.countMax {
		return false
	}
	return c.commit(value)
}

// commit shows the given value and, when that succeeds, makes it the
// new count.
// Requires the mutex to be held.
func (c *Counter) commit(value int32) bool {
	if !c.show(value) {
		return false
	}
	previous := c.count
	c.count = value
	countGauge.Set(float64(value))
	c.notifyChange()
	if value == 0 && previous != 0 {
		if cb := c.onZero; cb != nil {
			cb()
		}
	}
	return true
}

// notifyChange passes the current state to the OnChange callback (if any).
// Requires the mutex to be held.
func (c *Counter) notifyChange() {
	if cb := c.onChange; cb != nil {
		cb(c.snapshot())
	}
}

// show pushes the given value to the display.
// Without a display this is always successful.
// Requires the mutex to be held.
func (c *Counter) show(value int32) bool {
	if c.display == nil {
		return true
	}
	if err := c.display.Print(value, c.config.Align == AlignRight, c.config.ZeroPadded); err != nil {
		c.log.Warn().Err(err).Int32("value", value).Msg("Print failed")
		displayErrorsTotal.WithLabelValues("print").Inc()
		return false
	}
	return true
}

// result records the outcome of the given operation.
func (c *Counter) result(op string, ok bool) bool {
	operationsTotal.WithLabelValues(op, resultLabel(ok)).Inc()
	return ok
}

// absQty returns |qty| as int64 so that |MinInt32| does not overflow.
func absQty(qty int32) int64 {
	q := int64(qty)
	if q < 0 {
		return -q
	}
	return q
}
