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

// Display contains the API of a display that is able to show the count.
// The counter never owns the display, it must outlive the counter.
// Implementations must not call back into the counter.
type Display interface {
	// DisplayableMin returns the smallest integer the display can show.
	DisplayableMin() int32
	// DisplayableMax returns the largest integer the display can show.
	DisplayableMax() int32
	// Print shows the given value.
	Print(value int32, rightAligned, zeroPadded bool) error
	// Clear turns off all segments.
	Clear() error
	// Blink starts blinking at the currently set rate.
	// Calling Blink while blinking changes nothing.
	Blink() error
	// BlinkAt starts blinking with the given on & off durations.
	// Calling BlinkAt while blinking changes nothing.
	BlinkAt(onRate, offRate time.Duration) error
	// StopBlink stops blinking, the blink rate is kept.
	StopBlink() error
	// SetBlinkRate changes the blink rate, without starting to blink.
	SetBlinkRate(onRate, offRate time.Duration) error
	// MinBlinkRate returns the smallest accepted on/off duration.
	MinBlinkRate() time.Duration
	// MaxBlinkRate returns the largest accepted on/off duration.
	MaxBlinkRate() time.Duration
}

// Button contains the API of a (debounced) button.
type Button interface {
	// WasClicked returns true once for every click edge.
	WasClicked() bool
}
