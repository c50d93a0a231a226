//    Copyright 2017 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package bridge

import (
	"time"
)

// API of the bridge, the board the click counter worker runs on.
// It drives the status leds of the worker.
type API interface {
	// Turn Green status led on/off
	SetGreenLED(on bool) error
	// Turn Red status led on/off
	SetRedLED(on bool) error
	// Blink Green status led with given duration between on/off
	BlinkGreenLED(delay time.Duration) error
	// Blink Red status led with given duration between on/off
	BlinkRedLED(delay time.Duration) error

	Close() error
}

// LEDState is the state of a single status led.
type LEDState uint8

const (
	LEDOff LEDState = iota
	LEDOn
	LEDBlinking
)

// String returns a human readable led state.
func (s LEDState) String() string {
	switch s {
	case LEDOn:
		return "on"
	case LEDBlinking:
		return "blinking"
	default:
		return "off"
	}
}
