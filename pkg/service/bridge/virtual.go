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
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// VirtualBridge is a bridge without hardware.
// It only remembers the state of its leds.
type VirtualBridge struct {
	log      zerolog.Logger
	mutex    sync.Mutex
	greenLed LEDState
	redLed   LEDState
}

// NewVirtualBridge implements the bridge for a worker without status leds.
func NewVirtualBridge(log zerolog.Logger) *VirtualBridge {
	return &VirtualBridge{
		log: log.With().Str("component", "virtual-bridge").Logger(),
	}
}

// Turn Green status led on/off
func (p *VirtualBridge) SetGreenLED(on bool) error {
	p.set(&p.greenLed, "green", onOff(on))
	return nil
}

// Turn Red status led on/off
func (p *VirtualBridge) SetRedLED(on bool) error {
	p.set(&p.redLed, "red", onOff(on))
	return nil
}

// Blink Green status led with given duration between on/off
func (p *VirtualBridge) BlinkGreenLED(delay time.Duration) error {
	p.set(&p.greenLed, "green", LEDBlinking)
	return nil
}

// Blink Red status led with given duration between on/off
func (p *VirtualBridge) BlinkRedLED(delay time.Duration) error {
	p.set(&p.redLed, "red", LEDBlinking)
	return nil
}

// GreenLED returns the current state of the green led.
func (p *VirtualBridge) GreenLED() LEDState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.greenLed
}

// RedLED returns the current state of the red led.
func (p *VirtualBridge) RedLED() LEDState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.redLed
}

func (p *VirtualBridge) Close() error {
	return nil
}

func (p *VirtualBridge) set(led *LEDState, name string, state LEDState) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if *led != state {
		*led = state
		p.log.Debug().Str("led", name).Str("state", state.String()).Msg("led changed")
	}
}

func onOff(on bool) LEDState {
	if on {
		return LEDOn
	}
	return LEDOff
}
