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
	"fmt"
	"sync"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// mqttDisplay is a display that publishes its content on MQTT topics.
// A remote device subscribes to these topics and renders the digits.
type mqttDisplay struct {
	log               zerolog.Logger
	onActive          func()
	textTopic         string
	blinkTopic        string
	mqttClientID      string
	mqttBrokerAddress string

	mutex  sync.Mutex
	client mqttapi.Client
	state  displayState
}

var _ Display = &mqttDisplay{}

// newMQTTDisplay creates an MQTT display.
func newMQTTDisplay(log zerolog.Logger, digits int, onActive func(), moduleID, topicPrefix, mqttBrokerAddress string) (*mqttDisplay, error) {
	state, err := newDisplayState(digits)
	if err != nil {
		return nil, err
	}
	return &mqttDisplay{
		log:               log.With().Str("device", "mqtt-display").Logger(),
		onActive:          onActive,
		textTopic:         topicPrefix + "display/text",
		blinkTopic:        topicPrefix + "display/blink",
		mqttClientID:      fmt.Sprintf("%s-display", moduleID),
		mqttBrokerAddress: mqttBrokerAddress,
		state:             state,
	}, nil
}

// Configure is called once to put the device in the desired state.
func (d *mqttDisplay) Configure(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	opts := defaultMQTTClientOptions(d.mqttBrokerAddress, d.mqttClientID)
	opts.SetOnConnectHandler(func(c mqttapi.Client) {
		d.log.Debug().Msg("Connected to MQTT")
	})

	d.log.Debug().Msg("Connecting to MQTT...")
	client := mqttapi.NewClient(opts)
	if err := connectMQTT(client); err != nil {
		return err
	}
	d.client = client

	// Start with a blank, steady display
	d.state.clear()
	d.state.blinking = false
	if err := d.publish(d.textTopic, d.state.text); err != nil {
		return err
	}
	if err := d.publish(d.blinkTopic, d.state.blinkPayload()); err != nil {
		return err
	}
	return nil
}

// Close brings the device back to a safe state.
func (d *mqttDisplay) Close(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if c := d.client; c != nil {
		d.state.clear()
		d.state.blinking = false
		if err := d.publish(d.textTopic, d.state.text); err != nil {
			d.log.Warn().Err(err).Msg("Failed to clear display")
		}
		if err := d.publish(d.blinkTopic, d.state.blinkPayload()); err != nil {
			d.log.Warn().Err(err).Msg("Failed to stop blinking")
		}
		d.client = nil
		c.Disconnect(250)
	}
	d.onActive()
	return nil
}

func (d *mqttDisplay) DisplayableMin() int32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state.displayableMin()
}

func (d *mqttDisplay) DisplayableMax() int32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state.displayableMax()
}

// Print shows the given value.
func (d *mqttDisplay) Print(value int32, rightAligned, zeroPadded bool) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	next := d.state
	if err := next.print(value, rightAligned, zeroPadded); err != nil {
		return err
	}
	return d.apply(next, d.textTopic, next.text)
}

// Clear turns off all digits.
func (d *mqttDisplay) Clear() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	next := d.state
	next.clear()
	return d.apply(next, d.textTopic, next.text)
}

// Blink starts blinking at the current rate.
func (d *mqttDisplay) Blink() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.state.blinking {
		return nil
	}
	next := d.state
	next.blinking = true
	return d.apply(next, d.blinkTopic, next.blinkPayload())
}

// BlinkAt starts blinking at the given rate.
func (d *mqttDisplay) BlinkAt(onRate, offRate time.Duration) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.state.blinking {
		return nil
	}
	next := d.state
	if err := next.setBlinkRate(onRate, offRate); err != nil {
		return err
	}
	next.blinking = true
	return d.apply(next, d.blinkTopic, next.blinkPayload())
}

// StopBlink stops blinking.
func (d *mqttDisplay) StopBlink() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.state.blinking {
		return nil
	}
	next := d.state
	next.blinking = false
	return d.apply(next, d.blinkTopic, next.blinkPayload())
}

// SetBlinkRate changes the blink rate.
// While blinking, the new rate is published immediately.
func (d *mqttDisplay) SetBlinkRate(onRate, offRate time.Duration) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	next := d.state
	if err := next.setBlinkRate(onRate, offRate); err != nil {
		return err
	}
	if !next.blinking {
		d.state = next
		return nil
	}
	return d.apply(next, d.blinkTopic, next.blinkPayload())
}

func (d *mqttDisplay) MinBlinkRate() time.Duration { return minBlinkRate }
func (d *mqttDisplay) MaxBlinkRate() time.Duration { return maxBlinkRate }

// apply publishes the given payload and, when that succeeds, makes next
// the current state.
// Requires the mutex to be held.
func (d *mqttDisplay) apply(next displayState, topic, payload string) error {
	if err := d.publish(topic, payload); err != nil {
		return err
	}
	d.state = next
	d.onActive()
	return nil
}

// publish sends a retained message to the given topic.
// Requires the mutex to be held.
func (d *mqttDisplay) publish(topic, payload string) error {
	if d.client == nil {
		return errors.Wrap(NotConfiguredError, "mqtt display")
	}
	token := d.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		mqttPublishErrorsTotal.WithLabelValues(topic).Inc()
		return errors.Wrapf(PublishTimeoutError, "topic '%s'", topic)
	}
	if err := token.Error(); err != nil {
		mqttPublishErrorsTotal.WithLabelValues(topic).Inc()
		return errors.Wrapf(err, "failed to publish to '%s'", topic)
	}
	d.log.Debug().
		Str("topic", topic).
		Str("payload", payload).
		Msg("published")
	return nil
}
