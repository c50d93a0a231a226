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
	"strconv"
	"strings"
	"sync/atomic"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// maxPendingClicks limits the number of clicks that are remembered
// when the counter does not poll fast enough.
const maxPendingClicks = 1000

// mqttButton is a button that receives clicks on an MQTT topic.
// The payload of a click message is empty or the number of clicks.
type mqttButton struct {
	log               zerolog.Logger
	onActive          func()
	topic             string
	mqttClientID      string
	mqttBrokerAddress string

	client  mqttapi.Client
	pending int32
}

var _ Button = &mqttButton{}

// newMQTTButton creates an MQTT button.
func newMQTTButton(log zerolog.Logger, onActive func(), moduleID, topicPrefix, mqttBrokerAddress string) (*mqttButton, error) {
	return &mqttButton{
		log:               log.With().Str("device", "mqtt-button").Logger(),
		onActive:          onActive,
		topic:             topicPrefix + "button/click",
		mqttClientID:      fmt.Sprintf("%s-button", moduleID),
		mqttBrokerAddress: mqttBrokerAddress,
	}, nil
}

// Configure is called once to put the device in the desired state.
func (d *mqttButton) Configure(ctx context.Context) error {
	opts := defaultMQTTClientOptions(d.mqttBrokerAddress, d.mqttClientID)
	log := d.log.With().Str("topic", d.topic).Logger()

	// Subscribe on every (re)connect
	opts.SetOnConnectHandler(func(c mqttapi.Client) {
		log.Debug().Msg("Connected to MQTT")
		if token := c.Subscribe(d.topic, 0, d.onMessage); token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).
				Msgf("failed to subscribe to '%s'", d.topic)
			c.Disconnect(500)
		} else {
			log.Debug().Msgf("Subscribed to MQTT topic '%s'", d.topic)
			d.onActive()
		}
	})

	log.Debug().Msg("Connecting to MQTT...")
	client := mqttapi.NewClient(opts)
	if err := connectMQTT(client); err != nil {
		return err
	}
	d.client = client
	return nil
}

// Close brings the device back to a safe state.
func (d *mqttButton) Close(ctx context.Context) error {
	if c := d.client; c != nil {
		d.client = nil
		c.Disconnect(250)
	}
	atomic.StoreInt32(&d.pending, 0)
	d.onActive()
	return nil
}

// WasClicked consumes a single pending click.
func (d *mqttButton) WasClicked() bool {
	for {
		current := atomic.LoadInt32(&d.pending)
		if current <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&d.pending, current, current-1) {
			return true
		}
	}
}

// Receive messages
func (d *mqttButton) onMessage(client mqttapi.Client, msg mqttapi.Message) {
	payload := strings.TrimSpace(string(msg.Payload()))
	clicks := 1
	if payload != "" {
		n, err := strconv.Atoi(payload)
		if err != nil || n < 1 {
			d.log.Warn().
				Str("payload", payload).
				Msg("Invalid payload in click message")
			return
		}
		clicks = n
	}
	d.addClicks(clicks)
	d.log.Debug().
		Str("topic", msg.Topic()).
		Int("clicks", clicks).
		Msg("received click message")
	mqttClicksReceivedTotal.Add(float64(clicks))
	d.onActive()
}

// addClicks adds the given number of pending clicks, limited to maxPendingClicks.
func (d *mqttButton) addClicks(clicks int) {
	for {
		current := atomic.LoadInt32(&d.pending)
		next := int64(current) + int64(clicks)
		if next > maxPendingClicks {
			next = maxPendingClicks
		}
		if atomic.CompareAndSwapInt32(&d.pending, current, int32(next)) {
			return
		}
	}
}
