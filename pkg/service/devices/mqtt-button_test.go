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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessage implements mqttapi.Message.
type fakeMessage struct {
	topic   string
	payload string
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return []byte(m.payload) }
func (m fakeMessage) Ack()              {}

func TestMQTTButton(t *testing.T) {
	b, err := newMQTTButton(zerolog.Nop(), func() {}, "cc1", DefaultMQTTTopicPrefix("CC1"), "localhost:1883")
	require.NoError(t, err)
	assert.Equal(t, "/binky/cc1/button/click", b.topic)
	assert.Equal(t, "cc1-button", b.mqttClientID)
	assert.False(t, b.WasClicked())

	b.onMessage(nil, fakeMessage{topic: b.topic})
	b.onMessage(nil, fakeMessage{topic: b.topic, payload: " 2 "})
	// Ignored
	b.onMessage(nil, fakeMessage{topic: b.topic, payload: "click"})
	b.onMessage(nil, fakeMessage{topic: b.topic, payload: "0"})

	assert.True(t, b.WasClicked())
	assert.True(t, b.WasClicked())
	assert.True(t, b.WasClicked())
	assert.False(t, b.WasClicked())
}

func TestMQTTButtonPendingLimit(t *testing.T) {
	b, err := newMQTTButton(zerolog.Nop(), func() {}, "cc1", "/x/", "localhost:1883")
	require.NoError(t, err)
	b.onMessage(nil, fakeMessage{payload: "999"})
	b.onMessage(nil, fakeMessage{payload: "999"})
	clicks := 0
	for b.WasClicked() {
		clicks++
	}
	assert.Equal(t, maxPendingClicks, clicks)
}

func TestBrokerURL(t *testing.T) {
	assert.Equal(t, "tcp://localhost:1883", brokerURL("localhost:1883"))
	assert.Equal(t, "ssl://broker:8883", brokerURL("ssl://broker:8883"))
}

func TestSplitBrokerAddress(t *testing.T) {
	host, port, err := SplitBrokerAddress("localhost:1884")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 1884, port)

	host, port, err = SplitBrokerAddress("tcp://broker")
	require.NoError(t, err)
	assert.Equal(t, "broker", host)
	assert.Equal(t, 1883, port)

	_, _, err = SplitBrokerAddress("broker:abc")
	assert.True(t, IsInvalidArgument(err))
}
