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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binkynet/ClickCounter/pkg/service/bridge"
)

func TestVirtualService(t *testing.T) {
	log := zerolog.Nop()
	s, err := NewService(Config{ModuleID: "cc1", DisplayDigits: 4, Button: true}, bridge.NewVirtualBridge(log), log)
	require.NoError(t, err)
	_, ok := s.Display().(*LogDisplay)
	assert.True(t, ok)
	assert.Nil(t, s.Button())

	ctx := context.Background()
	require.NoError(t, s.Configure(ctx))
	assert.Equal(t, int32(9999), s.Display().DisplayableMax())
	require.NoError(t, s.Close(ctx))
}

func TestMQTTService(t *testing.T) {
	log := zerolog.Nop()
	s, err := NewService(Config{
		ModuleID:          "cc1",
		DisplayDigits:     2,
		MQTTBrokerAddress: "localhost:1883",
		TopicPrefix:       "/counter/",
		Button:            true,
	}, bridge.NewVirtualBridge(log), log)
	require.NoError(t, err)
	disp, ok := s.Display().(*mqttDisplay)
	require.True(t, ok)
	assert.Equal(t, "/counter/display/text", disp.textTopic)
	assert.Equal(t, "/counter/display/blink", disp.blinkTopic)
	assert.NotNil(t, s.Button())

	// Not connected yet
	assert.True(t, IsNotConfigured(disp.Print(1, true, false)))
}

func TestServiceWithoutDisplay(t *testing.T) {
	log := zerolog.Nop()
	s, err := NewService(Config{ModuleID: "cc1", DisplayDigits: NoDisplay}, bridge.NewVirtualBridge(log), log)
	require.NoError(t, err)
	assert.Nil(t, s.Display())
	assert.Nil(t, s.Button())

	ctx := context.Background()
	require.NoError(t, s.Configure(ctx))
	require.NoError(t, s.Close(ctx))

	// Button still works without display
	s, err = NewService(Config{
		ModuleID:          "cc1",
		DisplayDigits:     NoDisplay,
		MQTTBrokerAddress: "localhost:1883",
		Button:            true,
	}, bridge.NewVirtualBridge(log), log)
	require.NoError(t, err)
	assert.Nil(t, s.Display())
	assert.NotNil(t, s.Button())
}

func TestServiceInvalidDigits(t *testing.T) {
	log := zerolog.Nop()
	_, err := NewService(Config{DisplayDigits: -1}, bridge.NewVirtualBridge(log), log)
	assert.True(t, IsInvalidArgument(err))
	_, err = NewService(Config{DisplayDigits: MaxDigits + 1}, bridge.NewVirtualBridge(log), log)
	assert.True(t, IsInvalidArgument(err))
}
