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
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

func TestLogDisplay(t *testing.T) {
	active := 0
	d, err := NewLogDisplay(zerolog.Nop(), 4, func() { active++ })
	require.NoError(t, err)
	require.NoError(t, d.Configure(context.Background()))
	assert.Equal(t, "    ", d.Text())

	require.NoError(t, d.Print(12, true, true))
	assert.Equal(t, "0012", d.Text())
	assert.True(t, IsOutOfRange(d.Print(12345, true, false)))
	assert.Equal(t, "0012", d.Text())

	require.NoError(t, d.BlinkAt(200*time.Millisecond, 0))
	assert.Equal(t, "ON 200 200", d.BlinkState())
	// Already blinking
	require.NoError(t, d.BlinkAt(300*time.Millisecond, 0))
	assert.Equal(t, "ON 200 200", d.BlinkState())
	require.NoError(t, d.SetBlinkRate(400*time.Millisecond, 100*time.Millisecond))
	assert.Equal(t, "ON 400 100", d.BlinkState())
	require.NoError(t, d.StopBlink())
	assert.Equal(t, "OFF", d.BlinkState())
	require.NoError(t, d.Blink())
	assert.Equal(t, "ON 400 100", d.BlinkState())

	require.NoError(t, d.Clear())
	assert.Equal(t, "    ", d.Text())
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, "OFF", d.BlinkState())
	assert.True(t, active > 0)
}

func TestLogDisplayDrivesCounter(t *testing.T) {
	d, err := NewLogDisplay(zerolog.Nop(), 3, nil)
	require.NoError(t, err)
	c := counter.New(counter.Config{}, counter.Dependencies{Log: zerolog.Nop(), Display: d})
	require.True(t, c.Initialize(5))
	assert.Equal(t, int32(-99), c.Min())
	assert.Equal(t, int32(999), c.Max())
	assert.Equal(t, "  5", d.Text())

	assert.True(t, c.Increment(994))
	assert.Equal(t, "999", d.Text())
	assert.False(t, c.Increment(1))
	assert.True(t, c.Restart(-99))
	assert.Equal(t, "-99", d.Text())

	assert.False(t, c.BlinkAt(time.Minute, 0))
	assert.True(t, c.BlinkAt(time.Second, 0))
	assert.Equal(t, "ON 1000 1000", d.BlinkState())

	assert.True(t, c.Deinitialize())
	assert.Equal(t, "   ", d.Text())
	assert.Equal(t, "OFF", d.BlinkState())
}
