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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value        int32
		rightAligned bool
		zeroPadded   bool
		expected     string
	}{
		{42, true, false, "  42"},
		{42, true, true, "0042"},
		{42, false, false, "42  "},
		{42, false, true, "42  "},
		{-7, true, false, "  -7"},
		{-7, true, true, "-007"},
		{-7, false, false, "-7  "},
		{9999, true, true, "9999"},
		{0, true, false, "   0"},
	}
	for _, test := range tests {
		text, err := formatValue(test.value, 4, test.rightAligned, test.zeroPadded)
		require.NoError(t, err)
		assert.Equal(t, test.expected, text, "value %d", test.value)
	}

	_, err := formatValue(10000, 4, true, false)
	assert.True(t, IsOutOfRange(err))
	_, err = formatValue(-1000, 4, true, false)
	assert.True(t, IsOutOfRange(err))
}

func TestDisplayRange(t *testing.T) {
	s, err := newDisplayState(4)
	require.NoError(t, err)
	assert.Equal(t, int32(9999), s.displayableMax())
	assert.Equal(t, int32(-999), s.displayableMin())

	s, err = newDisplayState(1)
	require.NoError(t, err)
	assert.Equal(t, int32(9), s.displayableMax())
	assert.Equal(t, int32(0), s.displayableMin())

	s, err = newDisplayState(MaxDigits)
	require.NoError(t, err)
	assert.Equal(t, int32(999999999), s.displayableMax())
	assert.Equal(t, int32(-99999999), s.displayableMin())

	_, err = newDisplayState(0)
	assert.True(t, IsInvalidArgument(err))
	_, err = newDisplayState(MaxDigits + 1)
	assert.True(t, IsInvalidArgument(err))
}

func TestBlinkPayload(t *testing.T) {
	s, err := newDisplayState(4)
	require.NoError(t, err)
	assert.Equal(t, "OFF", s.blinkPayload())

	s.blinking = true
	assert.Equal(t, "ON 500 500", s.blinkPayload())

	require.NoError(t, s.setBlinkRate(800*time.Millisecond, 200*time.Millisecond))
	assert.Equal(t, "ON 800 200", s.blinkPayload())
	require.NoError(t, s.setBlinkRate(300*time.Millisecond, 0))
	assert.Equal(t, "ON 300 300", s.blinkPayload())

	err = s.setBlinkRate(50*time.Millisecond, 0)
	assert.True(t, IsInvalidBlinkRate(err))
	err = s.setBlinkRate(time.Second, 3*time.Second)
	assert.True(t, IsInvalidBlinkRate(err))
	assert.Equal(t, "ON 300 300", s.blinkPayload())
}
