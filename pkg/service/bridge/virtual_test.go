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

package bridge

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestVirtualBridge(t *testing.T) {
	b := NewVirtualBridge(zerolog.Nop())
	var _ API = b
	assert.Equal(t, LEDOff, b.GreenLED())
	assert.Equal(t, LEDOff, b.RedLED())

	assert.NoError(t, b.SetGreenLED(true))
	assert.NoError(t, b.BlinkRedLED(time.Second))
	assert.Equal(t, LEDOn, b.GreenLED())
	assert.Equal(t, LEDBlinking, b.RedLED())
	assert.Equal(t, "blinking", b.RedLED().String())

	assert.NoError(t, b.SetRedLED(false))
	assert.Equal(t, "off", b.RedLED().String())
	assert.NoError(t, b.Close())
}
