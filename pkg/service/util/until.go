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

package util

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	untilMinDelay = time.Millisecond * 10
	untilMaxDelay = time.Second * 5
)

// UntilCanceled continues to call the given callback
// until the given context is canceled.
// Calls are 10ms apart, backing off to 5s while the callback fails.
func UntilCanceled(ctx context.Context, log zerolog.Logger, description string, cb func() error) error {
	delay := untilMinDelay
	for {
		if ctx.Err() != nil {
			// Context canceled
			return nil
		}
		delay = nextDelay(delay, cb())
		if delay > untilMinDelay {
			log.Warn().Dur("retry_in", delay).Msgf("%s failed", description)
		}
		select {
		case <-ctx.Done():
			// Context canceled
			log.Info().Msgf("Stopping %s; context canceled", description)
			return nil
		case <-time.After(delay):
			// Continue
		}
	}
}

// nextDelay returns the delay before the next call, given the result of the last one.
func nextDelay(delay time.Duration, err error) time.Duration {
	if err == nil {
		return untilMinDelay
	}
	delay = time.Duration(float64(delay) * 1.5)
	if delay > untilMaxDelay {
		delay = untilMaxDelay
	}
	return delay
}
