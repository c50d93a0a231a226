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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// MaxDigits is the largest number of digits a display can have,
	// limited by the int32 count.
	MaxDigits = 9

	minBlinkRate     = time.Millisecond * 100
	maxBlinkRate     = time.Second * 2
	defaultBlinkRate = time.Millisecond * 500
)

// displayState is the state kept by all display implementations.
// It is not safe for concurrent use, display implementations guard it.
type displayState struct {
	digits   int
	text     string
	blinking bool
	onRate   time.Duration
	offRate  time.Duration
}

func newDisplayState(digits int) (displayState, error) {
	if digits < 1 || digits > MaxDigits {
		return displayState{}, errors.Wrapf(InvalidArgumentError, "digits must be in range [1..%d], got %d", MaxDigits, digits)
	}
	return displayState{
		digits:  digits,
		text:    strings.Repeat(" ", digits),
		onRate:  defaultBlinkRate,
		offRate: defaultBlinkRate,
	}, nil
}

// displayableMax returns 10^digits - 1.
func (s *displayState) displayableMax() int32 {
	return int32(pow10(s.digits) - 1)
}

// displayableMin returns the lowest value, keeping one digit for the minus sign.
func (s *displayState) displayableMin() int32 {
	return -int32(pow10(s.digits-1) - 1)
}

// print formats the given value into the text of the display.
func (s *displayState) print(value int32, rightAligned, zeroPadded bool) error {
	text, err := formatValue(value, s.digits, rightAligned, zeroPadded)
	if err != nil {
		return err
	}
	s.text = text
	return nil
}

// clear blanks the text of the display.
func (s *displayState) clear() {
	s.text = strings.Repeat(" ", s.digits)
}

// setBlinkRate validates and sets the given rates.
func (s *displayState) setBlinkRate(onRate, offRate time.Duration) error {
	if offRate == 0 {
		offRate = onRate
	}
	if !validBlinkRate(onRate) || !validBlinkRate(offRate) {
		return errors.Wrapf(InvalidBlinkRateError, "rates must be in range [%s..%s], got %s/%s", minBlinkRate, maxBlinkRate, onRate, offRate)
	}
	s.onRate, s.offRate = onRate, offRate
	return nil
}

// blinkPayload returns the blink state as published to remote displays.
func (s *displayState) blinkPayload() string {
	if !s.blinking {
		return "OFF"
	}
	return fmt.Sprintf("ON %d %d", s.onRate.Milliseconds(), s.offRate.Milliseconds())
}

func validBlinkRate(rate time.Duration) bool {
	return rate >= minBlinkRate && rate <= maxBlinkRate
}

// formatValue formats the given value to a text of exactly the given number of digits.
func formatValue(value int32, digits int, rightAligned, zeroPadded bool) (string, error) {
	s := strconv.FormatInt(int64(value), 10)
	if len(s) > digits {
		return "", errors.Wrapf(OutOfRangeError, "%d does not fit in %d digits", value, digits)
	}
	pad := digits - len(s)
	switch {
	case !rightAligned:
		return s + strings.Repeat(" ", pad), nil
	case zeroPadded && value < 0:
		return "-" + strings.Repeat("0", pad) + s[1:], nil
	case zeroPadded:
		return strings.Repeat("0", pad) + s, nil
	default:
		return strings.Repeat(" ", pad) + s, nil
	}
}

func pow10(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}
