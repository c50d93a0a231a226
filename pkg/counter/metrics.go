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

package counter

import (
	"github.com/binkynet/ClickCounter/pkg/metrics"
)

const (
	subSystem = "counter"
)

const (
	opInitialize   = "initialize"
	opDeinitialize = "deinitialize"
	opIncrement    = "increment"
	opDecrement    = "decrement"
	opApproachZero = "approach_zero"
	opReset        = "reset"
	opRestart      = "restart"
	opBlink        = "blink"
	opStopBlink    = "stop_blink"
	opSetBlinkRate = "set_blink_rate"
	opClear        = "clear"
	opRefresh      = "refresh"
)

var (
	// Current count
	countGauge = metrics.MustRegisterGauge(subSystem,
		"count",
		"Current count of the counter")
	// Number of counter operations
	operationsTotal = metrics.MustRegisterCounterVec(subSystem,
		"operations_total",
		"Number of counter operations per operation & result",
		"op", "result")
	// Number of failed display calls
	displayErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"display_errors_total",
		"Number of failed display calls",
		"call")
	// Number of button clicks consumed
	clicksTotal = metrics.MustRegisterCounter(subSystem,
		"clicks_total",
		"Number of button clicks consumed by the counter")
)

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
