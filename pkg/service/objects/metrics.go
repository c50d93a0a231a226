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

package objects

import (
	"github.com/binkynet/ClickCounter/pkg/metrics"
)

const (
	subSystem = "objects"
)

var (
	// Number of counter changes published to receivers
	changesPublishedTotal = metrics.MustRegisterCounter(subSystem,
		"changes_published_total",
		"Number of counter changes published to receivers")
	// Number of counter changes dropped because the queue was full
	changesDroppedTotal = metrics.MustRegisterCounter(subSystem,
		"changes_dropped_total",
		"Number of counter changes dropped")
	// Number of change receivers that panicked
	changeReceiverPanicsTotal = metrics.MustRegisterCounter(subSystem,
		"change_receiver_panics_total",
		"Number of change receivers that panicked")
	// Number of times the count reached zero
	zeroReachedTotal = metrics.MustRegisterCounter(subSystem,
		"zero_reached_total",
		"Number of times the count reached zero")
)
