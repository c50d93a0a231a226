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

package service

import (
	"github.com/binkynet/ClickCounter/pkg/metrics"
)

const (
	subSystem = "service"
)

var (
	// Program version & host ID of the running worker
	infoGauge = metrics.MustRegisterGaugeVec(subSystem,
		"info",
		"Version & host ID of the click counter worker",
		"version", "host_id")
	// 1 while the counter service is running
	runningGauge = metrics.MustRegisterGauge(subSystem,
		"running",
		"1 while the counter service is running, 0 otherwise")
	// Total number of devices configuration failures
	configureDevicesFailuresTotal = metrics.MustRegisterCounter(subSystem,
		"configure_devices_failures_total",
		"Total number of failures to configure devices")
)
