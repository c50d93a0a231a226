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
	"github.com/binkynet/ClickCounter/pkg/metrics"
)

const (
	subSystem = "devices"
)

var (
	// Number of devices created
	devicesCreatedTotal = metrics.MustRegisterGauge(subSystem,
		"created_total",
		"Number of devices created")
	// Number of devices configured
	devicesConfiguredTotal = metrics.MustRegisterGauge(subSystem,
		"configured_total",
		"Number of devices configured")
	// Number of failed MQTT publications
	mqttPublishErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"mqtt_publish_errors_total",
		"Number of failed MQTT publications per topic",
		"topic")
	// Number of clicks received over MQTT
	mqttClicksReceivedTotal = metrics.MustRegisterCounter(subSystem,
		"mqtt_clicks_received_total",
		"Number of button clicks received over MQTT")
)
