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
	"net"
	"strconv"
	"strings"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
)

const (
	mqttConnectTimeout = time.Second * 5
	mqttPublishTimeout = time.Millisecond * 200
	mqttKeepAlive      = time.Second * 30
	defaultMQTTPort    = 1883
)

// defaultMQTTClientOptions returns the client options used by all MQTT devices.
func defaultMQTTClientOptions(mqttBrokerAddress, clientID string) *mqttapi.ClientOptions {
	opts := mqttapi.NewClientOptions()
	opts.AddBroker(brokerURL(mqttBrokerAddress))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(mqttKeepAlive)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetOrderMatters(false)
	return opts
}

// brokerURL turns a host:port address into a broker URL.
// Addresses that already have a scheme are returned as is.
func brokerURL(address string) string {
	if strings.Contains(address, "://") {
		return address
	}
	return "tcp://" + address
}

// SplitBrokerAddress splits a broker address (with or without scheme)
// into host and port. The port defaults to 1883.
func SplitBrokerAddress(address string) (string, int, error) {
	if i := strings.Index(address, "://"); i >= 0 {
		address = address[i+3:]
	}
	if !strings.Contains(address, ":") {
		return address, defaultMQTTPort, nil
	}
	host, rawPort, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, errors.Wrapf(InvalidArgumentError, "invalid broker address '%s': %v", address, err)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return "", 0, errors.Wrapf(InvalidArgumentError, "invalid broker port '%s'", rawPort)
	}
	return host, port, nil
}

// DefaultMQTTTopicPrefix returns the topic prefix for the given module, ending with '/'.
func DefaultMQTTTopicPrefix(moduleID string) string {
	return strings.ToLower(fmt.Sprintf("/binky/%s/", moduleID))
}

// connectMQTT connects the given client, waiting at most mqttConnectTimeout.
func connectMQTT(client mqttapi.Client) error {
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return fmt.Errorf("timeout connecting to mqtt")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to mqtt: %w", err)
	}
	return nil
}
