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

package logging

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/binkynet/BinkyNet/mqtt"
)

// MQTTWriter is a log output that publishes log lines on an MQTT topic.
type MQTTWriter interface {
	io.Writer
	Enable(enable bool)
	SetDestination(topic string, publisher Publisher)
}

// Publisher is the part of an MQTT service used to publish logs.
// It is implemented by mqtt.Service.
type Publisher interface {
	Publish(ctx context.Context, msg interface{}, topic string, qos byte) error
}

type mqttLogger struct {
	mutex     sync.Mutex
	queue     chan []byte
	topic     string
	publisher Publisher
	enable    bool
}

const (
	mqttQueueSize      = 512
	mqttPublishTimeout = time.Second
)

// NewMQTTWriter creates a new MQTT output for logs.
// The MQTT sender is closed when the given context is canceled.
func NewMQTTWriter(ctx context.Context) MQTTWriter {
	l := &mqttLogger{
		queue: make(chan []byte, mqttQueueSize),
	}
	go l.run(ctx)
	return l
}

func (l *mqttLogger) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	// Writers must not retain p
	msg := append([]byte(nil), p...)
	for attempt := 0; attempt < 10; attempt++ {
		select {
		case l.queue <- msg:
			return len(p), nil
		default:
			// Queue full; Take 1 out and try again
			select {
			case <-l.queue:
				// Continue
			default:
				// Also continue
			}
		}
	}
	// Ignore errors
	return len(p), nil
}

func (l *mqttLogger) Enable(enable bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.enable = enable
}

func (l *mqttLogger) SetDestination(topic string, publisher Publisher) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.topic = topic
	l.publisher = publisher
}

type logMsg struct {
	Message string `json:"message"`
}

func (l *mqttLogger) run(ctx context.Context) {
	for {
		l.mutex.Lock()
		publisher := l.publisher
		topic := l.topic
		enabled := l.enable
		l.mutex.Unlock()

		if enabled && topic != "" && publisher != nil {
			select {
			case msg := <-l.queue:
				l.publish(ctx, publisher, topic, msg)
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
				// Check destination again
			}
		} else {
			select {
			case <-time.After(time.Second):
				// Continue
			case <-ctx.Done():
				return
			}
		}
	}
}

// publish a single log line, ignoring errors.
func (l *mqttLogger) publish(ctx context.Context, publisher Publisher, topic string, msg []byte) {
	ctx, cancel := context.WithTimeout(ctx, mqttPublishTimeout)
	defer cancel()
	publisher.Publish(ctx, logMsg{Message: string(msg)}, topic, mqtt.QosDefault)
}
