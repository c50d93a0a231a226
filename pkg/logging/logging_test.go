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
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("failed") }

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	w := NewMultiWriter(&a, nil, failingWriter{}, &b)
	n, err := w.Write([]byte("line"))
	assert.Equal(t, 4, n)
	assert.Error(t, err)
	assert.Equal(t, "line", a.String())
	assert.Equal(t, "line", b.String())
}

type fakePublisher struct {
	mutex    sync.Mutex
	topics   []string
	messages []string
}

func (p *fakePublisher) Publish(ctx context.Context, msg interface{}, topic string, qos byte) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, msg.(logMsg).Message)
	return nil
}

func (p *fakePublisher) count() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.messages)
}

func TestMQTTWriter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewMQTTWriter(ctx)
	pub := &fakePublisher{}

	buf := []byte(`{"message":"one"}`)
	w.Write(buf)
	// Buffer may be reused by the caller
	copy(buf, `{"message":"two"}`)
	w.Write(buf)

	w.SetDestination("/binky/cc1/logs", pub)
	w.Enable(true)
	assert.Eventually(t, func() bool { return pub.count() == 2 }, time.Second*5, time.Millisecond*10)
	pub.mutex.Lock()
	defer pub.mutex.Unlock()
	assert.Equal(t, []string{`{"message":"one"}`, `{"message":"two"}`}, pub.messages)
	assert.Equal(t, "/binky/cc1/logs", pub.topics[0])
}
