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

package server

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

// testService passes counter changes directly to its receivers.
type testService struct {
	counter   *counter.Counter
	receivers []func(counter.Snapshot)
}

func newTestService() *testService {
	s := &testService{}
	s.counter = counter.New(counter.Config{Min: 0, Max: 10}, counter.Dependencies{
		Log: zerolog.Nop(),
		OnChange: func(snapshot counter.Snapshot) {
			for _, cb := range s.receivers {
				cb(snapshot)
			}
		},
	})
	return s
}

func (s *testService) Counter() *counter.Counter { return s.counter }

func (s *testService) RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc {
	s.receivers = append(s.receivers, cb)
	return func() {}
}

func TestHealthFollowsCounter(t *testing.T) {
	svc := newTestService()
	srv, err := New(Config{}, zerolog.Nop(), nil, svc)
	require.NoError(t, err)
	healthSrv := health.NewServer()
	stop := srv.runHealthUpdates(healthSrv)
	defer stop()

	status := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := healthSrv.Check(context.Background(), &healthpb.HealthCheckRequest{})
		require.NoError(t, err)
		return resp.GetStatus()
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status())
	require.True(t, svc.counter.Initialize(1))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status())
	require.True(t, svc.counter.Deinitialize())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status())
}
