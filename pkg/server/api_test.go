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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binkynet/ClickCounter/pkg/counter"
	"github.com/binkynet/ClickCounter/pkg/service/devices"
)

func newTestRouter(t *testing.T) (*echo.Echo, *counter.Counter, *devices.LogDisplay) {
	disp, err := devices.NewLogDisplay(zerolog.Nop(), 3, nil)
	require.NoError(t, err)
	c := counter.New(counter.Config{}, counter.Dependencies{Log: zerolog.Nop(), Display: disp})
	return newHTTPRouter(zerolog.Nop(), c), c, disp
}

func do(t *testing.T, e *echo.Echo, method, target string) (int, counterResponse) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var resp counterResponse
	if rec.Code == http.StatusOK || rec.Code == http.StatusConflict {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func TestHealth(t *testing.T) {
	e, c, _ := newTestRouter(t)
	code, _ := do(t, e, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	require.True(t, c.Initialize(0))
	code, _ = do(t, e, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, code)
}

func TestCounterAPI(t *testing.T) {
	e, c, disp := newTestRouter(t)

	// Not started
	code, resp := do(t, e, http.MethodPost, "/api/v1/counter/increment")
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.OK)
	assert.False(t, resp.Counter.Started)

	require.True(t, c.Initialize(10))
	code, resp = do(t, e, http.MethodGet, "/api/v1/counter")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, counter.Snapshot{Count: 10, Min: -99, Max: 999, StartValue: 10, Started: true}, resp.Counter)

	code, resp = do(t, e, http.MethodPost, "/api/v1/counter/increment?qty=5")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.OK)
	assert.Equal(t, int32(15), resp.Counter.Count)
	assert.Equal(t, " 15", disp.Text())

	code, resp = do(t, e, http.MethodPost, "/api/v1/counter/decrement")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int32(14), resp.Counter.Count)

	code, resp = do(t, e, http.MethodPost, "/api/v1/counter/to-zero?qty=20")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, int32(14), resp.Counter.Count)
	code, resp = do(t, e, http.MethodPost, "/api/v1/counter/to-zero?qty=14")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int32(0), resp.Counter.Count)

	code, resp = do(t, e, http.MethodPost, "/api/v1/counter/restart?value=-99")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int32(-99), resp.Counter.Count)
	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/restart?value=1000")
	assert.Equal(t, http.StatusConflict, code)
	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/restart")
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = do(t, e, http.MethodPost, "/api/v1/counter/reset")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int32(10), resp.Counter.Count)

	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/increment?qty=abc")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/increment?qty=99999999999")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/clear")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "   ", disp.Text())
	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/refresh")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, " 10", disp.Text())
}

func TestBlinkAPI(t *testing.T) {
	e, c, disp := newTestRouter(t)
	require.True(t, c.Initialize(0))

	code, _ := do(t, e, http.MethodPost, "/api/v1/counter/blink?on=10")
	assert.Equal(t, http.StatusConflict, code)
	code, resp := do(t, e, http.MethodPost, "/api/v1/counter/blink?on=300&off=600")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Counter.Blinking)
	assert.Equal(t, "ON 300 600", disp.BlinkState())

	code, resp = do(t, e, http.MethodDelete, "/api/v1/counter/blink")
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Counter.Blinking)
	assert.Equal(t, "OFF", disp.BlinkState())

	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/blink-rate?on=200")
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/blink")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ON 200 200", disp.BlinkState())
	assert.True(t, c.IsBlinking())

	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/blink-rate?on=-1")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, e, http.MethodPost, "/api/v1/counter/blink-rate")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, 100*time.Millisecond, c.MinBlinkRate())
}
