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
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

// counterResponse is the body returned by all counter endpoints.
type counterResponse struct {
	OK      bool             `json:"ok"`
	Counter counter.Snapshot `json:"counter"`
}

// counterAPI serves the counter over HTTP.
type counterAPI struct {
	log     zerolog.Logger
	counter *counter.Counter
}

// newHTTPRouter creates the HTTP router serving metrics, pprof, health
// and the counter API.
func newHTTPRouter(log zerolog.Logger, c *counter.Counter) *echo.Echo {
	api := &counterAPI{
		log:     log,
		counter: c,
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	e.GET("/health", api.health)

	g := e.Group("/api/v1/counter")
	g.GET("", api.get)
	g.POST("/increment", api.withQuantity(c.Increment))
	g.POST("/decrement", api.withQuantity(c.Decrement))
	g.POST("/to-zero", api.withQuantity(c.ApproachZero))
	g.POST("/reset", api.simple(c.Reset))
	g.POST("/restart", api.restart)
	g.POST("/clear", api.simple(c.ClearDisplay))
	g.POST("/refresh", api.simple(c.RefreshDisplay))
	g.POST("/blink", api.blink)
	g.DELETE("/blink", api.simple(c.StopBlink))
	g.POST("/blink-rate", api.blinkRate)
	return e
}

func (a *counterAPI) health(c echo.Context) error {
	if !a.counter.IsStarted() {
		return c.String(http.StatusServiceUnavailable, "counter not started")
	}
	return c.String(http.StatusOK, "OK")
}

func (a *counterAPI) get(c echo.Context) error {
	return c.JSON(http.StatusOK, counterResponse{OK: true, Counter: a.counter.Snapshot()})
}

// respond returns the counter state with a status code depending on ok.
func (a *counterAPI) respond(c echo.Context, ok bool) error {
	code := http.StatusOK
	if !ok {
		code = http.StatusConflict
	}
	a.log.Debug().
		Str("path", c.Path()).
		Bool("ok", ok).
		Msg("counter request")
	return c.JSON(code, counterResponse{OK: ok, Counter: a.counter.Snapshot()})
}

func (a *counterAPI) simple(op func() bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		return a.respond(c, op())
	}
}

func (a *counterAPI) withQuantity(op func(int32) bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		qty, err := int32Param(c, "qty", 1)
		if err != nil {
			return err
		}
		return a.respond(c, op(qty))
	}
}

func (a *counterAPI) restart(c echo.Context) error {
	if c.QueryParam("value") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "value is required")
	}
	value, err := int32Param(c, "value", 0)
	if err != nil {
		return err
	}
	return a.respond(c, a.counter.Restart(value))
}

func (a *counterAPI) blink(c echo.Context) error {
	if c.QueryParam("on") == "" {
		return a.respond(c, a.counter.Blink())
	}
	onRate, offRate, err := blinkRates(c)
	if err != nil {
		return err
	}
	return a.respond(c, a.counter.BlinkAt(onRate, offRate))
}

func (a *counterAPI) blinkRate(c echo.Context) error {
	if c.QueryParam("on") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "on is required")
	}
	onRate, offRate, err := blinkRates(c)
	if err != nil {
		return err
	}
	return a.respond(c, a.counter.SetBlinkRate(onRate, offRate))
}

// blinkRates parses the on & off query parameters (in milliseconds).
func blinkRates(c echo.Context) (time.Duration, time.Duration, error) {
	on, err := int32Param(c, "on", 0)
	if err != nil {
		return 0, 0, err
	}
	off, err := int32Param(c, "off", 0)
	if err != nil {
		return 0, 0, err
	}
	if on < 0 || off < 0 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "rates must be positive")
	}
	return time.Duration(on) * time.Millisecond, time.Duration(off) * time.Millisecond, nil
}

// int32Param parses the query parameter with given name.
func int32Param(c echo.Context, name string, defaultValue int32) (int32, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+": "+raw)
	}
	return int32(v), nil
}
