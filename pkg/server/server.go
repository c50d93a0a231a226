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
	"net"
	"net/http"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/binkynet/ClickCounter/pkg/counter"
)

// Config for the servers.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on for HTTP requests
	HTTPPort int
	// Port to listen on for SSH requests
	SSHPort int
	// Port to listen on for GRPC requests
	GRPCPort int
	// Path of the SSH host key, created when it does not exist
	SSHHostKeyPath string
}

// Server runs the HTTP, GRPC & SSH servers for the service.
type Server struct {
	Config
	log     zerolog.Logger
	ui      UI
	service Service
}

type UI interface {
	// Handler creates a Bubble Tea model for the given SSH session.
	Handler(s ssh.Session) (tea.Model, []tea.ProgramOption)
}

// Service exposed by the servers.
type Service interface {
	// Counter returns the counter.
	Counter() *counter.Counter
	// RegisterChangeReceiver registers a callback that is called for every
	// change of the count.
	RegisterChangeReceiver(cb func(counter.Snapshot)) context.CancelFunc
}

// New configures a new Server.
func New(cfg Config, log zerolog.Logger, ui UI, service Service) (*Server, error) {
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/id_ed25519"
	}
	return &Server{
		Config:  cfg,
		log:     log.With().Str("component", "server").Logger(),
		ui:      ui,
		service: service,
	}, nil
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	// Prepare HTTP listener
	log := s.log
	httpAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on address %s", httpAddr)
	}

	// Prepare HTTP server
	httpSrv := http.Server{
		Handler: newHTTPRouter(s.log, s.service.Counter()),
	}

	// Prepare GRPC listener
	grpcAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.GRPCPort))
	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		httpLis.Close()
		return errors.Wrapf(err, "failed to listen on address %s", grpcAddr)
	}

	// Prepare GRPC server
	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandler(func(p interface{}) error {
			log.Error().Interface("panic", p).Msg("Recovered from panic in GRPC call")
			return errors.Errorf("internal error")
		}),
	}
	grpcSrv := grpc.NewServer(
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_prometheus.StreamServerInterceptor,
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
		)),
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_prometheus.UnaryServerInterceptor,
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
		)),
	)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	grpc_prometheus.Register(grpcSrv)
	// Register reflection service on gRPC server.
	reflection.Register(grpcSrv)
	stopHealth := s.runHealthUpdates(healthSrv)
	defer stopHealth()

	// Prepare SSH server
	sshAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.SSHPort))
	sshServer, err := wish.NewServer(
		// The address the server will listen to.
		wish.WithAddress(sshAddr),

		// The SSH server need its own keys, this will create a keypair in the
		// given path if it doesn't exist yet.
		wish.WithHostKeyPath(s.SSHHostKeyPath),

		// The last item in the chain is the first to be called.
		wish.WithMiddleware(
			bubbletea.Middleware(s.ui.Handler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		httpLis.Close()
		grpcLis.Close()
		return errors.Wrap(err, "could not start SSH server")
	}

	// Serve apis
	log.Debug().Str("address", httpAddr).Msg("Serving HTTP")
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to serve HTTP server")
		}
		log.Debug().Str("address", httpAddr).Msg("Done Serving HTTP")
	}()
	log.Debug().Str("address", grpcAddr).Msg("Serving GRPC")
	go func() {
		if err := grpcSrv.Serve(grpcLis); err != nil {
			log.Fatal().Err(err).Msg("failed to serve GRPC server")
		}
		log.Debug().Str("address", grpcAddr).Msg("Done Serving GRPC")
	}()
	// Serve UI
	log.Debug().Str("address", sshAddr).Msg("Serving SSH")
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to serve SSH server")
		}
		log.Debug().Str("address", sshAddr).Msg("Done Serving SSH")
	}()

	// Wait until context closed
	<-ctx.Done()

	log.Info().Msg("Closing servers")
	healthSrv.Shutdown()
	httpSrv.Shutdown(context.Background())
	grpcSrv.GracefulStop()
	sshServer.Shutdown(context.Background())

	return nil
}

// runHealthUpdates keeps the GRPC health status in sync with the counter.
func (s *Server) runHealthUpdates(healthSrv *health.Server) context.CancelFunc {
	update := func(started bool) {
		status := healthpb.HealthCheckResponse_NOT_SERVING
		if started {
			status = healthpb.HealthCheckResponse_SERVING
		}
		healthSrv.SetServingStatus("", status)
	}
	update(s.service.Counter().IsStarted())
	return s.service.RegisterChangeReceiver(func(snapshot counter.Snapshot) {
		update(snapshot.Started)
	})
}
