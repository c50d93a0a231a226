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

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/binkynet/BinkyNet/mqtt"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/ClickCounter/pkg/counter"
	"github.com/binkynet/ClickCounter/pkg/environment"
	"github.com/binkynet/ClickCounter/pkg/logging"
	"github.com/binkynet/ClickCounter/pkg/server"
	"github.com/binkynet/ClickCounter/pkg/service"
	"github.com/binkynet/ClickCounter/pkg/service/bridge"
	"github.com/binkynet/ClickCounter/pkg/service/devices"
	"github.com/binkynet/ClickCounter/pkg/ui"
)

const (
	projectName     = "BinkyNet Click Counter"
	envPrefix       = "CLICKCOUNTER_"
	defaultHTTPPort = 7129
	defaultGRPCPort = 7130
	defaultSSHPort  = 7122
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
)

func main() {
	// Load environment overrides from dotenv file (if any)
	envFile := envString("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
		Exitf("Failed to load %s: %v\n", envFile, err)
	}

	var levelFlag string
	var bridgeType string
	var hostID string
	var startValue int32
	var serverCfg server.Config
	var counterCfg counter.Config
	var alignLeft bool
	var devicesCfg devices.Config
	var mqttLogs bool

	pflag.StringVarP(&levelFlag, "level", "l", envString("LEVEL", "debug"), "Set log level")
	pflag.StringVarP(&bridgeType, "bridge", "b", envString("BRIDGE", "auto"), "Type of bridge to use (auto|rpi|virtual)")
	pflag.StringVar(&hostID, "host-id", envString("HOST_ID", ""), "ID of this host (derived from hardware if empty)")
	pflag.StringVar(&serverCfg.Host, "host", envString("HOST", "0.0.0.0"), "Host address the servers will listen on")
	pflag.IntVar(&serverCfg.HTTPPort, "http-port", envInt("HTTP_PORT", defaultHTTPPort), "Port the HTTP server will listen on")
	pflag.IntVar(&serverCfg.GRPCPort, "grpc-port", envInt("GRPC_PORT", defaultGRPCPort), "Port the GRPC server will listen on")
	pflag.IntVar(&serverCfg.SSHPort, "ssh-port", envInt("SSH_PORT", defaultSSHPort), "Port the SSH server will listen on")
	pflag.StringVar(&serverCfg.SSHHostKeyPath, "ssh-host-key", envString("SSH_HOST_KEY", ".ssh/id_ed25519"), "Path of the SSH host key")
	pflag.Int32Var(&startValue, "start", int32(envInt("START", 0)), "Value the counter starts at")
	pflag.Int32Var(&counterCfg.Min, "min", int32(envInt("MIN", 0)), "Lowest count (only used without display)")
	pflag.Int32Var(&counterCfg.Max, "max", int32(envInt("MAX", 9999)), "Highest count (only used without display)")
	pflag.BoolVar(&alignLeft, "align-left", envBool("ALIGN_LEFT", false), "Show the count left aligned")
	pflag.BoolVar(&counterCfg.ZeroPadded, "zero-padded", envBool("ZERO_PADDED", false), "Fill free digits with zeros")
	pflag.IntVar(&devicesCfg.DisplayDigits, "digits", envInt("DIGITS", 4), "Number of digits of the display (0 runs without display, using --min/--max)")
	pflag.StringVar(&devicesCfg.MQTTBrokerAddress, "mqtt-broker", envString("MQTT_BROKER", ""), "Address (host:port) of the MQTT broker, virtual display if empty")
	pflag.StringVar(&devicesCfg.TopicPrefix, "topic-prefix", envString("TOPIC_PREFIX", ""), "Prefix of all MQTT topics")
	pflag.BoolVar(&devicesCfg.Button, "button", envBool("BUTTON", false), "Count clicks received from the MQTT button")
	pflag.BoolVar(&mqttLogs, "mqtt-logs", envBool("MQTT_LOGS", false), "Publish logs on MQTT")
	pflag.Parse()
	if alignLeft {
		counterCfg.Align = counter.AlignLeft
	}

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())

	// Prepare logging
	mqttWriter := logging.NewMQTTWriter(ctx)
	logOutput := logging.NewMultiWriter(zerolog.ConsoleWriter{Out: os.Stderr}, mqttWriter)
	logger := zerolog.New(logOutput).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(levelFlag); err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	} else {
		logger = logger.Level(level)
	}

	// Prepare bridge
	if bridgeType == "auto" {
		bridgeType = environment.AutoDetectBridgeType(logger)
		logger.Info().Str("bridge", bridgeType).Msg("Detected bridge type")
	}
	var br bridge.API
	switch bridgeType {
	case environment.BridgeTypeRPI:
		var err error
		br, err = bridge.NewRaspberryPiBridge()
		if err != nil {
			Exitf("Failed to initialize Raspberry Pi Bridge: %v\n", err)
		}
	case environment.BridgeTypeVirtual:
		br = bridge.NewVirtualBridge(logger)
	default:
		Exitf("Unknown bridge type '%s' (auto|rpi|virtual)\n", bridgeType)
	}

	svc, err := service.NewService(service.Config{
		ProgramVersion: projectVersion,
		HostID:         hostID,
		StartValue:     startValue,
		Counter:        counterCfg,
		Devices:        devicesCfg,
	}, service.Dependencies{
		Logger: logger,
		Bridge: br,
	})
	if err != nil {
		Exitf("Failed to initialize Service: %v\n", err)
	}

	// Publish logs on MQTT
	if mqttLogs && devicesCfg.MQTTBrokerAddress != "" {
		if err := enableMQTTLogs(mqttWriter, devicesCfg, svc.HostID(), logger); err != nil {
			logger.Warn().Err(err).Msg("Failed to prepare MQTT log output")
		}
	}

	srv, err := server.New(serverCfg, logger, ui.New(logger, svc), svc)
	if err != nil {
		Exitf("Failed to initialize Server: %v\n", err)
	}

	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })
	if err := g.Wait(); err != nil {
		Exitf("Service run failed: %v\n", err)
	}
}

// enableMQTTLogs points the given log writer to the logs topic of this host.
func enableMQTTLogs(w logging.MQTTWriter, cfg devices.Config, hostID string, logger zerolog.Logger) error {
	host, port, err := devices.SplitBrokerAddress(cfg.MQTTBrokerAddress)
	if err != nil {
		return err
	}
	mqttService, err := mqtt.NewService(mqtt.Config{
		Host:     host,
		Port:     port,
		ClientID: hostID + "-logs",
	}, logger)
	if err != nil {
		return errors.Wrap(err, "mqtt.NewService failed")
	}
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = devices.DefaultMQTTTopicPrefix(hostID)
	}
	w.SetDestination(prefix+"logs", mqttService)
	w.Enable(true)
	return nil
}

// envString returns the value of the environment variable with given
// name (prefixed with CLICKCOUNTER_) or the given default.
func envString(name, defaultValue string) string {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		return v
	}
	return defaultValue
}

func envInt(name string, defaultValue int) int {
	raw := envString(name, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		Exitf("Invalid value for %s%s: %s\n", envPrefix, name, raw)
	}
	return v
}

func envBool(name string, defaultValue bool) bool {
	switch strings.ToLower(envString(name, "")) {
	case "":
		return defaultValue
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
