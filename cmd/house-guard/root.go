package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/house-guard/internal/config"
	"github.com/sweeney/house-guard/internal/logger"
	"github.com/sweeney/house-guard/internal/logic"
	"github.com/sweeney/house-guard/internal/mqtt"
	"github.com/sweeney/house-guard/internal/remote"
	"github.com/sweeney/house-guard/internal/status"
	"github.com/sweeney/house-guard/internal/version"
	"github.com/sweeney/house-guard/internal/web"
)

// options are the command-line settings.
type options struct {
	configPath string
	logLevel   string
	printState bool
}

var (
	flags options

	rootCmd = &cobra.Command{
		Use:   "house-guard",
		Short: "Run the house safety controller.",
		Long: `Samples the gas, light, soil moisture and steam sensors, the motion
sensor and two buttons, and drives the fan, door/window servos, lamps,
buzzer and 16x2 display.

A gas reading at or above the alarm threshold starts a staged response:
alert, open the house, then ventilate, depending on what is already open or
running. Events and lifecycle messages are published to MQTT and the current
state is served over HTTP.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), flags)
		},
	}
)

// Execute runs the house-guard CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatalf(context.Background(), "fatal: %v", err)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&flags.configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	rootCmd.Flags().BoolVar(&flags.printState, "print-state", false, "print current sensor readings and exit")
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)
	ctx = logger.WithName(ctx, "house-guard")

	in, err := openSensors(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	if opts.printState {
		return printState(os.Stdout, in)
	}

	out, err := openActuators(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warnf(ctx, "release outputs: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var commands commandSource
	stream, err := openRemote(cfg)
	if err != nil {
		return err
	}
	if stream != nil {
		defer stream.Close()
		src := remote.NewSource(stream)
		src.Start(ctx)
		go func() {
			<-src.Done()
			if err := src.Err(); err != nil {
				logger.WarnKV(ctx, "remote command stream stopped", "error", err)
			}
		}()
		commands = src
		logger.Infof(ctx, "reading remote commands from %s", cfg.Serial.Device)
	}

	publisher, err := mqtt.NewRealPublisher(ctx, mqtt.Options{
		Broker:     cfg.MQTT.Broker,
		ClientID:   cfg.MQTT.ClientID,
		BufferSize: cfg.MQTT.BufferSize,
	})
	if err != nil {
		return err
	}
	defer publisher.Close()

	start := time.Now()
	tracker := status.NewTracker(start, status.Config{
		PollMs:      cfg.Poll.Milliseconds(),
		DebounceMs:  cfg.Debounce.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		Serial:      cfg.Serial.Device,
	})
	network := readNetworkInfo(ctx)
	if n := network(); n != nil {
		tracker.SetNetwork(n)
	}
	tracker.SetMQTTConnected(publisher.IsConnected())

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		logger.WarnKV(ctx, "startup publish failed", "error", err)
	} else {
		logger.Info(ctx, "published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorKV(ctx, "http server stopped", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Infof(ctx, "http status server listening on %s", cfg.HTTPAddr)
	}

	logger.InfoKV(ctx, "started",
		"poll", cfg.Poll,
		"debounce", cfg.Debounce,
		"heartbeat", cfg.Heartbeat,
		"broker", cfg.MQTT.Broker,
		"log_level", logger.Level(),
	)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	l := loop{
		controller: logic.NewController(out.buzzer, out.screen, start, logic.Options{Debounce: cfg.Debounce}),
		inputs:     in.inputs,
		analog:     in.analog,
		outputs:    []outputWriter{out.lines, out.servos},
		commands:   commands,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		heartbeat:  cfg.Heartbeat,
		network:    network,
	}
	return runLoop(ctx, l, time.Now, ticker.C, sig)
}

// readNetworkInfo returns a reader for the pi-helper network state.
func readNetworkInfo(ctx context.Context) func() *status.NetworkInfo {
	return func() *status.NetworkInfo {
		n, ok, err := config.ReadNetwork()
		if err != nil {
			logger.WarnKV(ctx, "network info unavailable", "error", err)
			return nil
		}
		if !ok {
			return nil
		}
		return &status.NetworkInfo{
			Type:       n.Type,
			IP:         n.IP,
			Status:     n.Status,
			Gateway:    n.Gateway,
			WifiStatus: n.WifiStatus,
			SSID:       n.SSID,
		}
	}
}

func printState(w io.Writer, in *sensors) error {
	d, err := in.inputs.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	a, err := in.analog.Read()
	if err != nil {
		return fmt.Errorf("read adc: %w", err)
	}
	_, err = fmt.Fprintf(w, "Gas: %d Light: %d Soil: %d Steam: %d Motion: %s Button1: %s Button2: %s\n",
		a.Gas, a.Light, a.Soil, a.Steam, status.OnOff(d.Motion), status.OnOff(d.Button1), status.OnOff(d.Button2))
	return err
}
