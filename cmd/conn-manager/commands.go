package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/conn-manager/internal/config"
	"github.com/sweeney/conn-manager/internal/connman"
	"github.com/sweeney/conn-manager/internal/indicator"
	"github.com/sweeney/conn-manager/internal/logging"
	"github.com/sweeney/conn-manager/internal/sched"
	"github.com/sweeney/conn-manager/internal/status"
	"github.com/sweeney/conn-manager/internal/transport"
	"github.com/sweeney/conn-manager/internal/web"
)

var (
	configPath string
	broker     string
	deviceID   string
	logLevel   string
	noGPIO     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the connection manager daemon",
	Long: `Run the daemon: connect to the configured MQTT broker, keep the link
in the desired state, and serve the HTTP status page.

Flags override the corresponding config file settings.`,
	Example: `  # Run with the default config path
  conn-manager run

  # Run against a specific broker with debug logging
  conn-manager run --broker tcp://192.168.1.200:1883 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "/etc/conn-manager.yaml", "Config file path")
	runCmd.Flags().StringVar(&broker, "broker", "", "MQTT broker address (overrides config)")
	runCmd.Flags().StringVar(&deviceID, "device-id", "", "Device id (overrides config)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	runCmd.Flags().BoolVar(&noGPIO, "no-gpio", false, "Skip the GPIO indicator (development hosts)")
}

func runDaemon() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if broker != "" {
		cfg.Broker = broker
	}
	if deviceID != "" {
		cfg.DeviceID = deviceID
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Initialize(cfg.LogLevel); err != nil {
		return err
	}
	defer logging.Sync()

	var circuit indicator.Circuit
	if noGPIO {
		circuit = indicator.NewFakeCircuit()
	} else {
		gpio, err := indicator.NewGPIOCircuit(cfg.IndicatorPin, cfg.IndicatorWarmup)
		if err != nil {
			return fmt.Errorf("init indicator: %w", err)
		}
		defer gpio.Close()
		circuit = gpio
	}

	uplink := transport.NewMQTT(cfg.Broker, cfg.DeviceID)

	manager := connman.New(uplink, circuit, sched.NewTimer(), connman.Config{
		PollInterval:      cfg.PollInterval,
		StayConnected:     cfg.StayConnected,
		IndicatorMode:     cfg.Mode(),
		StartDisconnected: cfg.StartDisconnected,
		LogBufferCap:      cfg.LogBufferCap,
	})

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:        cfg.PollInterval.Milliseconds(),
		Broker:        cfg.Broker,
		DeviceID:      cfg.DeviceID,
		HTTPAddr:      cfg.HTTPAddr,
		IndicatorMode: cfg.IndicatorMode,
		StayConnected: cfg.StayConnected,
	})
	manager.OnConnect(func() {
		logging.Info("link up")
		tracker.SetConnected(true, time.Now())
	})
	manager.OnDisconnect(func(expected bool) {
		logging.Info("link down", "expected", expected)
		tracker.SetConnected(false, time.Now())
		tracker.SetLastDropExpected(expected)
	})

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, func() {
			tracker.Refresh(manager.Transitioning(), manager.StatsSnapshot(),
				manager.PendingTasks(), manager.BufferedLogs())
		})
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error("http server error", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logging.Info("http status server listening", "addr", cfg.HTTPAddr)
	}

	manager.Log("daemon started")
	manager.Connect()
	logging.Info("started", "broker", cfg.Broker, "poll", cfg.PollInterval,
		"stay_connected", cfg.StayConnected, "indicator_mode", cfg.IndicatorMode)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	logging.Info("shutting down", "signal", s.String())

	manager.Log(fmt.Sprintf("daemon stopping (%v)", s))
	manager.Disconnect()
	return nil
}
