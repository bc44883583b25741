// Package config loads the daemon's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/conn-manager/internal/indicator"
)

// Config is the daemon configuration as read from YAML.
type Config struct {
	// Broker is the MQTT broker address, e.g. tcp://192.168.1.200:1883.
	Broker string `yaml:"broker"`

	// DeviceID is the MQTT client id and log topic component.
	DeviceID string `yaml:"device_id"`

	// PollInterval is the watchdog period.
	PollInterval time.Duration `yaml:"poll_interval"`

	// StayConnected schedules automatic reconnects after every disconnect.
	StayConnected bool `yaml:"stay_connected"`

	// IndicatorMode is one of always, never, on-connect, on-disconnect.
	IndicatorMode string `yaml:"indicator_mode"`

	// StartDisconnected forces the link down at startup.
	StartDisconnected bool `yaml:"start_disconnected"`

	// IndicatorPin is the BCM pin driving the provisioning-mode circuit.
	IndicatorPin int `yaml:"indicator_pin"`

	// IndicatorWarmup is the post-boot window during which the circuit is
	// held on regardless of policy. Zero disables the hold.
	IndicatorWarmup time.Duration `yaml:"indicator_warmup"`

	// LogBufferCap caps the offline log buffer. Zero means unbounded.
	LogBufferCap int `yaml:"log_buffer_cap"`

	// HTTPAddr is the status server address. Empty disables it.
	HTTPAddr string `yaml:"http_addr"`

	// LogLevel sets daemon logging verbosity. Empty means silent.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Broker:          "tcp://127.0.0.1:1883",
		DeviceID:        "conn-manager",
		PollInterval:    5 * time.Second,
		IndicatorMode:   indicator.OnDisconnect.String(),
		IndicatorPin:    indicator.DefaultPin,
		IndicatorWarmup: time.Minute,
		HTTPAddr:        ":8080",
	}
}

// Load reads path and merges it over the defaults. A missing file is not an
// error — the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the daemon cannot run with.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker must not be empty")
	}
	if c.DeviceID == "" {
		return fmt.Errorf("device_id must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.LogBufferCap < 0 {
		return fmt.Errorf("log_buffer_cap must not be negative, got %d", c.LogBufferCap)
	}
	if _, err := indicator.ParseMode(c.IndicatorMode); err != nil {
		return err
	}
	return nil
}

// Mode returns the parsed indicator mode. Call Validate first.
func (c Config) Mode() indicator.Mode {
	m, err := indicator.ParseMode(c.IndicatorMode)
	if err != nil {
		return indicator.OnDisconnect
	}
	return m
}
