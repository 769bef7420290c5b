package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Server    ServerConfig    `yaml:"server"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Safety    SafetyConfig    `yaml:"safety"`
	Time      TimeConfig      `yaml:"time"`
	Log       LogConfig       `yaml:"log"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // stdio or http
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type BridgeConfig struct {
	QueryTimeoutSeconds    int `yaml:"query_timeout_seconds"`
	MutationTimeoutSeconds int `yaml:"mutation_timeout_seconds"`
}

type SafetyConfig struct {
	// Disabled turns the guard off entirely (isolated testing opt-out).
	Disabled bool `yaml:"disabled"`
	// TestMode marks the process as a test run that may only mutate an
	// approved backing store.
	TestMode      bool   `yaml:"test_mode"`
	ExpectedStore string `yaml:"expected_store"`
}

type TimeConfig struct {
	// Zone is an IANA location name; empty means the process-local zone.
	Zone string `yaml:"zone"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// QueryTimeout returns the list-query execution limit.
func (c BridgeConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// MutationTimeout returns the single-record mutation execution limit.
func (c BridgeConfig) MutationTimeout() time.Duration {
	return time.Duration(c.MutationTimeoutSeconds) * time.Second
}

// Location resolves the reference timezone.
func (c TimeConfig) Location() (*time.Location, error) {
	if c.Zone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Zone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Zone, err)
	}
	return loc, nil
}

// Load reads configuration from an optional YAML file and environment
// variables.
func Load() (Config, error) {
	cfg := Config{
		Transport: TransportConfig{Mode: "stdio"},
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Bridge:    BridgeConfig{QueryTimeoutSeconds: 60, MutationTimeoutSeconds: 30},
		Log:       LogConfig{Level: "info"},
	}

	if path := os.Getenv("TASKBRIDGE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if mode := os.Getenv("TASKBRIDGE_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if host := os.Getenv("TASKBRIDGE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TASKBRIDGE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TASKBRIDGE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if level := os.Getenv("TASKBRIDGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if zone := os.Getenv("TASKBRIDGE_TIMEZONE"); zone != "" {
		cfg.Time.Zone = zone
	}
	if v := os.Getenv("TASKBRIDGE_QUERY_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TASKBRIDGE_QUERY_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Bridge.QueryTimeoutSeconds = secs
	}
	if v := os.Getenv("TASKBRIDGE_MUTATION_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TASKBRIDGE_MUTATION_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Bridge.MutationTimeoutSeconds = secs
	}
	if v := os.Getenv("TASKBRIDGE_SAFETY_DISABLED"); v != "" {
		cfg.Safety.Disabled = v == "1" || v == "true"
	}
	if v := os.Getenv("TASKBRIDGE_TEST_MODE"); v != "" {
		cfg.Safety.TestMode = v == "1" || v == "true"
	}
	if store := os.Getenv("TASKBRIDGE_EXPECTED_STORE"); store != "" {
		cfg.Safety.ExpectedStore = store
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
