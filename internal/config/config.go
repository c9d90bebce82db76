// SPDX-License-Identifier: MIT

// Package config resolves charserve configuration with the precedence
// ENV > config file > defaults.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// Environment variable names understood by charserve.
const (
	EnvListen           = "CHARSERVE_LISTEN"
	EnvRoot             = "CHARSERVE_ROOT"
	EnvLogLevel         = "CHARSERVE_LOG_LEVEL"
	EnvMetricsEnabled   = "CHARSERVE_METRICS_ENABLED"
	EnvMetricsAddr      = "CHARSERVE_METRICS_ADDR"
	EnvRateLimitEnabled = "CHARSERVE_RATE_LIMIT_ENABLED"
	EnvRateLimitReqs    = "CHARSERVE_RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow  = "CHARSERVE_RATE_LIMIT_WINDOW"
	EnvTracingService   = "CHARSERVE_TRACING_SERVICE"
)

// AppConfig is the resolved application configuration. It is immutable after
// startup except for the dynamic subset applied by Holder on reload.
type AppConfig struct {
	// ListenAddr is the file server listen address (e.g. ":8000").
	ListenAddr string

	// RootDir is the directory files are served from.
	RootDir string

	// LogLevel is the zerolog level name ("debug", "info", ...).
	LogLevel string

	// MetricsEnabled controls the Prometheus exposition listener.
	MetricsEnabled bool
	// MetricsAddr is the metrics listen address (e.g. ":9090").
	MetricsAddr string

	// RateLimitEnabled toggles per-IP rate limiting on file routes.
	RateLimitEnabled bool
	// RateLimitRequests is the number of requests allowed per window.
	RateLimitRequests int
	// RateLimitWindow is the sliding window for rate limiting.
	RateLimitWindow time.Duration

	// TracingService enables OpenTelemetry HTTP tracing when non-empty.
	TracingService string

	// Version is the build version, attached to logs and health output.
	Version string
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr:        ":8000",
		RootDir:           ".",
		LogLevel:          "info",
		MetricsEnabled:    false,
		MetricsAddr:       ":9090",
		RateLimitEnabled:  false,
		RateLimitRequests: 600,
		RateLimitWindow:   time.Minute,
	}
}

// Loader resolves configuration from defaults, an optional YAML file and the
// environment, in that order of increasing precedence.
type Loader struct {
	path    string
	version string
}

// NewLoader creates a Loader. path may be empty to skip file loading.
func NewLoader(path, version string) *Loader {
	return &Loader{path: path, version: version}
}

// Load resolves and validates the configuration.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.path != "" {
		if err := mergeFile(&cfg, l.path); err != nil {
			return AppConfig{}, fmt.Errorf("config file %s: %w", l.path, err)
		}
	}

	mergeEnv(&cfg)
	cfg.Version = l.version

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func mergeEnv(cfg *AppConfig) {
	cfg.ListenAddr = ParseString(EnvListen, cfg.ListenAddr)
	cfg.RootDir = ParseString(EnvRoot, cfg.RootDir)
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	cfg.MetricsEnabled = ParseBool(EnvMetricsEnabled, cfg.MetricsEnabled)
	cfg.MetricsAddr = ParseString(EnvMetricsAddr, cfg.MetricsAddr)
	cfg.RateLimitEnabled = ParseBool(EnvRateLimitEnabled, cfg.RateLimitEnabled)
	cfg.RateLimitRequests = ParseInt(EnvRateLimitReqs, cfg.RateLimitRequests)
	cfg.RateLimitWindow = ParseDuration(EnvRateLimitWindow, cfg.RateLimitWindow)
	cfg.TracingService = ParseString(EnvTracingService, cfg.TracingService)
}

// Validate checks the parts of the configuration that must hold before bind.
func (c AppConfig) Validate() error {
	if _, err := c.Port(); err != nil {
		return err
	}
	info, err := os.Stat(c.RootDir)
	if err != nil {
		return fmt.Errorf("root directory %q: %w", c.RootDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root directory %q: not a directory", c.RootDir)
	}
	if c.RateLimitEnabled {
		if c.RateLimitRequests <= 0 {
			return fmt.Errorf("rate limit requests must be positive, got %d", c.RateLimitRequests)
		}
		if c.RateLimitWindow <= 0 {
			return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimitWindow)
		}
	}
	return nil
}

// Port extracts the numeric port from ListenAddr.
func (c AppConfig) Port() (int, error) {
	_, portStr, err := net.SplitHostPort(c.ListenAddr)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: %w", c.ListenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: invalid port: %w", c.ListenAddr, err)
	}
	return port, nil
}
