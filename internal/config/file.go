// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file layout. All fields are optional;
// absent fields keep their current (default) values.
type fileConfig struct {
	Listen   *string `yaml:"listen"`
	Root     *string `yaml:"root"`
	LogLevel *string `yaml:"logLevel"`

	Metrics struct {
		Enabled *bool   `yaml:"enabled"`
		Addr    *string `yaml:"addr"`
	} `yaml:"metrics"`

	RateLimit struct {
		Enabled  *bool   `yaml:"enabled"`
		Requests *int    `yaml:"requests"`
		Window   *string `yaml:"window"`
	} `yaml:"rateLimit"`

	Tracing struct {
		Service *string `yaml:"service"`
	} `yaml:"tracing"`
}

// mergeFile overlays values from the YAML file at path onto cfg.
func mergeFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return err
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file, keep defaults
		}
		return fmt.Errorf("parse: %w", err)
	}

	if fc.Listen != nil {
		cfg.ListenAddr = *fc.Listen
	}
	if fc.Root != nil {
		cfg.RootDir = *fc.Root
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *fc.Metrics.Enabled
	}
	if fc.Metrics.Addr != nil {
		cfg.MetricsAddr = *fc.Metrics.Addr
	}
	if fc.RateLimit.Enabled != nil {
		cfg.RateLimitEnabled = *fc.RateLimit.Enabled
	}
	if fc.RateLimit.Requests != nil {
		cfg.RateLimitRequests = *fc.RateLimit.Requests
	}
	if fc.RateLimit.Window != nil {
		d, err := time.ParseDuration(*fc.RateLimit.Window)
		if err != nil {
			return fmt.Errorf("rateLimit.window: %w", err)
		}
		cfg.RateLimitWindow = d
	}
	if fc.Tracing.Service != nil {
		cfg.TracingService = *fc.Tracing.Service
	}
	return nil
}
