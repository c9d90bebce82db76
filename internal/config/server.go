// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig holds the net/http server runtime parameters.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g. ":8000")
	ListenAddr string

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// MaxHeaderBytes limits the bytes read parsing request headers
	MaxHeaderBytes int

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration
}

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 0 // 0 = no timeout, large files may stream slowly
	defaultIdleTimeout     = 120 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1 MB
	defaultShutdownTimeout = 15 * time.Second
)

// ParseServerConfig reads server runtime configuration from environment
// variables, falling back to defaults. The listen address comes from app.
func ParseServerConfig(app AppConfig) ServerConfig {
	cfg := ServerConfig{
		ListenAddr:      app.ListenAddr,
		ReadTimeout:     ParseDuration("CHARSERVE_SERVER_READ_TIMEOUT", defaultReadTimeout),
		WriteTimeout:    ParseDuration("CHARSERVE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
		IdleTimeout:     ParseDuration("CHARSERVE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		MaxHeaderBytes:  ParseInt("CHARSERVE_SERVER_MAX_HEADER_BYTES", defaultMaxHeaderBytes),
		ShutdownTimeout: ParseDuration("CHARSERVE_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	if cfg.MaxHeaderBytes <= 0 {
		cfg.MaxHeaderBytes = defaultMaxHeaderBytes
	}
	return cfg
}
