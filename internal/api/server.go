// SPDX-License-Identifier: MIT

// Package api provides the HTTP file-serving surface of charserve.
package api

import (
	"github.com/charserve/charserve/internal/config"
	"github.com/charserve/charserve/internal/health"
)

// Server is the charserve HTTP server: a hardened static file handler
// behind the canonical middleware stack and the charset rewriter.
type Server struct {
	cfg           config.AppConfig
	healthManager *health.Manager
}

// New creates a Server for the given configuration.
func New(cfg config.AppConfig) *Server {
	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewReadableDirChecker("root_dir", cfg.RootDir))

	return &Server{
		cfg:           cfg,
		healthManager: hm,
	}
}

// HealthManager exposes the health manager for additional checker registration.
func (s *Server) HealthManager() *health.Manager {
	return s.healthManager
}
