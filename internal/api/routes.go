// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/charserve/charserve/internal/api/middleware"
	"github.com/charserve/charserve/internal/charset"
	"github.com/charserve/charserve/internal/log"
)

// Handler builds the complete HTTP handler: the canonical middleware stack,
// health endpoints, and the charset-rewritten file server on everything else.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
		EnableRateLimit:       s.cfg.RateLimitEnabled,
		RateLimitRequests:     s.cfg.RateLimitRequests,
		RateLimitWindow:       s.cfg.RateLimitWindow,
	})

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	// Everything else is the file tree, with the Content-Type rewrite
	// applied at header commit.
	r.Handle("/*", charset.Rewriter(s.fileServer()))

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "true"
	resp := s.healthManager.Health(r.Context(), verbose)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	resp := s.healthManager.Ready(r.Context())
	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponent("api")
		logger.Warn().Err(err).Msg("failed to encode response")
	}
}
