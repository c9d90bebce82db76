// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/charserve/charserve/internal/log"
)

// Logging emits one structured log line per request with full latency.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := &loggingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lw, r)

		logger := log.WithComponentFromContext(r.Context(), "http")
		evt := logger.Info()
		if lw.statusCode >= 500 {
			evt = logger.Error()
		} else if lw.statusCode >= 400 {
			evt = logger.Warn()
		}
		if sc := SpanFromContext(r).SpanContext(); sc.IsValid() {
			evt = evt.Str("trace_id", sc.TraceID().String())
		}
		evt.
			Str("event", "http.request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", lw.statusCode).
			Int("bytes", lw.bytesWritten).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}

// loggingWriter wraps http.ResponseWriter to capture status and size.
type loggingWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	written      bool
}

func (lw *loggingWriter) WriteHeader(statusCode int) {
	if !lw.written {
		lw.statusCode = statusCode
		lw.written = true
	}
	lw.ResponseWriter.WriteHeader(statusCode)
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.written {
		lw.WriteHeader(http.StatusOK)
	}
	n, err := lw.ResponseWriter.Write(b)
	lw.bytesWritten += n
	return n, err
}
