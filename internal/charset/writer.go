// SPDX-License-Identifier: MIT

package charset

import (
	"io"
	"net/http"
)

// Rewriter wraps a handler so that the Content-Type rewrite runs exactly
// once per response, at header commit time. The downstream handler keeps
// full control of status codes, ranges and all other headers.
func Rewriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&rewriteWriter{ResponseWriter: w}, r)
	})
}

// rewriteWriter intercepts the header commit (explicit WriteHeader or the
// implicit one on first Write) and applies the charset rewrite to the
// buffered Content-Type before the status line goes out.
type rewriteWriter struct {
	http.ResponseWriter
	committed bool
}

// WriteHeader applies the rewrite and forwards the status code.
func (w *rewriteWriter) WriteHeader(statusCode int) {
	if !w.committed {
		w.committed = true
		h := w.Header()
		if v := h.Get(headerContentType); v != "" {
			if rewritten := ContentType(v); rewritten != v {
				h.Set(headerContentType, rewritten)
			}
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write commits headers with an implicit 200 if needed.
func (w *rewriteWriter) Write(b []byte) (int, error) {
	if !w.committed {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// ReadFrom keeps the sendfile fast path available to http.ServeContent when
// the underlying writer supports it.
func (w *rewriteWriter) ReadFrom(src io.Reader) (int64, error) {
	if !w.committed {
		w.WriteHeader(http.StatusOK)
	}
	if rf, ok := w.ResponseWriter.(io.ReaderFrom); ok {
		return rf.ReadFrom(src)
	}
	return io.Copy(writerOnly{w.ResponseWriter}, src)
}

// Flush passes through to the underlying writer if it supports flushing.
func (w *rewriteWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// writerOnly hides ReadFrom from io.Copy to avoid recursing into it.
type writerOnly struct {
	io.Writer
}
