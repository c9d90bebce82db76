// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charserve/charserve/internal/log"
	"golang.org/x/text/unicode/norm"
)

// fileServer creates a handler that serves files from the configured root
// directory with checks against path traversal, symlink escapes, and
// directory listing. Content serving (MIME detection, Range requests,
// Last-Modified, HEAD) is delegated to http.ServeContent.
func (s *Server) fileServer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.WithComponentFromContext(r.Context(), "fileserver")

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			logger.Warn().Str("event", "file_req.denied").Str("path", r.URL.Path).Str("reason", "method_not_allowed").Msg("method not allowed")
			recordFileRequestDenied("method_not_allowed")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		path := r.URL.Path
		// Enhanced traversal detection including multiple URL-decode passes,
		// Unicode normalization, and NUL bytes.
		if isPathTraversal(path) {
			logger.Warn().Str("event", "file_req.denied").Str("path", r.URL.Path).Str("reason", "path_escape").Msg("detected traversal sequence")
			recordFileRequestDenied("path_escape")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		absRoot, err := filepath.Abs(s.cfg.RootDir)
		if err != nil {
			logger.Error().Err(err).Str("event", "file_req.internal_error").Msg("could not get absolute root dir")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		fullPath := filepath.Join(absRoot, path)

		// Evaluate symlinks and clean the path
		realPath, err := filepath.EvalSymlinks(fullPath)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Info().Str("event", "file_req.not_found").Str("path", path).Msg("file not found")
				recordFileRequestDenied("not_found")
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Str("event", "file_req.internal_error").Str("path", fullPath).Msg("could not evaluate symlinks")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Also evaluate symlinks on the root itself to get a consistent base path.
		realRoot, err := filepath.EvalSymlinks(absRoot)
		if err != nil {
			logger.Error().Err(err).Str("event", "file_req.internal_error").Msg("could not evaluate symlinks on root dir")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Containment check: the real path must stay inside the real root
		// (protects against symlink escapes).
		if !pathWithin(realRoot, realPath) {
			logger.Warn().
				Str("event", "file_req.denied").
				Str("path", path).
				Str("resolved_path", realPath).
				Str("root_dir", realRoot).
				Str("reason", "path_escape").
				Msg("path escapes root directory")
			recordFileRequestDenied("path_escape")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		info, err := os.Stat(realPath)
		if err != nil {
			logger.Error().Err(err).Str("event", "file_req.internal_error").Str("path", realPath).Msg("could not stat real path")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Directories resolve to their index.html; listings are never produced.
		if info.IsDir() {
			indexPath, err := filepath.EvalSymlinks(filepath.Join(realPath, "index.html"))
			if err != nil || !pathWithin(realRoot, indexPath) {
				logger.Warn().Str("event", "file_req.denied").Str("path", path).Str("reason", "directory_listing").Msg("directory listing forbidden")
				recordFileRequestDenied("directory_listing")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			realPath = indexPath
			if info, err = os.Stat(realPath); err != nil || info.IsDir() {
				logger.Warn().Str("event", "file_req.denied").Str("path", path).Str("reason", "directory_listing").Msg("directory index unavailable")
				recordFileRequestDenied("directory_listing")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		}

		// #nosec G304 -- realPath is validated to reside inside the root directory
		f, err := os.Open(realPath)
		if err != nil {
			if os.IsPermission(err) {
				logger.Warn().Str("event", "file_req.denied").Str("path", path).Str("reason", "permission").Msg("permission denied")
				recordFileRequestDenied("permission")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			logger.Error().Err(err).Str("event", "file_req.internal_error").Str("path", realPath).Msg("could not open file for serving")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn().Err(err).Str("path", realPath).Msg("failed to close file")
			}
		}()

		// Re-fetch stat info from the opened file handle
		info, err = f.Stat()
		if err != nil {
			logger.Error().Err(err).Str("event", "file_req.internal_error").Str("path", realPath).Msg("could not stat opened file")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Weak ETag based on file modtime and size. W/ indicates a weak
		// validator, suitable for semantically equivalent content.
		etag := fmt.Sprintf(`W/"%x-%x"`, info.ModTime().UnixNano(), info.Size())
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if match := r.Header.Get("If-None-Match"); match != "" {
			if match == etag {
				recordFileCacheHit()
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		// http.ServeContent handles Range requests and sets Content-Type,
		// Content-Length, and Last-Modified. The charset rewriter upstream
		// amends the Content-Type at header commit.
		logger.Debug().Str("event", "file_req.allowed").Str("path", path).Msg("serving file")
		recordFileRequestAllowed()
		recordFileCacheMiss()
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}

// pathWithin reports whether target resides inside base after both have been
// resolved to real paths.
func pathWithin(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// isPathTraversal performs robust checks against path traversal attempts.
// It decodes the input multiple times to catch double-encoding, applies
// Unicode normalization, and searches for dangerous sequences including NULs.
func isPathTraversal(p string) bool {
	decoded := p
	// Attempt multiple decode passes to catch double/triple encodings
	for i := 0; i < 3; i++ {
		prev := decoded
		if d, err := url.PathUnescape(decoded); err == nil {
			decoded = d
		} else if d2, err2 := url.QueryUnescape(decoded); err2 == nil {
			decoded = d2
		}
		if decoded == prev {
			break
		}
	}

	lower := strings.ToLower(decoded)
	dangerSubstrings := []string{
		"..",        // parent traversal
		"%00",       // encoded NUL
		"%c0%ae",    // overlong UTF-8 for '.'
		"%e0%80%ae", // another overlong variant
	}
	for _, pat := range dangerSubstrings {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	if strings.IndexByte(decoded, 0x00) >= 0 {
		return true
	}

	// Normalize and check again for dot-dot
	normalized := strings.ToLower(norm.NFC.String(decoded))
	return strings.Contains(normalized, "..")
}
