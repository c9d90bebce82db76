// SPDX-License-Identifier: MIT

package middleware

import "net/http"

// SecurityHeaders adds common security headers to all responses. charserve
// serves operator-controlled files, so the policy stays conservative without
// assuming anything about the content.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
