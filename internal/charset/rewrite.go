// SPDX-License-Identifier: MIT

// Package charset guarantees that text responses declare their encoding.
// It rewrites outgoing Content-Type headers so that every text/* value
// carries an explicit charset=utf-8 parameter unless one is already present.
package charset

import "strings"

const (
	headerContentType = "Content-Type"

	// utf8Param is appended to bare text/* Content-Type values.
	utf8Param = "; charset=utf-8"
)

// Rewrite inspects a single response header pair and returns the value to
// emit. Only Content-Type (matched case-insensitively) is ever changed; all
// other headers pass through verbatim.
func Rewrite(name, value string) string {
	if !strings.EqualFold(name, headerContentType) {
		return value
	}
	return ContentType(value)
}

// ContentType returns the Content-Type value to emit. Values in the text/*
// family gain "; charset=utf-8" unless they already contain a charset
// parameter. The charset probe is a deliberate case-sensitive substring
// check: "Charset=" does not count as present, matching upstream behavior.
func ContentType(value string) string {
	if strings.HasPrefix(value, "text/") && !strings.Contains(value, "charset=") {
		return value + utf8Param
	}
	return value
}
