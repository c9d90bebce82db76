// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfigure_SetsServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf, Version: "v1.2.3"})

	logger := WithComponent("test")
	logger.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"service":"charserve"`) {
		t.Errorf("output = %q, want service field", out)
	}
	if !strings.Contains(out, `"version":"v1.2.3"`) {
		t.Errorf("output = %q, want version field", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("output = %q, want component field", out)
	}
}

func TestWithComponent_MustBeRederivedAfterReconfigure(t *testing.T) {
	var first, second bytes.Buffer
	Configure(Config{Level: "info", Output: &first, Version: "v1"})
	stale := WithComponent("main")

	Configure(Config{Level: "info", Output: &second, Version: "v2"})
	fresh := WithComponent("main")

	stale.Info().Msg("from stale")
	fresh.Info().Msg("from fresh")

	// A child derived before reconfiguration keeps the old field set and
	// writer; callers holding one must derive a new child.
	if !strings.Contains(first.String(), `"version":"v1"`) {
		t.Errorf("first output = %q, want v1 from stale child", first.String())
	}
	if !strings.Contains(second.String(), `"version":"v2"`) {
		t.Errorf("second output = %q, want v2 from fresh child", second.String())
	}
	if strings.Contains(second.String(), "from stale") {
		t.Errorf("second output = %q, stale child must not reach new writer", second.String())
	}
}
