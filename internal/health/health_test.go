// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"path/filepath"
	"testing"
)

func TestManager_HealthAlwaysHealthy(t *testing.T) {
	m := NewManager("test")
	resp := m.Health(context.Background(), false)
	if resp.Status != StatusHealthy {
		t.Errorf("Status = %q, want %q", resp.Status, StatusHealthy)
	}
	if resp.Version != "test" {
		t.Errorf("Version = %q, want test", resp.Version)
	}
	if resp.Checks != nil {
		t.Error("non-verbose health should omit checks")
	}
}

func TestManager_HealthVerboseIncludesChecks(t *testing.T) {
	m := NewManager("test")
	m.RegisterChecker(NewReadableDirChecker("root_dir", t.TempDir()))

	resp := m.Health(context.Background(), true)
	if resp.Status != StatusHealthy {
		t.Errorf("Status = %q, want %q", resp.Status, StatusHealthy)
	}
	if _, ok := resp.Checks["root_dir"]; !ok {
		t.Error("expected root_dir check in verbose output")
	}
}

func TestManager_ReadyReflectsCheckers(t *testing.T) {
	tmpDir := t.TempDir()

	m := NewManager("test")
	m.RegisterChecker(NewReadableDirChecker("root_dir", tmpDir))

	resp := m.Ready(context.Background())
	if !resp.Ready {
		t.Fatalf("Ready = false with healthy checker: %+v", resp.Checks)
	}

	m2 := NewManager("test")
	m2.RegisterChecker(NewReadableDirChecker("root_dir", filepath.Join(tmpDir, "missing")))

	resp = m2.Ready(context.Background())
	if resp.Ready {
		t.Error("Ready = true with failing checker")
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("Status = %q, want %q", resp.Status, StatusUnhealthy)
	}
}

func TestReadableDirChecker_FileNotDir(t *testing.T) {
	c := NewReadableDirChecker("root_dir", "health.go")
	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %q, want %q for a regular file", result.Status, StatusUnhealthy)
	}
}
