// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoader_Defaults(t *testing.T) {
	// Defaults use root "." which exists; no file, no env.
	cfg, err := NewLoader("", "test").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := Defaults()
	want.Version = "test"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
listen: ":9000"
root: "` + tmpDir + `"
logLevel: debug
metrics:
  enabled: true
  addr: ":9100"
rateLimit:
  enabled: true
  requests: 50
  window: 30s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := NewLoader(path, "test").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := AppConfig{
		ListenAddr:        ":9000",
		RootDir:           tmpDir,
		LogLevel:          "debug",
		MetricsEnabled:    true,
		MetricsAddr:       ":9100",
		RateLimitEnabled:  true,
		RateLimitRequests: 50,
		RateLimitWindow:   30 * time.Second,
		Version:           "test",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9000\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(EnvListen, ":9001")
	t.Setenv(EnvRoot, tmpDir)

	cfg, err := NewLoader(path, "test").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ListenAddr != ":9001" {
		t.Errorf("ListenAddr = %q, want %q (env wins over file)", cfg.ListenAddr, ":9001")
	}
	if cfg.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want %q", cfg.RootDir, tmpDir)
	}
}

func TestLoader_UnknownFieldRejected(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("listne: \":9000\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := NewLoader(path, "test").Load(); err == nil {
		t.Error("expected error for unknown config field")
	}
}

func TestLoader_MissingFileFails(t *testing.T) {
	if _, err := NewLoader("/nonexistent/config.yaml", "test").Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "afile")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{
			name:   "defaults valid",
			mutate: func(c *AppConfig) { c.RootDir = tmpDir },
		},
		{
			name:    "missing root",
			mutate:  func(c *AppConfig) { c.RootDir = filepath.Join(tmpDir, "missing") },
			wantErr: true,
		},
		{
			name:    "root is a file",
			mutate:  func(c *AppConfig) { c.RootDir = file },
			wantErr: true,
		},
		{
			name:    "bad listen addr",
			mutate:  func(c *AppConfig) { c.ListenAddr = "8000" },
			wantErr: true,
		},
		{
			name:    "bad port",
			mutate:  func(c *AppConfig) { c.ListenAddr = ":http-alt-x" },
			wantErr: true,
		},
		{
			name: "zero rate limit requests when enabled",
			mutate: func(c *AppConfig) {
				c.RootDir = tmpDir
				c.RateLimitEnabled = true
				c.RateLimitRequests = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPort(t *testing.T) {
	cfg := Defaults()
	port, err := cfg.Port()
	if err != nil {
		t.Fatalf("Port() failed: %v", err)
	}
	if port != 8000 {
		t.Errorf("Port() = %d, want 8000", port)
	}
}
