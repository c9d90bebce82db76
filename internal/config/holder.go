// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/charserve/charserve/internal/log"
)

// Holder keeps the current configuration and supports hot reload from the
// config file. Only the dynamic subset (log level) is applied at runtime;
// changes to immutable fields are logged as requiring a restart.
type Holder struct {
	mu      sync.RWMutex
	current AppConfig
	loader  *Loader
	path    string
}

// NewHolder creates a Holder seeded with cfg. path may be empty, in which
// case Reload and Watch are no-ops.
func NewHolder(cfg AppConfig, loader *Loader, path string) *Holder {
	return &Holder{current: cfg, loader: loader, path: path}
}

// Current returns the most recently loaded configuration.
func (h *Holder) Current() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload re-resolves the configuration and applies the dynamic subset.
func (h *Holder) Reload(ctx context.Context) error {
	if h.path == "" {
		return nil
	}
	logger := log.WithComponentFromContext(ctx, "config")

	next, err := h.loader.Load()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	h.mu.Unlock()

	if next.LogLevel != prev.LogLevel {
		log.SetLevel(next.LogLevel)
		logger.Info().
			Str("event", "config.reloaded").
			Str("old_level", prev.LogLevel).
			Str("new_level", next.LogLevel).
			Msg("log level changed")
	}
	if next.ListenAddr != prev.ListenAddr || next.RootDir != prev.RootDir ||
		next.MetricsEnabled != prev.MetricsEnabled || next.MetricsAddr != prev.MetricsAddr ||
		next.RateLimitEnabled != prev.RateLimitEnabled || next.RateLimitRequests != prev.RateLimitRequests ||
		next.RateLimitWindow != prev.RateLimitWindow || next.TracingService != prev.TracingService {
		logger.Warn().
			Str("event", "config.restart_required").
			Msg("changed fields take effect after restart")
	}
	return nil
}

// Watch observes the config file with fsnotify and reloads on change. It
// blocks until ctx is cancelled. Editors often replace files on save, so the
// watch is placed on the parent directory and filtered by name.
func (h *Holder) Watch(ctx context.Context) error {
	if h.path == "" {
		<-ctx.Done()
		return nil
	}
	logger := log.WithComponent("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close config watcher")
		}
	}()

	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(h.path)

	// Debounce rapid write bursts from editors and atomic-save renames.
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-reload:
			if err := h.Reload(ctx); err != nil {
				logger.Error().Err(err).Str("path", h.path).Msg("config reload failed, keeping previous config")
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}
