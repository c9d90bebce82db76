// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charserve/charserve/internal/api"
	"github.com/charserve/charserve/internal/config"
	"github.com/charserve/charserve/internal/daemon"
	cslog "github.com/charserve/charserve/internal/log"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	cslog.Configure(cslog.Config{
		Level:   "info",
		Service: "charserve",
		Version: version,
	})

	logger := cslog.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration with precedence: ENV > file > defaults
	loader := config.NewLoader(*configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	// Re-configure logger with loaded configuration
	cslog.Configure(cslog.Config{
		Level:   cfg.LogLevel,
		Service: "charserve",
		Version: version,
	})
	logger = cslog.WithComponent("main")

	if *configPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", *configPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Str("root", cfg.RootDir).
		Msg("starting charserve")

	if cfg.MetricsEnabled {
		logger.Info().Msgf("→ Metrics: %s", cfg.MetricsAddr)
	}
	if cfg.RateLimitEnabled {
		logger.Info().Msgf("→ Rate limit: %d requests per %s", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.TracingService != "" {
		logger.Info().Msgf("→ Tracing: %s", cfg.TracingService)
	}

	// Hot reload support: watch the config file and honor SIGHUP.
	holder := config.NewHolder(cfg, loader, *configPath)
	if *configPath != "" {
		go func() {
			if err := holder.Watch(ctx); err != nil {
				logger.Warn().Err(err).Msg("config watcher stopped")
			}
		}()

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-hup:
					if err := holder.Reload(ctx); err != nil {
						logger.Error().Err(err).Msg("SIGHUP config reload failed")
					}
				}
			}
		}()
	}

	s := api.New(cfg)

	deps := daemon.Deps{
		Logger:      logger,
		FileHandler: s.Handler(),
	}
	if cfg.MetricsEnabled {
		deps.MetricsHandler = promhttp.Handler()
		deps.MetricsAddr = cfg.MetricsAddr
	}

	mgr, err := daemon.NewManager(config.ParseServerConfig(cfg), deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	mgr.OnReady(func(addr net.Addr) {
		port := 0
		if tcp, ok := addr.(*net.TCPAddr); ok {
			port = tcp.Port
		}
		fmt.Printf("Serving at port %d\n", port)
	})

	// Blocks until signal or server failure
	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon manager failed")
	}

	logger.Info().Msg("server exiting")
}
