package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"toolkit24/spark/pkg/config"
	"toolkit24/spark/pkg/kv"
	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/providers/anthropic"
	"toolkit24/spark/pkg/providers/openai"
	"toolkit24/spark/pkg/server"
	"toolkit24/spark/pkg/telemetry/logging"
	"toolkit24/spark/pkg/telemetry/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the server",
	Long: `Start the HTTP server with the configured KV backend, rate
limits, and AI providers. The process runs until it receives SIGINT or
SIGTERM, then shuts down gracefully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if _, err := logging.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	primary, fallback, err := buildProviders(cfg)
	if err != nil {
		return err
	}

	switch {
	case primary != nil:
		slog.Info("AI proxy configured", "provider", "anthropic")
	case fallback != nil:
		slog.Info("AI proxy configured", "provider", "openai")
	default:
		slog.Warn("no AI provider key configured; /ai will return configuration errors")
	}

	collector := metrics.NewCollector(nil)

	srv := server.New(server.Options{
		Config:   cfg,
		Store:    store,
		Primary:  primary,
		Fallback: fallback,
		Metrics:  collector,
		Version:  Version,
	})

	if cfgFile != "" {
		if err := watchConfig(ctx, cfgFile); err != nil {
			slog.Warn("config watching disabled", "error", err)
		}
	}

	return srv.Start(ctx)
}

// buildStore constructs the configured KV backend.
func buildStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.KV.Backend {
	case "sqlite":
		store, err := kv.NewSQLiteStore(cfg.KV.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		slog.Info("kv store opened", "backend", "sqlite", "path", cfg.KV.Path)
		return store, nil
	default:
		slog.Info("kv store opened", "backend", "memory")
		return kv.NewMemoryStore(), nil
	}
}

// buildProviders constructs the configured provider adapters. Either may
// be nil when its key is absent.
func buildProviders(cfg *config.Config) (primary, fallback providers.Provider, err error) {
	if cfg.Providers.Anthropic.APIKey != "" {
		primary, err = anthropic.NewProvider(providers.ProviderConfig{
			Name:    "anthropic",
			APIKey:  cfg.Providers.Anthropic.APIKey,
			BaseURL: cfg.Providers.Anthropic.BaseURL,
			Timeout: cfg.Providers.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize anthropic provider: %w", err)
		}
	}

	if cfg.Providers.OpenAI.APIKey != "" {
		fallback, err = openai.NewProvider(providers.ProviderConfig{
			Name:    "openai",
			APIKey:  cfg.Providers.OpenAI.APIKey,
			BaseURL: cfg.Providers.OpenAI.BaseURL,
			Timeout: cfg.Providers.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize openai provider: %w", err)
		}
	}

	return primary, fallback, nil
}

// watchConfig applies dynamic-safe settings on file change. Listener
// address, store backend, and provider changes still need a restart; the
// log level takes effect immediately.
func watchConfig(ctx context.Context, path string) error {
	watcher, err := config.NewWatcher(path)
	if err != nil {
		return err
	}

	return watcher.Watch(ctx, func(cfg *config.Config) {
		if _, err := logging.Setup(cfg.Logging); err != nil {
			slog.Warn("reloaded logging config rejected", "error", err)
			return
		}
		slog.Info("logging configuration applied",
			"level", cfg.Logging.Level,
			"format", cfg.Logging.Format,
		)
	})
}
