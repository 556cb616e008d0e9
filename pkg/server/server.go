// Package server assembles the HTTP server: routes, middleware chain,
// and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"toolkit24/spark/pkg/config"
	"toolkit24/spark/pkg/kv"
	"toolkit24/spark/pkg/limits/ratelimit"
	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy/handlers"
	"toolkit24/spark/pkg/proxy/middleware"
	"toolkit24/spark/pkg/telemetry/metrics"
)

// Server is the toolkit backend HTTP server.
type Server struct {
	config  *config.Config
	store   kv.Store
	metrics *metrics.Collector
	version string

	primary  providers.Provider
	fallback providers.Provider

	kvLimiter *ratelimit.FixedWindowLimiter
	aiLimiter *ratelimit.FixedWindowLimiter
	sweeper   *ratelimit.Sweeper

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// Options carries the dependencies the server does not build itself.
type Options struct {
	Config   *config.Config
	Store    kv.Store
	Primary  providers.Provider
	Fallback providers.Provider
	Metrics  *metrics.Collector
	Version  string
}

// New creates a server with its limiters and sweeper wired up.
func New(opts Options) *Server {
	kvLimiter := ratelimit.NewFixedWindowLimiter(ratelimit.Config{
		Window:      opts.Config.RateLimit.KV.Window,
		MaxRequests: opts.Config.RateLimit.KV.MaxRequests,
	})
	aiLimiter := ratelimit.NewFixedWindowLimiter(ratelimit.Config{
		Window:      opts.Config.RateLimit.AI.Window,
		MaxRequests: opts.Config.RateLimit.AI.MaxRequests,
	})

	sweeper := ratelimit.NewSweeper(opts.Config.RateLimit.SweepSchedule)
	sweeper.Register("kv", kvLimiter)
	sweeper.Register("ai", aiLimiter)

	return &Server{
		config:    opts.Config,
		store:     opts.Store,
		metrics:   opts.Metrics,
		version:   opts.Version,
		primary:   opts.Primary,
		fallback:  opts.Fallback,
		kvLimiter: kvLimiter,
		aiLimiter: aiLimiter,
		sweeper:   sweeper,
	}
}

// Handler builds the full route tree with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	kvHandler := handlers.NewKVHandler(s.store, s.metrics)
	chatHandler := handlers.NewChatHandler(s.primary, s.fallback, s.metrics,
		s.config.Server.Mode == config.ModeDevelopment)
	healthHandler := handlers.NewHealthHandler(s.store, s.configuredProviders(), s.version)

	kvLimit := middleware.RateLimit(s.kvLimiter, "kv", s.metrics)
	aiLimit := middleware.RateLimit(s.aiLimiter, "ai", s.metrics)
	kvTimeout := middleware.Timeout(s.config.Server.ReadTimeout)

	// The AI route carries no request deadline here: streams may outlive
	// it, and the provider client enforces its own upstream timeout.
	mux.Handle("/kv", kvLimit(kvTimeout(http.HandlerFunc(kvHandler.HandleCollection))))
	mux.Handle("/kv/{key}", kvLimit(kvTimeout(http.HandlerFunc(kvHandler.HandleItem))))
	mux.Handle("/ai", aiLimit(chatHandler))

	mux.HandleFunc("/healthz", healthHandler.Healthz)
	mux.HandleFunc("/ready", healthHandler.Ready)

	if s.config.Metrics.Enabled && s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	// Outermost first: recovery wraps everything, logging sees the final
	// status, request IDs are available to all inner layers.
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(s.metrics)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// configuredProviders returns the non-nil providers for health reporting.
func (s *Server) configuredProviders() []providers.Provider {
	var provs []providers.Provider
	if s.primary != nil {
		provs = append(provs, s.primary)
	}
	if s.fallback != nil {
		provs = append(provs, s.fallback)
	}
	return provs
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start rate limit sweeper: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"address", s.config.Server.ListenAddress,
			"kv_backend", s.config.KV.Backend,
			"metrics_enabled", s.config.Metrics.Enabled,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, the sweeper, the providers,
// and the store.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.isRunning
		s.isRunning = false
		s.mu.Unlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				shutdownErr = fmt.Errorf("http shutdown failed: %w", err)
			}
		}

		s.sweeper.Stop()

		for _, p := range s.configuredProviders() {
			if err := p.Close(); err != nil {
				slog.Warn("provider close failed", "provider", p.GetName(), "error", err)
			}
		}

		if err := s.store.Close(); err != nil {
			slog.Warn("store close failed", "error", err)
		}

		slog.Info("shutdown complete")
	})

	return shutdownErr
}
