package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumematch/internal/cache"
	"resumematch/internal/observability"
	"resumematch/internal/validator"
)

// Start runs the HTTP server until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	if err := s.initializeCache(ctx); err != nil {
		return err
	}
	defer s.closeCache()

	watcher, err := s.startVocabularyWatcher()
	if err != nil {
		return err
	}
	if watcher != nil {
		defer func() {
			if err := watcher.Stop(); err != nil {
				s.Logger.LogError(err, "Failed to stop vocabulary watcher")
			}
		}()
	}

	httpServer := s.setupHTTPServer(om)

	if err := s.configureTLS(httpServer); err != nil {
		return err
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.FromConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// initializeCache connects the configured analysis cache unless one was injected
func (s *Server) initializeCache(ctx context.Context) error {
	if s.Cache != nil {
		return nil
	}

	c, err := cache.New(ctx, s.AppConfig.Cache, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis cache: %w", err)
	}
	s.Cache = c
	return nil
}

func (s *Server) closeCache() {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Close(); err != nil {
		s.Logger.LogError(err, "Failed to close analysis cache")
	}
}

// startVocabularyWatcher hot-reloads the validator vocabulary when configured to
func (s *Server) startVocabularyWatcher() (*validator.VocabularyWatcher, error) {
	cfg := s.AppConfig.Validator
	if !cfg.Watch || cfg.VocabularyFile == "" {
		return nil, nil
	}

	watcher := validator.NewVocabularyWatcher(cfg.VocabularyFile, s.Validator, cfg.DebounceDelay, s.Logger)
	if err := watcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start vocabulary watcher: %w", err)
	}
	return watcher, nil
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:           s.Handler(om),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}
}

// startWithGracefulShutdown serves until ctx is done or the listener fails
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			// Certificates are already loaded into TLSConfig
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		s.cleanupRateLimiter()
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"cause", context.Cause(ctx).Error())

		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
