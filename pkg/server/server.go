// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/logging"
)

// MetadataProvider is the header-deriving component served by the Server.
type MetadataProvider interface {
	Location() string
	Available() bool
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	GetMetadata(ctx context.Context, req exposure.Request) ([]header.Entry, error)
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithName sets the server name reported on the default route.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the server version reported on the default route.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// Server exposes a MetadataProvider over HTTP.
type Server struct {
	config      *Config
	provider    MetadataProvider
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	mu          sync.RWMutex
	ready       bool
}

// New creates a Server for provider.
func New(provider MetadataProvider, opts ...Option) *Server {
	s := &Server{
		config:   NewConfig(),
		provider: provider,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.setupRoutes(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn, false),
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetReady marks the server as ready to serve traffic
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start binds the provider to its instrument, then serves HTTP until ctx is
// cancelled. A provider start failure is returned before listening.
func (s *Server) Start(ctx context.Context) error {
	if err := s.provider.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metadata provider: %w", err)
	}
	s.SetReady(true)

	slog.Info("starting server",
		"address", s.httpServer.Addr,
		"location", s.provider.Location(),
		"available", s.provider.Available(),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.WithoutCancel(ctx))
	case err := <-errChan:
		s.SetReady(false)
		return errors.Join(err, s.provider.Stop(context.WithoutCancel(ctx)))
	}
}

// Shutdown stops accepting requests, drains in-flight ones and releases the
// instrument registration.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	httpErr := s.httpServer.Shutdown(shutdownCtx)
	return errors.Join(httpErr, s.provider.Stop(shutdownCtx))
}

// Run serves until ctx is cancelled or the process receives SIGINT or SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.config
	slog.Info("server config",
		slog.String("name", cfg.Name),
		slog.String("version", cfg.Version),
		slog.String("address", cfg.Addr()),
		slog.Any("rateLimit", cfg.RateLimit),
		slog.Int("rateLimitBurst", cfg.RateLimitBurst),
		slog.Duration("metadataTimeout", cfg.MetadataTimeout),
		slog.Duration("shutdownTimeout", cfg.ShutdownTimeout),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
