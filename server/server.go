/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes proto review over HTTP: structured and raw review
// endpoints plus provider discovery and health. Authorization by AD group
// membership is optional and enabled via ALLOWED_AD_GROUPS.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"

	"protoreview.dev/reviewer/tools"
)

// Config holds the server's environment configuration.
type Config struct {
	Host string `env:"HOST, default=0.0.0.0"`
	Port int    `env:"PORT, default=8000"`

	// AllowedADGroups enables AD group authorization when non-empty.
	// Comma-separated in the environment.
	AllowedADGroups []string `env:"ALLOWED_AD_GROUPS"`
}

// NewConfig reads the server configuration from the environment.
func NewConfig(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}

// Server wraps an http.Server with graceful shutdown.
type Server struct {
	server *http.Server
}

// New builds a Server routing reviews through the given tool registry.
func New(cfg Config, registry *tools.Registry) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      NewRouter(cfg, registry),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start serves until the context is canceled, then drains in-flight
// requests before returning.
func (s *Server) Start(ctx context.Context) error {
	log := clog.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("starting HTTP server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serving: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infof("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
