// Copyright (c) 2025, Netgauge Authors.  All rights reserved.
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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Server is the exporter's HTTP listener.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	metrics     *httpMetrics

	mu    sync.RWMutex
	ready bool
}

// Option customizes a Server.
type Option func(*serverOptions)

type serverOptions struct {
	config         *Config
	metricsHandler http.Handler
	registerer     prometheus.Registerer
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(o *serverOptions) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// WithName sets the server identity reported on the default route.
func WithName(name string) Option {
	return func(o *serverOptions) {
		o.config.Name = name
	}
}

// WithVersion sets the reported version.
func WithVersion(version string) Option {
	return func(o *serverOptions) {
		o.config.Version = version
	}
}

// WithPort overrides the listen port.
func WithPort(port int) Option {
	return func(o *serverOptions) {
		o.config.Port = port
	}
}

// WithMetricsHandler sets the handler served on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(o *serverOptions) {
		o.metricsHandler = h
	}
}

// WithRegisterer sets where the listener's own RED metrics are registered.
// Without it, they land in a private registry and are effectively dropped.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *serverOptions) {
		o.registerer = r
	}
}

// New creates a Server. The /metrics route returns 404 until
// WithMetricsHandler is provided.
func New(opts ...Option) *Server {
	o := &serverOptions{
		config:     DefaultConfig(),
		registerer: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{
		config:      o.config,
		rateLimiter: rate.NewLimiter(o.config.RateLimit, o.config.RateLimitBurst),
		metrics:     newHTTPMetrics(o.registerer),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", o.config.Address, o.config.Port),
		Handler:      s.routes(o.metricsHandler),
		ReadTimeout:  o.config.ReadTimeout,
		WriteTimeout: o.config.WriteTimeout,
		IdleTimeout:  o.config.IdleTimeout,
	}

	return s
}

// routes wires the handler mux. Probe endpoints skip the middleware chain.
func (s *Server) routes(metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDefault)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)

	if metricsHandler != nil {
		mux.Handle("/metrics", s.withMiddleware(metricsHandler.ServeHTTP))
	}

	return mux
}

// SetReady marks the server as ready to serve scrapes.
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

// Run starts the listener and blocks until ctx is cancelled or the listener
// fails, shutting down gracefully in the former case.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("starting http listener", "addr", s.httpServer.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return fmt.Errorf("http listener: %w", err)
	}
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down http listener")
	return s.httpServer.Shutdown(shutdownCtx)
}
