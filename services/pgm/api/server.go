// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package api serves the catalog networks and the structural operations
// over HTTP.
//
// # Endpoints
//
//	GET  /health                      liveness probe
//	GET  /metrics                     Prometheus metrics, when exported
//	GET  /v1/networks                 catalog entries
//	GET  /v1/networks/:name           nodes, links and potentials
//	GET  /v1/networks/:name/order     topological order
//	POST /v1/networks/:name/prune     PruneRequest -> PruneResponse
//	POST /v1/networks/:name/extend    EvidenceRequest -> ExtendResponse
//	POST /v1/networks/:name/project   EvidenceRequest -> ProjectResponse
//
// Every request builds its network from the catalog, so handlers never
// share mutable state.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianPGM/pkg/logging"
	"github.com/AleutianAI/AleutianPGM/pkg/telemetry"
	"github.com/AleutianAI/AleutianPGM/services/pgm/operations"
)

// Config configures the Server.
type Config struct {
	// ServiceName names the otelgin server spans.
	// Default: "pgm"
	ServiceName string

	// RateLimit is the sustained number of /v1 requests per second.
	// Default: 0 (unlimited)
	RateLimit float64

	// Burst is how many /v1 requests may arrive at once above RateLimit.
	// Default: 1
	Burst int

	// ShutdownTimeout bounds the graceful shutdown once the serving context
	// is cancelled.
	// Default: 10s
	ShutdownTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.ServiceName == "" {
		c.ServiceName = "pgm"
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

// Server is the HTTP front end of the operations package.
//
// Thread Safety: Safe for concurrent use once built.
type Server struct {
	cfg    Config
	logger *logging.Logger
	opts   []operations.Option
	engine *gin.Engine
}

// New builds a Server. opts are passed to every operation call; the
// logger is used for request logs only and should also be given to the
// operations with operations.WithLogger when their debug output is wanted.
func New(cfg Config, logger *logging.Logger, opts ...operations.Option) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:    cfg.withDefaults(),
		logger: logger,
		opts:   opts,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(s.cfg.ServiceName))
	r.Use(requestLogger(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h := telemetry.MetricsHandler(); h != nil {
		r.GET("/metrics", gin.WrapH(h))
	}

	v1 := r.Group("/v1")
	if s.cfg.RateLimit > 0 {
		v1.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.Burst)))
	}
	v1.GET("/networks", s.listNetworks)
	v1.GET("/networks/:name", s.getNetwork)
	v1.GET("/networks/:name/order", s.sortNetwork)
	v1.POST("/networks/:name/prune", s.pruneNetwork)
	v1.POST("/networks/:name/extend", s.extendEvidence)
	v1.POST("/networks/:name/project", s.projectPotentials)
	return r
}

// Router returns the gin engine, for tests and for embedding.
func (s *Server) Router() *gin.Engine { return s.engine }

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within Config.ShutdownTimeout.
//
// Errors:
//
//	The listener error if serving stops on its own, or the shutdown error.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("serving", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", ln.Addr(), err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}
