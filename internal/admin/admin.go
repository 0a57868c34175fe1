// Tideland Go Workpool - Admin Endpoint
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tideland.dev/go/workpool/metrics"
)

// Server provides health, statistics, and metrics of a pool via HTTP.
type Server struct {
	source   metrics.StatsSource
	registry *prometheus.Registry
	srv      *http.Server
	logger   *zap.Logger
}

// New creates the admin server for the given statistics source.
func New(address string, source metrics.StatsSource) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		source:   source,
		registry: prometheus.NewRegistry(),
		logger:   zap.L().Named("admin"),
	}
	s.registry.MustRegister(
		metrics.NewCollector(source),
		collectors.NewGoCollector(),
	)

	router := gin.New()
	router.Use(
		ginzap.Ginzap(s.logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(s.logger, true),
	)
	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.GET("/stats", s.stats)

	s.srv = &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until Stop is called. It only returns an error if
// serving failed.
func (s *Server) Start() error {
	s.logger.Info("starting admin endpoint", zap.String("address", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting for running requests until
// the context is done.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping admin endpoint")
	return s.srv.Shutdown(ctx)
}

// health reports if the pool has workers left.
// (GET /healthz)
func (s *Server) health(c *gin.Context) {
	stats := s.source.Stats()
	if stats.Alive == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no workers alive", "pool": stats.Name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "pool": stats.Name})
}

// stats returns the current pool statistics.
// (GET /api/v1/stats)
func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.source.Stats())
}

// EOF
