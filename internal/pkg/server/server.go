// Package server exposes the report pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/report"
)

const shutdownTimeout = 10 * time.Second

// GenerateFunc produces one report and returns its summary.
type GenerateFunc func(ctx context.Context) (report.Summary, error)

type Options struct {
	Generate GenerateFunc
	// JWTSecret enables bearer token auth on the API when set.
	JWTSecret string
}

// Server runs report generations on request, one at a time.
type Server struct {
	opts Options

	// mu is held for writing by a generation and for reading by downloads
	mu     sync.RWMutex
	latest *report.Summary
}

func New(opts Options) *Server {
	return &Server{opts: opts}
}

// Router builds the gin engine serving the API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)

	api := r.Group("/api/v1")
	if s.opts.JWTSecret != "" {
		api.Use(BearerAuth([]byte(s.opts.JWTSecret)))
	}
	api.POST("/reports", s.createReport)
	api.GET("/reports/latest", s.latestReport)

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("ambr server is up and running on %s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Infoln("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
