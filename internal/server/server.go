// Package server exposes the scheduler's health and run status over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tknemuru/kindergarten-collecting/internal/logger"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Options configures the status server.
type Options struct {
	Address     string
	ServiceName string
	Version     string
	Checks      map[string]HealthChecker
}

// Server serves GET /health and GET /status.
type Server struct {
	router  *gin.Engine
	server  *http.Server
	tracker *Tracker
	opts    Options
	log     logger.Interface
	started time.Time
}

// New creates a Server. The gin mode is left to the caller.
func New(opts Options, tracker *Tracker, log logger.Interface) *Server {
	router := gin.New()
	router.Use(recoveryMiddleware(log))
	router.Use(loggerMiddleware(log))

	s := &Server{
		router:  router,
		tracker: tracker,
		opts:    opts,
		log:     log,
		started: time.Now(),
	}

	router.GET("/health", s.healthHandler)
	router.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/status", s.statusHandler)

	s.server = &http.Server{
		Addr:         opts.Address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", "timeout", shutdownTimeout)
	//nolint:contextcheck // ctx is already cancelled here
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}
