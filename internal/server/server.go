package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logger"
)

// Server represents the HTTP server
type Server struct {
	http *http.Server
	log  *logger.Logger
}

// New creates a server for handler listening on the configured address.
func New(cfg *config.Config, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log.With("component", "Server"),
	}
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start listens and serves until the server is shut down. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	s.log.Info("Starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.http.Shutdown(ctx)
}
