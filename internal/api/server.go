package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"critique/internal/logging"
)

// Server hosts the router on a TCP address.
type Server struct {
	bind     string
	logger   *slog.Logger
	server   *http.Server
	listener net.Listener
}

// NewServer wraps handler for bind.
func NewServer(bind string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api"),
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      5 * time.Minute,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.logger.Info("api listening", logging.String("addr", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}
