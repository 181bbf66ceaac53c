// Package api exposes snapshot extraction over HTTP. The server fetches
// nothing itself: clients post saved page markup and receive the extracted
// records back as JSON or CSV.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/hotscan/internal/config"
	"github.com/user/hotscan/internal/extract"
	"github.com/user/hotscan/internal/monitoring"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	scanner    *extract.Scanner
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, scanner *extract.Scanner, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:  cfg,
		scanner: scanner,
		metrics: m,
		logger:  l,
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the configured route tree.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
