// Package server exposes the advisory workflow over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stratagem-io/stratagem/advisor"
	"github.com/stratagem-io/stratagem/briefs"
	"github.com/stratagem-io/stratagem/intel"
	"github.com/stratagem-io/stratagem/model"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// Server wires the session store, analysis engine, and supporting
// services into HTTP handlers.
type Server struct {
	addr     string
	sessions *advisor.Store
	engine   *advisor.Engine
	registry *model.Registry
	intel    *intel.Service
	briefs   *briefs.Library
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithIntel attaches the market-intel service.
func WithIntel(svc *intel.Service) Option {
	return func(s *Server) {
		s.intel = svc
	}
}

// WithBriefs attaches the supporting-documents library.
func WithBriefs(lib *briefs.Library) Option {
	return func(s *Server) {
		s.briefs = lib
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server around an engine and a model allow-list.
func New(addr string, engine *advisor.Engine, registry *model.Registry, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		sessions: advisor.NewStore(),
		engine:   engine,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/sessions/{id}/select", s.handleSelect)
	mux.HandleFunc("POST /api/sessions/{id}/details/{kind}", s.handleDetail)
	mux.HandleFunc("POST /api/sessions/{id}/summary", s.handleSummary)
	mux.HandleFunc("POST /api/sessions/{id}/intel", s.handleIntel)
	mux.HandleFunc("GET /api/sessions/{id}/export", s.handleExport)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/briefs", s.handleBriefs)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
