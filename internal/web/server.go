// Package web serves a grid over HTTP. Every request carries the full
// interaction state in its query string, so the server holds no
// per-client state: it builds a fresh view of the shared rows, applies
// the state and returns the RenderModel as JSON.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/source"
)

// Server is the HTTP server for one loaded table.
type Server struct {
	name   string
	rows   []grid.Row[source.Record]
	cols   []grid.Column[source.Record]
	opts   grid.Options[source.Record]
	router *chi.Mux
	log    *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

// NewServer creates a Server over rows and cols. opts are the defaults
// every request starts from; notification callbacks are ignored.
func NewServer(name string, rows []grid.Row[source.Record], cols []grid.Column[source.Record], opts grid.Options[source.Record], logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.OnSort = nil
	opts.OnPageChange = nil
	opts.OnColumnResize = nil
	opts.OnSelectRow = nil
	opts.OnColumnVisibilityChange = nil
	opts.OnFilterChange = nil
	opts.Scheduler = nil
	opts.Logger = logger

	// Validate the schema once so requests cannot fail on it.
	g, err := grid.New(rows, cols, opts)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	g.Close()

	s := &Server{
		name:   name,
		rows:   rows,
		cols:   cols,
		opts:   opts,
		router: chi.NewRouter(),
		log:    logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/model", s.handleModel)
		r.Get("/columns", s.handleColumns)
		r.Get("/columns/{id}/options", s.handleFilterOptions)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.log.Info("starting server", "addr", addr, "table", s.name, "rows", len(s.rows))
	return srv.ListenAndServe()
}

// Shutdown gracefully stops the server. It is a no-op before Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
