// Package api provides the HTTP API server for the logbook service.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apidocs "github.com/narvanalabs/logbook/api"
	"github.com/narvanalabs/logbook/internal/api/handlers"
	"github.com/narvanalabs/logbook/internal/api/health"
	"github.com/narvanalabs/logbook/internal/api/middleware"
	"github.com/narvanalabs/logbook/internal/store"
	"github.com/narvanalabs/logbook/pkg/config"
)

// Version is the current version of the API server.
// This should be set at build time using ldflags.
var Version = "dev"

// Server represents the HTTP API server.
type Server struct {
	router        chi.Router
	httpServer    *http.Server
	store         store.LogStore
	config        *config.Config
	logger        *slog.Logger
	healthChecker *health.Checker
}

// NewServer creates a new API server over the given record store.
func NewServer(cfg *config.Config, st store.LogStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:  st,
		config: cfg,
		logger: logger,
	}

	s.healthChecker = health.NewChecker(Version, logger)
	s.healthChecker.Register("store", st)

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.CORS(s.config.CORSOrigins))

	r.Get("/health", s.healthChecker.Handler())

	docsHandler := handlers.NewDocsHandler(apidocs.OpenAPISpec, s.logger)
	r.Get("/api/docs/openapi.yaml", docsHandler.ServeOpenAPISpec)

	logHandler := handlers.NewLogHandler(s.store, handlers.LogHandlerOptions{
		DefaultLimit:      s.config.DefaultPageLimit,
		MaxLimit:          s.config.MaxPageLimit,
		AllowBlankUpdates: s.config.AllowBlankUpdates,
	}, s.logger.With("component", "logs"))

	logRoutes := func(r chi.Router) {
		r.Use(middleware.Latency(s.config.Latency))
		r.Get("/", logHandler.List)
		r.Post("/", logHandler.Create)
		r.Route("/{logID}", func(r chi.Router) {
			r.Get("/", logHandler.Get)
			r.Put("/", logHandler.Update)
			r.Patch("/", logHandler.Update)
			r.Delete("/", logHandler.Delete)
		})
	}

	r.Route("/logs", logRoutes)
	r.Route("/v1", func(r chi.Router) {
		r.Route("/logs", logRoutes)
	})

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	s.router = r
}

// Start starts the HTTP server and blocks until it fails or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until it fails or ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// HTTPServer exposes the underlying server for shutdown coordination.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() chi.Router {
	return s.router
}
