// Package server exposes the rendering pipeline over HTTP.
//
// The API is read-only: it lists the algorithm catalog, serves precomputed
// trace sequences from a store, and renders individual frames or full
// animations on demand (cached through the pipeline runner). It binds
// whatever address the caller passes and performs no authentication; put a
// proxy in front for anything beyond local use.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stepmotion/pkg/catalog"
	"github.com/matzehuels/stepmotion/pkg/pipeline"
	"github.com/matzehuels/stepmotion/pkg/store"
)

const (
	// shutdownTimeout bounds how long a graceful shutdown waits for
	// in-flight requests.
	shutdownTimeout = 10 * time.Second

	// requestTimeout bounds a single request, including GIF encoding.
	requestTimeout = 60 * time.Second
)

// Server serves the stepmotion HTTP API.
type Server struct {
	store   store.Store
	catalog *catalog.Catalog
	runner  *pipeline.Runner
	logger  *log.Logger
	router  chi.Router
}

// New assembles a server. A nil catalog falls back to the embedded default;
// a nil runner gets a cacheless default; the store is required since every
// rendering route reads sequences from it.
func New(st store.Store, cat *catalog.Catalog, runner *pipeline.Runner, logger *log.Logger) *Server {
	if cat == nil {
		cat = catalog.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:   st,
		catalog: cat,
		runner:  runner,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/algorithms", s.handleListAlgorithms)
		r.Route("/algorithms/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetAlgorithm)
			r.Get("/steps", s.handleGetSteps)
			r.Get("/frames/{step}", s.handleGetFrame)
			r.Get("/animation.gif", s.handleGetAnimation)
		})
	})
	return r
}

// Handler returns the HTTP handler, mostly for tests via httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
