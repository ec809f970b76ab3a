// Package server is the HTTP host for DAG viewers.
//
// A client creates a viewer, pushes result sets to it with update, tells it
// about container size changes with reflow, and fetches frames as SVG, PNG
// or DOT. Pan, zoom and reset act on the server-side viewport. Viewer state
// lives in a [store.Store]; rendered artifacts in the runner's cache.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/dagviewer/pkg/config"
	"github.com/matzehuels/dagviewer/pkg/pipeline"
	"github.com/matzehuels/dagviewer/pkg/store"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 32 << 20

// Config wires a Server.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Layout is applied to viewers whose host sends no settings.
	Layout config.Options

	// RateLimit is requests per second across all clients; zero disables
	// limiting.
	RateLimit float64
	Burst     int
}

// Server serves the viewer API and pages.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	layout  config.Options
	limiter *rate.Limiter

	// mu serializes load-modify-save cycles on viewer state.
	mu sync.Mutex
}

// New creates a server. Store defaults to memory, runner to an uncached one.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	st := cfg.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	layout := cfg.Layout
	if layout == (config.Options{}) {
		layout = config.Defaults()
	}

	s := &Server{runner: runner, store: st, logger: logger, layout: layout}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/format", s.handleFormat)

		r.Post("/viewers", s.handleCreate)
		r.Route("/viewers/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/update", s.handleUpdate)
			r.Post("/reflow", s.handleReflow)
			r.Post("/zoom", s.handleZoom)
			r.Post("/pan", s.handlePan)
			r.Post("/reset", s.handleReset)
			r.Get("/frame.{format}", s.handleFrame)
		})
	})

	r.Get("/viewers/{id}", s.handlePage)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
