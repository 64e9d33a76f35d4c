// Package server exposes the check and repair pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/check    rules + sequences -> report (valid and repaired sums)
//	POST /v1/reorder  rules + one sequence -> its report entry
//	POST /v1/graph    rules [+ sequence] -> DOT or SVG diagram
//	GET  /healthz     liveness, version and hook counters
//
// Request bodies carry the rule and sequence lines as JSON string arrays.
// When the server is started with a root directory, /v1/check also accepts a
// "path" naming an input file below that root.
//
// Errors are written as JSON problem documents with the error code from
// pkg/errors and an HTTP status derived from it.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/precedence/pkg/observability"
	"github.com/matzehuels/precedence/pkg/pipeline"
)

// Default limits.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultMaxRules     = 10000
	DefaultMaxSequences = 1000
	DefaultMaxBodyBytes = 4 << 20
	DefaultMaxTimeout   = 30 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Addr is the listen address.
	Addr string

	// Root enables file input for /v1/check; paths are resolved below it.
	Root string

	// Request limits; 0 selects the default.
	MaxRules     int
	MaxSequences int
	MaxBodyBytes int64

	// MaxTimeout caps the per-sequence search timeout a client may ask for.
	MaxTimeout time.Duration

	// Defaults are the pipeline options applied when a request leaves a
	// field empty.
	Defaults pipeline.Options
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxRules == 0 {
		c.MaxRules = DefaultMaxRules
	}
	if c.MaxSequences == 0 {
		c.MaxSequences = DefaultMaxSequences
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxTimeout == 0 {
		c.MaxTimeout = DefaultMaxTimeout
	}
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	logger   *log.Logger
	counters *observability.Counters
	router   chi.Router
}

// New creates a server around runner. It registers a fresh set of
// [observability.Counters] as the global hooks; /healthz reports them.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}

	counters := &observability.Counters{}
	observability.SetPipelineHooks(counters)
	observability.SetCacheHooks(counters)
	observability.SetHTTPHooks(counters)

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		logger:   logger,
		counters: counters,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "NOT_FOUND", "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not supported for this endpoint")
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/check", s.handleCheck)
		r.Post("/reorder", s.handleReorder)
		r.Post("/graph", s.handleGraph)
	})

	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
