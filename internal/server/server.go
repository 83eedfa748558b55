// Package server implements the archviz HTTP render service.
//
// Routes:
//
//	GET  /health        liveness plus cache reachability
//	POST /render        description in, image out (?format=svg|png|pdf|dot&engine=native|graphviz)
//	POST /layout        description in, layout JSON out
//	GET  /renders       recent render records (?limit=N)
//	GET  /renders/{id}  one render record
//
// Request bodies are diagram descriptions in JSON, or YAML/TOML with
// ?input=yaml|toml.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archviz/pkg/observability"
	"github.com/matzehuels/archviz/pkg/pipeline"
	"github.com/matzehuels/archviz/pkg/store"
)

// Defaults for Config.
const (
	DefaultAddr         = ":3000"
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// Config holds server settings.
type Config struct {
	Addr         string
	Version      string
	MaxBodyBytes int64

	// Defaults seeds every request's pipeline options before query
	// parameters are applied.
	Defaults pipeline.Options
}

// Pinger is implemented by caches that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the render API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil store keeps history in memory.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, runner: runner, store: st, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Post("/layout", s.handleLayout)
	r.Get("/renders", s.handleListRenders)
	r.Get("/renders/{id}", s.handleGetRender)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "version", s.cfg.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports every request to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
