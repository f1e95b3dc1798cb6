// Package server exposes graph sessions over HTTP.
//
// The API is a thin shell around the expand package: a session wraps one
// graph and expander, and every write endpoint maps to exactly one expander
// operation. Wire shapes are documented on the handler methods.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kotomap/kotomap/pkg/catalog"
	"github.com/kotomap/kotomap/pkg/generate"
	"github.com/kotomap/kotomap/pkg/session"
)

// Config assembles a server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Catalog is the domain served to all sessions.
	Catalog *catalog.Catalog

	// Generator produces expansions for every session.
	Generator generate.Generator

	// Store holds live sessions. Nil means a fresh in-memory store.
	Store session.Store

	// SessionTTL is the inactivity timeout for sessions. Zero means
	// session.DefaultTTL.
	SessionTTL time.Duration

	// Logger for request and operational logging. Nil discards.
	Logger *log.Logger
}

// Server serves the kotomap HTTP API.
type Server struct {
	cfg    Config
	store  session.Store
	logger *log.Logger
}

// New creates a server. Catalog and Generator are required.
func New(cfg Config) (*Server, error) {
	if cfg.Catalog == nil || cfg.Generator == nil {
		return nil, errors.New("server requires a catalog and a generator")
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Server{cfg: cfg, store: cfg.Store, logger: cfg.Logger}, nil
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/expand", s.handleStatelessExpand)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Delete("/", s.handleDeleteSession)
				r.Get("/graph", s.handleGetGraph)
				r.Post("/expand", s.handleExpand)
				r.Get("/render", s.handleRender)
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully. A store
// cleanup loop runs alongside when the store supports it.
func (s *Server) Run(ctx context.Context) error {
	if ms, ok := s.store.(*session.MemoryStore); ok {
		ms.StartCleanup(ctx, 10*time.Minute)
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
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

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
