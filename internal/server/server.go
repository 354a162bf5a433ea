// Package server exposes hexagon geometry, page sync and rendering over HTTP.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/buildinfo"
	"github.com/matzehuels/hexboard/pkg/pipeline"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

const (
	// DefaultRequestTimeout bounds the work done for a single request.
	DefaultRequestTimeout = 60 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server serves the hexboard API.
type Server struct {
	runner  *pipeline.Runner
	syncer  *board.Syncer
	logger  *log.Logger
	timeout time.Duration
	style   style.Style
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithDefaultStyle sets the style given to unstyled hexagons on render.
func WithDefaultStyle(st style.Style) Option { return func(s *Server) { s.style = st } }

// New builds a Server that renders with runner and stores pages through
// syncer.
func New(runner *pipeline.Runner, syncer *board.Syncer, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		syncer:  syncer,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		timeout: DefaultRequestTimeout,
		style:   style.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/hexagon/points", s.handlePoints)
		r.Post("/hexagon/path", s.handlePath)
		r.Post("/render", s.handleRender)

		r.Get("/boards/{workspace}/pages/{page}", s.handleGetPage)
		r.Put("/boards/{workspace}/pages/{page}", s.handleCreatePage)
		r.Post("/boards/{workspace}/pages/{page}/changes", s.handleChanges)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
