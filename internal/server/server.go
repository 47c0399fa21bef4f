// Package server exposes stored layouts over HTTP.
//
// # Routes
//
//	GET    /healthz
//	GET    /layouts                     list stored layouts (without data)
//	POST   /layouts?id=&name=           store a JSON or TOML document
//	GET    /layouts/{id}                fetch one document
//	PUT    /layouts/{id}                replace (or create) a document
//	DELETE /layouts/{id}
//	POST   /layouts/{id}/frames         lay out and return the frames
//	POST   /layouts/{id}/actions        apply model actions
//	POST   /layouts/{id}/drop           drag a node to a point and drop it
//	POST   /layouts/{id}/split          drag a splitter
//	GET    /layouts/{id}/render.{fmt}   svg, png, json, txt, dot, tree.svg
//
// Errors are answered as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code. Mutations of one document are
// serialized; the model itself is not safe for concurrent use.
//
// Cache keys are scoped per document, and deleting a document evicts its
// cached frames and artifacts when the cache supports prefix deletion.
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

	"github.com/matzehuels/flexdock/pkg/buildinfo"
	"github.com/matzehuels/flexdock/pkg/cache"
	"github.com/matzehuels/flexdock/pkg/observability"
	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Server serves the layout API.
type Server struct {
	store    store.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	locks    docLocks
}

// New creates a server. defaults seeds the frame size and render options
// of requests that do not set them.
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger, defaults pipeline.Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{store: st, runner: runner, logger: logger, defaults: defaults}
}

// docPrefix scopes the cache keys of one stored document.
func docPrefix(id string) string { return "layout:" + id + ":" }

// runnerFor shares the server's cache but scopes its keys to document id.
func (s *Server) runnerFor(id string) *pipeline.Runner {
	return &pipeline.Runner{
		Cache:  s.runner.Cache,
		Keyer:  cache.NewScopedKeyer(s.runner.Keyer, docPrefix(id)),
		Logger: s.runner.Logger,
	}
}

// evict drops the cached entries of document id. Failures are only logged,
// the entries still expire on their own.
func (s *Server) evict(ctx context.Context, id string) {
	pd, ok := s.runner.Cache.(cache.PrefixDeleter)
	if !ok {
		return
	}
	n, err := pd.DeletePrefix(ctx, docPrefix(id))
	if err != nil {
		s.logger.Warn("cache eviction failed", "id", id, "err", err)
		return
	}
	s.logger.Debug("evicted cache entries", "id", id, "count", n)
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handle(s.health))
	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.handle(s.listLayouts))
		r.Post("/", s.handle(s.createLayout))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handle(s.getLayout))
			r.Put("/", s.handle(s.putLayout))
			r.Delete("/", s.handle(s.deleteLayout))
			r.Post("/frames", s.handle(s.frames))
			r.Post("/actions", s.handle(s.actions))
			r.Post("/drop", s.handle(s.drop))
			r.Post("/split", s.handle(s.split))
			r.Get("/render.{format}", s.handle(s.render))
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

// observe logs each request and reports it to the HTTP hooks once the
// route pattern is known.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("Server", buildinfo.UserAgent())
		r.Body = http.MaxBytesReader(ww, r.Body, maxBodyBytes)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, elapsed)

		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		}
		logf("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"id", middleware.GetReqID(r.Context()))
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// handlerFunc is an HTTP handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		observability.HTTP().OnRequest(r.Context(), r.Method, routePattern(r))
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

// =============================================================================
// Per-document locks
// =============================================================================

// docLocks hands out one mutex per document id. Entries are dropped when
// no request holds or waits for them.
type docLocks struct {
	mu    sync.Mutex
	locks map[string]*docLock
}

type docLock struct {
	sync.Mutex
	refs int
}

func (l *docLocks) lock(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*docLock)
	}
	dl, ok := l.locks[id]
	if !ok {
		dl = &docLock{}
		l.locks[id] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.Lock()
	return func() {
		dl.Unlock()
		l.mu.Lock()
		if dl.refs--; dl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
