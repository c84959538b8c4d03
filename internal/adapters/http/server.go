// Package http is the runtime stage: a static file server for the built
// asset directory. It has exactly one operating mode, serving, from start
// until the context is cancelled. Requests map to files; there is no other
// routing, no authentication, and nothing is ever written.
package http

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kilnbuild/kiln/pkg/domain"
	"github.com/kilnbuild/kiln/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// Server serves one immutable directory over HTTP.
type Server struct {
	dir     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus collectors and mounts /metrics.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a static file server for dir.
func NewServer(dir string, opts ...ServerOption) *Server {
	s := &Server{
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router: health probe, optional metrics, and a
// catch-all file handler. A missing or empty asset directory is not a
// startup error; requests simply resolve to 404.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Handle("/*", http.FileServer(assetFS{http.Dir(s.dir)}))
	return r
}

// assetFS serves files only. A directory resolves to its index.html or not
// at all; there are no listings, so a missing or empty asset directory
// answers every request with not found.
type assetFS struct {
	fs http.FileSystem
}

func (a assetFS) Open(name string) (http.File, error) {
	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := a.fs.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, fs.ErrNotExist
		}
		index.Close()
	}
	return f, nil
}

// Serve binds the port and serves until ctx is cancelled, then shuts down
// gracefully. Binding happens before anything else so an occupied port
// fails the start outright instead of surfacing later.
func (s *Server) Serve(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPortUnavailable, err)
	}

	srv := &http.Server{Handler: s.Handler()}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("serving static assets", "dir", s.dir, "addr", addr)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", "reason", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return srv.Close()
		}
		return nil
	}
}

// observe logs every request and feeds the request metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
		if s.metrics != nil {
			s.metrics.ObserveRequest(r.Method, rec.status, elapsed)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
