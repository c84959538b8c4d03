package kiln

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	httpAdapter "github.com/kilnbuild/kiln/internal/adapters/http"
	"github.com/kilnbuild/kiln/internal/adapters/process"
	"github.com/kilnbuild/kiln/internal/runtime"
	"github.com/kilnbuild/kiln/pkg/domain"
	"github.com/kilnbuild/kiln/pkg/observability"
	"github.com/kilnbuild/kiln/pkg/ports"
	"github.com/kilnbuild/kiln/pkg/recipe"
)

// Pipeline is the high-level entry point for the kiln library. It wraps the
// internal engine and the runtime server behind a simplified API.
type Pipeline struct {
	recipe    *recipe.Recipe
	dir       string
	executor  ports.Executor
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	workspace string
	owned     string
	metrics   *observability.Metrics
	Name      string
}

// Option defines a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithExecutor injects a custom Executor, bypassing the default process
// runner. Mainly useful for tests.
func WithExecutor(exec ports.Executor) Option {
	return func(p *Pipeline) {
		p.executor = exec
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithWorkspace pins the stage workspace to a fixed directory.
func WithWorkspace(dir string) Option {
	return func(p *Pipeline) {
		p.workspace = dir
	}
}

// WithMetrics wires Prometheus collectors into both the engine hooks and
// the runtime server.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New loads and validates the recipe in dir (kilnfile.yaml by default, or
// the exact file if dir points at one) and prepares a pipeline around it.
func New(dir string, opts ...Option) (*Pipeline, error) {
	rec, err := recipe.Load(dir)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	p := &Pipeline{
		recipe: rec,
		dir:    filepath.Dir(rec.Path),
		Name:   filepath.Base(abs),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.logger = p.logger.With("recipe", p.Name)

	if p.executor == nil {
		p.executor = process.NewRunner()
	}
	if p.metrics != nil {
		p.hooks = p.hooks.Merge(p.metrics.Hooks())
	}

	return p, nil
}

// Recipe returns the loaded recipe for inspection and presentation.
func (p *Pipeline) Recipe() *recipe.Recipe {
	return p.recipe
}

// Build executes every stage and returns the runtime image. Any failure is
// fatal and nothing is promoted. Without WithWorkspace the pipeline creates
// a temp workspace it owns; a rebuild reclaims the previous one, and Close
// removes the last.
func (p *Pipeline) Build(ctx context.Context) (*domain.Image, error) {
	workspace := p.workspace
	if workspace == "" {
		if err := p.Close(); err != nil {
			return nil, err
		}
		ws, err := os.MkdirTemp("", "kiln-*")
		if err != nil {
			return nil, fmt.Errorf("create workspace: %w", err)
		}
		p.owned = ws
		workspace = ws
	}

	eng := runtime.NewEngine(p.executor,
		runtime.WithLogger(p.logger),
		runtime.WithLifecycleHooks(p.hooks),
		runtime.WithWorkspace(workspace),
	)
	img, err := eng.Execute(ctx, p.recipe, p.dir)
	if err != nil {
		p.Close()
		return nil, err
	}
	return img, nil
}

// Close removes the workspace the pipeline created for its last Build.
// A workspace pinned via WithWorkspace belongs to the caller and is left
// alone.
func (p *Pipeline) Close() error {
	if p.owned == "" {
		return nil
	}
	dir := p.owned
	p.owned = ""
	return os.RemoveAll(dir)
}

// Serve runs the runtime stage in the foreground: the image directory is
// exposed on the given port until ctx is cancelled. A port of 0 falls back
// to the image's declared port.
func (p *Pipeline) Serve(ctx context.Context, img *domain.Image, port int) error {
	if port == 0 {
		port = img.Port
	}
	if port == 0 {
		return fmt.Errorf("no port: neither the recipe nor the caller declared one")
	}

	opts := []httpAdapter.ServerOption{httpAdapter.WithLogger(p.logger)}
	if p.metrics != nil {
		opts = append(opts, httpAdapter.WithMetrics(p.metrics))
	}
	return httpAdapter.NewServer(img.Dir, opts...).Serve(ctx, port)
}
