// Package runtime contains the stage execution engine. It walks the recipe
// strictly in order, gives every stage an isolated directory, and performs
// the one-way artifact handoff between them. There is no retry, no partial
// promotion, and no degraded mode: the first failure aborts the run and the
// workspace is discarded.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	kfs "github.com/kilnbuild/kiln/internal/adapters/fs"
	"github.com/kilnbuild/kiln/pkg/domain"
	"github.com/kilnbuild/kiln/pkg/ports"
	"github.com/kilnbuild/kiln/pkg/recipe"
)

// Engine executes recipes.
type Engine struct {
	exec      ports.Executor
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	workspace string
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithWorkspace pins the stage workspace to a fixed directory instead of a
// fresh temp dir. The caller owns its lifetime.
func WithWorkspace(dir string) EngineOption {
	return func(e *Engine) {
		e.workspace = dir
	}
}

// NewEngine creates an engine around an Executor.
func NewEngine(exec ports.Executor, opts ...EngineOption) *Engine {
	e := &Engine{
		exec:   exec,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every stage of the recipe against the project directory and
// returns the resulting image. On error the engine cleans up any workspace
// it created itself; nothing is promoted.
func (e *Engine) Execute(ctx context.Context, rec *recipe.Recipe, projectDir string) (*domain.Image, error) {
	ignore, err := recipe.LoadIgnore(projectDir)
	if err != nil {
		return nil, err
	}

	workspace := e.workspace
	owned := false
	if workspace == "" {
		workspace, err = os.MkdirTemp("", "kiln-*")
		if err != nil {
			return nil, fmt.Errorf("create workspace: %w", err)
		}
		owned = true
	}

	img, err := e.executeStages(ctx, rec, projectDir, workspace, ignore)
	if err != nil {
		if owned {
			os.RemoveAll(workspace)
		}
		return nil, err
	}
	return img, nil
}

func (e *Engine) executeStages(ctx context.Context, rec *recipe.Recipe, projectDir, workspace string, ignore *recipe.Ignore) (*domain.Image, error) {
	stageDirs := make(map[string]string, len(rec.Stages))
	img := &domain.Image{}

	for si, stage := range rec.Stages {
		stageDir := filepath.Join(workspace, fmt.Sprintf("%02d-%s", si, stage.Name))
		if err := os.MkdirAll(stageDir, 0o755); err != nil {
			return nil, fmt.Errorf("stage %q: %w", stage.Name, err)
		}
		stageDirs[stage.Name] = stageDir

		stageEvent := &domain.StageEvent{Stage: stage.Name, Index: si}
		if e.hooks.OnStageStart != nil {
			e.hooks.OnStageStart(ctx, stageEvent)
		}
		e.logger.Info("stage started", "stage", stage.Name, "index", si)

		start := time.Now()
		err := e.executeSteps(ctx, stage, stageDir, projectDir, stageDirs, ignore, img, si == len(rec.Stages)-1)
		stageEvent.Duration = time.Since(start)
		stageEvent.Err = err

		if e.hooks.OnStageEnd != nil {
			e.hooks.OnStageEnd(ctx, stageEvent)
		}
		if err != nil {
			e.logger.Error("stage failed", "stage", stage.Name, "err", err)
			return nil, err
		}
		e.logger.Info("stage finished", "stage", stage.Name, "duration", stageEvent.Duration)
	}

	img.Dir = stageDirs[rec.Final().Name]
	return img, nil
}

func (e *Engine) executeSteps(ctx context.Context, stage recipe.Stage, stageDir, projectDir string, stageDirs map[string]string, ignore *recipe.Ignore, img *domain.Image, final bool) error {
	workdir := stageDir

	for pi, step := range stage.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		event := &domain.StepEvent{Stage: stage.Name, Kind: step.Kind(), Index: pi}
		if e.hooks.OnStepStart != nil {
			e.hooks.OnStepStart(ctx, event)
		}

		start := time.Now()
		err := e.executeStep(ctx, step, stage.Name, stageDir, &workdir, projectDir, stageDirs, ignore, img, final)
		event.Duration = time.Since(start)
		event.Err = err

		if e.hooks.OnStepEnd != nil {
			e.hooks.OnStepEnd(ctx, event)
		}
		if err != nil {
			var stepErr *domain.StepError
			if errors.As(err, &stepErr) {
				stepErr.Index = pi
				return stepErr
			}
			return &domain.StepError{Stage: stage.Name, Kind: step.Kind(), Index: pi, Err: err}
		}
	}
	return nil
}

func (e *Engine) executeStep(ctx context.Context, step recipe.Step, stageName, stageDir string, workdir *string, projectDir string, stageDirs map[string]string, ignore *recipe.Ignore, img *domain.Image, final bool) error {
	switch s := step.(type) {
	case recipe.WorkdirStep:
		*workdir = resolve(stageDir, *workdir, s.Path)
		return os.MkdirAll(*workdir, 0o755)

	case recipe.CopyStep:
		dest := resolve(stageDir, *workdir, s.Dest)
		if s.From == "" {
			// Host context copy: the exclusion list keeps dependency trees,
			// prior output and VCS metadata out of the stage.
			src := filepath.Join(projectDir, filepath.FromSlash(strings.TrimPrefix(s.Src, "/")))
			e.logger.Debug("copying context", "stage", stageName, "src", s.Src, "dest", s.Dest)
			return kfs.CopyTree(src, dest, ignore)
		}

		// Artifact handoff: only the named path leaves the source stage.
		src := resolve(stageDirs[s.From], stageDirs[s.From], s.Src)
		if !kfs.Exists(src) {
			return fmt.Errorf("%w: stage %q has no %q", domain.ErrArtifactMissing, s.From, s.Src)
		}
		e.logger.Debug("artifact handoff", "from", s.From, "src", s.Src, "dest", s.Dest)
		return kfs.CopyTree(src, dest, nil)

	case recipe.RunStep:
		e.logger.Info("running", "stage", stageName, "command", strings.Join(s.Command, " "))
		res, err := e.exec.Run(ctx, ports.Command{
			Argv: s.Command,
			Dir:  *workdir,
			Env:  []string{"KILN_STAGE=" + stageName},
		})
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return &domain.StepError{
				Stage:  stageName,
				Kind:   "run",
				Stderr: res.Stderr,
				Err:    fmt.Errorf("%q exited with code %d", s.Command[0], res.ExitCode),
			}
		}
		return nil

	case recipe.ExposeStep:
		if final {
			img.Port = s.Port
		}
		return nil

	case recipe.EntrypointStep:
		img.Entrypoint = s.Command
		return nil

	default:
		return fmt.Errorf("unknown step type %T", step)
	}
}

// resolve maps a recipe path into the stage filesystem. A leading slash
// addresses the stage root; anything else is relative to the current
// working context. The result never escapes the stage directory.
func resolve(stageDir, workdir, path string) string {
	path = filepath.ToSlash(path)
	base := workdir
	if strings.HasPrefix(path, "/") {
		base = stageDir
		path = strings.TrimPrefix(path, "/")
	}
	root := filepath.Clean(stageDir)
	cleaned := filepath.Clean(filepath.Join(base, filepath.FromSlash(path)))
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return root
	}
	return cleaned
}
