package runtime

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	kfs "github.com/kilnbuild/kiln/internal/adapters/fs"
	"github.com/kilnbuild/kiln/pkg/domain"
	"github.com/kilnbuild/kiln/pkg/ports"
	"github.com/kilnbuild/kiln/pkg/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor plays the external package manager and bundler without
// touching a registry: "install" drops a dependency tree, "bundle" compiles
// site/ into dist/.
type stubExecutor struct {
	calls []string
	fail  string // command name that should exit non-zero
}

func (s *stubExecutor) Run(_ context.Context, cmd ports.Command) (ports.ExecResult, error) {
	name := cmd.Argv[0]
	s.calls = append(s.calls, name)

	if name == s.fail {
		return ports.ExecResult{ExitCode: 1, Stderr: "stub: " + name + " failed"}, nil
	}

	switch name {
	case "install":
		if err := os.MkdirAll(filepath.Join(cmd.Dir, "node_modules", "leftpad"), 0o755); err != nil {
			return ports.ExecResult{}, err
		}
	case "bundle":
		site := filepath.Join(cmd.Dir, "site")
		dist := filepath.Join(cmd.Dir, "dist")
		if err := kfs.CopyTree(site, dist, nil); err != nil {
			return ports.ExecResult{}, err
		}
	}
	return ports.ExecResult{}, nil
}

func demoRecipe() *recipe.Recipe {
	return &recipe.Recipe{
		Stages: []recipe.Stage{
			{
				Name: "build",
				Steps: []recipe.Step{
					recipe.WorkdirStep{Path: "/src"},
					recipe.CopyStep{Src: ".", Dest: "."},
					recipe.RunStep{Command: []string{"install"}},
					recipe.RunStep{Command: []string{"bundle"}},
				},
			},
			{
				Name: "runtime",
				Steps: []recipe.Step{
					recipe.CopyStep{From: "build", Src: "/src/dist", Dest: "."},
					recipe.ExposeStep{Port: 8080},
					recipe.EntrypointStep{Command: []string{"kiln", "serve"}},
				},
			},
		},
	}
}

func demoProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "site"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site", "index.html"), []byte("<h1>two stages</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))
	return dir
}

func TestExecuteProducesImage(t *testing.T) {
	// 1. Project with a source tree and a manifest
	project := demoProject(t)
	rec := demoRecipe()
	require.NoError(t, rec.Validate())

	// 2. Execute both stages
	stub := &stubExecutor{}
	eng := NewEngine(stub, WithWorkspace(t.TempDir()))

	img, err := eng.Execute(context.Background(), rec, project)
	require.NoError(t, err)

	// 3. The artifact is non-empty and contains the entry document
	assert.True(t, kfs.Exists(filepath.Join(img.Dir, "index.html")))
	assert.Equal(t, 8080, img.Port)
	assert.Equal(t, []string{"kiln", "serve"}, img.Entrypoint)
	assert.Equal(t, []string{"install", "bundle"}, stub.calls)
}

func TestRuntimeStageIsolation(t *testing.T) {
	// The handoff must carry only the built assets: no dependency tree, no
	// manifest, no source files.
	project := demoProject(t)
	eng := NewEngine(&stubExecutor{}, WithWorkspace(t.TempDir()))

	img, err := eng.Execute(context.Background(), demoRecipe(), project)
	require.NoError(t, err)

	assert.False(t, kfs.Exists(filepath.Join(img.Dir, "node_modules")))
	assert.False(t, kfs.Exists(filepath.Join(img.Dir, "package.json")))
	assert.False(t, kfs.Exists(filepath.Join(img.Dir, "site")))
}

func TestFailedRunStepAbortsPipeline(t *testing.T) {
	project := demoProject(t)
	stub := &stubExecutor{fail: "install"}
	eng := NewEngine(stub, WithWorkspace(t.TempDir()))

	img, err := eng.Execute(context.Background(), demoRecipe(), project)
	require.Error(t, err)
	assert.Nil(t, img, "no partial output may be promoted")

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "build", stepErr.Stage)
	assert.Contains(t, stepErr.Error(), "install failed", "external stderr is surfaced verbatim")

	// The bundler never ran: the failure was fatal, not skipped over.
	assert.Equal(t, []string{"install"}, stub.calls)
}

func TestMissingArtifactIsFatal(t *testing.T) {
	project := demoProject(t)
	rec := demoRecipe()
	// Break the handoff: the build stage never produces this path.
	rec.Stages[1].Steps[0] = recipe.CopyStep{From: "build", Src: "/src/missing", Dest: "."}

	eng := NewEngine(&stubExecutor{}, WithWorkspace(t.TempDir()))
	_, err := eng.Execute(context.Background(), rec, project)
	assert.ErrorIs(t, err, domain.ErrArtifactMissing)
}

func TestContextCopyHonorsIgnore(t *testing.T) {
	project := demoProject(t)
	// A stale dependency tree on the host must not enter the build context.
	require.NoError(t, os.MkdirAll(filepath.Join(project, "node_modules", "stale"), 0o755))

	ws := t.TempDir()
	eng := NewEngine(&stubExecutor{}, WithWorkspace(ws))
	_, err := eng.Execute(context.Background(), demoRecipe(), project)
	require.NoError(t, err)

	// The stage's own install output exists, the host's tree was excluded.
	assert.False(t, kfs.Exists(filepath.Join(ws, "00-build", "src", "node_modules", "stale")))
	assert.True(t, kfs.Exists(filepath.Join(ws, "00-build", "src", "node_modules", "leftpad")))
}

func TestLifecycleHooksFire(t *testing.T) {
	project := demoProject(t)

	var stages, steps []string
	hooks := domain.LifecycleHooks{
		OnStageEnd: func(_ context.Context, e *domain.StageEvent) { stages = append(stages, e.Stage) },
		OnStepEnd:  func(_ context.Context, e *domain.StepEvent) { steps = append(steps, e.Kind) },
	}

	eng := NewEngine(&stubExecutor{}, WithWorkspace(t.TempDir()), WithLifecycleHooks(hooks))
	_, err := eng.Execute(context.Background(), demoRecipe(), project)
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "runtime"}, stages)
	assert.Equal(t, []string{"workdir", "copy", "run", "run", "copy", "expose", "entrypoint"}, steps)
}

func TestResolveStaysInsideStage(t *testing.T) {
	ws := t.TempDir()
	stage := filepath.Join(ws, "00-build")
	// A sibling sharing the name as a prefix must not be reachable.
	sibling := filepath.Join(ws, "00-build-x")

	assert.Equal(t, filepath.Join(stage, "src"), resolve(stage, stage, "/src"))
	assert.Equal(t, filepath.Join(stage, "src", "dist"), resolve(stage, filepath.Join(stage, "src"), "dist"))

	assert.Equal(t, stage, resolve(stage, stage, "/.."))
	assert.Equal(t, stage, resolve(stage, stage, "../00-build-x"))
	assert.NotEqual(t, sibling, resolve(stage, stage, "../00-build-x"))
	assert.Equal(t, stage, resolve(stage, filepath.Join(stage, "src"), "../../../etc"))
}

func TestCancelledContextStopsExecution(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewEngine(&stubExecutor{}, WithWorkspace(t.TempDir()))
	_, err := eng.Execute(ctx, demoRecipe(), demoProject(t))
	assert.ErrorIs(t, err, context.Canceled)
}
