// Package process implements the Executor port with local subprocesses.
// This is the only place the pipeline touches the external tools a recipe
// names; everything above it sees an argv, an exit code, and captured
// output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/kilnbuild/kiln/pkg/ports"
)

// Runner executes run steps via os/exec.
type Runner struct {
	baseEnv []string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithBaseEnv appends fixed variables to every command's environment.
func WithBaseEnv(env []string) RunnerOption {
	return func(r *Runner) {
		r.baseEnv = append(r.baseEnv, env...)
	}
}

// NewRunner creates a process-backed Executor.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.Executor = (*Runner)(nil)

// Run executes the command and captures its output. A non-zero exit comes
// back in the result, not the error; the pipeline surfaces the captured
// stderr verbatim so the external tool's diagnostics are not lost.
func (r *Runner) Run(ctx context.Context, command ports.Command) (ports.ExecResult, error) {
	if len(command.Argv) == 0 {
		return ports.ExecResult{}, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, command.Argv[0], command.Argv[1:]...)
	cmd.Dir = command.Dir
	cmd.Env = append(cmd.Environ(), r.baseEnv...)
	cmd.Env = append(cmd.Env, command.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		// Could not start at all (missing binary, cancelled context).
		return result, fmt.Errorf("run %q: %w", command.Argv[0], err)
	}

	return result, nil
}
