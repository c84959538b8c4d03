// Package ports declares the driven-side interfaces of the pipeline and a
// reusable contract test for implementations.
package ports

import "context"

// Command is one external invocation requested by a run step.
type Command struct {
	// Argv is the program and its arguments. The pipeline treats the
	// program as an opaque executable; no shell is implied.
	Argv []string

	// Dir is the working directory (the stage's working context).
	Dir string

	// Env is appended to the inherited process environment.
	Env []string
}

// ExecResult captures the observable outcome of a command.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Executor runs external commands. A non-zero exit is reported through
// ExitCode with a nil error; the error return is reserved for failures to
// run at all (missing binary, cancelled context). Callers treat both as
// fatal; the distinction only controls what diagnostics are available.
type Executor interface {
	Run(ctx context.Context, cmd Command) (ExecResult, error)
}
