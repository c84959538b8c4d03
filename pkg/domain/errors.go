package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the two pipeline failures that are not just an
// external tool exiting non-zero. Both are fatal: the pipeline never
// retries and never promotes a partial result.
var (
	// ErrArtifactMissing is returned when a handoff step references a path
	// the source stage did not produce.
	ErrArtifactMissing = errors.New("artifact missing in source stage")

	// ErrPortUnavailable is returned when the runtime server cannot bind
	// its declared port.
	ErrPortUnavailable = errors.New("port unavailable")
)

// StepError describes a failed recipe step. It wraps the underlying cause
// and carries the captured stderr of the external command, so the tool's
// own diagnostics are surfaced verbatim to the caller.
type StepError struct {
	Stage  string
	Kind   string
	Index  int
	Stderr string
	Err    error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("stage %q: step %d (%s): %v", e.Stage, e.Index, e.Kind, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *StepError) Unwrap() error {
	return e.Err
}
