package main

import (
	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln"
	"github.com/kilnbuild/kiln/pkg/observability"
)

// newPipeline wires a pipeline from the shared flags: project dir, logger,
// metrics, and an optional fixed workspace.
func newPipeline(cmd *cobra.Command, workspace string) (*kiln.Pipeline, error) {
	opts := []kiln.Option{
		kiln.WithLogger(createLogger(cmd)),
		kiln.WithMetrics(observability.NewMetrics()),
	}
	if workspace != "" {
		opts = append(opts, kiln.WithWorkspace(workspace))
	}
	return kiln.New(projectDir(cmd), opts...)
}
