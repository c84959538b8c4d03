package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/internal/presentation/graph"
	"github.com/kilnbuild/kiln/pkg/recipe"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the pipeline as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		rec, err := recipe.Load(projectDir(cmd))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(rec))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
