package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/internal/presentation/docs"
	"github.com/kilnbuild/kiln/internal/presentation/tui"
	"github.com/kilnbuild/kiln/pkg/recipe"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Describe the build technique the kilnfile encodes",
	Long: `Renders the recipe as prose: the same ordered steps the engine executes,
explained. Output is styled when stdout is a terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		rec, err := recipe.Load(projectDir(cmd))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		markdown := docs.Describe(rec)
		rendered, err := tui.NewRenderer()(markdown)
		if err != nil {
			rendered = markdown
		}
		fmt.Print(rendered)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
