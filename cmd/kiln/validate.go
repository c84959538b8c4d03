package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/pkg/recipe"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the kilnfile for consistency",
	Long: `Loads the recipe and checks its structural invariants: stage names,
handoff references, port ranges, entrypoint placement. Nothing is executed.`,
	Run: func(cmd *cobra.Command, args []string) {
		rec, err := recipe.Load(projectDir(cmd))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Recipe is valid: %d stages ✅\n", len(rec.Stages))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
