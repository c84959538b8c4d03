package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a demo project",
	Long: `Writes a ready-to-build project: a two-stage kilnfile, the static page
source, a dependency manifest, and the exclusion list.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := scaffold.Run(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Project scaffolded in %s. Try: kiln run --dir %s\n", dir, dir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
