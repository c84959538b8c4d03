package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "kiln",
	Short: "Kiln is a two-stage build pipeline for static sites",
	Long: `Kiln executes a declarative build recipe (kilnfile.yaml): a build stage
compiles a source tree with external tools, an artifact handoff promotes
only the built assets, and a runtime stage serves them over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project directory containing the kilnfile")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func createLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

func projectDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("dir")
	return dir
}
