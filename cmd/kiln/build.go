package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/internal/adapters/fs"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Execute the recipe and produce the runtime image",
	Long: `Runs every stage of the kilnfile in order. On success the final stage
directory, the runtime image, is printed. On any failure nothing is
produced.`,
	Run: func(cmd *cobra.Command, args []string) {
		workspace, _ := cmd.Flags().GetString("workspace")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(cmd, workspace)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading recipe: %v\n", err)
			os.Exit(1)
		}

		img, err := p.Build(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Image ready: %s (%d entries)\n", img.Dir, fs.EntryCount(img.Dir))
		if img.Port != 0 {
			fmt.Printf("Declared port: %d\n", img.Port)
		}
		if len(img.Entrypoint) > 0 {
			fmt.Printf("Entrypoint: %s\n", strings.Join(img.Entrypoint, " "))
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("workspace", "", "Keep stage directories in this directory instead of a temp dir")
}
