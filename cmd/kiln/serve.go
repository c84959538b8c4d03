package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpAdapter "github.com/kilnbuild/kiln/internal/adapters/http"
	"github.com/kilnbuild/kiln/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a static asset directory in the foreground",
	Long: `Starts the runtime stage on its own: a static file server exposing one
directory on one port. This is the image's entrypoint; it runs until a stop
signal and propagates the server's exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		assets, _ := cmd.Flags().GetString("assets")
		port, _ := cmd.Flags().GetInt("port")
		logger := createLogger(cmd)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := httpAdapter.NewServer(assets,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(observability.NewMetrics()),
		)

		fmt.Printf("Serving %s on :%d\n", assets, port)
		if err := server.Serve(ctx, port); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Server stopped gracefully")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("assets", ".", "Static asset directory to serve")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
