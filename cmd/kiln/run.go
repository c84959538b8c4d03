package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln/pkg/recipe"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the recipe and serve the result in the foreground",
	Long: `Executes the full pipeline (build stage, artifact handoff, runtime
stage) and keeps the static file server in the foreground until a stop
signal. With --watch the pipeline re-runs whenever the source tree changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var err error
		if watch {
			err = runWatch(ctx, cmd, port)
		} else {
			err = buildAndServe(ctx, cmd, port)
		}
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntP("port", "p", 0, "Port override (default: the recipe's exposed port)")
	runCmd.Flags().Bool("watch", false, "Rebuild and restart when the source tree changes")
}

func buildAndServe(ctx context.Context, cmd *cobra.Command, port int) error {
	p, err := newPipeline(cmd, "")
	if err != nil {
		return err
	}
	// The workspace only has to outlive the server; reclaim it on the way
	// out so watch iterations do not pile up temp dirs.
	defer p.Close()

	img, err := p.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Serving built image on :%d\n", effectivePort(port, img.Port))
	return p.Serve(ctx, img, port)
}

func effectivePort(override, declared int) int {
	if override != 0 {
		return override
	}
	return declared
}

// runWatch re-runs the pipeline whenever the project changes. Each
// iteration gets its own cancellable context so a change can stop the
// running server cleanly before the rebuild.
func runWatch(ctx context.Context, cmd *cobra.Command, port int) error {
	dir := projectDir(cmd)
	logger := createLogger(cmd)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watchTree(watcher, dir); err != nil {
		return err
	}

	for {
		iterCtx, cancel := context.WithCancel(ctx)

		done := make(chan error, 1)
		go func() {
			done <- buildAndServe(iterCtx, cmd, port)
		}()

		change, watchErr := waitForChange(iterCtx, watcher, done, logger.With("dir", dir))
		cancel()
		<-done // Wait for the iteration to release its port.

		switch {
		case watchErr != nil:
			return watchErr
		case ctx.Err() != nil:
			fmt.Println("Watcher stopped")
			return nil
		case change:
			fmt.Println("Change detected, rebuilding...")
			// Let the filesystem settle before re-reading the tree.
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// waitForChange blocks until a relevant fsnotify event, a fatal iteration
// error, or cancellation. It returns true when a rebuild should happen.
func waitForChange(ctx context.Context, watcher *fsnotify.Watcher, done chan error, logger *slog.Logger) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, nil
		case event := <-watcher.Events:
			logger.Info("fs event", "op", event.Op.String(), "name", event.Name)
			return true, nil
		case err := <-watcher.Errors:
			return false, err
		case err := <-done:
			if err != nil && ctx.Err() == nil {
				// Build or serve failed; stay alive and wait for a fix.
				fmt.Fprintf(os.Stderr, "Error: %v\nWaiting for changes...\n", err)
				done <- nil // Keep the outer drain from blocking.
				select {
				case <-ctx.Done():
					return false, nil
				case event := <-watcher.Events:
					logger.Info("fs event", "op", event.Op.String(), "name", event.Name)
					return true, nil
				case err := <-watcher.Errors:
					return false, err
				}
			}
			done <- nil
			return false, nil
		}
	}
}

// watchTree registers dir and its subdirectories, skipping everything the
// exclusion list keeps out of the build context.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	ignore, err := recipe.LoadIgnore(dir)
	if err != nil {
		return err
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return rerr
		}
		if rel != "." && ignore.Match(rel) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
