package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunExecutorContract verifies that an Executor implementation adheres to
// the interface contract. Adapter test suites call it against their own
// instance.
func RunExecutorContract(t *testing.T, exec Executor) {
	ctx := context.Background()

	t.Run("Zero exit", func(t *testing.T) {
		res, err := exec.Run(ctx, Command{Argv: []string{"true"}})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("Non-zero exit is not an error", func(t *testing.T) {
		res, err := exec.Run(ctx, Command{Argv: []string{"false"}})
		require.NoError(t, err, "a failing command should still yield a result")
		assert.NotEqual(t, 0, res.ExitCode)
	})

	t.Run("Captures stdout", func(t *testing.T) {
		res, err := exec.Run(ctx, Command{Argv: []string{"sh", "-c", "echo hello"}})
		require.NoError(t, err)
		assert.Equal(t, "hello\n", res.Stdout)
	})

	t.Run("Captures stderr", func(t *testing.T) {
		res, err := exec.Run(ctx, Command{Argv: []string{"sh", "-c", "echo oops >&2; exit 3"}})
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
		assert.Contains(t, res.Stderr, "oops")
	})

	t.Run("Working directory", func(t *testing.T) {
		dir := t.TempDir()
		res, err := exec.Run(ctx, Command{Argv: []string{"pwd"}, Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, dir+"\n", res.Stdout)
	})

	t.Run("Environment passthrough", func(t *testing.T) {
		res, err := exec.Run(ctx, Command{
			Argv: []string{"sh", "-c", "echo $KILN_CONTRACT"},
			Env:  []string{"KILN_CONTRACT=yes"},
		})
		require.NoError(t, err)
		assert.Equal(t, "yes\n", res.Stdout)
	})

	t.Run("Missing binary is an error", func(t *testing.T) {
		_, err := exec.Run(ctx, Command{Argv: []string{"kiln-no-such-binary-xyz"}})
		assert.Error(t, err)
	})
}
