package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kilnbuild/kiln/pkg/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(src, "css", "main.css"), "body{}")

	require.NoError(t, CopyTree(src, dst, nil))

	assert.True(t, Exists(filepath.Join(dst, "index.html")))
	assert.True(t, Exists(filepath.Join(dst, "css", "main.css")))
}

func TestCopyTreeHonorsIgnore(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "index.html"), "ok")
	writeFile(t, filepath.Join(src, "node_modules", "pkg", "x.js"), "junk")
	writeFile(t, filepath.Join(src, "debug.log"), "junk")

	ignore := recipe.NewIgnore("node_modules", "**/*.log")
	require.NoError(t, CopyTree(src, dst, ignore))

	assert.True(t, Exists(filepath.Join(dst, "index.html")))
	assert.False(t, Exists(filepath.Join(dst, "node_modules")))
	assert.False(t, Exists(filepath.Join(dst, "debug.log")))
}

func TestCopyTreeSingleFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "manifest.json")
	writeFile(t, src, "{}")

	dst := filepath.Join(t.TempDir(), "nested", "manifest.json")
	require.NoError(t, CopyTree(src, dst, nil))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestCopyTreeMissingSource(t *testing.T) {
	err := CopyTree(filepath.Join(t.TempDir(), "nope"), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestEntryCount(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, 0, EntryCount(dir))

	writeFile(t, filepath.Join(dir, "a"), "1")
	writeFile(t, filepath.Join(dir, "b"), "2")
	assert.Equal(t, 2, EntryCount(dir))
}
