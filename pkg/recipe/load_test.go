package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir
}

const validKilnfile = `
stages:
  - name: build
    steps:
      - workdir: /src
      - copy: { src: ., dest: . }
      - run: ["npm", "install"]
      - run: ["npm", "run", "build"]
  - name: runtime
    steps:
      - copy: { from: build, src: /src/dist, dest: . }
      - expose: 8080
      - entrypoint: ["kiln", "serve"]
`

func TestLoadValidRecipe(t *testing.T) {
	dir := writeRecipe(t, validKilnfile)

	rec, err := Load(dir)
	require.NoError(t, err)

	require.Len(t, rec.Stages, 2)
	assert.Equal(t, "build", rec.Stages[0].Name)
	assert.Equal(t, "runtime", rec.Final().Name)

	// Step decoding preserved order and types.
	build := rec.Stages[0]
	require.Len(t, build.Steps, 4)
	assert.Equal(t, WorkdirStep{Path: "/src"}, build.Steps[0])
	assert.Equal(t, CopyStep{Src: ".", Dest: "."}, build.Steps[1])
	assert.Equal(t, RunStep{Command: []string{"npm", "install"}}, build.Steps[2])

	rt := rec.Stages[1]
	assert.Equal(t, CopyStep{From: "build", Src: "/src/dist", Dest: "."}, rt.Steps[0])
	assert.Equal(t, ExposeStep{Port: 8080}, rt.Steps[1])
	assert.Equal(t, EntrypointStep{Command: []string{"kiln", "serve"}}, rt.Steps[2])
}

func TestLoadExactFilePath(t *testing.T) {
	dir := writeRecipe(t, validKilnfile)

	rec, err := Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)
	assert.Len(t, rec.Stages, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadUnknownStepKind(t *testing.T) {
	dir := writeRecipe(t, `
stages:
  - name: build
    steps:
      - teleport: /src
`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step kind")
}

func TestLoadUnknownCopyField(t *testing.T) {
	dir := writeRecipe(t, `
stages:
  - name: build
    steps:
      - copy: { src: ., dest: ., chown: root }
`)
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadUnknownTopLevelField(t *testing.T) {
	dir := writeRecipe(t, `
stages:
  - name: build
    steps:
      - run: ["true"]
version: 2
`)
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRunMustBeStringList(t *testing.T) {
	dir := writeRecipe(t, `
stages:
  - name: build
    steps:
      - run: "npm install"
`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list of strings")
}

func TestLoadMultiKeyStep(t *testing.T) {
	dir := writeRecipe(t, `
stages:
  - name: build
    steps:
      - workdir: /src
        expose: 8080
`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one key")
}
