// Package scaffold writes a ready-to-build demo project: a kilnfile with
// the canonical two stages, the static page source, and the exclusion list.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilnbuild/kiln/internal/page"
)

const kilnfile = `# Two-stage build: compile the site, then ship only the result.
stages:
  - name: build
    steps:
      - workdir: /src
      - copy: { src: package.json, dest: package.json }
      - run: ["npm", "install"]
      - copy: { src: ., dest: . }
      - run: ["npm", "run", "build"]

  - name: runtime
    steps:
      - copy: { from: build, src: /src/dist, dest: . }
      - expose: 8080
      - entrypoint: ["kiln", "serve", "--port", "8080"]
`

const ignorefile = `# Kept out of the build context.
node_modules
dist
.git
**/*.log
.DS_Store
`

// The manifest's build script only shuffles files, but it goes through the
// package manager on purpose: the recipe treats the tooling as opaque
// executables, exactly like a real bundler setup.
const manifest = `{
  "name": "kiln-demo",
  "private": true,
  "version": "1.0.0",
  "scripts": {
    "build": "mkdir -p dist && cp -r site/. dist/"
  }
}
`

// Run writes the demo project into dir. An existing non-empty directory is
// refused rather than overwritten.
func Run(dir string) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("directory %q already exists and is not empty", dir)
	}

	index, err := page.Render()
	if err != nil {
		return err
	}

	files := map[string][]byte{
		"kilnfile.yaml":   []byte(kilnfile),
		".kilnignore":     []byte(ignorefile),
		"package.json":    []byte(manifest),
		"site/index.html": index,
		"site/styles.css": page.Stylesheet(),
	}

	for name, content := range files {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(name), err)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
