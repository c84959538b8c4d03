package recipe

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFile is the per-project exclusion list, one glob per line.
const IgnoreFile = ".kilnignore"

// DefaultIgnorePatterns are always excluded from the build context:
// dependency trees, prior build output, version-control metadata, and
// OS/log noise. They keep build tooling from ever entering a stage
// unnecessarily.
var DefaultIgnorePatterns = []string{
	"node_modules",
	"dist",
	".git",
	".kilnignore",
	DefaultFile,
	".DS_Store",
	"**/*.log",
}

// Ignore matches context-relative paths against exclusion globs.
type Ignore struct {
	patterns []string
}

// NewIgnore builds a matcher from explicit patterns.
func NewIgnore(patterns ...string) *Ignore {
	return &Ignore{patterns: patterns}
}

// LoadIgnore reads dir's .kilnignore and combines it with the defaults.
// A missing file is not an error; the defaults still apply.
func LoadIgnore(dir string) (*Ignore, error) {
	patterns := append([]string{}, DefaultIgnorePatterns...)

	f, err := os.Open(filepath.Join(dir, IgnoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Ignore{patterns: patterns}, nil
		}
		return nil, fmt.Errorf("read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !doublestar.ValidatePattern(line) {
			return nil, fmt.Errorf("%s: invalid pattern %q", IgnoreFile, line)
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", IgnoreFile, err)
	}
	return &Ignore{patterns: patterns}, nil
}

// Match reports whether a slash-separated context-relative path is
// excluded. A pattern matching a directory excludes everything under it.
func (ig *Ignore) Match(rel string) bool {
	if ig == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range ig.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}
