// Package docs turns a recipe back into prose: a Markdown description of
// the build technique the recipe encodes. This is the documentation half of
// the demo: the same linear steps, explained instead of executed.
package docs

import (
	"fmt"
	"strings"

	"github.com/kilnbuild/kiln/pkg/recipe"
)

// Describe renders the recipe as a Markdown document.
func Describe(rec *recipe.Recipe) string {
	var sb strings.Builder

	sb.WriteString("# Build recipe\n\n")
	fmt.Fprintf(&sb, "%d stages, executed strictly in order. Each stage is an isolated filesystem; the only thing that crosses between them is an explicit artifact handoff.\n", len(rec.Stages))

	for i, stage := range rec.Stages {
		fmt.Fprintf(&sb, "\n## Stage %d: `%s`\n\n", i+1, stage.Name)
		for _, step := range stage.Steps {
			sb.WriteString(describeStep(step))
		}
	}

	if final := rec.Final(); final != nil {
		fmt.Fprintf(&sb, "\nThe `%s` stage is what ships: it received only the handoff, never the build tooling.\n", final.Name)
	}
	return sb.String()
}

func describeStep(step recipe.Step) string {
	switch s := step.(type) {
	case recipe.WorkdirStep:
		return fmt.Sprintf("- Set the working context to `%s`.\n", s.Path)
	case recipe.CopyStep:
		if s.From == "" {
			return fmt.Sprintf("- Copy `%s` from the build context into `%s` (exclusion list applies).\n", s.Src, orDot(s.Dest))
		}
		return fmt.Sprintf("- **Handoff**: copy `%s` from stage `%s` into `%s`, and nothing else.\n", s.Src, s.From, orDot(s.Dest))
	case recipe.RunStep:
		return fmt.Sprintf("- Run `%s`.\n", strings.Join(s.Command, " "))
	case recipe.ExposeStep:
		return fmt.Sprintf("- Serve on port **%d**.\n", s.Port)
	case recipe.EntrypointStep:
		return fmt.Sprintf("- Foreground process: `%s`.\n", strings.Join(s.Command, " "))
	default:
		return fmt.Sprintf("- (unknown step %T)\n", step)
	}
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
