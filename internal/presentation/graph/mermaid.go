// Package graph renders a recipe as a Mermaid flowchart: one node per
// stage, solid arrows for the stage ordering, dotted arrows for artifact
// handoffs and context copies.
package graph

import (
	"fmt"
	"strings"

	"github.com/kilnbuild/kiln/pkg/recipe"
)

// GenerateMermaid produces Mermaid flowchart syntax for a recipe.
// Shapes carry the semantics:
//   - Source context: ((circle))
//   - Stage: [rectangle]
//   - Exposed port: [/parallelogram/]
func GenerateMermaid(rec *recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    context((\"source tree\"))\n")

	for i, stage := range rec.Stages {
		safeID := sanitizeMermaidID(stage.Name)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, stage.Name))

		// Stage ordering.
		if i > 0 {
			prev := sanitizeMermaidID(rec.Stages[i-1].Name)
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, safeID))
		}

		for _, step := range stage.Steps {
			switch s := step.(type) {
			case recipe.CopyStep:
				if s.From == "" {
					sb.WriteString(fmt.Sprintf("    context -. \"%s\" .-> %s\n", escapeLabel(s.Src), safeID))
				} else {
					from := sanitizeMermaidID(s.From)
					sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", from, escapeLabel(s.Src), safeID))
				}
			case recipe.ExposeStep:
				sb.WriteString(fmt.Sprintf("    %s --> port%d[/\":%d\"/]\n", safeID, s.Port, s.Port))
			}
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
