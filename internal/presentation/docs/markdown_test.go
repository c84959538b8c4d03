package docs

import (
	"testing"

	"github.com/kilnbuild/kiln/pkg/recipe"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	rec := &recipe.Recipe{
		Stages: []recipe.Stage{
			{Name: "build", Steps: []recipe.Step{
				recipe.WorkdirStep{Path: "/src"},
				recipe.RunStep{Command: []string{"npm", "install"}},
			}},
			{Name: "runtime", Steps: []recipe.Step{
				recipe.CopyStep{From: "build", Src: "/src/dist", Dest: "www"},
				recipe.ExposeStep{Port: 8080},
				recipe.EntrypointStep{Command: []string{"kiln", "serve"}},
			}},
		},
	}

	out := Describe(rec)

	assert.Contains(t, out, "## Stage 1: `build`")
	assert.Contains(t, out, "Run `npm install`")
	assert.Contains(t, out, "**Handoff**")
	assert.Contains(t, out, "port **8080**")
	assert.Contains(t, out, "`runtime` stage is what ships")
}
