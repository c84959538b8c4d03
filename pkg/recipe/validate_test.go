package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stage(name string, steps ...Step) Stage {
	return Stage{Name: name, Steps: steps}
}

func TestValidateEmptyRecipe(t *testing.T) {
	rec := &Recipe{}
	assert.ErrorContains(t, rec.Validate(), "no stages")
}

func TestValidateDuplicateStageNames(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("build", RunStep{Command: []string{"true"}}),
		stage("build", RunStep{Command: []string{"true"}}),
	}}
	assert.ErrorContains(t, rec.Validate(), "duplicate stage name")
}

func TestValidateHandoffMustReferenceEarlierStage(t *testing.T) {
	// Forward reference: the artifact would not exist yet.
	rec := &Recipe{Stages: []Stage{
		stage("runtime", CopyStep{From: "build", Src: "/dist"}),
		stage("build", RunStep{Command: []string{"true"}}),
	}}
	assert.ErrorContains(t, rec.Validate(), "unknown or later stage")
}

func TestValidateHandoffSelfReference(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("build", CopyStep{From: "build", Src: "/dist"}),
	}}
	assert.ErrorContains(t, rec.Validate(), "its own stage")
}

func TestValidatePortRange(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("runtime", ExposeStep{Port: 99999}),
	}}
	assert.ErrorContains(t, rec.Validate(), "out of range")
}

func TestValidateSinglePortPerStage(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("runtime", ExposeStep{Port: 8080}, ExposeStep{Port: 9090}),
	}}
	assert.ErrorContains(t, rec.Validate(), "more than one port")
}

func TestValidateEntrypointOnlyInFinalStage(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("build", EntrypointStep{Command: []string{"serve"}}),
		stage("runtime", RunStep{Command: []string{"true"}}),
	}}
	assert.ErrorContains(t, rec.Validate(), "final stage")
}

func TestValidateEmptyRunCommand(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("build", RunStep{}),
	}}
	assert.ErrorContains(t, rec.Validate(), "run command is empty")
}

func TestValidateAcceptsCanonicalTwoStageRecipe(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("build",
			WorkdirStep{Path: "/src"},
			CopyStep{Src: ".", Dest: "."},
			RunStep{Command: []string{"npm", "install"}},
			RunStep{Command: []string{"npm", "run", "build"}},
		),
		stage("runtime",
			CopyStep{From: "build", Src: "/src/dist", Dest: "."},
			ExposeStep{Port: 8080},
			EntrypointStep{Command: []string{"kiln", "serve"}},
		),
	}}
	assert.NoError(t, rec.Validate())
}

func TestStageIndex(t *testing.T) {
	rec := &Recipe{Stages: []Stage{
		stage("build", RunStep{Command: []string{"true"}}),
		stage("runtime", RunStep{Command: []string{"true"}}),
	}}
	assert.Equal(t, 0, rec.StageIndex("build"))
	assert.Equal(t, 1, rec.StageIndex("runtime"))
	assert.Equal(t, -1, rec.StageIndex("missing"))
}
