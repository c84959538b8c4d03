// Package recipe defines the declarative build recipe ("kilnfile") and its
// loader. A recipe is an ordered list of named stages; each stage is an
// ordered list of steps. All real work (installing dependencies, bundling,
// serving) is delegated to external commands named in run steps; the recipe
// itself is pure data.
package recipe

// DefaultFile is the recipe file name looked up in a project directory.
const DefaultFile = "kilnfile.yaml"

// Recipe is an immutable, ordered build plan. Stages execute strictly
// sequentially; a later stage may receive files from an earlier one via a
// copy step with a `from` reference (the artifact handoff).
type Recipe struct {
	Stages []Stage

	// Path is the file the recipe was loaded from, for error reporting.
	Path string
}

// Stage is an isolated filesystem context with an ordered step list.
type Stage struct {
	Name  string
	Steps []Step
}

// Step is one declarative instruction. The concrete type determines the
// behavior; Kind returns its YAML key.
type Step interface {
	Kind() string
}

// WorkdirStep sets the working context for subsequent steps. Paths are
// resolved inside the stage filesystem; a leading slash means the stage
// root, like a container's filesystem root.
type WorkdirStep struct {
	Path string
}

func (WorkdirStep) Kind() string { return "workdir" }

// CopyStep copies files into the stage context. With an empty From the
// source is the host build context (filtered by the ignore list). With a
// stage name in From it is the artifact handoff: Src is resolved against
// the named earlier stage's filesystem, and only that path crosses over.
type CopyStep struct {
	From string `mapstructure:"from"`
	Src  string `mapstructure:"src"`
	Dest string `mapstructure:"dest"`
}

func (CopyStep) Kind() string { return "copy" }

// RunStep invokes an external command inside the stage's working context.
// A non-zero exit is fatal to the whole pipeline.
type RunStep struct {
	Command []string
}

func (RunStep) Kind() string { return "run" }

// ExposeStep declares the port the runtime stage serves on.
type ExposeStep struct {
	Port int
}

func (ExposeStep) Kind() string { return "expose" }

// EntrypointStep declares the foreground command of the final image.
type EntrypointStep struct {
	Command []string
}

func (EntrypointStep) Kind() string { return "entrypoint" }

// StageIndex returns the position of a stage by name, or -1.
func (r *Recipe) StageIndex(name string) int {
	for i, s := range r.Stages {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Final returns the last stage, which becomes the runtime image.
func (r *Recipe) Final() *Stage {
	if len(r.Stages) == 0 {
		return nil
	}
	return &r.Stages[len(r.Stages)-1]
}
