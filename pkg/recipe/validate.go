package recipe

import "fmt"

// Validate checks the structural invariants of a recipe. It does not touch
// the filesystem; whether referenced paths exist is only known at execution
// time (and for handoffs, only after the source stage ran).
func (r *Recipe) Validate() error {
	if len(r.Stages) == 0 {
		return fmt.Errorf("recipe has no stages")
	}

	seen := make(map[string]bool, len(r.Stages))
	for si, stage := range r.Stages {
		if stage.Name == "" {
			return fmt.Errorf("stage %d: missing name", si)
		}
		if seen[stage.Name] {
			return fmt.Errorf("duplicate stage name %q", stage.Name)
		}
		seen[stage.Name] = true

		if len(stage.Steps) == 0 {
			return fmt.Errorf("stage %q: no steps", stage.Name)
		}

		exposed := false
		entry := false
		for pi, step := range stage.Steps {
			switch s := step.(type) {
			case WorkdirStep:
				if s.Path == "" {
					return stepErr(stage.Name, pi, "workdir path is empty")
				}
			case CopyStep:
				if s.Src == "" {
					return stepErr(stage.Name, pi, "copy src is empty")
				}
				if s.From != "" {
					// The handoff may only reach backwards; stage ordering is
					// what guarantees the artifact exists before it is copied.
					if s.From == stage.Name {
						return stepErr(stage.Name, pi, "copy from references its own stage")
					}
					if !seen[s.From] {
						return stepErr(stage.Name, pi, fmt.Sprintf("copy from references unknown or later stage %q", s.From))
					}
				}
			case RunStep:
				if len(s.Command) == 0 {
					return stepErr(stage.Name, pi, "run command is empty")
				}
			case ExposeStep:
				if exposed {
					return stepErr(stage.Name, pi, "stage declares more than one port")
				}
				exposed = true
				if s.Port < 1 || s.Port > 65535 {
					return stepErr(stage.Name, pi, fmt.Sprintf("port %d out of range", s.Port))
				}
			case EntrypointStep:
				if entry {
					return stepErr(stage.Name, pi, "stage declares more than one entrypoint")
				}
				entry = true
				if len(s.Command) == 0 {
					return stepErr(stage.Name, pi, "entrypoint command is empty")
				}
				if si != len(r.Stages)-1 {
					return stepErr(stage.Name, pi, "entrypoint is only valid in the final stage")
				}
			default:
				return stepErr(stage.Name, pi, fmt.Sprintf("unknown step type %T", step))
			}
		}
	}
	return nil
}

func stepErr(stage string, index int, msg string) error {
	return fmt.Errorf("stage %q: step %d: %s", stage, index, msg)
}
