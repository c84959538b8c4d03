package recipe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// rawRecipe mirrors the YAML document shape. Steps stay untyped here
// because they are a tagged union keyed by step kind.
type rawRecipe struct {
	Stages []rawStage `yaml:"stages"`
}

type rawStage struct {
	Name  string           `yaml:"name"`
	Steps []map[string]any `yaml:"steps"`
}

// Load reads and validates a recipe file. If path is a directory, the
// default file name is appended.
func Load(path string) (*Recipe, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFile)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var raw rawRecipe
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	rec := &Recipe{Path: path}
	for _, rs := range raw.Stages {
		stage := Stage{Name: rs.Name}
		for pi, rawStep := range rs.Steps {
			step, err := decodeStep(rawStep)
			if err != nil {
				return nil, fmt.Errorf("stage %q: step %d: %w", rs.Name, pi, err)
			}
			stage.Steps = append(stage.Steps, step)
		}
		rec.Stages = append(rec.Stages, stage)
	}

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// decodeStep maps a single-key YAML mapping onto a typed step.
func decodeStep(m map[string]any) (Step, error) {
	if len(m) != 1 {
		return nil, fmt.Errorf("a step must have exactly one key, got %d", len(m))
	}

	for key, value := range m {
		switch key {
		case "workdir":
			path, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("workdir: expected string, got %T", value)
			}
			return WorkdirStep{Path: path}, nil

		case "copy":
			var step CopyStep
			dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result:      &step,
				ErrorUnused: true,
			})
			if err != nil {
				return nil, err
			}
			if err := dec.Decode(value); err != nil {
				return nil, fmt.Errorf("copy: %w", err)
			}
			return step, nil

		case "run":
			argv, err := toArgv(value)
			if err != nil {
				return nil, fmt.Errorf("run: %w", err)
			}
			return RunStep{Command: argv}, nil

		case "expose":
			port, ok := toInt(value)
			if !ok {
				return nil, fmt.Errorf("expose: expected integer port, got %T", value)
			}
			return ExposeStep{Port: port}, nil

		case "entrypoint":
			argv, err := toArgv(value)
			if err != nil {
				return nil, fmt.Errorf("entrypoint: %w", err)
			}
			return EntrypointStep{Command: argv}, nil

		default:
			return nil, fmt.Errorf("unknown step kind %q", key)
		}
	}
	return nil, fmt.Errorf("empty step")
}

func toArgv(value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
	argv := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: expected string, got %T", i, item)
		}
		argv = append(argv, s)
	}
	return argv, nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
