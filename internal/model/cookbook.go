package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Cookbook struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Recipes     []Recipe `yaml:"recipes"`
}

type Recipe struct {
	Name  string    `yaml:"name"`
	Deps  DepsField `yaml:"deps"`
	Tasks []Task    `yaml:"tasks"`
}

// DepsField supports both scalar and sequence YAML forms:
//   - deps: "sauce"
//   - deps: ["sauce", "pasta"]
type DepsField struct {
	Names []string
}

func (d *DepsField) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != "" {
			d.Names = []string{value.Value}
		}
		return nil
	case yaml.SequenceNode:
		var strs []string
		if err := value.Decode(&strs); err != nil {
			return fmt.Errorf("deps: %w", err)
		}
		d.Names = strs
		return nil
	default:
		return fmt.Errorf("deps: must be a string or list of strings")
	}
}

// Task is one shell-style pipeline: an ordered list of steps plus optional
// input and output file redirection.
//
// Two YAML forms are accepted:
//   - scalar string: "cat menu.txt | wc -l" (stages split on '|')
//   - mapping: {run: <string or list of strings>, input: ..., output: ...}
type Task struct {
	Steps  []Step
	Input  string
	Output string
}

func (t *Task) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		steps, err := splitPipeline(value.Value)
		if err != nil {
			return err
		}
		t.Steps = steps
		return nil

	case yaml.MappingNode:
		var aux struct {
			Run    runField `yaml:"run"`
			Input  string   `yaml:"input"`
			Output string   `yaml:"output"`
		}
		if err := value.Decode(&aux); err != nil {
			return err
		}
		t.Steps = aux.Run.Steps
		t.Input = aux.Input
		t.Output = aux.Output
		return nil

	default:
		return fmt.Errorf("task: must be a command string or a mapping (run + input/output)")
	}
}

// runField decodes the run key of a mapping task: a scalar pipeline string
// or a sequence of step strings (one stage each).
type runField struct {
	Steps []Step
}

func (r *runField) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		steps, err := splitPipeline(value.Value)
		if err != nil {
			return err
		}
		r.Steps = steps
		return nil

	case yaml.SequenceNode:
		var strs []string
		if err := value.Decode(&strs); err != nil {
			return fmt.Errorf("run: decoding step list: %w", err)
		}
		for _, s := range strs {
			step, err := parseStep(s)
			if err != nil {
				return err
			}
			r.Steps = append(r.Steps, step)
		}
		return nil

	default:
		return fmt.Errorf("run: must be a pipeline string or a list of step strings")
	}
}

// Step is a single command invocation forming one stage of a task's
// pipeline. Argv[0] is the command name.
type Step struct {
	Argv []string
}

func (s Step) Command() string { return s.Argv[0] }

func (s Step) String() string { return strings.Join(s.Argv, " ") }

// splitPipeline splits a scalar pipeline string on '|' into steps.
// Words within a stage are whitespace-separated; there is no shell quoting —
// a stage that needs shell syntax should invoke "sh -c ..." explicitly.
func splitPipeline(s string) ([]Step, error) {
	var steps []Step
	for _, seg := range strings.Split(s, "|") {
		step, err := parseStep(seg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(s string) (Step, error) {
	argv := strings.Fields(s)
	if len(argv) == 0 {
		return Step{}, fmt.Errorf("task: empty step")
	}
	return Step{Argv: argv}, nil
}

// String renders the task the way a shell user would write it, for logs.
func (t Task) String() string {
	var parts []string
	for _, s := range t.Steps {
		parts = append(parts, s.String())
	}
	out := strings.Join(parts, " | ")
	if t.Input != "" {
		out += " < " + t.Input
	}
	if t.Output != "" {
		out += " > " + t.Output
	}
	return out
}
