package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getcook-dev/cook/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadCookbook reads and validates a cookbook file.
func LoadCookbook(path string) (*model.Cookbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cookbook %q: %w", path, err)
	}

	var cb model.Cookbook
	if err := yaml.Unmarshal(data, &cb); err != nil {
		return nil, fmt.Errorf("parsing cookbook %q: %w", path, err)
	}

	if cb.Name == "" {
		base := filepath.Base(path)
		cb.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := Validate(&cb); err != nil {
		return nil, fmt.Errorf("validating cookbook %q: %w", path, err)
	}
	return &cb, nil
}

// Validate checks a cookbook for structural errors such as missing or
// duplicate recipe names and tasks without steps. Dependency resolution and
// cycle checks happen at graph build.
func Validate(cb *model.Cookbook) error {
	if len(cb.Recipes) == 0 {
		return fmt.Errorf("cookbook contains no recipes")
	}

	names := make(map[string]bool)
	for i, r := range cb.Recipes {
		if r.Name == "" {
			return fmt.Errorf("recipe %d: missing name", i)
		}
		if names[r.Name] {
			return fmt.Errorf("recipe %d: duplicate name %q", i, r.Name)
		}
		names[r.Name] = true

		for j, task := range r.Tasks {
			if len(task.Steps) == 0 {
				return fmt.Errorf("recipe %q: task %d: missing run", r.Name, j)
			}
			for _, step := range task.Steps {
				if len(step.Argv) == 0 {
					return fmt.Errorf("recipe %q: task %d: empty step", r.Name, j)
				}
			}
		}

		for _, dep := range r.Deps.Names {
			if dep == "" {
				return fmt.Errorf("recipe %q: empty dependency name", r.Name)
			}
		}
	}
	return nil
}
