package graph

import (
	"fmt"
	"strings"

	"github.com/getcook-dev/cook/internal/model"
)

// Graph is a read-only projection of a parsed cookbook: recipes by name with
// resolved dependency edges in both directions.
type Graph struct {
	Recipes    map[string]*model.Recipe
	DependsOn  map[string][]*model.Recipe // recipe → recipes it depends on
	Dependents map[string][]*model.Recipe // recipe → recipes that depend on it
	Order      []string                   // recipe names preserving declaration order
}

// Build constructs a dependency graph from a cookbook.
// Returns an error for unknown dependency names, self-dependencies, or cycles.
func Build(cb *model.Cookbook) (*Graph, error) {
	g := &Graph{
		Recipes:    make(map[string]*model.Recipe),
		DependsOn:  make(map[string][]*model.Recipe),
		Dependents: make(map[string][]*model.Recipe),
	}

	for i := range cb.Recipes {
		r := &cb.Recipes[i]
		g.Order = append(g.Order, r.Name)
		g.Recipes[r.Name] = r
	}

	// Track edges to avoid duplicates
	edgeSet := make(map[string]bool)
	for i := range cb.Recipes {
		r := &cb.Recipes[i]
		for _, dep := range r.Deps.Names {
			if dep == r.Name {
				return nil, fmt.Errorf("recipe %q: self-dependency", r.Name)
			}
			target, ok := g.Recipes[dep]
			if !ok {
				return nil, fmt.Errorf("recipe %q depends on unknown recipe %q", r.Name, dep)
			}
			key := r.Name + " -> " + dep
			if edgeSet[key] {
				continue
			}
			edgeSet[key] = true
			g.DependsOn[r.Name] = append(g.DependsOn[r.Name], target)
			g.Dependents[dep] = append(g.Dependents[dep], r)
		}
	}

	if err := detectCycle(g); err != nil {
		return nil, err
	}

	return g, nil
}

// Lookup returns the recipe with the given name, if declared.
func (g *Graph) Lookup(name string) (*model.Recipe, bool) {
	r, ok := g.Recipes[name]
	return r, ok
}

// detectCycle uses Kahn's algorithm to detect cycles.
func detectCycle(g *Graph) error {
	inDeg := make(map[string]int)
	for _, name := range g.Order {
		inDeg[name] = len(g.DependsOn[name])
	}

	var queue []string
	for _, name := range g.Order {
		if inDeg[name] == 0 {
			queue = append(queue, name)
		}
	}

	processed := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		processed++
		for _, dep := range g.Dependents[curr] {
			inDeg[dep.Name]--
			if inDeg[dep.Name] == 0 {
				queue = append(queue, dep.Name)
			}
		}
	}

	if processed < len(g.Order) {
		// Name the recipes involved for a better error message
		var inCycle []string
		for _, name := range g.Order {
			if inDeg[name] > 0 {
				inCycle = append(inCycle, name)
			}
		}
		return fmt.Errorf("dependency cycle detected among recipes: %s", strings.Join(inCycle, ", "))
	}

	return nil
}
