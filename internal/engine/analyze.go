package engine

import (
	"fmt"

	"github.com/getcook-dev/cook/internal/model"
)

// analyze initializes the state table, marks the transitive dependency
// closure of the main recipe as required, and seeds the ready queue with
// every required recipe that has no dependencies, in declaration order.
func (e *Engine) analyze(mainName string) error {
	main, ok := e.graph.Lookup(mainName)
	if !ok {
		return fmt.Errorf("main recipe %q not found in cookbook", mainName)
	}

	e.states = make(map[string]*recipeState, len(e.graph.Order))
	for _, name := range e.graph.Order {
		e.states[name] = &recipeState{}
	}

	e.markRequired(main)

	for _, name := range e.graph.Order {
		st := e.states[name]
		if st.required && len(e.graph.DependsOn[name]) == 0 {
			st.queued = true
			e.ready.enqueue(e.graph.Recipes[name])
		}
	}
	return nil
}

// markRequired walks the dependency edges depth-first, terminating on nodes
// already marked.
func (e *Engine) markRequired(r *model.Recipe) {
	st := e.states[r.Name]
	if st.required {
		return
	}
	st.required = true
	for _, dep := range e.graph.DependsOn[r.Name] {
		e.markRequired(dep)
	}
}
