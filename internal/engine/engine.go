// Package engine prepares a main recipe by executing its transitive
// dependencies with bounded parallelism, respecting the dependency order.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/getcook-dev/cook/internal/graph"
	"github.com/getcook-dev/cook/internal/logging"
	"github.com/getcook-dev/cook/internal/model"
	"github.com/getcook-dev/cook/internal/pipeline"
)

// ErrMainRecipeFailed is returned when the main recipe itself ran and failed.
// When main was never dispatched because a dependency failed, Run returns a
// different error naming main. Per-recipe failures are already in the log, so
// callers can exit non-zero without re-reporting details.
var ErrMainRecipeFailed = errors.New("main recipe failed")

// Engine runs recipes from a single scheduler goroutine. Workers execute
// recipe tasks and report back on the results channel; all state mutation
// happens on the scheduler's control flow, so reap handling can never race a
// dispatch decision.
type Engine struct {
	graph *graph.Graph
	cap   int
	log   *logging.Logger

	states       map[string]*recipeState
	ready        readyQueue
	active       int
	peak         int
	nextWorkerID int
	results      chan result

	outcomes map[string]Outcome
}

type result struct {
	recipe *model.Recipe
	status int
}

// Outcome is the terminal state of one required recipe.
type Outcome struct {
	Status     string // completed|failed|skipped
	ExitStatus int
	WorkerID   int
	At         time.Time
}

// Summary reports the result of a run.
type Summary struct {
	Main        string
	PeakWorkers int
	Outcomes    map[string]Outcome // one entry per required recipe
}

// New creates an engine over a recipe graph. cap is the maximum number of
// concurrently processing recipes; values below 1 are treated as 1.
func New(g *graph.Graph, cap int, log *logging.Logger) *Engine {
	if cap < 1 {
		cap = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		graph:    g,
		cap:      cap,
		log:      log,
		outcomes: make(map[string]Outcome),
	}
}

// Run prepares the main recipe. It returns a nil error only if the main
// recipe completed successfully. The engine is single-use.
func (e *Engine) Run(mainName string) (*Summary, error) {
	if err := e.analyze(mainName); err != nil {
		return nil, err
	}

	e.results = make(chan result)

	for {
		// Steady state: dispatch while there is ready work and a free slot.
		for e.active < e.cap {
			r, ok := e.ready.dequeue()
			if !ok {
				break
			}
			e.dispatch(r)
		}

		// Completion: nothing queued, nothing running.
		if e.active == 0 {
			break
		}

		// Idle: block until some worker terminates, then update state and
		// release newly-ready dependents.
		e.reap(<-e.results)
	}

	return e.finish(mainName)
}

func (e *Engine) dispatch(r *model.Recipe) {
	st := e.states[r.Name]
	e.nextWorkerID++
	st.processing = true
	st.workerID = e.nextWorkerID
	e.active++
	if e.active > e.peak {
		e.peak = e.active
	}
	e.log.Recipe(r.Name).Log("dispatched to worker %d", st.workerID)
	go e.worker(r)
}

// worker is the supervisor for one dispatched recipe: it runs the recipe's
// tasks in declaration order, stopping at the first failure, and reports the
// outcome. It never touches engine state directly.
func (e *Engine) worker(r *model.Recipe) {
	rl := e.log.Recipe(r.Name)
	status := 0
	for i, task := range r.Tasks {
		rl.Log("task %d: %s", i+1, task)
		s := pipeline.Run(task)
		rl.Exit(s)
		if s != 0 {
			status = s
			break
		}
	}
	e.results <- result{recipe: r, status: status}
}

// reap handles one worker termination: classify, clear processing state,
// and enqueue any dependents that became ready.
func (e *Engine) reap(res result) {
	r := res.recipe
	st := e.states[r.Name]

	if res.status == 0 {
		st.completed = true
		e.log.Recipe(r.Name).Log("completed")
	} else {
		st.failed = true
		e.log.Recipe(r.Name).Log("failed with status %d", res.status)
	}
	e.outcomes[r.Name] = Outcome{
		Status:     statusString(st),
		ExitStatus: res.status,
		WorkerID:   st.workerID,
		At:         time.Now(),
	}
	st.exitStatus = res.status
	st.processing = false
	st.workerID = 0
	e.active--

	for _, dep := range e.graph.Dependents[r.Name] {
		depSt := e.states[dep.Name]
		if depSt.queued || !e.isReady(dep) {
			continue
		}
		depSt.queued = true
		e.ready.enqueue(dep)
	}
}

// isReady reports whether a recipe satisfies the dispatch precondition:
// required, not yet started or finished, and every dependency completed.
func (e *Engine) isReady(r *model.Recipe) bool {
	st := e.states[r.Name]
	if !st.required || st.processing || st.completed || st.failed {
		return false
	}
	for _, dep := range e.graph.DependsOn[r.Name] {
		if !e.states[dep.Name].completed {
			return false
		}
	}
	return true
}

func (e *Engine) finish(mainName string) (*Summary, error) {
	// Required recipes with no terminal state were skipped: a dependency
	// failed, so they never became ready.
	for _, name := range e.graph.Order {
		st := e.states[name]
		if !st.required {
			continue
		}
		if _, done := e.outcomes[name]; !done {
			e.outcomes[name] = Outcome{Status: "skipped"}
		}
	}

	sum := &Summary{
		Main:        mainName,
		PeakWorkers: e.peak,
		Outcomes:    e.outcomes,
	}

	st := e.states[mainName]
	switch {
	case st.completed:
		return sum, nil
	case st.failed:
		return sum, ErrMainRecipeFailed
	default:
		return sum, fmt.Errorf("main recipe %q was never prepared: a dependency failed", mainName)
	}
}

func statusString(st *recipeState) string {
	if st.completed {
		return "completed"
	}
	return "failed"
}
