package engine

import "github.com/getcook-dev/cook/internal/model"

// recipeState is the engine-owned mutable record for one recipe.
//
// Invariants, held at every point the scheduler loop can observe:
//   - completed and failed are mutually exclusive; both imply !processing
//   - processing implies workerID != 0 and the recipe is not in the ready queue
//   - queued is set the first time the recipe enters the ready queue and
//     never cleared, so a recipe is enqueued at most once per run
type recipeState struct {
	required   bool
	processing bool
	completed  bool
	failed     bool
	queued     bool
	workerID   int // non-zero while processing
	exitStatus int // worker exit status once completed or failed
}

// readyQueue is a FIFO of recipes whose dependencies are satisfied and which
// have not yet been dispatched. Access is confined to the scheduler loop.
type readyQueue struct {
	items []*model.Recipe
}

func (q *readyQueue) enqueue(r *model.Recipe) {
	q.items = append(q.items, r)
}

func (q *readyQueue) dequeue() (*model.Recipe, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	r := q.items[0]
	q.items = q.items[1:]
	return r, true
}

func (q *readyQueue) empty() bool {
	return len(q.items) == 0
}
