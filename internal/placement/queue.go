// Package placement orchestrates the window placement pipeline.
package placement

import "sync"

// DeferredTask is a second-phase placement scheduled for after the current
// pass, carrying the coordinates to re-validate under the window's new DPI.
type DeferredTask struct {
	Request Request
}

// DeferredQueue holds placements deferred to the next scheduling tick.
// Draining is explicit so tests drive it deterministically instead of
// relying on wall-clock timing.
type DeferredQueue struct {
	mu    sync.Mutex
	tasks []DeferredTask
}

// NewDeferredQueue returns an empty queue.
func NewDeferredQueue() *DeferredQueue {
	return &DeferredQueue{}
}

// Enqueue appends a task for the next tick.
func (q *DeferredQueue) Enqueue(task DeferredTask) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Drain removes and returns all queued tasks in enqueue order. Tasks
// enqueued while draining land in the following tick.
func (q *DeferredQueue) Drain() []DeferredTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := q.tasks
	q.tasks = nil
	return tasks
}

// Len returns the number of queued tasks.
func (q *DeferredQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
