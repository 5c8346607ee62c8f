// Package taskqueue is the per-tab FIFO task runner (spec §5), grounded
// in _examples/original_source/task.py's TaskRunner: a condition
// variable guarding a task list and a needs_quit flag, with a worker
// goroutine that pops one task at a time and runs it outside the lock.
package taskqueue

import "sync"

// Task is an opaque unit of work (spec §5: "Tasks are opaque (callable +
// args)" — in Go, a closure already carries its args).
type Task func()

// Runner is one tab's FIFO task queue plus its worker goroutine.
type Runner struct {
	mu       sync.Mutex
	cond     *sync.Cond
	tasks    []Task
	needQuit bool
	started  bool
}

func New() *Runner {
	r := &Runner{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Start launches the worker goroutine. Idempotent.
func (r *Runner) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()
	go r.loop()
}

// Schedule appends t to the queue and wakes the worker.
func (r *Runner) Schedule(t Task) {
	r.mu.Lock()
	r.tasks = append(r.tasks, t)
	r.mu.Unlock()
	r.cond.Signal()
}

// ClearPending drops every queued task without interrupting one already
// running (spec §5: called on load and navigation).
func (r *Runner) ClearPending() {
	r.mu.Lock()
	r.tasks = nil
	r.mu.Unlock()
}

// Quit causes the worker to exit at its next queue check.
func (r *Runner) Quit() {
	r.mu.Lock()
	r.needQuit = true
	r.mu.Unlock()
	r.cond.Signal()
}

func (r *Runner) loop() {
	for {
		r.mu.Lock()
		for len(r.tasks) == 0 && !r.needQuit {
			r.cond.Wait()
		}
		if r.needQuit {
			r.mu.Unlock()
			return
		}
		t := r.tasks[0]
		r.tasks = r.tasks[1:]
		r.mu.Unlock()

		t()
	}
}
