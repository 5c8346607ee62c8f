package taskqueue

import (
	"testing"
	"time"
)

func TestRunnerExecutesTasksInFIFOOrder(t *testing.T) {
	r := New()
	r.Start()

	results := make(chan int, 3)
	r.Schedule(func() { results <- 1 })
	r.Schedule(func() { results <- 2 })
	r.Schedule(func() { results <- 3 })

	for i, want := range []int{1, 2, 3} {
		select {
		case got := <-results:
			if got != want {
				t.Fatalf("task %d ran out of order: got %d, want %d", i, got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for task %d", i)
		}
	}
	r.Quit()
}

func TestRunnerClearPendingDropsUnstartedTasks(t *testing.T) {
	r := New()
	// Don't Start yet: schedule tasks, then clear before the worker runs.
	ran := make(chan struct{}, 1)
	r.Schedule(func() { ran <- struct{}{} })
	r.ClearPending()
	r.Start()

	select {
	case <-ran:
		t.Fatal("a task cleared before the worker started must not run")
	case <-time.After(100 * time.Millisecond):
	}
	r.Quit()
}

func TestRunnerQuitStopsTheWorker(t *testing.T) {
	r := New()
	r.Start()
	r.Quit()

	done := make(chan struct{})
	go func() {
		// Scheduling after Quit should not be picked up; give the worker
		// a chance to have actually exited its loop.
		time.Sleep(20 * time.Millisecond)
		close(done)
	}()
	<-done

	ran := make(chan struct{}, 1)
	r.Schedule(func() { ran <- struct{}{} })
	select {
	case <-ran:
		t.Fatal("a quit runner must not execute newly scheduled tasks")
	case <-time.After(100 * time.Millisecond):
	}
}
