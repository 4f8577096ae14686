package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func waitTerminal(t *testing.T, r *Runtime, id string) Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if j, ok := r.Status(id); ok && j.Status.Terminal() {
			return j
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach a terminal state", id)
	return Job{}
}

func TestSubmitRunsToSuccess(t *testing.T) {
	r := NewRuntime(2, 8, nil)
	r.Start()
	defer r.Stop()

	id, err := r.Submit(func(ctx context.Context) (any, error) { return 42, nil })
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	j := waitTerminal(t, r, id)
	if j.Status != StatusSucceeded {
		t.Fatalf("status = %s, want SUCCEEDED", j.Status)
	}
	if j.Result != 42 {
		t.Fatalf("result = %v, want 42", j.Result)
	}
	if j.FinishedAt == nil {
		t.Fatalf("FinishedAt not set")
	}
}

func TestFailedJobCarriesErrorDetail(t *testing.T) {
	r := NewRuntime(1, 8, nil)
	r.Start()
	defer r.Stop()

	id, _ := r.Submit(func(ctx context.Context) (any, error) { return nil, errors.New("boom") })
	j := waitTerminal(t, r, id)
	if j.Status != StatusFailed || j.Error != "boom" {
		t.Fatalf("got %s %q", j.Status, j.Error)
	}
}

func TestPanicMarksJobFailed(t *testing.T) {
	r := NewRuntime(1, 8, nil)
	r.Start()
	defer r.Stop()

	id, _ := r.Submit(func(ctx context.Context) (any, error) { panic("kaboom") })
	j := waitTerminal(t, r, id)
	if j.Status != StatusFailed {
		t.Fatalf("status = %s, want FAILED", j.Status)
	}

	// the pool must survive the panic
	id2, _ := r.Submit(func(ctx context.Context) (any, error) { return "ok", nil })
	if j2 := waitTerminal(t, r, id2); j2.Status != StatusSucceeded {
		t.Fatalf("pool dead after panic: %s", j2.Status)
	}
}

func TestTerminalStatusIsStable(t *testing.T) {
	r := NewRuntime(1, 8, nil)
	r.Start()
	defer r.Stop()

	id, _ := r.Submit(func(ctx context.Context) (any, error) { return "done", nil })
	first := waitTerminal(t, r, id)
	for i := 0; i < 10; i++ {
		again, ok := r.Status(id)
		if !ok || again != first {
			t.Fatalf("read %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestUnknownJob(t *testing.T) {
	r := NewRuntime(1, 1, nil)
	if _, ok := r.Status("nope"); ok {
		t.Fatalf("unknown id should not resolve")
	}
}

func TestQueueFull(t *testing.T) {
	r := NewRuntime(1, 1, nil) // not started: nothing drains the queue
	if _, err := r.Submit(func(ctx context.Context) (any, error) { return nil, nil }); err != nil {
		t.Fatalf("first submit should queue: %v", err)
	}
	if _, err := r.Submit(func(ctx context.Context) (any, error) { return nil, nil }); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
}

func TestTransitionsAreMonotonic(t *testing.T) {
	var mu sync.Mutex
	var seen []Status
	r := NewRuntime(1, 8, func(j Job) {
		mu.Lock()
		seen = append(seen, j.Status)
		mu.Unlock()
	})
	r.Start()
	defer r.Stop()

	id, _ := r.Submit(func(ctx context.Context) (any, error) { return nil, nil })
	waitTerminal(t, r, id)

	mu.Lock()
	defer mu.Unlock()
	want := []Status{StatusPending, StatusRunning, StatusSucceeded}
	if len(seen) != 3 {
		t.Fatalf("transitions = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d = %s, want %s", i, seen[i], want[i])
		}
	}
}
