package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetdispatch/internal/metrics"
)

// Status is a job lifecycle state. Transitions are monotonic:
// Pending -> Running -> Succeeded | Failed, never backwards.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool { return s == StatusSucceeded || s == StatusFailed }

// Work is one unit of background computation. The result becomes the job's
// Result on success; the error string becomes its Error on failure.
type Work func(ctx context.Context) (any, error)

// Job is a point-in-time snapshot of one submission. Snapshots returned by
// Status are copies; readers never observe partial writes.
type Job struct {
	ID          string    `json:"jobId"`
	Status      Status    `json:"status"`
	Result      any       `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

var ErrQueueFull = errors.New("jobs: queue full")

type queued struct {
	id   string
	work Work
}

// Runtime executes submitted work on a fixed worker pool over a bounded
// queue. The job table is the only shared mutable state; the worker that
// owns a job is its only writer after submission.
type Runtime struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	queue chan queued

	workers int
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// onTransition is invoked after each committed status change, outside
	// the table lock; used to publish watch events.
	onTransition func(Job)
}

// NewRuntime creates a stopped runtime. workers and queueDepth fall back to
// 4 and 64 when non-positive.
func NewRuntime(workers, queueDepth int, onTransition func(Job)) *Runtime {
	if workers <= 0 {
		workers = 4
	}
	if queueDepth <= 0 {
		queueDepth = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runtime{
		jobs:         map[string]*Job{},
		queue:        make(chan queued, queueDepth),
		workers:      workers,
		ctx:          ctx,
		cancel:       cancel,
		onTransition: onTransition,
	}
}

// Start launches the worker pool.
func (r *Runtime) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-r.ctx.Done():
					return
				case q := <-r.queue:
					r.execute(q)
				}
			}
		}()
	}
}

// Stop prevents new work from starting and waits for in-flight jobs to
// finish. Queued-but-unstarted jobs stay Pending.
func (r *Runtime) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Submit enqueues work and returns its job id immediately. The caller never
// blocks on execution; a full queue is reported as ErrQueueFull.
func (r *Runtime) Submit(work Work) (string, error) {
	id := uuid.New().String()
	job := Job{ID: id, Status: StatusPending, SubmittedAt: time.Now().UTC()}
	r.mu.Lock()
	r.jobs[id] = &job
	r.mu.Unlock()
	metrics.DispatchJobs.WithLabelValues(string(StatusPending)).Inc()
	// publish Pending before enqueueing so watchers always observe
	// transitions in order
	if r.onTransition != nil {
		r.onTransition(job)
	}
	select {
	case r.queue <- queued{id: id, work: work}:
	default:
		r.mu.Lock()
		delete(r.jobs, id)
		r.mu.Unlock()
		metrics.DispatchJobs.WithLabelValues(string(StatusPending)).Dec()
		return "", ErrQueueFull
	}
	return id, nil
}

// Status returns a snapshot of the job. Safe to call repeatedly; identical
// calls on a terminal job return identical results.
func (r *Runtime) Status(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

func (r *Runtime) execute(q queued) {
	r.transition(q.id, StatusRunning, nil, "")

	result, err := r.run(q.work)
	if err != nil {
		r.transition(q.id, StatusFailed, nil, err.Error())
		return
	}
	r.transition(q.id, StatusSucceeded, result, "")
}

// run invokes the work and converts a panic into a Failed job instead of
// taking down the pool.
func (r *Runtime) run(work Work) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("job panic: %v", rec)
			err = fmt.Errorf("internal failure: %v", rec)
		}
	}()
	return work(r.ctx)
}

func (r *Runtime) transition(id string, to Status, result any, errDetail string) {
	r.mu.Lock()
	j, ok := r.jobs[id]
	if !ok || j.Status.Terminal() {
		r.mu.Unlock()
		return
	}
	from := j.Status
	j.Status = to
	j.Result = result
	j.Error = errDetail
	if to.Terminal() {
		now := time.Now().UTC()
		j.FinishedAt = &now
	}
	snapshot := *j
	r.mu.Unlock()

	metrics.DispatchJobs.WithLabelValues(string(from)).Dec()
	metrics.DispatchJobs.WithLabelValues(string(to)).Inc()
	if r.onTransition != nil {
		r.onTransition(snapshot)
	}
}
