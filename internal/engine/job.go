package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"go.nomake.dev/nomake/internal/core/ports"
)

// jobSlots bounds outstanding pids at exactly the `-j` setting, per
// spec.md §5 and testable property 7 ("outstanding pids ≤ -j setting").
// Grounded on original_source/execution.hh's `jobs` counter; a
// semaphore.Weighted is the idiomatic Go fit for a bounded count where
// acquisition can block.
type jobSlots struct {
	sem *semaphore.Weighted
	n   int64

	// pidsMu guards pids, kept separate from the cache's own mutex so
	// TerminateAll never has to wait on whatever the scheduler is doing
	// with the dependency graph. This is the Go analogue of
	// original_source/execution.hh's "known-fragile area" around
	// job_terminate_all walking executions_by_pid from a signal handler:
	// here the signal is delivered to an ordinary goroutine (via
	// os/signal.Notify), so there is no async-signal-safety constraint.
	// pidsMu is not held while a job is spawned: a job is tracked only
	// after ProcessSpawner.Start returns, so TerminateAll does not reach a
	// job whose Start is still in progress.
	pidsMu sync.Mutex
	pids   map[int]ports.Job
}

func newJobSlots(n int) *jobSlots {
	if n < 1 {
		n = 1
	}
	return &jobSlots{
		sem:  semaphore.NewWeighted(int64(n)),
		n:    int64(n),
		pids: make(map[int]ports.Job),
	}
}

// acquire blocks until a job slot is free or ctx is done.
func (j *jobSlots) acquire(ctx context.Context) error {
	return j.sem.Acquire(ctx, 1)
}

func (j *jobSlots) release() {
	j.sem.Release(1)
}

// track registers a started job so TerminateAll can reach it.
func (j *jobSlots) track(job ports.Job) {
	j.pidsMu.Lock()
	defer j.pidsMu.Unlock()
	j.pids[job.Pid()] = job
}

// untrack removes a finished job.
func (j *jobSlots) untrack(job ports.Job) {
	j.pidsMu.Lock()
	defer j.pidsMu.Unlock()
	delete(j.pids, job.Pid())
}

// TerminateAll sends SIGTERM to every outstanding job's process group.
// Mirrors original_source/execution.hh's job_terminate_all: kill every
// tracked group, the caller is responsible for then draining outstanding
// waits.
func (j *jobSlots) TerminateAll() {
	j.pidsMu.Lock()
	defer j.pidsMu.Unlock()
	for _, job := range j.pids {
		_ = job.TerminateGroup()
	}
}

// outstanding returns the number of jobs currently tracked, for tests of
// testable property 7.
func (j *jobSlots) outstanding() int {
	j.pidsMu.Lock()
	defer j.pidsMu.Unlock()
	return len(j.pids)
}
