/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persisted

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"k8s.io/utils/clock"
)

// storeTask is one scheduled write. A task is pending until its timer fires
// and started afterwards; only pending tasks can be cancelled.
type storeTask struct {
	id        string
	timer     clock.Timer
	started   bool
	cancelled bool
	done      chan struct{}
}

// scheduler holds the single pending-store slot and the ordering handles
// stores wait on. All fields are guarded by mu.
type scheduler struct {
	mu        sync.Mutex
	pending   *storeTask
	last      *storeTask
	retrieval chan struct{}
	seq       uint64
	closed    bool
}

// schedule replaces the pending store with a new one that fires after the
// repository's debounce interval.
func (v *Value[T]) schedule(repo Repository) {
	v.sched.mu.Lock()
	defer v.sched.mu.Unlock()

	if v.sched.closed {
		return
	}
	if v.cancelPendingLocked() {
		v.opts.metrics.Coalesced(v.key)
	}

	task := &storeTask{id: uuid.NewString(), done: make(chan struct{})}
	v.wg.Add(1)
	task.timer = v.opts.clock.AfterFunc(repo.Debounce(), func() {
		go v.run(task, repo)
	})
	v.sched.pending = task
	v.log.Debug("store scheduled", "task", task.id, "debounce", repo.Debounce())
}

// run commits task unless it was cancelled while its timer was firing.
func (v *Value[T]) run(task *storeTask, repo Repository) {
	defer v.wg.Done()

	v.sched.mu.Lock()
	if task.cancelled || v.sched.pending != task {
		v.sched.mu.Unlock()
		return
	}
	v.sched.pending = nil
	task.started = true
	prev := v.sched.last
	v.sched.last = task
	retrieval := v.sched.retrieval
	v.sched.mu.Unlock()

	defer close(task.done)
	_ = waitFor(v.ctx, doneOf(prev), retrieval)
	_ = v.commit(v.ctx, repo, task.id)
}

// startNow registers an immediate store, cancelling the pending one.
func (v *Value[T]) startNow() (task, prev *storeTask, retrieval <-chan struct{}) {
	v.sched.mu.Lock()
	defer v.sched.mu.Unlock()

	v.cancelPendingLocked()
	task = &storeTask{id: uuid.NewString(), started: true, done: make(chan struct{})}
	prev = v.sched.last
	v.sched.last = task
	return task, prev, v.sched.retrieval
}

// cancelPendingLocked drops the pending store. It reports whether there was one.
func (v *Value[T]) cancelPendingLocked() bool {
	task := v.sched.pending
	if task == nil {
		return false
	}
	v.sched.pending = nil
	task.cancelled = true
	if task.timer.Stop() {
		v.wg.Done()
	}
	v.log.Debug("pending store cancelled", "task", task.id)
	return true
}

// retrieval identifies one retrieval. gen is the mutation count when it
// began; a retrieved value is only applied if no mutation happened since.
type retrieval struct {
	done chan struct{}
	seq  uint64
	gen  uint64
}

// beginRetrieval makes later stores wait for the retrieval it starts. The
// returned done channel must be closed when the retrieval ends.
func (v *Value[T]) beginRetrieval() retrieval {
	v.mu.Lock()
	r := retrieval{done: make(chan struct{}), gen: v.gen}
	v.status = Status{State: Retrieving}
	v.mu.Unlock()

	v.sched.mu.Lock()
	defer v.sched.mu.Unlock()
	v.sched.retrieval = r.done
	v.sched.seq++
	r.seq = v.sched.seq
	return r
}

func (v *Value[T]) currentRetrieval(seq uint64) bool {
	v.sched.mu.Lock()
	defer v.sched.mu.Unlock()
	return !v.sched.closed && v.sched.seq == seq
}

func (v *Value[T]) isClosed() bool {
	v.sched.mu.Lock()
	defer v.sched.mu.Unlock()
	return v.sched.closed
}

func doneOf(task *storeTask) <-chan struct{} {
	if task == nil {
		return nil
	}
	return task.done
}

// waitFor blocks until every non-nil channel is closed or ctx ends.
func waitFor(ctx context.Context, chans ...<-chan struct{}) error {
	for _, ch := range chans {
		if ch == nil {
			continue
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
