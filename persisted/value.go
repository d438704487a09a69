/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persisted

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/metrics"
	"github.com/suparena/persist/observable"
)

// Value is an in-memory value bound to a key in a Repository.
// It is safe for concurrent use.
type Value[T any] struct {
	key  string
	opts options
	log  *slog.Logger
	ctx  context.Context
	pub  observable.Publisher

	// changeMu serializes will, swap and did for Set and applied retrievals.
	changeMu sync.Mutex

	mu        sync.RWMutex
	value     T
	repo      Repository
	status    Status
	lastError error
	gen       uint64 // bumped by every local mutation

	// loading suppresses stores while a retrieved value is being applied.
	loading atomic.Bool

	subsMu sync.Mutex
	subs   []observable.Cancel

	sched scheduler
	wg    sync.WaitGroup
}

var _ observable.Observable = (*Value[int])(nil)

// New creates a Value holding initial and starts retrieving key from repo.
// A synchronous repository is read before New returns; an asynchronous one is
// read in the background. ctx scopes the retrieval and carries values into
// later stores, but its cancellation does not cancel them.
func New[T any](ctx context.Context, initial T, key string, repo Repository, opts ...Option) *Value[T] {
	if key == "" {
		panic("persisted: New requires a key")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := &Value[T]{
		key:    key,
		opts:   o,
		log:    o.logger.With("key", key),
		ctx:    context.WithoutCancel(ctx),
		value:  initial,
		repo:   repo,
		status: Status{State: Initializing},
	}
	v.rewalk()
	v.startRetrieval(ctx, repo)
	return v
}

// Key returns the key the value is stored under
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the current in-memory value
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Status returns the outcome of the most recent operation
func (v *Value[T]) Status() Status {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

// LastError returns the most recent failure, cleared by the next success.
func (v *Value[T]) LastError() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastError
}

// Repository returns the repository the value is bound to
func (v *Value[T]) Repository() Repository {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.repo
}

// Set replaces the value and stores it. Observers see exactly one will
// change before the swap and one did change after it. Change observers must
// not call Set or mutate the value graph themselves.
func (v *Value[T]) Set(value T) {
	v.changeMu.Lock()
	v.pub.WillChange()
	v.mu.Lock()
	v.value = value
	v.gen++
	v.mu.Unlock()
	v.rewalk()
	v.pub.DidChange()
	v.changeMu.Unlock()
	v.scheduleStore()
}

// Update sets the value to fn applied to the current value.
func (v *Value[T]) Update(fn func(T) T) {
	v.Set(fn(v.Get()))
}

func (v *Value[T]) ObserveWillChange(fn func()) observable.Cancel {
	return v.pub.ObserveWillChange(fn)
}

func (v *Value[T]) ObserveDidChange(fn func()) observable.Cancel {
	return v.pub.ObserveDidChange(fn)
}

// Retrieve reloads the value from the repository and blocks until done.
// A key with nothing stored leaves the value unchanged and is not an error.
func (v *Value[T]) Retrieve(ctx context.Context) error {
	r := v.beginRetrieval()
	defer close(r.done)
	return v.retrieve(ctx, v.Repository(), r)
}

// Store writes the current value now, replacing any pending debounced store.
func (v *Value[T]) Store(ctx context.Context) error {
	repo := v.Repository()
	if repo.InMemory() {
		return nil
	}

	task, prev, retrieval := v.startNow()
	defer close(task.done)

	if err := waitFor(ctx, doneOf(prev), retrieval); err != nil {
		return err
	}
	return v.commit(ctx, repo, task.id)
}

// Rebind switches to repo, cancelling any pending store, and retrieves the
// key from the new repository.
func (v *Value[T]) Rebind(ctx context.Context, repo Repository) {
	v.sched.mu.Lock()
	v.cancelPendingLocked()
	v.sched.mu.Unlock()

	v.mu.Lock()
	v.repo = repo
	v.mu.Unlock()

	v.log.Debug("repository rebound", "kind", repo.Kind())
	v.startRetrieval(ctx, repo)
}

// Wait blocks until background retrievals and scheduled stores have finished.
// A store still waiting out its debounce delay is waited for.
func (v *Value[T]) Wait() {
	v.wg.Wait()
}

// Close releases subscriptions on the value graph and discards a pending
// store without writing it. A store already in progress completes.
func (v *Value[T]) Close() {
	v.sched.mu.Lock()
	if v.sched.closed {
		v.sched.mu.Unlock()
		return
	}
	v.sched.closed = true
	if v.cancelPendingLocked() {
		v.log.Debug("pending store discarded on close")
	}
	v.sched.mu.Unlock()

	v.releaseSubscriptions()
}

func (v *Value[T]) startRetrieval(ctx context.Context, repo Repository) {
	r := v.beginRetrieval()
	if repo.Kind() == KindAsync && !repo.InMemory() {
		v.wg.Add(1)
		go func() {
			defer v.wg.Done()
			defer close(r.done)
			_ = v.retrieve(ctx, repo, r)
		}()
		return
	}

	defer close(r.done)
	_ = v.retrieve(ctx, repo, r)
}

func (v *Value[T]) retrieve(ctx context.Context, repo Repository, r retrieval) error {
	data, err := repo.retrieve(ctx, v.key)
	if err != nil {
		if errors.IsCancelled(err) {
			v.log.Debug("retrieval cancelled", "err", err)
			v.setIdle(false)
			return err
		}
		v.opts.metrics.Retrieved(v.key, metrics.ResultError)
		v.fail("retrieve", err)
		return err
	}

	if data == nil {
		v.log.Debug("nothing stored, keeping current value")
		v.opts.metrics.Retrieved(v.key, metrics.ResultNotFound)
		v.setIdle(true)
		return nil
	}

	var loaded T
	if err := v.opts.codec.Unmarshal(data, &loaded); err != nil {
		v.opts.metrics.Retrieved(v.key, metrics.ResultError)
		v.fail("retrieve", err)
		return err
	}

	if v.apply(loaded, r) {
		v.log.Debug("value retrieved", "bytes", len(data))
		v.opts.metrics.Retrieved(v.key, metrics.ResultOK)
	} else {
		v.log.Debug("retrieved value discarded, value changed meanwhile")
		v.opts.metrics.Retrieved(v.key, metrics.ResultDiscarded)
	}
	v.setIdle(true)
	return nil
}

// apply installs a retrieved value unless a local mutation, a newer
// retrieval or Close happened since the retrieval began.
func (v *Value[T]) apply(loaded T, r retrieval) bool {
	v.changeMu.Lock()
	v.mu.RLock()
	stale := v.gen != r.gen
	v.mu.RUnlock()
	if stale || !v.currentRetrieval(r.seq) {
		v.changeMu.Unlock()
		return false
	}

	v.loading.Store(true)
	defer v.loading.Store(false)

	v.pub.WillChange()
	v.mu.Lock()
	v.value = loaded
	v.mu.Unlock()
	v.rewalk()
	v.pub.DidChange()
	v.changeMu.Unlock()

	didLoad(any(loaded), make(map[any]struct{}))
	return true
}

// scheduleStore persists the value after a mutation.
func (v *Value[T]) scheduleStore() {
	repo := v.Repository()
	if repo.InMemory() || v.isClosed() {
		return
	}
	if repo.Kind() == KindSync {
		_ = v.commit(v.ctx, repo, uuid.NewString())
		return
	}
	v.schedule(repo)
}

// commit encodes the current value and writes it to repo.
func (v *Value[T]) commit(ctx context.Context, repo Repository, task string) error {
	log := v.log.With("task", task)

	data, err := v.opts.codec.Marshal(v.Get())
	if err != nil {
		v.fail("store", err)
		return err
	}

	v.setStatus(Status{State: Storing})
	start := time.Now()
	err = repo.store(ctx, v.key, data)
	took := time.Since(start)
	if err != nil {
		v.opts.metrics.Stored(v.key, metrics.ResultError, took)
		v.fail("store", err)
		return err
	}

	v.opts.metrics.Stored(v.key, metrics.ResultOK, took)
	log.Debug("value stored", "bytes", len(data), "took", took)
	v.setIdle(true)
	return nil
}

func (v *Value[T]) setStatus(s Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
}

// setIdle returns to Idle. A successful operation also clears the last error.
func (v *Value[T]) setIdle(success bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = Status{State: Idle}
	if success {
		v.lastError = nil
	}
}

func (v *Value[T]) fail(op string, err error) {
	v.mu.Lock()
	v.status = Status{State: Failed, Err: err}
	v.lastError = err
	v.mu.Unlock()

	v.log.Warn("persisted value operation failed", "op", op, "err", err)
}
