/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persisted

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/persist/repository"
)

// Kind tells synchronous and asynchronous repositories apart.
type Kind int

const (
	KindSync Kind = iota
	KindAsync
)

func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindAsync:
		return "async"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Repository is the backend a Value is bound to: either a synchronous
// backend or an asynchronous one with a debounce interval. A Repository
// without a backend keeps the value in memory only. The zero value is
// Sync(nil).
type Repository struct {
	kind     Kind
	sync     repository.SimpleSync
	async    repository.SimpleAsync
	debounce time.Duration
}

// Sync binds to a blocking backend. Stores run inline on the mutating goroutine.
func Sync(backend repository.SimpleSync) Repository {
	return Repository{kind: KindSync, sync: backend}
}

// Async binds to a cancellable backend. Stores are coalesced over debounce.
func Async(backend repository.SimpleAsync, debounce time.Duration) Repository {
	if debounce < 0 {
		debounce = 0
	}
	return Repository{kind: KindAsync, async: backend, debounce: debounce}
}

func (r Repository) Kind() Kind {
	return r.kind
}

// Debounce returns the store delay of an asynchronous repository.
func (r Repository) Debounce() time.Duration {
	return r.debounce
}

// InMemory reports whether the repository has no backend.
func (r Repository) InMemory() bool {
	if r.kind == KindAsync {
		return r.async == nil
	}
	return r.sync == nil
}

func (r Repository) retrieve(ctx context.Context, key string) ([]byte, error) {
	switch {
	case r.InMemory():
		return nil, nil
	case r.kind == KindAsync:
		return r.async.RetrieveContext(ctx, key)
	default:
		return r.sync.Retrieve(key)
	}
}

func (r Repository) store(ctx context.Context, key string, data []byte) error {
	switch {
	case r.InMemory():
		return nil
	case r.kind == KindAsync:
		return r.async.StoreContext(ctx, key, data)
	default:
		return r.sync.Store(key, data)
	}
}
