/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-memory key-value repository. It records every
// call and can simulate failures, which makes it the default backend for tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/repository"
)

// Call records one operation made against the Store.
type Call struct {
	Op   string
	Key  string
	Data []byte
	At   time.Time
}

// Hook runs before a write reaches the map. It may block to simulate a slow backend.
type Hook func(ctx context.Context, key string, data []byte)

// Store is an in-memory implementation of repository.SimpleSync and repository.SimpleAsync
type Store struct {
	mu          sync.RWMutex
	data        map[string][]byte
	calls       []Call
	storeHook   Hook
	storeErr    error
	retrieveErr error
	deleteErr   error
}

var _ repository.KeyValue = (*Store)(nil)

// New creates a new in-memory Store
func New() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// WithStoreError makes Store operations return an error
func (m *Store) WithStoreError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErr = err
	return m
}

// WithRetrieveError makes Retrieve operations return an error
func (m *Store) WithRetrieveError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrieveErr = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *Store) WithDeleteError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErr = err
	return m
}

// WithStoreHook installs a hook that runs at the start of every store
func (m *Store) WithStoreHook(h Hook) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeHook = h
	return m
}

// Delete removes the item stored under key
func (m *Store) Delete(key string) error {
	return m.DeleteContext(context.Background(), key)
}

// Store writes a copy of data under key
func (m *Store) Store(key string, data []byte) error {
	return m.StoreContext(context.Background(), key, data)
}

// Retrieve returns a copy of the bytes stored under key, or nil
func (m *Store) Retrieve(key string) ([]byte, error) {
	return m.RetrieveContext(context.Background(), key)
}

// DeleteContext removes the item stored under key
func (m *Store) DeleteContext(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewBackendError("delete", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("delete", key, nil)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, key)
	return nil
}

// StoreContext writes a copy of data under key
func (m *Store) StoreContext(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.NewBackendError("store", key, err)
	}

	m.mu.RLock()
	hook := m.storeHook
	m.mu.RUnlock()
	if hook != nil {
		hook(ctx, key, data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("store", key, data)
	if m.storeErr != nil {
		return m.storeErr
	}
	m.data[key] = clone(data)
	return nil
}

// RetrieveContext returns a copy of the bytes stored under key, or nil
func (m *Store) RetrieveContext(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewBackendError("retrieve", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("retrieve", key, nil)
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return clone(data), nil
}

// Helper methods for testing

// SetData directly sets the internal data map
func (m *Store) SetData(data map[string][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte, len(data))
	for k, v := range data {
		m.data[k] = clone(v)
	}
}

// GetData returns a copy of the internal data map
func (m *Store) GetData() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		result[k] = clone(v)
	}
	return result
}

// Count returns the number of stored items
func (m *Store) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Calls returns the recorded calls for op, or every call when op is empty
func (m *Store) Calls(op string) []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Call
	for _, c := range m.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// StoreCount returns how many store calls reached the Store
func (m *Store) StoreCount() int {
	return len(m.Calls("store"))
}

// Clear removes all data and recorded calls
func (m *Store) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.calls = nil
}

func (m *Store) record(op, key string, data []byte) {
	m.calls = append(m.calls, Call{Op: op, Key: key, Data: clone(data), At: time.Now()})
}

func clone(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
