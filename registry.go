/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persist

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/persist/codec"
	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/persisted"
	"github.com/suparena/persist/repository"
)

// Entry is a named, fully assembled repository.
type Entry struct {
	// Repository binds persisted values to the decorated backend.
	Repository persisted.Repository
	// KeyValue is the decorated byte-level repository.
	KeyValue repository.KeyValue
	// Full is set when the backend also supports metadata, rename and sequences.
	Full repository.Full
	// Codec encodes values stored through this entry.
	Codec codec.Codec
	// Close releases backend connections. It may be nil.
	Close func() error
}

// Registry holds named repositories. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds an entry under name
func (r *Registry) Register(name string, e Entry) error {
	if name == "" {
		return errors.NewValidationError("name", "must not be empty")
	}
	if e.KeyValue == nil && e.Full == nil {
		return errors.NewValidationError("repository", fmt.Sprintf("entry %q has no repository", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("repository %q already registered", name)
	}
	if e.Codec == nil {
		e.Codec = codec.JSON()
	}
	r.entries[name] = e
	return nil
}

// Get retrieves an entry by name
func (r *Registry) Get(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[name]
	if !exists {
		return Entry{}, fmt.Errorf("repository %q not found", name)
	}
	return e, nil
}

// Remove deletes an entry by name without closing it
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		return fmt.Errorf("repository %q not found", name)
	}
	delete(r.entries, name)
	return nil
}

// List returns the registered names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every entry and empties the registry. It returns the first error.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]Entry)
	r.mu.Unlock()

	var first error
	for name, e := range entries {
		if e.Close == nil {
			continue
		}
		if err := e.Close(); err != nil && first == nil {
			first = fmt.Errorf("closing repository %q: %w", name, err)
		}
	}
	return first
}

// Bind creates a persisted value stored under key in the named repository,
// using the entry's codec unless opts override it.
func Bind[T any](ctx context.Context, r *Registry, name, key string, initial T, opts ...persisted.Option) (*persisted.Value[T], error) {
	e, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.NewValidationError("key", "must not be empty")
	}

	opts = append([]persisted.Option{persisted.WithCodec(e.Codec)}, opts...)
	return persisted.New(ctx, initial, key, e.Repository, opts...), nil
}
