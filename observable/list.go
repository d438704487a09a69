/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observable

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// List is an observable collection. Every structural mutation is wrapped in
// a will/did notification pair, and the elements are its observable children.
// It encodes as a plain array.
type List[T any] struct {
	Publisher

	mu    sync.RWMutex
	items []T
}

var (
	_ Observable = (*List[int])(nil)
	_ Aggregate  = (*List[int])(nil)
)

// NewList creates a List holding items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// Len returns the number of elements
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the element at index i. It panics if i is out of range.
func (l *List[T]) At(i int) T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[i]
}

// Items returns a copy of the elements
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Append adds items to the end of the list
func (l *List[T]) Append(items ...T) {
	l.mutate(func() {
		l.items = append(l.items, items...)
	})
}

// Insert places item at index i, shifting later elements.
func (l *List[T]) Insert(i int, item T) {
	l.checkIndex(i, true)
	l.mutate(func() {
		var zero T
		l.items = append(l.items, zero)
		copy(l.items[i+1:], l.items[i:])
		l.items[i] = item
	})
}

// Remove deletes and returns the element at index i.
func (l *List[T]) Remove(i int) T {
	l.checkIndex(i, false)
	var removed T
	l.mutate(func() {
		removed = l.items[i]
		l.items = append(l.items[:i], l.items[i+1:]...)
	})
	return removed
}

// Set replaces the element at index i.
func (l *List[T]) Set(i int, item T) {
	l.checkIndex(i, false)
	l.mutate(func() {
		l.items[i] = item
	})
}

// ObservableChildren returns the elements
func (l *List[T]) ObservableChildren() []any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	children := make([]any, len(l.items))
	for i, item := range l.items {
		children[i] = item
	}
	return children
}

func (l *List[T]) MarshalJSON() ([]byte, error) {
	items := l.Items()
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	l.replace(items)
	return nil
}

func (l *List[T]) MarshalYAML() (interface{}, error) {
	items := l.Items()
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (l *List[T]) UnmarshalYAML(node *yaml.Node) error {
	var items []T
	if err := node.Decode(&items); err != nil {
		return err
	}
	l.replace(items)
	return nil
}

// replace swaps the contents without notifying; decoding is a load, not a mutation.
func (l *List[T]) replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
}

// mutate notifies around fn. The lock is not held while subscribers run.
func (l *List[T]) mutate(fn func()) {
	l.WillChange()
	l.mu.Lock()
	fn()
	l.mu.Unlock()
	l.DidChange()
}

func (l *List[T]) checkIndex(i int, inclusive bool) {
	n := l.Len()
	if i < 0 || i > n || (i == n && !inclusive) {
		panic(fmt.Sprintf("observable: index %d out of range [0:%d]", i, n))
	}
}
