/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persisted

import (
	"reflect"

	"github.com/suparena/persist/observable"
)

// rewalk drops the subscriptions of the previous walk and subscribes to the
// current value and every observable descendant.
func (v *Value[T]) rewalk() {
	v.subsMu.Lock()
	defer v.subsMu.Unlock()

	for _, cancel := range v.subs {
		cancel()
	}
	v.subs = v.subs[:0]

	if v.isClosed() {
		return
	}
	v.subscribe(any(v.Get()), make(map[any]struct{}))
}

func (v *Value[T]) subscribe(node any, visited map[any]struct{}) {
	if isNil(node) || seen(visited, node) {
		return
	}
	if o, ok := node.(observable.Observable); ok {
		v.subs = append(v.subs,
			o.ObserveWillChange(v.childWillChange),
			o.ObserveDidChange(v.childDidChange),
		)
	}
	if a, ok := node.(observable.Aggregate); ok {
		for _, child := range a.ObservableChildren() {
			v.subscribe(child, visited)
		}
	}
}

func (v *Value[T]) releaseSubscriptions() {
	v.subsMu.Lock()
	defer v.subsMu.Unlock()

	for _, cancel := range v.subs {
		cancel()
	}
	v.subs = nil
}

func (v *Value[T]) childWillChange() {
	v.pub.WillChange()
}

// childDidChange handles a mutation inside the value graph. The graph is
// walked again since the mutation may have added or removed children.
func (v *Value[T]) childDidChange() {
	v.pub.DidChange()
	v.rewalk()
	if v.loading.Load() {
		return
	}

	v.changeMu.Lock()
	v.mu.Lock()
	v.gen++
	v.mu.Unlock()
	v.changeMu.Unlock()
	v.scheduleStore()
}

// didLoad calls DidLoad on every Loader in the graph, children before parents.
func didLoad(node any, visited map[any]struct{}) {
	if isNil(node) || seen(visited, node) {
		return
	}
	if a, ok := node.(observable.Aggregate); ok {
		for _, child := range a.ObservableChildren() {
			didLoad(child, visited)
		}
	}
	if l, ok := node.(observable.Loader); ok {
		l.DidLoad()
	}
}

// isNil reports whether node is nil or holds a nil pointer, map, slice,
// channel or func. Such children are skipped.
func isNil(node any) bool {
	if node == nil {
		return true
	}
	switch rv := reflect.ValueOf(node); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// seen marks node as visited and reports whether it already was. Values that
// cannot be map keys are never marked.
func seen(visited map[any]struct{}, node any) (dup bool) {
	defer func() {
		if recover() != nil {
			dup = false
		}
	}()
	if _, ok := visited[node]; ok {
		return true
	}
	visited[node] = struct{}{}
	return false
}
