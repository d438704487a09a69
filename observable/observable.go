/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package observable

import "sync"

// Cancel releases a subscription. Calling it more than once is harmless.
type Cancel func()

// Observable reports mutations to its subscribers.
type Observable interface {
	ObserveWillChange(fn func()) Cancel
	ObserveDidChange(fn func()) Cancel
}

// Aggregate enumerates the children of a value that may themselves be
// Observable or Aggregate. Leaves are simply not listed.
type Aggregate interface {
	ObservableChildren() []any
}

// Loader is implemented by values that want a hook after being loaded from storage.
type Loader interface {
	DidLoad()
}

type handler struct {
	id uint64
	fn func()
}

// Publisher implements Observable. The zero value is ready to use.
type Publisher struct {
	mu     sync.Mutex
	nextID uint64
	will   []handler
	did    []handler
}

var _ Observable = (*Publisher)(nil)

func (p *Publisher) ObserveWillChange(fn func()) Cancel {
	return p.subscribe(&p.will, fn)
}

func (p *Publisher) ObserveDidChange(fn func()) Cancel {
	return p.subscribe(&p.did, fn)
}

// WillChange notifies "will change" subscribers.
func (p *Publisher) WillChange() {
	p.dispatch(&p.will)
}

// DidChange notifies "did change" subscribers.
func (p *Publisher) DidChange() {
	p.dispatch(&p.did)
}

// Change runs fn between a WillChange and a DidChange.
func (p *Publisher) Change(fn func()) {
	p.WillChange()
	fn()
	p.DidChange()
}

// Subscribers reports how many handlers are currently registered.
func (p *Publisher) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.will) + len(p.did)
}

func (p *Publisher) subscribe(list *[]handler, fn func()) Cancel {
	if fn == nil {
		return func() {}
	}

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	*list = append(*list, handler{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, h := range *list {
				if h.id == id {
					*list = append((*list)[:i:i], (*list)[i+1:]...)
					return
				}
			}
		})
	}
}

// dispatch calls a snapshot of the handlers without holding the lock, so
// handlers may subscribe or cancel while running.
func (p *Publisher) dispatch(list *[]handler) {
	p.mu.Lock()
	snapshot := append([]handler(nil), *list...)
	p.mu.Unlock()

	for _, h := range snapshot {
		h.fn()
	}
}
