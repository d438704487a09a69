/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import "context"

// Sequence is a lazy, single-pass, forward-only cursor. Next advances to the
// following element and reports false once the sequence is exhausted or has
// failed; Err then reports the failure, if any.
type Sequence[T any] interface {
	Next() bool
	Value() T
	Err() error
}

// NextFunc produces the following element of a sequence. It returns false
// when the sequence is exhausted.
type NextFunc[T any] func() (T, bool, error)

type funcSequence[T any] struct {
	next NextFunc[T]
	cur  T
	err  error
	done bool
}

// NewSequence builds a Sequence that calls next once per Next.
func NewSequence[T any](next NextFunc[T]) Sequence[T] {
	return &funcSequence[T]{next: next}
}

func (s *funcSequence[T]) Next() bool {
	if s.done {
		return false
	}

	v, ok, err := s.next()
	if err != nil || !ok {
		var zero T
		s.cur = zero
		s.err = err
		s.done = true
		return false
	}

	s.cur = v
	return true
}

func (s *funcSequence[T]) Value() T {
	return s.cur
}

func (s *funcSequence[T]) Err() error {
	return s.err
}

// SliceSequence iterates over items without copying them.
func SliceSequence[T any](items ...T) Sequence[T] {
	i := 0
	return NewSequence(func() (T, bool, error) {
		if i >= len(items) {
			var zero T
			return zero, false, nil
		}
		v := items[i]
		i++
		return v, true, nil
	})
}

// ErrSequence returns a sequence that fails on its first Next.
func ErrSequence[T any](err error) Sequence[T] {
	return NewSequence(func() (T, bool, error) {
		var zero T
		return zero, false, err
	})
}

// MapSequence lazily applies fn to each element of src. fn runs exactly once
// per successful Next, and a failing fn ends the sequence with its error.
func MapSequence[T, U any](src Sequence[T], fn func(T) (U, error)) Sequence[U] {
	return NewSequence(func() (U, bool, error) {
		var zero U
		if !src.Next() {
			return zero, false, src.Err()
		}
		v, err := fn(src.Value())
		if err != nil {
			return zero, false, err
		}
		return v, true, nil
	})
}

// WithContext ends src with ctx.Err() once ctx is done.
func WithContext[T any](ctx context.Context, src Sequence[T]) Sequence[T] {
	return NewSequence(func() (T, bool, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}
		if !src.Next() {
			return zero, false, src.Err()
		}
		return src.Value(), true, nil
	})
}

// Collect drains seq into a slice.
func Collect[T any](seq Sequence[T]) ([]T, error) {
	var out []T
	for seq.Next() {
		out = append(out, seq.Value())
	}
	return out, seq.Err()
}
