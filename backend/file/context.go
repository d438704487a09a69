/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package file

import (
	"context"

	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/repository"
)

// The FullAsync methods run the blocking operation once ctx is checked.
// Filesystem calls are not interruptible, so cancellation is observed
// between operations and between sequence elements.

func (s *Store) DeleteContext(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewBackendError("delete", key, err)
	}
	return s.Delete(key)
}

func (s *Store) StoreContext(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.NewBackendError("store", key, err)
	}
	return s.Store(key, data)
}

func (s *Store) RetrieveContext(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewBackendError("retrieve", key, err)
	}
	return s.Retrieve(key)
}

func (s *Store) MetadataContext(ctx context.Context, key string) (*repository.ItemMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewBackendError("metadata", key, err)
	}
	return s.Metadata(key)
}

func (s *Store) MetadataMatchingContext(ctx context.Context, match repository.Predicate) repository.Sequence[repository.ItemMetadata] {
	return repository.WithContext(ctx, s.MetadataMatching(match))
}

func (s *Store) RenameContext(ctx context.Context, from, to string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.NewBackendError("rename", from, err)
	}
	return s.Rename(from, to)
}

func (s *Store) StoreSequenceContext(ctx context.Context, entries repository.Sequence[repository.Entry]) error {
	return s.StoreSequence(repository.WithContext(ctx, entries))
}

func (s *Store) RetrieveSequenceContext(ctx context.Context, keys repository.Sequence[string]) repository.Sequence[repository.Entry] {
	return s.RetrieveSequence(repository.WithContext(ctx, keys))
}
