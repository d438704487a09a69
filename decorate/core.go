/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package decorate

import (
	"context"

	"github.com/suparena/persist/repository"
)

// syncCore implements repository.SimpleSync over a transformed inner store.
type syncCore struct {
	inner repository.SimpleSync
	t     Transform
}

func (d *syncCore) Delete(key string) error {
	return d.inner.Delete(key)
}

func (d *syncCore) Store(key string, data []byte) error {
	out, err := d.t.Forward(data)
	if err != nil {
		return err
	}
	return d.inner.Store(key, out)
}

func (d *syncCore) Retrieve(key string) ([]byte, error) {
	data, err := d.inner.Retrieve(key)
	if err != nil || data == nil {
		return nil, err
	}
	return d.t.Inverse(data)
}

// asyncCore implements repository.SimpleAsync over a transformed inner store.
type asyncCore struct {
	inner repository.SimpleAsync
	t     Transform
}

func (d *asyncCore) DeleteContext(ctx context.Context, key string) error {
	return d.inner.DeleteContext(ctx, key)
}

func (d *asyncCore) StoreContext(ctx context.Context, key string, data []byte) error {
	out, err := d.t.Forward(data)
	if err != nil {
		return err
	}
	return d.inner.StoreContext(ctx, key, out)
}

func (d *asyncCore) RetrieveContext(ctx context.Context, key string) ([]byte, error) {
	data, err := d.inner.RetrieveContext(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	return d.t.Inverse(data)
}

// fullSyncCore adds the FullSync operations to syncCore.
type fullSyncCore struct {
	syncCore
	full repository.FullSync
}

func newFullSyncCore(inner repository.FullSync, t Transform) fullSyncCore {
	return fullSyncCore{syncCore: syncCore{inner: inner, t: t}, full: inner}
}

func (d *fullSyncCore) Metadata(key string) (*repository.ItemMetadata, error) {
	return d.full.Metadata(key)
}

func (d *fullSyncCore) MetadataMatching(match repository.Predicate) repository.Sequence[repository.ItemMetadata] {
	return d.full.MetadataMatching(match)
}

func (d *fullSyncCore) Rename(from, to string) (bool, error) {
	return d.full.Rename(from, to)
}

func (d *fullSyncCore) StoreSequence(entries repository.Sequence[repository.Entry]) error {
	return d.full.StoreSequence(repository.MapSequence(entries, d.t.forwardEntry))
}

func (d *fullSyncCore) RetrieveSequence(keys repository.Sequence[string]) repository.Sequence[repository.Entry] {
	return repository.MapSequence(d.full.RetrieveSequence(keys), d.t.inverseEntry)
}

// fullAsyncCore adds the FullAsync operations to asyncCore.
type fullAsyncCore struct {
	asyncCore
	full repository.FullAsync
}

func newFullAsyncCore(inner repository.FullAsync, t Transform) fullAsyncCore {
	return fullAsyncCore{asyncCore: asyncCore{inner: inner, t: t}, full: inner}
}

func (d *fullAsyncCore) MetadataContext(ctx context.Context, key string) (*repository.ItemMetadata, error) {
	return d.full.MetadataContext(ctx, key)
}

func (d *fullAsyncCore) MetadataMatchingContext(ctx context.Context, match repository.Predicate) repository.Sequence[repository.ItemMetadata] {
	return d.full.MetadataMatchingContext(ctx, match)
}

func (d *fullAsyncCore) RenameContext(ctx context.Context, from, to string) (bool, error) {
	return d.full.RenameContext(ctx, from, to)
}

func (d *fullAsyncCore) StoreSequenceContext(ctx context.Context, entries repository.Sequence[repository.Entry]) error {
	return d.full.StoreSequenceContext(ctx, repository.MapSequence(entries, d.t.forwardEntry))
}

func (d *fullAsyncCore) RetrieveSequenceContext(ctx context.Context, keys repository.Sequence[string]) repository.Sequence[repository.Entry] {
	return repository.MapSequence(d.full.RetrieveSequenceContext(ctx, keys), d.t.inverseEntry)
}
