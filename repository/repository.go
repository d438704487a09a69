/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"
)

// SimpleSync is a blocking keyed byte store.
type SimpleSync interface {
	// Delete removes the item stored under key. Deleting a missing key is not an error.
	Delete(key string) error

	// Store writes data under key, replacing any previous item.
	Store(key string, data []byte) error

	// Retrieve returns the bytes stored under key, or nil when nothing is stored.
	Retrieve(key string) ([]byte, error)
}

// SimpleAsync is the cancellable counterpart of SimpleSync.
type SimpleAsync interface {
	DeleteContext(ctx context.Context, key string) error

	StoreContext(ctx context.Context, key string, data []byte) error

	RetrieveContext(ctx context.Context, key string) ([]byte, error)
}

// FullSync adds metadata, listing, rename and sequence operations to SimpleSync.
type FullSync interface {
	SimpleSync

	// Metadata returns the metadata for key, or nil when nothing is stored.
	Metadata(key string) (*ItemMetadata, error)

	// MetadataMatching lazily lists the metadata of every item accepted by match.
	// A nil predicate accepts all items.
	MetadataMatching(match Predicate) Sequence[ItemMetadata]

	// Rename moves the item stored under from to to. It reports false when
	// from does not exist.
	Rename(from, to string) (bool, error)

	// StoreSequence stores every entry, pulling them one at a time.
	StoreSequence(entries Sequence[Entry]) error

	// RetrieveSequence lazily retrieves each key. Missing keys yield an
	// entry with nil Data.
	RetrieveSequence(keys Sequence[string]) Sequence[Entry]
}

// FullAsync is the cancellable counterpart of FullSync.
type FullAsync interface {
	SimpleAsync

	MetadataContext(ctx context.Context, key string) (*ItemMetadata, error)

	MetadataMatchingContext(ctx context.Context, match Predicate) Sequence[ItemMetadata]

	RenameContext(ctx context.Context, from, to string) (bool, error)

	StoreSequenceContext(ctx context.Context, entries Sequence[Entry]) error

	RetrieveSequenceContext(ctx context.Context, keys Sequence[string]) Sequence[Entry]
}

// Entry pairs a key with its stored bytes.
type Entry struct {
	Key  string
	Data []byte
}

// ItemMetadata is a read-only snapshot describing a stored item.
type ItemMetadata struct {
	Name       string           `json:"name" yaml:"name"`
	Size       *int64           `json:"size,omitempty" yaml:"size,omitempty"`
	CreatedOn  *strfmt.DateTime `json:"createdOn,omitempty" yaml:"createdOn,omitempty"`
	ModifiedOn *strfmt.DateTime `json:"modifiedOn,omitempty" yaml:"modifiedOn,omitempty"`
}

// NewItemMetadata builds metadata from plain values. Zero times are left unset.
func NewItemMetadata(name string, size int64, createdOn, modifiedOn time.Time) ItemMetadata {
	md := ItemMetadata{Name: name, Size: &size}
	if !createdOn.IsZero() {
		ct := strfmt.DateTime(createdOn)
		md.CreatedOn = &ct
	}
	if !modifiedOn.IsZero() {
		mt := strfmt.DateTime(modifiedOn)
		md.ModifiedOn = &mt
	}
	return md
}

// Predicate selects items by their metadata.
type Predicate func(ItemMetadata) bool

// Matches reports whether md is accepted. A nil predicate accepts everything.
func (p Predicate) Matches(md ItemMetadata) bool {
	if p == nil {
		return true
	}
	return p(md)
}

// KeyValue is satisfied by backends offering both simple contracts.
type KeyValue interface {
	SimpleSync
	SimpleAsync
}

// Full is satisfied by backends offering every capability.
type Full interface {
	FullSync
	FullAsync
}
