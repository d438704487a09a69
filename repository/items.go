/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"

	"github.com/suparena/persist/codec"
)

// Keyed pairs a decoded item with its key.
type Keyed[T any] struct {
	Key  string
	Item T
}

// StoreItem encodes item with c and stores it under key.
func StoreItem[T any](r SimpleSync, c codec.Codec, key string, item T) error {
	data, err := c.Marshal(item)
	if err != nil {
		return err
	}
	return r.Store(key, data)
}

// RetrieveItem retrieves and decodes the item stored under key. It returns
// nil, nil when nothing is stored.
func RetrieveItem[T any](r SimpleSync, c codec.Codec, key string) (*T, error) {
	data, err := r.Retrieve(key)
	if err != nil {
		return nil, err
	}
	return decodeItem[T](c, data)
}

// StoreItemContext is the SimpleAsync variant of StoreItem.
func StoreItemContext[T any](ctx context.Context, r SimpleAsync, c codec.Codec, key string, item T) error {
	data, err := c.Marshal(item)
	if err != nil {
		return err
	}
	return r.StoreContext(ctx, key, data)
}

// RetrieveItemContext is the SimpleAsync variant of RetrieveItem.
func RetrieveItemContext[T any](ctx context.Context, r SimpleAsync, c codec.Codec, key string) (*T, error) {
	data, err := r.RetrieveContext(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeItem[T](c, data)
}

// EncodeEntries lazily encodes keyed items into entries for StoreSequence.
func EncodeEntries[T any](c codec.Codec, items Sequence[Keyed[T]]) Sequence[Entry] {
	return MapSequence(items, func(k Keyed[T]) (Entry, error) {
		data, err := c.Marshal(k.Item)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Key: k.Key, Data: data}, nil
	})
}

// DecodeEntries lazily decodes entries returned by RetrieveSequence. Entries
// with nil Data decode to a nil item.
func DecodeEntries[T any](c codec.Codec, entries Sequence[Entry]) Sequence[Keyed[*T]] {
	return MapSequence(entries, func(e Entry) (Keyed[*T], error) {
		item, err := decodeItem[T](c, e.Data)
		if err != nil {
			return Keyed[*T]{}, err
		}
		return Keyed[*T]{Key: e.Key, Item: item}, nil
	})
}

func decodeItem[T any](c codec.Codec, data []byte) (*T, error) {
	if data == nil {
		return nil, nil
	}
	v := new(T)
	if err := c.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}
