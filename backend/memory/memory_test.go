/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/suparena/persist/backend/memory"
	"github.com/suparena/persist/errors"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicOperations", func(t *testing.T) {
		store := memory.New()

		// Test Store
		if err := store.Store("settings", []byte("dark")); err != nil {
			t.Fatalf("Store failed: %v", err)
		}

		// Test Retrieve
		data, err := store.Retrieve("settings")
		if err != nil {
			t.Fatalf("Retrieve failed: %v", err)
		}
		if string(data) != "dark" {
			t.Fatalf("Retrieved data mismatch: %q", data)
		}

		// Test Delete
		if err := store.Delete("settings"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		// Verify deletion reads as absent, not as an error
		data, err = store.Retrieve("settings")
		if err != nil || data != nil {
			t.Fatalf("Expected absent item, got %q, %v", data, err)
		}
	})

	t.Run("EmptyItemIsNotAbsent", func(t *testing.T) {
		store := memory.New()
		if err := store.StoreContext(ctx, "empty", nil); err != nil {
			t.Fatalf("StoreContext failed: %v", err)
		}
		data, err := store.RetrieveContext(ctx, "empty")
		if err != nil || data == nil || len(data) != 0 {
			t.Fatalf("Expected empty non-nil item, got %#v, %v", data, err)
		}
	})

	t.Run("StoredBytesAreCopied", func(t *testing.T) {
		store := memory.New()
		buf := []byte("original")
		store.Store("k", buf)
		buf[0] = 'X'

		data, _ := store.Retrieve("k")
		if !bytes.Equal(data, []byte("original")) {
			t.Fatalf("store should keep its own copy, got %q", data)
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		store := memory.New()

		storeErr := errors.NewBackendError("store", "k", context.DeadlineExceeded)
		store.WithStoreError(storeErr)
		if err := store.Store("k", []byte("v")); err != storeErr {
			t.Fatalf("Expected store error, got: %v", err)
		}

		retrieveErr := errors.NewBackendError("retrieve", "k", context.DeadlineExceeded)
		store.WithRetrieveError(retrieveErr)
		if _, err := store.Retrieve("k"); err != retrieveErr {
			t.Fatalf("Expected retrieve error, got: %v", err)
		}

		deleteErr := errors.NewBackendError("delete", "k", context.DeadlineExceeded)
		store.WithDeleteError(deleteErr)
		if err := store.Delete("k"); err != deleteErr {
			t.Fatalf("Expected delete error, got: %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		store := memory.New()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := store.StoreContext(cctx, "k", []byte("v"))
		if !errors.IsCancelled(err) || !errors.IsBackendIO(err) {
			t.Fatalf("Expected cancelled backend error, got: %v", err)
		}
		if store.StoreCount() != 0 {
			t.Fatalf("cancelled store should not be recorded")
		}
	})

	t.Run("HelperMethods", func(t *testing.T) {
		store := memory.New()
		store.SetData(map[string][]byte{"a": []byte("1"), "b": []byte("2")})

		if store.Count() != 2 {
			t.Fatalf("Expected 2 items, got %d", store.Count())
		}

		store.Store("c", []byte("3"))
		store.Retrieve("a")
		if got := len(store.Calls("")); got != 2 {
			t.Fatalf("Expected 2 recorded calls, got %d", got)
		}
		if store.StoreCount() != 1 {
			t.Fatalf("Expected 1 store call, got %d", store.StoreCount())
		}

		data := store.GetData()
		if string(data["c"]) != "3" {
			t.Fatalf("GetData mismatch: %v", data)
		}

		store.Clear()
		if store.Count() != 0 || len(store.Calls("")) != 0 {
			t.Fatalf("Clear should remove data and calls")
		}
	})
}
