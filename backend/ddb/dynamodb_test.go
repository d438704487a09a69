/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/persist/errors"
)

// fakeClient keeps items in memory, keyed by their PK and SK attributes.
type fakeClient struct {
	mu     sync.Mutex
	items  map[string]map[string]types.AttributeValue
	tables []string
	err    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func itemKey(key map[string]types.AttributeValue) string {
	pk, _ := key["PK"].(*types.AttributeValueMemberS)
	sk, _ := key["SK"].(*types.AttributeValueMemberS)
	if pk == nil || sk == nil {
		return ""
	}
	return pk.Value + "|" + sk.Value
}

func (f *fakeClient) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = append(f.tables, *in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeClient) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = append(f.tables, *in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	f.items[itemKey(in.Item)] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = append(f.tables, *in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, itemKey(in.Key))
	return &sdk.DeleteItemOutput{}, nil
}

func TestStore_RoundTrip(t *testing.T) {
	client := newFakeClient()
	store := New(client, "app-state")
	store.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	if err := store.Store("settings", []byte("dark")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	item, ok := client.items["ITEM#settings|DATA"]
	if !ok {
		t.Fatalf("item not stored under default key, have %v", client.items)
	}
	modified, _ := item["ModifiedOn"].(*types.AttributeValueMemberS)
	if modified == nil || modified.Value != "2025-03-01T12:00:00.000Z" {
		t.Errorf("ModifiedOn = %v", item["ModifiedOn"])
	}

	data, err := store.Retrieve("settings")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if string(data) != "dark" {
		t.Errorf("Retrieve() = %q, want %q", data, "dark")
	}

	if err := store.Delete("settings"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	data, err = store.Retrieve("settings")
	if err != nil || data != nil {
		t.Errorf("Retrieve() after Delete = %q, %v; want nil, nil", data, err)
	}

	for _, table := range client.tables {
		if table != "app-state" {
			t.Errorf("request sent to table %q", table)
		}
	}
}

func TestStore_KeyTemplates(t *testing.T) {
	client := newFakeClient()
	store := New(client, "app-state",
		WithKeyTemplate("PK", "USER#{key}"),
		WithKeyTemplate("SK", "PROFILE#{key}"),
	)

	if err := store.StoreContext(context.Background(), "42", []byte("x")); err != nil {
		t.Fatalf("StoreContext() error = %v", err)
	}
	if _, ok := client.items["USER#42|PROFILE#42"]; !ok {
		t.Errorf("item not stored under templated key, have %v", client.items)
	}
}

func TestStore_EmptyItemIsNotAbsent(t *testing.T) {
	store := New(newFakeClient(), "t")
	if err := store.Store("empty", nil); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	data, err := store.Retrieve("empty")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if data == nil || len(data) != 0 {
		t.Errorf("Retrieve() = %#v, want empty non-nil", data)
	}
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyKey", func(t *testing.T) {
		store := New(newFakeClient(), "t")
		if err := store.Store("", []byte("x")); !errors.IsValidationError(err) {
			t.Errorf("Store(\"\") error = %v, want validation error", err)
		}
	})

	t.Run("ClientFailure", func(t *testing.T) {
		client := newFakeClient()
		client.err = fmt.Errorf("throttled")
		store := New(client, "t")

		if _, err := store.RetrieveContext(ctx, "k"); !errors.IsBackendIO(err) {
			t.Errorf("RetrieveContext() error = %v, want backend error", err)
		}
		if err := store.StoreContext(ctx, "k", []byte("v")); !errors.IsBackendIO(err) {
			t.Errorf("StoreContext() error = %v, want backend error", err)
		}
		if err := store.DeleteContext(ctx, "k"); !errors.IsBackendIO(err) {
			t.Errorf("DeleteContext() error = %v, want backend error", err)
		}
	})

	t.Run("OpenWithoutTable", func(t *testing.T) {
		if _, err := Open(ctx, Config{Region: "us-east-1"}); !errors.IsValidationError(err) {
			t.Errorf("Open() error = %v, want validation error", err)
		}
	})
}
