/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persist

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/suparena/persist/backend/memory"
	"github.com/suparena/persist/codec"
	"github.com/suparena/persist/persisted"
)

func memoryEntry() (Entry, *memory.Store) {
	mem := memory.New()
	return Entry{Repository: persisted.Sync(mem), KeyValue: mem}, mem
}

func TestRegistry(t *testing.T) {
	t.Run("BasicOperations", func(t *testing.T) {
		reg := NewRegistry()

		// Register entry
		entry, _ := memoryEntry()
		if err := reg.Register("settings", entry); err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		// Get entry
		got, err := reg.Get("settings")
		if err != nil {
			t.Fatalf("Failed to get: %v", err)
		}
		if got.KeyValue == nil {
			t.Fatal("Retrieved entry has no repository")
		}
		if got.Codec == nil || got.Codec.Name() != "json" {
			t.Fatalf("Expected default json codec, got %v", got.Codec)
		}

		// List entries
		names := reg.List()
		if len(names) != 1 || names[0] != "settings" {
			t.Fatalf("Expected [settings], got %v", names)
		}

		// Remove entry
		if err := reg.Remove("settings"); err != nil {
			t.Fatalf("Failed to remove: %v", err)
		}

		// Verify removal
		if _, err := reg.Get("settings"); err == nil {
			t.Fatal("Expected error after removal")
		}
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		reg := NewRegistry()
		first, _ := memoryEntry()
		second, _ := memoryEntry()

		if err := reg.Register("settings", first); err != nil {
			t.Fatalf("First registration failed: %v", err)
		}
		if err := reg.Register("settings", second); err == nil {
			t.Fatal("Expected error for duplicate registration")
		}
	})

	t.Run("InvalidEntries", func(t *testing.T) {
		reg := NewRegistry()
		entry, _ := memoryEntry()

		if err := reg.Register("", entry); err == nil {
			t.Error("Expected error for empty name")
		}
		if err := reg.Register("empty", Entry{}); err == nil {
			t.Error("Expected error for entry without repository")
		}
		if err := reg.Remove("missing"); err == nil {
			t.Error("Expected error removing a missing entry")
		}
	})

	t.Run("ListIsSorted", func(t *testing.T) {
		reg := NewRegistry()
		for _, name := range []string{"zeta", "alpha", "mid"} {
			entry, _ := memoryEntry()
			if err := reg.Register(name, entry); err != nil {
				t.Fatal(err)
			}
		}
		names := reg.List()
		if fmt.Sprint(names) != "[alpha mid zeta]" {
			t.Fatalf("Expected sorted names, got %v", names)
		}
	})
}

func TestRegistry_Close(t *testing.T) {
	reg := NewRegistry()
	closed := 0
	boom := fmt.Errorf("already closed")

	ok, _ := memoryEntry()
	ok.Close = func() error { closed++; return nil }
	failing, _ := memoryEntry()
	failing.Close = func() error { closed++; return boom }
	plain, _ := memoryEntry()

	reg.Register("ok", ok)
	reg.Register("failing", failing)
	reg.Register("plain", plain)

	err := reg.Close()
	if err == nil {
		t.Fatal("Expected the close error to be reported")
	}
	if closed != 2 {
		t.Fatalf("Expected 2 close calls, got %d", closed)
	}
	if len(reg.List()) != 0 {
		t.Fatalf("Expected empty registry after Close, got %v", reg.List())
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, _ := memoryEntry()
			name := fmt.Sprintf("repo-%d", i)
			if err := reg.Register(name, entry); err != nil {
				t.Errorf("Register(%s) failed: %v", name, err)
				return
			}
			if _, err := reg.Get(name); err != nil {
				t.Errorf("Get(%s) failed: %v", name, err)
			}
			_ = reg.List()
		}(i)
	}
	wg.Wait()

	if got := len(reg.List()); got != 20 {
		t.Fatalf("Expected 20 entries, got %d", got)
	}
}

func TestBind(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	entry, mem := memoryEntry()
	entry.Codec = codec.YAML()
	if err := reg.Register("settings", entry); err != nil {
		t.Fatal(err)
	}

	type prefs struct {
		Theme string `yaml:"theme"`
	}

	v, err := Bind(ctx, reg, "settings", "prefs", prefs{Theme: "light"})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	defer v.Close()

	v.Set(prefs{Theme: "dark"})
	if got := string(mem.GetData()["prefs"]); got != "theme: dark\n" {
		t.Fatalf("Expected YAML payload, got %q", got)
	}

	if _, err := Bind(ctx, reg, "missing", "prefs", prefs{}); err == nil {
		t.Error("Expected error binding to a missing repository")
	}
	if _, err := Bind(ctx, reg, "settings", "", prefs{}); err == nil {
		t.Error("Expected error binding an empty key")
	}
}
