/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"sort"
	"sync"
)

// registry holds codecs by name.
var (
	registry = make(map[string]Codec)
	mu       sync.RWMutex
)

func init() {
	Register(JSON())
	Register(YAML())
	Register(CBOR())
	Register(Protobuf())
}

// Register adds c under c.Name().
// If a codec is already registered with that name, it panics to prevent accidental overrides.
func Register(c Codec) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[c.Name()]; exists {
		panic(fmt.Sprintf("codec registry: codec %q already registered", c.Name()))
	}
	registry[c.Name()] = c
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()

	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("codec registry: no codec registered as %q", name)
	}
	return c, nil
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
