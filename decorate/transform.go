/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package decorate

import (
	"fmt"

	"github.com/suparena/persist/repository"
	"github.com/suparena/persist/transform"
)

// Transform is an inverse pair of byte functions applied on the way in
// (Forward) and on the way out (Inverse).
type Transform struct {
	Name    string
	Forward func([]byte) ([]byte, error)
	Inverse func([]byte) ([]byte, error)
}

// Encrypting builds a Transform that seals stored bytes with c.
func Encrypting(c transform.Cipher) Transform {
	if c == nil {
		panic("decorate: Encrypting requires a cipher")
	}
	return Transform{Name: "encrypting/" + c.Name(), Forward: c.Seal, Inverse: c.Open}
}

// Compressing builds a Transform that compresses stored bytes with a.
func Compressing(a transform.Archiver) Transform {
	if a == nil {
		panic("decorate: Compressing requires an archiver")
	}
	return Transform{Name: "compressing/" + a.Name(), Forward: a.Compress, Inverse: a.Decompress}
}

func (t Transform) mustBeComplete() {
	if t.Forward == nil || t.Inverse == nil {
		panic(fmt.Sprintf("decorate: transform %q needs both Forward and Inverse", t.Name))
	}
}

func (t Transform) forwardEntry(e repository.Entry) (repository.Entry, error) {
	data, err := t.Forward(e.Data)
	if err != nil {
		return repository.Entry{}, err
	}
	return repository.Entry{Key: e.Key, Data: data}, nil
}

func (t Transform) inverseEntry(e repository.Entry) (repository.Entry, error) {
	if e.Data == nil {
		return e, nil
	}
	data, err := t.Inverse(e.Data)
	if err != nil {
		return repository.Entry{}, err
	}
	return repository.Entry{Key: e.Key, Data: data}, nil
}

func mustNotBeNil(inner any, constructor string) {
	if inner == nil {
		panic(fmt.Sprintf("decorate: %s called with a nil repository", constructor))
	}
}
