/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package prefs provides a key-value preference store kept in a single YAML
// file. It suits small singleton values such as settings; every write
// rewrites the whole file.
package prefs

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/repository"
	"gopkg.in/yaml.v3"
)

// document is the on-disk layout. Values are base64 so that arbitrary bytes
// survive YAML.
type document struct {
	Values map[string]string `yaml:"values"`
}

// Store is a file-backed implementation of repository.SimpleSync and repository.SimpleAsync
type Store struct {
	path   string
	mu     sync.Mutex
	values map[string][]byte
	loaded bool
}

var _ repository.KeyValue = (*Store)(nil)

// New creates a Store persisted at path. The file is read on first use.
func New(path string) *Store {
	return &Store{path: path}
}

// Keys lists the stored keys in sorted order
func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	prev := s.values[key]
	delete(s.values, key)
	if err := s.save(); err != nil {
		s.values[key] = prev
		return errors.NewBackendError("delete", key, err)
	}
	return nil
}

func (s *Store) Store(key string, data []byte) error {
	if key == "" {
		return errors.NewValidationError("key", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	prev, existed := s.values[key]
	s.values[key] = append([]byte{}, data...)
	if err := s.save(); err != nil {
		if existed {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return errors.NewBackendError("store", key, err)
	}
	return nil
}

func (s *Store) Retrieve(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	data, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, data...), nil
}

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

// load reads the file once. A missing file is an empty store.
func (s *Store) load() error {
	if s.loaded {
		return nil
	}

	s.values = make(map[string][]byte)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return errors.NewBackendError("load", "", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return errors.NewSerializationError("yaml", "decode", err)
	}
	for k, v := range doc.Values {
		data, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return errors.NewSerializationError("base64", "decode", err)
		}
		s.values[k] = data
	}
	s.loaded = true
	return nil
}

func (s *Store) save() error {
	doc := document{Values: make(map[string]string, len(s.values))}
	for k, v := range s.values {
		doc.Values[k] = base64.StdEncoding.EncodeToString(v)
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
