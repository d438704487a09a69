/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package file

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/repository"
)

const (
	trashDir      = ".trash"
	tempPattern   = ".tmp-*"
	defaultSuffix = ".item"
)

// Distribution maps an escaped file name to the subdirectory that holds it.
// An empty result stores the file directly under the root.
type Distribution func(name string) string

// Flat stores every file directly under the root.
func Flat(string) string { return "" }

// ByFirstCharacter groups files by the first character of their name.
func ByFirstCharacter(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1])
}

// ByLastCharacter groups files by the last character of their name.
func ByLastCharacter(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[len(name)-1:])
}

// Store is a filesystem implementation of repository.FullSync and repository.FullAsync
type Store struct {
	root       string
	suffix     string
	distribute Distribution
	trash      bool
	logger     *slog.Logger
}

var _ repository.Full = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithDistribution sets the subdirectory rule. A nil rule means Flat.
func WithDistribution(d Distribution) Option {
	return func(s *Store) {
		if d == nil {
			d = Flat
		}
		s.distribute = d
	}
}

// WithSuffix sets the file name suffix appended to every mapped key
func WithSuffix(suffix string) Option {
	return func(s *Store) {
		s.suffix = suffix
	}
}

// WithTrash enables or disables moving deleted items into the trash directory
func WithTrash(enabled bool) Option {
	return func(s *Store) {
		s.trash = enabled
	}
}

// WithLogger sets the logger used for non-fatal fallbacks
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store rooted at root. The root is created on first store.
func New(root string, opts ...Option) *Store {
	s := &Store{
		root:       root,
		suffix:     defaultSuffix,
		distribute: Flat,
		trash:      true,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory the Store maps keys under
func (s *Store) Root() string {
	return s.root
}

// Path returns the file path key maps to
func (s *Store) Path(key string) (string, error) {
	name, err := s.fileName(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, s.distribute(name), name), nil
}

func (s *Store) fileName(key string) (string, error) {
	if key == "" {
		return "", errors.NewValidationError("key", "must not be empty")
	}
	name := url.PathEscape(key)
	if strings.HasPrefix(name, ".") {
		name = "%2E" + name[1:]
	}
	return name + s.suffix, nil
}

func (s *Store) keyFor(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, s.suffix) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(name, s.suffix))
	if err != nil {
		return "", false
	}
	return key, true
}

// Delete removes the item stored under key, moving it to the trash when enabled
func (s *Store) Delete(key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewBackendError("delete", key, err)
	}

	if s.trash {
		err := s.moveToTrash(path)
		if err == nil {
			s.pruneEmptyDirs(filepath.Dir(path))
			return nil
		}
		s.logger.Debug("trash unavailable, removing permanently", "key", key, "err", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewBackendError("delete", key, err)
	}
	s.pruneEmptyDirs(filepath.Dir(path))
	return nil
}

func (s *Store) moveToTrash(path string) error {
	dir := filepath.Join(s.root, trashDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(dir, fmt.Sprintf("%s.%d", filepath.Base(path), time.Now().UnixNano()))
	return os.Rename(path, target)
}

// pruneEmptyDirs removes empty distribution directories up to the root.
func (s *Store) pruneEmptyDirs(dir string) {
	root := filepath.Clean(s.root)
	for dir = filepath.Clean(dir); dir != root && strings.HasPrefix(dir, root); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			break
		}
	}
}

// Store writes data under key through a temporary file and a rename
func (s *Store) Store(key string, data []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewBackendError("store", key, err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return errors.NewBackendError("store", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewBackendError("store", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewBackendError("store", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewBackendError("store", key, err)
	}
	return nil
}

// Retrieve returns the bytes stored under key, or nil when the file does not exist
func (s *Store) Retrieve(key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewBackendError("retrieve", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Metadata returns the file metadata for key, or nil when the file does not exist
func (s *Store) Metadata(key string) (*repository.ItemMetadata, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewBackendError("metadata", key, err)
	}
	md := metadataFor(key, info)
	return &md, nil
}

// MetadataMatching walks the root lazily, one directory at a time
func (s *Store) MetadataMatching(match repository.Predicate) repository.Sequence[repository.ItemMetadata] {
	w := &walker{store: s, pending: []string{s.root}}
	return repository.NewSequence(func() (repository.ItemMetadata, bool, error) {
		for {
			md, ok, err := w.next()
			if err != nil || !ok {
				return repository.ItemMetadata{}, false, err
			}
			if match.Matches(md) {
				return md, true, nil
			}
		}
	})
}

// Rename moves the item stored under from to to. It reports false when from
// does not exist and fails when to already exists.
func (s *Store) Rename(from, to string) (bool, error) {
	src, err := s.Path(from)
	if err != nil {
		return false, err
	}
	dst, err := s.Path(to)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.NewBackendError("rename", from, err)
	}
	if _, err := os.Stat(dst); err == nil {
		return false, errors.NewValidationError("to", fmt.Sprintf("item %q already exists", to))
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, errors.NewBackendError("rename", to, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return false, errors.NewBackendError("rename", from, err)
	}
	s.pruneEmptyDirs(filepath.Dir(src))
	return true, nil
}

// StoreSequence stores entries one at a time as they are pulled
func (s *Store) StoreSequence(entries repository.Sequence[repository.Entry]) error {
	for entries.Next() {
		e := entries.Value()
		if err := s.Store(e.Key, e.Data); err != nil {
			return err
		}
	}
	return entries.Err()
}

// RetrieveSequence lazily retrieves each key
func (s *Store) RetrieveSequence(keys repository.Sequence[string]) repository.Sequence[repository.Entry] {
	return repository.MapSequence(keys, func(key string) (repository.Entry, error) {
		data, err := s.Retrieve(key)
		if err != nil {
			return repository.Entry{}, err
		}
		return repository.Entry{Key: key, Data: data}, nil
	})
}

func metadataFor(key string, info fs.FileInfo) repository.ItemMetadata {
	return repository.NewItemMetadata(key, info.Size(), time.Time{}, info.ModTime())
}

// walker is a pull-based directory traversal. Directories are read only when
// the entries before them have been consumed.
type walker struct {
	store   *Store
	pending []string
	dir     string
	entries []fs.DirEntry
}

func (w *walker) next() (repository.ItemMetadata, bool, error) {
	for {
		for len(w.entries) > 0 {
			entry := w.entries[0]
			w.entries = w.entries[1:]

			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			path := filepath.Join(w.dir, entry.Name())
			if entry.IsDir() {
				w.pending = append(w.pending, path)
				continue
			}
			key, ok := w.store.keyFor(entry.Name())
			if !ok {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return repository.ItemMetadata{}, false, errors.NewBackendError("list", key, err)
			}
			return metadataFor(key, info), true, nil
		}

		if len(w.pending) == 0 {
			return repository.ItemMetadata{}, false, nil
		}
		w.dir = w.pending[0]
		w.pending = w.pending[1:]

		entries, err := os.ReadDir(w.dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return repository.ItemMetadata{}, false, errors.NewBackendError("list", "", err)
		}
		w.entries = entries
	}
}
