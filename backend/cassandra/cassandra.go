/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package cassandra provides a Cassandra key-value repository. Items live in
// one table with a text primary key and a blob column.
package cassandra

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/gocql/gocql"
	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/repository"
)

// Config describes a cluster and the table items are kept in.
type Config struct {
	Hosts       []string      `yaml:"hosts"`
	Keyspace    string        `yaml:"keyspace"`
	Table       string        `yaml:"table"`
	Consistency string        `yaml:"consistency"`
	Timeout     time.Duration `yaml:"timeout"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

// Store is a Cassandra implementation of repository.SimpleSync and repository.SimpleAsync
type Store struct {
	session *gocql.Session
	table   string
	now     func() time.Time
}

var _ repository.KeyValue = (*Store)(nil)

// ClusterConfig validates cfg and builds the gocql cluster configuration.
func ClusterConfig(cfg Config) (*gocql.ClusterConfig, error) {
	if len(cfg.Hosts) == 0 {
		return nil, errors.NewValidationError("hosts", "at least one host is required")
	}
	if !identifierPattern.MatchString(cfg.Keyspace) {
		return nil, errors.NewValidationError("keyspace", fmt.Sprintf("invalid identifier %q", cfg.Keyspace))
	}
	if err := validateTable(cfg.Table); err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	if cfg.Consistency != "" {
		c, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
		if err != nil {
			return nil, errors.NewValidationError("consistency", err.Error())
		}
		cluster.Consistency = c
	}
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}
	return cluster, nil
}

// Open connects to the cluster described by cfg.
func Open(cfg Config) (*Store, error) {
	cluster, err := ClusterConfig(cfg)
	if err != nil {
		return nil, err
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.NewBackendError("connect", "", err)
	}
	return New(session, cfg.Table)
}

// New creates a Store on an open session.
func New(session *gocql.Session, table string) (*Store, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	return &Store{session: session, table: table, now: time.Now}, nil
}

// Close closes the session
func (s *Store) Close() {
	s.session.Close()
}

// EnsureTable creates the item table if it does not exist.
func (s *Store) EnsureTable(ctx context.Context) error {
	if err := s.session.Query(createTableCQL(s.table)).WithContext(ctx).Exec(); err != nil {
		return errors.NewBackendError("create table", "", err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	return s.DeleteContext(context.Background(), key)
}

func (s *Store) Store(key string, data []byte) error {
	return s.StoreContext(context.Background(), key, data)
}

func (s *Store) Retrieve(key string) ([]byte, error) {
	return s.RetrieveContext(context.Background(), key)
}

func (s *Store) DeleteContext(ctx context.Context, key string) error {
	err := s.session.Query(fmt.Sprintf("DELETE FROM %s WHERE key = ?", s.table), key).
		WithContext(ctx).Exec()
	if err != nil {
		return errors.NewBackendError("delete", key, err)
	}
	return nil
}

func (s *Store) StoreContext(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return errors.NewValidationError("key", "must not be empty")
	}
	if data == nil {
		data = []byte{}
	}
	err := s.session.Query(fmt.Sprintf("INSERT INTO %s (key, data, modified_on) VALUES (?, ?, ?)", s.table),
		key, data, s.now()).WithContext(ctx).Exec()
	if err != nil {
		return errors.NewBackendError("store", key, err)
	}
	return nil
}

func (s *Store) RetrieveContext(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.session.Query(fmt.Sprintf("SELECT data FROM %s WHERE key = ? LIMIT 1", s.table), key).
		WithContext(ctx).Scan(&data)
	if err == gocql.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewBackendError("retrieve", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func createTableCQL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (key text PRIMARY KEY, data blob, modified_on timestamp)", table)
}

// validateTable guards the table name, which is interpolated into CQL.
func validateTable(table string) error {
	if !identifierPattern.MatchString(table) {
		return errors.NewValidationError("table", fmt.Sprintf("invalid identifier %q", table))
	}
	return nil
}
