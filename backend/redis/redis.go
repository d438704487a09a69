/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package redis provides a Redis key-value repository.
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/repository"
)

// Client is the subset of the go-redis API the Store uses.
// redis.UniversalClient satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Client = (redis.UniversalClient)(nil)

// Config describes a Redis connection
type Config struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Store is a Redis implementation of repository.SimpleSync and repository.SimpleAsync
type Store struct {
	client Client
	prefix string
	ttl    time.Duration
}

var _ repository.KeyValue = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithPrefix namespaces every key with prefix
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires stored items after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a Store over client
func New(client Client, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to cfg.Addr. The returned close function releases the connection.
func Open(cfg Config) (*Store, func() error, error) {
	if cfg.Addr == "" {
		return nil, nil, errors.NewValidationError("addr", "must not be empty")
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Addr},
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return New(client, WithPrefix(cfg.Prefix), WithTTL(cfg.TTL)), client.Close, nil
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
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
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
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return errors.NewBackendError("store", key, err)
	}
	return nil
}

func (s *Store) RetrieveContext(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
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
