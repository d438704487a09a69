/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"compress/gzip"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/suparena/persist"
	"github.com/suparena/persist/backend/cassandra"
	"github.com/suparena/persist/backend/ddb"
	"github.com/suparena/persist/backend/file"
	"github.com/suparena/persist/backend/memory"
	"github.com/suparena/persist/backend/prefs"
	"github.com/suparena/persist/backend/redis"
	"github.com/suparena/persist/codec"
	"github.com/suparena/persist/decorate"
	"github.com/suparena/persist/errors"
	"github.com/suparena/persist/persisted"
	"github.com/suparena/persist/repository"
	"github.com/suparena/persist/transform"
)

const keySize = 32

// Build opens every configured backend, applies its decorators and registers
// the result under its name. On failure, backends opened so far are closed.
func (c *Config) Build(ctx context.Context) (*persist.Registry, error) {
	return c.BuildWithLogger(ctx, slog.Default())
}

// BuildWithLogger is Build with an explicit logger for backends that log.
func (c *Config) BuildWithLogger(ctx context.Context, logger *slog.Logger) (*persist.Registry, error) {
	reg := persist.NewRegistry()
	for _, name := range c.Names() {
		entry, err := c.Repositories[name].build(ctx, name, logger)
		if err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("building repository %q: %w", name, err)
		}
		if err := reg.Register(name, entry); err != nil {
			if entry.Close != nil {
				_ = entry.Close()
			}
			_ = reg.Close()
			return nil, err
		}
		logger.Debug("repository ready",
			"name", name,
			"backend", c.Repositories[name].Backend,
			"mode", entry.Repository.Kind().String())
	}
	return reg, nil
}

func (rc RepositoryConfig) build(ctx context.Context, name string, logger *slog.Logger) (persist.Entry, error) {
	cdc := codec.JSON()
	if rc.Codec != "" {
		var err error
		if cdc, err = codec.Lookup(rc.Codec); err != nil {
			return persist.Entry{}, errors.NewValidationError("codec", err.Error())
		}
	}

	transforms, err := rc.transforms(name)
	if err != nil {
		return persist.Entry{}, err
	}

	entry := persist.Entry{Codec: cdc}
	switch rc.Backend {
	case BackendFile:
		dist, _ := distribution(rc.Distribution)
		var full repository.Full = file.New(rc.Path, file.WithDistribution(dist), file.WithLogger(logger))
		for i := len(transforms) - 1; i >= 0; i-- {
			full = decorate.WrapFull(full, transforms[i])
		}
		entry.Full = full
		entry.KeyValue = full
	default:
		kv, closer, err := rc.open(ctx)
		if err != nil {
			return persist.Entry{}, err
		}
		for i := len(transforms) - 1; i >= 0; i-- {
			kv = decorate.WrapSyncAsync(kv, transforms[i])
		}
		entry.KeyValue = kv
		entry.Close = closer
	}

	if rc.Mode == ModeAsync {
		entry.Repository = persisted.Async(entry.KeyValue, rc.Debounce)
	} else {
		entry.Repository = persisted.Sync(entry.KeyValue)
	}
	return entry, nil
}

// open connects the key-value backends.
func (rc RepositoryConfig) open(ctx context.Context) (repository.KeyValue, func() error, error) {
	switch rc.Backend {
	case BackendMemory:
		return memory.New(), nil, nil
	case BackendPrefs:
		return prefs.New(rc.Path), nil, nil
	case BackendDynamoDB:
		s, err := ddb.Open(ctx, *rc.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case BackendRedis:
		s, closer, err := redis.Open(*rc.Redis)
		if err != nil {
			return nil, nil, err
		}
		return s, closer, nil
	case BackendCassandra:
		s, err := cassandra.Open(*rc.Cassandra)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { s.Close(); return nil }, nil
	}
	return nil, nil, errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", rc.Backend))
}

// transforms resolves the decorators in configuration order.
func (rc RepositoryConfig) transforms(name string) ([]decorate.Transform, error) {
	out := make([]decorate.Transform, 0, len(rc.Decorators))
	for _, d := range rc.Decorators {
		t, err := d.transform(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (d DecoratorConfig) transform(name string) (decorate.Transform, error) {
	if d.Compress != "" {
		a, err := archiver(d.Compress, d.Level)
		if err != nil {
			return decorate.Transform{}, err
		}
		return decorate.Compressing(a), nil
	}

	secret := os.Getenv(d.KeyEnv)
	if secret == "" {
		return decorate.Transform{}, errors.NewValidationError("keyEnv", fmt.Sprintf("environment variable %s is not set", d.KeyEnv))
	}
	key, err := transform.KeyFromSecret([]byte(secret), "persist/"+name, keySize)
	if err != nil {
		return decorate.Transform{}, err
	}
	var c transform.Cipher
	switch d.Encrypt {
	case "aes-gcm":
		c, err = transform.NewAESGCM(key)
	case "xchacha20poly1305":
		c, err = transform.NewXChaCha20Poly1305(key)
	default:
		err = errors.NewValidationError("encrypt", fmt.Sprintf("unknown cipher %q", d.Encrypt))
	}
	if err != nil {
		return decorate.Transform{}, err
	}
	return decorate.Encrypting(c), nil
}

// archiver resolves a compression name. A zero gzip level means the default level.
func archiver(name string, level int) (transform.Archiver, error) {
	switch name {
	case "gzip":
		if level == 0 {
			level = gzip.DefaultCompression
		}
		return transform.Gzip(level)
	case "snappy":
		return transform.Snappy(), nil
	}
	return nil, errors.NewValidationError("compress", fmt.Sprintf("unknown archiver %q", name))
}

func distribution(name string) (file.Distribution, error) {
	switch name {
	case "", "flat":
		return file.Flat, nil
	case "first":
		return file.ByFirstCharacter, nil
	case "last":
		return file.ByLastCharacter, nil
	}
	return nil, fmt.Errorf("unknown distribution %q", name)
}
