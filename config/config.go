/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/suparena/persist/backend/cassandra"
	"github.com/suparena/persist/backend/ddb"
	"github.com/suparena/persist/backend/redis"
	"github.com/suparena/persist/errors"
	"gopkg.in/yaml.v3"
)

// Backend names
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendPrefs     = "prefs"
	BackendDynamoDB  = "dynamodb"
	BackendRedis     = "redis"
	BackendCassandra = "cassandra"
)

// Mode names
const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

// Config is the root of a configuration file.
type Config struct {
	Repositories map[string]RepositoryConfig `yaml:"repositories"`
}

// RepositoryConfig describes one named repository.
type RepositoryConfig struct {
	Backend      string            `yaml:"backend"`
	Path         string            `yaml:"path"`
	Distribution string            `yaml:"distribution"`
	Mode         string            `yaml:"mode"`
	Debounce     time.Duration     `yaml:"debounce"`
	Codec        string            `yaml:"codec"`
	Decorators   []DecoratorConfig `yaml:"decorators"`

	DynamoDB  *ddb.Config       `yaml:"dynamodb"`
	Redis     *redis.Config     `yaml:"redis"`
	Cassandra *cassandra.Config `yaml:"cassandra"`
}

// DecoratorConfig names a single transformation. Exactly one of Compress
// and Encrypt is set.
type DecoratorConfig struct {
	Compress string `yaml:"compress"`
	Level    int    `yaml:"level"`
	Encrypt  string `yaml:"encrypt"`
	KeyEnv   string `yaml:"keyEnv"`
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands environment references in data, decodes it and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.NewSerializationError("yaml", "decode", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Names returns the configured repository names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Repositories))
	for name := range c.Repositories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every repository entry.
func (c *Config) Validate() error {
	if len(c.Repositories) == 0 {
		return errors.NewValidationError("repositories", "at least one repository is required")
	}
	for _, name := range c.Names() {
		if err := c.Repositories[name].validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (rc RepositoryConfig) validate(name string) error {
	field := func(f string) string { return "repositories." + name + "." + f }

	switch rc.Backend {
	case BackendMemory:
	case BackendFile, BackendPrefs:
		if rc.Path == "" {
			return errors.NewValidationError(field("path"), "required for the "+rc.Backend+" backend")
		}
	case BackendDynamoDB:
		if rc.DynamoDB == nil || rc.DynamoDB.Table == "" {
			return errors.NewValidationError(field("dynamodb.table"), "required for the dynamodb backend")
		}
	case BackendRedis:
		if rc.Redis == nil || rc.Redis.Addr == "" {
			return errors.NewValidationError(field("redis.addr"), "required for the redis backend")
		}
	case BackendCassandra:
		if rc.Cassandra == nil || len(rc.Cassandra.Hosts) == 0 {
			return errors.NewValidationError(field("cassandra.hosts"), "required for the cassandra backend")
		}
	case "":
		return errors.NewValidationError(field("backend"), "must not be empty")
	default:
		return errors.NewValidationError(field("backend"), fmt.Sprintf("unknown backend %q", rc.Backend))
	}

	if rc.Distribution != "" && rc.Backend != BackendFile {
		return errors.NewValidationError(field("distribution"), "only applies to the file backend")
	}
	if _, err := distribution(rc.Distribution); err != nil {
		return errors.NewValidationError(field("distribution"), err.Error())
	}

	switch rc.Mode {
	case "", ModeSync, ModeAsync:
	default:
		return errors.NewValidationError(field("mode"), fmt.Sprintf("unknown mode %q", rc.Mode))
	}
	if rc.Debounce < 0 {
		return errors.NewValidationError(field("debounce"), "must not be negative")
	}
	if rc.Debounce > 0 && rc.Mode != ModeAsync {
		return errors.NewValidationError(field("debounce"), "only applies in async mode")
	}

	for i, d := range rc.Decorators {
		if err := d.validate(field(fmt.Sprintf("decorators[%d]", i))); err != nil {
			return err
		}
	}
	return nil
}

func (d DecoratorConfig) validate(field string) error {
	switch {
	case d.Compress != "" && d.Encrypt != "":
		return errors.NewValidationError(field, "set either compress or encrypt, not both")
	case d.Compress != "":
		switch d.Compress {
		case "gzip", "snappy":
		default:
			return errors.NewValidationError(field+".compress", fmt.Sprintf("unknown archiver %q", d.Compress))
		}
		if d.Level != 0 && d.Compress != "gzip" {
			return errors.NewValidationError(field+".level", "only applies to gzip")
		}
	case d.Encrypt != "":
		switch d.Encrypt {
		case "aes-gcm", "xchacha20poly1305":
		default:
			return errors.NewValidationError(field+".encrypt", fmt.Sprintf("unknown cipher %q", d.Encrypt))
		}
		if d.KeyEnv == "" {
			return errors.NewValidationError(field+".keyEnv", "required for encryption")
		}
	default:
		return errors.NewValidationError(field, "empty decorator")
	}
	return nil
}
