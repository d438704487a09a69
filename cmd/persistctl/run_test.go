/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type harness struct {
	t      *testing.T
	config string
}

func newHarness(t *testing.T, yaml string) *harness {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.yaml")
	yaml = strings.ReplaceAll(yaml, "DIR", dir)
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, config: path}
}

func (h *harness) run(stdin string, args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"-config", h.config, "-env", filepath.Join(filepath.Dir(h.config), ".env")}, args...)
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const fileConfig = `
repositories:
  docs:
    backend: file
    path: DIR/data
    decorators:
      - compress: snappy
`

func TestRun_FileRepository(t *testing.T) {
	h := newHarness(t, fileConfig)

	if code, _, stderr := h.run("", "put", "alpha", "first"); code != 0 {
		t.Fatalf("put failed: %s", stderr)
	}
	if code, _, stderr := h.run("from stdin", "put", "beta"); code != 0 {
		t.Fatalf("put from stdin failed: %s", stderr)
	}

	code, out, _ := h.run("", "get", "beta")
	if code != 0 || out != "from stdin" {
		t.Fatalf("get returned %d %q", code, out)
	}

	code, out, _ = h.run("", "ls")
	if code != 0 || out != "alpha\nbeta\n" {
		t.Fatalf("ls returned %d %q", code, out)
	}

	code, out, _ = h.run("", "ls", "--where", `name startsWith "b"`)
	if code != 0 || out != "beta\n" {
		t.Fatalf("ls --where returned %d %q", code, out)
	}

	if code, _, stderr := h.run("", "mv", "alpha", "gamma"); code != 0 {
		t.Fatalf("mv failed: %s", stderr)
	}
	code, out, _ = h.run("", "get", "gamma")
	if code != 0 || out != "first" {
		t.Fatalf("get after mv returned %d %q", code, out)
	}

	if code, _, stderr := h.run("", "delete", "beta", "gamma"); code != 0 {
		t.Fatalf("delete failed: %s", stderr)
	}
	if code, _, _ := h.run("", "get", "beta"); code != 1 {
		t.Fatalf("Expected get of deleted key to fail, got %d", code)
	}
}

func TestRun_Errors(t *testing.T) {
	h := newHarness(t, fileConfig+`
  scratch:
    backend: memory
`)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"NoCommand", nil, 2},
		{"AmbiguousRepository", []string{"get", "x"}, 2},
		{"UnknownRepository", []string{"-repo", "nope", "get", "x"}, 2},
		{"UnknownCommand", []string{"-repo", "docs", "frobnicate"}, 1},
		{"GetArity", []string{"-repo", "docs", "get"}, 1},
		{"MissingKey", []string{"-repo", "docs", "get", "missing"}, 1},
		{"ListUnsupported", []string{"-repo", "scratch", "ls"}, 1},
		{"RenameUnsupported", []string{"-repo", "scratch", "mv", "a", "b"}, 1},
		{"RenameMissing", []string{"-repo", "docs", "mv", "a", "b"}, 1},
		{"BadPredicate", []string{"-repo", "docs", "ls", "--where", "size >"}, 1},
		{"UnknownFlag", []string{"-bogus"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := h.run("", tt.args...)
			if code != tt.code {
				t.Fatalf("Expected exit code %d, got %d (%s)", tt.code, code, stderr)
			}
		})
	}
}

func TestRun_Repos(t *testing.T) {
	h := newHarness(t, fileConfig+`
  scratch:
    backend: memory
`)
	code, out, _ := h.run("", "repos")
	if code != 0 || out != "docs\nscratch\n" {
		t.Fatalf("repos returned %d %q", code, out)
	}
}

func TestRun_EnvFile(t *testing.T) {
	h := newHarness(t, `
repositories:
  secret:
    backend: file
    path: DIR/data
    decorators:
      - encrypt: xchacha20poly1305
        keyEnv: PERSISTCTL_TEST_KEY
`)
	envPath := filepath.Join(filepath.Dir(h.config), ".env")
	if err := os.WriteFile(envPath, []byte("PERSISTCTL_TEST_KEY=s3cret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PERSISTCTL_TEST_KEY", "")
	os.Unsetenv("PERSISTCTL_TEST_KEY")

	if code, _, stderr := h.run("", "put", "token", "value"); code != 0 {
		t.Fatalf("put failed: %s", stderr)
	}
	code, out, _ := h.run("", "get", "token")
	if code != 0 || out != "value" {
		t.Fatalf("get returned %d %q", code, out)
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), fmt.Sprintf("persistctl version %s", "0.1.0")) {
		t.Errorf("Unexpected version output: %q", stdout.String())
	}
}
