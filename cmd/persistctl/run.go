/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/suparena/persist"
	"github.com/suparena/persist/config"
	"github.com/suparena/persist/repository"
)

const usage = `Usage: persistctl [flags] <command> [args]

Commands:
  get <key>              print the item stored under key
  put <key> [value]      store value, or stdin when value is omitted
  delete <key>           delete the item stored under key
  ls [--where expr]      list items (file repositories only)
  mv <from> <to>         rename an item (file repositories only)
  repos                  list configured repositories

Flags:
`

type cli struct {
	reg    *persist.Registry
	entry  persist.Entry
	stdin  io.Reader
	stdout io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("persistctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "persist.yaml", "Configuration file")
		envFile    = fs.String("env", ".env", "Environment file loaded before the configuration")
		repoName   = fs.String("repo", "", "Repository to operate on (defaults to the only configured one)")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
		versionF   = fs.Bool("version", false, "Show version information")
		vF         = fs.Bool("v", false, "Show version information (short)")
	)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *versionF || *vF {
		info := persist.GetVersionInfo()
		fmt.Fprintf(stdout, "persistctl version %s\n", info.Version)
		fmt.Fprintf(stdout, "Git commit: %s\n", info.GitCommit)
		fmt.Fprintf(stdout, "Build date: %s\n", info.BuildDate)
		fmt.Fprintf(stdout, "Go version: %s\n", info.GoVersion)
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := config.LoadEnv(*envFile); err != nil {
		logger.Error("failed to load environment", "err", err)
		return 1
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		return 1
	}
	reg, err := cfg.BuildWithLogger(ctx, logger)
	if err != nil {
		logger.Error("failed to build repositories", "err", err)
		return 1
	}
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Warn("failed to close repositories", "err", err)
		}
	}()

	c := &cli{reg: reg, stdin: stdin, stdout: stdout}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd != "repos" {
		if c.entry, err = c.selectRepository(*repoName); err != nil {
			logger.Error("no repository selected", "err", err)
			return 2
		}
	}

	if err := c.dispatch(ctx, cmd, rest); err != nil {
		logger.Error("command failed", "op", cmd, "err", err)
		return 1
	}
	return 0
}

func (c *cli) selectRepository(name string) (persist.Entry, error) {
	if name == "" {
		names := c.reg.List()
		if len(names) != 1 {
			return persist.Entry{}, fmt.Errorf("--repo is required, choose one of %s", strings.Join(names, ", "))
		}
		name = names[0]
	}
	return c.reg.Get(name)
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "get":
		return c.get(ctx, args)
	case "put":
		return c.put(ctx, args)
	case "delete", "rm":
		return c.delete(ctx, args)
	case "ls", "list":
		return c.list(ctx, args)
	case "mv", "rename":
		return c.rename(ctx, args)
	case "repos":
		for _, name := range c.reg.List() {
			fmt.Fprintln(c.stdout, name)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (c *cli) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("get takes exactly one key")
	}
	data, err := c.entry.KeyValue.RetrieveContext(ctx, args[0])
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%s: not found", args[0])
	}
	_, err = c.stdout.Write(data)
	return err
}

func (c *cli) put(ctx context.Context, args []string) error {
	var data []byte
	switch len(args) {
	case 1:
		var err error
		if data, err = io.ReadAll(c.stdin); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	case 2:
		data = []byte(args[1])
	default:
		return fmt.Errorf("put takes a key and an optional value")
	}
	return c.entry.KeyValue.StoreContext(ctx, args[0], data)
}

func (c *cli) delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("delete takes at least one key")
	}
	for _, key := range args {
		if err := c.entry.KeyValue.DeleteContext(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) list(ctx context.Context, args []string) error {
	if c.entry.Full == nil {
		return fmt.Errorf("repository does not support listing")
	}

	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	where := fs.String("where", "", "expr-lang predicate over name, size, createdOn, modifiedOn and now")
	long := fs.Bool("l", false, "Show size and modification time")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var match repository.Predicate
	if *where != "" {
		var err error
		if match, err = repository.MatchExpr(*where); err != nil {
			return err
		}
	}

	seq := c.entry.Full.MetadataMatchingContext(ctx, match)
	for seq.Next() {
		md := seq.Value()
		if !*long {
			fmt.Fprintln(c.stdout, md.Name)
			continue
		}
		size, modified := "-", "-"
		if md.Size != nil {
			size = fmt.Sprint(*md.Size)
		}
		if md.ModifiedOn != nil {
			modified = time.Time(*md.ModifiedOn).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(c.stdout, "%s\t%s\t%s\n", size, modified, md.Name)
	}
	return seq.Err()
}

func (c *cli) rename(ctx context.Context, args []string) error {
	if c.entry.Full == nil {
		return fmt.Errorf("repository does not support rename")
	}
	if len(args) != 2 {
		return fmt.Errorf("mv takes a source and a destination key")
	}
	ok, err := c.entry.Full.RenameContext(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: not found", args[0])
	}
	return nil
}
