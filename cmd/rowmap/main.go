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
	"os"
	"strings"

	"github.com/suparena/rowmapper"
	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/config"
	"github.com/suparena/rowmapper/storagemodels"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configFlag  = flag.String("config", "rowmap.yaml", "Path to the YAML configuration file")
	debugFlag   = flag.Bool("debug", false, "Enable debug logging")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: rowmap [flags] <command> [args]

Commands:
  describe                  list the configured tables
  get <table> <key>...      fetch one raw row by primary key

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag || *vFlag {
		info := rowmapper.GetVersionInfo()
		fmt.Printf("rowmap version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), flag.Args(), os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "rowmap: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	switch args[0] {
	case "describe":
		describe(out, cfg)
		return nil
	case "get":
		if len(args) < 3 {
			return fmt.Errorf("usage: get <table> <key>...")
		}
		return get(ctx, out, cfg, logger, args[1], args[2:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func describe(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "keyspace %s (backend %s)\n", cfg.Keyspace, cfg.Backend)
	for _, def := range cfg.Tables {
		fmt.Fprintf(out, "\n%s  primary key (%s)\n", def.QualifiedName(), strings.Join(def.PrimaryKey, ", "))
		for _, c := range def.Columns {
			fmt.Fprintf(out, "  %-20s %s\n", c.Name, c.Type)
		}
	}
}

func get(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, table string, parts []string) error {
	var def *storagemodels.TableDef
	for i := range cfg.Tables {
		if cfg.Tables[i].Name == table {
			def = &cfg.Tables[i]
			break
		}
	}
	if def == nil {
		return fmt.Errorf("table %q is not configured", table)
	}
	if len(parts) != len(def.PrimaryKey) {
		return fmt.Errorf("table %s has a %d column primary key %v, got %d values",
			def.QualifiedName(), len(def.PrimaryKey), def.PrimaryKey, len(parts))
	}

	where := make(storagemodels.Predicate, len(parts))
	for i, col := range def.PrimaryKey {
		typ, _ := def.ColumnType(col)
		v, err := column.Parse(typ, parts[i])
		if err != nil {
			return fmt.Errorf("key column %s: %w", col, err)
		}
		where[i] = storagemodels.Eq{Column: col, Value: v}
	}

	store, err := config.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	q := &storagemodels.Select{Keyspace: def.Keyspace, Table: def.Name, Where: where}
	logger.Debug("get", "query", q.String())
	row, err := store.FetchOne(ctx, q)
	if err != nil {
		return err
	}
	if row == nil {
		fmt.Fprintf(out, "no row for %s\n", where)
		return nil
	}

	for _, name := range row.Columns() {
		typ, _ := row.Type(name)
		v, _ := row.Value(name)
		text := "null"
		if v != nil {
			if s, err := column.Format(typ, v); err == nil {
				text = s
			} else {
				text = fmt.Sprint(v)
			}
		}
		fmt.Fprintf(out, "%-20s %-10s %s\n", name, typ, text)
	}
	return nil
}
