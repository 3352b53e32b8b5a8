// Command tsddl parses CREATE TABLE / CREATE DATABASE statements and serves
// the parser over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/arkilian/tsddl/internal/app"
	"github.com/arkilian/tsddl/internal/config"
	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/ddl/parser"
	"github.com/arkilian/tsddl/internal/logging"
	"github.com/arkilian/tsddl/internal/partition"
)

var (
	version = "dev"
	commit  = "unknown"
)

// CLI is the command tree.
var CLI struct {
	Parse   ParseCmd   `cmd:"" help:"Parse DDL statements and print their AST as JSON"`
	Locate  LocateCmd  `cmd:"" help:"Print the partition a key falls into"`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP DDL endpoint"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ParseCmd parses files, or stdin when none are given.
type ParseCmd struct {
	Files   []string `arg:"" optional:"" help:"SQL files to parse" type:"existingfile"`
	Dialect string   `help:"SQL dialect (generic, mysql)" default:"generic" enum:"generic,mysql"`
	Compact bool     `help:"Print one JSON document per line"`
}

func (c *ParseCmd) Run(ctx *kong.Context) error {
	dialect, err := parser.DialectByName(c.Dialect)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(ctx.Stdout)
	if !c.Compact {
		enc.SetIndent("", "  ")
	}

	if len(c.Files) == 0 {
		return parseInput(enc, os.Stdin, "<stdin>", dialect)
	}
	for _, path := range c.Files {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "failed to open input")
		}
		err = parseInput(enc, f, path, dialect)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func parseInput(enc *json.Encoder, r io.Reader, name string, d parser.Dialect) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", name)
	}
	stmts, err := parser.ParseStatements(string(data), d)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, stmt := range stmts {
		if err := enc.Encode(ast.Tag(stmt)); err != nil {
			return err
		}
	}
	return nil
}

// LocateCmd routes one partition key through a partitioned CREATE TABLE.
// Use -- before keys that start with a minus sign.
type LocateCmd struct {
	File    string   `arg:"" help:"SQL file holding one partitioned CREATE TABLE" type:"existingfile"`
	Key     []string `arg:"" help:"Key values as SQL literals, in partition column order"`
	Dialect string   `help:"SQL dialect (generic, mysql)" default:"generic" enum:"generic,mysql"`
}

func (c *LocateCmd) Run(ctx *kong.Context) error {
	dialect, err := parser.DialectByName(c.Dialect)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	name, err := locate(string(data), c.Key, dialect)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, name)
	return nil
}

func locate(sql string, key []string, d parser.Dialect) (string, error) {
	stmt, err := parser.Parse(sql, d)
	if err != nil {
		return "", err
	}
	ct, ok := stmt.(*ast.CreateTable)
	if !ok || ct.Partitions == nil {
		return "", errors.New("statement is not a partitioned CREATE TABLE")
	}
	rule, err := partition.NewRangeRule(ct.Columns, ct.Partitions)
	if err != nil {
		return "", err
	}

	values := make([]ast.Value, len(key))
	for i, k := range key {
		if values[i], err = parser.ParseValue(k, d); err != nil {
			return "", err
		}
	}
	idx, err := rule.Locate(values)
	if err != nil {
		return "", err
	}
	return rule.PartitionName(idx), nil
}

// ServeCmd runs the HTTP front end until SIGINT or SIGTERM.
type ServeCmd struct {
	Config string `short:"c" help:"Path to configuration file (YAML or JSON)" type:"existingfile"`
	Addr   string `help:"Override the HTTP listen address"`
}

func (c *ServeCmd) Run(ctx *kong.Context) error {
	cfg := config.DefaultConfig()
	if c.Config != "" {
		loaded, err := config.LoadFromFile(c.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)
	if c.Addr != "" {
		cfg.HTTP.Addr = c.Addr
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	if err := a.Start(context.Background()); err != nil {
		return err
	}
	return a.WaitForShutdown(context.Background())
}

// VersionCmd prints build information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "tsddl version %s (commit: %s)\n", version, commit)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tsddl"),
		kong.Description("DDL front end for a time-series database"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
