/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command nameof runs the name reflection engine from the shell and scans
// Go and C++ sources for enumerator tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"dirpx.dev/nameof"
	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/cmd/nameof/internal/scan"
	"dirpx.dev/nameof/config"
	"dirpx.dev/nameof/enum"
	"dirpx.dev/nameof/typename"
)

type CLI struct {
	Verbose bool `help:"Log progress to stderr." short:"v"`

	Expr    ExprCmd    `cmd:"" help:"Reduce expressions to their names."`
	Type    TypeCmd    `cmd:"" help:"Normalize a compiler type descriptor."`
	Enum    EnumCmd    `cmd:"" help:"Name enumeration values using a table file."`
	Scan    ScanCmd    `cmd:"" help:"Discover enumerations and write a table file."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// Env is what every command runs against.
type Env struct {
	Out    io.Writer
	Log    *slog.Logger
	Config apis.Config
}

func newEnv(out, logOut io.Writer, verbose bool) (*Env, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	nameof.SetExt(log)
	nameof.SetConfig(cfg)
	return &Env{Out: out, Log: log, Config: cfg}, nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	_, err := fmt.Fprintln(env.Out, Version())
	return err
}

type ExprCmd struct {
	Full  bool     `help:"Keep the instantiation suffix." xor:"mode"`
	Raw   bool     `help:"Print the text as written." xor:"mode"`
	Texts []string `arg:"" help:"Expressions, e.g. 'obj.Method[int](x)'."`
}

func (c *ExprCmd) Run(env *Env) error {
	reduce := nameof.Of
	switch {
	case c.Full:
		reduce = nameof.Full
	case c.Raw:
		reduce = nameof.Raw
	}
	for _, text := range c.Texts {
		n, err := reduce(text)
		if err != nil {
			return fmt.Errorf("%q: %w", text, err)
		}
		fmt.Fprintln(env.Out, n)
	}
	return nil
}

type TypeCmd struct {
	Dialect string `help:"Descriptor dialect (${dialects})." required:"" short:"d"`
	Full    bool   `help:"Keep qualifiers and namespaces."`
	Raw     string `arg:"" help:"Raw descriptor or function signature."`
}

func (c *TypeCmd) Run(env *Env) error {
	form := apis.Short
	if c.Full {
		form = apis.Full
	}
	n, err := nameof.ParseType(c.Dialect, c.Raw, form)
	if err != nil {
		return err
	}
	env.Log.Debug("normalized type", "dialect", c.Dialect, "form", form.String())
	_, err = fmt.Fprintln(env.Out, n)
	return err
}

type EnumCmd struct {
	Table  string   `help:"Table file written by scan." required:"" type:"existingfile" short:"t"`
	Type   string   `help:"Enumeration type, qualified or bare." required:""`
	Values []string `arg:"" help:"Values to name, or names joined by the separator to turn into a value."`
}

func (c *EnumCmd) Run(env *Env) error {
	f, err := os.Open(c.Table)
	if err != nil {
		return err
	}
	defer f.Close()
	tables, err := scan.Decode(f)
	if err != nil {
		return err
	}
	tbl, err := scan.Find(tables, c.Type)
	if err != nil {
		return err
	}
	env.Log.Debug("loaded table", "type", tbl.Type, "enumerators", len(tbl.Enumerators))

	idx := enum.NewIndexIn(tbl.Enumerators, tbl.Bits)
	sep := env.Config.EnumSeparator
	for _, v := range c.Values {
		if bits, ok := parseBits(v); ok {
			name, _ := idx.Name(bits, sep)
			fmt.Fprintln(env.Out, name)
			continue
		}
		bits, err := valueOf(idx, v, sep)
		if err != nil {
			return fmt.Errorf("%s: %w", tbl.Type, err)
		}
		fmt.Fprintln(env.Out, bits)
	}
	return nil
}

var errUnknownEnumerator = errors.New("unknown enumerator")

// valueOf ORs the values of the enumerators named in s.
func valueOf(idx *enum.Index, s, sep string) (uint64, error) {
	var bits uint64
	for _, part := range strings.Split(s, strings.TrimSpace(sep)) {
		name := strings.TrimSpace(part)
		v, ok := idx.Value(name)
		if !ok {
			return 0, fmt.Errorf("%w %q", errUnknownEnumerator, name)
		}
		bits |= v
	}
	return bits, nil
}

func parseBits(s string) (uint64, bool) {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return uint64(i), true
	}
	u, err := strconv.ParseUint(s, 0, 64)
	return u, err == nil
}

type ScanCmd struct {
	Lang  string   `help:"Source language." enum:"go,cpp" default:"go"`
	Dir   string   `help:"Directory package patterns are resolved in." default:"." type:"path"`
	Out   string   `help:"Write the table file here instead of stdout." short:"o" type:"path"`
	Paths []string `arg:"" help:"Package patterns for go, files for cpp."`
}

func (c *ScanCmd) Run(ctx context.Context, env *Env) error {
	tables, err := c.scan(ctx, env)
	if err != nil {
		return err
	}
	env.Log.Info("scanned", "lang", c.Lang, "tables", len(tables))

	w := env.Out
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return scan.Encode(w, tables)
}

func (c *ScanCmd) scan(ctx context.Context, env *Env) ([]scan.Table, error) {
	if c.Lang == "go" {
		return scan.Go(ctx, c.Dir, c.Paths...)
	}
	var tables []scan.Table
	for _, path := range c.Paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		found, err := scan.CPP(ctx, path, src)
		if err != nil {
			// Partial results are still written.
			env.Log.Warn("skipped enumerations", "file", path, "err", err)
		}
		env.Log.Debug("scanned file", "file", path, "tables", len(found))
		tables = append(tables, found...)
	}
	return tables, nil
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name("nameof"),
		kong.Description("Names of expressions, types and enumeration values."),
		kong.UsageOnError(),
		kong.Vars{"dialects": strings.Join(typename.Dialects(), ", ")},
	}
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli, options()...)
	env, err := newEnv(os.Stdout, os.Stderr, cli.Verbose)
	ctx.FatalIfErrorf(err)
	ctx.BindTo(context.Background(), (*context.Context)(nil))
	ctx.FatalIfErrorf(ctx.Run(env))
}
