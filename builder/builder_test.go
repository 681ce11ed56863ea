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

package builder_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/builder"
	"dirpx.dev/nameof/config"
	"dirpx.dev/nameof/enum"
	"dirpx.dev/nameof/registry"
)

// userType is a plain named type with no special behavior.
// It is used to test fallback via reflection.
type userType struct{}

// hotType implements apis.Namer and is used to verify that the
// Namer-based strategy takes priority over other strategies.
type hotType struct{}

func (hotType) NameofType() string { return "HotName" }

type Shade int

const (
	ShadeLight Shade = iota + 1
	ShadeDark
)

func (s Shade) String() string {
	switch s {
	case ShadeLight:
		return "ShadeLight"
	case ShadeDark:
		return "ShadeDark"
	}
	return fmt.Sprintf("Shade(%d)", int(s))
}

// defaultCfg returns a sane configuration for tests.
func defaultCfg() apis.Config {
	return config.DefaultConfig()
}

// TestBuildRegistry_Basic asserts that BuildRegistry returns a non-nil,
// working Registry that supports Register/Lookup/Entries/Count.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(defaultCfg(), nil, nil)
	if reg == nil {
		t.Fatal("BuildRegistry returned nil")
	}

	tt := reflect.TypeOf(userType{})
	if err := reg.Register(tt, "userType"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if got, ok := reg.Lookup(tt); !ok || got != "userType" {
		t.Fatalf("Lookup mismatch: ok=%v got=%q want=%q", ok, got, "userType")
	}

	if c := reg.Count(); c < 1 {
		t.Fatalf("Count too small: %d", c)
	}
}

// TestBuildRegistry_MigratesNamesAndTables checks that a rebuild keeps both
// kinds of registrations.
func TestBuildRegistry_MigratesNamesAndTables(t *testing.T) {
	b := builder.New()
	prev := b.BuildRegistry(defaultCfg(), nil, nil)

	st := reflect.TypeOf(ShadeLight)
	if err := prev.Register(reflect.TypeOf(userType{}), "User"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := prev.RegisterEnum(st, enum.Table(enum.P("Light", ShadeLight))); err != nil {
		t.Fatalf("RegisterEnum: %v", err)
	}

	next := b.BuildRegistry(defaultCfg(), prev, nil)
	if next.Count() != 2 {
		t.Fatalf("Count after migration: got %d want 2", next.Count())
	}
	if name, ok := next.Lookup(reflect.TypeOf(&userType{})); !ok || name != "User" {
		t.Fatalf("Lookup after migration: (%q,%v)", name, ok)
	}
	if table, ok := next.Enumerators(st); !ok || table[0].Name != "Light" {
		t.Fatalf("Enumerators after migration: (%v,%v)", table, ok)
	}
}

// TestBuildResolver_TypeOrder verifies resolution priority:
// 1. If the type implements apis.Namer, use NameofType().
// 2. Otherwise, if the type is explicitly registered in the Registry, use that.
// 3. Otherwise, fall back to the reflect-based strategy.
func TestBuildResolver_TypeOrder(t *testing.T) {
	b := builder.New()
	cfg := defaultCfg()

	reg := b.BuildRegistry(cfg, nil, nil)

	type fromRegistry struct{}
	ttReg := reflect.TypeOf(fromRegistry{})
	if err := reg.Register(ttReg, "RegName"); err != nil {
		t.Fatalf("Register(fromRegistry) failed: %v", err)
	}
	// Registered, but Namer still wins.
	if err := reg.Register(reflect.TypeOf(hotType{}), "Ignored"); err != nil {
		t.Fatalf("Register(hotType) failed: %v", err)
	}

	res := b.BuildResolver(cfg, reg, nil, nil)
	if res == nil {
		t.Fatal("BuildResolver returned nil")
	}

	if got := res.ResolveType(reflect.TypeOf(hotType{}), apis.Short, cfg); got != "HotName" {
		t.Fatalf("Namer priority broken: got %q want %q", got, "HotName")
	}
	if got := res.ResolveType(ttReg, apis.Short, cfg); got != "RegName" {
		t.Fatalf("Registry strategy broken: got %q want %q", got, "RegName")
	}
	if got := res.ResolveType(reflect.TypeOf(userType{}), apis.Short, cfg); got != "userType" {
		t.Fatalf("Reflect strategy: got %q want userType", got)
	}
	// The full form is always structural.
	if got := res.ResolveType(reflect.TypeOf(&hotType{}), apis.Full, cfg); got != "*builder_test.hotType" {
		t.Fatalf("full form: got %q", got)
	}
}

// TestBuildResolver_EnumOrder checks that a registered table overrides probing.
func TestBuildResolver_EnumOrder(t *testing.T) {
	b := builder.New()
	cfg := defaultCfg()
	reg := b.BuildRegistry(cfg, nil, nil)
	res := b.BuildResolver(cfg, reg, nil, nil)

	if got := res.ResolveEnum(ShadeDark, cfg); got != "ShadeDark" {
		t.Fatalf("probe: got %q want ShadeDark", got)
	}
	if got := res.ResolveEnum(userType{}, cfg); got != "" {
		t.Fatalf("non-enum: got %q", got)
	}

	if err := reg.RegisterEnum(reflect.TypeOf(ShadeDark), enum.Table(enum.P("Dark", ShadeDark))); err != nil {
		t.Fatalf("RegisterEnum: %v", err)
	}
	if got := res.ResolveEnum(ShadeDark, cfg); got != "Dark" {
		t.Fatalf("registry: got %q want Dark", got)
	}
	// Declared table without ShadeLight: no name, and no fallback to probing.
	if got := res.ResolveEnum(ShadeLight, cfg); got != "" {
		t.Fatalf("registry miss: got %q want empty", got)
	}
}

// TestBuildResolver_WithExternalRegistry asserts that BuildResolver will
// accept any apis.Registry implementation and still resolve names from it.
func TestBuildResolver_WithExternalRegistry(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	if err := r.Register(reflect.TypeOf(userType{}), "u"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	res := builder.New().BuildResolver(defaultCfg(), r, nil, nil)
	got := res.ResolveType(reflect.TypeOf(userType{}), apis.Short, defaultCfg())
	if got != "u" {
		t.Fatalf("resolver did not use registry mapping: got %q want %q", got, "u")
	}
}

func TestBuild_LogsThroughExt(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := builder.New()

	reg := b.BuildRegistry(defaultCfg(), nil, builder.Ext{Logger: l})
	_ = b.BuildResolver(defaultCfg(), reg, nil, l)

	out := buf.String()
	if !strings.Contains(out, "registry built") || !strings.Contains(out, "resolver built") {
		t.Fatalf("missing debug records: %q", out)
	}

	// Unknown ext payloads are ignored.
	buf.Reset()
	_ = b.BuildRegistry(defaultCfg(), nil, 42)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to ensure
// it is safe to call ResolveType/ResolveEnum concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := defaultCfg()

	reg := b.BuildRegistry(cfg, nil, nil)
	_ = reg.Register(reflect.TypeOf(userType{}), "userType")
	_ = reg.Register(reflect.TypeOf(hotType{}), "hotType") // Namer still should override

	res := b.BuildResolver(cfg, reg, nil, nil)

	types := []reflect.Type{
		reflect.TypeOf(userType{}),
		reflect.TypeOf(hotType{}),
		reflect.TypeOf(&userType{}),
		reflect.TypeOf([]userType{}),
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				tt := types[(i+id)%len(types)]
				_ = res.ResolveType(tt, apis.Form(i%2), cfg)
				if got := res.ResolveEnum(ShadeLight, cfg); got != "ShadeLight" {
					t.Errorf("ResolveEnum: got %q", got)
					return
				}
			}
		}(w)
	}

	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
