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

package nameof

import (
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/nameof/apis"
)

// resetWithBuilder installs a clean snapshot built by b and restores the
// previous snapshot when the test ends.
// Pins are reset (preg=false, pres=false) because we pass nil reg/res.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	restoreAfter(tb)
	SetAll(&cfg, ext, nil, nil, b)
}

func restoreAfter(tb testing.TB) {
	saved := st.Load()
	tb.Cleanup(func() {
		update(func(*state) *state { return saved })
	})
}

func flag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id    string
	mu    sync.Mutex
	names map[reflect.Type]string
	enums map[reflect.Type][]apis.Enumerator
}

func newMockRegistry(id string) *mockRegistry {
	m := &mockRegistry{id: id}
	m.Reset()
	return m
}

func (m *mockRegistry) Register(t reflect.Type, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[t] = name
	return nil
}

func (m *mockRegistry) Lookup(t reflect.Type) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.names[t]
	return n, ok
}

func (m *mockRegistry) RegisterEnum(t reflect.Type, table []apis.Enumerator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enums[t] = slices.Clone(table)
	return nil
}

func (m *mockRegistry) Enumerators(t reflect.Type) ([]apis.Enumerator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enums[t]
	return e, ok
}

func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, n := range m.names {
		out = append(out, apis.Entry{Type: t, Name: n, Enumerators: m.enums[t]})
	}
	return out
}

func (m *mockRegistry) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.names)
}

func (m *mockRegistry) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = make(map[reflect.Type]string)
	m.enums = make(map[reflect.Type][]apis.Enumerator)
}

type mockResolver struct {
	id string
}

func (r *mockResolver) tag(cfg apis.Config) string {
	return r.id + ":" + flag(cfg.IncludeBuiltins) + ":" + flag(cfg.MapPreferElem) + ":" + strconv.Itoa(cfg.MaxUnwrap)
}

func (r *mockResolver) ResolveType(t reflect.Type, form apis.Form, cfg apis.Config) string {
	return r.tag(cfg) + ":" + form.String() + ":" + t.String()
}

func (r *mockResolver) ResolveEnum(_ any, cfg apis.Config) string {
	return r.tag(cfg)
}

type mockBuilder struct {
	mu             sync.Mutex
	lastCfg        apis.Config
	lastExt        any
	lastPrevRegID  string
	lastPrevResID  string
	regCounter     int
	resCounter     int
	returnFixedReg apis.Registry // optional override
	returnFixedRes apis.Resolver // optional override
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	if b.returnFixedReg != nil {
		return b.returnFixedReg
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	if b.returnFixedRes != nil {
		return b.returnFixedRes
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

// ---------------------- Tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}, nil)

	// snapshot 1
	s1Reg := Registry()
	s1Res := Resolver()

	// change cfg -> both should rebuild (not pinned)
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: false, MaxUnwrap: 4})

	s2Reg := Registry()
	s2Res := Resolver()

	if s1Reg == s2Reg {
		t.Fatalf("registry was not rebuilt on SetConfig (unpinned)")
	}
	if s1Res == s2Res {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	gotCfg := b.lastCfg
	b.mu.Unlock()
	if gotCfg.MaxUnwrap != 4 || !gotCfg.IncludeBuiltins || gotCfg.MapPreferElem {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}, nil)

	customReg := newMockRegistry("custom")
	SetRegistry(customReg)

	beforeRes := Resolver()
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: true, MaxUnwrap: 8})

	afterReg := Registry()
	afterRes := Resolver()

	if afterReg != customReg {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if afterRes == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}, nil)

	// Pin resolver
	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)

	// Grab current registry pointer (should be from builder b)
	regBefore := Registry()

	// Change cfg -> expect: registry rebuilt (not pinned), resolver unchanged (pinned)
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: true, MaxUnwrap: 8})

	regAfter := Registry()
	resAfter := Resolver()

	if resAfter != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if regAfter == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	// Start with builder A
	a := &mockBuilder{}
	resetWithBuilder(t, a, apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}, nil)

	// Pin resolver, leave registry unpinned
	SetResolver(&mockResolver{id: "pinned"})
	regBefore := Registry()
	resBefore := Resolver()

	// Swap to builder B
	b := &mockBuilder{}
	SetBuilder(b)

	// Trigger rebuild by changing config -> expect: registry rebuilt (unpinned), resolver unchanged (pinned)
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: false, MaxUnwrap: 6})

	regAfter := Registry()
	resAfter := Resolver()

	if regAfter == regBefore {
		t.Fatalf("registry did not rebuild after SetBuilder + SetConfig (unpinned)")
	}
	if resAfter != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder + SetConfig")
	}
}

func TestSetExt_Rebuilds_Unpinned_and_PassesValue(t *testing.T) {
	// Ensure snapshot uses our mock builder
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}, nil)

	// Change ext -> should rebuild unpinned layers via current builder (b) and pass ext
	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	ec, ok := got.(extCfg)
	if !ok || ec.X != 42 {
		t.Fatalf("builder did not receive ext properly: %#v", got)
	}

	// Pin both and ensure no rebuild on SetExt
	SetRegistry(Registry())
	SetResolver(Resolver())
	rCntBefore, sCntBefore := func() (int, int) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.regCounter, b.resCounter
	}()
	SetExt(extCfg{X: 7})
	rCntAfter, sCntAfter := func() (int, int) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.regCounter, b.resCounter
	}()
	if rCntAfter != rCntBefore || sCntAfter != sCntBefore {
		t.Fatalf("SetExt should not rebuild when both layers are pinned")
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}, nil)

	SetRegistry(Registry())
	SetResolver(Resolver())

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(apis.Config{IncludeBuiltins: true, MapPreferElem: false, MaxUnwrap: 4})
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	SetConfig(apis.Config{IncludeBuiltins: false, MapPreferElem: false, MaxUnwrap: 6})
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestResolve_Concurrent_With_SetConfig(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{IncludeBuiltins: false, MapPreferElem: true, MaxUnwrap: 8}, nil)

	type token struct{}
	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = TypeExpr(token{})
				_ = Enum(uint8(j))
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(apis.Config{
				IncludeBuiltins: i%2 == 0,
				MapPreferElem:   i%3 == 0,
				MaxUnwrap:       4 + (i % 5),
			})
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}

func TestSetConfig_PassesPreviousLayersToBuilder(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxUnwrap: 8}, nil)

	SetConfig(apis.Config{MaxUnwrap: 2})

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastPrevRegID != "reg#1" || b.lastPrevResID != "res#1" {
		t.Fatalf("builder saw prev=(%q,%q), want (reg#1,res#1)", b.lastPrevRegID, b.lastPrevResID)
	}
}

func TestBuilder_NilLayersPanic(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{MaxUnwrap: 8}, nil)

	defer func() {
		if r := recover(); r != ErrNilRegistry {
			t.Fatalf("recover() = %v, want ErrNilRegistry", r)
		}
		if Builder() != b {
			t.Fatalf("failed rebuild must not publish a snapshot")
		}
	}()
	SetBuilder(nilBuilder{})
	t.Fatal("SetBuilder should have panicked")
}

type nilBuilder struct{}

func (nilBuilder) BuildRegistry(apis.Config, apis.Registry, any) apis.Registry { return nil }
func (nilBuilder) BuildResolver(apis.Config, apis.Registry, apis.Resolver, any) apis.Resolver {
	return nil
}

func TestPinning_Flags(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, apis.Config{MaxUnwrap: 8}, nil)

	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatalf("fresh snapshot should not be pinned")
	}
	PinRegistry()
	PinResolver()
	if !IsRegistryPinned() || !IsResolverPinned() {
		t.Fatalf("Pin* did not pin")
	}
	SetAll(nil, nil, nil, nil, nil)
	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatalf("SetAll with nil layers should unpin")
	}
}

func TestExtAs(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, apis.Config{MaxUnwrap: 8}, "payload")

	if s, ok := ExtAs[string](); !ok || s != "payload" {
		t.Fatalf("ExtAs[string]() = (%q,%v)", s, ok)
	}
	if _, ok := ExtAs[int](); ok {
		t.Fatalf("ExtAs[int]() should fail")
	}
}

func TestTypeOf_GoesThroughResolver(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, apis.Config{MaxUnwrap: 3}, nil)

	got := TypeOf(reflect.TypeFor[int](), apis.Full).String()
	if got != "res#1:F:F:3:full:int" {
		t.Fatalf("TypeOf = %q", got)
	}
	if !TypeOf(nil, apis.Short).Empty() {
		t.Fatalf("TypeOf(nil) should be empty")
	}
}
