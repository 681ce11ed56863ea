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
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/builder"
	"dirpx.dev/nameof/config"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil, nil)
	s.res = s.bld.BuildResolver(s.cfg, s.reg, nil, nil)
	publish(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("nameof: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("nameof: builder returned nil resolver")
)

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced. A non-nil reg or res is pinned;
// a nil one is rebuilt and unpinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	update(func(old *state) *state {
		next := *old
		next.ext = ext
		next.preg, next.pres = false, false
		if cfg != nil {
			next.cfg = *cfg
		}
		if bld != nil {
			next.bld = bld
		}
		if reg != nil {
			next.reg, next.preg = reg, true
		}
		if res != nil {
			next.res, next.pres = res, true
		}
		return next.rebuild(old)
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the non-pinned
// registry and resolver for it.
func SetConfig(cfg apis.Config) {
	update(func(old *state) *state {
		next := *old
		next.cfg = cfg
		return next.rebuild(old)
	})
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs and pins reg, rebuilding a non-pinned resolver on
// top of it. Nil is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(old *state) *state {
		next := *old
		next.reg, next.preg = reg, true
		return next.rebuild(old)
	})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs and pins res. Nil is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(old *state) *state {
		next := *old
		next.res, next.pres = res, true
		return &next
	})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the builder and rebuilds the non-pinned layers with it.
// Nil is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(old *state) *state {
		next := *old
		next.bld = b
		return next.rebuild(old)
	})
}

// SetExt replaces the extension payload handed to the builder and rebuilds
// the non-pinned layers. builder.Ext and *slog.Logger are understood by
// the default builder.
func SetExt[T any](ext T) {
	update(func(old *state) *state {
		next := *old
		next.ext = ext
		return next.rebuild(old)
	})
}

// ExtAs returns the global extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether rebuilds keep the current registry.
func IsRegistryPinned() bool { return st.Load().preg }

// PinRegistry makes rebuilds keep the current registry.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the next rebuild replace the registry.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// IsResolverPinned reports whether rebuilds keep the current resolver.
func IsResolverPinned() bool { return st.Load().pres }

// PinResolver makes rebuilds keep the current resolver.
func PinResolver() { setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets the next rebuild replace the resolver.
func UnpinResolver() { setPins(func(s *state) { s.pres = false }) }

func setPins(f func(*state)) {
	update(func(old *state) *state {
		next := *old
		f(&next)
		return &next
	})
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global snapshot.
// Immutable once published; writers copy it, change the copy and swap.
type state struct {
	cfg apis.Config
	ext any
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
	// preg and pres pin reg and res across rebuilds.
	preg bool
	pres bool
}

// rebuild rebuilds the non-pinned layers of s with its own builder, config
// and ext, migrating from old, and returns s. It panics when the builder
// returns nil.
func (s *state) rebuild(old *state) *state {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, old.reg, s.ext)
		if s.reg == nil {
			panic(ErrNilRegistry)
		}
	}
	if !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, s.reg, old.res, s.ext)
		if s.res == nil {
			panic(ErrNilResolver)
		}
	}
	return s
}

// update runs f under buildMu and publishes its result.
func update(f func(old *state) *state) {
	buildMu.Lock()
	defer buildMu.Unlock()
	publish(f(st.Load()))
}

// publish stores s and drops memoized enum constants of older snapshots.
func publish(s *state) {
	st.Store(s)
	resetConsts()
}
