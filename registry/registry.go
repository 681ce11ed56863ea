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

package registry

import (
	"errors"
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/config"
	"dirpx.dev/nameof/expr"
	uref "dirpx.dev/nameof/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("nameof(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("nameof(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name or enumerator table.
	ErrConflictingRegistration = errors.New("nameof(registry): conflicting type registration")
	// ErrNotInteger is returned when an enumerator table is registered for
	// a type whose kind is not an integer.
	ErrNotInteger = errors.New("nameof(registry): enum type must have an integer kind")
	// ErrEmptyTable is returned when registering an empty enumerator table.
	ErrEmptyTable = errors.New("nameof(registry): empty enumerator table")
	// ErrInvalidEnumerator is returned for enumerator names that are not identifiers.
	ErrInvalidEnumerator = errors.New("nameof(registry): enumerator name is not an identifier")
)

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
// Stored entries are never mutated; updates store a fresh *apis.Entry.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to its entry.
	m sync.Map // map[reflect.Type]*apis.Entry
	// count tracks the number of registered entries.
	count int
}

// Register associates the nearest named type of t with the given name.
// It is idempotent for the same (type,name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}

	// Normalize to the nearest named type according to r.cfg.
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	// Fast read path: idempotency / conflict check without locking.
	if e, ok := r.load(b); ok && e.Name != "" {
		if e.Name == name {
			return nil // idempotent re-registration
		}
		return ErrConflictingRegistration
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	next := apis.Entry{Type: b, Name: name}
	if e, ok := r.load(b); ok {
		if e.Name == name {
			return nil
		}
		if e.Name != "" {
			return ErrConflictingRegistration
		}
		next.Enumerators = e.Enumerators
	} else {
		r.count++
	}
	r.m.Store(b, &next)
	return nil
}

// Lookup returns a name for a type if present.
func (r *registry) Lookup(t reflect.Type) (name string, ok bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	if e, ok := r.load(nt); ok && e.Name != "" {
		return e.Name, true
	}
	return "", false
}

// RegisterEnum associates the enumeration type t (not normalized: *E is not
// an enumeration) with its enumerators in declaration order. Registering an
// equal table again is a no-op.
func (r *registry) RegisterEnum(t reflect.Type, enumerators []apis.Enumerator) error {
	if t == nil {
		return ErrNilType
	}
	if !isInteger(t.Kind()) {
		return ErrNotInteger
	}
	if len(enumerators) == 0 {
		return ErrEmptyTable
	}
	for _, e := range enumerators {
		if !expr.IsIdent(e.Name) {
			return ErrInvalidEnumerator
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := apis.Entry{Type: t, Enumerators: slices.Clone(enumerators)}
	if e, ok := r.load(t); ok {
		if e.Enumerators != nil {
			if slices.Equal(e.Enumerators, enumerators) {
				return nil
			}
			return ErrConflictingRegistration
		}
		next.Name = e.Name
	} else {
		r.count++
	}
	r.m.Store(t, &next)
	return nil
}

// Enumerators returns the enumerator table registered for t.
// The returned slice must not be modified.
func (r *registry) Enumerators(t reflect.Type) ([]apis.Enumerator, bool) {
	if t == nil {
		return nil, false
	}
	if e, ok := r.load(t); ok && e.Enumerators != nil {
		return e.Enumerators, true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(_, value any) bool {
		e := *value.(*apis.Entry)
		e.Enumerators = slices.Clone(e.Enumerators)
		entries = append(entries, e)
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}

func (r *registry) load(t reflect.Type) (*apis.Entry, bool) {
	v, ok := r.m.Load(t)
	if !ok {
		return nil, false
	}
	return v.(*apis.Entry), true
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
