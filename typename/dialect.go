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

// Package typename normalizes compiler-reported type names.
//
// Every compiler spells the same type differently: clang reports
// "const Long::LL &", GCC "const Long::LL&", MSVC "struct Long::LL const &",
// and Go's reflect package "*main.LL". A Dialect maps one such raw
// descriptor to a canonical string in one of two forms:
//
//   - apis.Short keeps the innermost name with its class nesting and
//     template arguments ("Long::LL", "SomeClass<int>", "G[x.A]").
//   - apis.Full keeps qualifiers, declarators and qualification, spelled
//     one way regardless of the dialect ("const Long::LL &").
//
// The same (type, qualifier-set) normalizes to the same string in every
// dialect of a language family. Dialects are pluggable through Register.
package typename

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"dirpx.dev/nameof/apis"
)

var (
	// ErrEmpty is returned for an empty descriptor.
	ErrEmpty = errors.New("nameof(typename): empty type descriptor")
	// ErrMalformed is returned when a descriptor cannot be parsed.
	ErrMalformed = errors.New("nameof(typename): malformed type descriptor")
	// ErrUnsupported is returned for descriptor shapes the normalizer does
	// not model (function types, arrays of C++ types).
	ErrUnsupported = errors.New("nameof(typename): unsupported type descriptor")
	// ErrNotNamed indicates that a short name was requested for a type with
	// no named component (e.g., an anonymous struct or a func type).
	ErrNotNamed = errors.New("nameof(typename): type has no name")
	// ErrUnknownDialect is returned by Lookup-based helpers for unregistered dialects.
	ErrUnknownDialect = errors.New("nameof(typename): unknown dialect")
	// ErrDuplicateDialect is returned when registering a dialect name twice.
	ErrDuplicateDialect = errors.New("nameof(typename): dialect already registered")
)

// Dialect turns one compiler's raw type descriptors into canonical names.
type Dialect interface {
	// Name is the registry key of the dialect ("gcc", "clang", ...).
	Name() string
	// Normalize renders raw in the requested form. Only MaxUnwrap and
	// MapPreferElem of cfg are consulted, and only by dialects with
	// container types.
	Normalize(raw string, form apis.Form, cfg apis.Config) (string, error)
}

var (
	// GCC reads names as GCC prints them, including __PRETTY_FUNCTION__
	// signatures of the form "... [with T = <type>]".
	GCC Dialect = cxxDialect{name: "gcc", extract: extractBracketed("[with T = ")}
	// Clang reads names as clang prints them, including __PRETTY_FUNCTION__
	// signatures of the form "... [T = <type>]".
	Clang Dialect = cxxDialect{name: "clang", extract: extractBracketed("[T = ")}
	// MSVC reads names as MSVC prints them, including __FUNCSIG__
	// signatures of the form "... n<<type>>(void)".
	MSVC Dialect = cxxDialect{name: "msvc", extract: extractMSVC}
	// Go reads names in reflect.Type.String syntax.
	Go Dialect = goDialect{}
)

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{
		GCC.Name():   GCC,
		Clang.Name(): Clang,
		MSVC.Name():  MSVC,
		Go.Name():    Go,
	}
)

// Register adds a dialect under d.Name().
func Register(d Dialect) error {
	if d == nil || d.Name() == "" {
		return fmt.Errorf("%w: nil or unnamed dialect", ErrMalformed)
	}
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	if _, ok := dialects[d.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDialect, d.Name())
	}
	dialects[d.Name()] = d
	return nil
}

// Lookup returns the dialect registered under name (case-insensitive).
func Lookup(name string) (Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	out := make([]string, 0, len(dialects))
	for n := range dialects {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Normalize looks up the named dialect and normalizes raw with it.
func Normalize(dialect, raw string, form apis.Form, cfg apis.Config) (string, error) {
	d, ok := Lookup(dialect)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}
	return d.Normalize(raw, form, cfg)
}

// cxxDialect is a C++ compiler dialect. All of them share one parser; they
// differ in how a type is embedded in a function signature.
type cxxDialect struct {
	name    string
	extract func(string) (string, bool)
}

func (d cxxDialect) Name() string { return d.name }

func (d cxxDialect) Normalize(raw string, form apis.Form, _ apis.Config) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmpty
	}
	if inner, ok := d.extract(s); ok {
		s = inner
	}
	t, err := ParseCXX(s)
	if err != nil {
		return "", err
	}
	if form == apis.Full {
		return t.Full(), nil
	}
	return t.Short(), nil
}

// extractBracketed pulls the type out of a GCC/clang pretty signature:
// "auto n() [T = const Long::LL &]" or
// "constexpr auto n() [with T = const Long::LL&; std::string_view = ...]".
func extractBracketed(marker string) func(string) (string, bool) {
	return func(s string) (string, bool) {
		i := strings.Index(s, marker)
		if i < 0 || !strings.HasSuffix(s, "]") {
			return "", false
		}
		body := s[i+len(marker) : len(s)-1]
		depth := 0
		for j := 0; j < len(body); j++ {
			switch body[j] {
			case '<', '(', '[':
				depth++
			case '>', ')', ']':
				depth--
			case ';':
				if depth == 0 {
					return strings.TrimSpace(body[:j]), true
				}
			}
		}
		return strings.TrimSpace(body), true
	}
}

// extractMSVC pulls the type out of an MSVC signature:
// "auto __cdecl nameof::detail::n<const struct Long::LL &>(void)".
func extractMSVC(s string) (string, bool) {
	if !strings.HasSuffix(s, ">(void)") {
		return "", false
	}
	body := s[:len(s)-len("(void)")]
	depth := 0
	for i := len(body) - 1; i >= 0; i-- {
		switch body[i] {
		case '>':
			depth++
		case '<':
			depth--
			if depth == 0 {
				return strings.TrimSpace(body[i+1 : len(body)-1]), true
			}
		}
	}
	return "", false
}
