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

// Package enum reflects enumeration values into enumerator names.
//
// Go has no enum declarations to introspect, so an enumeration is described
// by an ordered table of apis.Enumerator values: built by hand with Table,
// discovered from a type's String method with Probe, or generated from
// source by the nameof scan command.
//
// Name resolves a value in two steps. An exact match returns the declared
// name. Otherwise, when every set bit of the value is covered by
// single-bit enumerators, the names of those enumerators are joined in
// declaration order ("CanFly|EatsFish"). Anything else has no name.
package enum

import (
	"math/bits"
	"strings"

	"dirpx.dev/nameof/apis"
)

// Integer is the set of underlying types an enumeration can have.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Pair is one enumerator of a typed enumeration.
type Pair[E Integer] struct {
	Name  string
	Value E
}

// P is shorthand for constructing a Pair.
func P[E Integer](name string, value E) Pair[E] {
	return Pair[E]{Name: name, Value: value}
}

// Bits returns the bit pattern of v as stored in apis.Enumerator.Value.
// Signed values are sign-extended so that -1 of any width maps to the same
// pattern.
func Bits[E Integer](v E) uint64 {
	return uint64(v)
}

// Table converts typed pairs, in declaration order, into an enumerator table.
func Table[E Integer](pairs ...Pair[E]) []apis.Enumerator {
	out := make([]apis.Enumerator, len(pairs))
	for i, p := range pairs {
		out[i] = apis.Enumerator{Name: p.Name, Value: Bits(p.Value)}
	}
	return out
}

// Exact returns the name of the first declared enumerator equal to v.
func Exact(v uint64, table []apis.Enumerator) (string, bool) {
	for _, e := range table {
		if e.Value == v {
			return e.Name, true
		}
	}
	return "", false
}

// Flags decomposes v into the single-bit enumerators whose bits are set in
// v, in declaration order, each bit counted once. It fails unless their OR
// reconstructs v exactly; zero never decomposes. Values are taken as 64-bit
// patterns; see FlagsIn for narrower signed types.
func Flags(v uint64, table []apis.Enumerator, sep string) (string, bool) {
	return FlagsIn(v, table, sep, 64)
}

// FlagsIn is Flags for an enumeration of the given bit width. Both v and
// the enumerators are truncated to width bits first, so the sign bit of a
// narrow signed type, stored sign-extended, counts as a single bit.
func FlagsIn(v uint64, table []apis.Enumerator, sep string, width int) (string, bool) {
	mask := Mask(width)
	v &= mask
	if v == 0 {
		return "", false
	}
	var (
		b       strings.Builder
		covered uint64
	)
	for _, e := range table {
		ev := e.Value & mask
		if !singleBit(ev) || v&ev == 0 || covered&ev != 0 {
			continue
		}
		if covered != 0 {
			b.WriteString(sep)
		}
		b.WriteString(e.Name)
		covered |= ev
	}
	if covered != v {
		return "", false
	}
	return b.String(), true
}

// Name returns the exact enumerator name of v, or its flag decomposition
// joined with sep, or ("", false) when v has no representable name.
func Name(v uint64, table []apis.Enumerator, sep string) (string, bool) {
	return NameIn(v, table, sep, 64)
}

// NameIn is Name for an enumeration of the given bit width. Exact matches
// compare the full stored pattern; decomposition works on width bits.
func NameIn(v uint64, table []apis.Enumerator, sep string, width int) (string, bool) {
	if n, ok := Exact(v, table); ok {
		return n, true
	}
	return FlagsIn(v, table, sep, width)
}

// Mask returns the low width bits set. Widths outside (0, 64) give all
// 64 bits.
func Mask(width int) uint64 {
	if width <= 0 || width >= 64 {
		return ^uint64(0)
	}
	return 1<<width - 1
}

// IsFlags reports whether every non-zero enumerator of the table is a
// single bit, i.e. the table describes a flag set.
func IsFlags(table []apis.Enumerator) bool {
	n := 0
	for _, e := range table {
		if e.Value == 0 {
			continue
		}
		if !singleBit(e.Value) {
			return false
		}
		n++
	}
	return n > 0
}

func singleBit(v uint64) bool {
	return bits.OnesCount64(v) == 1
}
