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

package enum

import "dirpx.dev/nameof/apis"

// Index is an immutable value -> name map over an enumerator table. It
// answers exact matches without scanning and falls back to flag
// decomposition. The zero Index has no enumerators.
type Index struct {
	table  []apis.Enumerator
	byBits map[uint64]string
	width  int
}

// NewIndex builds an Index over 64-bit values. The first declared
// enumerator wins when several share a value.
func NewIndex(table []apis.Enumerator) *Index {
	return NewIndexIn(table, 64)
}

// NewIndexIn builds an Index for an enumeration of the given bit width,
// as reported by reflect.Type.Bits.
func NewIndexIn(table []apis.Enumerator, width int) *Index {
	idx := &Index{
		table:  append([]apis.Enumerator(nil), table...),
		byBits: make(map[uint64]string, len(table)),
		width:  width,
	}
	for _, e := range table {
		if _, dup := idx.byBits[e.Value]; !dup {
			idx.byBits[e.Value] = e.Name
		}
	}
	return idx
}

// Name resolves v like NameIn at the index width.
func (x *Index) Name(v uint64, sep string) (string, bool) {
	if x == nil {
		return "", false
	}
	if n, ok := x.byBits[v]; ok {
		return n, true
	}
	return FlagsIn(v, x.table, sep, x.width)
}

// Value returns the value of the enumerator called name.
func (x *Index) Value(name string) (uint64, bool) {
	if x == nil {
		return 0, false
	}
	for _, e := range x.table {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// Len returns the number of enumerators.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.table)
}

// Enumerators returns a copy of the table in declaration order.
func (x *Index) Enumerators() []apis.Enumerator {
	if x == nil {
		return nil
	}
	return append([]apis.Enumerator(nil), x.table...)
}
