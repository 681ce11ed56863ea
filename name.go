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
	"strings"
	"unique"
)

// Name is the result of every naming operation: an interned, immutable
// string. Equal names compare equal with ==. The zero Name is empty and
// means "no name".
type Name struct {
	h unique.Handle[string]
}

// MakeName interns s. MakeName("") is the zero Name.
func MakeName(s string) Name {
	if s == "" {
		return Name{}
	}
	return Name{h: unique.Make(s)}
}

// String returns the name text, or "" for an empty Name.
func (n Name) String() string {
	if n.Empty() {
		return ""
	}
	return n.h.Value()
}

// Data returns the interned text itself. It shares storage with every
// equal Name and stays valid as long as the string is referenced.
func (n Name) Data() string { return n.String() }

// Str returns a private copy of the text.
func (n Name) Str() string { return strings.Clone(n.String()) }

// Len returns the length of the name in bytes.
func (n Name) Len() int { return len(n.String()) }

// Empty reports whether n carries no name.
func (n Name) Empty() bool { return n == Name{} }

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) { return []byte(n.String()), nil }
