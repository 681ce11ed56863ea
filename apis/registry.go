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

package apis

import "reflect"

// Registry provides a reflection-free lookup for known types: explicit
// short type names and enumerator tables.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a (nearest named) reflect.Type with a fixed short name.
	// Implementations should be idempotent; conflicting re-registrations return an error.
	Register(t reflect.Type, name string) error
	// Lookup returns a short name for a type if present.
	Lookup(t reflect.Type) (name string, ok bool)
	// RegisterEnum associates an enumeration type with its declared
	// enumerators, in declaration order.
	RegisterEnum(t reflect.Type, enumerators []Enumerator) error
	// Enumerators returns the table registered for t.
	Enumerators(t reflect.Type) ([]Enumerator, bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single registration in a Registry snapshot.
// An entry carries a Name, Enumerators, or both.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Name is the associated short name.
	Name string
	// Enumerators is the associated enumerator table.
	Enumerators []Enumerator
}
