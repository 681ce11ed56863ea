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

// Package nameof turns expressions, types and enumeration values into
// their names.
//
// There are three kinds of names:
//
//   - Expression names. Of reduces the spelling of a variable, member or
//     function to its last identifier: "structvar.somefield" becomes
//     "somefield", "obj.Method(1)" becomes "Method". Full keeps a trailing
//     instantiation suffix, Raw keeps the text as written. Capture and its
//     variants take the spelling straight from the caller's source:
//
//     n, _ := nameof.Capture(person.address.zip_info) // "zip_info"
//
//   - Type names. Type[T] returns the short name (nearest named type, no
//     package) and FullType[T] the full one. ParseType normalizes type
//     descriptors printed by C++ compilers (gcc, clang, msvc) and by Go,
//     so that one type gets one name whichever compiler reported it.
//
//   - Enumerator names. Enum(v) returns the declared name of v, or the
//     names of its set flags joined by "|" in declaration order.
//
// Every operation returns a Name. An empty Name means "no name"; the
// expression operations also return an error saying why.
//
// # Design
//
// Type and enum resolution go through a read-mostly global snapshot:
//
//   - Config: normalization knobs (container unwrapping depth, map side
//     preference, builtin visibility, template stripping, enum probe
//     range and flag separator). Built with package config, optionally
//     from NAMEOF_* environment variables.
//
//   - Registry: explicit short names for types (RegisterType) and
//     enumerator tables (RegisterEnum, RegisterEnumerators).
//
//   - Resolver: an ordered chain of strategies. Types: apis.Namer, then the
//     registry, then reflection. Enum values: the registry, then probing
//     the String method of the enumeration type.
//
//   - Builder: constructs Registry and Resolver for a Config and migrates
//     registrations across rebuilds.
//
// Readers load the current snapshot atomically and never lock. Writers
// (SetConfig, SetBuilder, SetExt, SetRegistry, SetResolver, SetAll)
// serialize on a build mutex, assemble a new snapshot and swap it in.
//
// # Pinning
//
// SetRegistry and SetResolver install a layer and pin it: later rebuilds
// keep it until UnpinRegistry or UnpinResolver. SetAll resets pins for
// the layers it rebuilds.
//
// # Extension payload
//
// SetExt hands an opaque value to the Builder on every rebuild. The
// default builder understands builder.Ext and *slog.Logger and logs
// rebuilds at debug level.
package nameof
