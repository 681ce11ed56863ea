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

package strategy

import (
	"reflect"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/enum"
)

// NewRegistryStrategy creates an apis.Strategy backed by an apis.Registry.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults registered names and enumerator tables.
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryResolveType looks up the short name of t. Registered names replace
// only the short form.
func (s *registryStrategy) TryResolveType(t reflect.Type, form apis.Form, _ apis.Config) (string, bool) {
	if t == nil || s.reg == nil || form != apis.Short {
		return "", false
	}
	return s.reg.Lookup(t)
}

// TryResolveEnum names v from the enumerator table registered for its type.
// A type with a table is always handled, so values with no name yield "".
func (s *registryStrategy) TryResolveEnum(v any, cfg apis.Config) (string, bool) {
	if v == nil || s.reg == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	table, ok := s.reg.Enumerators(rv.Type())
	if !ok {
		return "", false
	}
	bits, ok := enum.BitsOf(rv)
	if !ok {
		return "", true
	}
	name, _ := enum.NameIn(bits, table, cfg.EnumSeparator, rv.Type().Bits())
	return name, true
}
