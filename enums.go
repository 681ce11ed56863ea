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
	"sync"
	"sync/atomic"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/enum"
)

// EnumSupported reports that enum reflection is available. Every build of
// this package supports it.
const EnumSupported = true

// Enum returns the name of the enumeration value v: the declared
// enumerator equal to v, or else the flag decomposition joined by
// Config().EnumSeparator in declaration order ("CanFly|EatsFish"). Values
// with neither have an empty name.
//
// Enumerators come from RegisterEnum, or are discovered through the
// String method of E over [EnumRangeMin, EnumRangeMax].
func Enum[E enum.Integer](v E) Name {
	s := st.Load()
	return MakeName(s.res.ResolveEnum(v, s.cfg))
}

// EnumOK is Enum reporting whether v has a name.
func EnumOK[E enum.Integer](v E) (Name, bool) {
	n := Enum(v)
	return n, !n.Empty()
}

// EnumConst is Enum for values that do not change, such as declared
// constants. The result is memoized until the next RegisterEnum,
// RegisterEnumerators or global reconfiguration; tables registered
// directly on Registry() are not seen by already memoized values.
func EnumConst[E enum.Integer](v E) Name {
	m := consts.Load()
	if n, ok := m.Load(v); ok {
		return n.(Name)
	}
	n, _ := m.LoadOrStore(v, Enum(v))
	return n.(Name)
}

// RegisterEnum declares the enumerators of E in declaration order.
//
//	nameof.RegisterEnum(enum.P("RED", RED), enum.P("GREEN", GREEN), enum.P("BLUE", BLUE))
func RegisterEnum[E enum.Integer](pairs ...enum.Pair[E]) error {
	return RegisterEnumerators(reflect.TypeFor[E](), enum.Table(pairs...))
}

// RegisterEnumerators declares the enumerators of t, e.g. a table read from
// a file produced by the scan command.
func RegisterEnumerators(t reflect.Type, table []apis.Enumerator) error {
	defer resetConsts()
	return Registry().RegisterEnum(t, table)
}

// consts memoizes EnumConst by value; keys are E values boxed in any, so
// equal numbers of different types stay distinct.
var consts atomic.Pointer[sync.Map]

func resetConsts() {
	consts.Store(new(sync.Map))
}
