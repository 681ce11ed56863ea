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

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/typename"
)

// Type returns the short name of T: the nearest named type after unwrapping
// pointers and containers, without its package. Types implementing
// apis.Namer and types registered with RegisterType report their own name.
//
//	Type[*bytes.Buffer]()       // "Buffer"
//	Type[[]list.List[int]]()    // "List[int]"
func Type[T any]() Name {
	return TypeOf(reflect.TypeFor[T](), apis.Short)
}

// FullType returns the full name of T, keeping pointers, containers and
// package names: FullType[*bytes.Buffer]() is "*bytes.Buffer".
func FullType[T any]() Name {
	return TypeOf(reflect.TypeFor[T](), apis.Full)
}

// TypeExpr returns the short name of the dynamic type of v.
func TypeExpr(v any) Name {
	return TypeOf(reflect.TypeOf(v), apis.Short)
}

// FullTypeExpr returns the full name of the dynamic type of v.
func FullTypeExpr(v any) Name {
	return TypeOf(reflect.TypeOf(v), apis.Full)
}

// TypeOf names t in the given form through the global resolver.
// A nil t has no name.
func TypeOf(t reflect.Type, form apis.Form) Name {
	if t == nil {
		return Name{}
	}
	s := st.Load()
	return MakeName(s.res.ResolveType(t, form, s.cfg))
}

// ParseType normalizes a type descriptor reported by a compiler. dialect
// is one of typename.Dialects() ("gcc", "clang", "msvc", "go").
//
//	ParseType("msvc", "class std::basic_string<char,struct std::char_traits<char>,class std::allocator<char> > const &", apis.Full)
func ParseType(dialect, raw string, form apis.Form) (Name, error) {
	s, err := typename.Normalize(dialect, raw, form, Config())
	if err != nil {
		return Name{}, err
	}
	return MakeName(s), nil
}

// RegisterType gives the nearest named type of t a fixed short name in the
// global registry.
func RegisterType(t reflect.Type, name string) error {
	return Registry().Register(t, name)
}
