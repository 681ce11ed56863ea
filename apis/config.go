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

// Config carries read-only resolution knobs that influence strategies.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// StripTemplate controls whether expression names drop a trailing
	// template/instantiation suffix ("Foo<int>" -> "Foo"). Full-name
	// operations ignore it and always keep the suffix.
	StripTemplate bool `env:"NAMEOF_STRIP_TEMPLATE,default=true"`

	// IncludeBuiltins controls whether builtin/no-package named types
	// (e.g., "int", "string") are returned as short type names. If false, such cases yield "".
	IncludeBuiltins bool `env:"NAMEOF_INCLUDE_BUILTINS,default=true"`

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when computing short Go type names.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int `env:"NAMEOF_MAX_UNWRAP,default=8" validate:"gte=0,lte=64"`

	// MapPreferElem controls which side of map[K]V is considered “primary”
	// when searching for a nearest named inner type. If true, prefer V; otherwise K.
	MapPreferElem bool `env:"NAMEOF_MAP_PREFER_ELEM,default=true"`

	// EnumRangeMin and EnumRangeMax bound the values probed when enumerators
	// of a type are discovered through its String method.
	EnumRangeMin int `env:"NAMEOF_ENUM_RANGE_MIN,default=-128" validate:"ltefield=EnumRangeMax"`
	EnumRangeMax int `env:"NAMEOF_ENUM_RANGE_MAX,default=128"`

	// EnumSeparator joins the names of a flag decomposition.
	EnumSeparator string `env:"NAMEOF_ENUM_SEPARATOR,default=|" validate:"required"`
}
