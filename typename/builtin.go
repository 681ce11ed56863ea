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

package typename

import (
	"errors"
	"strings"
)

// builtinParts are the words a C++ fundamental type can be spelled with,
// including MSVC's sized integer keywords.
var builtinParts = map[string]struct{}{
	"void": {}, "bool": {}, "char": {}, "wchar_t": {}, "char8_t": {},
	"char16_t": {}, "char32_t": {}, "short": {}, "int": {}, "long": {},
	"signed": {}, "unsigned": {}, "float": {}, "double": {},
	"__int8": {}, "__int16": {}, "__int32": {}, "__int64": {},
	"__int128": {},
}

var errBadBuiltin = errors.New("invalid fundamental type")

// canonicalBuiltin folds the many spellings of a fundamental type to one:
// "long int" -> "long", "long unsigned int" -> "unsigned long",
// "unsigned __int64" -> "unsigned long long", "signed" -> "int".
func canonicalBuiltin(words []string) (string, error) {
	var (
		signed, unsigned    bool
		shorts, longs, ints int
		base                string
	)
	for _, w := range words {
		switch w {
		case "signed":
			signed = true
		case "unsigned":
			unsigned = true
		case "short", "__int16":
			shorts++
		case "long":
			longs++
		case "int", "__int32":
			ints++
		case "__int64":
			longs += 2
		case "__int8":
			if base != "" {
				return "", errBadBuiltin
			}
			base = "char"
		default:
			if base != "" {
				return "", errBadBuiltin
			}
			base = w
		}
	}
	if signed && unsigned || shorts > 1 || longs > 2 || ints > 1 || shorts > 0 && longs > 0 {
		return "", errBadBuiltin
	}

	switch base {
	case "":
		var b strings.Builder
		if unsigned {
			b.WriteString("unsigned ")
		}
		switch {
		case shorts == 1:
			b.WriteString("short")
		case longs == 1:
			b.WriteString("long")
		case longs == 2:
			b.WriteString("long long")
		default:
			b.WriteString("int")
		}
		return b.String(), nil
	case "char":
		if shorts+longs+ints > 0 {
			return "", errBadBuiltin
		}
		switch {
		case signed:
			return "signed char", nil
		case unsigned:
			return "unsigned char", nil
		}
		return "char", nil
	case "double":
		if signed || unsigned || shorts+ints > 0 || longs > 1 {
			return "", errBadBuiltin
		}
		if longs == 1 {
			return "long double", nil
		}
		return "double", nil
	case "__int128":
		if shorts+longs+ints > 0 {
			return "", errBadBuiltin
		}
		if unsigned {
			return "unsigned __int128", nil
		}
		return "__int128", nil
	default:
		if signed || unsigned || shorts+longs+ints > 0 {
			return "", errBadBuiltin
		}
		return base, nil
	}
}
