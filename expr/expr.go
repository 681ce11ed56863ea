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

// Package expr reduces the source text of an expression to the identifier
// it ultimately names.
//
// The reducer works on text only. It understands the separators shared by
// Go and C-family sources (".", "->", "::"), call-argument groups, and
// template or generic instantiation suffixes ("<...>", "[...]"):
//
//	structvar.somefield                  -> somefield
//	(&structvar)->somefield              -> somefield
//	&SomeStruct::SomeMethod1             -> SomeMethod1
//	SomeMethod4<int, float>(1.0f)        -> SomeMethod4
//	&SomeClass<int>::SomeMethod6<long>   -> SomeMethod6       (or SomeMethod6<long> with KeepTemplate)
//	cache.Get[string](key)               -> Get
//
// Text that does not end in a usable identifier (literals, numbers,
// keywords, unbalanced brackets) is rejected with an error.
package expr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty is returned when the expression reduces to nothing.
	ErrEmpty = errors.New("nameof(expr): expression has no name")
	// ErrLiteral is returned for string, character and raw string literals.
	ErrLiteral = errors.New("nameof(expr): literal has no name")
	// ErrNumeric is returned when the reduced name starts with a digit.
	ErrNumeric = errors.New("nameof(expr): numeric literal has no name")
	// ErrKeyword is returned when the reduced name is a reserved word.
	ErrKeyword = errors.New("nameof(expr): keyword has no name")
	// ErrUnbalanced is returned when brackets in the expression do not pair up.
	ErrUnbalanced = errors.New("nameof(expr): unbalanced brackets")
)

// Mode selects optional reduction behavior.
type Mode struct {
	// KeepTemplate retains a trailing template/instantiation suffix.
	KeepTemplate bool
}

// Reduce returns the final identifier named by the expression text.
func Reduce(text string, mode Mode) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", ErrEmpty
	}
	if isLiteral(s) {
		return "", fmt.Errorf("%w: %s", ErrLiteral, s)
	}
	if !balanced(s) {
		return "", fmt.Errorf("%w: %s", ErrUnbalanced, s)
	}

	s = stripCall(s)
	suffix := suffixLen(s)

	// The identifier is the last run of identifier characters before the
	// suffix; everything ahead of it (address-of, dereference, scope and
	// member separators, enclosing parentheses) is qualification.
	end := len(s) - suffix
	start := end
	for start > 0 && isIdentByte(s[start-1]) {
		start--
	}
	name := s[start:end]
	if mode.KeepTemplate {
		name = s[start:]
	}

	if name == "" || start == end {
		return "", fmt.Errorf("%w: %s", ErrEmpty, text)
	}
	if isDigit(name[0]) {
		return "", fmt.Errorf("%w: %s", ErrNumeric, text)
	}
	if _, ok := keywords[s[start:end]]; ok {
		return "", fmt.Errorf("%w: %s", ErrKeyword, s[start:end])
	}
	return name, nil
}

// Raw returns the expression text as written, minus surrounding space.
func Raw(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}

// IsIdent reports whether s is a single identifier that Reduce would
// return unchanged.
func IsIdent(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	_, kw := keywords[s]
	return !kw
}

// stripCall removes one trailing call-argument group "(...)".
func stripCall(s string) string {
	if !strings.HasSuffix(s, ")") {
		return s
	}
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return strings.TrimRight(s[:i], " \t")
			}
		}
	}
	return s
}

// suffixLen measures a trailing "<...>" or "[...]" group, counting nesting
// of the same bracket kind.
func suffixLen(s string) int {
	if s == "" {
		return 0
	}
	var open, close byte
	switch s[len(s)-1] {
	case '>':
		open, close = '<', '>'
	case ']':
		open, close = '[', ']'
	default:
		return 0
	}
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case close:
			// "->" is member access, not a closing bracket.
			if close == '>' && i > 0 && s[i-1] == '-' {
				continue
			}
			depth++
		case open:
			depth--
			if depth == 0 {
				return len(s) - i
			}
		}
	}
	return 0
}

// balanced reports whether (), [] and {} pair up. Angle brackets are not
// checked here since "<" and ">" double as operators.
func balanced(s string) bool {
	var stack []byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pair[c] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

var pair = map[byte]byte{')': '(', ']': '[', '}': '{'}

func isLiteral(s string) bool {
	switch s[0] {
	case '"', '\'', '`':
		return true
	}
	for _, p := range []string{`R"`, `L"`, `L'`, `u8"`, `u8'`, `u"`, `u'`, `U"`, `U'`, `LR"`, `u8R"`, `uR"`, `UR"`} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c >= 0x80
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// keywords are reserved words that can end an expression but never name
// anything. Words reserved in only one of Go or C++ (type, map, func,
// range) are left alone since the other language allows them as names.
// Macro tokens such as __LINE__ are ordinary identifiers here.
var keywords = map[string]struct{}{
	"true": {}, "false": {}, "nil": {}, "nullptr": {}, "this": {},
	"return": {}, "if": {}, "else": {}, "for": {}, "switch": {}, "case": {},
	"default": {}, "break": {}, "continue": {}, "goto": {}, "const": {},
	"struct": {}, "sizeof": {}, "alignof": {}, "decltype": {}, "new": {},
	"delete": {}, "operator": {}, "template": {}, "typename": {},
	"class": {}, "enum": {}, "union": {}, "static_cast": {}, "const_cast": {},
	"dynamic_cast": {}, "reinterpret_cast": {}, "throw": {}, "noexcept": {},
}
