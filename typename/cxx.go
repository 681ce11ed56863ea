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
	"fmt"
	"strings"
)

// DeclKind is the kind of one declarator applied to a type.
type DeclKind int

const (
	// Pointer is "*".
	Pointer DeclKind = iota
	// LRef is an lvalue reference "&".
	LRef
	// RRef is an rvalue reference "&&".
	RRef
)

// Decl is one declarator. Const and Volatile qualify the pointer itself.
type Decl struct {
	Kind     DeclKind
	Const    bool
	Volatile bool
}

// Segment is one component of a qualified name, with its template
// arguments when Templated is set.
type Segment struct {
	Ident     string
	Args      []*Type
	Templated bool
}

// Type is a parsed C++ type descriptor.
type Type struct {
	Const    bool
	Volatile bool
	// Scope holds the enclosing namespaces and classes, outermost first.
	Scope []Segment
	// Name is the innermost segment; for builtins it holds the canonical
	// builtin spelling.
	Name    Segment
	Builtin bool
	// Literal is set for non-type template arguments ("4", "-1", "true").
	Literal string
	Decls   []Decl
}

// anonNS is the canonical spelling of an anonymous namespace. Every
// compiler spelling is rewritten to anonToken before lexing.
const (
	anonNS    = "(anonymous namespace)"
	anonToken = "__nameof_anonymous_namespace__"
)

var anonSpellings = strings.NewReplacer(
	"(anonymous namespace)", anonToken,
	"`anonymous namespace'", anonToken,
	"{anonymous}", anonToken,
)

// inlineNamespaces are ABI namespaces that some standard libraries insert
// and others do not; they are dropped from every form.
var inlineNamespaces = map[string]struct{}{
	"__1":      {},
	"__cxx11":  {},
	"__ndk1":   {},
	"__debug":  {},
	"_V2":      {},
	"__fs":     {},
	"__detail": {},
}

// knownNamespaces are always treated as namespaces when computing short names.
var knownNamespaces = map[string]struct{}{
	"std":     {},
	anonToken: {},
}

// ignoredWords carry no meaning for the canonical name.
var ignoredWords = map[string]struct{}{
	"struct":       {},
	"class":        {},
	"enum":         {},
	"union":        {},
	"typename":     {},
	"__cdecl":      {},
	"__stdcall":    {},
	"__fastcall":   {},
	"__thiscall":   {},
	"__vectorcall": {},
	"__clrcall":    {},
	"__ptr64":      {},
	"__ptr32":      {},
	"__restrict":   {},
	"__unaligned":  {},
	"__w64":        {},
}

// ParseCXX parses a C++ type as printed by GCC, clang or MSVC.
func ParseCXX(raw string) (*Type, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrEmpty
	}
	toks, err := lex(anonSpellings.Replace(s))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return t, nil
}

// Short renders the type without cv-qualifiers, declarators or namespace
// qualification. Class nesting and template arguments are kept.
//
// A descriptor does not tell namespaces from classes, so segments are
// classified by spelling: std, inline and anonymous namespaces and any
// untemplated segment starting with a lowercase letter count as
// namespaces. Everything up to the innermost one is dropped, which means a
// lowercase enclosing class is dropped too ("foo::bar" -> "bar").
func (t *Type) Short() string {
	if t.Literal != "" {
		return t.Literal
	}
	if t.Builtin {
		return t.Name.Ident
	}
	var b strings.Builder
	// Keep the classes after the innermost namespace.
	keep := 0
	for i, seg := range t.Scope {
		if isNamespace(seg) {
			keep = i + 1
		}
	}
	for _, seg := range t.Scope[keep:] {
		writeSegment(&b, seg)
		b.WriteString("::")
	}
	writeSegment(&b, t.Name)
	return b.String()
}

// Full renders the type with cv-qualifiers, complete qualification and
// declarators in canonical spelling: "const ns::T<int> *const &".
func (t *Type) Full() string {
	if t.Literal != "" {
		return t.Literal
	}
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	if t.Volatile {
		b.WriteString("volatile ")
	}
	b.WriteString(t.qualified())
	if len(t.Decls) > 0 {
		b.WriteByte(' ')
		b.WriteString(declString(t.Decls))
	}
	return b.String()
}

// String returns the full form.
func (t *Type) String() string { return t.Full() }

func (t *Type) qualified() string {
	if t.Builtin {
		return t.Name.Ident
	}
	var b strings.Builder
	for _, seg := range t.Scope {
		if _, ok := inlineNamespaces[seg.Ident]; ok && !seg.Templated {
			continue
		}
		writeSegment(&b, seg)
		b.WriteString("::")
	}
	writeSegment(&b, t.Name)
	return b.String()
}

func writeSegment(b *strings.Builder, seg Segment) {
	if seg.Ident == anonToken {
		b.WriteString(anonNS)
	} else {
		b.WriteString(seg.Ident)
	}
	if !seg.Templated {
		return
	}
	b.WriteByte('<')
	for i, a := range seg.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Full())
	}
	b.WriteByte('>')
}

// declString spells declarators the way clang does: "*", "*const", "&",
// "&&", with a space only after a qualifier word ("*const *").
func declString(decls []Decl) string {
	var b strings.Builder
	word := false
	for _, d := range decls {
		if word {
			b.WriteByte(' ')
		}
		word = false
		switch d.Kind {
		case Pointer:
			b.WriteByte('*')
			if d.Const {
				b.WriteString("const")
				word = true
			}
			if d.Volatile {
				if word {
					b.WriteByte(' ')
				}
				b.WriteString("volatile")
				word = true
			}
		case LRef:
			b.WriteByte('&')
		case RRef:
			b.WriteString("&&")
		}
	}
	return b.String()
}

// isNamespace classifies a scope segment. A descriptor does not say whether
// a qualifier is a namespace or a class, so lowercase, untemplated segments
// are taken as namespaces and everything else as enclosing classes.
func isNamespace(seg Segment) bool {
	if seg.Templated {
		return false
	}
	if _, ok := knownNamespaces[seg.Ident]; ok {
		return true
	}
	if _, ok := inlineNamespaces[seg.Ident]; ok {
		return true
	}
	c := seg.Ident[0]
	return 'a' <= c && c <= 'z'
}

// token kinds
const (
	tokIdent = iota
	tokNumber
	tokPunct
)

type token struct {
	kind int
	text string
}

func lex(s string) ([]token, error) {
	var out []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			out = append(out, token{tokIdent, s[i:j]})
			i = j
		case '0' <= c && c <= '9':
			j := i + 1
			for j < len(s) && (isIdentPart(s[j]) || s[j] == '.') {
				j++
			}
			out = append(out, token{tokNumber, s[i:j]})
			i = j
		case c == ':':
			if i+1 < len(s) && s[i+1] == ':' {
				out = append(out, token{tokPunct, "::"})
				i += 2
				continue
			}
			return nil, fmt.Errorf("%w: stray ':' in %q", ErrMalformed, s)
		case c == '&':
			if i+1 < len(s) && s[i+1] == '&' {
				out = append(out, token{tokPunct, "&&"})
				i += 2
				continue
			}
			out = append(out, token{tokPunct, "&"})
			i++
		case strings.IndexByte("<>,*()[]-", c) >= 0:
			out = append(out, token{tokPunct, string(c)})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrMalformed, c, s)
		}
	}
	return out, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c == '~' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos].text
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s in %q", ErrMalformed, fmt.Sprintf(format, args...), p.src)
}

// parseType parses: quals* base quals* declarator*.
func (p *parser) parseType() (*Type, error) {
	t := &Type{}
	p.quals(t)

	if p.done() {
		return nil, p.errorf("missing type")
	}
	if words := p.builtinWords(); len(words) > 0 {
		name, err := canonicalBuiltin(words)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		t.Builtin = true
		t.Name = Segment{Ident: name}
	} else {
		if err := p.qualifiedName(t); err != nil {
			return nil, err
		}
	}
	p.quals(t)

	for !p.done() {
		switch p.peek() {
		case "*":
			p.next()
			d := Decl{Kind: Pointer}
			p.pointerQuals(&d)
			t.Decls = append(t.Decls, d)
		case "&":
			p.next()
			t.Decls = append(t.Decls, Decl{Kind: LRef})
			p.skipIgnored()
		case "&&":
			p.next()
			t.Decls = append(t.Decls, Decl{Kind: RRef})
			p.skipIgnored()
		case "(", "[":
			return nil, fmt.Errorf("%w: %q", ErrUnsupported, p.src)
		default:
			return t, nil
		}
	}
	return t, nil
}

// quals consumes cv-qualifiers and ignorable words ahead of or after the
// base type; both apply to the base.
func (p *parser) quals(t *Type) {
	for !p.done() {
		switch w := p.peek(); w {
		case "const":
			t.Const = true
		case "volatile":
			t.Volatile = true
		default:
			if _, ok := ignoredWords[w]; !ok {
				return
			}
		}
		p.next()
	}
}

func (p *parser) pointerQuals(d *Decl) {
	for !p.done() {
		switch w := p.peek(); w {
		case "const":
			d.Const = true
		case "volatile":
			d.Volatile = true
		default:
			if _, ok := ignoredWords[w]; !ok {
				return
			}
		}
		p.next()
	}
}

func (p *parser) skipIgnored() {
	for !p.done() {
		if _, ok := ignoredWords[p.peek()]; !ok {
			return
		}
		p.next()
	}
}

// builtinWords consumes a run of builtin type words ("long unsigned int").
func (p *parser) builtinWords() []string {
	var words []string
	for !p.done() {
		w := p.peek()
		if _, ok := builtinParts[w]; !ok {
			break
		}
		words = append(words, w)
		p.next()
	}
	return words
}

func (p *parser) qualifiedName(t *Type) error {
	if p.peek() == "::" {
		p.next()
	}
	var segs []Segment
	for {
		if p.done() || p.toks[p.pos].kind != tokIdent {
			return p.errorf("expected identifier, got %q", p.peek())
		}
		seg := Segment{Ident: p.next().text}
		if p.peek() == "<" {
			p.next()
			seg.Templated = true
			args, err := p.templateArgs()
			if err != nil {
				return err
			}
			seg.Args = args
		}
		segs = append(segs, seg)
		if p.peek() != "::" {
			break
		}
		p.next()
	}
	t.Scope = segs[:len(segs)-1]
	t.Name = segs[len(segs)-1]
	return nil
}

// templateArgs parses arguments up to and including the closing '>'.
func (p *parser) templateArgs() ([]*Type, error) {
	var args []*Type
	if p.peek() == ">" {
		p.next()
		return args, nil
	}
	for {
		a, err := p.templateArg()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		switch p.peek() {
		case ",":
			p.next()
		case ">":
			p.next()
			return args, nil
		default:
			return nil, p.errorf("expected ',' or '>', got %q", p.peek())
		}
	}
}

func (p *parser) templateArg() (*Type, error) {
	if p.done() {
		return nil, p.errorf("unterminated template argument list")
	}
	tok := p.toks[p.pos]
	switch {
	case tok.kind == tokNumber:
		p.next()
		return &Type{Literal: tok.text}, nil
	case tok.text == "-":
		p.next()
		if p.done() || p.toks[p.pos].kind != tokNumber {
			return nil, p.errorf("expected number after '-'")
		}
		return &Type{Literal: "-" + p.next().text}, nil
	case tok.text == "true" || tok.text == "false" || tok.text == "nullptr":
		p.next()
		return &Type{Literal: tok.text}, nil
	}
	return p.parseType()
}
