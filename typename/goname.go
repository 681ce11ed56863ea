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
	"path"
	"strings"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/config"
)

// GoKind is the shape of a GoType node.
type GoKind int

const (
	// GoNamed is a named (possibly instantiated) or predeclared type.
	GoNamed GoKind = iota
	GoPointer
	GoSlice
	GoArray
	GoMap
	GoChan
	// GoLiteral is an unnamed func, struct or interface type, kept verbatim.
	GoLiteral
)

// GoType is a parsed Go type in reflect.Type.String syntax.
type GoType struct {
	Kind GoKind
	// Pkg is the package path or name qualifying a named type; empty for
	// predeclared types.
	Pkg string
	// PkgName is the package's declared name when known. Otherwise the
	// full form derives it from Pkg with PackageName.
	PkgName string
	// Name is the type name, or the verbatim text of a literal.
	Name string
	// Args are the instantiation arguments of a generic named type.
	Args []*GoType
	// Len is the array length.
	Len string
	// Dir is the channel prefix: "chan", "<-chan" or "chan<-".
	Dir  string
	Key  *GoType
	Elem *GoType
}

type goDialect struct{}

func (goDialect) Name() string { return "go" }

func (goDialect) Normalize(raw string, form apis.Form, cfg apis.Config) (string, error) {
	t, err := ParseGo(raw)
	if err != nil {
		return "", err
	}
	if form == apis.Full {
		return t.Full(), nil
	}
	return t.Short(cfg)
}

// ParseGo parses a type as printed by reflect.Type.String, e.g.
// "map[string][]*dirpx.dev/x.G[int]".
func ParseGo(raw string) (*GoType, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrEmpty
	}
	p := &goParser{s: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.i != len(p.s) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrMalformed, p.s[p.i:], s)
	}
	return t, nil
}

// Full renders the type with package paths replaced by package names:
// "*dirpx.dev/x.G[gopkg.in/yaml.v3.Node]" -> "*x.G[yaml.Node]".
func (t *GoType) Full() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

// String returns the full form.
func (t *GoType) String() string { return t.Full() }

// Short unwraps pointers, slices, arrays, channels and maps (preferring the
// map side selected by cfg.MapPreferElem) to the nearest named type and
// renders it without its package qualifier: "[]*x.G[y.A]" -> "G[y.A]".
func (t *GoType) Short(cfg apis.Config) (string, error) {
	n := t.Nearest(cfg)
	if n == nil {
		return "", ErrNotNamed
	}
	var b strings.Builder
	n.writeNamed(&b, false)
	return b.String(), nil
}

// Nearest returns the nearest named type after unwrapping containers, or
// nil when there is none within cfg.MaxUnwrap levels.
func (t *GoType) Nearest(cfg apis.Config) *GoType {
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}
	for i := 0; t != nil && i <= maxUnwrap; i++ {
		switch t.Kind {
		case GoNamed:
			return t
		case GoPointer, GoSlice, GoArray, GoChan:
			t = t.Elem
		case GoMap:
			first, second := t.Elem, t.Key
			if !cfg.MapPreferElem {
				first, second = second, first
			}
			if first.Kind == GoNamed {
				return first
			}
			if second.Kind == GoNamed {
				return second
			}
			t = t.Elem
		default:
			return nil
		}
	}
	return nil
}

func (t *GoType) write(b *strings.Builder) {
	switch t.Kind {
	case GoNamed:
		t.writeNamed(b, true)
	case GoPointer:
		b.WriteByte('*')
		t.Elem.write(b)
	case GoSlice:
		b.WriteString("[]")
		t.Elem.write(b)
	case GoArray:
		b.WriteByte('[')
		b.WriteString(t.Len)
		b.WriteByte(']')
		t.Elem.write(b)
	case GoMap:
		b.WriteString("map[")
		t.Key.write(b)
		b.WriteByte(']')
		t.Elem.write(b)
	case GoChan:
		b.WriteString(t.Dir)
		b.WriteByte(' ')
		// "chan (<-chan int)" needs parentheses to stay unambiguous.
		if t.Dir == "chan" && t.Elem.Kind == GoChan && t.Elem.Dir == "<-chan" {
			b.WriteByte('(')
			t.Elem.write(b)
			b.WriteByte(')')
			return
		}
		t.Elem.write(b)
	case GoLiteral:
		b.WriteString(t.Name)
	}
}

func (t *GoType) writeNamed(b *strings.Builder, qualified bool) {
	if qualified && t.Pkg != "" {
		name := t.PkgName
		if name == "" {
			name = PackageName(t.Pkg)
		}
		b.WriteString(name)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)
	if len(t.Args) == 0 {
		return
	}
	b.WriteByte('[')
	for i, a := range t.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		a.write(b)
	}
	b.WriteByte(']')
}

// PackageName guesses the name of the package at pkgPath the way the go
// command's conventions suggest: the last path element, skipping a major
// version element ("example.com/m/v2" -> "m") and dropping a gopkg.in
// version suffix ("gopkg.in/yaml.v3" -> "yaml"). Packages declaring some
// other name need GoType.PkgName.
func PackageName(pkgPath string) string {
	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if dir := path.Dir(pkgPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}
	if i := strings.LastIndex(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}
	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

type goParser struct {
	s string
	i int
}

func (p *goParser) rest() string { return p.s[p.i:] }

func (p *goParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s in %q", ErrMalformed, fmt.Sprintf(format, args...), p.s)
}

func (p *goParser) parse() (*GoType, error) {
	r := p.rest()
	switch {
	case r == "":
		return nil, p.errorf("missing type")
	case strings.HasPrefix(r, "*"):
		p.i++
		return p.wrap(GoPointer)
	case strings.HasPrefix(r, "[]"):
		p.i += 2
		return p.wrap(GoSlice)
	case strings.HasPrefix(r, "["):
		end := strings.IndexByte(r, ']')
		if end < 0 {
			return nil, p.errorf("unterminated array length")
		}
		n := r[1:end]
		p.i += end + 1
		t, err := p.wrap(GoArray)
		if err != nil {
			return nil, err
		}
		t.Len = n
		return t, nil
	case strings.HasPrefix(r, "map["):
		p.i += len("map[")
		key, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(p.rest(), "]") {
			return nil, p.errorf("unterminated map key")
		}
		p.i++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return &GoType{Kind: GoMap, Key: key, Elem: elem}, nil
	case strings.HasPrefix(r, "<-chan "):
		p.i += len("<-chan ")
		return p.chanOf("<-chan")
	case strings.HasPrefix(r, "chan<- "):
		p.i += len("chan<- ")
		return p.chanOf("chan<-")
	case strings.HasPrefix(r, "chan "):
		p.i += len("chan ")
		return p.chanOf("chan")
	case strings.HasPrefix(r, "func("), strings.HasPrefix(r, "struct {"),
		strings.HasPrefix(r, "interface {"), strings.HasPrefix(r, "struct{"),
		strings.HasPrefix(r, "interface{"):
		return p.literal(), nil
	}
	return p.named()
}

func (p *goParser) wrap(kind GoKind) (*GoType, error) {
	elem, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &GoType{Kind: kind, Elem: elem}, nil
}

func (p *goParser) chanOf(dir string) (*GoType, error) {
	paren := strings.HasPrefix(p.rest(), "(")
	if paren {
		p.i++
	}
	t, err := p.wrap(GoChan)
	if err != nil {
		return nil, err
	}
	if paren {
		if !strings.HasPrefix(p.rest(), ")") {
			return nil, p.errorf("unterminated channel element")
		}
		p.i++
	}
	t.Dir = dir
	return t, nil
}

// literal consumes an unnamed type up to the next top-level ',' or ']'.
func (p *goParser) literal() *GoType {
	start := p.i
	depth := 0
	for ; p.i < len(p.s); p.i++ {
		switch p.s[p.i] {
		case '(', '[', '{':
			depth++
		case ')', '}':
			if depth == 0 {
				return &GoType{Kind: GoLiteral, Name: strings.TrimSpace(p.s[start:p.i])}
			}
			depth--
		case ']':
			if depth == 0 {
				return &GoType{Kind: GoLiteral, Name: strings.TrimSpace(p.s[start:p.i])}
			}
			depth--
		case ',':
			if depth == 0 {
				return &GoType{Kind: GoLiteral, Name: strings.TrimSpace(p.s[start:p.i])}
			}
		}
	}
	return &GoType{Kind: GoLiteral, Name: strings.TrimSpace(p.s[start:])}
}

// named parses "path/to/pkg.Name[args]" or a predeclared name.
func (p *goParser) named() (*GoType, error) {
	start := p.i
	for p.i < len(p.s) && !strings.ContainsRune("[],() ", rune(p.s[p.i])) {
		p.i++
	}
	qual := p.s[start:p.i]
	if qual == "" {
		return nil, p.errorf("expected type name at %q", p.rest())
	}
	t := &GoType{Kind: GoNamed, Name: qual}
	// The package path may itself contain dots ("dirpx.dev/x"); the type
	// name is whatever follows the last dot after the last slash.
	slash := strings.LastIndexByte(qual, '/')
	if dot := strings.LastIndexByte(qual, '.'); dot > slash {
		t.Pkg, t.Name = qual[:dot], qual[dot+1:]
	} else if slash >= 0 {
		return nil, p.errorf("unqualified name %q", qual)
	}
	if t.Name == "" {
		return nil, p.errorf("empty type name in %q", qual)
	}

	if strings.HasPrefix(p.rest(), "[") {
		p.i++
		for {
			a, err := p.parse()
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, a)
			if strings.HasPrefix(p.rest(), ",") {
				p.i++
				// reflect prints no space after the comma; tolerate one.
				for strings.HasPrefix(p.rest(), " ") {
					p.i++
				}
				continue
			}
			if strings.HasPrefix(p.rest(), "]") {
				p.i++
				break
			}
			return nil, p.errorf("unterminated type arguments")
		}
	}
	return t, nil
}
