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

package scan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"dirpx.dev/nameof/apis"
)

// ErrUnsupportedValue is returned for enumerator initializers that are not
// integer constant expressions over literals and earlier enumerators.
var ErrUnsupportedValue = errors.New("nameof(scan): unsupported enumerator value")

const enumQuery = `(enum_specifier name: (_) @name body: (enumerator_list) @body)`

// CPP parses C or C++ source and returns one table per named enumeration,
// in source order. Names are qualified by their enclosing namespaces and
// classes ("app::Long::Kind"). Enumerations whose values cannot be
// evaluated are left out and reported in the joined error, next to the
// tables that could be built.
func CPP(ctx context.Context, filename string, src []byte) ([]Table, error) {
	lang := cpp.GetLanguage()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("nameof(scan): parse %s: %w", filename, err)
	}

	query, err := sitter.NewQuery([]byte(enumQuery), lang)
	if err != nil {
		return nil, fmt.Errorf("nameof(scan): query: %w", err)
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	var (
		tables []Table
		errs   []error
	)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var name, body *sitter.Node
		for _, c := range m.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "name":
				name = c.Node
			case "body":
				body = c.Node
			}
		}
		if name == nil || body == nil {
			continue
		}
		typ := qualify(name.Parent(), name.Content(src), src)
		enumerators, err := evalEnumerators(body, src)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %s: %w", filename, name.StartPoint().Row+1, typ, err))
			continue
		}
		tables = append(tables, Table{Type: typ, Source: filename, Enumerators: enumerators})
	}
	return tables, errors.Join(errs...)
}

// qualify prefixes name with the namespaces and classes enclosing n.
func qualify(n *sitter.Node, name string, src []byte) string {
	var scope []string
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "namespace_definition":
			if id := p.ChildByFieldName("name"); id != nil {
				scope = append(scope, id.Content(src))
			} else {
				scope = append(scope, "(anonymous namespace)")
			}
		case "class_specifier", "struct_specifier", "union_specifier":
			if id := p.ChildByFieldName("name"); id != nil {
				scope = append(scope, id.Content(src))
			}
		}
	}
	for i := len(scope) - 1; i >= 0; i-- {
		name = scope[i] + "::" + name
	}
	return name
}

func evalEnumerators(body *sitter.Node, src []byte) ([]apis.Enumerator, error) {
	ev := evaluator{src: src, known: map[string]int64{}}
	var (
		out  []apis.Enumerator
		next int64
	)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		e := body.NamedChild(i)
		if e.Type() != "enumerator" {
			continue
		}
		name := e.ChildByFieldName("name").Content(src)
		v := next
		if value := e.ChildByFieldName("value"); value != nil {
			var err error
			if v, err = ev.eval(value); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		ev.known[name] = v
		out = append(out, apis.Enumerator{Name: name, Value: uint64(v)})
		next = v + 1
	}
	return out, nil
}

type evaluator struct {
	src   []byte
	known map[string]int64
}

func (ev evaluator) eval(n *sitter.Node) (int64, error) {
	switch n.Type() {
	case "number_literal":
		return parseCInt(n.Content(ev.src))
	case "identifier":
		return ev.lookup(n.Content(ev.src))
	case "qualified_identifier":
		// Color::RED or ::RED: only enumerators of this enumeration are known.
		s := n.Content(ev.src)
		return ev.lookup(s[strings.LastIndex(s, "::")+2:])
	case "parenthesized_expression":
		if n.NamedChildCount() != 1 {
			break
		}
		return ev.eval(n.NamedChild(0))
	case "unary_expression":
		x, err := ev.eval(n.ChildByFieldName("argument"))
		if err != nil {
			return 0, err
		}
		switch n.ChildByFieldName("operator").Type() {
		case "-":
			return -x, nil
		case "+":
			return x, nil
		case "~":
			return ^x, nil
		}
	case "binary_expression":
		x, err := ev.eval(n.ChildByFieldName("left"))
		if err != nil {
			return 0, err
		}
		y, err := ev.eval(n.ChildByFieldName("right"))
		if err != nil {
			return 0, err
		}
		return binary(n.ChildByFieldName("operator").Type(), x, y)
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedValue, n.Content(ev.src))
}

func (ev evaluator) lookup(name string) (int64, error) {
	if v, ok := ev.known[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown identifier %s", ErrUnsupportedValue, name)
}

func binary(op string, x, y int64) (int64, error) {
	switch op {
	case "|":
		return x | y, nil
	case "&":
		return x & y, nil
	case "^":
		return x ^ y, nil
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "<<":
		if y < 0 || y > 63 {
			break
		}
		return x << y, nil
	case ">>":
		if y < 0 || y > 63 {
			break
		}
		return x >> y, nil
	case "/", "%":
		if y == 0 {
			break
		}
		if op == "/" {
			return x / y, nil
		}
		return x % y, nil
	}
	return 0, fmt.Errorf("%w: %d %s %d", ErrUnsupportedValue, x, op, y)
}

// parseCInt parses a C integer literal: decimal, 0x, 0b or leading-0
// octal, with optional digit separators and u/l suffixes.
func parseCInt(lit string) (int64, error) {
	s := strings.ReplaceAll(lit, "'", "")
	s = strings.TrimRight(s, "uUlLzZ")
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '7' {
		s = "0o" + s[1:]
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedValue, lit)
	}
	return int64(v), nil
}
