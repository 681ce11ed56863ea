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

// Package stringify recovers the source text of an argument at a call site.
//
// A function that wants the spelling of its argument (not its value) calls
// Arg from its own body. Arg walks up to the calling frame, parses the
// caller's source file once, finds the call to the named function on the
// reported line and returns the first argument exactly as written.
//
// Source files are read at run time, so binaries deployed without their
// sources (or built with -trimpath) get ErrNoSource.
package stringify

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"runtime"
	"sync"
)

var (
	// ErrNoCaller is returned when the requested frame does not exist.
	ErrNoCaller = errors.New("nameof(stringify): caller frame unavailable")
	// ErrNoSource is returned when the caller's source file cannot be read or parsed.
	ErrNoSource = errors.New("nameof(stringify): caller source unavailable")
	// ErrNoCall is returned when no call to the function is found on the caller's line.
	ErrNoCall = errors.New("nameof(stringify): call not found at caller line")
	// ErrAmbiguous is returned when several calls on one line have different arguments.
	ErrAmbiguous = errors.New("nameof(stringify): ambiguous call on caller line")
	// ErrNoArgs is returned when the matched call has no arguments.
	ErrNoArgs = errors.New("nameof(stringify): call has no arguments")
)

// Arg returns the source text of the first argument of the call to callee
// that invoked the function calling Arg. skip counts additional frames
// above that call, as in runtime.Caller. callee is the unqualified function
// name ("Capture" matches both Capture(x) and nameof.Capture(x)).
func Arg(skip int, callee string) (string, error) {
	_, file, line, ok := runtime.Caller(skip + 2)
	if !ok {
		return "", ErrNoCaller
	}
	return ArgAt(file, line, callee)
}

// ArgAt is Arg for an explicit source position.
func ArgAt(file string, line int, callee string) (string, error) {
	sf, err := load(file)
	if err != nil {
		return "", err
	}
	return sf.arg(line, callee)
}

// sourceFile is a parsed source file kept for the life of the process.
type sourceFile struct {
	fset *token.FileSet
	file *ast.File
	src  []byte
}

// files caches parse results by file name: *sourceFile or error.
var files sync.Map

func load(name string) (*sourceFile, error) {
	v, ok := files.Load(name)
	if !ok {
		var entry any
		if sf, err := parse(name); err != nil {
			entry = err
		} else {
			entry = sf
		}
		v, _ = files.LoadOrStore(name, entry)
	}
	if err, isErr := v.(error); isErr {
		return nil, err
	}
	return v.(*sourceFile), nil
}

func parse(name string) (*sourceFile, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSource, err)
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, name, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSource, err)
	}
	return &sourceFile{fset: fset, file: f, src: src}, nil
}

// arg finds calls to callee whose parenthesized argument list touches line.
// Calls that open on the line are preferred over calls spanning it.
func (sf *sourceFile) arg(line int, callee string) (string, error) {
	var opening, spanning []*ast.CallExpr
	ast.Inspect(sf.file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || funcName(call.Fun) != callee {
			return true
		}
		first := sf.fset.Position(call.Pos()).Line
		last := sf.fset.Position(call.End()).Line
		switch {
		case sf.fset.Position(call.Lparen).Line == line:
			opening = append(opening, call)
		case first <= line && line <= last:
			spanning = append(spanning, call)
		}
		return true
	})

	calls := opening
	if len(calls) == 0 {
		calls = spanning
	}
	if len(calls) == 0 {
		return "", fmt.Errorf("%w: %s at %s:%d", ErrNoCall, callee, sf.fset.File(sf.file.Pos()).Name(), line)
	}

	text := ""
	for i, call := range calls {
		if len(call.Args) == 0 {
			return "", ErrNoArgs
		}
		s := sf.text(call.Args[0])
		if i > 0 && s != text {
			return "", fmt.Errorf("%w: %s(%s) and %s(%s)", ErrAmbiguous, callee, text, callee, s)
		}
		text = s
	}
	return text, nil
}

func (sf *sourceFile) text(n ast.Node) string {
	start := sf.fset.Position(n.Pos()).Offset
	end := sf.fset.Position(n.End()).Offset
	return string(sf.src[start:end])
}

// funcName returns the unqualified name of a called function, looking
// through package selectors and explicit type arguments.
func funcName(fun ast.Expr) string {
	for {
		switch f := fun.(type) {
		case *ast.Ident:
			return f.Name
		case *ast.SelectorExpr:
			return f.Sel.Name
		case *ast.IndexExpr:
			fun = f.X
		case *ast.IndexListExpr:
			fun = f.X
		case *ast.ParenExpr:
			fun = f.X
		default:
			return ""
		}
	}
}
