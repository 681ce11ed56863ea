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
	"fmt"
	"go/constant"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"dirpx.dev/nameof/apis"
)

// Go loads the packages matching patterns and returns one table per
// defined integer type that has constants of exactly that type. Tables
// are ordered by type position, enumerators by declaration position.
func Go(ctx context.Context, dir string, patterns ...string) ([]Table, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedTypesSizes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("nameof(scan): load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("nameof(scan): no packages match %v", patterns)
	}
	var tables []Table
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("nameof(scan): package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
		tables = append(tables, goTables(pkg)...)
	}
	return tables, nil
}

func goTables(pkg *packages.Package) []Table {
	scope := pkg.Types.Scope()
	byType := map[*types.Named][]*types.Const{}
	var named []*types.Named

	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			n, ok := obj.Type().(*types.Named)
			if !ok || obj.IsAlias() {
				continue
			}
			if b, ok := n.Underlying().(*types.Basic); ok && b.Info()&types.IsInteger != 0 {
				named = append(named, n)
			}
		case *types.Const:
			if n, ok := obj.Type().(*types.Named); ok {
				byType[n] = append(byType[n], obj)
			}
		}
	}

	sort.Slice(named, func(i, j int) bool { return named[i].Obj().Pos() < named[j].Obj().Pos() })

	var tables []Table
	for _, n := range named {
		consts := byType[n]
		if len(consts) == 0 {
			continue
		}
		sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
		t := Table{
			Type:   pkg.Name + "." + n.Obj().Name(),
			Source: pkg.Fset.Position(n.Obj().Pos()).Filename,
		}
		if pkg.TypesSizes != nil {
			t.Bits = int(pkg.TypesSizes.Sizeof(n) * 8)
		}
		for _, c := range consts {
			bits, ok := constBits(c.Val())
			if !ok {
				continue
			}
			t.Enumerators = append(t.Enumerators, apis.Enumerator{Name: c.Name(), Value: bits})
		}
		tables = append(tables, t)
	}
	return tables
}

// constBits returns the enumerator bit pattern of an integer constant:
// negative values are sign-extended.
func constBits(v constant.Value) (uint64, bool) {
	if v.Kind() != constant.Int {
		return 0, false
	}
	if i, exact := constant.Int64Val(v); exact {
		return uint64(i), true
	}
	if u, exact := constant.Uint64Val(v); exact {
		return u, true
	}
	return 0, false
}
