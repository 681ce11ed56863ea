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

package strategy

import (
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/typename"
	uref "dirpx.dev/nameof/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that names types from their
// reflect.Type through the "go" typename dialect, with memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback for types.
// Short: nearest named type after unwrapping containers, without package
// ("G[int]"). Full: the whole type with package names ("*x.G[int]").
// With IncludeBuiltins unset, short names of no-package types are hidden.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t              reflect.Type
	form           apis.Form
	includeBuiltin bool
	maxUnwrap      int16
	mapPreferElem  bool
}

// typeNameCache caches resolved type names by (type, form, config knobs).
var typeNameCache sync.Map // key: cacheKey, val: string

// TryResolveType computes the name of t in the requested form.
func (reflectStrategy) TryResolveType(t reflect.Type, form apis.Form, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	return byType(t, form, cfg), true
}

// TryResolveEnum never handles: a type name is not an enumerator name.
func (reflectStrategy) TryResolveEnum(_ any, _ apis.Config) (string, bool) {
	return "", false
}

// byType resolves the name for t with memoization.
func byType(t reflect.Type, form apis.Form, cfg apis.Config) string {
	key := cacheKey{
		t:              t,
		form:           form,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
	}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	name := describe(t, form, cfg)
	typeNameCache.Store(key, name)
	return name
}

func describe(t reflect.Type, form apis.Form, cfg apis.Config) string {
	raw, err := uref.Descriptor(t)
	if err != nil {
		return ""
	}
	gt, err := typename.ParseGo(raw)
	if err != nil {
		return ""
	}
	packageNames(gt, t)
	if form == apis.Full {
		return gt.Full()
	}
	n := gt.Nearest(cfg)
	if n == nil || (n.Pkg == "" && !cfg.IncludeBuiltins) {
		// Hide builtin/no-package names if requested.
		return ""
	}
	name, err := gt.Short(cfg)
	if err != nil {
		return ""
	}
	return name
}

// packageNames copies declared package names from t onto the named nodes of
// gt, which mirrors t's shape. Type arguments are not reachable through
// reflect and keep the name guessed from their path.
func packageNames(gt *typename.GoType, t reflect.Type) {
	for gt != nil && t != nil {
		if t.Name() != "" {
			if gt.Kind == typename.GoNamed && t.PkgPath() != "" {
				// reflect prints "name.T", the path is not in String.
				if s, n := t.String(), t.Name(); strings.HasSuffix(s, "."+n) {
					gt.PkgName = s[:len(s)-len(n)-1]
				}
			}
			return
		}
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
			if gt.Kind == typename.GoLiteral {
				return
			}
			gt, t = gt.Elem, t.Elem()
		case reflect.Map:
			if gt.Kind != typename.GoMap {
				return
			}
			packageNames(gt.Key, t.Key())
			gt, t = gt.Elem, t.Elem()
		default:
			return
		}
	}
}
