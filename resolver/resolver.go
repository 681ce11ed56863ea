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

// Package resolver runs an ordered list of strategies.
package resolver

import (
	"reflect"

	"dirpx.dev/nameof/apis"
)

// New returns a Resolver over strategies, skipping nil ones. It is as safe
// for concurrent use as the strategies are.
func New(strategies ...apis.Strategy) apis.Resolver {
	c := chain{steps: make([]apis.Strategy, 0, len(strategies))}
	for _, s := range strategies {
		if s != nil {
			c.steps = append(c.steps, s)
		}
	}
	return c
}

type chain struct {
	steps []apis.Strategy
}

// ResolveType returns the name from the first strategy that handles t,
// or "".
func (c chain) ResolveType(t reflect.Type, form apis.Form, cfg apis.Config) string {
	return first(c.steps, func(s apis.Strategy) (string, bool) {
		return s.TryResolveType(t, form, cfg)
	})
}

// ResolveEnum is ResolveType for enumeration values. A strategy answering
// "" as handled ends the search.
func (c chain) ResolveEnum(v any, cfg apis.Config) string {
	return first(c.steps, func(s apis.Strategy) (string, bool) {
		return s.TryResolveEnum(v, cfg)
	})
}

func first(steps []apis.Strategy, try func(apis.Strategy) (string, bool)) string {
	for _, s := range steps {
		if name, ok := try(s); ok {
			return name
		}
	}
	return ""
}
