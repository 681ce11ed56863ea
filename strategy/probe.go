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
	"sync"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/enum"
)

// NewProbeStrategy creates an apis.Strategy that discovers enumerators of
// integer types with a String method by probing
// [cfg.EnumRangeMin, cfg.EnumRangeMax]. Discovered tables are memoized
// per (type, range) as an enum.Index.
func NewProbeStrategy() apis.Strategy {
	return &probeStrategy{}
}

type probeStrategy struct {
	cache sync.Map // key: probeKey, val: *enum.Index
}

type probeKey struct {
	t        reflect.Type
	min, max int
}

// Ensure probeStrategy implements apis.Strategy.
var _ apis.Strategy = (*probeStrategy)(nil)

// TryResolveType never handles.
func (*probeStrategy) TryResolveType(_ reflect.Type, _ apis.Form, _ apis.Config) (string, bool) {
	return "", false
}

// TryResolveEnum names v through the probed table of its type. Types
// without a String method, or whose probe finds nothing, fall through.
func (s *probeStrategy) TryResolveEnum(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	bits, ok := enum.BitsOf(rv)
	if !ok {
		return "", false
	}
	idx := s.index(rv.Type(), cfg)
	if idx.Len() == 0 {
		return "", false
	}
	name, _ := idx.Name(bits, cfg.EnumSeparator)
	return name, true
}

func (s *probeStrategy) index(t reflect.Type, cfg apis.Config) *enum.Index {
	key := probeKey{t: t, min: cfg.EnumRangeMin, max: cfg.EnumRangeMax}
	if v, ok := s.cache.Load(key); ok {
		return v.(*enum.Index)
	}
	idx := enum.NewIndexIn(enum.ProbeType(t, key.min, key.max), t.Bits())
	v, _ := s.cache.LoadOrStore(key, idx)
	return v.(*enum.Index)
}
