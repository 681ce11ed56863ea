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

	"dirpx.dev/nameof/apis"
)

var namerType = reflect.TypeFor[apis.Namer]()

// NewNamerStrategy creates an apis.Strategy that asks types implementing
// apis.Namer for their own short name.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is a fast path: if T (or *T) implements apis.Namer, the
// short name of T is NameofType() called on a zero value.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

// TryResolveType handles the short form of non-pointer, non-interface types.
// Full names are always structural, so apis.Full falls through.
func (*namerStrategy) TryResolveType(t reflect.Type, form apis.Form, _ apis.Config) (string, bool) {
	if t == nil || form != apis.Short {
		return "", false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		// A nil receiver is all we could pass here.
		return "", false
	}
	switch {
	case t.Implements(namerType):
		return reflect.Zero(t).Interface().(apis.Namer).NameofType(), true
	case reflect.PointerTo(t).Implements(namerType):
		return reflect.New(t).Interface().(apis.Namer).NameofType(), true
	}
	return "", false
}

// TryResolveEnum never handles: Namer names types, not values.
func (*namerStrategy) TryResolveEnum(_ any, _ apis.Config) (string, bool) {
	return "", false
}
