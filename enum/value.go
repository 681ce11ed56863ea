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

package enum

import (
	"fmt"
	"reflect"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/expr"
)

var stringerType = reflect.TypeFor[fmt.Stringer]()

// BitsOf is the reflective form of Bits for values whose type is only
// known at run time. It reports false for non-integer kinds.
func BitsOf(v reflect.Value) (uint64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), true
	}
	return 0, false
}

// ProbeType is Probe for a reflect.Type. It returns nil unless t has an
// integer kind and a String method on its value receiver.
func ProbeType(t reflect.Type, min, max int) []apis.Enumerator {
	if t == nil || !t.Implements(stringerType) {
		return nil
	}
	v := reflect.New(t).Elem()
	var out []apis.Enumerator
	for i := min; i <= max; i++ {
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if v.OverflowInt(int64(i)) {
				continue
			}
			v.SetInt(int64(i))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if i < 0 || v.OverflowUint(uint64(i)) {
				continue
			}
			v.SetUint(uint64(i))
		default:
			return nil
		}
		s := v.Interface().(fmt.Stringer).String()
		if !expr.IsIdent(s) {
			continue
		}
		b, _ := BitsOf(v)
		out = append(out, apis.Enumerator{Name: s, Value: b})
	}
	return out
}
