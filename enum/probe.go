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

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/expr"
)

// Stringer is an enumeration with a String method, such as the ones
// generated by golang.org/x/tools/cmd/stringer.
type Stringer interface {
	Integer
	fmt.Stringer
}

// Probe discovers the enumerators of E by calling String on every value in
// [min, max]. A value counts as declared when its String is an identifier
// and not the fallback form stringer prints for unknown values ("E(7)").
// Values outside the range of E are skipped. The result is ordered by value.
func Probe[E Stringer](min, max int) []apis.Enumerator {
	var out []apis.Enumerator
	for i := min; i <= max; i++ {
		v := E(i)
		// Skip values that do not survive the conversion (e.g. -1 for uint8).
		if int(v) != i || (i < 0 && v > 0) {
			continue
		}
		s := v.String()
		if !expr.IsIdent(s) {
			continue
		}
		out = append(out, apis.Enumerator{Name: s, Value: Bits(v)})
	}
	return out
}
