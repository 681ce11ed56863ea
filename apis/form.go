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

package apis

import "fmt"

// Form selects how much of a type name is kept.
type Form int

const (
	// Short drops qualifiers, declarators and namespace qualification,
	// keeping class nesting and template arguments ("Long::LL").
	Short Form = iota
	// Full keeps qualifiers, declarators and the complete qualification
	// ("const Long::LL &").
	Full
)

// String returns "short", "full", or "Form(<n>)" for unknown values.
func (f Form) String() string {
	switch f {
	case Short:
		return "short"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}
