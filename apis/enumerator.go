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

// Enumerator is one declared name/value pair of an enumeration type.
// Value holds the bit pattern of the underlying integer; signed values are
// stored in two's complement.
type Enumerator struct {
	Name  string `yaml:"name"`
	Value uint64 `yaml:"value"`
}
