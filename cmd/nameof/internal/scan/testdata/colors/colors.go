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

package colors

type Color int

const (
	Red Color = iota
	Green
	Blue
)

type Access uint8

const (
	Read Access = 1 << iota
	Write
	Exec
)

type Delta int8

const (
	Back  Delta = -1
	Stay  Delta = 0
	Ahead Delta = 1
)

// Unused has no constants and produces no table.
type Unused int

const untyped = 3
