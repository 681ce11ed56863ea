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

package nameof

import (
	"dirpx.dev/nameof/expr"
	"dirpx.dev/nameof/stringify"
)

// Of returns the name of the variable, member or function spelled by text:
// the last identifier, without qualification or call arguments, and
// without a trailing instantiation suffix unless Config().StripTemplate is
// unset.
//
//	Of("structvar.somefield")       // "somefield"
//	Of("obj.Method(1, 2)")          // "Method"
//	Of("NewList[int]")              // "NewList"
func Of(text string) (Name, error) {
	return reduce(text, expr.Mode{KeepTemplate: !Config().StripTemplate})
}

// Full is Of keeping the instantiation suffix: Full("NewList[int]") is
// "NewList[int]".
func Full(text string) (Name, error) {
	return reduce(text, expr.Mode{KeepTemplate: true})
}

// Raw returns text as written, trimmed of surrounding space.
func Raw(text string) (Name, error) {
	s, err := expr.Raw(text)
	if err != nil {
		return Name{}, err
	}
	return MakeName(s), nil
}

// Capture is Of applied to the source text of its argument at the call
// site:
//
//	n, err := nameof.Capture(structvar.somefield) // "somefield"
//
// The value of v is ignored. The caller's source file must be readable at
// run time; see package stringify.
func Capture(_ any) (Name, error) {
	text, err := stringify.Arg(0, "Capture")
	if err != nil {
		return Name{}, err
	}
	return Of(text)
}

// CaptureFull is Full applied to the source text of its argument.
func CaptureFull(_ any) (Name, error) {
	text, err := stringify.Arg(0, "CaptureFull")
	if err != nil {
		return Name{}, err
	}
	return Full(text)
}

// CaptureRaw is Raw applied to the source text of its argument.
func CaptureRaw(_ any) (Name, error) {
	text, err := stringify.Arg(0, "CaptureRaw")
	if err != nil {
		return Name{}, err
	}
	return Raw(text)
}

// MustCapture is like Capture but panics if the argument has no name.
func MustCapture(_ any) Name {
	text, err := stringify.Arg(0, "MustCapture")
	if err != nil {
		panic(err)
	}
	n, err := Of(text)
	if err != nil {
		panic(err)
	}
	return n
}

func reduce(text string, mode expr.Mode) (Name, error) {
	s, err := expr.Reduce(text, mode)
	if err != nil {
		return Name{}, err
	}
	return MakeName(s), nil
}
