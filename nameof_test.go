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

package nameof_test

import (
	"fmt"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"dirpx.dev/nameof"
	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/config"
	"dirpx.dev/nameof/enum"
	"dirpx.dev/nameof/expr"
	"dirpx.dev/nameof/typename"
)

func TestName(t *testing.T) {
	a := nameof.MakeName("field")
	b := nameof.MakeName("fie" + "ld")
	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.Equal(t, 5, a.Len())
	assert.False(t, a.Empty())

	var zero nameof.Name
	assert.True(t, zero.Empty())
	assert.Equal(t, "", zero.String())
	assert.Equal(t, zero, nameof.MakeName(""))

	assert.Equal(t, a.String(), a.Data())
	assert.Equal(t, a.Data(), a.Str())
	assert.Equal(t, "", zero.Str())

	text, err := a.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "field", string(text))
}

func TestOf_Errors(t *testing.T) {
	cases := []struct {
		text string
		want error
	}{
		{"", expr.ErrEmpty},
		{"  ", expr.ErrEmpty},
		{`"text"`, expr.ErrLiteral},
		{"42", expr.ErrNumeric},
		{"nullptr", expr.ErrKeyword},
		{"f(x", expr.ErrUnbalanced},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			n, err := nameof.Of(tc.text)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, n.Empty())
		})
	}
}

func TestOf_KeepsTemplateWhenNotStripping(t *testing.T) {
	old := nameof.Config()
	t.Cleanup(func() { nameof.SetConfig(old) })

	n, err := nameof.Of("List[int]")
	require.NoError(t, err)
	assert.Equal(t, "List", n.String())

	nameof.SetConfig(config.NewConfig(config.WithStripTemplate(false)))
	n, err = nameof.Of("List[int]")
	require.NoError(t, err)
	assert.Equal(t, "List[int]", n.String())
}

func TestRaw(t *testing.T) {
	n, err := nameof.Raw("  &SomeStruct::SomeMethod1 ")
	require.NoError(t, err)
	assert.Equal(t, "&SomeStruct::SomeMethod1", n.String())

	_, err = nameof.Raw("")
	assert.ErrorIs(t, err, expr.ErrEmpty)
}

func TestCapture(t *testing.T) {
	s := SomeStruct{}
	n, err := nameof.Capture(s.Somefield)
	require.NoError(t, err)
	assert.Equal(t, "Somefield", n.String())

	n, err = nameof.CaptureFull(SomeMethod4[int, string])
	require.NoError(t, err)
	assert.Equal(t, "SomeMethod4[int, string]", n.String())

	_, err = nameof.Capture(42)
	assert.ErrorIs(t, err, expr.ErrNumeric)

	assert.Panics(t, func() { nameof.MustCapture("literal") })
}

type Celsius float64

type named struct{}

func (named) NameofType() string { return "Custom" }

type registered struct{}

func TestTypes(t *testing.T) {
	assert.Equal(t, "int", nameof.Type[int]().String())
	assert.Equal(t, "Celsius", nameof.Type[[]*Celsius]().String())
	assert.Equal(t, "Celsius", nameof.Type[map[Celsius][]int]().String())
	assert.Equal(t, "map[string][]nameof_test.Celsius", nameof.FullType[map[string][]Celsius]().String())
	assert.Equal(t, "Custom", nameof.Type[named]().String())
	assert.Equal(t, "nameof_test.named", nameof.FullType[named]().String())
	assert.True(t, nameof.TypeExpr(nil).Empty())
	assert.True(t, nameof.Type[struct{ X int }]().Empty())

	require.NoError(t, nameof.RegisterType(reflect.TypeFor[registered](), "Registered"))
	assert.Equal(t, "Registered", nameof.Type[*registered]().String())
}

func TestTypes_VersionedImportPath(t *testing.T) {
	assert.Equal(t, "*yaml.Node", nameof.FullType[*yaml.Node]().String())
	assert.Equal(t, "Node", nameof.Type[*yaml.Node]().String())
	assert.Equal(t, "[]validator.FieldError", nameof.FullType[[]validator.FieldError]().String())
	assert.Equal(t, "yaml.Kind", nameof.FullTypeExpr(yaml.ScalarNode).String())
}

func TestTypes_ShortContainedInFull(t *testing.T) {
	assert.Contains(t, nameof.FullType[*SomeClass[int]]().String(), nameof.Type[SomeClass[int]]().String())
	assert.Contains(t, nameof.FullType[[]Celsius]().String(), nameof.Type[Celsius]().String())
}

func TestParseType(t *testing.T) {
	n, err := nameof.ParseType("gcc", "constexpr auto nameof::detail::n() [with T = const SomeClass<int>&&]", apis.Full)
	require.NoError(t, err)
	assert.Equal(t, "const SomeClass<int> &&", n.String())

	n, err = nameof.ParseType("go", "*dirpx.dev/x.T", apis.Short)
	require.NoError(t, err)
	assert.Equal(t, "T", n.String())

	_, err = nameof.ParseType("icc", "int", apis.Short)
	assert.ErrorIs(t, err, typename.ErrUnknownDialect)
}

type Weekday uint8

const (
	Monday Weekday = iota + 1
	Tuesday
)

func (d Weekday) String() string {
	switch d {
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	}
	return fmt.Sprintf("Weekday(%d)", uint8(d))
}

type Undeclared int

func TestEnum(t *testing.T) {
	assert.True(t, nameof.EnumSupported)

	// Discovered through String.
	assert.Equal(t, "Tuesday", nameof.Enum(Tuesday).String())
	_, ok := nameof.EnumOK(Weekday(0))
	assert.False(t, ok)

	// Registered.
	n, ok := nameof.EnumOK(BLUE)
	assert.True(t, ok)
	assert.Equal(t, "BLUE", n.String())
	assert.Equal(t, "HasClaws|Endangered", nameof.Enum(HasClaws|Endangered).String())
	assert.True(t, nameof.Enum(Color(7)).Empty())

	// Nothing known about the type.
	assert.True(t, nameof.Enum(Undeclared(1)).Empty())
}

type Mode uint16

func TestRegisterEnumerators(t *testing.T) {
	mt := reflect.TypeFor[Mode]()
	assert.True(t, nameof.EnumConst(Mode(1)).Empty())

	table := []apis.Enumerator{{Name: "ModeA", Value: 1}, {Name: "ModeB", Value: 2}}
	require.NoError(t, nameof.RegisterEnumerators(mt, table))
	// Registration drops memoized constants.
	assert.Equal(t, "ModeA", nameof.EnumConst(Mode(1)).String())

	err := nameof.RegisterEnumerators(reflect.TypeFor[string](), table)
	assert.Error(t, err)
	err = nameof.RegisterEnum(enum.P("ModeA", Mode(3)))
	assert.Error(t, err)
}

type Perm int32

const (
	PermRead  Perm = 1
	PermWrite Perm = 2
	PermAdmin Perm = math.MinInt32
)

type Small int8

const (
	SmallA  Small = 1
	SmallHi Small = -128
)

// Lane is discovered through String; its top flag is the int8 sign bit.
type Lane int8

const (
	LaneLeft  Lane = 1
	LaneRight Lane = 2
	LaneBus   Lane = -128
)

func (l Lane) String() string {
	switch l {
	case LaneLeft:
		return "LaneLeft"
	case LaneRight:
		return "LaneRight"
	case LaneBus:
		return "LaneBus"
	}
	return fmt.Sprintf("Lane(%d)", int8(l))
}

func TestEnum_SignBitFlags(t *testing.T) {
	require.NoError(t, nameof.RegisterEnum(enum.P("PermRead", PermRead), enum.P("PermWrite", PermWrite), enum.P("PermAdmin", PermAdmin)))
	require.NoError(t, nameof.RegisterEnum(enum.P("SmallA", SmallA), enum.P("SmallHi", SmallHi)))

	assert.Equal(t, "PermAdmin", nameof.Enum(PermAdmin).String())
	assert.Equal(t, "PermRead|PermAdmin", nameof.Enum(PermRead|PermAdmin).String())
	assert.Equal(t, "SmallA|SmallHi", nameof.Enum(SmallA|SmallHi).String())
	assert.Equal(t, "SmallA|SmallHi", nameof.EnumConst(SmallA|SmallHi).String())

	assert.Equal(t, "LaneRight|LaneBus", nameof.Enum(LaneRight|LaneBus).String())
	_, ok := nameof.EnumOK(Lane(4))
	assert.False(t, ok)
}

func TestEnumConst_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if got := nameof.EnumConst(GREEN).String(); got != "GREEN" {
					t.Errorf("EnumConst(GREEN) = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
