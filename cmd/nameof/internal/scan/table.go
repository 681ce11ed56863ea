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

// Package scan discovers enumerations in source code and reads and writes
// enumerator tables as YAML.
package scan

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"dirpx.dev/nameof/apis"
)

// ErrNoTable is returned when a table file does not declare the requested type.
var ErrNoTable = errors.New("nameof(scan): no table for type")

// Table is the enumerator table of one enumeration type.
type Table struct {
	// Type is the qualified type name: "colors.Color" for Go,
	// "app::Color" for C++.
	Type string `yaml:"type"`
	// Source is the file the enumeration was found in.
	Source string `yaml:"source,omitempty"`
	// Bits is the width of the underlying integer type, when known. Flag
	// decomposition of signed values is done on this many bits.
	Bits int `yaml:"bits,omitempty"`
	// Enumerators in declaration order.
	Enumerators []apis.Enumerator `yaml:"enumerators"`
}

// Encode writes tables as a YAML sequence.
func Encode(w io.Writer, tables []Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tables); err != nil {
		return fmt.Errorf("nameof(scan): encode: %w", err)
	}
	return enc.Close()
}

// Decode reads tables written by Encode.
func Decode(r io.Reader) ([]Table, error) {
	var tables []Table
	if err := yaml.NewDecoder(r).Decode(&tables); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("nameof(scan): decode: %w", err)
	}
	return tables, nil
}

// Find returns the table for typ. A bare name matches a qualified one when
// it is unique: "Color" finds "colors.Color".
func Find(tables []Table, typ string) (Table, error) {
	var found []Table
	for _, t := range tables {
		if t.Type == typ {
			return t, nil
		}
		if unqualified(t.Type) == typ {
			found = append(found, t)
		}
	}
	if len(found) == 1 {
		return found[0], nil
	}
	return Table{}, fmt.Errorf("%w %q (%d candidates)", ErrNoTable, typ, len(found))
}

func unqualified(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' || name[i] == ':' {
			return name[i+1:]
		}
	}
	return name
}
