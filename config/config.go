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

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"

	"dirpx.dev/nameof/apis"
)

const (
	// DefaultStripTemplate represents the default for StripTemplate.
	// When true, Of drops a trailing template suffix.
	DefaultStripTemplate = true
	// DefaultIncludeBuiltins represents the default for IncludeBuiltins.
	// When true, built-in types will be included.
	DefaultIncludeBuiltins = true
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultMapPreferElem represents the default for MapPreferElem.
	// When true, map value types are preferred when searching for named inner types.
	DefaultMapPreferElem = true
	// DefaultEnumRangeMin is the lowest value probed for enumerators.
	DefaultEnumRangeMin = -128
	// DefaultEnumRangeMax is the highest value probed for enumerators.
	DefaultEnumRangeMax = 128
	// DefaultEnumSeparator joins flag decompositions.
	DefaultEnumSeparator = "|"
)

// ErrInvalidConfig wraps validation failures reported by Validate.
var ErrInvalidConfig = errors.New("nameof(config): invalid configuration")

var validate = validator.New()

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.EnumSeparator == "" {
		cfg.EnumSeparator = DefaultEnumSeparator
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		StripTemplate:   DefaultStripTemplate,
		IncludeBuiltins: DefaultIncludeBuiltins,
		MaxUnwrap:       DefaultMaxUnwrap,
		MapPreferElem:   DefaultMapPreferElem,
		EnumRangeMin:    DefaultEnumRangeMin,
		EnumRangeMax:    DefaultEnumRangeMax,
		EnumSeparator:   DefaultEnumSeparator,
	}
}

// FromEnv builds a Config from NAMEOF_* environment variables. Unset
// variables take the defaults declared on apis.Config, so an empty
// environment yields DefaultConfig. The result is validated.
func FromEnv() (apis.Config, error) {
	var cfg apis.Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return apis.Config{}, fmt.Errorf("nameof(config): decode env: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

// Validate checks the range and separator knobs of cfg.
func Validate(cfg apis.Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithStripTemplate sets the StripTemplate option.
func WithStripTemplate(strip bool) Option {
	return func(c *apis.Config) {
		c.StripTemplate = strip
	}
}

// WithIncludeBuiltins sets the IncludeBuiltins option.
func WithIncludeBuiltins(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeBuiltins = include
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithMapPreferElem sets the MapPreferElem option.
func WithMapPreferElem(prefer bool) Option {
	return func(c *apis.Config) {
		c.MapPreferElem = prefer
	}
}

// WithEnumRange sets the probing bounds. Swapped bounds are reordered.
func WithEnumRange(min, max int) Option {
	return func(c *apis.Config) {
		if min > max {
			min, max = max, min
		}
		c.EnumRangeMin, c.EnumRangeMax = min, max
	}
}

// WithEnumSeparator sets the flag separator. An empty separator resets to the default.
func WithEnumSeparator(sep string) Option {
	return func(c *apis.Config) {
		if sep == "" {
			sep = DefaultEnumSeparator
		}
		c.EnumSeparator = sep
	}
}
