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

package builder

import (
	"log/slog"

	"dirpx.dev/nameof/apis"
	"dirpx.dev/nameof/registry"
	"dirpx.dev/nameof/resolver"
	"dirpx.dev/nameof/strategy"
)

// Ext is the extension payload understood by this builder. Passing a bare
// *slog.Logger as ext is equivalent to Ext{Logger: l}.
type Ext struct {
	// Logger receives rebuild diagnostics at debug level and migration
	// failures at warn level. Nil disables logging.
	Logger *slog.Logger
}

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry for cfg. Names and enumerator
// tables of a previous registry are copied into it; entries that no longer
// fit (e.g. two types collapsing onto one name under a new MapPreferElem)
// are dropped and logged.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, ext any) apis.Registry {
	log := loggerFrom(ext)
	nreg := registry.New(cfg)
	if preg == nil {
		log.Debug("nameof: registry built", "entries", 0)
		return nreg
	}
	for _, e := range preg.Entries() {
		if e.Name != "" {
			if err := nreg.Register(e.Type, e.Name); err != nil {
				log.Warn("nameof: registry entry dropped", "type", e.Type, "name", e.Name, "err", err)
			}
		}
		if e.Enumerators != nil {
			if err := nreg.RegisterEnum(e.Type, e.Enumerators); err != nil {
				log.Warn("nameof: enumerator table dropped", "type", e.Type, "err", err)
			}
		}
	}
	log.Debug("nameof: registry built", "entries", nreg.Count(), "migrated", preg.Count())
	return nreg
}

// BuildResolver builds the resolution chain over reg:
// Namer -> Registry -> Reflect for types, Registry -> Probe for enum values.
// The previous resolver is not reused; probe tables are rediscovered lazily.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, _ apis.Resolver, ext any) apis.Resolver {
	loggerFrom(ext).Debug("nameof: resolver built",
		"strip_template", cfg.StripTemplate,
		"include_builtins", cfg.IncludeBuiltins,
		"enum_range", [2]int{cfg.EnumRangeMin, cfg.EnumRangeMax},
	)
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
		strategy.NewProbeStrategy(),
	)
}

// loggerFrom never returns nil.
func loggerFrom(ext any) *slog.Logger {
	var l *slog.Logger
	switch v := ext.(type) {
	case *slog.Logger:
		l = v
	case Ext:
		l = v.Logger
	case *Ext:
		if v != nil {
			l = v.Logger
		}
	}
	if l == nil {
		return discard
	}
	return l
}

var discard = slog.New(slog.DiscardHandler)
