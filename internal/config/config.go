// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package config holds the generation configuration: a raw key-value map
// with a typed view over the keys the generator understands.
//
// Recognized top-level keys are "projectName", "extension", "diagram" and
// "generation". Every key, recognized or not, stays available in Values
// so templates and plugins can read options the core does not interpret.
package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Config contains generation configuration.
type Config struct {
	// ProjectName overrides the project name derived from the grammar.
	ProjectName string

	// Extension is the package metadata passed through to manifests.
	Extension Extension

	// Diagram holds diagram feature flags and classification overrides.
	Diagram Diagram

	// Generation gates optional templates and controls failure handling.
	Generation Generation

	// Values is the full raw configuration, including unknown keys.
	Values map[string]any
}

// Extension describes the generated VSCode/Theia extension package.
type Extension struct {
	Name        string
	DisplayName string
	Version     string
	Publisher   string
	Description string
}

// Diagram configures the diagram surface.
type Diagram struct {
	// Features lists enabled capability flags, sorted.
	Features []string

	// NodeTypes and EdgeTypes explicitly classify interfaces and take
	// precedence over the naming heuristics.
	NodeTypes []string
	EdgeTypes []string

	// DefaultShape is the shape for nodes with no heuristic match.
	DefaultShape string

	// Shapes maps interface names to shapes.
	Shapes map[string]string

	// Layout is the layout hint passed to the client ("free", "layered").
	Layout string
}

// Generation controls which templates are attempted and how failures
// are handled.
type Generation struct {
	IncludeExamples bool
	GenerateTests   bool
	GenerateDocs    bool

	// Targets restricts strategy categories ("common", "server",
	// "browser"); empty means all.
	Targets []string

	// FailFast escalates per-template render failures to fatal errors.
	FailFast bool

	// ContinueOnPluginError logs plugin failures instead of failing the run.
	ContinueOnPluginError bool

	// TemplateDir overrides embedded templates with files from disk.
	TemplateDir string

	// Concurrency bounds parallel per-interface rendering (0 = default).
	Concurrency int
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, _ := FromMap(nil)
	return cfg
}

// FromMap builds a Config from a raw map. Unknown keys are kept in Values.
func FromMap(m map[string]any) (*Config, error) {
	values := deepCopyMap(m)
	if values == nil {
		values = make(map[string]any)
	}

	cfg := &Config{Values: values}
	var err error

	if cfg.ProjectName, err = cast.ToStringE(values["projectName"]); err != nil {
		return nil, fmt.Errorf("config: projectName: %w", err)
	}

	ext, err := section(values, "extension")
	if err != nil {
		return nil, err
	}
	cfg.Extension = Extension{
		Name:        cast.ToString(ext["name"]),
		DisplayName: cast.ToString(ext["displayName"]),
		Version:     cast.ToString(ext["version"]),
		Publisher:   cast.ToString(ext["publisher"]),
		Description: cast.ToString(ext["description"]),
	}

	diagram, err := section(values, "diagram")
	if err != nil {
		return nil, err
	}
	if cfg.Diagram.Features, err = features(diagram["features"]); err != nil {
		return nil, fmt.Errorf("config: diagram.features: %w", err)
	}
	if cfg.Diagram.NodeTypes, err = cast.ToStringSliceE(orEmpty(diagram["nodeTypes"])); err != nil {
		return nil, fmt.Errorf("config: diagram.nodeTypes: %w", err)
	}
	if cfg.Diagram.EdgeTypes, err = cast.ToStringSliceE(orEmpty(diagram["edgeTypes"])); err != nil {
		return nil, fmt.Errorf("config: diagram.edgeTypes: %w", err)
	}
	if cfg.Diagram.Shapes, err = cast.ToStringMapStringE(orEmptyMap(diagram["shapes"])); err != nil {
		return nil, fmt.Errorf("config: diagram.shapes: %w", err)
	}
	cfg.Diagram.DefaultShape = cast.ToString(diagram["defaultShape"])
	cfg.Diagram.Layout = cast.ToString(diagram["layout"])

	gen, err := section(values, "generation")
	if err != nil {
		return nil, err
	}
	flags := []struct {
		key string
		dst *bool
	}{
		{"includeExamples", &cfg.Generation.IncludeExamples},
		{"generateTests", &cfg.Generation.GenerateTests},
		{"generateDocs", &cfg.Generation.GenerateDocs},
		{"failFast", &cfg.Generation.FailFast},
		{"continueOnPluginError", &cfg.Generation.ContinueOnPluginError},
	}
	for _, f := range flags {
		if *f.dst, err = cast.ToBoolE(orFalse(gen[f.key])); err != nil {
			return nil, fmt.Errorf("config: generation.%s: %w", f.key, err)
		}
	}
	if cfg.Generation.Targets, err = cast.ToStringSliceE(orEmpty(gen["targets"])); err != nil {
		return nil, fmt.Errorf("config: generation.targets: %w", err)
	}
	if cfg.Generation.Concurrency, err = cast.ToIntE(orZero(gen["concurrency"])); err != nil {
		return nil, fmt.Errorf("config: generation.concurrency: %w", err)
	}
	cfg.Generation.TemplateDir = cast.ToString(gen["templateDir"])

	return cfg, nil
}

// Clone returns a deep copy, so per-run mutation (plugins' Configure)
// never leaks into the caller's configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Values = deepCopyMap(c.Values)
	out.Diagram.Features = slices.Clone(c.Diagram.Features)
	out.Diagram.NodeTypes = slices.Clone(c.Diagram.NodeTypes)
	out.Diagram.EdgeTypes = slices.Clone(c.Diagram.EdgeTypes)
	out.Diagram.Shapes = maps.Clone(c.Diagram.Shapes)
	out.Generation.Targets = slices.Clone(c.Generation.Targets)
	return &out
}

// Lookup returns the raw value at a dotted path ("generation.failFast").
func (c *Config) Lookup(path string) (any, bool) {
	return LookupIn(c.Values, path)
}

// LookupIn returns the value at a dotted path in a raw configuration map.
func LookupIn(values map[string]any, path string) (any, bool) {
	var cur any = values
	for part := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Option returns the string value at a dotted path, or defaultValue.
func (c *Config) Option(path, defaultValue string) string {
	if v, ok := c.Lookup(path); ok {
		if s, err := cast.ToStringE(v); err == nil && s != "" {
			return s
		}
	}
	return defaultValue
}

// HasFeature reports whether a diagram feature flag is enabled.
func (c *Config) HasFeature(name string) bool {
	return slices.Contains(c.Diagram.Features, name)
}

// WantsTarget reports whether a strategy category is enabled.
func (c *Config) WantsTarget(category string) bool {
	return len(c.Generation.Targets) == 0 || slices.Contains(c.Generation.Targets, category)
}

func section(values map[string]any, key string) (map[string]any, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", key, err)
	}
	return m, nil
}

// features accepts either a list of flag names or a map of flag -> bool.
func features(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	var out []string
	switch f := v.(type) {
	case map[string]any:
		for name, on := range f {
			enabled, err := cast.ToBoolE(on)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if enabled {
				out = append(out, name)
			}
		}
	default:
		list, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, err
		}
		out = list
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func orEmpty(v any) any {
	if v == nil {
		return []string{}
	}
	return v
}

func orEmptyMap(v any) any {
	if v == nil {
		return map[string]string{}
	}
	return v
}

func orFalse(v any) any {
	if v == nil {
		return false
	}
	return v
}

func orZero(v any) any {
	if v == nil {
		return 0
	}
	return v
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}
