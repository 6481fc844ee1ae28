// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/hashicorp/hcl/v2/hclparse"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file. The format is chosen by extension:
// ".json" and ".cue" are evaluated with CUE, ".yaml"/".yml" with YAML,
// and ".hcl" as a body of HCL attributes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes configuration bytes; filename selects the format.
func Parse(filename string, data []byte) (*Config, error) {
	var (
		raw map[string]any
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json", ".cue":
		raw, err = parseCUE(filename, data)
	case ".yaml", ".yml":
		raw, err = parseYAML(data)
	case ".hcl":
		raw, err = parseHCL(filename, data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	return FromMap(raw)
}

// parseCUE evaluates CUE (a superset of JSON) and requires a concrete result.
func parseCUE(filename string, data []byte) (map[string]any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}
	var out map[string]any
	if err := v.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseYAML(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// parseHCL evaluates each top-level attribute without variables and
// converts the resulting cty values through their JSON encoding. Nested
// sections are written as object attributes:
//
//	generation = { generateTests = true }
func parseHCL(filename string, data []byte) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		encoded, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		var decoded any
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		out[name] = decoded
	}
	return out, nil
}
