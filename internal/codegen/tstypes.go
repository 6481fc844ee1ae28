// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package codegen

import (
	"strings"

	"github.com/albertocavalcante/glspgen/grammar"
)

// tsPrimitive maps Langium primitives to TypeScript types.
var tsPrimitive = map[string]string{
	"string":  "string",
	"number":  "number",
	"boolean": "boolean",
	"bigint":  "bigint",
	"Date":    "Date",
}

func propertyInfo(g *grammar.Grammar, p grammar.Property) *PropertyInfo {
	ref := g.Resolve(p.Type)
	info := &PropertyInfo{
		Name:        p.Name,
		Type:        ref,
		TSType:      tsType(ref),
		Optional:    p.Optional,
		Array:       p.Array,
		IsReference: ref.IsReference(),
		CrossRef:    p.CrossRef,
	}
	if p.Array {
		info.TSType += "[]"
		info.Default = DefaultValue("array")
	} else {
		info.Default = DefaultValue(ref.Name)
	}
	return info
}

// tsType returns the TypeScript type for a resolved reference.
// Interface references become string identifiers.
func tsType(ref grammar.TypeRef) string {
	switch ref.Kind {
	case grammar.KindPrimitive:
		return tsPrimitive[ref.Name]
	case grammar.KindInterface:
		return "string"
	case grammar.KindTypeAlias:
		return ref.Name
	default:
		return "unknown"
	}
}

func typeAliasInfo(g *grammar.Grammar, a *grammar.TypeAlias) *TypeAliasInfo {
	info := &TypeAliasInfo{
		Name:       a.Name,
		Definition: a.Definition,
		UnionTypes: a.UnionTypes,
	}
	var parts []string
	for _, m := range a.Members() {
		switch {
		case m.Literal:
			parts = append(parts, QuoteTS(m.Name))
		case grammar.IsPrimitive(m.Name):
			parts = append(parts, tsPrimitive[m.Name])
		default:
			parts = append(parts, m.Name)
		}
	}
	info.TSType = strings.Join(parts, " | ")
	if info.TSType == "" {
		info.TSType = "unknown"
	}
	return info
}

// QuoteTS renders s as a single-quoted TypeScript string literal.
func QuoteTS(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}
