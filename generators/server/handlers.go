// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package server

import (
	"slices"
	"strings"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

// data is the server sub-context: the shared context plus handler stubs.
type data struct {
	generator.Data

	Names names

	// Handlers has one entry per node and edge type, in declaration order.
	Handlers []*handler

	// Handler is the current handler for per-element templates.
	Handler *handler
}

type names struct {
	// Prefix is the class name prefix ("Workflow").
	Prefix string

	// CommonPackage is the npm name of the shared model package.
	CommonPackage string

	DiagramType string

	// ModelImports lists the model interfaces the server imports.
	ModelImports string
}

type handler struct {
	Type *codegen.InterfaceInfo

	ClassName  string
	FileName   string
	Constant   string
	Collection string
	Label      string

	// Endpoint properties and accepted element types (edges only).
	SourceProp  string
	TargetProp  string
	SourceTypes []string
	TargetTypes []string

	// Defaults initializes new elements; Required lists mandatory properties.
	Defaults []fieldDefault
	Required []string
}

type fieldDefault struct {
	Name  string
	Value string
}

func buildNames(tctx *codegen.Context, handlers []*handler) names {
	imports := make([]string, len(handlers))
	for i, h := range handlers {
		imports[i] = h.Type.Name
	}
	return names{
		Prefix:        naming.ToPascalCase(tctx.ProjectName),
		CommonPackage: "@" + tctx.Extension.Name + "/common",
		DiagramType:   naming.ToKebabCase(tctx.ProjectName) + "-diagram",
		ModelImports:  strings.Join(imports, ", "),
	}
}

func buildHandlers(tctx *codegen.Context) []*handler {
	var handlers []*handler
	for _, t := range tctx.Interfaces {
		kebab := naming.ToKebabCase(t.Name)
		h := &handler{
			Type:       t,
			ClassName:  "Create" + naming.ToPascalCase(t.Name) + "Handler",
			FileName:   "create-" + kebab + "-handler",
			Constant:   naming.ToScreamingSnake(t.Name),
			Collection: naming.ToCamelCase(naming.Pluralize(t.Name)),
			Label:      label(t.Name),
		}
		if t.IsEdge() {
			h.SourceProp, h.TargetProp = "source", "target"
			if t.Source != nil {
				h.SourceProp = t.Source.Name
				h.SourceTypes = acceptingNodes(tctx, t.Source.Type.Name)
			}
			if t.Target != nil {
				h.TargetProp = t.Target.Name
				h.TargetTypes = acceptingNodes(tctx, t.Target.Type.Name)
			}
		}
		for _, p := range t.AllProperties {
			if !p.Optional {
				h.Required = append(h.Required, p.Name)
			}
			if p.Optional || p.IsReference || p.Name == h.SourceProp || p.Name == h.TargetProp {
				continue
			}
			if v := defaultFor(tctx.Grammar, p); v != "undefined" {
				h.Defaults = append(h.Defaults, fieldDefault{Name: p.Name, Value: v})
			}
		}
		handlers = append(handlers, h)
	}
	return handlers
}

// defaultFor expands a property's default. String literal unions default
// to their first member.
func defaultFor(g *grammar.Grammar, p *codegen.PropertyInfo) string {
	if p.Array || p.Type.Kind != grammar.KindTypeAlias {
		return p.Default
	}
	alias, ok := g.TypeAlias(p.Type.Name)
	if !ok {
		return p.Default
	}
	members := alias.Members()
	if len(members) == 0 {
		return p.Default
	}
	if m := members[0]; m.Literal {
		return codegen.QuoteTS(m.Name)
	} else if grammar.IsPrimitive(m.Name) {
		return codegen.DefaultValue(m.Name)
	}
	return p.Default
}

// acceptingNodes returns the type constants of node types that can be
// used where t is expected.
func acceptingNodes(tctx *codegen.Context, t string) []string {
	var out []string
	for _, n := range tctx.NodeTypes {
		if n.Name == t || slices.Contains(n.Ancestors, t) {
			out = append(out, "ModelTypes."+naming.ToScreamingSnake(n.Name))
		}
	}
	return out
}

func label(name string) string {
	words := naming.Words(name)
	for i, w := range words {
		words[i] = naming.Capitalize(w)
	}
	return strings.Join(words, " ")
}
