// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package codegen

import (
	"slices"

	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

var (
	sourceWords = []string{"source", "from"}
	targetWords = []string{"target", "to"}
)

// classify assigns every interface exactly one kind.
//
// Explicit configuration wins. Otherwise an interface is an edge when it
// has at least two single-valued properties referencing interfaces
// (inherited ones included) and either
//
//   - one is named like a source ("source", "fromNode") and another like
//     a target ("target", "toState"), or
//   - two of them reference the same interface, or interfaces related by
//     inheritance.
//
// Everything else is a node.
func classify(g *grammar.Grammar, cfg *config.Config) (map[string]ElementKind, []error) {
	var errs []error
	explicit := make(map[string]ElementKind)

	mark := func(names []string, kind ElementKind) {
		for _, name := range names {
			if _, ok := g.Interface(name); !ok {
				errs = append(errs, &grammar.StructuralError{
					Interface: name,
					Reason:    "explicit " + kind.String() + " classification names undeclared interface",
				})
				continue
			}
			if prev, ok := explicit[name]; ok && prev != kind {
				errs = append(errs, &grammar.StructuralError{
					Interface: name,
					Reason:    "classified as both node and edge",
				})
				continue
			}
			explicit[name] = kind
		}
	}
	mark(cfg.Diagram.NodeTypes, KindNode)
	mark(cfg.Diagram.EdgeTypes, KindEdge)
	if len(errs) > 0 {
		return nil, errs
	}

	kinds := make(map[string]ElementKind, len(g.Interfaces))
	for _, iface := range g.Interfaces {
		if k, ok := explicit[iface.Name]; ok {
			kinds[iface.Name] = k
			continue
		}
		if isEdgeLike(g, iface.Name) {
			kinds[iface.Name] = KindEdge
		} else {
			kinds[iface.Name] = KindNode
		}
	}
	return kinds, nil
}

// singleRefs returns the non-array properties of name that reference
// interfaces, inherited first.
func singleRefs(g *grammar.Grammar, name string) []grammar.Property {
	var refs []grammar.Property
	for _, p := range g.AllProperties(name) {
		if !p.Array && g.Resolve(p.Type).IsReference() {
			refs = append(refs, p)
		}
	}
	return refs
}

func isEdgeLike(g *grammar.Grammar, name string) bool {
	refs := singleRefs(g, name)
	if len(refs) < 2 {
		return false
	}
	src, tgt := namedEndpoints(refs)
	if src >= 0 && tgt >= 0 {
		return true
	}
	for i := range refs {
		for j := i + 1; j < len(refs); j++ {
			if related(g, refs[i].Type, refs[j].Type) {
				return true
			}
		}
	}
	return false
}

// namedEndpoints returns the indexes of the first source-named and the
// first distinct target-named property, or -1.
func namedEndpoints(refs []grammar.Property) (src, tgt int) {
	src, tgt = -1, -1
	for i, p := range refs {
		if src < 0 && hasWord(p.Name, sourceWords) {
			src = i
			continue
		}
		if tgt < 0 && hasWord(p.Name, targetWords) {
			tgt = i
		}
	}
	return src, tgt
}

func hasWord(name string, words []string) bool {
	for _, w := range naming.Words(name) {
		if slices.Contains(words, w) {
			return true
		}
	}
	return false
}

// related reports whether a and b are the same interface or one extends
// the other.
func related(g *grammar.Grammar, a, b string) bool {
	return a == b ||
		slices.Contains(g.Ancestors(a), b) ||
		slices.Contains(g.Ancestors(b), a)
}

// endpoints picks the source and target properties of an edge: named
// endpoints when present, otherwise the first two references.
func endpoints(g *grammar.Grammar, info *InterfaceInfo) (*PropertyInfo, *PropertyInfo) {
	refs := singleRefs(g, info.Name)
	if len(refs) < 2 {
		return nil, nil
	}
	src, tgt := namedEndpoints(refs)
	if src < 0 || tgt < 0 {
		src, tgt = 0, 1
	}
	return findProperty(info, refs[src].Name), findProperty(info, refs[tgt].Name)
}

func findProperty(info *InterfaceInfo, name string) *PropertyInfo {
	for _, p := range info.AllProperties {
		if p.Name == name {
			return p
		}
	}
	return nil
}
