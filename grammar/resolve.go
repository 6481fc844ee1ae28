// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package grammar

import "fmt"

// Ancestors returns every interface name that name transitively extends,
// in breadth-first declaration order. Unknown names and cycles are
// tolerated: each ancestor appears once and name itself is never included.
func (g *Grammar) Ancestors(name string) []string {
	var out []string
	visited := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		iface, ok := g.Interface(cur)
		if !ok {
			continue
		}
		for _, sup := range iface.SuperTypes {
			if visited[sup] {
				continue // Already processed or cycle
			}
			visited[sup] = true
			out = append(out, sup)
			queue = append(queue, sup)
		}
	}
	return out
}

// AllProperties returns the properties of name including inherited ones.
// Inherited properties come first (nearest supertype last), and a
// property redeclared by a subtype replaces the inherited one in place.
func (g *Grammar) AllProperties(name string) []Property {
	iface, ok := g.Interface(name)
	if !ok {
		return nil
	}
	ancestors := g.Ancestors(name)
	var props []Property
	index := make(map[string]int)
	add := func(p Property) {
		if i, ok := index[p.Name]; ok {
			props[i] = p
			return
		}
		index[p.Name] = len(props)
		props = append(props, p)
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if sup, ok := g.Interface(ancestors[i]); ok {
			for _, p := range sup.Properties {
				add(p)
			}
		}
	}
	for _, p := range iface.Properties {
		add(p)
	}
	return props
}

// Validate checks the grammar for structural errors: duplicate
// declarations, dangling type and supertype references, and circular
// inheritance. It returns every error found, in declaration order.
func Validate(g *Grammar) []error {
	var errs []error
	errs = append(errs, checkDuplicates(g)...)
	errs = append(errs, checkReferences(g)...)
	errs = append(errs, checkCycles(g)...)
	return errs
}

func checkDuplicates(g *Grammar) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, i := range g.Interfaces {
		if seen[i.Name] {
			errs = append(errs, &StructuralError{Interface: i.Name, Reason: "duplicate declaration"})
		}
		seen[i.Name] = true

		props := make(map[string]bool)
		for _, p := range i.Properties {
			if props[p.Name] {
				errs = append(errs, &StructuralError{Interface: i.Name, Property: p.Name, Reason: "duplicate property"})
			}
			props[p.Name] = true
		}
	}
	for _, a := range g.Types {
		if seen[a.Name] {
			errs = append(errs, &StructuralError{Interface: a.Name, Reason: "duplicate declaration"})
		}
		seen[a.Name] = true
	}
	return errs
}

func checkReferences(g *Grammar) []error {
	var errs []error
	for _, i := range g.Interfaces {
		for _, sup := range i.SuperTypes {
			if g.Resolve(sup).Kind != KindInterface {
				errs = append(errs, &StructuralError{Interface: i.Name, Type: sup, Reason: "extends undeclared interface"})
			}
		}
		for _, p := range i.Properties {
			ref := g.Resolve(p.Type)
			if ref.Kind == KindUnresolved {
				errs = append(errs, &StructuralError{Interface: i.Name, Property: p.Name, Type: p.Type, Reason: "references unknown type"})
				continue
			}
			if p.CrossRef && ref.Kind != KindInterface {
				errs = append(errs, &StructuralError{Interface: i.Name, Property: p.Name, Type: p.Type, Reason: "cross reference to non-interface type"})
			}
		}
	}
	for _, a := range g.Types {
		for _, m := range a.Members() {
			if m.Literal {
				continue
			}
			if g.Resolve(m.Name).Kind == KindUnresolved {
				errs = append(errs, &StructuralError{Interface: a.Name, Type: m.Name, Reason: "type alias references unknown type"})
			}
		}
	}
	return errs
}

// checkCycles reports each inheritance cycle once, rooted at the first
// interface of the cycle in declaration order.
func checkCycles(g *Grammar) []error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int)
	var errs []error
	var stack []string

	var visit func(name string)
	visit = func(name string) {
		color[name] = grey
		stack = append(stack, name)
		if iface, ok := g.Interface(name); ok {
			for _, sup := range iface.SuperTypes {
				if _, ok := g.Interface(sup); !ok {
					continue // reported by checkReferences
				}
				switch color[sup] {
				case white:
					visit(sup)
				case grey:
					start := 0
					for i, s := range stack {
						if s == sup {
							start = i
							break
						}
					}
					cycle := append(append([]string{}, stack[start:]...), sup)
					errs = append(errs, &StructuralError{
						Interface: sup,
						Cycle:     cycle,
						Reason:    "circular inheritance",
					})
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
	}

	for _, i := range g.Interfaces {
		if color[i.Name] == white {
			visit(i.Name)
		}
	}
	return errs
}

// Lint returns non-fatal observations about the grammar.
func Lint(g *Grammar) []string {
	var warnings []string
	used := make(map[string]bool)
	for _, i := range g.Interfaces {
		for _, p := range i.Properties {
			used[p.Type] = true
		}
	}
	for _, a := range g.Types {
		for _, m := range a.Members() {
			if !m.Literal {
				used[m.Name] = true
			}
		}
	}
	for _, i := range g.Interfaces {
		if len(i.Properties) == 0 && len(i.SuperTypes) == 0 {
			warnings = append(warnings, fmt.Sprintf("interface %s declares no properties", i.Name))
		}
	}
	for _, a := range g.Types {
		if !used[a.Name] {
			warnings = append(warnings, fmt.Sprintf("type alias %s is never used", a.Name))
		}
	}
	return warnings
}
