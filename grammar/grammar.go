// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package grammar defines the in-memory model of a parsed Langium grammar.
//
// A Grammar is produced once by a parser (see internal/langium) and is
// read-only for everything downstream. Declaration order of interfaces,
// properties and type aliases is significant and preserved: generated
// output follows it.
//
// The structs carry JSON tags so a grammar can also be supplied as a
// pre-parsed JSON document.
package grammar

import (
	"slices"
	"strings"
)

// Grammar is a parsed modeling-language definition.
type Grammar struct {
	// Name is the grammar name from the "grammar <Name>" header.
	Name string `json:"name"`

	// ProjectName is an optional explicit project identifier.
	ProjectName string `json:"projectName,omitempty"`

	// Interfaces lists all declared interfaces in source order.
	Interfaces []*Interface `json:"interfaces"`

	// Types lists all declared type aliases in source order.
	Types []*TypeAlias `json:"types"`

	// Source describes where the grammar was loaded from (for messages).
	Source string `json:"-"`
}

// Interface is a named record type with typed properties.
type Interface struct {
	// Name is the unique interface name (e.g., "Node", "Edge").
	Name string `json:"name"`

	// Properties lists the declared fields in source order.
	Properties []Property `json:"properties,omitempty"`

	// SuperTypes lists the interfaces this one extends.
	SuperTypes []string `json:"superTypes,omitempty"`

	// Line is the source line of the declaration (0 when unknown).
	Line int `json:"line,omitempty"`
}

// Property is a field of an interface.
type Property struct {
	Name string `json:"name"`

	// Type is the raw type name: a primitive, an interface or a type alias.
	Type string `json:"type"`

	Optional bool `json:"optional,omitempty"`

	// Array is true when the property holds a sequence of values.
	Array bool `json:"array,omitempty"`

	// CrossRef is true for Langium cross references ("@Type").
	CrossRef bool `json:"crossRef,omitempty"`

	Line int `json:"line,omitempty"`
}

// TypeAlias is a "type X = ..." declaration.
type TypeAlias struct {
	Name string `json:"name"`

	// Definition is the raw right-hand side (e.g., "'a' | 'b'" or "string").
	Definition string `json:"definition"`

	// UnionTypes holds the string literal members in order. It is empty
	// when the alias is not a string literal union.
	UnionTypes []string `json:"unionTypes,omitempty"`

	Line int `json:"line,omitempty"`
}

// Interface returns the interface with the given name.
func (g *Grammar) Interface(name string) (*Interface, bool) {
	for _, i := range g.Interfaces {
		if i.Name == name {
			return i, true
		}
	}
	return nil, false
}

// TypeAlias returns the type alias with the given name.
func (g *Grammar) TypeAlias(name string) (*TypeAlias, bool) {
	for _, a := range g.Types {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// InterfaceNames returns the interface names in declaration order.
func (g *Grammar) InterfaceNames() []string {
	names := make([]string, 0, len(g.Interfaces))
	for _, i := range g.Interfaces {
		names = append(names, i.Name)
	}
	return names
}

// Property returns the property with the given name declared directly on i.
func (i *Interface) Property(name string) (Property, bool) {
	idx := slices.IndexFunc(i.Properties, func(p Property) bool { return p.Name == name })
	if idx < 0 {
		return Property{}, false
	}
	return i.Properties[idx], true
}

// IsStringUnion reports whether the alias is a union of string literals.
func (a *TypeAlias) IsStringUnion() bool {
	return len(a.UnionTypes) > 0
}

// Members splits the alias definition into its union members.
// Quoted members are returned with their quotes stripped and literal=true.
func (a *TypeAlias) Members() []AliasMember {
	var members []AliasMember
	for part := range strings.SplitSeq(a.Definition, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if unq, ok := unquote(part); ok {
			members = append(members, AliasMember{Name: unq, Literal: true})
			continue
		}
		members = append(members, AliasMember{Name: part})
	}
	return members
}

// AliasMember is one member of a type alias union.
type AliasMember struct {
	Name    string
	Literal bool
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return "", false
}
