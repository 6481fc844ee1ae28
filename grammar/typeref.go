// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package grammar

// Kind discriminates the variants of a TypeRef.
type Kind int

const (
	// KindUnresolved marks a name that is declared nowhere.
	KindUnresolved Kind = iota
	KindPrimitive
	KindInterface
	KindTypeAlias
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindInterface:
		return "interface"
	case KindTypeAlias:
		return "typeAlias"
	default:
		return "unresolved"
	}
}

// Primitives lists the built-in Langium primitive type names.
var Primitives = []string{"string", "number", "boolean", "bigint", "Date"}

// TypeRef is a resolved property type:
// Primitive(name) | InterfaceRef(name) | TypeAliasRef(name).
type TypeRef struct {
	Kind Kind
	Name string
}

// IsReference reports whether the type names another interface.
func (t TypeRef) IsReference() bool {
	return t.Kind == KindInterface
}

// IsPrimitive reports whether the type is a built-in primitive.
func (t TypeRef) IsPrimitive() bool {
	return t.Kind == KindPrimitive
}

func (t TypeRef) String() string {
	return t.Kind.String() + "(" + t.Name + ")"
}

// IsPrimitive reports whether name is a built-in primitive type name.
func IsPrimitive(name string) bool {
	for _, p := range Primitives {
		if p == name {
			return true
		}
	}
	return false
}

// Resolve classifies a raw type name against the grammar.
// Primitives win over declared names, then interfaces, then type aliases.
func (g *Grammar) Resolve(name string) TypeRef {
	if IsPrimitive(name) {
		return TypeRef{Kind: KindPrimitive, Name: name}
	}
	if _, ok := g.Interface(name); ok {
		return TypeRef{Kind: KindInterface, Name: name}
	}
	if _, ok := g.TypeAlias(name); ok {
		return TypeRef{Kind: KindTypeAlias, Name: name}
	}
	return TypeRef{Kind: KindUnresolved, Name: name}
}
