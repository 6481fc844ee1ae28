// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package langium

import (
	"strings"

	"github.com/albertocavalcante/glspgen/grammar"
)

type parser struct {
	lex *lexer
	tok token
	g   *grammar.Grammar
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return newSyntaxError(p.tok, format, args...)
}

func (p *parser) expect(text string) error {
	if !p.tok.is(text) {
		return p.errorf("expected %q, found %s", text, p.tok)
	}
	return p.advance()
}

func (p *parser) ident() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.errorf("expected identifier, found %s", p.tok)
	}
	name := strings.TrimPrefix(p.tok.text, "^")
	return name, p.advance()
}

func (p *parser) parse() error {
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.header(); err != nil {
		return err
	}
	for p.tok.kind != tokEOF {
		var err error
		switch {
		case p.tok.is("interface"):
			err = p.interfaceDecl()
		case p.tok.is("type"):
			err = p.typeDecl()
		case p.tok.is("import"):
			err = p.importDecl()
		case p.tok.is(";"):
			err = p.advance()
		default:
			err = p.skipRule()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// header consumes "grammar Name (with A, B)? (hidden(...))?" and the
// imports that follow it. Both the header and the imports are optional.
func (p *parser) header() error {
	if !p.tok.is("grammar") {
		return nil
	}
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.ident()
	if err != nil {
		return err
	}
	p.g.Name = name

	if p.tok.is("with") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.identList(); err != nil {
			return err
		}
	}
	if p.tok.is("hidden") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.balanced("(", ")"); err != nil {
			return err
		}
	}
	if p.tok.is(";") {
		return p.advance()
	}
	return nil
}

func (p *parser) identList() error {
	for {
		if _, err := p.ident(); err != nil {
			return err
		}
		if !p.tok.is(",") {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *parser) importDecl() error {
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.kind != tokString {
		return p.errorf("expected import path, found %s", p.tok)
	}
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.is(";") {
		return p.advance()
	}
	return nil
}

// interfaceDecl parses "interface Name (extends A, B)? { properties }".
func (p *parser) interfaceDecl() error {
	line := p.tok.line
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.ident()
	if err != nil {
		return err
	}
	iface := &grammar.Interface{Name: name, Line: line}

	if p.tok.is("extends") {
		if err := p.advance(); err != nil {
			return err
		}
		for {
			super, err := p.ident()
			if err != nil {
				return err
			}
			iface.SuperTypes = append(iface.SuperTypes, super)
			if !p.tok.is(",") {
				break
			}
			if err := p.advance(); err != nil {
				return err
			}
		}
	}

	if err := p.expect("{"); err != nil {
		return err
	}
	for !p.tok.is("}") {
		if p.tok.kind == tokEOF {
			return p.errorf("unterminated interface %s", name)
		}
		if p.tok.is(";") || p.tok.is(",") {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		prop, err := p.property()
		if err != nil {
			return err
		}
		iface.Properties = append(iface.Properties, prop)
	}
	if err := p.advance(); err != nil {
		return err
	}

	p.g.Interfaces = append(p.g.Interfaces, iface)
	return nil
}

// property parses "name?: @Type[]" and its variants.
func (p *parser) property() (grammar.Property, error) {
	prop := grammar.Property{Line: p.tok.line}
	name, err := p.ident()
	if err != nil {
		return prop, err
	}
	prop.Name = name

	switch {
	case p.tok.is("?:"):
		prop.Optional = true
		if err := p.advance(); err != nil {
			return prop, err
		}
	case p.tok.is("?"):
		prop.Optional = true
		if err := p.advance(); err != nil {
			return prop, err
		}
		if err := p.expect(":"); err != nil {
			return prop, err
		}
	default:
		if err := p.expect(":"); err != nil {
			return prop, err
		}
	}

	typ, crossRef, array, err := p.propertyType()
	if err != nil {
		return prop, err
	}
	prop.Type, prop.CrossRef, prop.Array = typ, crossRef, array
	return prop, nil
}

// propertyType parses a property type. Inline unions of string literals
// are typed as string; other inline unions must be declared as a type
// alias.
func (p *parser) propertyType() (typ string, crossRef, array bool, err error) {
	var members []string
	literals := true
	for {
		t := p.tok
		member, ref, arr, err := p.typeAtom()
		if err != nil {
			return "", false, false, err
		}
		if t.kind != tokString {
			literals = false
			typ, crossRef = member, ref
		}
		array = array || arr
		members = append(members, member)
		if !p.tok.is("|") {
			break
		}
		if err := p.advance(); err != nil {
			return "", false, false, err
		}
	}

	switch {
	case literals:
		return "string", false, array, nil
	case len(members) > 1:
		return "", false, false, p.errorf("inline union %s is not supported, declare a type alias", strings.Join(members, " | "))
	}
	return typ, crossRef, array, nil
}

// typeAtom parses one of: 'literal', Name, @Name, optionally followed by [].
func (p *parser) typeAtom() (name string, crossRef, array bool, err error) {
	switch {
	case p.tok.kind == tokString:
		name = p.tok.text
		if err := p.advance(); err != nil {
			return "", false, false, err
		}
	case p.tok.is("@"):
		crossRef = true
		if err := p.advance(); err != nil {
			return "", false, false, err
		}
		if name, err = p.ident(); err != nil {
			return "", false, false, err
		}
	default:
		if name, err = p.ident(); err != nil {
			return "", false, false, err
		}
	}

	if p.tok.is("[") {
		if err := p.advance(); err != nil {
			return "", false, false, err
		}
		if err := p.expect("]"); err != nil {
			return "", false, false, err
		}
		array = true
	}
	return name, crossRef, array, nil
}

// typeDecl parses "type Name = A | 'b' | C;".
func (p *parser) typeDecl() error {
	line := p.tok.line
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.ident()
	if err != nil {
		return err
	}
	if err := p.expect("="); err != nil {
		return err
	}

	alias := &grammar.TypeAlias{Name: name, Line: line}
	var parts []string
	literals := true
	for {
		switch p.tok.kind {
		case tokString:
			lit := p.tok.text[1 : len(p.tok.text)-1]
			parts = append(parts, "'"+lit+"'")
			alias.UnionTypes = append(alias.UnionTypes, lit)
		case tokIdent:
			literals = false
			parts = append(parts, strings.TrimPrefix(p.tok.text, "^"))
		default:
			return p.errorf("expected type or string literal in type %s, found %s", name, p.tok)
		}
		if err := p.advance(); err != nil {
			return err
		}
		if !p.tok.is("|") {
			break
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	if !literals {
		alias.UnionTypes = nil
	}
	alias.Definition = strings.Join(parts, " | ")

	if p.tok.is(";") {
		if err := p.advance(); err != nil {
			return err
		}
	}
	p.g.Types = append(p.g.Types, alias)
	return nil
}

// skipRule discards a parser rule, terminal or fragment up to its
// terminating semicolon.
func (p *parser) skipRule() error {
	start := p.tok
	depth := 0
	for {
		switch {
		case p.tok.kind == tokEOF:
			return newSyntaxError(start, "unterminated rule starting at %s", start)
		case p.tok.is("(") || p.tok.is("{") || p.tok.is("["):
			depth++
		case p.tok.is(")") || p.tok.is("}") || p.tok.is("]"):
			depth--
		case p.tok.is(";") && depth == 0:
			return p.advance()
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *parser) balanced(open, close string) error {
	if err := p.expect(open); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		switch {
		case p.tok.kind == tokEOF:
			return p.errorf("expected %q", close)
		case p.tok.is(open):
			depth++
		case p.tok.is(close):
			depth--
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}
