// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package langium reads the declarative subset of a Langium grammar into
// a [grammar.Grammar].
//
// Only the "grammar" header, interface declarations and type aliases are
// interpreted. Parser rules, terminals, fragments and imports are skipped
// up to their terminating semicolon. A file with a .json extension is
// decoded directly as a pre-parsed grammar document.
package langium

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/glspgen/grammar"
)

// ErrSyntax is matched by every SyntaxError.
var ErrSyntax = errors.New("grammar syntax error")

// SyntaxError reports malformed grammar source.
type SyntaxError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func newSyntaxError(at token, format string, args ...any) error {
	return &SyntaxError{Line: at.line, Col: at.col, Msg: fmt.Sprintf(format, args...)}
}

// ParseFile reads and parses the grammar at path.
func ParseFile(path string) (*grammar.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return ParseBytes(path, data)
}

// ParseBytes parses grammar data read from name. A ".json" name selects
// the JSON grammar model instead of Langium syntax.
func ParseBytes(name string, data []byte) (*grammar.Grammar, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return decodeJSON(name, data)
	}
	return parse(name, string(data))
}

// ParseString parses grammar source held in memory.
func ParseString(src string) (*grammar.Grammar, error) {
	return parse("", src)
}

// ValidateFile reports whether the grammar at path parses and is
// structurally well-formed.
func ValidateFile(path string) bool {
	g, err := ParseFile(path)
	if err != nil {
		return false
	}
	return len(grammar.Validate(g)) == 0
}

func parse(file, src string) (*grammar.Grammar, error) {
	g := &grammar.Grammar{Source: file}
	p := &parser{lex: newLexer(src), g: g}
	if err := p.parse(); err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.File = file
		}
		return nil, err
	}
	if g.Name == "" && file != "" {
		g.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return g, nil
}

func decodeJSON(path string, data []byte) (*grammar.Grammar, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var g grammar.Grammar
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	g.Source = path
	for i, iface := range g.Interfaces {
		if iface == nil {
			return nil, fmt.Errorf("decode %s: interfaces[%d] is null", path, i)
		}
	}
	for i, alias := range g.Types {
		if alias == nil {
			return nil, fmt.Errorf("decode %s: types[%d] is null", path, i)
		}
		if len(alias.UnionTypes) == 0 {
			alias.UnionTypes = literalMembers(alias)
		}
	}
	return &g, nil
}

// literalMembers returns the members of a union made only of string
// literals, or nil.
func literalMembers(a *grammar.TypeAlias) []string {
	var out []string
	for _, m := range a.Members() {
		if !m.Literal {
			return nil
		}
		out = append(out, m.Name)
	}
	return out
}
