// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package langium

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokRegex
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokString:
		return "string " + t.text
	case tokRegex:
		return "regular expression"
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// is reports whether t is the given punctuation or keyword.
func (t token) is(text string) bool {
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

// lexer splits grammar source into tokens. Comments and whitespace are
// dropped. A single slash that follows ':', '|', '(' or another operator
// starts a regular expression literal, as in terminal rules.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
	prev token
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

// twoCharOps are the multi-character operators of the rule language.
var twoCharOps = []string{"+=", "?=", "?:", "->", "=>", ".."}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.src) {
		return l.emit(token{kind: tokEOF, line: l.line, col: l.col}), nil
	}

	start := token{line: l.line, col: l.col}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	switch {
	case isIdentStart(r):
		begin := l.pos
		for l.pos < len(l.src) {
			r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
			if !isIdentPart(r) {
				break
			}
			l.advance()
		}
		start.kind, start.text = tokIdent, l.src[begin:l.pos]
	case r == '\'' || r == '"':
		text, err := l.quoted(byte(r))
		if err != nil {
			return token{}, err
		}
		start.kind, start.text = tokString, text
	case r == '/' && l.regexAllowed():
		text, err := l.regex()
		if err != nil {
			return token{}, err
		}
		start.kind, start.text = tokRegex, text
	default:
		start.kind = tokPunct
		for _, op := range twoCharOps {
			if strings.HasPrefix(l.src[l.pos:], op) {
				start.text = op
				l.advance()
				l.advance()
				return l.emit(start), nil
			}
		}
		start.text = string(r)
		l.advance()
	}
	return l.emit(start), nil
}

func (l *lexer) emit(t token) token {
	l.prev = t
	return t
}

func (l *lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		switch {
		case strings.HasPrefix(rest, "//"):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case strings.HasPrefix(rest, "/*"):
			line, col := l.line, l.col
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return &SyntaxError{Line: line, Col: col, Msg: "unterminated block comment"}
			}
			for range end + 4 {
				l.advance()
			}
		default:
			r, _ := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(r) {
				return nil
			}
			l.advance()
		}
	}
	return nil
}

// regexAllowed reports whether a slash at the current position starts a
// regular expression rather than a comment or division.
func (l *lexer) regexAllowed() bool {
	if l.prev.kind != tokPunct {
		return false
	}
	switch l.prev.text {
	case ":", "|", "(", "->", "=", "!":
		return true
	}
	return false
}

func (l *lexer) quoted(quote byte) (string, error) {
	line, col := l.line, l.col
	begin := l.pos
	l.advance()
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '\\':
			l.advance()
			if l.pos < len(l.src) {
				l.advance()
			}
			continue
		case '\n':
			return "", &SyntaxError{Line: line, Col: col, Msg: "newline in string literal"}
		case quote:
			l.advance()
			return l.src[begin:l.pos], nil
		}
		l.advance()
	}
	return "", &SyntaxError{Line: line, Col: col, Msg: "unterminated string literal"}
}

func (l *lexer) regex() (string, error) {
	line, col := l.line, l.col
	begin := l.pos
	l.advance()
	inClass := false
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance()
			if l.pos < len(l.src) {
				l.advance()
			}
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return "", &SyntaxError{Line: line, Col: col, Msg: "newline in regular expression"}
		case '/':
			if !inClass {
				l.advance()
				// Flags.
				for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
					l.advance()
				}
				return l.src[begin:l.pos], nil
			}
		}
		l.advance()
	}
	return "", &SyntaxError{Line: line, Col: col, Msg: "unterminated regular expression"}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '^' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
