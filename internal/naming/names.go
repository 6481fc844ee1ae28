// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package naming provides the case-conversion and pluralization rules
// shared by the template helpers and the strategies' output paths.
package naming

import (
	"strings"
	"unicode"
)

// Capitalize returns name with the first letter uppercased.
// Returns empty string for empty input.
func Capitalize(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Uncapitalize returns name with the first letter lowercased.
func Uncapitalize(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || unicode.IsSpace(r)
}

// ToPascalCase splits s on '-', '_' and whitespace, capitalizes the first
// letter of each segment and concatenates them. The rest of each segment
// is kept as-is, so "myProject" becomes "MyProject".
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, seg := range strings.FieldsFunc(s, isSeparator) {
		b.WriteString(Capitalize(seg))
	}
	return b.String()
}

// ToCamelCase is ToPascalCase with the first character lowercased.
func ToCamelCase(s string) string {
	return Uncapitalize(ToPascalCase(s))
}

// Words splits an identifier into lowercase words. Separators ('-', '_',
// whitespace) always split; within a segment a new word starts at a
// lower-to-upper transition and before the last capital of an acronym
// ("URLParser" -> "url", "parser"). Digits stay with the preceding word.
func Words(s string) []string {
	var words []string
	for _, seg := range strings.FieldsFunc(s, isSeparator) {
		runes := []rune(seg)
		start := 0
		for i := 1; i < len(runes); i++ {
			prev, cur := runes[i-1], runes[i]
			boundary := false
			switch {
			case unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
				boundary = true
			case unicode.IsUpper(cur) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				boundary = true
			}
			if boundary {
				words = append(words, strings.ToLower(string(runes[start:i])))
				start = i
			}
		}
		words = append(words, strings.ToLower(string(runes[start:])))
	}
	return words
}

// ToKebabCase converts an identifier to kebab-case ("CreateNode" -> "create-node").
func ToKebabCase(s string) string {
	return strings.Join(Words(s), "-")
}

// ToSnakeCase converts an identifier to snake_case ("CreateNode" -> "create_node").
func ToSnakeCase(s string) string {
	return strings.Join(Words(s), "_")
}

// ToScreamingSnake converts an identifier to SCREAMING_SNAKE_CASE.
func ToScreamingSnake(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}

// Pluralize applies simple English pluralization rules to the last word.
func Pluralize(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return s + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}
