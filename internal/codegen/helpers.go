// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package codegen

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"text/template"

	"github.com/albertocavalcante/glspgen/internal/naming"
)

// BuiltinHelpers returns a fresh copy of the built-in template helpers.
// Every helper is pure.
func BuiltinHelpers() template.FuncMap {
	return template.FuncMap{
		"toLowerCase":  strings.ToLower,
		"toUpperCase":  strings.ToUpper,
		"toPascalCase": naming.ToPascalCase,
		"toCamelCase":  naming.ToCamelCase,
		"toKebabCase":  naming.ToKebabCase,
		"toSnakeCase":  naming.ToSnakeCase,
		"toConstCase":  naming.ToScreamingSnake,
		"pluralize":    naming.Pluralize,
		"join":         Join,
		"hasElements":  HasElements,
		"defaultValue": DefaultValue,
		"quote":        QuoteTS,
		"json":         jsonString,
	}
}

// Join concatenates the elements of seq with sep. A nil or non-sequence
// value yields the empty string.
func Join(seq any, sep string) string {
	switch s := seq.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(s, sep)
	}
	v := reflect.ValueOf(seq)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return ""
	}
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}

// HasElements reports whether seq is a non-empty slice, array or map.
func HasElements(seq any) bool {
	if seq == nil {
		return false
	}
	v := reflect.ValueOf(seq)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() > 0
	}
	return false
}

// DefaultValue returns the TypeScript default value literal for a type name.
func DefaultValue(typ string) string {
	switch typ {
	case "string":
		return "''"
	case "number":
		return "0"
	case "boolean":
		return "false"
	case "array":
		return "[]"
	default:
		return "undefined"
	}
}

// jsonString renders s as a JSON string literal.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
