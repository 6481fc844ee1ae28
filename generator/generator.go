// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package generator defines template strategies: units that own a fixed
// list of templates for one output surface and render them into files.
package generator

import (
	"context"

	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
)

// Strategy categories, in rendering order.
const (
	CategoryCommon  = "common"
	CategoryServer  = "server"
	CategoryBrowser = "browser"
)

// Categories lists every category in the order strategies must run.
var Categories = []string{CategoryCommon, CategoryServer, CategoryBrowser}

// Strategy is the interface that all template strategies must implement.
type Strategy interface {
	// Metadata returns information about this strategy.
	Metadata() Metadata

	// Templates returns the owned templates, in rendering order.
	Templates() []TemplateSpec

	// CanHandle reports whether the strategy serves a category.
	CanHandle(category string) bool

	// Render produces files from the context. Per-template failures are
	// collected in Result.Errors; a non-nil error is fatal for the
	// strategy's whole output.
	Render(ctx context.Context, g *grammar.Grammar, tctx *codegen.Context, r *Renderer) (*Result, error)
}

// Metadata describes a strategy.
type Metadata struct {
	// Name is the short identifier (e.g., "server").
	Name string

	// Version is the strategy version (semver).
	Version string

	// Description is a human-readable description.
	Description string

	// Namespace prefixes every emitted path.
	Namespace string
}

// Each selects what a template iterates over.
type Each int

const (
	// EachNone renders a template once.
	EachNone Each = iota
	// EachNode renders once per node type, in declaration order.
	EachNode
	// EachEdge renders once per edge type, in declaration order.
	EachEdge
	// EachElement renders once per node and edge type, in declaration order.
	EachElement
)

// TemplateSpec declares one owned template.
type TemplateSpec struct {
	// Name is the loader name ("server/model-factory").
	Name string

	// Path is the output path relative to the strategy namespace. For
	// per-element templates, "{name}" is replaced with the kebab-cased
	// interface name.
	Path string

	Each Each

	// Optional templates are skipped when the loader does not have them.
	Optional bool

	// When gates the template; nil means always attempt.
	When func(*codegen.Context) bool
}

// Result is a strategy's output plus recoverable per-template failures.
type Result struct {
	Files  []*File
	Errors []error
}

// Items returns the interfaces a template iterates over.
func (s TemplateSpec) Items(tctx *codegen.Context) []*codegen.InterfaceInfo {
	switch s.Each {
	case EachNode:
		return tctx.NodeTypes
	case EachEdge:
		return tctx.EdgeTypes
	case EachElement:
		return tctx.Interfaces
	default:
		return nil
	}
}
