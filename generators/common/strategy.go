// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package common renders the shared model package used by both the
// server and the browser packages.
package common

import (
	"context"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

// Strategy implements [generator.Strategy] for the shared model package.
type Strategy struct {
	generator.Base
}

// New creates a new common strategy.
func New() *Strategy {
	return &Strategy{Base: generator.Base{
		Meta: generator.Metadata{
			Name:        generator.CategoryCommon,
			Version:     "1.0.0",
			Description: "Shared model interfaces and type identifiers",
			Namespace:   generator.CategoryCommon,
		},
		Specs: []generator.TemplateSpec{
			{Name: "common/package.json", Path: "package.json"},
			{Name: "common/model", Path: "src/model.ts"},
			{Name: "common/types", Path: "src/types.ts"},
			{Name: "common/index", Path: "src/index.ts"},
			{Name: "common/extensions", Path: "src/extensions.ts", Optional: true},
			{
				Name: "common/example",
				Path: "examples/example.json",
				When: func(c *codegen.Context) bool { return c.Generation.IncludeExamples },
			},
		},
	}}
}

type data struct {
	generator.Data

	// ExampleNodes places one instance of every node type on a grid.
	ExampleNodes []exampleNode
}

type exampleNode struct {
	ID   string
	Type string
	X, Y int
}

const (
	gridColumns = 4
	gridStepX   = 200
	gridStepY   = 150
)

// Render implements [generator.Strategy].
func (s *Strategy) Render(ctx context.Context, g *grammar.Grammar, tctx *codegen.Context, r *generator.Renderer) (*generator.Result, error) {
	examples := make([]exampleNode, 0, len(tctx.NodeTypes))
	for i, n := range tctx.NodeTypes {
		examples = append(examples, exampleNode{
			ID:   naming.ToKebabCase(n.Name) + "-1",
			Type: n.Name,
			X:    (i % gridColumns) * gridStepX,
			Y:    (i / gridColumns) * gridStepY,
		})
	}

	b := s.Base
	b.Data = func(base generator.Data) any {
		return data{Data: base, ExampleNodes: examples}
	}
	return b.Render(ctx, g, tctx, r)
}
