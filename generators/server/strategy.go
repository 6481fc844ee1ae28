// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package server renders the GLSP server package: diagram configuration,
// model state and factory, and one creation handler per diagram element.
package server

import (
	"context"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
)

// Strategy implements [generator.Strategy] for the GLSP server package.
type Strategy struct {
	generator.Base
}

// New creates a new server strategy.
func New() *Strategy {
	return &Strategy{Base: generator.Base{
		Meta: generator.Metadata{
			Name:        generator.CategoryServer,
			Version:     "1.0.0",
			Description: "GLSP server: diagram configuration, model factory and operation handlers",
			Namespace:   generator.CategoryServer,
		},
		Specs: []generator.TemplateSpec{
			{Name: "server/package.json", Path: "package.json"},
			{Name: "server/model-state", Path: "src/model/model-state.ts"},
			{Name: "server/source-model-storage", Path: "src/model/source-model-storage.ts"},
			{Name: "server/model-factory", Path: "src/model/model-factory.ts"},
			{Name: "server/diagram-configuration", Path: "src/diagram/diagram-configuration.ts"},
			{Name: "server/server-module", Path: "src/server-module.ts"},
			{Name: "server/create-node-handler", Path: "src/handlers/create-{name}-handler.ts", Each: generator.EachNode},
			{Name: "server/create-edge-handler", Path: "src/handlers/create-{name}-handler.ts", Each: generator.EachEdge},
			{
				Name: "server/model-validator",
				Path: "src/validation/model-validator.ts",
				When: func(c *codegen.Context) bool { return c.Features.Has("validation") },
			},
			{
				Name: "server/handler-test",
				Path: "test/handlers.spec.ts",
				When: func(c *codegen.Context) bool { return c.Generation.GenerateTests },
			},
		},
	}}
}

// Render implements [generator.Strategy].
func (s *Strategy) Render(ctx context.Context, g *grammar.Grammar, tctx *codegen.Context, r *generator.Renderer) (*generator.Result, error) {
	handlers := buildHandlers(tctx)
	byName := make(map[string]*handler, len(handlers))
	for _, h := range handlers {
		byName[h.Type.Name] = h
	}
	names := buildNames(tctx, handlers)

	b := s.Base
	b.Data = func(base generator.Data) any {
		d := data{Data: base, Names: names, Handlers: handlers}
		if base.Item != nil {
			d.Handler = byName[base.Item.Name]
		}
		return d
	}
	return b.Render(ctx, g, tctx, r)
}
