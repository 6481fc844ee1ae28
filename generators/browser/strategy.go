// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package browser renders the diagram client package: the DI module,
// the Theia frontend module, styles and one view per node type.
package browser

import (
	"context"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

// Strategy implements [generator.Strategy] for the diagram client package.
type Strategy struct {
	generator.Base
}

// New creates a new browser strategy.
func New() *Strategy {
	return &Strategy{Base: generator.Base{
		Meta: generator.Metadata{
			Name:        generator.CategoryBrowser,
			Version:     "1.0.0",
			Description: "GLSP diagram client: container module, views and styles",
			Namespace:   generator.CategoryBrowser,
		},
		Specs: []generator.TemplateSpec{
			{Name: "browser/package.json", Path: "package.json"},
			{Name: "browser/diagram-module", Path: "src/diagram-module.ts"},
			{Name: "browser/frontend-module", Path: "src/frontend-module.ts"},
			{Name: "browser/diagram-css", Path: "css/diagram.css"},
			{Name: "browser/node-view", Path: "src/views/{name}-view.tsx", Each: generator.EachNode},
			{
				Name: "browser/readme",
				Path: "README.md",
				When: func(c *codegen.Context) bool { return c.Generation.GenerateDocs },
			},
		},
	}}
}

type data struct {
	generator.Data

	Names names

	// Views has one entry per node type, in declaration order.
	Views []*view

	// View is the current view for per-node templates.
	View *view
}

type names struct {
	Prefix         string
	CommonPackage  string
	ModuleVar      string
	ContributionID string
	FileExtension  string
}

type view struct {
	Type      *codegen.InterfaceInfo
	ClassName string
	FileName  string
	Constant  string
	CSSClass  string
}

// Render implements [generator.Strategy].
func (s *Strategy) Render(ctx context.Context, g *grammar.Grammar, tctx *codegen.Context, r *generator.Renderer) (*generator.Result, error) {
	prefix := naming.ToPascalCase(tctx.ProjectName)
	kebab := naming.ToKebabCase(tctx.ProjectName)
	n := names{
		Prefix:         prefix,
		CommonPackage:  "@" + tctx.Extension.Name + "/common",
		ModuleVar:      naming.ToCamelCase(prefix) + "DiagramModule",
		ContributionID: kebab,
		FileExtension:  tctx.Option("diagram.fileExtension", "."+kebab),
	}

	views := make([]*view, 0, len(tctx.NodeTypes))
	byName := make(map[string]*view, len(tctx.NodeTypes))
	for _, t := range tctx.NodeTypes {
		v := &view{
			Type:      t,
			ClassName: naming.ToPascalCase(t.Name) + "View",
			FileName:  naming.ToKebabCase(t.Name) + "-view",
			Constant:  naming.ToScreamingSnake(t.Name),
			CSSClass:  naming.ToKebabCase(t.Name),
		}
		views = append(views, v)
		byName[t.Name] = v
	}

	b := s.Base
	b.Data = func(base generator.Data) any {
		d := data{Data: base, Names: n, Views: views}
		if base.Item != nil {
			d.View = byName[base.Item.Name]
		}
		return d
	}
	return b.Render(ctx, g, tctx, r)
}
