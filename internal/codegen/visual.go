// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package codegen

import (
	"slices"

	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

// Shape names understood by the browser templates.
const (
	ShapeRectangle = "rectangle"
	ShapeDiamond   = "diamond"
	ShapeEllipse   = "ellipse"
)

var (
	diamondWords = []string{"decision", "gateway", "choice", "condition"}
	ellipseWords = []string{"start", "end", "event", "state", "initial", "final"}
)

var defaultSizes = map[string]Size{
	ShapeRectangle: {Width: 120, Height: 60},
	ShapeDiamond:   {Width: 60, Height: 60},
	ShapeEllipse:   {Width: 50, Height: 50},
}

// applyVisualDefaults assigns shapes, sizes and ports to node types.
func applyVisualDefaults(ctx *Context, cfg *config.Config) {
	fallback := cfg.Diagram.DefaultShape
	if fallback == "" {
		fallback = ShapeRectangle
	}
	for _, n := range ctx.NodeTypes {
		n.Shape = shapeFor(n.Name, cfg.Diagram.Shapes, fallback)
		size, ok := defaultSizes[n.Shape]
		if !ok {
			size = Size{Width: 100, Height: 50}
		}
		n.Size = size
	}

	if !ctx.Features.Has("ports") {
		return
	}
	for _, n := range ctx.NodeTypes {
		var in, out bool
		for _, e := range ctx.EdgeTypes {
			if e.Target != nil && accepts(n, e.Target.Type.Name) {
				in = true
			}
			if e.Source != nil && accepts(n, e.Source.Type.Name) {
				out = true
			}
		}
		if in {
			n.Ports = append(n.Ports, "in")
		}
		if out {
			n.Ports = append(n.Ports, "out")
		}
	}
}

func shapeFor(name string, explicit map[string]string, fallback string) string {
	if s, ok := explicit[name]; ok && s != "" {
		return s
	}
	words := naming.Words(name)
	for _, w := range words {
		if slices.Contains(diamondWords, w) {
			return ShapeDiamond
		}
	}
	for _, w := range words {
		if slices.Contains(ellipseWords, w) {
			return ShapeEllipse
		}
	}
	return fallback
}

// accepts reports whether node n can stand in for an endpoint of type t.
func accepts(n *InterfaceInfo, t string) bool {
	return n.Name == t || slices.Contains(n.Ancestors, t)
}
