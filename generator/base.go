// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/ctxlog"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

// Data is the template data every strategy starts from: the shared
// context plus the strategy identity and, for per-element templates,
// the current interface.
type Data struct {
	*codegen.Context

	Strategy  string
	Namespace string

	// Item is the interface being rendered; nil for single templates.
	Item *codegen.InterfaceInfo
}

// DataFunc layers strategy-specific fields over the base data.
type DataFunc func(base Data) any

// Base implements Strategy from a declarative template list. Concrete
// strategies embed or construct it.
type Base struct {
	Meta  Metadata
	Specs []TemplateSpec

	// Data builds the template data; nil renders the base Data.
	Data DataFunc
}

// Metadata implements Strategy.
func (b *Base) Metadata() Metadata { return b.Meta }

// Templates implements Strategy.
func (b *Base) Templates() []TemplateSpec { return b.Specs }

// CanHandle implements Strategy.
func (b *Base) CanHandle(category string) bool { return category == b.Meta.Name }

// Render implements Strategy. Templates are rendered in declaration
// order; per-element files within a template are rendered in parallel
// and returned in the order of the grammar's interfaces.
func (b *Base) Render(ctx context.Context, _ *grammar.Grammar, tctx *codegen.Context, r *Renderer) (*Result, error) {
	log := ctxlog.FromContext(ctx).With("strategy", b.Meta.Name)
	res := &Result{}

	for _, spec := range b.Specs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if spec.When != nil && !spec.When(tctx) {
			log.Debug("template disabled by configuration", "template", spec.Name)
			continue
		}
		if !r.loader.Exists(spec.Name) {
			if spec.Optional {
				log.Debug("optional template not found, skipping", "template", spec.Name)
				continue
			}
			return res, &TemplateNotFoundError{Strategy: b.Meta.Name, Template: spec.Name}
		}

		var items []*codegen.InterfaceInfo
		if spec.Each == EachNone {
			items = []*codegen.InterfaceInfo{nil}
		} else {
			items = spec.Items(tctx)
		}

		files, errs := b.renderItems(ctx, spec, items, tctx, r)
		for i := range items {
			if err := errs[i]; err != nil {
				log.Warn("template render failed", "template", spec.Name, "error", err)
				res.Errors = append(res.Errors, err)
				if r.failFast {
					return res, err
				}
				continue
			}
			res.Files = append(res.Files, files[i])
		}
	}
	return res, nil
}

// renderItems renders one template for each item. Every render runs to
// completion; results are slotted by index so scheduling never leaks
// into output order.
func (b *Base) renderItems(ctx context.Context, spec TemplateSpec, items []*codegen.InterfaceInfo, tctx *codegen.Context, r *Renderer) ([]*File, []error) {
	files := make([]*File, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, item := range items {
		g.Go(func() error {
			files[i], errs[i] = b.renderOne(ctx, spec, item, tctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return files, errs
}

func (b *Base) renderOne(ctx context.Context, spec TemplateSpec, item *codegen.InterfaceInfo, tctx *codegen.Context, r *Renderer) (*File, error) {
	renderErr := func(err error) error {
		e := &TemplateRenderError{Strategy: b.Meta.Name, Template: spec.Name, Err: err}
		if item != nil {
			e.Interface = item.Name
		}
		return e
	}
	if err := ctx.Err(); err != nil {
		return nil, renderErr(err)
	}

	rel := spec.Path
	if item != nil {
		rel = strings.ReplaceAll(rel, "{name}", naming.ToKebabCase(item.Name))
	}
	p, ok := namespaced(b.Meta.Namespace, rel)
	if !ok {
		return nil, renderErr(errors.New("output path " + rel + " escapes the strategy namespace"))
	}

	base := Data{Context: tctx, Strategy: b.Meta.Name, Namespace: b.Meta.Namespace, Item: item}
	var data any = base
	if b.Data != nil {
		data = b.Data(base)
	}

	content, err := r.Execute(spec.Name, tctx, data)
	if err != nil {
		return nil, renderErr(err)
	}
	return &File{
		Path:     p,
		Content:  content,
		Encoding: EncodingUTF8,
		Strategy: b.Meta.Name,
		Template: spec.Name,
	}, nil
}
