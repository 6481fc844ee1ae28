// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"maps"
	"path"
	"slices"
	"strconv"
	"text/template"
	"time"

	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/tmplcache"
)

// Loader provides template source text by name ("server/model-factory").
type Loader interface {
	// ID distinguishes loaders sharing one cache.
	ID() string
	Load(name string) (string, error)
	Exists(name string) bool
	// List returns template names in a category ("" for all), sorted.
	List(category string) ([]string, error)
	// ModTime returns the source modification time; zero when unknown.
	ModTime(name string) (time.Time, error)
}

// Renderer compiles templates through the cache and executes them.
type Renderer struct {
	loader      Loader
	cache       *tmplcache.Cache
	failFast    bool
	concurrency int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithFailFast makes the first per-template failure fatal.
func WithFailFast(on bool) RendererOption {
	return func(r *Renderer) { r.failFast = on }
}

// WithConcurrency bounds parallel per-element rendering. Values below 1
// use the default of 4.
func WithConcurrency(n int) RendererOption {
	return func(r *Renderer) { r.concurrency = n }
}

// NewRenderer returns a Renderer. A nil cache gets a private one.
func NewRenderer(loader Loader, cache *tmplcache.Cache, opts ...RendererOption) *Renderer {
	if cache == nil {
		cache = tmplcache.New(tmplcache.Options{})
	}
	r := &Renderer{loader: loader, cache: cache}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = 4
	}
	return r
}

// Loader returns the template loader.
func (r *Renderer) Loader() Loader { return r.loader }

// Cache returns the template cache.
func (r *Renderer) Cache() *tmplcache.Cache { return r.cache }

// FailFast reports whether per-template failures are fatal.
func (r *Renderer) FailFast() bool { return r.failFast }

// Compile returns the compiled template for name, from the cache when
// fresh. Helpers and partials of tctx are bound at parse time.
func (r *Renderer) Compile(name string, tctx *codegen.Context) (*template.Template, error) {
	key := r.cacheKey(name, tctx)
	if tpl := r.cache.GetIfFresh(key, r.sourceModTime(name, tctx)); tpl != nil {
		return tpl, nil
	}

	text, err := r.loader.Load(name)
	if err != nil {
		return nil, err
	}
	tpl := template.New(path.Base(name)).Option("missingkey=error").Funcs(tctx.Helpers)
	for _, p := range slices.Sorted(maps.Keys(tctx.Partials)) {
		if _, err := tpl.New(p).Parse(tctx.Partials[p]); err != nil {
			return nil, fmt.Errorf("partial %s: %w", p, err)
		}
	}
	if _, err := tpl.Parse(text); err != nil {
		return nil, err
	}
	r.cache.Set(key, tpl)
	return tpl, nil
}

// Execute renders a template with data. Cached templates are cloned so
// the run's helper implementations can be bound without racing other runs.
func (r *Renderer) Execute(name string, tctx *codegen.Context, data any) (out []byte, err error) {
	tpl, err := r.Compile(name, tctx)
	if err != nil {
		return nil, err
	}
	clone, err := tpl.Clone()
	if err != nil {
		return nil, err
	}
	clone.Funcs(tctx.Helpers)

	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	var buf bytes.Buffer
	if err := clone.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cacheKey identifies a compiled template: the loader, the name and the
// helper names and partials bound at parse time.
func (r *Renderer) cacheKey(name string, tctx *codegen.Context) string {
	h := fnv.New64a()
	for _, n := range slices.Sorted(maps.Keys(tctx.Helpers)) {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	for _, n := range slices.Sorted(maps.Keys(tctx.Partials)) {
		h.Write([]byte(n))
		h.Write([]byte{0})
		h.Write([]byte(tctx.Partials[n]))
		h.Write([]byte{0})
	}
	return r.loader.ID() + ":" + name + "#" + strconv.FormatUint(h.Sum64(), 16)
}

// sourceModTime is the newest modification time of the template and the
// partials it is parsed with.
func (r *Renderer) sourceModTime(name string, tctx *codegen.Context) time.Time {
	newest, _ := r.loader.ModTime(name)
	for p := range tctx.Partials {
		if t, err := r.loader.ModTime(PartialPrefix + p); err == nil && t.After(newest) {
			newest = t
		}
	}
	return newest
}

// PartialPrefix is the loader category holding partial templates.
const PartialPrefix = "partials/"
