// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package orchestrator runs a generation: parse, validate, render every
// applicable strategy in order, then write.
//
// A run moves through the phases NotStarted, Parsing, Validating,
// Rendering, Writing and Done, or ends in Failed from any of them.
// Generate never panics and never returns a bare error: every failure
// is recorded in the returned Report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/ctxlog"
	"github.com/albertocavalcante/glspgen/internal/langium"
	"github.com/albertocavalcante/glspgen/internal/tmplcache"
	"github.com/albertocavalcante/glspgen/plugin"
)

// Writer persists generated files.
type Writer interface {
	Write(ctx context.Context, files []*generator.File) error
}

// PartialLoader is implemented by loaders that provide partial
// templates shared by every template.
type PartialLoader interface {
	Partials() (map[string]string, error)
}

// Request describes one run. Exactly one grammar source is used, in the
// order Grammar, GrammarSource, GrammarPath.
type Request struct {
	Grammar       *grammar.Grammar
	GrammarSource string
	GrammarPath   string

	// Config defaults to config.Default(). It is cloned, so plugins
	// configuring the run never affect the caller's copy.
	Config *config.Config

	// Writer persists the output; nil skips writing.
	Writer Writer

	// RunID defaults to a new ULID.
	RunID string
}

// Orchestrator owns the strategies, plugins, loader and cache of a
// process. It is safe for concurrent runs.
type Orchestrator struct {
	strategies *generator.Registry
	plugins    *plugin.Registry
	loader     generator.Loader
	cache      *tmplcache.Cache
	helpers    template.FuncMap
	clock      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPlugins sets the plugin registry.
func WithPlugins(r *plugin.Registry) Option {
	return func(o *Orchestrator) { o.plugins = r }
}

// WithCache shares a template cache, typically across runs of a server.
func WithCache(c *tmplcache.Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// WithHelpers adds template helpers, overriding built-ins of the same name.
func WithHelpers(h template.FuncMap) Option {
	return func(o *Orchestrator) { o.helpers = h }
}

// WithClock sets the clock used for timing and generation metadata.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.clock = now }
}

// New creates an Orchestrator.
func New(strategies *generator.Registry, loader generator.Loader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		strategies: strategies,
		loader:     loader,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.plugins == nil {
		o.plugins = plugin.NewRegistry()
	}
	if o.cache == nil {
		o.cache = tmplcache.New(tmplcache.Options{})
	}
	return o
}

// Cache returns the template cache.
func (o *Orchestrator) Cache() *tmplcache.Cache { return o.cache }

// Loader returns the template loader.
func (o *Orchestrator) Loader() generator.Loader { return o.loader }

// run is the state of one Generate call.
type run struct {
	o       *Orchestrator
	req     Request
	report  *Report
	pc      *plugin.Context
	log     *slog.Logger
	isolate bool
}

// Generate executes a run and reports its outcome.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (report *Report) {
	start := o.clock()
	runID := req.RunID
	if runID == "" {
		runID = ulid.Make().String()
	}
	report = &Report{RunID: runID, Phase: PhaseNotStarted, Metadata: make(map[string]any)}

	cfg := config.Default()
	if req.Config != nil {
		cfg = req.Config.Clone()
	}

	log := ctxlog.FromContext(ctx).With("run", runID)
	ctx = ctxlog.WithLogger(ctx, log)

	r := &run{
		o:       o,
		req:     req,
		report:  report,
		log:     log,
		isolate: cfg.Generation.ContinueOnPluginError,
		pc: &plugin.Context{
			RunID:    runID,
			Phase:    string(PhaseNotStarted),
			Config:   cfg,
			Metadata: report.Metadata,
			Logger:   log,
		},
	}

	defer func() {
		if p := recover(); p != nil {
			r.fail(fmt.Errorf("internal error: %v", p))
		}
		report.Duration = o.clock().Sub(start)
		log.Info("generation finished",
			"phase", string(report.Phase),
			"files", len(report.Files),
			"errors", len(report.Errors),
			"warnings", len(report.Warnings),
			"duration", report.Duration,
		)
	}()

	r.execute(ctx, cfg)
	return report
}

func (r *run) execute(ctx context.Context, cfg *config.Config) {
	if !r.prepare(ctx, cfg) || !r.hook(ctx, plugin.BeforeGenerate) {
		return
	}

	r.enter(PhaseParsing)
	g, ok := r.parse(ctx)
	if !ok || !r.hook(ctx, plugin.AfterParse) {
		return
	}

	r.enter(PhaseValidating)
	tctx, ok := r.validate(ctx, g, cfg)
	if !ok || !r.hook(ctx, plugin.AfterValidation) {
		return
	}

	r.enter(PhaseRendering)
	out, ok := r.render(ctx, g, tctx, cfg)
	if !ok {
		return
	}

	r.enter(PhaseWriting)
	if !r.write(ctx, out) {
		return
	}
	r.pc.Files = out.Files()
	if !r.hook(ctx, plugin.AfterGenerate) {
		return
	}
	r.enter(PhaseDone)
}

// prepare runs plugin self-checks and lets plugins adjust the
// configuration.
func (r *run) prepare(ctx context.Context, cfg *config.Config) bool {
	warnings, err := r.o.plugins.Validate(ctx, r.isolate)
	r.report.Warnings = append(r.report.Warnings, warnings...)
	if err != nil {
		r.fail(err)
		return false
	}
	warnings, err = r.o.plugins.Configure(ctx, cfg, r.isolate)
	r.report.Warnings = append(r.report.Warnings, warnings...)
	if err != nil {
		r.fail(err)
		return false
	}
	return true
}

func (r *run) parse(ctx context.Context) (*grammar.Grammar, bool) {
	if err := ctx.Err(); err != nil {
		r.fail(err)
		return nil, false
	}

	var (
		g   *grammar.Grammar
		err error
	)
	err = protect("grammar parser", func() error {
		switch {
		case r.req.Grammar != nil:
			g = r.req.Grammar
		case r.req.GrammarSource != "":
			g, err = langium.ParseString(r.req.GrammarSource)
		case r.req.GrammarPath != "":
			g, err = langium.ParseFile(r.req.GrammarPath)
		default:
			err = errors.New("no grammar given")
		}
		return err
	})
	if err != nil {
		r.fail(fmt.Errorf("parse grammar: %w", err))
		return nil, false
	}
	r.pc.Grammar = g
	return g, true
}

func (r *run) validate(ctx context.Context, g *grammar.Grammar, cfg *config.Config) (*codegen.Context, bool) {
	if err := ctx.Err(); err != nil {
		r.fail(err)
		return nil, false
	}

	opts := []codegen.Option{
		codegen.WithHelpers(r.o.helpers),
		codegen.WithMetadata(r.report.Metadata),
		codegen.WithRunID(r.report.RunID),
		codegen.WithClock(r.o.clock),
	}
	if pl, ok := r.o.loader.(PartialLoader); ok {
		partials, err := pl.Partials()
		if err != nil {
			r.fail(fmt.Errorf("load partials: %w", err))
			return nil, false
		}
		opts = append(opts, codegen.WithPartials(partials))
	}

	var tctx *codegen.Context
	err := protect("context builder", func() error {
		var err error
		tctx, err = codegen.Build(g, cfg, opts...)
		return err
	})
	if err != nil {
		r.fail(err)
		return nil, false
	}

	for _, w := range grammar.Lint(g) {
		r.report.Warnings = append(r.report.Warnings, errors.New(w))
	}
	r.pc.Template = tctx
	return tctx, true
}

// render runs each applicable strategy in category order. A strategy
// missing a required template loses its output but its siblings still
// render; the run then fails before writing.
func (r *run) render(ctx context.Context, g *grammar.Grammar, tctx *codegen.Context, cfg *config.Config) (*generator.Output, bool) {
	renderer := generator.NewRenderer(r.o.loader, r.o.cache,
		generator.WithFailFast(cfg.Generation.FailFast),
		generator.WithConcurrency(cfg.Generation.Concurrency),
	)
	out := generator.NewOutput()
	fatal := false

	for _, s := range r.o.strategies.Ordered(cfg.Generation.Targets) {
		if err := ctx.Err(); err != nil {
			r.fail(err)
			return out, false
		}
		name := s.Metadata().Name
		r.pc.Strategy = name
		r.pc.Files = out.Files()
		if !r.hook(ctx, plugin.BeforeTemplateRender) {
			r.report.Files = out.Files()
			return out, false
		}

		var res *generator.Result
		err := protect("strategy "+name, func() error {
			var err error
			res, err = s.Render(ctx, g, tctx, renderer)
			return err
		})
		if res == nil {
			res = &generator.Result{}
		}

		switch {
		case err == nil:
			r.report.Errors = append(r.report.Errors, res.Errors...)
		case errors.Is(err, generator.ErrTemplateNotFound):
			r.log.Error("strategy failed, dropping its output", "strategy", name, "error", err)
			r.report.Errors = append(r.report.Errors, res.Errors...)
			r.report.addErrors(err)
			fatal = true
			if cfg.Generation.FailFast {
				r.report.Files = out.Files()
				r.failIn(PhaseRendering)
				return out, false
			}
			continue
		default:
			// In fail-fast mode the fatal render error is also the last
			// entry of res.Errors.
			if len(res.Errors) > 0 && res.Errors[len(res.Errors)-1] == err {
				res.Errors = res.Errors[:len(res.Errors)-1]
			}
			r.report.Errors = append(r.report.Errors, res.Errors...)
			r.report.Errors = append(r.report.Errors, out.Merge(res.Files)...)
			r.report.Files = out.Files()
			r.fail(err)
			return out, false
		}

		if errs := out.Merge(res.Files); len(errs) > 0 {
			r.report.Errors = append(r.report.Errors, errs...)
			fatal = true
		}
		r.pc.Files = out.Files()
		if !r.hook(ctx, plugin.AfterTemplateRender) {
			r.report.Files = out.Files()
			return out, false
		}
	}
	r.pc.Strategy = ""

	for _, f := range r.pc.AdditionalFiles {
		clean, ok := generator.CleanPath(f.Path)
		if !ok {
			r.report.Errors = append(r.report.Errors, &plugin.Error{
				Plugin: "additional files",
				Op:     "emit",
				Err:    fmt.Errorf("invalid output path %q", f.Path),
			})
			fatal = true
			continue
		}
		file := *f
		file.Path, file.Strategy, file.Template = clean, "", ""
		if file.Encoding == "" {
			file.Encoding = generator.EncodingUTF8
		}
		if err := out.Add(&file); err != nil {
			r.report.Errors = append(r.report.Errors, err)
			fatal = true
		}
	}

	r.report.Files = out.Files()
	if fatal {
		r.failIn(PhaseRendering)
		return out, false
	}
	return out, true
}

func (r *run) write(ctx context.Context, out *generator.Output) bool {
	if r.req.Writer == nil {
		return true
	}
	if err := ctx.Err(); err != nil {
		r.fail(err)
		return false
	}
	err := protect("output writer", func() error {
		return r.req.Writer.Write(ctx, out.Files())
	})
	if err != nil {
		r.fail(fmt.Errorf("write output: %w", err))
		return false
	}
	return true
}

// hook runs one plugin hook and reports whether the run may continue.
func (r *run) hook(ctx context.Context, h plugin.Hook) bool {
	warnings, err := r.o.plugins.Run(ctx, h, r.pc, r.isolate)
	r.report.Warnings = append(r.report.Warnings, warnings...)
	if err != nil {
		r.fail(err)
		return false
	}
	return true
}

func (r *run) enter(p Phase) {
	r.log.Debug("entering phase", "phase", string(p))
	r.report.Phase = p
	r.pc.Phase = string(p)
}

// fail records err and moves the run to PhaseFailed.
func (r *run) fail(err error) {
	r.report.addErrors(err)
	r.failIn(r.report.Phase)
}

func (r *run) failIn(p Phase) {
	if r.report.Phase == PhaseFailed {
		return
	}
	r.report.FailedIn = p
	r.report.Phase = PhaseFailed
	r.pc.Phase = string(PhaseFailed)
}

// protect runs fn, converting a panic in a collaborator into an error.
func protect(what string, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s panicked: %v", what, p)
		}
	}()
	return fn()
}
