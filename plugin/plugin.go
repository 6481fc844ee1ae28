// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package plugin defines the hook points around a generation run.
//
// A plugin is a named bundle of hook handlers. Handlers receive a shared
// *Context that they may read and mutate: metadata written by one plugin
// is visible to every later handler, and files appended to
// AdditionalFiles are emitted with the generated output.
//
// Hooks run in registration order. Priority is informational unless
// plugins are added with [Registry.RegisterByPriority].
package plugin

import (
	"context"
	"log/slog"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/config"
)

// Hook names an extension point.
type Hook string

const (
	BeforeGenerate       Hook = "beforeGenerate"
	AfterParse           Hook = "afterParse"
	AfterValidation      Hook = "afterValidation"
	BeforeTemplateRender Hook = "beforeTemplateRender"
	AfterTemplateRender  Hook = "afterTemplateRender"
	AfterGenerate        Hook = "afterGenerate"
)

// AllHooks lists every hook in the order a run reaches them.
var AllHooks = []Hook{
	BeforeGenerate,
	AfterParse,
	AfterValidation,
	BeforeTemplateRender,
	AfterTemplateRender,
	AfterGenerate,
}

// HookFunc handles one hook. Returning an error wrapping [ErrAbort]
// stops the run even when plugin failures are isolated.
type HookFunc func(ctx context.Context, pc *Context) error

// Hooks holds a plugin's handlers. Nil fields are not called.
type Hooks struct {
	BeforeGenerate       HookFunc
	AfterParse           HookFunc
	AfterValidation      HookFunc
	BeforeTemplateRender HookFunc
	AfterTemplateRender  HookFunc
	AfterGenerate        HookFunc
}

// Get returns the handler for hook.
func (h Hooks) Get(hook Hook) HookFunc {
	switch hook {
	case BeforeGenerate:
		return h.BeforeGenerate
	case AfterParse:
		return h.AfterParse
	case AfterValidation:
		return h.AfterValidation
	case BeforeTemplateRender:
		return h.BeforeTemplateRender
	case AfterTemplateRender:
		return h.AfterTemplateRender
	case AfterGenerate:
		return h.AfterGenerate
	}
	return nil
}

func (h *Hooks) set(hook Hook, fn HookFunc) {
	switch hook {
	case BeforeGenerate:
		h.BeforeGenerate = fn
	case AfterParse:
		h.AfterParse = fn
	case AfterValidation:
		h.AfterValidation = fn
	case BeforeTemplateRender:
		h.BeforeTemplateRender = fn
	case AfterTemplateRender:
		h.AfterTemplateRender = fn
	case AfterGenerate:
		h.AfterGenerate = fn
	}
}

// Info identifies a plugin.
type Info struct {
	Name    string
	Version string

	// Priority orders plugins added through RegisterByPriority; higher
	// runs first.
	Priority int
}

// Plugin is a named bundle of hook handlers.
type Plugin interface {
	Info() Info
	Hooks() Hooks
}

// Configurer is implemented by plugins that adjust the configuration
// before the run uses it.
type Configurer interface {
	Configure(cfg *config.Config) error
}

// Validator is implemented by plugins that check their own options.
type Validator interface {
	Validate() error
}

// Context is the mutable state shared by every hook of one run.
type Context struct {
	RunID string

	// Phase is the orchestrator phase the hook runs in.
	Phase string

	Config  *config.Config
	Grammar *grammar.Grammar

	// Template is the derived template context, set from AfterValidation.
	Template *codegen.Context

	// Strategy is the strategy being rendered, set for the template
	// render hooks.
	Strategy string

	// Files holds the files rendered so far. For AfterTemplateRender it
	// includes the current strategy's files.
	Files []*generator.File

	// AdditionalFiles are appended to the output after rendering.
	// Paths are relative to the output root.
	AdditionalFiles []*generator.File

	// Metadata is shared with the template context's Metadata.Extra.
	Metadata map[string]any

	Logger *slog.Logger
}

// AddFile queues an additional UTF-8 file for emission.
func (c *Context) AddFile(path string, content []byte) {
	c.AdditionalFiles = append(c.AdditionalFiles, &generator.File{
		Path:     path,
		Content:  content,
		Encoding: generator.EncodingUTF8,
	})
}

// Func adapts plain hook handlers into a Plugin.
type Func struct {
	Meta     Info
	Handlers Hooks
}

// Info implements Plugin.
func (f *Func) Info() Info { return f.Meta }

// Hooks implements Plugin.
func (f *Func) Hooks() Hooks { return f.Handlers }
