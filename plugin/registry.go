// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package plugin

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/ctxlog"
)

type handler struct {
	plugin string
	fn     HookFunc
}

// Registry holds plugins and, per hook, the ordered list of handlers
// built when each plugin is registered.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	names   map[string]bool
	hooks   map[Hook][]handler
}

// NewRegistry creates a registry with the given plugins in order.
// It panics on duplicate names, like Register.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{
		names: make(map[string]bool),
		hooks: make(map[Hook][]handler),
	}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register appends a plugin. Its handlers run after those of every
// plugin registered before it.
func (r *Registry) Register(p Plugin) error {
	info := p.Info()
	if info.Name == "" {
		return fmt.Errorf("plugin: register: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.names[info.Name] {
		return fmt.Errorf("plugin: register: %q already registered", info.Name)
	}
	r.names[info.Name] = true
	r.plugins = append(r.plugins, p)

	hooks := p.Hooks()
	for _, hook := range AllHooks {
		if fn := hooks.Get(hook); fn != nil {
			r.hooks[hook] = append(r.hooks[hook], handler{plugin: info.Name, fn: fn})
		}
	}
	return nil
}

// RegisterByPriority registers plugins in descending priority order.
// Plugins with equal priority keep their argument order.
func (r *Registry) RegisterByPriority(plugins ...Plugin) error {
	sorted := slices.Clone(plugins)
	slices.SortStableFunc(sorted, func(a, b Plugin) int {
		return cmp.Compare(b.Info().Priority, a.Info().Priority)
	})
	for _, p := range sorted {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Plugins returns the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.plugins)
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Handlers returns the names of the plugins handling hook, in call order.
func (r *Registry) Handlers(hook Hook) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.hooks[hook]))
	for _, h := range r.hooks[hook] {
		names = append(names, h.plugin)
	}
	return names
}

// Run calls every handler of hook in order.
//
// Handler panics are recovered into errors. A failing handler stops the
// hook and its error is returned, unless isolate is set, in which case
// the failure is logged, returned among the warnings and the next
// handler runs. An error wrapping ErrAbort is returned regardless of
// isolate.
func (r *Registry) Run(ctx context.Context, hook Hook, pc *Context, isolate bool) (warnings []error, err error) {
	r.mu.RLock()
	handlers := r.hooks[hook]
	r.mu.RUnlock()

	log := ctxlog.FromContext(ctx)
	for _, h := range handlers {
		herr := call(h.plugin, func() error { return h.fn(ctx, pc) })
		if herr == nil {
			continue
		}
		perr := &Error{Plugin: h.plugin, Hook: hook, Err: herr}
		if !isolate || Aborted(herr) {
			return warnings, perr
		}
		log.Warn("plugin hook failed, continuing", "plugin", h.plugin, "hook", string(hook), "error", herr)
		warnings = append(warnings, perr)
	}
	return warnings, nil
}

// Configure lets every Configurer adjust cfg, in registration order.
func (r *Registry) Configure(ctx context.Context, cfg *config.Config, isolate bool) (warnings []error, err error) {
	return r.each(ctx, "configure", isolate, func(p Plugin) error {
		if c, ok := p.(Configurer); ok {
			return c.Configure(cfg)
		}
		return nil
	})
}

// Validate runs every Validator's self-check, in registration order.
func (r *Registry) Validate(ctx context.Context, isolate bool) (warnings []error, err error) {
	return r.each(ctx, "validate", isolate, func(p Plugin) error {
		if v, ok := p.(Validator); ok {
			return v.Validate()
		}
		return nil
	})
}

func (r *Registry) each(ctx context.Context, op string, isolate bool, fn func(Plugin) error) (warnings []error, err error) {
	log := ctxlog.FromContext(ctx)
	for _, p := range r.Plugins() {
		name := p.Info().Name
		perr := call(name, func() error { return fn(p) })
		if perr == nil {
			continue
		}
		e := &Error{Plugin: name, Op: op, Err: perr}
		if !isolate || Aborted(perr) {
			return warnings, e
		}
		log.Warn("plugin failed, continuing", "plugin", name, "op", op, "error", perr)
		warnings = append(warnings, e)
	}
	return warnings, nil
}

// call runs fn, converting a panic into an error.
func call(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in plugin %s: %v", name, r)
		}
	}()
	return fn()
}
