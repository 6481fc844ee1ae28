// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds the strategies available to an orchestrator.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns a registry holding the given strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds a strategy to the registry.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta := s.Metadata()
	if _, exists := r.strategies[meta.Name]; exists {
		panic(fmt.Sprintf("strategy %q already registered", meta.Name))
	}
	r.strategies[meta.Name] = s
}

// Get returns a strategy by name.
func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// List returns all registered strategy names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ForCategory returns the strategies that handle category, sorted by name.
func (r *Registry) ForCategory(category string) []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Strategy
	for _, name := range slices.Sorted(maps.Keys(r.strategies)) {
		if s := r.strategies[name]; s.CanHandle(category) {
			out = append(out, s)
		}
	}
	return out
}

// Ordered returns the strategies for the given categories in rendering
// order: category order first, then name. An empty list means every
// category.
func (r *Registry) Ordered(categories []string) []Strategy {
	var out []Strategy
	seen := make(map[string]bool)
	for _, c := range Categories {
		if len(categories) > 0 && !slices.Contains(categories, c) {
			continue
		}
		for _, s := range r.ForCategory(c) {
			if name := s.Metadata().Name; !seen[name] {
				seen[name] = true
				out = append(out, s)
			}
		}
	}
	return out
}
