// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package plugin

import (
	"context"
	"time"
)

// MetricsKey is the Metadata key holding a run's *RunMetrics.
const MetricsKey = "metrics"

// RunMetrics is what the metrics plugin records for one run.
type RunMetrics struct {
	Started time.Time

	// Parse and Validate are the time spent reaching AfterParse and
	// AfterValidation from the previous hook.
	Parse    time.Duration
	Validate time.Duration

	Interfaces int
	NodeTypes  int
	EdgeTypes  int

	// Strategies is in render order.
	Strategies []StrategyMetrics

	Files int
	Total time.Duration

	last          time.Time
	strategyStart time.Time
}

// StrategyMetrics is the render time and file count of one strategy.
type StrategyMetrics struct {
	Name     string
	Files    int
	Duration time.Duration
}

// MetricsFrom returns the metrics recorded in a run's metadata.
func MetricsFrom(metadata map[string]any) (*RunMetrics, bool) {
	m, ok := metadata[MetricsKey].(*RunMetrics)
	return m, ok
}

// Metrics records phase timings and element counts into the run
// metadata and logs a summary when the run completes.
type Metrics struct {
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewMetrics creates the metrics plugin.
func NewMetrics() *Metrics {
	return &Metrics{Clock: time.Now}
}

// Info implements Plugin.
func (m *Metrics) Info() Info {
	return Info{Name: "metrics", Version: "1.0.0"}
}

// Hooks implements Plugin.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		BeforeGenerate: func(_ context.Context, pc *Context) error {
			now := m.now()
			pc.Metadata[MetricsKey] = &RunMetrics{Started: now, last: now}
			return nil
		},
		AfterParse: m.with(func(rm *RunMetrics, pc *Context, now time.Time) {
			rm.Parse = now.Sub(rm.last)
			rm.last = now
			if pc.Grammar != nil {
				rm.Interfaces = len(pc.Grammar.Interfaces)
			}
		}),
		AfterValidation: m.with(func(rm *RunMetrics, pc *Context, now time.Time) {
			rm.Validate = now.Sub(rm.last)
			rm.last = now
			if pc.Template != nil {
				rm.NodeTypes = len(pc.Template.NodeTypes)
				rm.EdgeTypes = len(pc.Template.EdgeTypes)
			}
		}),
		BeforeTemplateRender: m.with(func(rm *RunMetrics, _ *Context, now time.Time) {
			rm.strategyStart = now
		}),
		AfterTemplateRender: m.with(func(rm *RunMetrics, pc *Context, now time.Time) {
			files := 0
			for _, f := range pc.Files {
				if f.Strategy == pc.Strategy {
					files++
				}
			}
			rm.Strategies = append(rm.Strategies, StrategyMetrics{
				Name:     pc.Strategy,
				Files:    files,
				Duration: now.Sub(rm.strategyStart),
			})
			rm.last = now
		}),
		AfterGenerate: m.with(func(rm *RunMetrics, pc *Context, now time.Time) {
			rm.Files = len(pc.Files)
			rm.Total = now.Sub(rm.Started)
			if pc.Logger != nil {
				pc.Logger.Info("generation metrics",
					"files", rm.Files,
					"interfaces", rm.Interfaces,
					"nodes", rm.NodeTypes,
					"edges", rm.EdgeTypes,
					"duration", rm.Total,
				)
			}
		}),
	}
}

// with adapts fn into a hook that is a no-op when BeforeGenerate did not
// run for this context.
func (m *Metrics) with(fn func(rm *RunMetrics, pc *Context, now time.Time)) HookFunc {
	return func(_ context.Context, pc *Context) error {
		if rm, ok := MetricsFrom(pc.Metadata); ok {
			fn(rm, pc, m.now())
		}
		return nil
	}
}

func (m *Metrics) now() time.Time {
	if m.Clock == nil {
		return time.Now()
	}
	return m.Clock()
}
