// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package orchestrator

import (
	"errors"
	"time"

	"github.com/albertocavalcante/glspgen/generator"
)

// Phase is a state of a generation run.
type Phase string

const (
	PhaseNotStarted Phase = "notStarted"
	PhaseParsing    Phase = "parsing"
	PhaseValidating Phase = "validating"
	PhaseRendering  Phase = "rendering"
	PhaseWriting    Phase = "writing"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// Report is the outcome of one run.
type Report struct {
	RunID string

	// Phase is PhaseDone or PhaseFailed once the run returns.
	Phase Phase

	// FailedIn is the phase the run was in when it failed.
	FailedIn Phase

	// Files are the files generated, in emission order. On failure it
	// holds whatever was rendered before the failure.
	Files []*generator.File

	// Errors lists every recorded error: fatal ones and, outside
	// fail-fast mode, per-template render failures.
	Errors []error

	// Warnings lists non-blocking problems such as isolated plugin
	// failures and grammar lint findings.
	Warnings []error

	// Metadata is the run metadata shared with plugins.
	Metadata map[string]any

	Duration time.Duration
}

// Failed reports whether the run ended in PhaseFailed.
func (r *Report) Failed() bool {
	return r.Phase == PhaseFailed
}

// Err joins every recorded error, or returns nil.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}

// Paths returns the paths of the generated files.
func (r *Report) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

func (r *Report) addErrors(err error) {
	if err == nil {
		return
	}
	// Flatten joined errors so each one is reported on its own.
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		r.Errors = append(r.Errors, joined.Unwrap()...)
		return
	}
	r.Errors = append(r.Errors, err)
}
