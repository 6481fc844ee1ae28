// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateRender   = errors.New("template render failed")
	ErrOutputConflict   = errors.New("output conflict")
)

// TemplateNotFoundError reports a required template the loader lacks.
type TemplateNotFoundError struct {
	Strategy string
	Template string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("%s: required template %q not found", e.Strategy, e.Template)
}

func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// TemplateRenderError reports a template that failed to compile or
// execute. Interface is set for per-element templates.
type TemplateRenderError struct {
	Strategy  string
	Template  string
	Interface string
	Err       error
}

func (e *TemplateRenderError) Error() string {
	if e.Interface != "" {
		return fmt.Sprintf("%s: render %s for %s: %v", e.Strategy, e.Template, e.Interface, e.Err)
	}
	return fmt.Sprintf("%s: render %s: %v", e.Strategy, e.Template, e.Err)
}

func (e *TemplateRenderError) Unwrap() error {
	return e.Err
}

func (e *TemplateRenderError) Is(target error) bool {
	return target == ErrTemplateRender
}

// OutputConflictError reports two files targeting the same path.
type OutputConflictError struct {
	Path   string
	First  string
	Second string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("output conflict at %s: emitted by %s and %s", e.Path, e.First, e.Second)
}

func (e *OutputConflictError) Is(target error) bool {
	return target == ErrOutputConflict
}
