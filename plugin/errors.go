// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrPlugin is matched by every Error.
	ErrPlugin = errors.New("plugin error")

	// ErrAbort stops a run from inside a hook, regardless of
	// continue-on-plugin-error.
	ErrAbort = errors.New("generation aborted by plugin")
)

// Error reports a failing plugin hook, configuration or self-check.
type Error struct {
	Plugin string

	// Hook is empty for Configure and Validate failures.
	Hook Hook

	// Op is "configure" or "validate" when Hook is empty.
	Op string

	Err error
}

func (e *Error) Error() string {
	where := string(e.Hook)
	if where == "" {
		where = e.Op
	}
	return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, where, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrPlugin
}

// Aborted reports whether err asks to stop the run.
func Aborted(err error) bool {
	return errors.Is(err, ErrAbort)
}
