// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStructural is matched by every StructuralError.
var ErrStructural = errors.New("structural grammar error")

// StructuralError reports a dangling reference, circular inheritance,
// duplicate declaration or conflicting classification.
type StructuralError struct {
	// Interface is the owning interface or type alias name.
	Interface string

	// Property is the offending property name, if any.
	Property string

	// Type is the offending type name, if any.
	Type string

	// Cycle holds the inheritance path for circular inheritance errors.
	Cycle []string

	Reason string
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "interface %s", e.Interface)
	if e.Property != "" {
		fmt.Fprintf(&b, ": property %s", e.Property)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Type != "" {
		fmt.Fprintf(&b, " %q", e.Type)
	}
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Cycle, " -> "))
	}
	return b.String()
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}
