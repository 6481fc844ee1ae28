// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package orchestrator

import (
	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/generators/browser"
	"github.com/albertocavalcante/glspgen/generators/common"
	"github.com/albertocavalcante/glspgen/generators/server"
)

// DefaultStrategies returns a registry with the built-in common, server
// and browser strategies.
func DefaultStrategies() *generator.Registry {
	return generator.NewRegistry(common.New(), server.New(), browser.New())
}
