// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

//go:build e2e

// Package e2e provides end-to-end compile verification tests.
// These tests verify that generated packages are well-formed and that the
// shared TypeScript model type-checks.
//
// Run with: go test -tags e2e ./e2e/... -v
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Tool installation instructions
var installInstructions = map[string]string{
	"tsc": "TypeScript is required. Install: npm install -g typescript",
}

// requireTool fails the test if the tool is not available.
func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		instruction := installInstructions[name]
		if instruction == "" {
			instruction = fmt.Sprintf("Install %s and ensure it's in PATH", name)
		}
		t.Fatalf("%s not found in PATH.\n%s", name, instruction)
	}
}

const shapesGrammar = `grammar Shapes

interface Shape {
    name: string
    label?: string
}

interface Circle extends Shape {
    radius: number
}

interface Decision extends Shape {
    kind: Kind
}

interface Connector {
    source: @Shape
    target: @Shape
    waypoints: Point[]
}

interface Point {
    x: number
    y: number
}

type Kind = 'exclusive' | 'parallel';
`

// generateTo runs "glspgen generate" into a fresh directory.
func generateTo(t *testing.T, args ...string) string {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "shapes.langium")
	if err := os.WriteFile(input, []byte(shapesGrammar), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	args = append([]string{"generate", input, "-o", out}, args...)
	if _, stderr, err := run(t, args...); err != nil {
		t.Fatalf("glspgen generate: %v\n%s", err, stderr)
	}
	return out
}

// TestPackageManifestsValid verifies every generated JSON file parses.
func TestPackageManifestsValid(t *testing.T) {
	out := generateTo(t, "--examples")

	var manifests []string
	err := filepath.WalkDir(out, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			manifests = append(manifests, path)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(manifests) == 0 {
		t.Fatal("no JSON files generated")
	}

	for _, path := range manifests {
		rel, _ := filepath.Rel(out, path)
		t.Run(filepath.ToSlash(rel), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var v any
			if err := json.Unmarshal(data, &v); err != nil {
				t.Errorf("invalid JSON: %v\n%s", err, data)
			}
		})
	}
}

// TestCommonPackageTypeChecks verifies the shared model compiles with tsc.
func TestCommonPackageTypeChecks(t *testing.T) {
	requireTool(t, "tsc")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	out := generateTo(t, "-t", "common")
	pkg := filepath.Join(out, "common")

	tsconfig := `{
  "compilerOptions": {
    "target": "ES2019",
    "module": "commonjs",
    "strict": true,
    "noEmit": true
  },
  "include": ["src"]
}
`
	if err := os.WriteFile(filepath.Join(pkg, "tsconfig.json"), []byte(tsconfig), 0o644); err != nil {
		t.Fatalf("write tsconfig.json: %v", err)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, "tsc", "-p", pkg)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("tsc output:\n%s", output)
		t.Fatalf("tsc failed: %v", err)
	}
	t.Logf("tsc: %v", time.Since(start))
}
