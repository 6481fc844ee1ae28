// SPDX-License-Identifier: MIT

package common

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/templates"
)

func workflowGrammar() *grammar.Grammar {
	return &grammar.Grammar{
		Name: "Workflow",
		Interfaces: []*grammar.Interface{
			{Name: "Element", Properties: []grammar.Property{{Name: "name", Type: "string"}}},
			{Name: "Task", SuperTypes: []string{"Element"}, Properties: []grammar.Property{
				{Name: "duration", Type: "number", Optional: true},
				{Name: "status", Type: "Status"},
			}},
			{Name: "Gateway", SuperTypes: []string{"Element"}},
			{Name: "Transition", Properties: []grammar.Property{
				{Name: "source", Type: "Element", CrossRef: true},
				{Name: "target", Type: "Element", CrossRef: true},
			}},
		},
		Types: []*grammar.TypeAlias{
			{Name: "Status", Definition: "'open' | 'done'", UnionTypes: []string{"open", "done"}},
		},
	}
}

func render(t *testing.T, g *grammar.Grammar, cfgMap map[string]any) (paths []string, files map[string]string) {
	t.Helper()
	cfg, err := config.FromMap(cfgMap)
	if err != nil {
		t.Fatal(err)
	}
	loader := templates.Embedded()
	partials, err := loader.Partials()
	if err != nil {
		t.Fatal(err)
	}
	tctx, err := codegen.Build(g, cfg, codegen.WithPartials(partials), codegen.WithRunID("test"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res, err := New().Render(context.Background(), g, tctx, generator.NewRenderer(loader, nil))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(res.Errors) > 0 {
		t.Fatalf("render errors: %v", res.Errors)
	}
	files = make(map[string]string)
	for _, f := range res.Files {
		paths = append(paths, f.Path)
		files[f.Path] = string(f.Content)
	}
	return paths, files
}

func TestRender(t *testing.T) {
	paths, files := render(t, workflowGrammar(), nil)

	// The optional extensions template ships with no default and is skipped.
	want := []string{
		"common/package.json",
		"common/src/model.ts",
		"common/src/types.ts",
		"common/src/index.ts",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	model := files["common/src/model.ts"]
	for _, s := range []string{
		"// Generated by glspgen for workflow. Do not edit by hand.",
		"export type Status = 'open' | 'done';",
		"export interface Task extends Element {",
		"    duration?: number;",
		"    status: Status;",
		"    source: string; // cross reference to Element",
		"export function isGateway(element: unknown): element is Gateway {",
	} {
		if !strings.Contains(model, s) {
			t.Errorf("model.ts does not contain %q:\n%s", s, model)
		}
	}
	// Interfaces come out in declaration order.
	if strings.Index(model, "interface Element") > strings.Index(model, "interface Transition") {
		t.Error("interfaces are not in declaration order")
	}

	types := files["common/src/types.ts"]
	for _, s := range []string{
		"export const TASK = 'node:task';",
		"export const TRANSITION = 'edge:transition';",
		"export const NODE_TYPES: readonly string[] = [ModelTypes.ELEMENT, ModelTypes.TASK, ModelTypes.GATEWAY];",
		"export const EDGE_TYPES: readonly string[] = [ModelTypes.TRANSITION];",
		"export const DIAGRAM_TYPE = 'workflow-diagram';",
	} {
		if !strings.Contains(types, s) {
			t.Errorf("types.ts does not contain %q:\n%s", s, types)
		}
	}

	var pkg struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(files["common/package.json"]), &pkg); err != nil {
		t.Fatalf("package.json is not valid JSON: %v", err)
	}
	if pkg.Name != "@workflow/common" || pkg.Version != "0.1.0" {
		t.Errorf("package.json = %+v", pkg)
	}
}

func TestRender_Examples(t *testing.T) {
	_, files := render(t, workflowGrammar(), map[string]any{
		"generation": map[string]any{"includeExamples": true},
	})

	raw, ok := files["common/examples/example.json"]
	if !ok {
		t.Fatal("example.json not rendered")
	}
	var example struct {
		ID       string `json:"id"`
		Children []struct {
			ID       string         `json:"id"`
			Type     string         `json:"$type"`
			Position map[string]int `json:"position"`
		} `json:"children"`
	}
	if err := json.Unmarshal([]byte(raw), &example); err != nil {
		t.Fatalf("example.json is not valid JSON: %v\n%s", err, raw)
	}
	if example.ID != "workflow-example" || len(example.Children) != 3 {
		t.Fatalf("example = %+v", example)
	}
	last := example.Children[2]
	if last.ID != "gateway-1" || last.Type != "Gateway" || last.Position["x"] != 400 {
		t.Errorf("third child = %+v", last)
	}
}

func TestRender_EmptyGrammar(t *testing.T) {
	paths, files := render(t, &grammar.Grammar{Name: "Empty"}, map[string]any{
		"generation": map[string]any{"includeExamples": true},
	})
	if len(paths) != 5 {
		t.Errorf("paths = %v", paths)
	}
	if !strings.Contains(files["common/src/types.ts"], "export const NODE_TYPES: readonly string[] = [];") {
		t.Errorf("types.ts:\n%s", files["common/src/types.ts"])
	}
	var example map[string]any
	if err := json.Unmarshal([]byte(files["common/examples/example.json"]), &example); err != nil {
		t.Errorf("empty example.json is not valid JSON: %v", err)
	}
}
