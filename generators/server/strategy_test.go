// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/templates"
)

func diagramGrammar() *grammar.Grammar {
	return &grammar.Grammar{
		Name: "Diagram",
		Interfaces: []*grammar.Interface{
			{Name: "Position", Properties: []grammar.Property{{Name: "x", Type: "number"}, {Name: "y", Type: "number"}}},
			{Name: "Size", Properties: []grammar.Property{{Name: "width", Type: "number"}, {Name: "height", Type: "number"}}},
			{Name: "Node", Properties: []grammar.Property{
				{Name: "position", Type: "Position"},
				{Name: "size", Type: "Size", Optional: true},
				{Name: "kind", Type: "NodeKind"},
			}},
			{Name: "Edge", Properties: []grammar.Property{
				{Name: "source", Type: "Node"},
				{Name: "target", Type: "Node"},
				{Name: "label", Type: "string", Optional: true},
			}},
		},
		Types: []*grammar.TypeAlias{
			{Name: "NodeKind", Definition: "'task' | 'event'", UnionTypes: []string{"task", "event"}},
		},
	}
}

func render(t *testing.T, g *grammar.Grammar, cfgMap map[string]any) *generator.Result {
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
	return res
}

func contents(res *generator.Result) (paths []string, byPath map[string]string) {
	byPath = make(map[string]string)
	for _, f := range res.Files {
		paths = append(paths, f.Path)
		byPath[f.Path] = string(f.Content)
	}
	return paths, byPath
}

func TestRender_HandlerPerInterface(t *testing.T) {
	paths, files := contents(render(t, diagramGrammar(), nil))

	want := []string{
		"server/package.json",
		"server/src/model/model-state.ts",
		"server/src/model/source-model-storage.ts",
		"server/src/model/model-factory.ts",
		"server/src/diagram/diagram-configuration.ts",
		"server/src/server-module.ts",
		"server/src/handlers/create-position-handler.ts",
		"server/src/handlers/create-size-handler.ts",
		"server/src/handlers/create-node-handler.ts",
		"server/src/handlers/create-edge-handler.ts",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	checks := map[string][]string{
		"server/src/handlers/create-edge-handler.ts": {
			"export class CreateEdgeHandler extends JsonCreateEdgeOperationHandler",
			"readonly elementTypeIds = [ModelTypes.EDGE];",
			"source: operation.sourceElementId,",
			"target: operation.targetElementId,",
		},
		"server/src/handlers/create-node-handler.ts": {
			"export class CreateNodeHandler extends JsonCreateNodeOperationHandler",
			"kind: 'task',",
			"this.modelState.sourceModel.nodes.push(element);",
		},
		"server/src/diagram/diagram-configuration.ts": {
			"mapping.set(ModelTypes.NODE, GNode);",
			"mapping.set(ModelTypes.EDGE, GEdge);",
			"sourceElementTypeIds: [ModelTypes.NODE],",
			"layoutKind = ServerLayoutKind.MANUAL;",
		},
		"server/src/server-module.ts": {
			"export class DiagramDiagramModule extends DiagramModule",
			"binding.add(CreatePositionHandler);",
			"binding.add(CreateEdgeHandler);",
		},
		"server/package.json": {
			`"@diagram/common": "0.1.0"`,
		},
	}
	for path, substrings := range checks {
		for _, s := range substrings {
			if !strings.Contains(files[path], s) {
				t.Errorf("%s does not contain %q:\n%s", path, s, files[path])
			}
		}
	}

	// Optional and reference properties get no default.
	if node := files["server/src/handlers/create-node-handler.ts"]; strings.Contains(node, "size:") || strings.Contains(node, "position:") {
		t.Errorf("node handler initializes optional or reference properties:\n%s", node)
	}
}

func TestRender_GatedTemplates(t *testing.T) {
	paths, files := contents(render(t, diagramGrammar(), map[string]any{
		"diagram":    map[string]any{"features": []any{"validation"}},
		"generation": map[string]any{"generateTests": true},
	}))

	for _, p := range []string{"server/src/validation/model-validator.ts", "server/test/handlers.spec.ts"} {
		if _, ok := files[p]; !ok {
			t.Errorf("missing %s in %v", p, paths)
		}
	}
	if !strings.Contains(files["server/src/server-module.ts"], "return DiagramModelValidator;") {
		t.Error("server module does not bind the model validator")
	}
	if !strings.Contains(files["server/src/validation/model-validator.ts"], "'Position requires a value for x'") {
		t.Errorf("validator missing required check:\n%s", files["server/src/validation/model-validator.ts"])
	}
}

func TestRender_EmptyGrammar(t *testing.T) {
	paths, files := contents(render(t, &grammar.Grammar{ProjectName: "empty-project"}, nil))

	for _, p := range paths {
		if strings.HasPrefix(p, "server/src/handlers/") {
			t.Errorf("unexpected per-interface file %s", p)
		}
	}
	if !strings.Contains(files["server/src/server-module.ts"], "export class EmptyProjectDiagramModule") {
		t.Errorf("server module:\n%s", files["server/src/server-module.ts"])
	}
}

func TestRender_Deterministic(t *testing.T) {
	_, first := contents(render(t, diagramGrammar(), nil))
	_, second := contents(render(t, diagramGrammar(), nil))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("output differs between runs (-first +second):\n%s", diff)
	}
}

func TestDefaultFor(t *testing.T) {
	g := diagramGrammar()
	g.Types = append(g.Types, &grammar.TypeAlias{Name: "Label", Definition: "string"})

	tests := []struct {
		name string
		prop grammar.Property
		want string
	}{
		{name: "string", prop: grammar.Property{Name: "p", Type: "string"}, want: "''"},
		{name: "array", prop: grammar.Property{Name: "p", Type: "NodeKind", Array: true}, want: "[]"},
		{name: "literal union", prop: grammar.Property{Name: "p", Type: "NodeKind"}, want: "'task'"},
		{name: "primitive alias", prop: grammar.Property{Name: "p", Type: "Label"}, want: "''"},
		{name: "date", prop: grammar.Property{Name: "p", Type: "Date"}, want: "undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &codegen.PropertyInfo{
				Name:    tt.prop.Name,
				Type:    g.Resolve(tt.prop.Type),
				Array:   tt.prop.Array,
				Default: codegen.DefaultValue(tt.prop.Type),
			}
			if tt.prop.Array {
				info.Default = codegen.DefaultValue("array")
			}
			if got := defaultFor(g, info); got != tt.want {
				t.Errorf("defaultFor(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
