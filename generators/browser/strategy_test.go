// SPDX-License-Identifier: MIT

package browser

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

func render(t *testing.T, cfgMap map[string]any) (paths []string, files map[string]string) {
	t.Helper()
	g := &grammar.Grammar{
		Name: "StateMachine",
		Interfaces: []*grammar.Interface{
			{Name: "State", Properties: []grammar.Property{{Name: "name", Type: "string"}}},
			{Name: "Decision"},
			{Name: "Transition", Properties: []grammar.Property{
				{Name: "from", Type: "State", CrossRef: true},
				{Name: "to", Type: "State", CrossRef: true},
			}},
		},
	}
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
	paths, files := render(t, map[string]any{
		"diagram": map[string]any{"features": []any{"ports"}},
	})

	want := []string{
		"browser/package.json",
		"browser/src/diagram-module.ts",
		"browser/src/frontend-module.ts",
		"browser/css/diagram.css",
		"browser/src/views/state-view.tsx",
		"browser/src/views/decision-view.tsx",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	checks := map[string][]string{
		"browser/src/diagram-module.ts": {
			"export const stateMachineDiagramModule = new ContainerModule(",
			"configureModelElement(context, ModelTypes.STATE, GNode, StateView);",
			"configureModelElement(context, ModelTypes.TRANSITION, GEdge, PolylineEdgeView);",
			"import { DecisionView } from './views/decision-view';",
		},
		"browser/src/frontend-module.ts": {
			"contributionId: 'state-machine',",
			"fileExtensions: ['.state-machine'],",
		},
		"browser/src/views/state-view.tsx": {
			"export class StateView extends ShapeView {",
			"<ellipse class-shape={true}",
			"class-port-in={true} cx={ 0 }",
			"class-port-out={true} cx={ width }",
		},
		"browser/src/views/decision-view.tsx": {
			"<polygon class-shape={true}",
			": 60;",
		},
		"browser/css/diagram.css": {
			".state > .port {",
		},
	}
	for path, substrings := range checks {
		for _, s := range substrings {
			if !strings.Contains(files[path], s) {
				t.Errorf("%s does not contain %q:\n%s", path, s, files[path])
			}
		}
	}
	if strings.Contains(files["browser/src/views/decision-view.tsx"], "class-port") {
		t.Error("decision view has ports but no edge accepts it")
	}
}

func TestRender_Options(t *testing.T) {
	paths, files := render(t, map[string]any{
		"diagram":    map[string]any{"fileExtension": ".sm"},
		"generation": map[string]any{"generateDocs": true},
	})

	readme, ok := files["browser/README.md"]
	if !ok {
		t.Fatalf("README.md not rendered: %v", paths)
	}
	if !strings.Contains(readme, "| `Decision` | `node:decision` | diamond | 60x60 |") {
		t.Errorf("README.md:\n%s", readme)
	}
	if !strings.Contains(files["browser/src/frontend-module.ts"], "fileExtensions: ['.sm'],") {
		t.Errorf("frontend-module.ts ignores diagram.fileExtension")
	}
	if strings.Contains(files["browser/src/views/state-view.tsx"], "class-port") {
		t.Error("ports rendered without the ports feature")
	}
}
