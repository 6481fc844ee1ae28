// SPDX-License-Identifier: MIT

package langium

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/albertocavalcante/glspgen/grammar"
)

const workflowSource = `grammar Workflow
import './terminals';

entry Model:
    'workflow' name=ID '{' (elements+=Element)* '}';

/* Declared types. */
interface Element {
    name: string
}

interface Task extends Element {
    duration?: number
    tags: string[]
    status: Status;
    priority?: 'low' | 'high'
}

interface Gateway extends Element {}

interface Transition {
    source: @Element
    target: @Element
    conditions?: Condition[]
}

interface Condition { expression: string, negated: boolean }

type Status = 'open' | "done";
type Label = string;
type Node = Task | Gateway;

Task returns Task:
    'task' name=ID ('{' ('duration' duration=NUMBER)? '}')?;

hidden terminal WS: /\s+/;
terminal ID: /[_a-zA-Z][\w_]*/;
terminal STRING: /"(\\.|[^"\\])*"|'(\\.|[^'\\])*'/;
hidden terminal SL_COMMENT: /\/\/[^\n\r]*/;
hidden terminal ML_COMMENT: /\/\*[\s\S]*?\*\//;
`

func TestParseString(t *testing.T) {
	g, err := ParseString(workflowSource)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	want := &grammar.Grammar{
		Name: "Workflow",
		Interfaces: []*grammar.Interface{
			{Name: "Element", Properties: []grammar.Property{{Name: "name", Type: "string"}}},
			{Name: "Task", SuperTypes: []string{"Element"}, Properties: []grammar.Property{
				{Name: "duration", Type: "number", Optional: true},
				{Name: "tags", Type: "string", Array: true},
				{Name: "status", Type: "Status"},
				{Name: "priority", Type: "string", Optional: true},
			}},
			{Name: "Gateway", SuperTypes: []string{"Element"}},
			{Name: "Transition", Properties: []grammar.Property{
				{Name: "source", Type: "Element", CrossRef: true},
				{Name: "target", Type: "Element", CrossRef: true},
				{Name: "conditions", Type: "Condition", Optional: true, Array: true},
			}},
			{Name: "Condition", Properties: []grammar.Property{
				{Name: "expression", Type: "string"},
				{Name: "negated", Type: "boolean"},
			}},
		},
		Types: []*grammar.TypeAlias{
			{Name: "Status", Definition: "'open' | 'done'", UnionTypes: []string{"open", "done"}},
			{Name: "Label", Definition: "string"},
			{Name: "Node", Definition: "Task | Gateway"},
		},
	}

	opts := cmp.Options{
		cmpopts.IgnoreFields(grammar.Interface{}, "Line"),
		cmpopts.IgnoreFields(grammar.Property{}, "Line"),
		cmpopts.IgnoreFields(grammar.TypeAlias{}, "Line"),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(want, g, opts); diff != "" {
		t.Errorf("grammar mismatch (-want +got):\n%s", diff)
	}

	if errs := grammar.Validate(g); len(errs) != 0 {
		t.Errorf("Validate: %v", errs)
	}
}

func TestParseString_Lines(t *testing.T) {
	g, err := ParseString("grammar G\n\ninterface A {\n    b: string\n}\n")
	if err != nil {
		t.Fatal(err)
	}
	if g.Interfaces[0].Line != 3 || g.Interfaces[0].Properties[0].Line != 4 {
		t.Errorf("lines = %d, %d; want 3, 4", g.Interfaces[0].Line, g.Interfaces[0].Properties[0].Line)
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{name: "missing brace", src: "interface A\n  b: string\n}", wantLine: 2},
		{name: "unterminated interface", src: "interface A {\n  b: string\n", wantLine: 3},
		{name: "missing colon", src: "interface A { b string }", wantLine: 1},
		{name: "inline type union", src: "interface A {\n  b: B | C\n}\ninterface B {}\ninterface C {}", wantLine: 3},
		{name: "unterminated string", src: "type T = 'a\n;", wantLine: 1},
		{name: "unterminated rule", src: "Model: name=ID", wantLine: 1},
		{name: "unterminated comment", src: "/* open", wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("err = %v, want ErrSyntax", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) || se.Line != tt.wantLine {
				t.Errorf("err = %v, want line %d", err, tt.wantLine)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("langium", func(t *testing.T) {
		path := filepath.Join(dir, "state-machine.langium")
		if err := os.WriteFile(path, []byte("interface State { name: string }"), 0o644); err != nil {
			t.Fatal(err)
		}
		g, err := ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile: %v", err)
		}
		// Without a header the name comes from the file.
		if g.Name != "state-machine" || g.Source != path {
			t.Errorf("Name = %q, Source = %q", g.Name, g.Source)
		}
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "grammar.json")
		doc := `{
  "name": "Diagram",
  "interfaces": [{"name": "Node", "properties": [{"name": "kind", "type": "Kind"}]}],
  "types": [{"name": "Kind", "definition": "'a' | 'b'"}]
}`
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		g, err := ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile: %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, g.Types[0].UnionTypes); diff != "" {
			t.Errorf("UnionTypes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("syntax error names file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.langium")
		if err := os.WriteFile(path, []byte("interface {"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := ParseFile(path)
		var se *SyntaxError
		if !errors.As(err, &se) || se.File != path {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := ParseFile(filepath.Join(dir, "nope.langium")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want os.ErrNotExist", err)
		}
	})
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "valid", path: write("ok.langium", workflowSource), want: true},
		{name: "dangling", path: write("dangling.langium", "interface A { b: Missing }"), want: false},
		{name: "cycle", path: write("cycle.langium", "interface A extends B {}\ninterface B extends A {}"), want: false},
		{name: "syntax", path: write("syntax.langium", "interface A {"), want: false},
		{name: "missing", path: filepath.Join(dir, "missing.langium"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateFile(tt.path); got != tt.want {
				t.Errorf("ValidateFile(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
