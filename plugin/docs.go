// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/albertocavalcante/glspgen/internal/codegen"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

// Docs adds a Markdown reference of the grammar's diagram elements as
// docs/<project>-grammar.md when documentation is enabled.
type Docs struct{}

// NewDocs creates the docs plugin.
func NewDocs() *Docs { return &Docs{} }

// Info implements Plugin.
func (d *Docs) Info() Info {
	return Info{Name: "docs", Version: "1.0.0"}
}

// Hooks implements Plugin.
func (d *Docs) Hooks() Hooks {
	return Hooks{
		AfterValidation: func(_ context.Context, pc *Context) error {
			if pc.Template == nil || pc.Config == nil || !pc.Config.Generation.GenerateDocs {
				return nil
			}
			pc.AddFile(DocsPath(pc.Template.ProjectName), []byte(GrammarDoc(pc.Template)))
			return nil
		},
	}
}

// DocsPath returns the output path of the grammar reference.
func DocsPath(project string) string {
	return "docs/" + naming.ToKebabCase(project) + "-grammar.md"
}

// GrammarDoc renders the grammar reference for tctx.
func GrammarDoc(tctx *codegen.Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s grammar\n\n", tctx.Extension.DisplayName)
	fmt.Fprintf(&b, "%d node types, %d edge types, %d type aliases.\n",
		len(tctx.NodeTypes), len(tctx.EdgeTypes), len(tctx.Types))

	if len(tctx.NodeTypes) > 0 {
		b.WriteString("\n## Node types\n")
		for _, n := range tctx.NodeTypes {
			writeElement(&b, n)
			fmt.Fprintf(&b, "- Shape: %s (%dx%d)\n", n.Shape, n.Size.Width, n.Size.Height)
			if len(n.Ports) > 0 {
				fmt.Fprintf(&b, "- Ports: %s\n", strings.Join(n.Ports, ", "))
			}
			writeProperties(&b, n.AllProperties)
		}
	}

	if len(tctx.EdgeTypes) > 0 {
		b.WriteString("\n## Edge types\n")
		for _, e := range tctx.EdgeTypes {
			writeElement(&b, e)
			if e.Source != nil && e.Target != nil {
				fmt.Fprintf(&b, "- Connects: `%s` (%s) to `%s` (%s)\n",
					e.Source.Name, e.Source.Type.Name, e.Target.Name, e.Target.Type.Name)
			}
			writeProperties(&b, e.AllProperties)
		}
	}

	if len(tctx.Types) > 0 {
		b.WriteString("\n## Type aliases\n\n")
		b.WriteString("| Name | Definition |\n| --- | --- |\n")
		for _, t := range tctx.Types {
			fmt.Fprintf(&b, "| `%s` | `%s` |\n", t.Name, t.TSType)
		}
	}
	return b.String()
}

func writeElement(b *strings.Builder, i *codegen.InterfaceInfo) {
	fmt.Fprintf(b, "\n### %s\n\n", i.Name)
	fmt.Fprintf(b, "- Type ID: `%s`\n", i.TypeID)
	if len(i.SuperTypes) > 0 {
		fmt.Fprintf(b, "- Extends: %s\n", strings.Join(i.SuperTypes, ", "))
	}
}

func writeProperties(b *strings.Builder, props []*codegen.PropertyInfo) {
	if len(props) == 0 {
		return
	}
	b.WriteString("\n| Property | Type | Optional |\n| --- | --- | --- |\n")
	for _, p := range props {
		optional := "no"
		if p.Optional {
			optional = "yes"
		}
		fmt.Fprintf(b, "| `%s` | `%s` | %s |\n", p.Name, p.TSType, optional)
	}
}
