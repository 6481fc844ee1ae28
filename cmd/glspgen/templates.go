// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/internal/templates"
	"github.com/albertocavalcante/glspgen/orchestrator"
)

func templatesCmd() *cobra.Command {
	var templateDir string
	cmd := &cobra.Command{
		Use:   "templates [category]",
		Short: "List available templates",
		Long: `Templates lists the templates the loader resolves, optionally for
one category (common, server, browser or partials). Templates owned by a
strategy are marked with the strategy name.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{generator.CategoryCommon, generator.CategoryServer, generator.CategoryBrowser, "partials"},
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := templates.New(templateDir)
			if err != nil {
				return err
			}
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			names, err := loader.List(category)
			if err != nil {
				return err
			}

			owners := make(map[string]string)
			strategies := orchestrator.DefaultStrategies()
			for _, name := range strategies.List() {
				s, _ := strategies.Get(name)
				for _, spec := range s.Templates() {
					owners[spec.Name] = name
				}
			}

			w := cmd.OutOrStdout()
			for _, n := range names {
				if owner, ok := owners[n]; ok {
					fmt.Fprintf(w, "%s %s\n", n, mutedStyle.Render("("+owner+")"))
					continue
				}
				fmt.Fprintln(w, n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&templateDir, "templates", "", "directory of templates overriding the built-in ones")
	return cmd
}
