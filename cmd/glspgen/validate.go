// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/langium"
)

func validateCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "validate <grammar>",
		Short: "Check a grammar for structural errors",
		Long: `Validate parses a grammar and reports dangling type references,
circular inheritance and duplicate declarations, plus warnings for
interfaces no diagram element can use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if quiet {
				if !langium.ValidateFile(args[0]) {
					return errors.New("invalid grammar")
				}
				return nil
			}

			w := cmd.OutOrStdout()
			g, err := langium.ParseFile(args[0])
			if err != nil {
				fmt.Fprintln(w, failStyle.Render("error: ")+err.Error())
				return errors.New("invalid grammar")
			}
			for _, warn := range grammar.Lint(g) {
				fmt.Fprintln(w, warnStyle.Render("warning: "+warn))
			}
			errs := grammar.Validate(g)
			for _, err := range errs {
				fmt.Fprintln(w, failStyle.Render("error: ")+err.Error())
			}
			if len(errs) > 0 {
				return fmt.Errorf("invalid grammar: %d errors", len(errs))
			}
			fmt.Fprintf(w, "%s %s\n",
				okStyle.Render("✓ "+g.Name),
				mutedStyle.Render(fmt.Sprintf("%d interfaces, %d types", len(g.Interfaces), len(g.Types))))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "report validity through the exit status only")
	return cmd
}
