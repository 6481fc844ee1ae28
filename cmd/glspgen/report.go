// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/albertocavalcante/glspgen/orchestrator"
)

var (
	green = lipgloss.Color("#10B981")
	red   = lipgloss.Color("#EF4444")
	amber = lipgloss.Color("#F59E0B")
	gray  = lipgloss.Color("#6B7280")

	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(green)
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(red)
	warnStyle  = lipgloss.NewStyle().Foreground(amber)
	mutedStyle = lipgloss.NewStyle().Foreground(gray)
	pathStyle  = lipgloss.NewStyle().PaddingLeft(2)
)

// printReport writes a human-readable summary of a run.
func printReport(w io.Writer, r *orchestrator.Report, verbose bool) {
	if r.Failed() {
		fmt.Fprintf(w, "%s in %s %s\n",
			failStyle.Render("✗ generation failed"),
			r.FailedIn,
			mutedStyle.Render("("+r.RunID+")"))
	} else {
		fmt.Fprintf(w, "%s %s\n",
			okStyle.Render(fmt.Sprintf("✓ generated %d files", len(r.Files))),
			mutedStyle.Render(fmt.Sprintf("in %s (%s)", r.Duration.Round(time.Millisecond), r.RunID)))
	}

	if verbose || r.Failed() {
		for _, p := range r.Paths() {
			fmt.Fprintln(w, pathStyle.Render(p))
		}
	}
	for _, warn := range r.Warnings {
		fmt.Fprintln(w, warnStyle.Render("warning: "+warn.Error()))
	}
	for _, err := range r.Errors {
		fmt.Fprintln(w, failStyle.Render("error: ")+err.Error())
	}
}
