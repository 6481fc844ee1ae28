// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Command glspgen generates GLSP diagram editor extensions from Langium
// grammars.
//
// Usage:
//
//	glspgen generate <grammar> [flags]
//	glspgen validate <grammar>
//	glspgen templates [category]
//	glspgen serve [--addr :8080]
//	glspgen history --db runs.db
//
// Global flags:
//
//	--log-level     debug, info, warn or error (default: warn)
//	--log-format    text or json (default: text)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/glspgen/internal/ctxlog"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "glspgen",
	Short: "Generate GLSP diagram editors from Langium grammars",
	Long: `glspgen turns the interfaces and types of a Langium grammar into a
GLSP diagram editor extension: a shared "common" package, a GLSP server
and a Theia/VSCode browser client.

Examples:
  # Generate into ./out
  glspgen generate workflow.langium -o out

  # Preview the output as a txtar archive
  glspgen generate workflow.langium --dry-run

  # Check a grammar for dangling references and inheritance cycles
  glspgen validate workflow.langium`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log := ctxlog.New(logLevel, logFormat, os.Stderr)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), log))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.AddCommand(generateCmd(), validateCmd(), templatesCmd(), serveCmd(), historyCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
