// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/ctxlog"
	"github.com/albertocavalcante/glspgen/internal/fetch"
	"github.com/albertocavalcante/glspgen/internal/output"
	"github.com/albertocavalcante/glspgen/internal/templates"
	"github.com/albertocavalcante/glspgen/orchestrator"
	"github.com/albertocavalcante/glspgen/plugin"
	"github.com/albertocavalcante/glspgen/plugin/history"
)

type generateOptions struct {
	config      string
	output      string
	templateDir string
	project     string
	targets     []string
	features    []string
	failFast    bool
	docs        bool
	examples    bool
	tests       bool
	isolate     bool
	dryRun      bool
	metrics     bool
	historyDB   string
	repo        string
	ref         string
	verbose     bool
}

func generateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate <grammar>",
		Short: "Generate a GLSP extension from a grammar",
		Long: `Generate parses a Langium grammar (or a JSON grammar model), derives
the diagram model and renders the common, server and browser packages.

The grammar may be a local file, an http(s) URL, or with --repo a path
inside a git repository that is cloned shallowly.

Flags override the matching keys of the configuration file. Without
--output the files are printed to stdout as a txtar archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "configuration file (.json, .cue, .yaml or .hcl)")
	f.StringVarP(&opts.output, "output", "o", "", "output directory (default: txtar archive on stdout)")
	f.StringVar(&opts.templateDir, "templates", "", "directory of templates overriding the built-in ones")
	f.StringVarP(&opts.project, "project", "p", "", "project name (default: derived from the grammar name)")
	f.StringSliceVarP(&opts.targets, "target", "t", nil, "strategy categories to render: common, server, browser (default: all)")
	f.StringSliceVar(&opts.features, "feature", nil, "diagram features to enable (e.g. ports, validation)")
	f.BoolVar(&opts.failFast, "fail-fast", false, "treat any template render failure as fatal")
	f.BoolVar(&opts.docs, "docs", false, "generate documentation")
	f.BoolVar(&opts.examples, "examples", false, "generate example models")
	f.BoolVar(&opts.tests, "tests", false, "generate test scaffolding")
	f.BoolVar(&opts.isolate, "continue-on-plugin-error", false, "log plugin failures instead of failing the run")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print a txtar archive to stdout without writing files")
	f.BoolVar(&opts.metrics, "metrics", false, "record and log generation metrics")
	f.StringVar(&opts.historyDB, "history", "", "SQLite database recording completed runs")
	f.StringVar(&opts.repo, "repo", "", "git repository containing the grammar")
	f.StringVar(&opts.ref, "ref", "", "git reference (tag or branch) to clone with --repo")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "list every generated file")
	return cmd
}

func runGenerate(cmd *cobra.Command, grammarPath string, opts generateOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	loader, err := templates.New(cfg.Generation.TemplateDir)
	if err != nil {
		return err
	}

	plugins := plugin.NewRegistry(plugin.NewDocs())
	if opts.metrics {
		if err := plugins.Register(plugin.NewMetrics()); err != nil {
			return err
		}
	}
	if opts.historyDB != "" {
		store, err := history.Open(opts.historyDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := plugins.Register(history.New(store)); err != nil {
			return err
		}
	}

	var writer orchestrator.Writer = output.NewDir(opts.output)
	if opts.dryRun || opts.output == "" {
		writer = output.NewArchive(cmd.OutOrStdout())
	}

	req := orchestrator.Request{
		GrammarPath: grammarPath,
		Config:      cfg,
		Writer:      writer,
	}
	if opts.repo != "" || fetch.IsURL(grammarPath) {
		fopts := fetch.Options{Repo: opts.repo, Ref: opts.ref, Path: grammarPath}
		if opts.repo == "" {
			fopts = fetch.Options{URL: grammarPath}
		}
		res, err := fetch.Fetch(ctx, fopts)
		if err != nil {
			return fmt.Errorf("fetch grammar: %w", err)
		}
		ctxlog.FromContext(ctx).Info("fetched grammar", "source", res.Source, "commit", res.CommitHash)
		req.Grammar = res.Grammar
	}

	o := orchestrator.New(orchestrator.DefaultStrategies(), loader, orchestrator.WithPlugins(plugins))
	report := o.Generate(ctx, req)

	printReport(cmd.ErrOrStderr(), report, opts.verbose)
	if report.Failed() {
		return errors.New("generation failed")
	}
	return nil
}

// loadConfig reads the configuration file and applies the flags the
// user set on top of it.
func loadConfig(cmd *cobra.Command, opts generateOptions) (*config.Config, error) {
	values := map[string]any{}
	if opts.config != "" {
		cfg, err := config.Load(opts.config)
		if err != nil {
			return nil, err
		}
		values = cfg.Values
	}

	changed := cmd.Flags().Changed
	overrides := []struct {
		flag string
		path string
		val  any
	}{
		{"project", "projectName", opts.project},
		{"templates", "generation.templateDir", opts.templateDir},
		{"target", "generation.targets", opts.targets},
		{"feature", "diagram.features", opts.features},
		{"fail-fast", "generation.failFast", opts.failFast},
		{"docs", "generation.generateDocs", opts.docs},
		{"examples", "generation.includeExamples", opts.examples},
		{"tests", "generation.generateTests", opts.tests},
		{"continue-on-plugin-error", "generation.continueOnPluginError", opts.isolate},
	}
	for _, o := range overrides {
		if !changed(o.flag) {
			continue
		}
		if err := setPath(values, o.path, o.val); err != nil {
			return nil, fmt.Errorf("--%s: %w", o.flag, err)
		}
	}
	return config.FromMap(values)
}

// setPath sets a dotted key, creating intermediate sections.
func setPath(values map[string]any, path string, v any) error {
	parts := strings.Split(path, ".")
	cur := values
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p]
		if !ok || next == nil {
			m := map[string]any{}
			cur[p] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %s is not a section", p)
		}
		cur = m
	}
	cur[parts[len(parts)-1]] = v
	return nil
}
