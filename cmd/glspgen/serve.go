// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/glspgen/internal/ctxlog"
	"github.com/albertocavalcante/glspgen/internal/server"
	"github.com/albertocavalcante/glspgen/internal/templates"
	"github.com/albertocavalcante/glspgen/internal/tmplcache"
	"github.com/albertocavalcante/glspgen/orchestrator"
	"github.com/albertocavalcante/glspgen/plugin"
	"github.com/albertocavalcante/glspgen/plugin/history"
)

func serveCmd() *cobra.Command {
	var (
		addr        string
		templateDir string
		historyDB   string
		cacheTTL    time.Duration
		cacheSize   int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve runs an HTTP server exposing /v1/generate, /v1/validate,
/v1/templates and the template cache. Compiled templates are shared
across requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			log := ctxlog.FromContext(ctx)

			loader, err := templates.New(templateDir)
			if err != nil {
				return err
			}
			cache := tmplcache.New(tmplcache.Options{
				TTL:        cacheTTL,
				MaxEntries: cacheSize,
			})

			plugins := plugin.NewRegistry(plugin.NewDocs(), plugin.NewMetrics())
			var opts []server.Option
			if historyDB != "" {
				store, err := history.Open(historyDB)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := plugins.Register(history.New(store)); err != nil {
					return err
				}
				opts = append(opts, server.WithHistory(store))
			}

			o := orchestrator.New(orchestrator.DefaultStrategies(), loader,
				orchestrator.WithPlugins(plugins),
				orchestrator.WithCache(cache),
			)
			opts = append(opts, server.WithLogger(log))
			return server.Run(ctx, addr, server.New(o, opts...).Routes())
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&templateDir, "templates", "", "directory of templates overriding the built-in ones")
	f.StringVar(&historyDB, "history", "", "SQLite database recording completed runs")
	f.DurationVar(&cacheTTL, "cache-ttl", 0, "expire compiled templates after this age (0 = never)")
	f.IntVar(&cacheSize, "cache-size", 256, "maximum number of compiled templates kept")
	return cmd
}

func historyCmd() *cobra.Command {
	var (
		db    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := history.Open(db)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tPROJECT\tSTARTED\tDURATION\tFILES\tSTRATEGIES")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%v\n",
					r.RunID, r.Project, r.StartedAt.Local().Format(time.DateTime), r.Duration, r.Files, r.Strategies)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&db, "db", "glspgen-history.db", "history database")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list (0 = all)")
	return cmd
}
