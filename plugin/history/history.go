// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package history records completed generation runs in a SQLite
// database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/albertocavalcante/glspgen/plugin"
)

const schema = `CREATE TABLE IF NOT EXISTS runs(
	run_id      TEXT PRIMARY KEY,
	project     TEXT NOT NULL,
	project_id  TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	files       INTEGER NOT NULL,
	strategies  TEXT NOT NULL
)`

// Run is one recorded generation run.
type Run struct {
	RunID     string
	Project   string
	ProjectID string
	StartedAt time.Time
	Duration  time.Duration
	Files     int

	// Strategies lists the strategies that emitted files, in order.
	Strategies []string
}

// Store is a run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps
	// in-memory databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run. Recording the same run ID twice replaces it.
func (s *Store) Record(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs(run_id, project, project_id, started_at, duration_ms, files, strategies)
		VALUES(?,?,?,?,?,?,?)`,
		r.RunID, r.Project, r.ProjectID, r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.Duration.Milliseconds(), r.Files, strings.Join(r.Strategies, ","))
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.RunID, err)
	}
	return nil
}

// List returns up to limit runs, most recent first. A limit of zero or
// less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, project, project_id, started_at, duration_ms, files, strategies
		FROM runs ORDER BY started_at DESC, run_id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  string
			durationMS int64
			strategies string
		)
		if err := rows.Scan(&r.RunID, &r.Project, &r.ProjectID, &startedAt, &durationMS, &r.Files, &strategies); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("run %s: started_at: %w", r.RunID, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if strategies != "" {
			r.Strategies = strings.Split(strategies, ",")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Plugin records every run that reaches AfterGenerate.
type Plugin struct {
	store *Store

	// Clock defaults to time.Now.
	Clock func() time.Time
}

const startedKey = "history.startedAt"

// New creates the history plugin writing to store.
func New(store *Store) *Plugin {
	return &Plugin{store: store, Clock: time.Now}
}

// Info implements plugin.Plugin.
func (p *Plugin) Info() plugin.Info {
	return plugin.Info{Name: "history", Version: "1.0.0"}
}

// Validate implements plugin.Validator.
func (p *Plugin) Validate() error {
	if p.store == nil {
		return errors.New("no history store")
	}
	return nil
}

// Hooks implements plugin.Plugin.
func (p *Plugin) Hooks() plugin.Hooks {
	return plugin.Hooks{
		BeforeGenerate: func(_ context.Context, pc *plugin.Context) error {
			pc.Metadata[startedKey] = p.Clock()
			return nil
		},
		AfterGenerate: func(ctx context.Context, pc *plugin.Context) error {
			started, _ := pc.Metadata[startedKey].(time.Time)
			run := Run{
				RunID:     pc.RunID,
				StartedAt: started,
				Duration:  p.Clock().Sub(started),
				Files:     len(pc.Files),
			}
			if pc.Template != nil {
				run.Project = pc.Template.ProjectName
				run.ProjectID = pc.Template.Metadata.ProjectID
			}
			for _, f := range pc.Files {
				if f.Strategy != "" && !slices.Contains(run.Strategies, f.Strategy) {
					run.Strategies = append(run.Strategies, f.Strategy)
				}
			}
			return p.store.Record(ctx, run)
		},
	}
}
