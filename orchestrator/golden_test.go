// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/langium"
	"github.com/albertocavalcante/glspgen/internal/templates"
	"github.com/albertocavalcante/glspgen/internal/testutil"
)

var update = flag.Bool("update", false, "update golden files")

// TestGolden runs txtar-based generation tests against the built-in
// strategies and templates. Flags name the targets to render.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no txtar files found in testdata/")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatalf("parse txtar: %v", err)
			}
			tc, err := testutil.ParseCase(name, ar)
			if err != nil {
				t.Fatalf("parse case: %v", err)
			}

			if *update {
				got, err := runGolden(tc.Input, tc.Config, tc.Flags)
				if err != nil {
					t.Fatalf("generate: %v", err)
				}
				content := testutil.FormatArchive(testutil.UpdateArchive(ar, got, tc.Subset))
				if err := os.WriteFile(file, content, 0o644); err != nil {
					t.Fatalf("write updated file: %v", err)
				}
				t.Logf("updated %s", file)
				return
			}

			tc.Run(t, runGolden)
		})
	}
}

func runGolden(input, cfgData []byte, targets []string) (map[string][]byte, error) {
	g, err := langium.ParseString(string(input))
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	if cfgData != nil {
		if cfg, err = config.Parse("config.json", cfgData); err != nil {
			return nil, err
		}
	}
	if len(targets) > 0 {
		cfg.Generation.Targets = targets
	}

	o := New(DefaultStrategies(), templates.Embedded())
	report := o.Generate(context.Background(), Request{Grammar: g, Config: cfg})
	if err := report.Err(); err != nil {
		return nil, err
	}
	got := make(map[string][]byte, len(report.Files))
	for _, f := range report.Files {
		got[f.Path] = f.Content
	}
	return got, nil
}
