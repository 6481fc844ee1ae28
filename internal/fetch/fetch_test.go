// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const workflowGrammar = `grammar Workflow

interface Task {
    name: string
}

interface Flow {
    source: @Task
    target: @Task
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIsHex(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"0123456789abcdef", true},
		{"0123456789ABCDEF", true},
		{"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2", true},
		{"abcdefg", false},
		{"abc def", false},
		{"gabc123", false},
	}

	for _, tt := range tests {
		if got := isHex(tt.input); got != tt.want {
			t.Errorf("isHex(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFetchFromFile(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		content    string
		wantErr    bool
		wantName   string
		wantIfaces int
	}{
		{
			name:       "langium grammar",
			file:       "workflow.langium",
			content:    workflowGrammar,
			wantName:   "Workflow",
			wantIfaces: 2,
		},
		{
			name:       "json grammar model",
			file:       "model.json",
			content:    `{"name": "Shapes", "interfaces": [{"name": "Circle"}]}`,
			wantName:   "Shapes",
			wantIfaces: 1,
		},
		{
			name:    "invalid json",
			file:    "invalid.json",
			content: `{invalid json}`,
			wantErr: true,
		},
		{
			name:    "syntax error",
			file:    "broken.langium",
			content: "interface {",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			result, err := fetchFromFile(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("fetchFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if !strings.HasPrefix(result.Source, "file://") {
				t.Errorf("source = %q, want prefix file://", result.Source)
			}
			if result.Grammar.Name != tt.wantName {
				t.Errorf("name = %q, want %q", result.Grammar.Name, tt.wantName)
			}
			if len(result.Grammar.Interfaces) != tt.wantIfaces {
				t.Errorf("interfaces = %d, want %d", len(result.Grammar.Interfaces), tt.wantIfaces)
			}
			if result.CommitHash != "" || result.Ref != "" {
				t.Errorf("file source carries git metadata: %+v", result)
			}
		})
	}

	t.Run("non-existent file", func(t *testing.T) {
		if _, err := fetchFromFile(filepath.Join(t.TempDir(), "missing.langium")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestGetGitHash(t *testing.T) {
	const hash = "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"

	tests := []struct {
		name     string
		files    map[string]string // relative to .git
		wantHash string
	}{
		{
			name:     "detached HEAD with direct hash",
			files:    map[string]string{"HEAD": hash + "\n"},
			wantHash: hash,
		},
		{
			name: "HEAD references branch",
			files: map[string]string{
				"HEAD":            "ref: refs/heads/main\n",
				"refs/heads/main": hash + "\n",
			},
			wantHash: hash,
		},
		{
			name:  "HEAD references non-existent branch",
			files: map[string]string{"HEAD": "ref: refs/heads/nonexistent\n"},
		},
		{
			name: "no .git directory",
		},
		{
			name:  "HEAD with non-hex content same length as hash",
			files: map[string]string{"HEAD": strings.Repeat("g", 40) + "\n"},
		},
		{
			name: "ref file with extra content",
			files: map[string]string{
				"HEAD":            "ref: refs/heads/main\n",
				"refs/heads/main": hash + " extra stuff\n",
			},
			wantHash: hash,
		},
		{
			name: "short hash in ref file",
			files: map[string]string{
				"HEAD":            "ref: refs/heads/main\n",
				"refs/heads/main": "abc123\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, filepath.Join(dir, ".git", filepath.FromSlash(name)), content)
			}
			if got := getGitHash(dir); got != tt.wantHash {
				t.Errorf("getGitHash() = %q, want %q", got, tt.wantHash)
			}
		})
	}
}

func TestFetchFromRepo(t *testing.T) {
	const hash = "d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5"

	t.Run("grammar with commit", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "src", "language", "workflow.langium"), workflowGrammar)
		writeFile(t, filepath.Join(dir, ".git", "HEAD"), hash+"\n")

		result, err := fetchFromRepo(dir, "src/language/workflow.langium", "v1.0.0")
		if err != nil {
			t.Fatalf("fetchFromRepo() error = %v", err)
		}
		if result.Grammar.Name != "Workflow" {
			t.Errorf("name = %q, want Workflow", result.Grammar.Name)
		}
		if result.Ref != "v1.0.0" {
			t.Errorf("ref = %q, want v1.0.0", result.Ref)
		}
		if result.CommitHash != hash {
			t.Errorf("commitHash = %q, want %q", result.CommitHash, hash)
		}
		if result.Source != "repo://"+dir {
			t.Errorf("source = %q, want repo://%s", result.Source, dir)
		}
	})

	t.Run("missing grammar", func(t *testing.T) {
		if _, err := fetchFromRepo(t.TempDir(), "workflow.langium", ""); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("without .git directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "workflow.langium"), workflowGrammar)

		result, err := fetchFromRepo(dir, "workflow.langium", "")
		if err != nil {
			t.Fatalf("fetchFromRepo() error = %v", err)
		}
		if result.CommitHash != "" {
			t.Errorf("expected empty commitHash without .git, got %q", result.CommitHash)
		}
	})
}

func TestFetchFromURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/workflow.langium", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(workflowGrammar))
	})
	mux.HandleFunc("/model.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Shapes", "interfaces": [{"name": "Circle"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tests := []struct {
		name     string
		path     string
		wantErr  bool
		wantName string
	}{
		{name: "langium", path: "/workflow.langium", wantName: "Workflow"},
		{name: "json with query", path: "/model.json?raw=true", wantName: "Shapes"},
		{name: "not found", path: "/missing.langium", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Fetch(context.Background(), Options{URL: srv.URL + tt.path, Client: srv.Client()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Grammar.Name != tt.wantName {
				t.Errorf("name = %q, want %q", result.Grammar.Name, tt.wantName)
			}
			if result.Source != srv.URL+tt.path {
				t.Errorf("source = %q, want %q", result.Source, srv.URL+tt.path)
			}
		})
	}
}

func TestFetch_Priority(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local.langium")
	writeFile(t, local, "grammar Local\n")

	// LocalPath wins even when a URL is set.
	result, err := Fetch(context.Background(), Options{LocalPath: local, URL: "http://127.0.0.1:0/unused"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if result.Grammar.Name != "Local" {
		t.Errorf("name = %q, want Local", result.Grammar.Name)
	}
}

func TestFetch_NoSource(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "empty", opts: Options{}},
		{name: "path without repository", opts: Options{Path: "workflow.langium"}},
		{name: "repository without path", opts: Options{Repo: "https://example.com/repo.git"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Fetch(context.Background(), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	for s, want := range map[string]bool{
		"https://example.com/g.langium": true,
		"http://localhost/g.langium":    true,
		"grammar.langium":               false,
		"file:///tmp/g.langium":         false,
	} {
		if got := IsURL(s); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", s, got, want)
		}
	}
}
