// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package fetch retrieves a grammar from a local file, an existing
// repository clone, a git remote or a URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/langium"
)

// maxGrammarSize bounds grammars downloaded over HTTP.
const maxGrammarSize = 8 << 20

// Options configures where to fetch the grammar from.
type Options struct {
	// LocalPath is a grammar file on disk. It takes precedence over every
	// other source.
	LocalPath string

	// URL is fetched with an HTTP GET.
	URL string

	// Path is the grammar file within the repository (RepoDir or Repo).
	Path string

	// RepoDir is an existing clone containing Path.
	RepoDir string

	// Repo is a git remote cloned shallowly to read Path.
	Repo string

	// Ref is the git reference (tag or branch) to clone.
	// If empty, the remote's default branch is used.
	Ref string

	// Timeout for network operations.
	Timeout time.Duration

	// Client performs URL fetches. Defaults to http.DefaultClient.
	Client *http.Client
}

// Result contains the fetched grammar and metadata.
type Result struct {
	// Grammar is the parsed grammar.
	Grammar *grammar.Grammar

	// Ref is the git reference that was used.
	Ref string

	// CommitHash is the git commit hash (if fetched from git).
	CommitHash string

	// Source describes where the grammar was loaded from.
	Source string
}

// Fetch retrieves and parses a grammar.
func Fetch(ctx context.Context, opts Options) (*Result, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}

	// Priority: LocalPath > URL > RepoDir > Repo
	switch {
	case opts.LocalPath != "":
		return fetchFromFile(opts.LocalPath)
	case opts.URL != "":
		return fetchFromURL(ctx, opts)
	case opts.Path == "":
		return nil, fmt.Errorf("no grammar source: set a local path, a URL or a repository path")
	case opts.RepoDir != "":
		return fetchFromRepo(opts.RepoDir, opts.Path, opts.Ref)
	case opts.Repo != "":
		return fetchFromGit(ctx, opts)
	default:
		return nil, fmt.Errorf("grammar path %q given without a repository", opts.Path)
	}
}

// IsURL reports whether s names an HTTP(S) resource.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

func fetchFromFile(path string) (*Result, error) {
	g, err := langium.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &Result{
		Grammar: g,
		Source:  fmt.Sprintf("file://%s", path),
	}, nil
}

func fetchFromRepo(repoDir, file, ref string) (*Result, error) {
	g, err := langium.ParseFile(filepath.Join(repoDir, filepath.FromSlash(file)))
	if err != nil {
		return nil, fmt.Errorf("read from repo: %w", err)
	}
	return &Result{
		Grammar:    g,
		Ref:        ref,
		CommitHash: getGitHash(repoDir),
		Source:     fmt.Sprintf("repo://%s", repoDir),
	}, nil
}

// fetchFromGit clones the repository and reads the grammar.
func fetchFromGit(ctx context.Context, opts Options) (*Result, error) {
	tmpDir, err := os.MkdirTemp("", "glspgen-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cloneCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	// Shallow, sparse clone of the directory holding the grammar only.
	args := []string{"clone", "--quiet", "--depth=1", "--filter=blob:none", "--sparse", "--single-branch"}
	if opts.Ref != "" {
		args = append(args, "--branch="+opts.Ref)
	}
	args = append(args, opts.Repo, tmpDir)
	cmd := exec.CommandContext(cloneCtx, "git", args...)
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git clone: %w", err)
	}

	if dir := path.Dir(opts.Path); dir != "." {
		cmd = exec.CommandContext(cloneCtx, "git", "-C", tmpDir, "sparse-checkout", "set", dir)
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("sparse checkout: %w", err)
		}
	}

	res, err := fetchFromRepo(tmpDir, opts.Path, opts.Ref)
	if err != nil {
		return nil, err
	}
	res.Grammar.Source = opts.Path
	res.Source = opts.Repo + "@" + opts.Ref
	if opts.Ref == "" {
		res.Source = opts.Repo
	}
	return res, nil
}

func fetchFromURL(ctx context.Context, opts Options) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, err
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxGrammarSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxGrammarSize {
		return nil, fmt.Errorf("grammar at %s exceeds %d bytes", opts.URL, maxGrammarSize)
	}

	// Name the grammar after the URL path so a .json suffix still selects
	// the JSON decoder.
	name := opts.URL
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	g, err := langium.ParseBytes(name, data)
	if err != nil {
		return nil, err
	}
	return &Result{Grammar: g, Source: opts.URL}, nil
}

// getGitHash returns the current commit hash for a repository.
func getGitHash(repoDir string) string {
	headPath := filepath.Join(repoDir, ".git", "HEAD")
	data, err := os.ReadFile(headPath)
	if err != nil {
		return ""
	}

	content := strings.TrimSpace(string(data))

	// Direct hash (detached HEAD)
	if len(content) == 40 && isHex(content) {
		return content
	}

	// Reference (e.g., "ref: refs/heads/main")
	if strings.HasPrefix(content, "ref: ") {
		refPath := filepath.Join(repoDir, ".git", content[5:])
		data, err := os.ReadFile(refPath)
		if err != nil {
			return ""
		}
		hash := strings.TrimSpace(string(data))
		if len(hash) >= 40 {
			return hash[:40]
		}
	}

	return ""
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
