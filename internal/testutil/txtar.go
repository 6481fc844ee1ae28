// SPDX-License-Identifier: MIT

// Package testutil provides golden-file testing utilities for glspgen.
package testutil

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// Case represents a parsed test case from a txtar archive.
type Case struct {
	// Name is the test case name (typically the filename without extension).
	Name string

	// Description is the first comment block before any files.
	Description string

	// Flags contains any flags parsed from a "Flags: ..." line in the description.
	Flags []string

	// Subset is set by a "Match: subset" line. Generated files without a
	// want/ entry are then ignored instead of reported.
	Subset bool

	// Input is the contents of "input.langium".
	Input []byte

	// Config is the contents of the optional "config.json".
	Config []byte

	// Want maps output paths (e.g., "common/src/types.ts") to expected content.
	Want map[string][]byte
}

// ParseCase parses a txtar archive into a test Case.
// The archive should contain:
//   - A description comment (text before first file)
//   - An "input.langium" file with the grammar
//   - An optional "config.json" with generator configuration
//   - One or more "want/<path>" files with expected output
func ParseCase(name string, ar *txtar.Archive) (*Case, error) {
	c := &Case{
		Name:        name,
		Description: string(ar.Comment),
		Want:        make(map[string][]byte),
	}
	c.parseDirectives()

	for _, f := range ar.Files {
		switch {
		case f.Name == "input.langium":
			c.Input = f.Data
		case f.Name == "config.json":
			c.Config = f.Data
		case strings.HasPrefix(f.Name, "want/"):
			c.Want[strings.TrimPrefix(f.Name, "want/")] = f.Data
		default:
			return nil, fmt.Errorf("unexpected file in archive: %q (expected input.langium, config.json or want/*)", f.Name)
		}
	}

	if c.Input == nil {
		return nil, fmt.Errorf("missing input.langium in archive")
	}
	if len(c.Want) == 0 {
		return nil, fmt.Errorf("missing want/* files in archive")
	}
	return c, nil
}

// parseDirectives reads the "Flags:" and "Match:" lines of the description.
func (c *Case) parseDirectives() {
	for _, line := range strings.Split(c.Description, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Flags:"):
			for _, f := range strings.Split(strings.TrimPrefix(line, "Flags:"), ",") {
				if f = strings.TrimSpace(f); f != "" {
					c.Flags = append(c.Flags, f)
				}
			}
		case strings.HasPrefix(line, "Match:"):
			c.Subset = strings.TrimSpace(strings.TrimPrefix(line, "Match:")) == "subset"
		}
	}
}

// GenerateFunc generates output from a grammar and an optional
// configuration. It returns a map of output path to content.
type GenerateFunc func(input, config []byte, flags []string) (map[string][]byte, error)

// Run executes the test case using the provided generate function.
// It compares generated output against expected output and reports differences.
func (c *Case) Run(t *testing.T, generate GenerateFunc) {
	t.Helper()

	got, err := generate(c.Input, c.Config, c.Flags)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	Compare(t, c.Want, got, c.Subset)
}

// Compare reports missing, unexpected (unless subset) and mismatched files.
func Compare(t *testing.T, want, got map[string][]byte, subset bool) {
	t.Helper()

	for wantFile := range want {
		if _, ok := got[wantFile]; !ok {
			t.Errorf("missing output file: %q", wantFile)
		}
	}

	if !subset {
		for gotFile := range got {
			if _, ok := want[gotFile]; !ok {
				t.Errorf("unexpected output file: %q", gotFile)
			}
		}
	}

	for wantFile, wantContent := range want {
		gotContent, ok := got[wantFile]
		if !ok {
			continue // Already reported as missing
		}
		if diff := cmp.Diff(normalizeContent(wantContent), normalizeContent(gotContent)); diff != "" {
			t.Errorf("file %q mismatch (-want +got):\n%s", wantFile, diff)
		}
	}
}

// normalizeContent normalizes content for comparison:
// - Trims trailing whitespace from each line
// - Ensures consistent line endings
// - Trims trailing newlines
func normalizeContent(content []byte) string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// UpdateArchive updates a txtar archive with new generated content.
// Used for golden file updates with -update flag. In subset cases only
// the paths already present under want/ are rewritten.
func UpdateArchive(ar *txtar.Archive, got map[string][]byte, subset bool) *txtar.Archive {
	result := &txtar.Archive{Comment: ar.Comment}

	existing := make(map[string]bool)
	for _, f := range ar.Files {
		switch {
		case f.Name == "input.langium", f.Name == "config.json":
			result.Files = append(result.Files, f)
		case strings.HasPrefix(f.Name, "want/"):
			existing[strings.TrimPrefix(f.Name, "want/")] = true
		}
	}

	var wantFiles []string
	for name := range got {
		if subset && !existing[name] {
			continue
		}
		wantFiles = append(wantFiles, name)
	}
	sort.Strings(wantFiles)

	for _, name := range wantFiles {
		content := got[name]
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		result.Files = append(result.Files, txtar.File{
			Name: "want/" + name,
			Data: content,
		})
	}
	return result
}

// FormatArchive formats an archive to bytes.
func FormatArchive(ar *txtar.Archive) []byte {
	return txtar.Format(ar)
}

// LoadTestCases loads all txtar test cases from a directory.
func LoadTestCases(t *testing.T, dir string) []*Case {
	t.Helper()

	pattern := filepath.Join(dir, "*.txtar")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %q: %v", pattern, err)
	}
	if len(files) == 0 {
		t.Fatalf("no txtar files found in %q", dir)
	}

	var cases []*Case
	for _, file := range files {
		ar, err := txtar.ParseFile(file)
		if err != nil {
			t.Fatalf("parse %q: %v", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		c, err := ParseCase(name, ar)
		if err != nil {
			t.Fatalf("parse case %q: %v", name, err)
		}
		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})
	return cases
}

// StripHeader removes the leading "// Generated by" comment block so tests
// can compare only the meaningful code.
func StripHeader(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	i := 0
	for i < len(lines) && (bytes.HasPrefix(lines[i], []byte("//")) || len(lines[i]) == 0) {
		i++
	}
	return bytes.Join(lines[i:], []byte("\n"))
}
