// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package output persists generated files.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/tools/txtar"

	"github.com/albertocavalcante/glspgen/generator"
	"github.com/albertocavalcante/glspgen/internal/ctxlog"
)

// Dir writes files below a root directory, creating parent directories
// as needed. Each file is written to a temporary sibling and renamed
// into place, so readers never observe a partial file. The set of files
// as a whole is not written atomically.
type Dir struct {
	Root string
}

// NewDir returns a writer rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Write implements orchestrator.Writer.
func (d *Dir) Write(ctx context.Context, files []*generator.File) error {
	log := ctxlog.FromContext(ctx)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, ok := generator.CleanPath(f.Path)
		if !ok {
			return fmt.Errorf("write %s: invalid output path", f.Path)
		}
		dst := filepath.Join(d.Root, filepath.FromSlash(rel))
		if err := writeFile(dst, f.Content); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		log.Debug("wrote file", "path", dst, "bytes", len(f.Content))
	}
	return nil
}

func writeFile(dst string, content []byte) (err error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// Archive writes all files as one txtar archive, in emission order.
type Archive struct {
	W io.Writer

	// Comment is written before the first file.
	Comment string
}

// NewArchive returns a writer emitting a txtar archive to w.
func NewArchive(w io.Writer) *Archive {
	return &Archive{W: w}
}

// Write implements orchestrator.Writer.
func (a *Archive) Write(_ context.Context, files []*generator.File) error {
	_, err := a.W.Write(Format(a.Comment, files))
	return err
}

// Format renders files as a txtar archive.
func Format(comment string, files []*generator.File) []byte {
	ar := &txtar.Archive{Comment: []byte(comment)}
	for _, f := range files {
		ar.Files = append(ar.Files, txtar.File{Name: f.Path, Data: f.Content})
	}
	return txtar.Format(ar)
}

// Parse reads a txtar archive back into files, as written by Format.
func Parse(data []byte) (comment string, files []*generator.File) {
	ar := txtar.Parse(data)
	for _, f := range ar.Files {
		files = append(files, &generator.File{Path: f.Name, Content: f.Data, Encoding: generator.EncodingUTF8})
	}
	return string(ar.Comment), files
}
