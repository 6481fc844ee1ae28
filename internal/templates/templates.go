// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package templates loads template sources. The built-in templates are
// embedded in the binary; an override directory, when given, shadows
// them file by file.
//
// Template names are slash-separated and extensionless
// ("server/model-factory"); the file on disk is "<name>.tmpl".
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Ext is the template file extension.
const Ext = ".tmpl"

//go:embed files
var embedded embed.FS

// Loader resolves template names against a stack of file systems.
type Loader struct {
	id     string
	layers []fs.FS
}

// Embedded returns a loader over the built-in templates only.
func Embedded() *Loader {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err) // the embed directive guarantees the directory
	}
	return &Loader{id: "embedded", layers: []fs.FS{sub}}
}

// New returns a loader that prefers templates in dir over the built-in
// ones. An empty dir is the same as Embedded.
func New(dir string) (*Loader, error) {
	l := Embedded()
	if dir == "" {
		return l, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template dir %s is not a directory", abs)
	}
	l.id = "dir:" + abs
	l.layers = append([]fs.FS{os.DirFS(abs)}, l.layers...)
	return l, nil
}

// FromFS returns a loader over a single file system, without the
// built-in templates.
func FromFS(id string, fsys fs.FS) *Loader {
	return &Loader{id: id, layers: []fs.FS{fsys}}
}

// ID identifies the loader in cache keys.
func (l *Loader) ID() string { return l.id }

// Load returns the source of a template.
func (l *Loader) Load(name string) (string, error) {
	for _, fsys := range l.layers {
		data, err := fs.ReadFile(fsys, name+Ext)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("load template %s: %w", name, err)
		}
	}
	return "", fmt.Errorf("load template %s: %w", name, fs.ErrNotExist)
}

// Exists reports whether any layer has the template.
func (l *Loader) Exists(name string) bool {
	_, err := l.stat(name)
	return err == nil
}

// ModTime returns the modification time of the template in the first
// layer holding it. Embedded templates report the zero time.
func (l *Loader) ModTime(name string) (time.Time, error) {
	info, err := l.stat(name)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// List returns the sorted names of all templates in category, or every
// template when category is empty.
func (l *Loader) List(category string) ([]string, error) {
	seen := make(map[string]bool)
	for _, fsys := range l.layers {
		root := "."
		if category != "" {
			root = category
		}
		err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && p == root {
					return fs.SkipAll
				}
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, Ext) {
				seen[strings.TrimSuffix(p, Ext)] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list templates: %w", err)
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}

// Partials loads every template in the "partials" category, keyed by
// base name.
func (l *Loader) Partials() (map[string]string, error) {
	names, err := l.List("partials")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(names))
	for _, n := range names {
		text, err := l.Load(n)
		if err != nil {
			return nil, err
		}
		out[path.Base(n)] = text
	}
	return out, nil
}

func (l *Loader) stat(name string) (fs.FileInfo, error) {
	for _, fsys := range l.layers {
		info, err := fs.Stat(fsys, name+Ext)
		if err == nil && !info.IsDir() {
			return info, nil
		}
	}
	return nil, fmt.Errorf("template %s: %w", name, fs.ErrNotExist)
}
