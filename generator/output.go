// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"path"
	"strings"
)

// EncodingUTF8 is the only encoding templates produce.
const EncodingUTF8 = "utf-8"

// File is one generated file. Files are never mutated once added to an
// Output.
type File struct {
	// Path is relative to the output root and always slash-separated.
	Path     string
	Content  []byte
	Encoding string

	// Strategy and Template record where the file came from. Both are
	// empty for files contributed by plugins.
	Strategy string
	Template string
}

// Output is an ordered set of generated files with unique paths.
type Output struct {
	files []*File
	index map[string]int
}

// NewOutput creates a new Output.
func NewOutput() *Output {
	return &Output{index: make(map[string]int)}
}

// Add appends a file. A path already present is a conflict and leaves
// the output unchanged.
func (o *Output) Add(f *File) error {
	if i, exists := o.index[f.Path]; exists {
		return &OutputConflictError{Path: f.Path, First: origin(o.files[i]), Second: origin(f)}
	}
	o.index[f.Path] = len(o.files)
	o.files = append(o.files, f)
	return nil
}

// Merge adds every file, collecting every conflict.
func (o *Output) Merge(files []*File) []error {
	var errs []error
	for _, f := range files {
		if err := o.Add(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Files returns the files in insertion order.
func (o *Output) Files() []*File {
	return o.files
}

// Get returns the file at path.
func (o *Output) Get(p string) (*File, bool) {
	i, ok := o.index[p]
	if !ok {
		return nil, false
	}
	return o.files[i], true
}

// Paths returns every path in insertion order.
func (o *Output) Paths() []string {
	paths := make([]string, len(o.files))
	for i, f := range o.files {
		paths[i] = f.Path
	}
	return paths
}

// Len returns the number of files.
func (o *Output) Len() int {
	return len(o.files)
}

func origin(f *File) string {
	switch {
	case f.Strategy == "" && f.Template == "":
		return "plugin"
	case f.Template == "":
		return f.Strategy
	default:
		return f.Strategy + ":" + f.Template
	}
}

// CleanPath normalizes a relative output path. It rejects empty and
// absolute paths and paths that climb above their root.
func CleanPath(rel string) (string, bool) {
	if rel == "" || strings.HasPrefix(rel, "/") {
		return "", false
	}
	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// namespaced joins a strategy namespace and a relative path, rejecting
// paths that would escape the namespace.
func namespaced(namespace, rel string) (string, bool) {
	clean, ok := CleanPath(rel)
	if !ok {
		return "", false
	}
	return namespace + "/" + clean, true
}
