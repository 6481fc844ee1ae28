// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package codegen derives the render-ready template context from a
// parsed grammar and the generation configuration.
//
// Build is deterministic: the same grammar, configuration, clock and run
// ID always produce the same Context. Every list in the context follows
// the grammar's declaration order.
package codegen

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cast"

	"github.com/albertocavalcante/glspgen/grammar"
	"github.com/albertocavalcante/glspgen/internal/config"
	"github.com/albertocavalcante/glspgen/internal/naming"
)

// GeneratorName identifies this generator in metadata.
const GeneratorName = "glspgen"

// GeneratorVersion is stamped into metadata; set at build time.
var GeneratorVersion = "dev"

// DefaultProjectName is used when neither config nor grammar name a project.
const DefaultProjectName = "glsp-project"

// Context is the data passed into template rendering. It is built once
// per generation run and must not be mutated after Build returns, with
// the exception of Metadata.Extra which plugins share.
type Context struct {
	// ProjectName is never empty.
	ProjectName string

	// Grammar is the source grammar (read-only).
	Grammar *grammar.Grammar

	// Interfaces lists every interface in declaration order.
	Interfaces []*InterfaceInfo

	// Types lists every type alias in declaration order.
	Types []*TypeAliasInfo

	// NodeTypes and EdgeTypes partition Interfaces, each in declaration order.
	NodeTypes []*InterfaceInfo
	EdgeTypes []*InterfaceInfo

	// Hierarchy maps an interface to its transitive supertypes.
	Hierarchy map[string][]string

	// SubTypes maps an interface to the interfaces directly extending it,
	// in declaration order.
	SubTypes map[string][]string

	// Features is the set of enabled diagram capability flags.
	Features FeatureSet

	// Layout is the client layout hint.
	Layout string

	// Extension is the package metadata with defaults applied.
	Extension config.Extension

	// Generation holds the generation switches.
	Generation config.Generation

	// Config is the raw configuration, including unknown keys.
	Config map[string]any

	Metadata Metadata

	// Helpers are the template functions: built-ins plus caller overrides.
	Helpers template.FuncMap

	// Partials maps partial names to template text.
	Partials map[string]string
}

// Metadata describes the generation run.
type Metadata struct {
	GeneratedAt      time.Time
	Generator        string
	GeneratorVersion string
	RunID            string

	// ProjectID is a name-based UUID, stable for a given project name.
	ProjectID string

	// Extra is a free-form map shared with plugins.
	Extra map[string]any
}

// FeatureSet is a set of enabled capability flags.
type FeatureSet map[string]bool

// Has reports whether a feature is enabled.
func (f FeatureSet) Has(name string) bool {
	return f[name]
}

// Names returns the enabled features, sorted.
func (f FeatureSet) Names() []string {
	return slices.Sorted(maps.Keys(f))
}

// ElementKind classifies an interface as a diagram node or edge.
type ElementKind int

const (
	KindNode ElementKind = iota
	KindEdge
)

func (k ElementKind) String() string {
	if k == KindEdge {
		return "edge"
	}
	return "node"
}

// InterfaceInfo is the render-ready view of a grammar interface.
type InterfaceInfo struct {
	Name string
	Kind ElementKind

	// Index is the position in the grammar's interface list.
	Index int

	// TypeID is the GLSP model type ("node:task", "edge:transition").
	TypeID string

	// Properties are declared directly on the interface.
	Properties []*PropertyInfo

	// AllProperties include inherited ones.
	AllProperties []*PropertyInfo

	SuperTypes []string
	Ancestors  []string

	// Shape, Size and Ports are default visual properties (nodes only).
	Shape string
	Size  Size
	Ports []string

	// Source and Target are the endpoint properties (edges only).
	Source *PropertyInfo
	Target *PropertyInfo

	// Explicit is true when the classification came from configuration.
	Explicit bool
}

// IsNode reports whether the interface is node-like.
func (i *InterfaceInfo) IsNode() bool { return i.Kind == KindNode }

// IsEdge reports whether the interface is edge-like.
func (i *InterfaceInfo) IsEdge() bool { return i.Kind == KindEdge }

// References returns the properties that point at other interfaces.
func (i *InterfaceInfo) References() []*PropertyInfo {
	var refs []*PropertyInfo
	for _, p := range i.AllProperties {
		if p.IsReference {
			refs = append(refs, p)
		}
	}
	return refs
}

// Size is a default node size in pixels.
type Size struct {
	Width  int
	Height int
}

// PropertyInfo is the render-ready view of a property.
type PropertyInfo struct {
	Name string
	Type grammar.TypeRef

	// TSType is the TypeScript type, including "[]" for arrays.
	// References are modeled as string identifiers.
	TSType string

	Optional    bool
	Array       bool
	IsReference bool
	CrossRef    bool

	// Default is the TypeScript default value expression.
	Default string
}

// TypeAliasInfo is the render-ready view of a type alias.
type TypeAliasInfo struct {
	Name       string
	Definition string
	UnionTypes []string
	TSType     string
}

type buildOptions struct {
	helpers  template.FuncMap
	partials map[string]string
	now      func() time.Time
	runID    string
	extra    map[string]any
}

// Option customizes Build.
type Option func(*buildOptions)

// WithHelpers adds template helpers. A helper with the same name as a
// built-in replaces it.
func WithHelpers(h template.FuncMap) Option {
	return func(o *buildOptions) { o.helpers = h }
}

// WithPartials sets the partial templates available to every template.
func WithPartials(p map[string]string) Option {
	return func(o *buildOptions) { o.partials = p }
}

// WithClock sets the clock used for Metadata.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *buildOptions) { o.now = now }
}

// WithRunID sets the run identifier; by default a new ULID is used.
func WithRunID(id string) Option {
	return func(o *buildOptions) { o.runID = id }
}

// WithMetadata shares an existing metadata map (typically owned by the
// plugin hook context) as Metadata.Extra.
func WithMetadata(extra map[string]any) Option {
	return func(o *buildOptions) { o.extra = extra }
}

// Build derives a Context from a grammar and configuration.
//
// Empty grammars produce a valid, sparse context. Structural problems
// (dangling references, circular inheritance, conflicting explicit
// classification) fail the build; the returned error joins every
// *grammar.StructuralError found.
func Build(g *grammar.Grammar, cfg *config.Config, opts ...Option) (*Context, error) {
	if g == nil {
		return nil, errors.New("build context: nil grammar")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	o := buildOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if errs := grammar.Validate(g); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	kinds, errs := classify(g, cfg)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	ctx := &Context{
		ProjectName: projectName(g, cfg),
		Grammar:     g,
		Hierarchy:   make(map[string][]string),
		SubTypes:    make(map[string][]string),
		Features:    make(FeatureSet),
		Layout:      cfg.Diagram.Layout,
		Generation:  cfg.Generation,
		Config:      cfg.Values,
		Partials:    o.partials,
	}
	if ctx.Layout == "" {
		ctx.Layout = "free"
	}
	if ctx.Partials == nil {
		ctx.Partials = map[string]string{}
	}
	for _, f := range cfg.Diagram.Features {
		ctx.Features[f] = true
	}
	ctx.Extension = extensionDefaults(cfg.Extension, ctx.ProjectName)

	explicit := make(map[string]bool)
	for _, n := range cfg.Diagram.NodeTypes {
		explicit[n] = true
	}
	for _, n := range cfg.Diagram.EdgeTypes {
		explicit[n] = true
	}

	for idx, iface := range g.Interfaces {
		info := &InterfaceInfo{
			Name:       iface.Name,
			Kind:       kinds[iface.Name],
			Index:      idx,
			SuperTypes: slices.Clone(iface.SuperTypes),
			Ancestors:  g.Ancestors(iface.Name),
			Explicit:   explicit[iface.Name],
		}
		info.TypeID = info.Kind.String() + ":" + naming.ToKebabCase(iface.Name)
		for _, p := range iface.Properties {
			info.Properties = append(info.Properties, propertyInfo(g, p))
		}
		for _, p := range g.AllProperties(iface.Name) {
			info.AllProperties = append(info.AllProperties, propertyInfo(g, p))
		}
		ctx.Hierarchy[iface.Name] = info.Ancestors
		for _, sup := range iface.SuperTypes {
			ctx.SubTypes[sup] = append(ctx.SubTypes[sup], iface.Name)
		}

		ctx.Interfaces = append(ctx.Interfaces, info)
		if info.IsEdge() {
			info.Source, info.Target = endpoints(g, info)
			ctx.EdgeTypes = append(ctx.EdgeTypes, info)
		} else {
			ctx.NodeTypes = append(ctx.NodeTypes, info)
		}
	}

	for _, a := range g.Types {
		ctx.Types = append(ctx.Types, typeAliasInfo(g, a))
	}

	applyVisualDefaults(ctx, cfg)

	ctx.Helpers = BuiltinHelpers()
	maps.Copy(ctx.Helpers, o.helpers)

	ctx.Metadata = Metadata{
		GeneratedAt:      o.now().UTC(),
		Generator:        GeneratorName,
		GeneratorVersion: GeneratorVersion,
		RunID:            o.runID,
		ProjectID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(GeneratorName+":"+ctx.ProjectName)).String(),
		Extra:            o.extra,
	}
	if ctx.Metadata.RunID == "" {
		ctx.Metadata.RunID = ulid.Make().String()
	}
	if ctx.Metadata.Extra == nil {
		ctx.Metadata.Extra = make(map[string]any)
	}

	return ctx, nil
}

// Interface returns the InterfaceInfo with the given name.
func (c *Context) Interface(name string) (*InterfaceInfo, bool) {
	for _, i := range c.Interfaces {
		if i.Name == name {
			return i, true
		}
	}
	return nil, false
}

// Option returns the string value at a dotted configuration path, or
// defaultValue when it is absent or empty.
func (c *Context) Option(path, defaultValue string) string {
	if v, ok := config.LookupIn(c.Config, path); ok {
		if s, err := cast.ToStringE(v); err == nil && s != "" {
			return s
		}
	}
	return defaultValue
}

func projectName(g *grammar.Grammar, cfg *config.Config) string {
	switch {
	case cfg.ProjectName != "":
		return cfg.ProjectName
	case g.ProjectName != "":
		return g.ProjectName
	case g.Name != "":
		return naming.ToKebabCase(g.Name)
	default:
		return DefaultProjectName
	}
}

func extensionDefaults(ext config.Extension, project string) config.Extension {
	if ext.Name == "" {
		ext.Name = naming.ToKebabCase(project)
	}
	if ext.DisplayName == "" {
		ext.DisplayName = project
	}
	if ext.Version == "" {
		ext.Version = "0.1.0"
	}
	if ext.Publisher == "" {
		ext.Publisher = GeneratorName
	}
	if ext.Description == "" {
		ext.Description = fmt.Sprintf("GLSP diagram editor for %s", project)
	}
	return ext
}
