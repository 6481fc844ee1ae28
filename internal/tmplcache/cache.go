// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package tmplcache memoizes compiled templates across renders and runs.
//
// Reads never lock: the entry map is replaced wholesale on every write
// (copy-on-write) and published through an atomic pointer. Writes are
// serialized and last-writer-wins.
package tmplcache

import (
	"sync"
	"sync/atomic"
	"text/template"
	"time"
)

// Entry is a cached compiled template. Entries are never replaced in
// place; only the access counters change.
type Entry struct {
	Template *template.Template

	// SourceModTime is the time recorded when the entry was stored. A
	// backing file modified after it makes the entry stale.
	SourceModTime time.Time

	hits       atomic.Int64
	lastAccess atomic.Int64
}

// Hits returns how many times the entry was served.
func (e *Entry) Hits() int64 { return e.hits.Load() }

// LastAccess returns when the entry was last served (zero if never).
func (e *Entry) LastAccess() time.Time {
	ns := e.lastAccess.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// StatFunc returns the modification time of a template's backing source.
type StatFunc func(key string) (time.Time, error)

// Options configures a Cache. The zero value is an unbounded cache with
// no staleness checks on Get.
type Options struct {
	// Stat, when set, lets Get detect stale entries itself.
	Stat StatFunc

	// TTL expires entries after a fixed age (0 = never).
	TTL time.Duration

	// MaxEntries bounds the cache; the least recently accessed entry is
	// evicted on overflow (0 = unbounded).
	MaxEntries int

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
	Stale   int64
}

// Cache is safe for concurrent use.
type Cache struct {
	opts    Options
	entries atomic.Pointer[map[string]*Entry]
	mu      sync.Mutex // serializes writers

	hits   atomic.Int64
	misses atomic.Int64
	stale  atomic.Int64
}

// New returns an empty cache.
func New(opts Options) *Cache {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	c := &Cache{opts: opts}
	empty := map[string]*Entry{}
	c.entries.Store(&empty)
	return c
}

// Get returns the cached template for key, or nil on a miss. Expired
// entries, and entries whose source changed according to Options.Stat,
// are misses and are evicted.
func (c *Cache) Get(key string) *template.Template {
	e := c.lookup(key)
	if e == nil {
		return nil
	}
	if c.opts.Stat != nil {
		mod, err := c.opts.Stat(key)
		if err == nil && mod.After(e.SourceModTime) {
			c.evictStale(key, e)
			return nil
		}
	}
	return c.serve(e)
}

// GetIfFresh is Get with a caller-supplied source modification time.
func (c *Cache) GetIfFresh(key string, sourceModTime time.Time) *template.Template {
	e := c.lookup(key)
	if e == nil {
		return nil
	}
	if sourceModTime.After(e.SourceModTime) {
		c.evictStale(key, e)
		return nil
	}
	return c.serve(e)
}

// Set stores tpl under key, replacing any existing entry.
func (c *Cache) Set(key string, tpl *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := *c.entries.Load()
	next := make(map[string]*Entry, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	if _, exists := next[key]; !exists && c.opts.MaxEntries > 0 && len(next) >= c.opts.MaxEntries {
		delete(next, leastRecent(next))
	}
	next[key] = &Entry{Template: tpl, SourceModTime: c.opts.Clock()}
	c.entries.Store(&next)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	empty := map[string]*Entry{}
	c.entries.Store(&empty)
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	return len(*c.entries.Load())
}

// Entry returns the raw entry for key without touching counters.
func (c *Cache) Entry(key string) (*Entry, bool) {
	e, ok := (*c.entries.Load())[key]
	return e, ok
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Stale:   c.stale.Load(),
	}
}

func (c *Cache) lookup(key string) *Entry {
	e, ok := (*c.entries.Load())[key]
	if !ok {
		c.misses.Add(1)
		return nil
	}
	if c.opts.TTL > 0 && c.opts.Clock().Sub(e.SourceModTime) > c.opts.TTL {
		c.evictStale(key, e)
		return nil
	}
	return e
}

func (c *Cache) serve(e *Entry) *template.Template {
	c.hits.Add(1)
	e.hits.Add(1)
	e.lastAccess.Store(c.opts.Clock().UnixNano())
	return e.Template
}

// evictStale removes key if it still maps to e; a concurrent Set wins.
func (c *Cache) evictStale(key string, e *Entry) {
	c.stale.Add(1)
	c.misses.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	cur := *c.entries.Load()
	if cur[key] != e {
		return
	}
	next := make(map[string]*Entry, len(cur))
	for k, v := range cur {
		if k != key {
			next[k] = v
		}
	}
	c.entries.Store(&next)
}

func leastRecent(m map[string]*Entry) string {
	var (
		victim string
		oldest int64 = -1
	)
	for k, e := range m {
		at := e.lastAccess.Load()
		if at == 0 {
			at = e.SourceModTime.UnixNano()
		}
		if oldest < 0 || at < oldest || (at == oldest && k < victim) {
			victim, oldest = k, at
		}
	}
	return victim
}
