// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package plugin

import (
	"context"
	"errors"

	"github.com/albertocavalcante/glspgen/internal/config"
)

// composite wraps several plugins behind one name.
type composite struct {
	info    Info
	members []Plugin
	hooks   Hooks
}

// Compose merges plugins into one. Same-named hooks are chained in
// argument order; the chain stops at the first error.
func Compose(info Info, plugins ...Plugin) Plugin {
	c := &composite{info: info, members: plugins}
	for _, hook := range AllHooks {
		var chain []HookFunc
		for _, p := range plugins {
			if fn := p.Hooks().Get(hook); fn != nil {
				chain = append(chain, fn)
			}
		}
		switch len(chain) {
		case 0:
		case 1:
			c.hooks.set(hook, chain[0])
		default:
			c.hooks.set(hook, func(ctx context.Context, pc *Context) error {
				for _, fn := range chain {
					if err := fn(ctx, pc); err != nil {
						return err
					}
				}
				return nil
			})
		}
	}
	return c
}

func (c *composite) Info() Info   { return c.info }
func (c *composite) Hooks() Hooks { return c.hooks }

// Configure runs each member's Configure in order.
func (c *composite) Configure(cfg *config.Config) error {
	for _, p := range c.members {
		if cf, ok := p.(Configurer); ok {
			if err := cf.Configure(cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate joins the self-check errors of every member.
func (c *composite) Validate() error {
	var errs []error
	for _, p := range c.members {
		if v, ok := p.(Validator); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
