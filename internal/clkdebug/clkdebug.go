// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package clkdebug provides per clock state, rate, parent and measured rate
// attributes.
package clkdebug

import (
	"errors"
	"fmt"
	"strings"

	"github.com/platinasystems/car/car"
	"github.com/platinasystems/car/clkdev"
)

var ErrNoPto = errors.New("no pto")

type Attr struct {
	ID  uint32
	Clk car.Clock

	c      *car.Controller
	lookup *clkdev.Table
	pto    *car.PTO
}

// New returns the attributes of every valid clock in id order.
func New(c *car.Controller, lookup *clkdev.Table, ptos []car.PTO) []*Attr {
	var attrs []*Attr
	c.Each(func(id uint32, clk car.Clock) {
		a := &Attr{ID: id, Clk: clk, c: c, lookup: lookup}
		for i := range ptos {
			if ptos[i].Clock == id {
				a.pto = &ptos[i]
				break
			}
		}
		attrs = append(attrs, a)
	})
	return attrs
}

// Find the named attribute.
func Find(attrs []*Attr, name string) (*Attr, error) {
	for _, a := range attrs {
		if a.Clk.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, clkdev.ErrNotFound)
}

func (a *Attr) Name() string { return a.Clk.Name() }

func (a *Attr) State() uint64 {
	if a.Clk.IsEnabled() {
		return 1
	}
	return 0
}

// SetState enables for non-zero and disables for zero.
func (a *Attr) SetState(v uint64) error {
	if v != 0 {
		return a.Clk.Enable()
	}
	return a.Clk.Disable()
}

func (a *Attr) Rate() uint64 { return a.Clk.Rate() }

func (a *Attr) SetRate(v uint64) error { return a.Clk.SetRate(v) }

// Parent name or empty for a root clock.
func (a *Attr) Parent() string {
	if p := a.Clk.Parent(); p != nil {
		return p.Name()
	}
	return ""
}

// SetParent looks up the named parent, ignoring trailing newlines.
func (a *Attr) SetParent(name string) error {
	name = strings.TrimRight(name, "\n")
	p, err := a.lookup.Get(car.DebugDev, name)
	if err != nil {
		return err
	}
	return a.Clk.SetParent(p)
}

func (a *Attr) HasPto() bool { return a.pto != nil }

// PtoRate measures the clock.
func (a *Attr) PtoRate() (uint64, error) {
	if a.pto == nil {
		return 0, fmt.Errorf("%s: %w", a.Name(), ErrNoPto)
	}
	return a.c.Measure(*a.pto)
}
