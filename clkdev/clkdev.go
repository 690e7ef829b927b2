// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package clkdev maps device and connection names to clocks.
package clkdev

import (
	"errors"
	"fmt"
	"sync"

	"github.com/platinasystems/car/car"
)

var ErrNotFound = errors.New("clock not found")

type Lookup struct {
	Dev, Con string
	Clk      car.Clock
}

func (l Lookup) String() string {
	return fmt.Sprintf("%s/%s: %s", l.Dev, l.Con, l.Clk.Name())
}

// Table is a car.Provider.
type Table struct {
	mu      sync.Mutex
	lookups []Lookup
}

var _ car.Provider = (*Table)(nil)

func New() *Table { return &Table{} }

func (t *Table) AddLookup(dev, con string, c car.Clock) error {
	if c == nil {
		return fmt.Errorf("%s/%s: nil clock", dev, con)
	}
	if len(dev) == 0 && len(con) == 0 {
		return fmt.Errorf("%s: no device or connection", c.Name())
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lookups = append(t.lookups, Lookup{dev, con, c})
	return nil
}

// Unregister drops every lookup of the clock.
func (t *Table) Unregister(c car.Clock) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l := t.lookups[:0]
	for _, x := range t.lookups {
		if x.Clk != c {
			l = append(l, x)
		}
	}
	t.lookups = l
}

// Get returns the best match; a lookup with an empty field matches any
// name for that field but an exact match on both fields wins.
func (t *Table) Get(dev, con string) (car.Clock, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var (
		clk  car.Clock
		best int
	)
	for _, l := range t.lookups {
		score := 0
		if len(l.Dev) > 0 {
			if l.Dev != dev {
				continue
			}
			score += 2
		}
		if len(l.Con) > 0 {
			if l.Con != con {
				continue
			}
			score++
		}
		if clk == nil || score > best {
			clk = l.Clk
			best = score
		}
		if best == 3 {
			break
		}
	}
	if clk == nil {
		return nil, fmt.Errorf("%s/%s: %w", dev, con, ErrNotFound)
	}
	return clk, nil
}

// Lookups returns a copy of the table in registration order.
func (t *Table) Lookups() []Lookup {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Lookup(nil), t.lookups...)
}
