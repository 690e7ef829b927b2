// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

import (
	"fmt"
	"sync"
)

// Gate is a peripheral clock whose enable is one bank bit. Its rate and
// parent are kept as set; there's no divider here.
type Gate struct {
	c    *Controller
	name string
	bit  uint32

	// Parents, if not empty, lists the permitted parent names.
	Parents []string
	// MaxRate, if non-zero, bounds SetRate.
	MaxRate uint64

	mu           sync.Mutex
	rate         uint64
	parent       Clock
	unregistered bool
}

// NewGate returns a gate clock for the given bank bit.
func (c *Controller) NewGate(name string, bit uint32, rate uint64) *Gate {
	return &Gate{c: c, name: name, bit: bit, rate: rate}
}

func (g *Gate) Name() string   { return g.name }
func (g *Gate) String() string { return g.name }
func (g *Gate) Bit() uint32    { return g.bit }

func (g *Gate) Enable() error {
	if g.isUnregistered() {
		return fmt.Errorf("%s: %w", g.name, ErrClockUnregistered)
	}
	return g.c.EnableBit(g.bit)
}

func (g *Gate) Disable() error {
	return g.c.DisableBit(g.bit)
}

func (g *Gate) IsEnabled() bool { return g.c.BitEnabled(g.bit) }

func (g *Gate) Rate() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rate
}

func (g *Gate) SetRate(rate uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unregistered {
		return fmt.Errorf("%s: %w", g.name, ErrClockUnregistered)
	}
	if rate == 0 || (g.MaxRate != 0 && rate > g.MaxRate) {
		return fmt.Errorf("%s: rate %d out of range", g.name, rate)
	}
	g.rate = rate
	return nil
}

func (g *Gate) Parent() Clock {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parent
}

func (g *Gate) SetParent(p Clock) error {
	if p == nil {
		return fmt.Errorf("%s: nil parent", g.name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unregistered {
		return fmt.Errorf("%s: %w", g.name, ErrClockUnregistered)
	}
	if len(g.Parents) > 0 {
		permitted := false
		for _, name := range g.Parents {
			if name == p.Name() {
				permitted = true
				break
			}
		}
		if !permitted {
			return fmt.Errorf("%s: %s isn't a parent", g.name,
				p.Name())
		}
	}
	g.parent = p
	return nil
}

// Unregister is called when the registry drops the clock.
func (g *Gate) Unregister() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unregistered = true
}

func (g *Gate) isUnregistered() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unregistered
}

// Fixed is an always running root clock such as an oscillator or PLL
// output.
type Fixed struct {
	name string
	rate uint64
}

func NewFixed(name string, rate uint64) *Fixed {
	return &Fixed{name, rate}
}

func (f *Fixed) Name() string    { return f.name }
func (f *Fixed) String() string  { return f.name }
func (f *Fixed) Enable() error   { return nil }
func (f *Fixed) Disable() error  { return nil }
func (f *Fixed) IsEnabled() bool { return true }
func (f *Fixed) Rate() uint64    { return f.rate }
func (f *Fixed) Parent() Clock   { return nil }

func (f *Fixed) SetRate(rate uint64) error {
	if rate != f.rate {
		return fmt.Errorf("%s: fixed rate %d", f.name, f.rate)
	}
	return nil
}

func (f *Fixed) SetParent(Clock) error {
	return fmt.Errorf("%s: no parent", f.name)
}
