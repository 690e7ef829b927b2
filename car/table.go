// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

import (
	"fmt"

	"github.com/platinasystems/log"
)

// Sentinel ends a table regardless of registry capacity.
const Sentinel = ^uint32(0)

// InitEntry flags.
const (
	// RateChangeOverclock leaves the rate of an already running clock
	// alone.
	RateChangeOverclock = 1 << iota
)

// InitEntry configures one clock at boot. Parent is ignored at or above
// the registry capacity, Rate when zero.
type InitEntry struct {
	Clock  uint32
	Parent uint32
	Rate   uint64
	Flags  uint32
	State  bool
}

// Duplicate publishes a registered clock under another lookup.
type Duplicate struct {
	Clock    uint32
	Dev, Con string
}

// DevClk is a device lookup of a registered clock.
type DevClk struct {
	ID       uint32
	Dev, Con string
}

// Result of a table walk. Errs has one entry per failed step.
type Result struct {
	Applied, Skipped, Failed int
	Errs                     []error
}

func (r *Result) fail(err error) {
	log.Print("err", "clk: ", err)
	r.Errs = append(r.Errs, err)
}

func (r Result) String() string {
	return fmt.Sprintf("%d applied, %d skipped, %d failed",
		r.Applied, r.Skipped, r.Failed)
}

// ApplyInitTable walks the table in order up to the first entry at or above
// capacity. A failed entry is logged and counted; it doesn't stop the walk.
// Parents must precede their children since entries aren't reordered.
func (c *Controller) ApplyInitTable(tbl []InitEntry) (r Result) {
	capacity := c.Capacity()
	for _, e := range tbl {
		if e.Clock >= capacity {
			break
		}
		if c.IsSkipped(e.Clock) {
			log.Print("info", "clk: clk ", e.Clock,
				" removed. Skipping init entry")
			r.Skipped++
			continue
		}
		if c.applyInitEntry(&r, e, capacity) {
			r.Applied++
		} else {
			r.Failed++
		}
	}
	return
}

func (c *Controller) applyInitEntry(r *Result, e InitEntry,
	capacity uint32) bool {
	clk, err := c.Clock(e.Clock)
	if err != nil {
		r.fail(fmt.Errorf("invalid entry in clks array: %w", err))
		return false
	}
	ok := true
	if e.Parent < capacity {
		parent, err := c.Clock(e.Parent)
		if err == nil {
			err = clk.SetParent(parent)
		}
		if err != nil {
			r.fail(fmt.Errorf("%w: parent %d of %s: %v",
				ErrParentSetFailed, e.Parent, clk.Name(), err))
			ok = false
		}
	}
	if e.Rate != 0 {
		if e.Flags&RateChangeOverclock != 0 && clk.IsEnabled() {
			if e.Rate != clk.Rate() {
				r.fail(fmt.Errorf("%w: can't set rate %d of %s",
					ErrRateConflict, e.Rate, clk.Name()))
				ok = false
			}
		} else if err := clk.SetRate(e.Rate); err != nil {
			r.fail(fmt.Errorf("%w: rate %d of %s: %v",
				ErrRateSetFailed, e.Rate, clk.Name(), err))
			ok = false
		}
	}
	if e.State {
		if err := clk.Enable(); err != nil {
			r.fail(fmt.Errorf("%w: %s: %v", ErrEnableFailed,
				clk.Name(), err))
			ok = false
		}
	}
	return ok
}

// ApplyDuplicates adds the aliases up to the first entry at or above
// capacity and returns the number added.
func (c *Controller) ApplyDuplicates(tbl []Duplicate) (n int) {
	capacity := c.Capacity()
	for _, d := range tbl {
		if d.Clock >= capacity {
			break
		}
		clk, err := c.Clock(d.Clock)
		if err != nil {
			log.Print("err", "clk: duplicate ", d.Dev, "/", d.Con,
				": ", err)
			continue
		}
		if err = c.provider.AddLookup(d.Dev, d.Con, clk); err != nil {
			log.Print("err", "clk: duplicate ", d.Dev, "/", d.Con,
				": ", err)
			continue
		}
		n++
	}
	return
}

// RegisterDevClks adds the device lookups then publishes every valid clock
// by name under DebugDev.
func (c *Controller) RegisterDevClks(tbl []DevClk) (n int) {
	for _, d := range tbl {
		clk, err := c.Clock(d.ID)
		if err == nil {
			err = c.provider.AddLookup(d.Dev, d.Con, clk)
		}
		if err != nil {
			log.Print("err", "clk: devclk ", d.Dev, "/", d.Con,
				": ", err)
			continue
		}
		n++
	}
	c.Each(func(id uint32, clk Clock) {
		if err := c.provider.AddLookup(DebugDev, clk.Name(),
			clk); err != nil {
			log.Print("err", "clk: ", clk.Name(), ": ", err)
		}
	})
	return
}
