// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

import (
	"fmt"
	"time"

	"github.com/jpillora/backoff"
)

// PTO control and status bits.
const (
	PtoEnable      = 1 << 23
	PtoStartSelect = 1 << 13
	PtoMode        = 0xf
	PtoSourceShift = 14
	PtoLatch       = 1 << 10
	PtoTrigger     = 1 << 9

	PtoBusy    = 1 << 31
	PtoCounter = 1<<24 - 1

	// PtoWindowUs is the minimum counting window.
	PtoWindowUs = 500

	// PtoMaxDivider keeps the scaled count within PtoHz's uint64 range.
	PtoMaxDivider = 1 << 16
)

// PTO describes how to route one clock to the frequency counter.
type PTO struct {
	Clock uint32
	// Preselect, if non-zero, is a CAR register whose masked field is
	// overridden with PreselectValue for the duration of a measurement.
	Preselect      uint32
	PreselectMask  uint32
	PreselectValue uint32
	Source         uint32
	Divider        uint32
}

// PtoHz converts counted reference ticks to Hz rounded to the nearest kHz.
// The counter runs for 16 cycles of the 32.768kHz reference.
func PtoHz(ticks uint64) uint64 {
	hz := ticks * 32768 / 16
	return (hz + 500) / 1000 * 1000
}

// Measure the frequency of the clock routed by p.
func (c *Controller) Measure(p PTO) (hz uint64, err error) {
	if p.Divider > PtoMaxDivider {
		return 0, fmt.Errorf("pto %d: divider %d: %w", p.Clock,
			p.Divider, ErrInvalidDivider)
	}
	var saved uint32
	if p.Preselect != 0 {
		saved = c.preselect(p.Preselect, p.PreselectMask,
			p.PreselectValue)
	}
	ticks, err := c.count(p)
	if p.Preselect != 0 {
		c.preselect(p.Preselect, p.PreselectMask, saved)
	}
	if err != nil {
		return 0, err
	}
	return PtoHz(ticks), nil
}

// preselect replaces the masked field of reg and returns its prior value.
func (c *Controller) preselect(reg, mask, value uint32) (prior uint32) {
	c.preselMu.Lock()
	defer c.preselMu.Unlock()
	v := c.regs.Load32(reg)
	prior = v & mask
	c.regs.Store32(reg, v&^mask|value&mask)
	return
}

func (c *Controller) count(p PTO) (uint64, error) {
	c.pto.Lock()
	defer c.pto.Unlock()

	v := uint32(PtoEnable | PtoStartSelect | PtoMode)
	v |= p.Source << PtoSourceShift
	c.regs.Store32(PtoCtrl, v)
	c.regs.Store32(PtoCtrl, v|PtoLatch)
	c.regs.Store32(PtoCtrl, v)
	c.regs.Store32(PtoCtrl, v|PtoTrigger)

	c.delay.Udelay(PtoWindowUs)

	b := &backoff.Backoff{
		Min:    10 * time.Microsecond,
		Max:    time.Millisecond,
		Factor: 2,
	}
	var waited time.Duration
	for c.regs.Load32(PtoStatus)&PtoBusy != 0 {
		if waited >= c.pto.timeout {
			return 0, fmt.Errorf("pto %d after %v: %w", p.Clock,
				waited, ErrMeasurementTimeout)
		}
		d := b.Duration()
		c.delay.Udelay(uint(d / time.Microsecond))
		waited += d
	}
	ticks := uint64(c.regs.Load32(PtoStatus) & PtoCounter)
	return ticks * uint64(p.Divider), nil
}
