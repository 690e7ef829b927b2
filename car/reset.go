// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

import "fmt"

// Settle delays in microseconds.
const (
	ResetSettleUs = 2
	ResetPulseUs  = 5
)

var _ ResetController = (*Controller)(nil)

// SetSpecialResets appends s.Count() ids after the banked reset ids. It may
// only be called once.
func (c *Controller) SetSpecialResets(s SpecialResets) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.special != nil {
		return ErrSpecialResetsSet
	}
	c.special = s
	return nil
}

// NumResets is the number of reset ids, banked followed by special.
func (c *Controller) NumResets() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.numResets()
}

func (c *Controller) numResets() uint32 {
	n := uint32(32 * len(c.banks))
	if c.special != nil {
		n += c.special.Count()
	}
	return n
}

// Assert puts the peripheral in reset.
//
// The chip id read flushes the APB bridge so that nothing still posted to a
// peripheral lands after its reset changes. The reset ids don't say which
// peripherals are on the APB so this is done for every id.
func (c *Controller) Assert(id uint32) error {
	c.misc.Load32(HidRev)
	return c.strobe(id, true)
}

// Deassert takes the peripheral out of reset.
func (c *Controller) Deassert(id uint32) error {
	return c.strobe(id, false)
}

// Reset pulses the reset line.
func (c *Controller) Reset(id uint32) error {
	if err := c.Assert(id); err != nil {
		return err
	}
	c.delay.Udelay(ResetPulseUs)
	return c.Deassert(id)
}

func (c *Controller) strobe(id uint32, assert bool) error {
	c.mu.Lock()
	banked := uint32(32 * len(c.banks))
	special := c.special
	n := c.numResets()
	c.mu.Unlock()
	switch {
	case id < banked:
		bank, mask := BankOf(id)
		reg := c.banks[bank].ResetClear
		if assert {
			reg = c.banks[bank].ResetSet
		}
		c.regs.Store32(reg, mask)
		c.fence(ResetSettleUs)
		return nil
	case id < n:
		if assert {
			return special.Assert(id)
		}
		return special.Deassert(id)
	}
	return fmt.Errorf("reset %d: %w", id, ErrInvalidID)
}

// AssertV asserts each id, returning the first error.
func (c *Controller) AssertV(ids ...uint32) (err error) {
	for _, id := range ids {
		if e := c.Assert(id); e != nil && err == nil {
			err = e
		}
	}
	return
}

// DeassertV deasserts each id, returning the first error.
func (c *Controller) DeassertV(ids ...uint32) (err error) {
	for _, id := range ids {
		if e := c.Deassert(id); e != nil && err == nil {
			err = e
		}
	}
	return
}
