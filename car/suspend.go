// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

// Suspend saves every bank's enable register followed by every bank's reset
// register. Call it once per suspend, before the banked clocks lose power.
func (c *Controller) Suspend() {
	c.ctx.Lock()
	defer c.ctx.Unlock()
	i := 0
	for _, b := range c.banks {
		c.ctx.saved[i] = c.regs.Load32(b.Enable)
		i++
	}
	for _, b := range c.banks {
		c.ctx.saved[i] = c.regs.Load32(b.Reset)
		i++
	}
	c.ctx.valid = true
}

// Resume restores the registers saved by Suspend. Peripherals come back up
// in reset, so the enables get ResetPulseUs to settle before the saved
// resets are written.
func (c *Controller) Resume() error {
	c.ctx.Lock()
	defer c.ctx.Unlock()
	if !c.ctx.valid {
		return ErrNoSnapshot
	}
	i := 0
	for _, b := range c.banks {
		c.regs.Store32(b.Enable, c.ctx.saved[i])
		i++
	}
	c.fence(ResetPulseUs)
	for _, b := range c.banks {
		c.regs.Store32(b.Reset, c.ctx.saved[i])
		i++
	}
	c.fence(ResetSettleUs)
	c.ctx.valid = false
	return nil
}
