// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package car drives a SoC peripheral clock-and-reset block: the banked
// enable and reset registers, the reset lines, the peripheral clock
// registry, boot time init tables, suspend context and PTO frequency
// measurement.
package car

import (
	"fmt"
	"sync"
	"time"

	"github.com/platinasystems/car/hw"
)

// MaxClocks bounds the registry capacity.
const MaxClocks = 1 << 16

// DebugDev is the device name under which every clock is looked up by name.
const DebugDev = "car-clk-debug"

const DefaultPtoTimeout = 10 * time.Millisecond

type Config struct {
	// Regs is the CAR register block; RegsSize, if non-zero, is checked
	// against RegionSize.
	Regs     hw.Window
	RegsSize uint
	// Misc holds the chip id register read to flush the APB bridge; it
	// defaults to Regs.
	Misc  hw.Window
	Delay hw.Delayer

	// Banks is the number of peripheral banks, Clocks the registry
	// capacity.
	Banks  int
	Clocks int

	Provider       Provider
	ThermalControl bool
	PtoTimeout     time.Duration
}

type slot uint8

const (
	slotEmpty slot = iota
	slotValid
	slotRemoved
)

type Controller struct {
	regs     hw.Window
	misc     hw.Window
	delay    hw.Delayer
	banks    []Bank
	provider Provider
	thermal  bool

	// mu guards the registry slots, the refcounts paired with their
	// enable strobes, the skip list and the special resets.
	mu      sync.Mutex
	clks    []Clock
	slots   []slot
	refcnt  []int
	skipped SkipList
	special SpecialResets

	ctx struct {
		sync.Mutex
		saved []uint32
		valid bool
	}

	pto struct {
		sync.Mutex
		timeout time.Duration
	}
	preselMu sync.Mutex
}

// New sizes the registry and refcount tables for the given banks and clock
// capacity.
func New(cfg Config) (*Controller, error) {
	if cfg.Banks <= 0 || cfg.Banks > len(Banks) {
		return nil, fmt.Errorf("%d banks: %w", cfg.Banks,
			ErrInvalidBankCount)
	}
	if cfg.Clocks <= 0 || cfg.Clocks > MaxClocks {
		return nil, fmt.Errorf("%d clocks: %w", cfg.Clocks,
			ErrOutOfMemory)
	}
	if cfg.Regs == nil {
		return nil, fmt.Errorf("car: missing register window")
	}
	if cfg.RegsSize != 0 {
		if err := hw.CheckRegion("car", cfg.RegsSize,
			RegionSize); err != nil {
			return nil, err
		}
	}
	c := &Controller{
		regs:     cfg.Regs,
		misc:     cfg.Misc,
		delay:    cfg.Delay,
		banks:    Banks[:cfg.Banks],
		provider: cfg.Provider,
		thermal:  cfg.ThermalControl,
		clks:     make([]Clock, cfg.Clocks),
		slots:    make([]slot, cfg.Clocks),
		refcnt:   make([]int, 32*cfg.Banks),
	}
	if c.misc == nil {
		c.misc = c.regs
	}
	if c.delay == nil {
		c.delay = hw.Sleep{}
	}
	if c.provider == nil {
		c.provider = nopProvider{}
	}
	c.ctx.saved = make([]uint32, 2*cfg.Banks)
	c.pto.timeout = cfg.PtoTimeout
	if c.pto.timeout <= 0 {
		c.pto.timeout = DefaultPtoTimeout
	}
	return c, nil
}

func (c *Controller) NumBanks() int { return len(c.banks) }

// Capacity of the clock registry; table entries at or above this id end
// the table.
func (c *Controller) Capacity() uint32 { return uint32(len(c.clks)) }

func (c *Controller) Provider() Provider { return c.provider }

// Register the clock at the given registry id.
func (c *Controller) Register(id uint32, clk Clock) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id >= uint32(len(c.clks)) || clk == nil {
		return fmt.Errorf("register %d: %w", id, ErrInvalidID)
	}
	c.clks[id] = clk
	c.slots[id] = slotValid
	return nil
}

// Clock returns the registered handle of the given id.
func (c *Controller) Clock(id uint32) (Clock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock(id)
}

func (c *Controller) clock(id uint32) (Clock, error) {
	if id >= uint32(len(c.clks)) {
		return nil, fmt.Errorf("clk %d: %w", id, ErrInvalidID)
	}
	switch c.slots[id] {
	case slotValid:
		return c.clks[id], nil
	case slotRemoved:
		return nil, fmt.Errorf("clk %d: %w", id, ErrClockUnregistered)
	}
	return nil, fmt.Errorf("clk %d: %w", id, ErrClockMissing)
}

// Each calls f for every valid clock in id order.
func (c *Controller) Each(f func(id uint32, clk Clock)) {
	c.mu.Lock()
	clks := make([]Clock, len(c.clks))
	for i, s := range c.slots {
		if s == slotValid {
			clks[i] = c.clks[i]
		}
	}
	c.mu.Unlock()
	for i, clk := range clks {
		if clk != nil {
			f(uint32(i), clk)
		}
	}
}

func (c *Controller) bit(id uint32) (Bank, uint32, error) {
	bank, mask := BankOf(id)
	if bank >= len(c.banks) {
		return Bank{}, 0, fmt.Errorf("bit %d: %w", id, ErrInvalidID)
	}
	return c.banks[bank], mask, nil
}

// EnableBit takes a reference on the peripheral enable bit and sets it on
// the first reference.
func (c *Controller) EnableBit(id uint32) error {
	b, mask, err := c.bit(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refcnt[id]++
	if c.refcnt[id] == 1 {
		c.regs.Store32(b.EnableSet, mask)
	}
	return nil
}

// DisableBit drops a reference on the peripheral enable bit and clears it
// with the last one.
func (c *Controller) DisableBit(id uint32) error {
	b, mask, err := c.bit(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refcnt[id] == 0 {
		return fmt.Errorf("bit %d: %w", id, ErrRefcountUnderflow)
	}
	c.refcnt[id]--
	if c.refcnt[id] == 0 {
		c.regs.Store32(b.EnableClear, mask)
	}
	return nil
}

// Refcount of the peripheral enable bit.
func (c *Controller) Refcount(id uint32) int {
	if _, _, err := c.bit(id); err != nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refcnt[id]
}

// BitEnabled reads the hardware enable bit.
func (c *Controller) BitEnabled(id uint32) bool {
	b, mask, err := c.bit(id)
	if err != nil {
		return false
	}
	return c.regs.Load32(b.Enable)&mask != 0
}

// SetPllpOutCPU gates the PLLP output to the CPU complex. Bank Y must be
// present. PllpOutCPU is also banked id 223, which therefore must not be
// registered as a gate; its refcount would not track this bit.
func (c *Controller) SetPllpOutCPU(enable bool) error {
	if len(c.banks) < len(Banks) {
		return fmt.Errorf("pllp_out_cpu: %w", ErrInvalidBankCount)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.regs.Load32(ClkOutEnbY)
	if enable {
		v |= PllpOutCPU
	} else {
		v &^= PllpOutCPU
	}
	c.regs.Store32(ClkOutEnbY, v)
	return nil
}

// SetSuperCdivThermal hands the CPU super clock divider to the thermal
// controller.
func (c *Controller) SetSuperCdivThermal(enable bool) error {
	if !c.thermal {
		return ErrNoThermalControl
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.regs.Load32(SuperCclkgDiv)
	if enable {
		v |= 1 << 30
	} else {
		v &^= 1 << 30
	}
	c.regs.Store32(SuperCclkgDiv, v)
	return nil
}

// fence forces posted writes out before a settle delay.
func (c *Controller) fence(us uint) {
	c.regs.Load32(RstSource)
	c.delay.Udelay(us)
}
