// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package soc1 describes the clock-and-reset block of the soc1 reference
// board: its clocks, special resets and boot tables.
package soc1

import (
	"sync"
	"time"

	"github.com/platinasystems/car/car"
	"github.com/platinasystems/car/clkdev"
	"github.com/platinasystems/car/hw"
	"github.com/platinasystems/log"
)

const (
	CarBase  = 0x60006000
	MiscBase = 0x70000000
	Banks    = 7
)

// Compatible names the device tree node carrying the skip list.
const Compatible = "vendor,soc1-car"

// Registry ids.
const (
	ClkOsc = iota
	ClkClk32k
	ClkPllP
	ClkPllC
	ClkUartA
	ClkUartB
	ClkI2c1
	ClkI2c2
	ClkSdmmc1
	ClkSdmmc4
	ClkSpi1
	ClkUsbd
	ClkPwm
	ClkHost1x
	ClkMselect
	ClkApbdma
	NumClocks
)

// Special reset ids follow the 7*32 banked ids.
const (
	RstDfll = Banks*32 + iota
	RstDfllRef
	numSpecialResets = iota
)

// DfllReset holds the DFLL reset bits.
const DfllReset = 0x2f4

type gate struct {
	id      uint32
	name    string
	bit     uint32
	rate    uint64
	max     uint64
	parents []string
}

var gates = []gate{
	{ClkUartA, "uarta", 6, 0, 408000000, []string{"pll_p", "osc"}},
	{ClkUartB, "uartb", 7, 0, 408000000, []string{"pll_p", "osc"}},
	{ClkI2c1, "i2c1", 12, 0, 136000000, []string{"pll_p", "clk_32k"}},
	{ClkI2c2, "i2c2", 54, 0, 136000000, []string{"pll_p", "clk_32k"}},
	{ClkSdmmc1, "sdmmc1", 14, 0, 208000000, []string{"pll_p", "pll_c"}},
	{ClkSdmmc4, "sdmmc4", 15, 0, 200000000, []string{"pll_p", "pll_c"}},
	{ClkSpi1, "spi1", 41, 0, 204000000, []string{"pll_p", "osc"}},
	{ClkUsbd, "usbd", 22, 480000000, 480000000, nil},
	{ClkPwm, "pwm", 17, 0, 48000000, []string{"pll_p", "clk_32k"}},
	{ClkHost1x, "host1x", 28, 0, 408000000, []string{"pll_p", "pll_c"}},
	{ClkMselect, "mselect", 99, 0, 408000000, []string{"pll_p"}},
	{ClkApbdma, "apbdma", 34, 0, 0, nil},
}

var InitTable = []car.InitEntry{
	{ClkPllP, car.Sentinel, 408000000, 0, true},
	{ClkUartA, ClkPllP, 408000000, 0, true},
	{ClkUartB, ClkPllP, 408000000, 0, true},
	{ClkSdmmc1, ClkPllP, 208000000, car.RateChangeOverclock, false},
	{ClkSdmmc4, ClkPllC, 200000000, car.RateChangeOverclock, false},
	{ClkI2c1, ClkPllP, 136000000, 0, false},
	{ClkI2c2, ClkPllP, 136000000, 0, false},
	{ClkPwm, ClkClk32k, 0, 0, false},
	{ClkHost1x, ClkPllP, 408000000, 0, false},
	{ClkMselect, ClkPllP, 204000000, 0, true},
	{ClkApbdma, car.Sentinel, 0, 0, true},
	{car.Sentinel, car.Sentinel, 0, 0, false},
}

var Duplicates = []car.Duplicate{
	{ClkUartA, "70006000.serial", ""},
	{ClkUartB, "70006040.serial", ""},
	{ClkUsbd, "tegra-udc.0", ""},
	{ClkUsbd, "tegra-ehci.0", "usb"},
	{ClkPwm, "7000a000.pwm", ""},
	{car.Sentinel, "", ""},
}

var DevClks = []car.DevClk{
	{ClkClk32k, "", "clk_32k"},
	{ClkOsc, "", "osc"},
	{ClkPllP, "", "pll_p"},
	{ClkPllC, "", "pll_c"},
}

var PTOs = []car.PTO{
	{Clock: ClkUartA, Source: 0x45, Divider: 1},
	{Clock: ClkUartB, Source: 0x46, Divider: 1},
	{Clock: ClkSdmmc1, Source: 0x14, Divider: 2,
		Preselect: 0x150, PreselectMask: 1 << 29,
		PreselectValue: 1 << 29},
	{Clock: ClkSdmmc4, Source: 0x16, Divider: 2,
		Preselect: 0x164, PreselectMask: 1 << 29,
		PreselectValue: 1 << 29},
	{Clock: ClkHost1x, Source: 0x24, Divider: 1},
	{Clock: ClkPllP, Source: 0x02, Divider: 4},
}

type Config struct {
	Regs       hw.Window
	RegsSize   uint
	Misc       hw.Window
	Delay      hw.Delayer
	PtoTimeout time.Duration
}

// Platform is the soc1 controller with its lookup table.
type Platform struct {
	*car.Controller
	Lookup *clkdev.Table
}

// New registers the soc1 clocks and special resets.
func New(cfg Config) (*Platform, error) {
	lookup := clkdev.New()
	c, err := car.New(car.Config{
		Regs:           cfg.Regs,
		RegsSize:       cfg.RegsSize,
		Misc:           cfg.Misc,
		Delay:          cfg.Delay,
		Banks:          Banks,
		Clocks:         NumClocks,
		Provider:       lookup,
		ThermalControl: true,
		PtoTimeout:     cfg.PtoTimeout,
	})
	if err != nil {
		return nil, err
	}
	for _, x := range []struct {
		id   uint32
		name string
		rate uint64
	}{
		{ClkOsc, "osc", 38400000},
		{ClkClk32k, "clk_32k", 32768},
		{ClkPllP, "pll_p", 408000000},
		{ClkPllC, "pll_c", 600000000},
	} {
		if err = c.Register(x.id, car.NewFixed(x.name, x.rate)); err != nil {
			return nil, err
		}
	}
	for _, x := range gates {
		g := c.NewGate(x.name, x.bit, x.rate)
		g.MaxRate = x.max
		g.Parents = x.parents
		if err = c.Register(x.id, g); err != nil {
			return nil, err
		}
	}
	err = c.SetSpecialResets(&dfll{regs: cfg.Regs})
	if err != nil {
		return nil, err
	}
	return &Platform{c, lookup}, nil
}

// Boot removes the skipped clocks then registers lookups and applies the
// init table.
func (p *Platform) Boot(skip car.SkipList) car.Result {
	if n := p.ApplySkipList(skip); n > 0 {
		log.Print("daemon", "info", "clk: removed ", n, " clocks")
	}
	p.RegisterDevClks(DevClks)
	p.ApplyDuplicates(Duplicates)
	r := p.ApplyInitTable(InitTable)
	log.Print("daemon", "info", "clk: init table: ", r)
	return r
}

// PTO returns the measurement route of the clock.
func PTO(id uint32) (car.PTO, bool) {
	for _, p := range PTOs {
		if p.Clock == id {
			return p, true
		}
	}
	return car.PTO{}, false
}

// dfll resets aren't banked; both live in DfllReset.
type dfll struct {
	mu   sync.Mutex
	regs hw.Window
}

func (*dfll) Count() uint32 { return numSpecialResets }

func (d *dfll) Assert(id uint32) error   { return d.set(id, true) }
func (d *dfll) Deassert(id uint32) error { return d.set(id, false) }

func (d *dfll) set(id uint32, assert bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	mask := uint32(1) << (id - RstDfll)
	v := d.regs.Load32(DfllReset)
	if assert {
		v |= mask
	} else {
		v &^= mask
	}
	d.regs.Store32(DfllReset, v)
	return nil
}
