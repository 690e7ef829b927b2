// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package soc1

import (
	"testing"

	"github.com/platinasystems/car/car"
	"github.com/platinasystems/car/car/sim"
	"github.com/platinasystems/car/internal/test"
)

func newSim(t *testing.T) (*Platform, *sim.CAR) {
	s := sim.New(Banks)
	p, err := New(Config{Regs: s, RegsSize: car.RegionSize, Delay: s})
	test.Assert{t}.Nil(err)
	return p, s
}

func TestBoot(t *testing.T) {
	assert := test.Assert{t}
	p, _ := newSim(t)
	r := p.Boot(nil)
	assert.Int(r.Applied, len(InitTable)-1)
	assert.Int(r.Failed, 0)
	assert.Int(r.Skipped, 0)

	uarta, err := p.Lookup.Get("70006000.serial", "")
	assert.Nil(err)
	assert.Equal(uarta.Name(), "uarta")
	assert.True(uarta.IsEnabled())
	assert.Equal(uarta.Parent().Name(), "pll_p")
	assert.Uint(uarta.Rate(), 408000000)

	uartb, err := p.Clock(ClkUartB)
	assert.Nil(err)
	assert.True(uartb.IsEnabled())
	assert.Int(p.Refcount(7), 1)

	usb, err := p.Lookup.Get("tegra-ehci.0", "usb")
	assert.Nil(err)
	assert.Equal(usb.Name(), "usbd")

	pllp, err := p.Lookup.Get("", "pll_p")
	assert.Nil(err)
	assert.Uint(pllp.Rate(), 408000000)

	mselect, err := p.Lookup.Get(car.DebugDev, "mselect")
	assert.Nil(err)
	assert.True(mselect.IsEnabled())
	assert.True(p.BitEnabled(99))
}

func TestBootSkipped(t *testing.T) {
	assert := test.Assert{t}
	p, _ := newSim(t)
	r := p.Boot(car.SkipList{ClkUartB, ClkSdmmc4, NumClocks + 3})
	assert.Int(r.Skipped, 2)
	assert.Int(r.Failed, 0)
	_, err := p.Lookup.Get("70006040.serial", "")
	assert.True(err != nil)
	_, err = p.Lookup.Get(car.DebugDev, "sdmmc4")
	assert.True(err != nil)
	_, err = p.Clock(ClkUartB)
	assert.Error(err, car.ErrClockUnregistered)
}

func TestSpecialResets(t *testing.T) {
	assert := test.Assert{t}
	p, s := newSim(t)
	assert.Uint(uint64(p.NumResets()), Banks*32+2)
	assert.Nil(p.Assert(RstDfllRef))
	assert.Uint(uint64(s.Peek(DfllReset)), 2)
	assert.Nil(p.Reset(RstDfll))
	assert.Uint(uint64(s.Peek(DfllReset)), 2)
	assert.Nil(p.Deassert(RstDfllRef))
	assert.Uint(uint64(s.Peek(DfllReset)), 0)
	assert.Error(p.Assert(RstDfllRef+1), car.ErrInvalidID)
}

func TestMeasure(t *testing.T) {
	assert := test.Assert{t}
	p, s := newSim(t)
	pto, found := PTO(ClkSdmmc1)
	assert.True(found)
	s.PtoTicks[pto.Source] = 6347
	s.Poke(pto.Preselect, 0x40000002)
	hz, err := p.Measure(pto)
	assert.Nil(err)
	assert.Uint(hz, car.PtoHz(6347*2))
	assert.Uint(uint64(s.Peek(pto.Preselect)), 0x40000002)
	_, found = PTO(ClkApbdma)
	assert.False(found)
}
