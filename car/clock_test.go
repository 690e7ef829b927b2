// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/platinasystems/car/car"
	"github.com/platinasystems/car/car/sim"
	"github.com/platinasystems/car/internal/test"
)

func TestNew(t *testing.T) {
	assert := test.Assert{t}
	s := sim.New(7)
	for _, x := range []struct {
		banks, clocks int
		size          uint
		err           error
	}{
		{0, 32, 0, car.ErrInvalidBankCount},
		{len(car.Banks) + 1, 32, 0, car.ErrInvalidBankCount},
		{3, 0, 0, car.ErrOutOfMemory},
		{3, car.MaxClocks + 1, 0, car.ErrOutOfMemory},
	} {
		_, err := car.New(car.Config{
			Regs:     s,
			RegsSize: x.size,
			Banks:    x.banks,
			Clocks:   x.clocks,
		})
		assert.Error(err, x.err)
	}
	_, err := car.New(car.Config{
		Regs:     s,
		RegsSize: car.RegionSize / 2,
		Banks:    3,
		Clocks:   32,
	})
	assert.Error(err, "car: region 0x800 < 0x1000")
	c, err := car.New(car.Config{Regs: s, Banks: 7, Clocks: 300})
	assert.Nil(err)
	assert.Int(c.NumBanks(), 7)
	assert.Uint(uint64(c.Capacity()), 300)
	assert.Uint(uint64(c.NumResets()), 7*32)
}

func TestRefcount(t *testing.T) {
	assert := test.Assert{t}
	c, s, _ := newController(t, 3, 96)
	r := rand.New(rand.NewSource(1))
	counts := make([]int, 96)
	for i := 0; i < 2000; i++ {
		id := uint32(r.Intn(96))
		b := car.Banks[id/32]
		s.Clear()
		if r.Intn(2) == 0 {
			assert.Nil(c.EnableBit(id))
			counts[id]++
			if counts[id] == 1 {
				assert.Int(len(s.Writes()), 1)
				assert.Uint(uint64(s.Writes()[0].Off),
					uint64(b.EnableSet))
			} else {
				assert.Int(len(s.Writes()), 0)
			}
		} else if counts[id] == 0 {
			assert.Error(c.DisableBit(id), car.ErrRefcountUnderflow)
			assert.Int(len(s.Writes()), 0)
		} else {
			assert.Nil(c.DisableBit(id))
			counts[id]--
			if counts[id] == 0 {
				assert.Int(len(s.Writes()), 1)
				assert.Uint(uint64(s.Writes()[0].Off),
					uint64(b.EnableClear))
			} else {
				assert.Int(len(s.Writes()), 0)
			}
		}
		for bit := uint32(0); bit < 96; bit++ {
			if c.BitEnabled(bit) != (c.Refcount(bit) > 0) {
				t.Fatalf("bit %d: enabled %v refcount %d", bit,
					c.BitEnabled(bit), c.Refcount(bit))
			}
			assert.Int(c.Refcount(bit), counts[bit])
		}
	}
	assert.Error(c.EnableBit(96), car.ErrInvalidID)
	assert.Error(c.DisableBit(96), car.ErrInvalidID)
}

func TestConcurrentEnable(t *testing.T) {
	assert := test.Assert{t}
	c, _, _ := newController(t, 1, 32)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.EnableBit(4)
				c.DisableBit(4)
			}
			c.EnableBit(4)
		}()
	}
	wg.Wait()
	assert.Int(c.Refcount(4), 8)
	assert.True(c.BitEnabled(4))
}

func TestRegistry(t *testing.T) {
	assert := test.Assert{t}
	c, _, _ := newController(t, 1, 8)
	g := c.NewGate("uarta", 6, 408000000)
	assert.Nil(c.Register(2, g))
	assert.Error(c.Register(8, g), car.ErrInvalidID)

	clk, err := c.Clock(2)
	assert.Nil(err)
	assert.Equal(clk.Name(), "uarta")
	_, err = c.Clock(3)
	assert.Error(err, car.ErrClockMissing)
	_, err = c.Clock(8)
	assert.Error(err, car.ErrInvalidID)

	c.ApplySkipList(car.SkipList{2})
	_, err = c.Clock(2)
	assert.Error(err, car.ErrClockUnregistered)
	assert.Error(g.Enable(), car.ErrClockUnregistered)
}

func TestGate(t *testing.T) {
	assert := test.Assert{t}
	c, s, _ := newController(t, 2, 8)
	osc := car.NewFixed("osc", 38400000)
	pllp := car.NewFixed("pll_p", 408000000)
	g := c.NewGate("sdmmc1", 46, 0)
	g.Parents = []string{"pll_p"}
	g.MaxRate = 208000000

	assert.False(g.IsEnabled())
	assert.Nil(g.Enable())
	assert.Nil(g.Enable())
	assert.True(g.IsEnabled())
	assert.True(s.Peek(car.ClkOutEnbH)&(1<<14) != 0)
	assert.Nil(g.Disable())
	assert.True(g.IsEnabled())
	assert.Nil(g.Disable())
	assert.False(g.IsEnabled())
	assert.Error(g.Disable(), car.ErrRefcountUnderflow)

	assert.Error(g.SetParent(osc), "sdmmc1: osc isn't a parent")
	assert.Nil(g.SetParent(pllp))
	assert.Equal(g.Parent().Name(), "pll_p")

	assert.Error(g.SetRate(408000000), "sdmmc1: rate 408000000 out of range")
	assert.Nil(g.SetRate(200000000))
	assert.Uint(g.Rate(), 200000000)

	assert.Nil(osc.SetRate(38400000))
	assert.Error(osc.SetRate(1), "osc: fixed rate 38400000")
	assert.Error(osc.SetParent(pllp), "osc: no parent")
}

func TestPllpOutCPU(t *testing.T) {
	assert := test.Assert{t}
	c, s, _ := newController(t, 7, 8)
	s.Poke(car.ClkOutEnbY, 0x3)
	assert.Nil(c.SetPllpOutCPU(true))
	assert.Uint(uint64(s.Peek(car.ClkOutEnbY)), car.PllpOutCPU|0x3)
	assert.Nil(c.SetPllpOutCPU(false))
	assert.Uint(uint64(s.Peek(car.ClkOutEnbY)), 0x3)

	c, _, _ = newController(t, 3, 8)
	assert.Error(c.SetPllpOutCPU(true), car.ErrInvalidBankCount)
}

func TestSuperCdivThermal(t *testing.T) {
	assert := test.Assert{t}
	c, _, _ := newController(t, 3, 8)
	assert.Error(c.SetSuperCdivThermal(true), car.ErrNoThermalControl)

	s := sim.New(3)
	c, err := car.New(car.Config{
		Regs:           s,
		Delay:          s,
		Banks:          3,
		Clocks:         8,
		ThermalControl: true,
	})
	assert.Nil(err)
	s.Poke(car.SuperCclkgDiv, 0x11)
	assert.Nil(c.SetSuperCdivThermal(true))
	assert.Uint(uint64(s.Peek(car.SuperCclkgDiv)), 1<<30|0x11)
	assert.Nil(c.SetSuperCdivThermal(false))
	assert.Uint(uint64(s.Peek(car.SuperCclkgDiv)), 0x11)
}
