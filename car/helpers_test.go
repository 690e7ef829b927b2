// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car_test

import (
	"sync"
	"testing"

	"github.com/platinasystems/car/car"
	"github.com/platinasystems/car/car/sim"
	"github.com/platinasystems/car/internal/test"
)

func newController(t *testing.T, banks, clocks int) (*car.Controller,
	*sim.CAR, *provider) {
	t.Helper()
	s := sim.New(banks)
	p := newProvider()
	c, err := car.New(car.Config{
		Regs:     s,
		RegsSize: car.RegionSize,
		Delay:    s,
		Banks:    banks,
		Clocks:   clocks,
		Provider: p,
	})
	test.Assert{t}.Nil(err)
	return c, s, p
}

type lookup struct {
	dev, con string
	clk      car.Clock
}

type provider struct {
	mu           sync.Mutex
	lookups      []lookup
	unregistered []car.Clock
}

func newProvider() *provider { return &provider{} }

func (p *provider) AddLookup(dev, con string, c car.Clock) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lookups = append(p.lookups, lookup{dev, con, c})
	return nil
}

func (p *provider) Unregister(c car.Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unregistered = append(p.unregistered, c)
}

func (p *provider) get(dev, con string) car.Clock {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range p.lookups {
		if l.dev == dev && l.con == con {
			return l.clk
		}
	}
	return nil
}

type special struct {
	n        uint32
	err      error
	asserted []uint32
	cleared  []uint32
}

func (s *special) Count() uint32 { return s.n }

func (s *special) Assert(id uint32) error {
	s.asserted = append(s.asserted, id)
	return s.err
}

func (s *special) Deassert(id uint32) error {
	s.cleared = append(s.cleared, id)
	return s.err
}
