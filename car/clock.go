// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

// Clock is the handle the clock framework keeps for each registered clock.
type Clock interface {
	Name() string
	Enable() error
	Disable() error
	IsEnabled() bool
	Rate() uint64
	SetRate(uint64) error
	Parent() Clock
	SetParent(Clock) error
}

// Provider is the clock framework that the registry publishes clocks to.
type Provider interface {
	AddLookup(dev, con string, c Clock) error
	Unregister(Clock)
}

// ResetController is the reset framework view of the reset lines.
type ResetController interface {
	Assert(id uint32) error
	Deassert(id uint32) error
	Reset(id uint32) error
	NumResets() uint32
}

// SpecialResets handles the reset ids that follow the banked ids.
type SpecialResets interface {
	Count() uint32
	Assert(id uint32) error
	Deassert(id uint32) error
}

// Clocks that are dropped from the registry drop their own state too.
type unregisterer interface {
	Unregister()
}

type nopProvider struct{}

func (nopProvider) AddLookup(string, string, Clock) error { return nil }
func (nopProvider) Unregister(Clock)                      {}
