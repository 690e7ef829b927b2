// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build linux
// +build linux

package clk

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/platinasystems/car/car"
	"github.com/platinasystems/car/car/sim"
	"github.com/platinasystems/car/clkdev"
	"github.com/platinasystems/car/cmd"
	"github.com/platinasystems/car/internal/clkdebug"
	"github.com/platinasystems/car/internal/test"
	"github.com/platinasystems/car/platform/soc1"
)

type run struct {
	test.Assert
	s   *sim.CAR
	out bytes.Buffer
}

func newRun(t *testing.T) *run {
	return &run{Assert: test.Assert{t}, s: sim.New(soc1.Banks)}
}

func (r *run) main(args ...string) (string, error) {
	r.out.Reset()
	err := Command{Stdout: &r.out, Sim: r.s}.Main(args...)
	return r.out.String(), err
}

func (r *run) ok(args ...string) string {
	r.Helper()
	s, err := r.main(args...)
	r.Nil(err)
	return s
}

func TestCommand(t *testing.T) {
	assert := test.Assert{t}
	var c cmd.Cmd = Command{}
	assert.Equal(c.String(), "clk")
	assert.True(cmd.WhatKind(c).IsDontFork())
	assert.Match(cmd.Man(c).String(), "publish")
}

func TestList(t *testing.T) {
	r := newRun(t)
	out := r.ok("-init", "list")
	r.Match(out, `^init: 11 applied, 0 skipped, 0 failed\n`)
	r.Match(out, "\n4\tuarta\t1\t408000000\tpll_p\n")
	r.Match(out, "\n0\tosc\t1\t38400000\t-\n")
	out = r.ok("-q", "-init", "list")
	r.False(strings.HasPrefix(out, "init:"))
	_, err := r.main("list", "extra")
	r.Error(err, ErrArgs)
}

func TestState(t *testing.T) {
	r := newRun(t)
	r.Equal(r.ok("state", "uartb"), "0\n")
	r.ok("-q", "-init", "state", "uartb", "0")
	r.Equal(r.ok("state", "uartb"), "0\n")
	r.ok("state", "uartb", "1")
	r.Equal(r.ok("state", "uartb"), "1\n")
	_, err := r.main("state", "uartb", "0")
	r.Error(err, car.ErrRefcountUnderflow)
	_, err = r.main("state", "uartb", "on")
	r.True(err != nil)
	_, err = r.main("state", "nosuch")
	r.Error(err, clkdev.ErrNotFound)
	_, err = r.main("state")
	r.Error(err, ErrArgs)
}

func TestRate(t *testing.T) {
	r := newRun(t)
	r.Equal(r.ok("rate", "usbd"), "480000000\n")
	r.ok("rate", "uarta", "1000000")
	_, err := r.main("rate", "uarta", "0")
	r.Match(fmt.Sprint(err), "out of range")
}

func TestParent(t *testing.T) {
	r := newRun(t)
	r.Equal(r.ok("parent", "uarta"), "\n")
	r.Equal(r.ok("-q", "-init", "parent", "uarta"), "pll_p\n")
	r.ok("parent", "uarta", "osc")
	_, err := r.main("parent", "uarta", "pll_c")
	r.Match(fmt.Sprint(err), "isn't a parent")
	_, err = r.main("parent", "uarta", "nosuch")
	r.Error(err, clkdev.ErrNotFound)
}

func TestPto(t *testing.T) {
	r := newRun(t)
	r.s.PtoTicks[0x45] = 1000
	r.Equal(r.ok("pto", "uarta"), fmt.Sprintln(car.PtoHz(1000)))
	_, err := r.main("pto", "osc")
	r.Error(err, clkdebug.ErrNoPto)
	r.s.PtoStuck = true
	_, err = r.main("pto", "uarta")
	r.Error(err, car.ErrMeasurementTimeout)
}

func TestResets(t *testing.T) {
	r := newRun(t)
	r.ok("assert", "3", "0x4")
	r.Uint(uint64(r.s.Peek(car.RstDevicesL)&0x18), 0x18)
	r.ok("deassert", "3", "4")
	r.Uint(uint64(r.s.Peek(car.RstDevicesL)&0x18), 0)
	r.ok("reset", fmt.Sprint(soc1.RstDfll))
	r.Uint(uint64(r.s.Peek(soc1.DfllReset)), 0)
	_, err := r.main("reset", "3", "4")
	r.Error(err, ErrArgs)
	_, err = r.main("assert", "x")
	r.True(err != nil)
	_, err = r.main("assert", fmt.Sprint(soc1.RstDfllRef+1))
	r.Error(err, car.ErrInvalidID)
}

func TestSuspend(t *testing.T) {
	r := newRun(t)
	r.ok("-q", "-init", "suspend")
	r.Uint(uint64(r.s.Peek(car.ClkOutEnbL)&(1<<6)), 1<<6)
}

func TestErrors(t *testing.T) {
	r := newRun(t)
	_, err := r.main()
	r.Error(err, ErrMissingOp)
	_, err = r.main("-sim", "frob")
	r.Error(err, ErrUnknownOp)
	_, err = r.main("publish", "extra")
	r.Error(err, ErrArgs)
}
