// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build linux
// +build linux

// Package clk is the operator command of the clock and reset controller.
package clk

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/car/car"
	"github.com/platinasystems/car/car/sim"
	"github.com/platinasystems/car/cmd"
	"github.com/platinasystems/car/hw"
	"github.com/platinasystems/car/internal/clkdebug"
	"github.com/platinasystems/car/internal/fdtskip"
	"github.com/platinasystems/car/lang"
	"github.com/platinasystems/car/platform/soc1"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
)

const (
	DefaultRedis = "127.0.0.1:6379"
	DefaultHash  = "platina"
)

var (
	ErrMissingOp = errors.New("missing operation")
	ErrUnknownOp = errors.New("unknown operation")
	ErrArgs      = errors.New("wrong number of arguments")
)

type Command struct {
	// Stdout defaults to os.Stdout.
	Stdout io.Writer
	// Sim, if set, replaces the mapped registers with this simulation.
	Sim *sim.CAR
}

type session struct {
	*soc1.Platform
	w      io.Writer
	attrs  []*clkdebug.Attr
	parm   *parms.Parms
	closer func()
}

func (Command) String() string { return "clk" }

func (Command) Usage() string {
	return "clk [-sim] [-init] [-q] [-base ADDR] [-size BYTES] [-misc ADDR] [-dtb FILE] [-redis ADDR] [-hash NAME] OP [ARGS]..."
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "peripheral clock and reset control",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Show and change peripheral clocks and resets of the clock and reset
	controller.

OPERATIONS
	list			id, name, state, rate and parent of each clock
	state NAME [0|1]	show or change the enable state
	rate NAME [HZ]		show or change the rate
	parent NAME [PARENT]	show or change the parent
	pto NAME		measure the clock rate
	assert ID...		assert resets
	deassert ID...		deassert resets
	reset ID		pulse a reset
	suspend			save then restore enables and resets
	publish			set clk.NAME.ATTR fields of the redis hash

OPTIONS
	-sim	simulate the registers
	-init	apply the init table before the operation
	-q	quiet
	-base	controller address (default 0x60006000)
	-size	controller region size (default 0x1000)
	-misc	misc register address (default 0x70000000)
	-dtb	device tree blob with the car,ignore-clks skip list
	-redis	server address (default 127.0.0.1:6379)
	-hash	redis hash (default platina)`,
	}
}

func (Command) Kind() cmd.Kind { return cmd.DontFork }

func (c Command) Main(args ...string) error {
	flag, args := flags.New(args, "-sim", "-init", "-q")
	parm, args := parms.New(args, "-base", "-size", "-misc", "-dtb",
		"-redis", "-hash")
	if len(args) == 0 {
		return fmt.Errorf("%s: %w", c, ErrMissingOp)
	}
	s, err := c.open(flag.ByName["-sim"], parm)
	if err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	defer s.closer()
	skip, err := s.skipList(parm.ByName["-dtb"])
	if err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	if flag.ByName["-init"] {
		r := s.Boot(skip)
		if !flag.ByName["-q"] {
			fmt.Fprintln(s.w, "init:", r)
		}
	} else {
		s.ApplySkipList(skip)
		s.RegisterDevClks(soc1.DevClks)
	}
	s.attrs = clkdebug.New(s.Controller, s.Lookup, soc1.PTOs)
	op, ok := ops[args[0]]
	if !ok {
		return fmt.Errorf("%s: %s: %w", c, args[0], ErrUnknownOp)
	}
	if err = op(s, args[1:]); err != nil {
		return fmt.Errorf("%s %s: %w", c, args[0], err)
	}
	return nil
}

func (c Command) open(simulate bool, parm *parms.Parms) (*session, error) {
	s := &session{
		w:      c.Stdout,
		parm:   parm,
		closer: func() {},
	}
	if s.w == nil {
		s.w = os.Stdout
	}
	cfg := soc1.Config{RegsSize: car.RegionSize}
	switch {
	case c.Sim != nil:
		cfg.Regs, cfg.Delay = c.Sim, c.Sim
	case simulate:
		regs := sim.New(soc1.Banks)
		cfg.Regs, cfg.Delay = regs, regs
	default:
		base, err := address(parm.ByName["-base"], soc1.CarBase)
		if err != nil {
			return nil, err
		}
		size, err := address(parm.ByName["-size"], car.RegionSize)
		if err != nil {
			return nil, err
		}
		misc, err := address(parm.ByName["-misc"], soc1.MiscBase)
		if err != nil {
			return nil, err
		}
		regs, err := hw.Map("car", uintptr(base), uint(size))
		if err != nil {
			return nil, err
		}
		mregs, err := hw.Map("misc", uintptr(misc), car.MiscRegionSize)
		if err != nil {
			regs.Close()
			return nil, err
		}
		s.closer = func() {
			mregs.Close()
			regs.Close()
		}
		cfg.Regs, cfg.RegsSize, cfg.Misc = regs, regs.Size(), mregs
		cfg.Delay = hw.Sleep{}
	}
	p, err := soc1.New(cfg)
	if err != nil {
		s.closer()
		return nil, err
	}
	s.Platform = p
	return s, nil
}

func address(s string, def uint64) (uint64, error) {
	if len(s) == 0 {
		return def, nil
	}
	return strconv.ParseUint(s, 0, 64)
}

func (s *session) skipList(fn string) (car.SkipList, error) {
	if len(fn) == 0 {
		return nil, nil
	}
	dtb, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	l, err := fdtskip.ByCompatible(dtb, soc1.Compatible, fdtskip.Property)
	if errors.Is(err, car.ErrSkipListMalformed) {
		log.Print("daemon", "warning", fn, ": ", err)
		err = nil
	}
	return l, err
}

func (s *session) attr(name string) (*clkdebug.Attr, error) {
	return clkdebug.Find(s.attrs, name)
}

var ops = map[string]func(*session, []string) error{
	"list":     (*session).list,
	"state":    (*session).state,
	"rate":     (*session).rate,
	"parent":   (*session).parent,
	"pto":      (*session).pto,
	"assert":   (*session).assert,
	"deassert": (*session).deassert,
	"reset":    (*session).reset,
	"suspend":  (*session).suspend,
	"publish":  (*session).publish,
}

func (s *session) list(args []string) error {
	if len(args) != 0 {
		return ErrArgs
	}
	w := s.w
	var tw *tabwriter.Writer
	if f, ok := s.w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		tw = tabwriter.NewWriter(s.w, 0, 8, 1, ' ', 0)
		w = tw
		fmt.Fprintln(w, "ID\tNAME\tSTATE\tRATE\tPARENT")
	}
	for _, a := range s.attrs {
		parent := a.Parent()
		if len(parent) == 0 {
			parent = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", a.ID, a.Name(), a.State(),
			a.Rate(), parent)
	}
	if tw != nil {
		return tw.Flush()
	}
	return nil
}

// nameAndValue checks for NAME [VALUE].
func (s *session) nameAndValue(args []string) (*clkdebug.Attr, string, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, "", ErrArgs
	}
	a, err := s.attr(args[0])
	if err != nil {
		return nil, "", err
	}
	if len(args) == 2 {
		return a, args[1], nil
	}
	return a, "", nil
}

func (s *session) state(args []string) error {
	a, v, err := s.nameAndValue(args)
	if err != nil || len(v) == 0 {
		if err == nil {
			fmt.Fprintln(s.w, a.State())
		}
		return err
	}
	u, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return err
	}
	return a.SetState(u)
}

func (s *session) rate(args []string) error {
	a, v, err := s.nameAndValue(args)
	if err != nil || len(v) == 0 {
		if err == nil {
			fmt.Fprintln(s.w, a.Rate())
		}
		return err
	}
	u, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return err
	}
	return a.SetRate(u)
}

func (s *session) parent(args []string) error {
	a, v, err := s.nameAndValue(args)
	if err != nil || len(v) == 0 {
		if err == nil {
			fmt.Fprintln(s.w, a.Parent())
		}
		return err
	}
	return a.SetParent(v)
}

func (s *session) pto(args []string) error {
	if len(args) != 1 {
		return ErrArgs
	}
	a, err := s.attr(args[0])
	if err != nil {
		return err
	}
	hz, err := a.PtoRate()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.w, hz)
	return nil
}

func ids(args []string) ([]uint32, error) {
	if len(args) == 0 {
		return nil, ErrArgs
	}
	l := make([]uint32, len(args))
	for i, arg := range args {
		u, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return nil, err
		}
		l[i] = uint32(u)
	}
	return l, nil
}

func (s *session) assert(args []string) error {
	l, err := ids(args)
	if err != nil {
		return err
	}
	return s.AssertV(l...)
}

func (s *session) deassert(args []string) error {
	l, err := ids(args)
	if err != nil {
		return err
	}
	return s.DeassertV(l...)
}

func (s *session) reset(args []string) error {
	if len(args) != 1 {
		return ErrArgs
	}
	l, err := ids(args)
	if err != nil {
		return err
	}
	return s.Reset(l[0])
}

func (s *session) suspend(args []string) error {
	if len(args) != 0 {
		return ErrArgs
	}
	s.Suspend()
	return s.Resume()
}

func (s *session) publish(args []string) error {
	if len(args) != 0 {
		return ErrArgs
	}
	addr := s.parm.ByName["-redis"]
	if len(addr) == 0 {
		addr = DefaultRedis
	}
	hash := s.parm.ByName["-hash"]
	if len(hash) == 0 {
		hash = DefaultHash
	}
	conn, err := clkdebug.Dial(addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	n, err := clkdebug.Publish(conn, hash, s.attrs)
	if err == nil {
		fmt.Fprintln(s.w, "published", n, "fields to", hash)
	}
	return err
}
