// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package sim provides a register level model of the CAR block with a
// virtual microsecond clock. Set and clear strobes act on their bank
// registers and the PTO counter answers with programmed tick counts.
package sim

import (
	"fmt"
	"sync"

	"github.com/platinasystems/car/car"
)

// An Event is one logged register access.
type Event struct {
	Us    uint64
	Write bool
	Off   uint32
	Val   uint32
}

func (e Event) String() string {
	op := "r"
	if e.Write {
		op = "w"
	}
	return fmt.Sprintf("%8dus %s 0x%03x 0x%08x", e.Us, op, e.Off, e.Val)
}

type strobe struct {
	reg uint32
	set bool
}

// CAR implements hw.Window and hw.Delayer.
type CAR struct {
	// PtoTicks is the raw count reported for each PTO source;
	// PtoBusyPolls is how many status reads stay busy after a trigger.
	// A stuck counter never leaves busy.
	PtoTicks     map[uint32]uint32
	PtoBusyPolls int
	PtoStuck     bool

	mu      sync.Mutex
	regs    map[uint32]uint32
	strobes map[uint32]strobe
	now     uint64
	events  []Event
	busy    int
	ticks   uint32
}

// New models the first n banks.
func New(n int) *CAR {
	s := &CAR{
		PtoTicks: make(map[uint32]uint32),
		regs:     make(map[uint32]uint32),
		strobes:  make(map[uint32]strobe),
	}
	for _, b := range car.Banks[:n] {
		s.strobes[b.EnableSet] = strobe{b.Enable, true}
		s.strobes[b.EnableClear] = strobe{b.Enable, false}
		s.strobes[b.ResetSet] = strobe{b.Reset, true}
		s.strobes[b.ResetClear] = strobe{b.Reset, false}
	}
	return s
}

func (s *CAR) Load32(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.regs[off]
	if off == car.PtoStatus {
		switch {
		case s.PtoStuck:
			v = car.PtoBusy
		case s.busy > 0:
			s.busy--
			v = car.PtoBusy
		default:
			v = s.ticks & car.PtoCounter
		}
	}
	s.events = append(s.events, Event{s.now, false, off, v})
	return v
}

func (s *CAR) Store32(off uint32, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{s.now, true, off, v})
	if st, found := s.strobes[off]; found {
		if st.set {
			s.regs[st.reg] |= v
		} else {
			s.regs[st.reg] &^= v
		}
		return
	}
	s.regs[off] = v
	if off == car.PtoCtrl && v&car.PtoTrigger != 0 {
		src := (v >> car.PtoSourceShift) & 0x1ff
		s.ticks = s.PtoTicks[src]
		s.busy = s.PtoBusyPolls
	}
}

// Udelay advances the virtual clock.
func (s *CAR) Udelay(us uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now += uint64(us)
}

// Now is the virtual time in microseconds.
func (s *CAR) Now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Peek reads a register without logging.
func (s *CAR) Peek(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[off]
}

// Poke writes a register without logging or strobe side effects.
func (s *CAR) Poke(off uint32, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[off] = v
}

// Events returns a copy of the access log.
func (s *CAR) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Writes returns the logged writes, optionally only those to the given
// offsets.
func (s *CAR) Writes(offs ...uint32) (w []Event) {
	for _, e := range s.Events() {
		if !e.Write {
			continue
		}
		if len(offs) == 0 {
			w = append(w, e)
			continue
		}
		for _, off := range offs {
			if e.Off == off {
				w = append(w, e)
				break
			}
		}
	}
	return
}

// Reads counts the logged reads of off.
func (s *CAR) Reads(off uint32) (n int) {
	for _, e := range s.Events() {
		if !e.Write && e.Off == off {
			n++
		}
	}
	return
}

// Clear the access log.
func (s *CAR) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}
