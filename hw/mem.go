// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build linux
// +build linux

package hw

import (
	"fmt"
	"os"
	"sync/atomic"
	"syscall"
	"unsafe"
)

const DevMem = "/dev/mem"

// Mem is a Window onto physical memory.
type Mem struct {
	Base uintptr
	mem  []byte
	f    *os.File
}

// Map the physical region [base, base+size) from the named device, usually
// DevMem.
func Map(name string, base uintptr, size uint) (m *Mem, err error) {
	m = &Mem{Base: base}
	defer func() {
		if err != nil {
			m.Close()
			m = nil
		}
	}()
	m.f, err = os.OpenFile(name, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return
	}
	m.mem, err = syscall.Mmap(int(m.f.Fd()), int64(base), int(size),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		err = fmt.Errorf("mmap %s@0x%x: %s", name, base, err)
	}
	return
}

func (m *Mem) Close() (err error) {
	if m.mem != nil {
		err = syscall.Munmap(m.mem)
		m.mem = nil
	}
	if m.f != nil {
		m.f.Close()
		m.f = nil
	}
	return
}

// Size of the mapped region in bytes.
func (m *Mem) Size() uint { return uint(len(m.mem)) }

func (m *Mem) reg(off uint32) *uint32 {
	if int(off)+4 > len(m.mem) || off&3 != 0 {
		panic(fmt.Errorf("0x%x: invalid register offset 0x%x",
			m.Base, off))
	}
	return (*uint32)(unsafe.Pointer(&m.mem[off]))
}

func (m *Mem) Load32(off uint32) uint32 { return atomic.LoadUint32(m.reg(off)) }

func (m *Mem) Store32(off uint32, v uint32) { atomic.StoreUint32(m.reg(off), v) }
