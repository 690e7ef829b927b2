// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package hw provides memory mapped register windows and settle delays.
package hw

import "fmt"

// A Window is a 32 bit register region addressed by byte offset.
type Window interface {
	Load32(off uint32) uint32
	Store32(off uint32, v uint32)
}

// A Delayer busy waits or sleeps for the given microseconds.
type Delayer interface {
	Udelay(us uint)
}

// CheckRegion verifies that a mapped region covers the layout it serves.
func CheckRegion(name string, got, want uint) error {
	if got < want {
		return fmt.Errorf("%s: region 0x%x < 0x%x", name, got, want)
	}
	return nil
}
