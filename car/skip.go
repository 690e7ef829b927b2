// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

import (
	"encoding/binary"
	"fmt"

	"github.com/platinasystems/log"
)

// SkipList holds the clock ids removed from the registry before anything
// else sees them.
type SkipList []uint32

// ParseSkipList decodes a list of 32 bit ids. A length that isn't a
// multiple of the id width discards the whole list.
func ParseSkipList(b []byte, order binary.ByteOrder) (SkipList, error) {
	if len(b)%4 != 0 {
		return SkipList{}, fmt.Errorf("length %d: %w", len(b),
			ErrSkipListMalformed)
	}
	l := make(SkipList, len(b)/4)
	for i := range l {
		l[i] = order.Uint32(b[4*i:])
	}
	return l, nil
}

func (l SkipList) Has(id uint32) bool {
	for _, x := range l {
		if x == id {
			return true
		}
	}
	return false
}

// ApplySkipList unregisters each listed clock and empties its slot. It must
// run before the init table and aliases. Ids that are out of range or
// aren't registered are logged and ignored. It returns the number of clocks
// removed.
func (c *Controller) ApplySkipList(l SkipList) (n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skipped = append(SkipList{}, l...)
	for _, id := range l {
		if id >= uint32(len(c.clks)) {
			log.Print("err", "clk: ignoring invalid ignored clk id: ",
				id)
			continue
		}
		if c.slots[id] != slotValid {
			log.Print("err",
				"clk: ignoring unregistered ignored clk id: ", id)
			continue
		}
		clk := c.clks[id]
		c.provider.Unregister(clk)
		if u, ok := clk.(unregisterer); ok {
			u.Unregister()
		}
		c.clks[id] = nil
		c.slots[id] = slotRemoved
		n++
	}
	return
}

// IsSkipped reports whether the id was in the applied skip list.
func (c *Controller) IsSkipped(id uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skipped.Has(id)
}
