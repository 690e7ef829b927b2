// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package hw

import "time"

// Sleep is the wall clock Delayer.
type Sleep struct{}

func (Sleep) Udelay(us uint) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
