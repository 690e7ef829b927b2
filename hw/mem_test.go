// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build linux
// +build linux

package hw

import "testing"

func TestMapMissing(t *testing.T) {
	m, err := Map("/nonexistent/mem", 0, 0x1000)
	if err == nil || m != nil {
		t.Error("expected error")
	}
}
