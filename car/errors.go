// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package car

import "errors"

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrOutOfMemory        = errors.New("out of memory")
	ErrInvalidBankCount   = errors.New("invalid bank count")
	ErrRefcountUnderflow  = errors.New("refcount underflow")
	ErrSkipListMalformed  = errors.New("malformed skip list")
	ErrClockUnregistered  = errors.New("clock unregistered")
	ErrClockMissing       = errors.New("clock missing")
	ErrParentSetFailed    = errors.New("parent set failed")
	ErrRateSetFailed      = errors.New("rate set failed")
	ErrRateConflict       = errors.New("rate conflict")
	ErrEnableFailed       = errors.New("enable failed")
	ErrMeasurementTimeout = errors.New("measurement timeout")
	ErrInvalidDivider     = errors.New("invalid divider")
	ErrNoSnapshot         = errors.New("resume without suspend")
	ErrSpecialResetsSet   = errors.New("special resets already set")
	ErrNoThermalControl   = errors.New("no thermal control")
)
