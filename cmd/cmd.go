// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd describes the commands of a goes style program.
package cmd

import "github.com/platinasystems/car/lang"

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Kind() Kind
	Man() lang.Alt
	*/
}

// DontFork commands run in the calling process.
const DontFork Kind = 1

// WhatKind returns the optional Kind of the command or zero.
func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

// Man returns the optional manual or the apropos.
func Man(v Cmd) lang.Alt {
	if m, found := v.(manner); found {
		return m.Man()
	}
	return v.Apropos()
}

type kinder interface {
	Kind() Kind
}

type manner interface {
	Man() lang.Alt
}

type Kind uint16

func (k Kind) IsDontFork() bool { return k&DontFork == DontFork }
