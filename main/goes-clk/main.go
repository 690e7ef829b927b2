// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build linux
// +build linux

// This runs the clock and reset controller command.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/platinasystems/car/cmd"
	"github.com/platinasystems/car/cmd/clk"
)

func main() {
	var c cmd.Cmd = clk.Command{}
	args := os.Args[1:]
	if len(args) > 0 {
		switch strings.TrimLeft(args[0], "-") {
		case "help", "usage":
			fmt.Println("usage:", c.Usage())
			return
		case "man":
			fmt.Println(cmd.Man(c))
			return
		case "apropos":
			fmt.Println(c, "-", c.Apropos())
			return
		}
	}
	if err := c.Main(args...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
