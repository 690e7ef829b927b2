// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fdtskip reads the clock skip list from a flattened device tree.
package fdtskip

import (
	"encoding/binary"
	"fmt"

	"github.com/platinasystems/car/car"
	"github.com/platinasystems/fdt"
	"github.com/platinasystems/log"
)

// Property is the default name of the skip list property.
const Property = "car,ignore-clks"

// ByNode returns the skip list property of the named node. A tree without
// the node or property has an empty list.
func ByNode(dtb []byte, node, prop string) (car.SkipList, error) {
	return read(dtb, prop, func(t *fdt.Tree, f func(*fdt.Node)) {
		t.MatchNode(node, f)
	})
}

// ByCompatible returns the skip list property of the first node compatible
// with the given string.
func ByCompatible(dtb []byte, compatible, prop string) (car.SkipList, error) {
	return read(dtb, prop, func(t *fdt.Tree, f func(*fdt.Node)) {
		t.EachProperty("compatible", compatible,
			func(n *fdt.Node, _, _ string) {
				f(n)
			})
	})
}

func read(dtb []byte, prop string,
	each func(*fdt.Tree, func(*fdt.Node))) (l car.SkipList, err error) {
	defer func() {
		if r := recover(); r != nil {
			l = car.SkipList{}
			err = fmt.Errorf("fdt: %v", r)
		}
	}()
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err = t.Parse(dtb); err != nil {
		return car.SkipList{}, fmt.Errorf("fdt: %w", err)
	}
	if t.RootNode == nil {
		return car.SkipList{}, fmt.Errorf("fdt: no root node")
	}
	var (
		b     []byte
		found bool
	)
	each(t, func(n *fdt.Node) {
		if found {
			return
		}
		b, found = n.Properties[prop]
	})
	if !found {
		return car.SkipList{}, nil
	}
	l, err = car.ParseSkipList(b, binary.BigEndian)
	if err != nil {
		log.Print("err", "clk: invalid ", prop, " property len: ",
			len(b))
	}
	return
}
