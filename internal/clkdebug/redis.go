// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package clkdebug

import (
	"fmt"
	"time"

	redigo "github.com/garyburd/redigo/redis"
)

const Timeout = 500 * time.Millisecond

// Dial the redis server that collects the attributes.
func Dial(addr string) (redigo.Conn, error) {
	return redigo.Dial("tcp", addr,
		redigo.DialConnectTimeout(Timeout),
		redigo.DialReadTimeout(Timeout),
		redigo.DialWriteTimeout(Timeout))
}

// Field names clk.NAME.ATTR within the hash.
func Field(name, attr string) string {
	return fmt.Sprint("clk.", name, ".", attr)
}

// Publish sets every attribute in the hash and returns the number of fields
// set. A failed measurement publishes its error.
func Publish(conn redigo.Conn, hash string, attrs []*Attr) (n int, err error) {
	hset := func(name, attr string, v interface{}) {
		if err != nil {
			return
		}
		if _, err = conn.Do("HSET", hash, Field(name, attr), v); err == nil {
			n++
		}
	}
	for _, a := range attrs {
		name := a.Name()
		hset(name, "state", a.State())
		hset(name, "rate", a.Rate())
		hset(name, "parent", a.Parent())
		if a.HasPto() {
			if hz, perr := a.PtoRate(); perr != nil {
				hset(name, "pto_rate", perr.Error())
			} else {
				hset(name, "pto_rate", hz)
			}
		}
	}
	return
}
