// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package lang selects command text by the LANG environment variable.
package lang

import "os"

const (
	DeDE = "de_DE.UTF-8"
	EnUS = "en_US.UTF-8"
	FrFR = "fr_FR.UTF-8"
)

var Default = EnUS

type Alt map[string]string

// If available, this returns text in the prefered language.
func (m Alt) String() string {
	for _, lang := range []string{os.Getenv("LANG"), Default, EnUS} {
		if s, found := m[lang]; found {
			return s
		}
	}
	return ""
}
