// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer is a major.minor.patch version. The configuration file format
// and the database schema are versioned with it. A major increment
// breaks the readers of older versions, a minor increment only adds to
// the format, and a patch increment is invisible to readers.
type SemVer [3]uint

// ParseSemVer parses s as a dot separated version. Omitted components
// are zero, so "1" and "1.0" both mean 1.0.0.
func ParseSemVer(s string) (SemVer, error) {
	var sv SemVer
	parts := strings.Split(s, ".")
	if len(parts) > len(sv) {
		return SemVer{}, fmt.Errorf("version %q has too many components", s)
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return SemVer{}, fmt.Errorf(
				"version %q has a non-numeric %q component", s, p,
			)
		}
		sv[i] = uint(n)
	}
	return sv, nil
}

// UnmarshalText implements encoding.TextUnmarshaler with ParseSemVer.
// The sv receiver is left unchanged on errors.
func (sv *SemVer) UnmarshalText(text []byte) error {
	v, err := ParseSemVer(string(text))
	if err != nil {
		return err
	}
	*sv = v
	return nil
}

// Reads reports whether a reader of the sv version can read data which
// were written with the w version. Both must share the major version
// and w may not have a newer minor version.
func (sv SemVer) Reads(w SemVer) bool {
	return sv[0] == w[0] && w[1] <= sv[1]
}

// String returns sv as major.minor.patch.
func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}
