// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings contains the value types and checks which the
// config package needs while it decodes and validates the YAML
// settings of flweb. Optional settings are kept as pointers, so an
// absent key can be told apart from a zero value and be filled by
// Default.
package settings

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Duration is a time.Duration which is written in YAML files with the
// time.ParseDuration format, e.g., 90s or 2h30m.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler. The `d` receiver
// is updated only if data could be parsed.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// String formats d without its zero trailing units, so 2h0m0s and
// 5m0s are written as 2h and 5m.
func (d Duration) String() string {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// Default makes (*p) point to a copy of def if it is nil.
func Default[T any](p **T, def T) {
	if *p == nil {
		*p = &def
	}
}

// RangeError reports a setting Value which is less than its Min or
// greater than its Max boundary.
type RangeError[T cmp.Ordered] struct {
	Value    T
	Min, Max *T
}

// Error implements the error interface.
func (e *RangeError[T]) Error() string {
	if e.Min != nil && e.Value < *e.Min {
		return fmt.Sprintf("%v is less than %v", e.Value, *e.Min)
	}
	return fmt.Sprintf("%v is greater than %v", e.Value, *e.Max)
}

// Within returns a *RangeError if v is not nil and its value is out
// of the [minb, maxb] range. A nil boundary is not checked.
func Within[T cmp.Ordered](v, minb, maxb *T) error {
	if v == nil {
		return nil
	}
	if (minb != nil && *v < *minb) || (maxb != nil && *v > *maxb) {
		return &RangeError[T]{Value: *v, Min: minb, Max: maxb}
	}
	return nil
}
