// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithMinYear option configures the oldest acceptable manufacturing
// year of cars. This option may be passed to the New() function.
func WithMinYear(year int) Option {
	return func(uc *UseCase) error {
		if year < 1886 {
			return fmt.Errorf("min year (%d) is before 1886", year)
		}
		if uc.minYear != 0 {
			return errors.New("min year is already configured")
		}
		uc.minYear = year
		return nil
	}
}

// WithPageLimits option configures the default and maximum number of
// cars which may be listed in one page.
func WithPageLimits(defaultLimit, maxLimit int) Option {
	return func(uc *UseCase) error {
		if defaultLimit <= 0 || defaultLimit > maxLimit {
			return fmt.Errorf(
				"page limits (%d, %d) are not in order",
				defaultLimit, maxLimit,
			)
		}
		uc.defaultPageLimit = defaultLimit
		uc.maxPageLimit = maxLimit
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// finding the current year.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}
