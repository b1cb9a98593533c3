// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the users use case.
type Option func(uc *UseCase) error

// WithMinimumAge option configures the minimum age of users in years.
func WithMinimumAge(years int) Option {
	return func(uc *UseCase) error {
		if years <= 0 {
			return fmt.Errorf("minimum age (%d) is not positive", years)
		}
		if uc.minimumAge != 0 {
			return errors.New("minimum age is already configured")
		}
		uc.minimumAge = years
		return nil
	}
}

// WithHashIterations option configures the number of PBKDF2 iterations
// which are used when hashing passwords. At least 4096 iterations are
// required.
func WithHashIterations(iters int) Option {
	return func(uc *UseCase) error {
		if iters < 4096 {
			return fmt.Errorf("iterations (%d) is less than 4096", iters)
		}
		uc.hashIterations = iters
		return nil
	}
}

// WithPageLimits option configures the default and maximum number of
// users which may be listed in one page.
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
// computing ages of users.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}
