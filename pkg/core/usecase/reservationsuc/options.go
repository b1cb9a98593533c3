// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reservationsuc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the reservations use case.
type Option func(uc *UseCase) error

// WithDefaultPageLimit option configures the number of reservations
// which are listed when no limit is asked explicitly.
func WithDefaultPageLimit(limit int) Option {
	return func(uc *UseCase) error {
		if limit <= 0 {
			return fmt.Errorf("default page limit (%d) is not positive", limit)
		}
		if uc.defaultPageLimit != 0 {
			return errors.New("default page limit is already configured")
		}
		uc.defaultPageLimit = limit
		return nil
	}
}

// WithMaxPageLimit option configures the maximum number of reservations
// which may be listed in one page.
func WithMaxPageLimit(limit int) Option {
	return func(uc *UseCase) error {
		if limit <= 0 {
			return fmt.Errorf("max page limit (%d) is not positive", limit)
		}
		if uc.maxPageLimit != 0 {
			return errors.New("max page limit is already configured")
		}
		uc.maxPageLimit = limit
		return nil
	}
}
