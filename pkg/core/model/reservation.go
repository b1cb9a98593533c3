// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reservation books the CarID car for the UserID user during the
// closed [StartDate, EndDate] interval. It refers to both of them by
// their IDs and does not embed their models.
//
// Two reservations of the same car (or of the same user) never
// overlap. The FinalValue is computed by the reservations use case
// whenever a reservation is created or updated.
type Reservation struct {
	ID         uuid.UUID       `json:"id"`
	StartDate  Date            `json:"start_date"`
	EndDate    Date            `json:"end_date"`
	UserID     uuid.UUID       `json:"user_id"`
	CarID      uuid.UUID       `json:"car_id"`
	FinalValue decimal.Decimal `json:"final_value"`
}

// Range returns the dates interval of r.
func (r *Reservation) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// ConflictsWith reports whether r overlaps dr. Callers should exclude
// the reservation which is being updated beforehand.
func (r *Reservation) ConflictsWith(dr DateRange) bool {
	return r.Range().Overlaps(dr)
}
