// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM or JSON
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Car models a rentable car. A car owns its accessories exclusively,
// while reservations refer to a car by its ID without being owned by
// the car model.
//
// The ValuePerDay is kept as a decimal number, so prices which are
// computed from it do not suffer from floating point rounding.
type Car struct {
	ID                 uuid.UUID       `json:"id"`
	Model              string          `json:"model"`
	Color              string          `json:"color"`
	Year               string          `json:"year"` // four digits
	ValuePerDay        decimal.Decimal `json:"value_per_day"`
	NumberOfPassengers int             `json:"number_of_passengers"`
	Accessories        []Accessory     `json:"accessories"`
}

// Accessory is an optional item of a car, like air conditioning.
// Descriptions of accessories of one car are unique.
type Accessory struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
}

// Price computes the final value of renting c during the r range.
// The per-day value is multiplied by the number of billable days.
func (c *Car) Price(r DateRange) decimal.Decimal {
	return c.ValuePerDay.Mul(decimal.NewFromInt(int64(r.Days())))
}

// AssignAccessoryIDs gives a fresh ID to every accessory which has
// none, so accessories which are kept during an update preserve their
// identity while new ones become addressable.
func (c *Car) AssignAccessoryIDs() {
	for i := range c.Accessories {
		if c.Accessories[i].ID == uuid.Nil {
			c.Accessories[i].ID = uuid.New()
		}
	}
}
