// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/model"
)

type CarsConnQueryer interface {
	CarsQueryer
}

type CarsTxQueryer interface {
	CarsQueryer
}

// CarsQueryer lists operations of the cars repository.
// Methods which look up a car by its ID return a cerr NotFound error
// with the "car" subject if it does not exist.
type CarsQueryer interface {
	// Create inserts c, including its accessories. The c.ID and IDs
	// of its accessories must be assigned by the caller.
	Create(ctx context.Context, c *model.Car) error

	Get(ctx context.Context, id uuid.UUID) (*model.Car, error)

	// Update replaces all attributes of the c.ID car, including its
	// accessories list, by the c attributes.
	Update(ctx context.Context, c *model.Car) error

	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the p page of cars which match all preds, and the
	// total number of matching cars.
	List(
		ctx context.Context, preds []model.Predicate, p model.Page,
	) (cars []model.Car, total int64, err error)
}

type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
