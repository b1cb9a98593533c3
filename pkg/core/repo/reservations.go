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

type ReservationsConnQueryer interface {
	ReservationsQueryer
}

type ReservationsTxQueryer interface {
	ReservationsQueryer

	// Clear removes all reservations. It is used for resetting a
	// store between tests and by the development data initializer.
	Clear(ctx context.Context) error
}

// ReservationsQueryer lists operations of the reservations repository.
//
// Methods which look up a reservation by its ID return a cerr NotFound
// error with the "reservation" subject if it does not exist.
// A store may guard the no-overlap invariant itself. In that case,
// Create and Update return a cerr Conflict error (with the "car" or
// "user" subject) when the guard rejects a write, and a cerr NotFound
// error when the referenced car or user does not exist.
type ReservationsQueryer interface {
	// Create inserts r. The r.ID must be assigned by the caller.
	Create(ctx context.Context, r *model.Reservation) error

	Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)

	// Update replaces all attributes of the r.ID reservation.
	Update(ctx context.Context, r *model.Reservation) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser returns all reservations of the userID user.
	ListByUser(
		ctx context.Context, userID uuid.UUID,
	) ([]model.Reservation, error)

	// ListByCar returns all reservations of the carID car.
	ListByCar(
		ctx context.Context, carID uuid.UUID,
	) ([]model.Reservation, error)

	// List returns the p page of reservations which match all preds,
	// and the total number of matching reservations. Items are
	// ordered by their start dates and then IDs.
	List(
		ctx context.Context, preds []model.Predicate, p model.Page,
	) (rs []model.Reservation, total int64, err error)
}

type Reservations interface {
	Conn(Conn) ReservationsConnQueryer
	Tx(Tx) ReservationsTxQueryer
}
