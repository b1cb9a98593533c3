// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reservationsuc contains the reservations UseCase which
// admits new or updated reservations. A reservation is admitted if its
// car and user exist, the user is qualified to drive, its dates form a
// valid range, and that range overlaps no other reservation of the same
// user or the same car. Admitted reservations are priced by the daily
// value of their car.
//
// Each admission runs in one store transaction, so the conflict checks
// and the write observe the same store state. A store which guards the
// no-overlap invariant itself may still reject a write and that
// rejection is returned as a cerr Conflict error too.
package reservationsuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// UseCase represents the reservations use case. It holds a store
// connection pool and the cars, users, and reservations repositories.
type UseCase struct {
	pool           repo.Pool
	carsrp         repo.Cars
	usersrp        repo.Users
	reservationsrp repo.Reservations

	defaultPageLimit int
	maxPageLimit     int
}

// New instantiates a reservations use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool,
	c repo.Cars,
	u repo.Users,
	r repo.Reservations,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:           p,
		carsrp:         c,
		usersrp:        u,
		reservationsrp: r,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.maxPageLimit == 0 {
		uc.maxPageLimit = 100
	}
	if uc.defaultPageLimit == 0 {
		uc.defaultPageLimit = min(10, uc.maxPageLimit)
	}
	if uc.defaultPageLimit > uc.maxPageLimit {
		return nil, fmt.Errorf(
			"default page limit (%d) exceeds the max page limit (%d)",
			uc.defaultPageLimit, uc.maxPageLimit,
		)
	}
	return uc, nil
}

// Create use case admits a new reservation of the carID car for the
// userID user during the dates which are given by start and end
// strings in the DD/MM/YYYY format.
//
// Checks are performed in order and the first failing one is returned
// as the cerr NotFound error (with the "car" or "user" subject), the
// cerr Unqualified error, the cerr InvalidDate or InvalidRange error,
// or the cerr Conflict error (with the "user" subject if the user has
// an overlapping reservation, otherwise with the "car" subject).
// No reservation is written when a check fails.
func (rs *UseCase) Create(
	ctx context.Context, userID, carID uuid.UUID, start, end string,
) (res *model.Reservation, err error) {
	r := &model.Reservation{ID: uuid.New(), UserID: userID, CarID: carID}
	err = rs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := rs.admit(ctx, tx, r, start, end); err != nil {
				return err
			}
			return rs.reservationsrp.Tx(tx).Create(ctx, r)
		})
	})
	if err != nil {
		return nil, failure(ctx, "creating reservation", err)
	}
	log.Info(
		ctx, "reservation is created",
		log.UUID("id", r.ID),
		log.UUID("user", r.UserID),
		log.UUID("car", r.CarID),
		log.Valuer("range", r.Range()),
	)
	return r, nil
}

// Update use case re-admits the id reservation with the given
// attributes, preserving its identity. It fails with a cerr NotFound
// error with the "reservation" subject if id does not exist, and
// otherwise performs the same checks as Create. The id reservation
// itself is excluded from the conflict checks, so a reservation may be
// updated to its current dates.
func (rs *UseCase) Update(
	ctx context.Context,
	id, userID, carID uuid.UUID,
	start, end string,
) (res *model.Reservation, err error) {
	r := &model.Reservation{ID: id, UserID: userID, CarID: carID}
	err = rs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := rs.reservationsrp.Tx(tx)
			if _, err := q.Get(ctx, id); err != nil {
				return err
			}
			if err := rs.admit(ctx, tx, r, start, end); err != nil {
				return err
			}
			return q.Update(ctx, r)
		})
	})
	if err != nil {
		return nil, failure(ctx, "updating reservation", err)
	}
	log.Info(
		ctx, "reservation is updated",
		log.UUID("id", r.ID),
		log.Valuer("range", r.Range()),
	)
	return r, nil
}

// admit checks whether r may be written with the start and end dates.
// On success, it fills the dates and the final value of r.
func (rs *UseCase) admit(
	ctx context.Context,
	tx repo.Tx,
	r *model.Reservation,
	start, end string,
) error {
	car, err := rs.carsrp.Tx(tx).Get(ctx, r.CarID)
	if err != nil {
		return err
	}
	user, err := rs.usersrp.Tx(tx).Get(ctx, r.UserID)
	if err != nil {
		return err
	}
	if !user.Qualified.IsQualified() {
		return cerr.Unqualified(
			fmt.Errorf("qualification is %q", user.Qualified),
		)
	}
	dr, err := ParseRange(start, end)
	if err != nil {
		return err
	}
	q := rs.reservationsrp.Tx(tx)
	byUser, err := q.ListByUser(ctx, r.UserID)
	if err != nil {
		return fmt.Errorf("listing user reservations: %w", err)
	}
	if o := firstConflict(byUser, r.ID, dr); o != nil {
		return cerr.Conflict("user", fmt.Errorf(
			"overlaps reservation %s", o.ID,
		))
	}
	byCar, err := q.ListByCar(ctx, r.CarID)
	if err != nil {
		return fmt.Errorf("listing car reservations: %w", err)
	}
	if o := firstConflict(byCar, r.ID, dr); o != nil {
		return cerr.Conflict("car", fmt.Errorf(
			"overlaps reservation %s", o.ID,
		))
	}
	r.StartDate, r.EndDate = dr.Start, dr.End
	r.FinalValue = car.Price(dr)
	return nil
}

// firstConflict returns the first reservation of rs, except the self
// reservation, which overlaps dr. It returns nil if there is none.
func firstConflict(
	rs []model.Reservation, self uuid.UUID, dr model.DateRange,
) *model.Reservation {
	for i := range rs {
		if rs[i].ID != self && rs[i].ConflictsWith(dr) {
			return &rs[i]
		}
	}
	return nil
}

// ParseRange parses the start and end dates as a model.DateRange and
// converts its errors to the cerr InvalidDate (with the name of the
// invalid field as its subject) or InvalidRange errors.
func ParseRange(start, end string) (model.DateRange, error) {
	dr, err := model.ParseDateRange(start, end)
	if err == nil {
		return dr, nil
	}
	var dfe *model.DateFieldError
	if errors.As(err, &dfe) {
		return dr, cerr.InvalidDate(dfe.Field, dfe.Err)
	}
	if errors.Is(err, model.ErrInvalidRange) {
		return dr, cerr.InvalidRange(err)
	}
	return dr, cerr.BadRequest(err)
}

// Get use case finds the id reservation. It returns a cerr NotFound
// error if there is no such reservation.
func (rs *UseCase) Get(
	ctx context.Context, id uuid.UUID,
) (res *model.Reservation, err error) {
	err = rs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		res, err = rs.reservationsrp.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, failure(ctx, "getting reservation", err)
	}
	return res, nil
}

// List use case returns the p page of reservations which match f.
// A non-positive limit is replaced by the default page limit and
// limits are bounded by the max page limit.
func (rs *UseCase) List(
	ctx context.Context, f model.ReservationFilter, p model.Page,
) (*model.PageOf[model.Reservation], error) {
	p = p.Bounded(rs.defaultPageLimit, rs.maxPageLimit)
	var items []model.Reservation
	var total int64
	err := rs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (
		err error,
	) {
		q := rs.reservationsrp.Conn(c)
		items, total, err = q.List(ctx, f.Predicates(), p)
		return err
	})
	if err != nil {
		return nil, failure(ctx, "listing reservations", err)
	}
	return model.NewPageOf(items, total, p), nil
}

// Delete use case removes the id reservation. It returns a cerr
// NotFound error if there is no such reservation.
func (rs *UseCase) Delete(ctx context.Context, id uuid.UUID) error {
	err := rs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return rs.reservationsrp.Conn(c).Delete(ctx, id)
	})
	if err != nil {
		return failure(ctx, "deleting reservation", err)
	}
	log.Info(ctx, "reservation is deleted", log.UUID("id", id))
	return nil
}

// failure classifies err as a cerr StoreFailure error unless it has
// a kind already. Store failures are logged since they are not caused
// by the request itself.
func failure(ctx context.Context, op string, err error) error {
	err = cerr.StoreFailure(err)
	if cerr.KindOf(err) == cerr.KindStoreFailure {
		log.Error(ctx, op+" failed", log.Err("err", err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
