// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// ReservationsRepo is the in-memory reservations repository.
type ReservationsRepo struct {
}

// NewReservations instantiates a ReservationsRepo.
func NewReservations() *ReservationsRepo {
	return &ReservationsRepo{}
}

type reservationsQueryer struct {
	q queryer
}

// Conn expects an instance of *memory.Conn and panics otherwise.
func (rs *ReservationsRepo) Conn(
	c repo.Conn,
) repo.ReservationsConnQueryer {
	return reservationsQueryer{q: c.(*Conn)}
}

// Tx expects an instance of *memory.Tx and panics otherwise.
func (rs *ReservationsRepo) Tx(tx repo.Tx) repo.ReservationsTxQueryer {
	return reservationsQueryer{q: tx.(*Tx)}
}

// guard enforces the references and the no-overlap invariant for the
// r reservation which is going to be written. The r.ID reservation
// itself is excluded from the overlap checks.
func guard(d *data, r *model.Reservation) error {
	if _, ok := d.cars[r.CarID]; !ok {
		return cerr.NotFound("car", nil)
	}
	if _, ok := d.users[r.UserID]; !ok {
		return cerr.NotFound("user", nil)
	}
	dr := r.Range()
	var carConflict bool
	for id, o := range d.reservations {
		if id == r.ID || !o.ConflictsWith(dr) {
			continue
		}
		if o.UserID == r.UserID {
			return cerr.Conflict("user", errors.New("overlapping dates"))
		}
		if o.CarID == r.CarID {
			carConflict = true
		}
	}
	if carConflict {
		return cerr.Conflict("car", errors.New("overlapping dates"))
	}
	return nil
}

func (rq reservationsQueryer) Create(
	ctx context.Context, r *model.Reservation,
) error {
	return rq.q.write(func(d *data) error {
		if _, ok := d.reservations[r.ID]; ok {
			return cerr.Conflict(
				"reservation", errors.New("duplicate id"),
			)
		}
		if err := guard(d, r); err != nil {
			return err
		}
		d.reservations[r.ID] = *r
		return nil
	})
}

func (rq reservationsQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (res *model.Reservation, err error) {
	err = rq.q.read(func(d *data) error {
		r, ok := d.reservations[id]
		if !ok {
			return cerr.NotFound("reservation", nil)
		}
		res = &r
		return nil
	})
	return
}

func (rq reservationsQueryer) Update(
	ctx context.Context, r *model.Reservation,
) error {
	return rq.q.write(func(d *data) error {
		if _, ok := d.reservations[r.ID]; !ok {
			return cerr.NotFound("reservation", nil)
		}
		if err := guard(d, r); err != nil {
			return err
		}
		d.reservations[r.ID] = *r
		return nil
	})
}

func (rq reservationsQueryer) Delete(
	ctx context.Context, id uuid.UUID,
) error {
	return rq.q.write(func(d *data) error {
		if _, ok := d.reservations[id]; !ok {
			return cerr.NotFound("reservation", nil)
		}
		delete(d.reservations, id)
		return nil
	})
}

func (rq reservationsQueryer) ListByUser(
	ctx context.Context, userID uuid.UUID,
) ([]model.Reservation, error) {
	return rq.listBy(func(r *model.Reservation) bool {
		return r.UserID == userID
	})
}

func (rq reservationsQueryer) ListByCar(
	ctx context.Context, carID uuid.UUID,
) ([]model.Reservation, error) {
	return rq.listBy(func(r *model.Reservation) bool {
		return r.CarID == carID
	})
}

func (rq reservationsQueryer) listBy(
	keep func(r *model.Reservation) bool,
) (rs []model.Reservation, err error) {
	err = rq.q.read(func(d *data) error {
		for _, r := range sortedReservations(d) {
			if keep(&r) {
				rs = append(rs, r)
			}
		}
		return nil
	})
	return
}

func (rq reservationsQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) (rs []model.Reservation, total int64, err error) {
	err = rq.q.read(func(d *data) error {
		rs, total, err = filterPage(
			sortedReservations(d), preds, p, reservationFields,
		)
		return err
	})
	return
}

func (rq reservationsQueryer) Clear(ctx context.Context) error {
	return rq.q.write(func(d *data) error {
		clear(d.reservations)
		return nil
	})
}

func sortedReservations(d *data) []model.Reservation {
	all := make([]model.Reservation, 0, len(d.reservations))
	for _, r := range d.reservations {
		all = append(all, r)
	}
	slices.SortFunc(all, func(a, b model.Reservation) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return all
}
