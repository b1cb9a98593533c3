// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// CarsRepo is the in-memory cars repository.
type CarsRepo struct {
}

// NewCars instantiates a CarsRepo.
func NewCars() *CarsRepo {
	return &CarsRepo{}
}

type carsQueryer struct {
	q queryer
}

// Conn expects an instance of *memory.Conn and panics otherwise.
func (cars *CarsRepo) Conn(c repo.Conn) repo.CarsConnQueryer {
	return carsQueryer{q: c.(*Conn)}
}

// Tx expects an instance of *memory.Tx and panics otherwise.
func (cars *CarsRepo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	return carsQueryer{q: tx.(*Tx)}
}

func (cq carsQueryer) Create(ctx context.Context, c *model.Car) error {
	return cq.q.write(func(d *data) error {
		if _, ok := d.cars[c.ID]; ok {
			return cerr.Conflict("car", errors.New("duplicate id"))
		}
		d.cars[c.ID] = cloneCar(*c)
		return nil
	})
}

func (cq carsQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (car *model.Car, err error) {
	err = cq.q.read(func(d *data) error {
		c, ok := d.cars[id]
		if !ok {
			return cerr.NotFound("car", nil)
		}
		c = cloneCar(c)
		car = &c
		return nil
	})
	return
}

func (cq carsQueryer) Update(ctx context.Context, c *model.Car) error {
	return cq.q.write(func(d *data) error {
		if _, ok := d.cars[c.ID]; !ok {
			return cerr.NotFound("car", nil)
		}
		d.cars[c.ID] = cloneCar(*c)
		return nil
	})
}

func (cq carsQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return cq.q.write(func(d *data) error {
		if _, ok := d.cars[id]; !ok {
			return cerr.NotFound("car", nil)
		}
		for _, r := range d.reservations {
			if r.CarID == id {
				return cerr.Conflict(
					"reservation", errors.New("car is reserved"),
				)
			}
		}
		delete(d.cars, id)
		return nil
	})
}

func (cq carsQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) (cars []model.Car, total int64, err error) {
	err = cq.q.read(func(d *data) error {
		all := make([]model.Car, 0, len(d.cars))
		for _, c := range d.cars {
			all = append(all, cloneCar(c))
		}
		slices.SortFunc(all, func(a, b model.Car) int {
			if c := cmp.Compare(a.Model, b.Model); c != 0 {
				return c
			}
			return compareIDs(a.ID, b.ID)
		})
		cars, total, err = filterPage(all, preds, p, carFields)
		return err
	})
	return
}
