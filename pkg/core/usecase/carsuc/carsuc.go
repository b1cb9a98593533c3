// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which supports the
// cars management use cases, namely creating, updating, finding,
// listing, and deleting cars. Deleting a car deletes its reservations
// too, so no reservation may refer to a missing car.
package carsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// UseCase represents a cars use case. It holds a store connection
// pool, the cars and reservations repositories (to be guided with the
// pool), and the cars use case specific settings.
type UseCase struct {
	pool           repo.Pool
	carsrp         repo.Cars
	reservationsrp repo.Reservations

	minYear          int
	defaultPageLimit int
	maxPageLimit     int
	now              func() time.Time
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, c repo.Cars, r repo.Reservations, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c, reservationsrp: r}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.minYear == 0 {
		uc.minYear = 1950
	}
	if uc.maxPageLimit == 0 {
		uc.maxPageLimit = 100
	}
	if uc.defaultPageLimit == 0 {
		uc.defaultPageLimit = min(10, uc.maxPageLimit)
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// Validate checks c attributes, returning a cerr BadRequest error if
// they are not acceptable. The year must have four digits and may not
// be older than the configured minimum year or newer than the current
// year. Accessories descriptions must be non-empty and unique.
func (cars *UseCase) Validate(c *model.Car) error {
	var errs []error
	if c.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if c.Color == "" {
		errs = append(errs, errors.New("color is required"))
	}
	if !yearPattern.MatchString(c.Year) {
		errs = append(errs, fmt.Errorf("year %q is not YYYY", c.Year))
	} else {
		y, _ := strconv.Atoi(c.Year)
		if maxYear := cars.now().Year(); y < cars.minYear || y > maxYear {
			errs = append(errs, fmt.Errorf(
				"year %d is not in [%d, %d]", y, cars.minYear, maxYear,
			))
		}
	}
	if !c.ValuePerDay.IsPositive() {
		errs = append(errs, errors.New("value_per_day must be positive"))
	}
	if c.NumberOfPassengers <= 0 {
		errs = append(errs, errors.New(
			"number_of_passengers must be positive",
		))
	}
	if len(c.Accessories) == 0 {
		errs = append(errs, errors.New("at least one accessory is required"))
	}
	seen := make(map[string]bool, len(c.Accessories))
	for _, a := range c.Accessories {
		switch {
		case a.Description == "":
			errs = append(errs, errors.New("accessory description is required"))
		case seen[a.Description]:
			errs = append(errs, fmt.Errorf(
				"accessory %q is repeated", a.Description,
			))
		}
		seen[a.Description] = true
	}
	if err := errors.Join(errs...); err != nil {
		return cerr.BadRequest(err)
	}
	return nil
}

// Create use case validates and stores c with a fresh ID. Accessories
// without an ID get fresh IDs too.
func (cars *UseCase) Create(
	ctx context.Context, c *model.Car,
) (*model.Car, error) {
	if err := cars.Validate(c); err != nil {
		return nil, err
	}
	car := *c
	car.ID = uuid.New()
	car.Accessories = append([]model.Accessory(nil), c.Accessories...)
	car.AssignAccessoryIDs()
	err := cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return cars.carsrp.Conn(c).Create(ctx, &car)
	})
	if err != nil {
		return nil, failure(ctx, "creating car", err)
	}
	log.Info(ctx, "car is created", log.UUID("id", car.ID))
	return &car, nil
}

// Get use case finds the cid car. It returns a cerr NotFound error if
// there is no such car.
func (cars *UseCase) Get(
	ctx context.Context, cid uuid.UUID,
) (car *model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		car, err = cars.carsrp.Conn(c).Get(ctx, cid)
		return err
	})
	if err != nil {
		return nil, failure(ctx, "getting car", err)
	}
	return car, nil
}

// Update use case replaces all attributes of the cid car by c, after
// validating them. Accessories which are given with their IDs keep
// them, while others get fresh IDs. Existing reservations keep their
// final values.
func (cars *UseCase) Update(
	ctx context.Context, cid uuid.UUID, c *model.Car,
) (*model.Car, error) {
	if err := cars.Validate(c); err != nil {
		return nil, err
	}
	car := *c
	car.ID = cid
	car.Accessories = append([]model.Accessory(nil), c.Accessories...)
	car.AssignAccessoryIDs()
	err := cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return cars.carsrp.Conn(c).Update(ctx, &car)
	})
	if err != nil {
		return nil, failure(ctx, "updating car", err)
	}
	log.Info(ctx, "car is updated", log.UUID("id", car.ID))
	return &car, nil
}

// List use case returns the p page of cars which match f.
func (cars *UseCase) List(
	ctx context.Context, f model.CarFilter, p model.Page,
) (*model.PageOf[model.Car], error) {
	p = p.Bounded(cars.defaultPageLimit, cars.maxPageLimit)
	var items []model.Car
	var total int64
	err := cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (
		err error,
	) {
		items, total, err = cars.carsrp.Conn(c).List(ctx, f.Predicates(), p)
		return err
	})
	if err != nil {
		return nil, failure(ctx, "listing cars", err)
	}
	return model.NewPageOf(items, total, p), nil
}

// Delete use case removes the cid car and all of its reservations in
// one transaction. Failing to delete any of those reservations aborts
// the whole operation.
func (cars *UseCase) Delete(ctx context.Context, cid uuid.UUID) error {
	var n int
	err := cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.carsrp.Tx(tx)
			if _, err := q.Get(ctx, cid); err != nil {
				return err
			}
			rq := cars.reservationsrp.Tx(tx)
			rs, err := rq.ListByCar(ctx, cid)
			if err != nil {
				return fmt.Errorf("listing car reservations: %w", err)
			}
			for _, r := range rs {
				if err := rq.Delete(ctx, r.ID); err != nil {
					return fmt.Errorf(
						"deleting reservation %s: %w", r.ID, err,
					)
				}
			}
			n = len(rs)
			return q.Delete(ctx, cid)
		})
	})
	if err != nil {
		return failure(ctx, "deleting car", err)
	}
	log.Info(
		ctx, "car is deleted",
		log.UUID("id", cid),
		slog.Int("reservations", n),
	)
	return nil
}

func failure(ctx context.Context, op string, err error) error {
	err = cerr.StoreFailure(err)
	if cerr.KindOf(err) == cerr.KindStoreFailure {
		log.Error(ctx, op+" failed", log.Err("err", err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
