// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type gCar struct {
	ID                 uuid.UUID `gorm:"primaryKey;type:uuid"`
	Model              string
	Color              string
	Year               string
	ValuePerDay        decimal.Decimal `gorm:"type:numeric"`
	NumberOfPassengers int
	Accessories        datatypes.JSON
}

func (gc *gCar) TableName() string {
	return "cars"
}

func newGCar(c *model.Car) (*gCar, error) {
	accs := c.Accessories
	if accs == nil {
		accs = []model.Accessory{}
	}
	b, err := json.Marshal(accs)
	if err != nil {
		return nil, fmt.Errorf("marshalling accessories: %w", err)
	}
	return &gCar{
		ID:                 c.ID,
		Model:              c.Model,
		Color:              c.Color,
		Year:               c.Year,
		ValuePerDay:        c.ValuePerDay,
		NumberOfPassengers: c.NumberOfPassengers,
		Accessories:        datatypes.JSON(b),
	}, nil
}

func (gc *gCar) toModel() (*model.Car, error) {
	c := &model.Car{
		ID:                 gc.ID,
		Model:              gc.Model,
		Color:              gc.Color,
		Year:               gc.Year,
		ValuePerDay:        gc.ValuePerDay,
		NumberOfPassengers: gc.NumberOfPassengers,
	}
	if len(gc.Accessories) > 0 {
		err := json.Unmarshal(gc.Accessories, &c.Accessories)
		if err != nil {
			return nil, fmt.Errorf("unmarshalling accessories: %w", err)
		}
	}
	return c, nil
}

const accessoryExists = "EXISTS (SELECT 1 FROM " +
	"jsonb_array_elements(accessories) a WHERE a->>'description' "

var filters = postgres.Filters{
	model.FieldID:                 postgres.TextFilter("id::text"),
	model.FieldModel:              postgres.TextFilter("model"),
	model.FieldColor:              postgres.TextFilter("color"),
	model.FieldYear:               postgres.TextFilter("year"),
	model.FieldValuePerDay:        postgres.TextFilter("value_per_day::text"),
	model.FieldNumberOfPassengers: postgres.TextFilter("number_of_passengers::text"),
	model.FieldAccessoryDescription: {
		Equal:    accessoryExists + "= ?)",
		Contains: accessoryExists + "ILIKE ?)",
	},
}

func notFound(err error) error {
	return cerr.NotFound("car", err)
}

// Create inserts the c car, including its accessories as a jsonb
// array.
func Create[Q postgres.Queryer](
	ctx context.Context, q Q, c *model.Car,
) error {
	gc, err := newGCar(c)
	if err != nil {
		return err
	}
	err = q.GORM(ctx).Create(gc).Error
	if err != nil {
		return postgres.Classify(err, map[string]string{
			"cars_pkey": "car",
		})
	}
	return nil
}

// Get finds the id car or returns a cerr NotFound error.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Car, error) {
	var gc gCar
	err := q.GORM(ctx).Where("id = ?", id).Take(&gc).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound(err)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gc.toModel()
}

// Update replaces all columns of the c.ID car.
func Update[Q postgres.Queryer](
	ctx context.Context, q Q, c *model.Car,
) error {
	gc, err := newGCar(c)
	if err != nil {
		return err
	}
	res := q.GORM(ctx).Model(gc).Select("*").Updates(gc)
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(nil)
	}
	return nil
}

// Delete removes the id car. Deleting a car which is still referenced
// by some reservations is rejected by the database with a cerr
// Conflict error.
func Delete[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) error {
	res := q.GORM(ctx).Where("id = ?", id).Delete(&gCar{})
	if err := res.Error; err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return cerr.Conflict("reservation", err)
		}
		return fmt.Errorf("query: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(nil)
	}
	return nil
}

// List returns the p page of cars matching preds, ordered by their
// model names and IDs, besides the total number of matching cars.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, preds []model.Predicate, p model.Page,
) ([]model.Car, int64, error) {
	var gcs []gCar
	total, err := postgres.Page(
		q.GORM(ctx), filters, preds, p, "model, id", &gcs,
	)
	if err != nil {
		return nil, 0, err
	}
	cars := make([]model.Car, 0, len(gcs))
	for i := range gcs {
		c, err := gcs[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *c)
	}
	return cars, total, nil
}
