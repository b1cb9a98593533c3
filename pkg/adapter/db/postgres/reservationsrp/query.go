// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reservationsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gReservation struct {
	ID         uuid.UUID       `gorm:"primaryKey;type:uuid"`
	StartDate  time.Time       `gorm:"type:date"`
	EndDate    time.Time       `gorm:"type:date"`
	UserID     uuid.UUID       `gorm:"type:uuid"`
	CarID      uuid.UUID       `gorm:"type:uuid"`
	FinalValue decimal.Decimal `gorm:"type:numeric"`
}

func (gr *gReservation) TableName() string {
	return "reservations"
}

func newGReservation(r *model.Reservation) *gReservation {
	return &gReservation{
		ID:         r.ID,
		StartDate:  r.StartDate.Time(),
		EndDate:    r.EndDate.Time(),
		UserID:     r.UserID,
		CarID:      r.CarID,
		FinalValue: r.FinalValue,
	}
}

func (gr *gReservation) toModel() model.Reservation {
	return model.Reservation{
		ID:         gr.ID,
		StartDate:  model.DateOf(gr.StartDate),
		EndDate:    model.DateOf(gr.EndDate),
		UserID:     gr.UserID,
		CarID:      gr.CarID,
		FinalValue: gr.FinalValue,
	}
}

func toModels(grs []gReservation) []model.Reservation {
	rs := make([]model.Reservation, 0, len(grs))
	for i := range grs {
		rs = append(rs, grs[i].toModel())
	}
	return rs
}

const order = "start_date, id"

var filters = postgres.Filters{
	model.FieldID:         postgres.TextFilter("id::text"),
	model.FieldStartDate:  postgres.TextFilter("to_char(start_date, 'DD/MM/YYYY')"),
	model.FieldEndDate:    postgres.TextFilter("to_char(end_date, 'DD/MM/YYYY')"),
	model.FieldUserID:     postgres.TextFilter("user_id::text"),
	model.FieldCarID:      postgres.TextFilter("car_id::text"),
	model.FieldFinalValue: postgres.TextFilter("final_value::text"),
}

// subjects maps the reservations table constraints to error subjects.
// The overlap exclusion constraints are violated by concurrent writers
// which have passed the use case checks simultaneously.
var subjects = map[string]string{
	"reservations_pkey":         "reservation",
	"reservations_user_overlap": "user",
	"reservations_car_overlap":  "car",
	"reservations_user_id_fkey": "user",
	"reservations_car_id_fkey":  "car",
}

func notFound(err error) error {
	return cerr.NotFound("reservation", err)
}

// Create inserts the r reservation.
func Create[Q postgres.Queryer](
	ctx context.Context, q Q, r *model.Reservation,
) error {
	err := q.GORM(ctx).Create(newGReservation(r)).Error
	if err != nil {
		return postgres.Classify(err, subjects)
	}
	return nil
}

// Get finds the id reservation or returns a cerr NotFound error.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Reservation, error) {
	var gr gReservation
	err := q.GORM(ctx).Where("id = ?", id).Take(&gr).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound(err)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	r := gr.toModel()
	return &r, nil
}

// Update replaces all columns of the r.ID reservation.
func Update[Q postgres.Queryer](
	ctx context.Context, q Q, r *model.Reservation,
) error {
	gr := newGReservation(r)
	res := q.GORM(ctx).Model(gr).Select("*").Updates(gr)
	if err := res.Error; err != nil {
		return postgres.Classify(err, subjects)
	}
	if res.RowsAffected == 0 {
		return notFound(nil)
	}
	return nil
}

// Delete removes the id reservation.
func Delete[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) error {
	res := q.GORM(ctx).Where("id = ?", id).Delete(&gReservation{})
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if res.RowsAffected == 0 {
		return notFound(nil)
	}
	return nil
}

// ListByUser returns all reservations of the userID user.
func ListByUser[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID,
) ([]model.Reservation, error) {
	return listBy(q.GORM(ctx).Where("user_id = ?", userID))
}

// ListByCar returns all reservations of the carID car.
func ListByCar[Q postgres.Queryer](
	ctx context.Context, q Q, carID uuid.UUID,
) ([]model.Reservation, error) {
	return listBy(q.GORM(ctx).Where("car_id = ?", carID))
}

func listBy(gdb *gorm.DB) ([]model.Reservation, error) {
	var grs []gReservation
	if err := gdb.Order(order).Find(&grs).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return toModels(grs), nil
}

// List returns the p page of reservations matching preds, ordered by
// their start dates and IDs, besides the total number of matches.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, preds []model.Predicate, p model.Page,
) ([]model.Reservation, int64, error) {
	var grs []gReservation
	total, err := postgres.Page(
		q.GORM(ctx), filters, preds, p, order, &grs,
	)
	if err != nil {
		return nil, 0, err
	}
	return toModels(grs), total, nil
}

// Clear deletes all reservations.
func Clear(ctx context.Context, tx *postgres.Tx) error {
	if _, err := tx.Exec(ctx, "DELETE FROM reservations"); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}
