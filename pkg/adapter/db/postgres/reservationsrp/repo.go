// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reservationsrp reifies the repo.Reservations interface over
// PostgreSQL. Reservations of one car (or one user) may not overlap,
// as guarded by two exclusion constraints over the closed date ranges.
// Their violations are reported as cerr Conflict errors.
package reservationsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (rs *Repo) Conn(c repo.Conn) repo.ReservationsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(
	ctx context.Context, r *model.Reservation,
) error {
	return Create(ctx, cq.Conn, r)
}

func (cq connQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Reservation, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) Update(
	ctx context.Context, r *model.Reservation,
) error {
	return Update(ctx, cq.Conn, r)
}

func (cq connQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, cq.Conn, id)
}

func (cq connQueryer) ListByUser(
	ctx context.Context, userID uuid.UUID,
) ([]model.Reservation, error) {
	return ListByUser(ctx, cq.Conn, userID)
}

func (cq connQueryer) ListByCar(
	ctx context.Context, carID uuid.UUID,
) ([]model.Reservation, error) {
	return ListByCar(ctx, cq.Conn, carID)
}

func (cq connQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) ([]model.Reservation, int64, error) {
	return List(ctx, cq.Conn, preds, p)
}

type txQueryer struct {
	*postgres.Tx
}

func (rs *Repo) Tx(tx repo.Tx) repo.ReservationsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(
	ctx context.Context, r *model.Reservation,
) error {
	return Create(ctx, tq.Tx, r)
}

func (tq txQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Reservation, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) Update(
	ctx context.Context, r *model.Reservation,
) error {
	return Update(ctx, tq.Tx, r)
}

func (tq txQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, tq.Tx, id)
}

func (tq txQueryer) ListByUser(
	ctx context.Context, userID uuid.UUID,
) ([]model.Reservation, error) {
	return ListByUser(ctx, tq.Tx, userID)
}

func (tq txQueryer) ListByCar(
	ctx context.Context, carID uuid.UUID,
) ([]model.Reservation, error) {
	return ListByCar(ctx, tq.Tx, carID)
}

func (tq txQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) ([]model.Reservation, int64, error) {
	return List(ctx, tq.Tx, preds, p)
}

func (tq txQueryer) Clear(ctx context.Context) error {
	return Clear(ctx, tq.Tx)
}
