// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp reifies the repo.Cars interface over PostgreSQL.
// Accessories of each car are kept in a jsonb column of the cars table
// since they are owned by their car exclusively.
package carsrp

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

func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, c *model.Car) error {
	return Create(ctx, cq.Conn, c)
}

func (cq connQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Car, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) Update(ctx context.Context, c *model.Car) error {
	return Update(ctx, cq.Conn, c)
}

func (cq connQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, cq.Conn, id)
}

func (cq connQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) ([]model.Car, int64, error) {
	return List(ctx, cq.Conn, preds, p)
}

type txQueryer struct {
	*postgres.Tx
}

func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, c *model.Car) error {
	return Create(ctx, tq.Tx, c)
}

func (tq txQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Car, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) Update(ctx context.Context, c *model.Car) error {
	return Update(ctx, tq.Tx, c)
}

func (tq txQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, tq.Tx, id)
}

func (tq txQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) ([]model.Car, int64, error) {
	return List(ctx, tq.Tx, preds, p)
}
