// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp reifies the repo.Users interface over PostgreSQL.
// Uniqueness of emails and CPFs is guarded by unique constraints, so
// concurrent registrations are rejected with a cerr Conflict error.
package usersrp

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

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, u *model.User) error {
	return Create(ctx, cq.Conn, u)
}

func (cq connQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.User, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) FindOne(
	ctx context.Context, preds []model.Predicate,
) (*model.User, error) {
	return FindOne(ctx, cq.Conn, preds)
}

func (cq connQueryer) Update(ctx context.Context, u *model.User) error {
	return Update(ctx, cq.Conn, u)
}

func (cq connQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, cq.Conn, id)
}

func (cq connQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) ([]model.User, int64, error) {
	return List(ctx, cq.Conn, preds, p)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, u *model.User) error {
	return Create(ctx, tq.Tx, u)
}

func (tq txQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.User, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) FindOne(
	ctx context.Context, preds []model.Predicate,
) (*model.User, error) {
	return FindOne(ctx, tq.Tx, preds)
}

func (tq txQueryer) Update(ctx context.Context, u *model.User) error {
	return Update(ctx, tq.Tx, u)
}

func (tq txQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return Delete(ctx, tq.Tx, id)
}

func (tq txQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) ([]model.User, int64, error) {
	return List(ctx, tq.Tx, preds, p)
}
