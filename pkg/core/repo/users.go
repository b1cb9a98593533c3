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

type UsersConnQueryer interface {
	UsersQueryer
}

type UsersTxQueryer interface {
	UsersQueryer
}

// UsersQueryer lists operations of the users repository.
// Methods which look up a user return a cerr NotFound error with the
// "user" subject if no user matches. Email and CPF are unique, so
// Create and Update return a cerr Conflict error if they are taken
// by another user.
type UsersQueryer interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindOne returns one of the users which match all preds.
	FindOne(
		ctx context.Context, preds []model.Predicate,
	) (*model.User, error)

	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(
		ctx context.Context, preds []model.Predicate, p model.Page,
	) (users []model.User, total int64, err error)
}

type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}
