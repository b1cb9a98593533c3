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
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// UsersRepo is the in-memory users repository.
type UsersRepo struct {
}

// NewUsers instantiates a UsersRepo.
func NewUsers() *UsersRepo {
	return &UsersRepo{}
}

type usersQueryer struct {
	q queryer
}

// Conn expects an instance of *memory.Conn and panics otherwise.
func (users *UsersRepo) Conn(c repo.Conn) repo.UsersConnQueryer {
	return usersQueryer{q: c.(*Conn)}
}

// Tx expects an instance of *memory.Tx and panics otherwise.
func (users *UsersRepo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return usersQueryer{q: tx.(*Tx)}
}

// checkUnique returns a cerr Conflict error if another user has the
// same email or CPF as u.
func checkUnique(d *data, u *model.User) error {
	for id, o := range d.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(o.Email, u.Email) {
			return cerr.Conflict("email", errors.New("email is taken"))
		}
		if o.CPF == u.CPF {
			return cerr.Conflict("cpf", errors.New("cpf is taken"))
		}
	}
	return nil
}

func (uq usersQueryer) Create(ctx context.Context, u *model.User) error {
	return uq.q.write(func(d *data) error {
		if _, ok := d.users[u.ID]; ok {
			return cerr.Conflict("user", errors.New("duplicate id"))
		}
		if err := checkUnique(d, u); err != nil {
			return err
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (uq usersQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (user *model.User, err error) {
	err = uq.q.read(func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return cerr.NotFound("user", nil)
		}
		user = &u
		return nil
	})
	return
}

func (uq usersQueryer) FindOne(
	ctx context.Context, preds []model.Predicate,
) (user *model.User, err error) {
	err = uq.q.read(func(d *data) error {
		all := sortedUsers(d)
		found, _, err := filterPage(
			all, preds, model.Page{Limit: 1}, userFields,
		)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return cerr.NotFound("user", nil)
		}
		user = &found[0]
		return nil
	})
	return
}

func (uq usersQueryer) Update(ctx context.Context, u *model.User) error {
	return uq.q.write(func(d *data) error {
		if _, ok := d.users[u.ID]; !ok {
			return cerr.NotFound("user", nil)
		}
		if err := checkUnique(d, u); err != nil {
			return err
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (uq usersQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	return uq.q.write(func(d *data) error {
		if _, ok := d.users[id]; !ok {
			return cerr.NotFound("user", nil)
		}
		for _, r := range d.reservations {
			if r.UserID == id {
				return cerr.Conflict(
					"reservation", errors.New("user has reservations"),
				)
			}
		}
		delete(d.users, id)
		return nil
	})
}

func (uq usersQueryer) List(
	ctx context.Context, preds []model.Predicate, p model.Page,
) (users []model.User, total int64, err error) {
	err = uq.q.read(func(d *data) error {
		users, total, err = filterPage(sortedUsers(d), preds, p, userFields)
		return err
	})
	return
}

func sortedUsers(d *data) []model.User {
	all := make([]model.User, 0, len(d.users))
	for _, u := range d.users {
		all = append(all, u)
	}
	slices.SortFunc(all, func(a, b model.User) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return all
}
