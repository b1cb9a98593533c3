// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"gorm.io/gorm"
)

type gUser struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name      string
	CPF       string    `gorm:"column:cpf"`
	Birth     time.Time `gorm:"type:date"`
	Email     string
	Password  string
	CEP       string `gorm:"column:cep"`
	Qualified string
	Address   model.Address `gorm:"embedded"`
}

func (gu *gUser) TableName() string {
	return "users"
}

func newGUser(u *model.User) *gUser {
	return &gUser{
		ID:        u.ID,
		Name:      u.Name,
		CPF:       u.CPF,
		Birth:     u.Birth.Time(),
		Email:     u.Email,
		Password:  u.Password,
		CEP:       u.CEP,
		Qualified: string(u.Qualified),
		Address:   u.Address,
	}
}

func (gu *gUser) toModel() *model.User {
	return &model.User{
		ID:        gu.ID,
		Name:      gu.Name,
		CPF:       gu.CPF,
		Birth:     model.DateOf(gu.Birth),
		Email:     gu.Email,
		Password:  gu.Password,
		CEP:       gu.CEP,
		Qualified: model.Qualification(gu.Qualified),
		Address:   gu.Address,
	}
}

var filters = postgres.Filters{
	model.FieldID:           postgres.TextFilter("id::text"),
	model.FieldName:         postgres.TextFilter("name"),
	model.FieldCPF:          postgres.TextFilter("cpf"),
	model.FieldBirth:        postgres.TextFilter("to_char(birth, 'DD/MM/YYYY')"),
	model.FieldEmail:        postgres.TextFilter("email"),
	model.FieldCEP:          postgres.TextFilter("cep"),
	model.FieldQualified:    postgres.TextFilter("qualified"),
	model.FieldStreet:       postgres.TextFilter("street"),
	model.FieldComplement:   postgres.TextFilter("complement"),
	model.FieldNeighborhood: postgres.TextFilter("neighborhood"),
	model.FieldLocality:     postgres.TextFilter("locality"),
	model.FieldState:        postgres.TextFilter("state"),
}

var subjects = map[string]string{
	"users_pkey":      "user",
	"users_cpf_key":   "cpf",
	"users_email_key": "email",
}

func notFound(err error) error {
	return cerr.NotFound("user", err)
}

// Create inserts the u user. A taken email or CPF causes a cerr
// Conflict error with the "email" or "cpf" subject.
func Create[Q postgres.Queryer](
	ctx context.Context, q Q, u *model.User,
) error {
	err := q.GORM(ctx).Create(newGUser(u)).Error
	if err != nil {
		return postgres.Classify(err, subjects)
	}
	return nil
}

// Get finds the id user or returns a cerr NotFound error.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.User, error) {
	return take(q.GORM(ctx).Where("id = ?", id))
}

// FindOne returns the first user, ordered by name, which matches all
// of preds.
func FindOne[Q postgres.Queryer](
	ctx context.Context, q Q, preds []model.Predicate,
) (*model.User, error) {
	gdb, err := filters.Where(q.GORM(ctx), preds)
	if err != nil {
		return nil, err
	}
	return take(gdb.Order("name, id"))
}

func take(gdb *gorm.DB) (*model.User, error) {
	var gu gUser
	err := gdb.Take(&gu).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound(err)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gu.toModel(), nil
}

// Update replaces all columns of the u.ID user.
func Update[Q postgres.Queryer](
	ctx context.Context, q Q, u *model.User,
) error {
	gu := newGUser(u)
	res := q.GORM(ctx).Model(gu).Select("*").Updates(gu)
	if err := res.Error; err != nil {
		return postgres.Classify(err, subjects)
	}
	if res.RowsAffected == 0 {
		return notFound(nil)
	}
	return nil
}

// Delete removes the id user. Deleting a user who still holds some
// reservations is rejected by the database with a cerr Conflict error.
func Delete[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) error {
	res := q.GORM(ctx).Where("id = ?", id).Delete(&gUser{})
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

// List returns the p page of users matching preds, ordered by their
// names and IDs, besides the total number of matching users.
func List[Q postgres.Queryer](
	ctx context.Context, q Q, preds []model.Predicate, p model.Page,
) ([]model.User, int64, error) {
	var gus []gUser
	total, err := postgres.Page(
		q.GORM(ctx), filters, preds, p, "name, id", &gus,
	)
	if err != nil {
		return nil, 0, err
	}
	users := make([]model.User, 0, len(gus))
	for i := range gus {
		users = append(users, *gus[i].toModel())
	}
	return users, total, nil
}
