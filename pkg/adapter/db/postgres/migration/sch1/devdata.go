// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sch1

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres/reservationsrp"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/flexilease/pkg/adapter/hash/scram"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/shopspring/decimal"
)

// DevPassword is the password of all users in the development data.
const DevPassword = "flweb-dev-pass"

// DevData returns the cars, users, and reservations which are inserted
// by the InitDevSchema method. Users are returned without passwords.
// The reservations do not overlap and their final values are computed
// from their cars value per day.
func DevData() ([]model.Car, []model.User, []model.Reservation) {
	cars := []model.Car{
		{
			ID:                 uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1b01"),
			Model:              "GM S10 2.8",
			Color:              "white",
			Year:               "2021",
			ValuePerDay:        decimal.NewFromInt(150),
			NumberOfPassengers: 5,
			Accessories: []model.Accessory{
				{
					ID:          uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1c01"),
					Description: "air conditioning",
				},
				{
					ID:          uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1c02"),
					Description: "4x4 traction",
				},
			},
		},
		{
			ID:                 uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1b02"),
			Model:              "Fiat Uno",
			Color:              "red",
			Year:               "2015",
			ValuePerDay:        decimal.RequireFromString("99.9"),
			NumberOfPassengers: 4,
			Accessories: []model.Accessory{
				{
					ID:          uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1c03"),
					Description: "radio",
				},
			},
		},
	}
	users := []model.User{
		{
			ID:        uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1d01"),
			Name:      "Joao Silva",
			CPF:       "52998224725",
			Birth:     model.NewDate(1990, 3, 15),
			Email:     "joao@example.com",
			CEP:       "01001000",
			Qualified: model.QualificationYes,
			Address: model.Address{
				Street:       "Praca da Se",
				Complement:   "lado impar",
				Neighborhood: "Se",
				Locality:     "Sao Paulo",
				State:        "SP",
			},
		},
		{
			ID:        uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1d02"),
			Name:      "Maria Souza",
			CPF:       "11144477735",
			Birth:     model.NewDate(1985, 11, 2),
			Email:     "maria@example.com",
			CEP:       "20040020",
			Qualified: model.QualificationNo,
			Address: model.Address{
				Street:       "Avenida Rio Branco",
				Neighborhood: "Centro",
				Locality:     "Rio de Janeiro",
				State:        "RJ",
			},
		},
	}
	rng := model.DateRange{
		Start: model.NewDate(2022, 1, 1),
		End:   model.NewDate(2022, 1, 10),
	}
	reservations := []model.Reservation{
		{
			ID:         uuid.MustParse("5b0a2f46-7d1e-4d3c-9d53-0c5a6f2a1e01"),
			StartDate:  rng.Start,
			EndDate:    rng.End,
			UserID:     users[0].ID,
			CarID:      cars[0].ID,
			FinalValue: cars[0].Price(rng),
		},
	}
	return cars, users, reservations
}

func (i *Initializer) insertDevData(ctx context.Context) error {
	cars, users, reservations := DevData()
	for _, c := range cars {
		if err := carsrp.Create(ctx, i.tx, &c); err != nil {
			return fmt.Errorf("inserting car %q: %w", c.Model, err)
		}
	}
	hasher := scram.SHA256()
	for _, u := range users {
		hp, err := hasher.Hash(DevPassword, "", 4096)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		u.Password = hp
		if err := usersrp.Create(ctx, i.tx, &u); err != nil {
			return fmt.Errorf("inserting user %q: %w", u.Email, err)
		}
	}
	if err := reservationsrp.Clear(ctx, i.tx); err != nil {
		return fmt.Errorf("clearing reservations: %w", err)
	}
	for _, r := range reservations {
		if err := reservationsrp.Create(ctx, i.tx, &r); err != nil {
			return fmt.Errorf("inserting reservation: %w", err)
		}
	}
	return nil
}
