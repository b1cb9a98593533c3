// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/memory"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/usecase/carsuc"
	"github.com/momeni/flexilease/pkg/core/usecase/reservationsuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CarsSuite struct {
	suite.Suite

	ctx   context.Context
	pool  *memory.Pool
	users *memory.UsersRepo
	rs    *failingReservations
	uc    *carsuc.UseCase
	resuc *reservationsuc.UseCase
}

func TestCarsSuite(t *testing.T) {
	suite.Run(t, new(CarsSuite))
}

// failingReservations fails deleting the failAt-th reservation (if
// failAt is positive) in order to exercise a cascade abort.
type failingReservations struct {
	*memory.ReservationsRepo
	failAt  int
	deleted int
}

type failingTxQueryer struct {
	repo.ReservationsTxQueryer
	f *failingReservations
}

func (fr *failingReservations) Tx(tx repo.Tx) repo.ReservationsTxQueryer {
	return failingTxQueryer{fr.ReservationsRepo.Tx(tx), fr}
}

func (q failingTxQueryer) Delete(ctx context.Context, id uuid.UUID) error {
	q.f.deleted++
	if q.f.deleted == q.f.failAt {
		return errors.New("disk is full")
	}
	return q.ReservationsTxQueryer.Delete(ctx, id)
}

func (s *CarsSuite) SetupTest() {
	s.ctx = context.Background()
	s.pool = memory.NewPool()
	cars := memory.NewCars()
	s.users = memory.NewUsers()
	s.rs = &failingReservations{ReservationsRepo: memory.NewReservations()}
	var err error
	s.uc, err = carsuc.New(
		s.pool, cars, s.rs,
		carsuc.WithClock(func() time.Time {
			return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		}),
	)
	s.Require().NoError(err)
	s.resuc, err = reservationsuc.New(s.pool, cars, s.users, s.rs)
	s.Require().NoError(err)
}

func validCar() *model.Car {
	return &model.Car{
		Model:              "Fiat Uno",
		Color:              "red",
		Year:               "2020",
		ValuePerDay:        decimal.NewFromInt(150),
		NumberOfPassengers: 5,
		Accessories: []model.Accessory{
			{Description: "air conditioning"},
			{Description: "gps"},
		},
	}
}

func (s *CarsSuite) newUser(cpf, email string) uuid.UUID {
	u := model.User{
		ID:        uuid.New(),
		Name:      "Ana",
		CPF:       cpf,
		Birth:     model.MustParseDate("01/01/1990"),
		Email:     email,
		Qualified: model.QualificationYes,
	}
	err := s.pool.Conn(s.ctx, func(ctx context.Context, c repo.Conn) error {
		return s.users.Conn(c).Create(ctx, &u)
	})
	s.Require().NoError(err)
	return u.ID
}

func (s *CarsSuite) TestCreateAssignsIDs() {
	car, err := s.uc.Create(s.ctx, validCar())
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, car.ID)
	s.Require().Len(car.Accessories, 2)
	for _, a := range car.Accessories {
		s.NotEqual(uuid.Nil, a.ID)
	}

	got, err := s.uc.Get(s.ctx, car.ID)
	s.Require().NoError(err)
	s.Equal(car, got)
}

func (s *CarsSuite) TestValidation() {
	for name, mutate := range map[string]func(c *model.Car){
		"empty model":     func(c *model.Car) { c.Model = "" },
		"short year":      func(c *model.Car) { c.Year = "99" },
		"old year":        func(c *model.Car) { c.Year = "1949" },
		"future year":     func(c *model.Car) { c.Year = "2025" },
		"zero value":      func(c *model.Car) { c.ValuePerDay = decimal.Zero },
		"no passengers":   func(c *model.Car) { c.NumberOfPassengers = 0 },
		"no accessories":  func(c *model.Car) { c.Accessories = nil },
		"repeated":        func(c *model.Car) { c.Accessories[1].Description = "gps" },
		"empty accessory": func(c *model.Car) { c.Accessories[1].Description = "" },
	} {
		c := validCar()
		c.Accessories[0].Description = "gps"
		c.Accessories[1].Description = "radio"
		mutate(c)
		_, err := s.uc.Create(s.ctx, c)
		s.Equal(cerr.KindBadRequest, cerr.KindOf(err), name)
	}
	p, err := s.uc.List(s.ctx, model.CarFilter{}, model.Page{})
	s.Require().NoError(err)
	s.Zero(p.Total)
}

func (s *CarsSuite) TestUpdateKeepsAccessoryIDs() {
	car, err := s.uc.Create(s.ctx, validCar())
	s.Require().NoError(err)
	kept := car.Accessories[0]

	c := validCar()
	c.Color = "blue"
	c.Accessories = []model.Accessory{kept, {Description: "radio"}}
	updated, err := s.uc.Update(s.ctx, car.ID, c)
	s.Require().NoError(err)
	s.Equal("blue", updated.Color)
	s.Equal(kept, updated.Accessories[0])
	s.NotEqual(uuid.Nil, updated.Accessories[1].ID)

	_, err = s.uc.Update(s.ctx, uuid.New(), validCar())
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func (s *CarsSuite) TestListFilters() {
	for _, m := range []string{"Fiat Uno", "Gol", "Fiat Palio"} {
		c := validCar()
		c.Model = m
		if m == "Gol" {
			c.Accessories = []model.Accessory{{Description: "sunroof"}}
		}
		_, err := s.uc.Create(s.ctx, c)
		s.Require().NoError(err)
	}
	fiat := "fiat"
	p, err := s.uc.List(s.ctx, model.CarFilter{Model: &fiat}, model.Page{})
	s.Require().NoError(err)
	s.EqualValues(2, p.Total)
	s.Equal("Fiat Palio", p.Items[0].Model)

	roof := "ROOF"
	p, err = s.uc.List(s.ctx, model.CarFilter{
		AccessoryDescription: &roof,
	}, model.Page{})
	s.Require().NoError(err)
	s.Require().Len(p.Items, 1)
	s.Equal("Gol", p.Items[0].Model)

	five := 5
	p, err = s.uc.List(s.ctx, model.CarFilter{
		NumberOfPassengers: &five,
	}, model.Page{Limit: 1})
	s.Require().NoError(err)
	s.EqualValues(3, p.Total)
	s.EqualValues(3, p.PageCount)
	s.Len(p.Items, 1)
}

func (s *CarsSuite) TestDeleteCascades() {
	car, err := s.uc.Create(s.ctx, validCar())
	s.Require().NoError(err)
	u1 := s.newUser("52998224725", "a@example.com")
	u2 := s.newUser("11144477735", "b@example.com")
	_, err = s.resuc.Create(s.ctx, u1, car.ID, "01/01/2022", "10/01/2022")
	s.Require().NoError(err)
	_, err = s.resuc.Create(s.ctx, u2, car.ID, "11/01/2022", "12/01/2022")
	s.Require().NoError(err)

	s.Require().NoError(s.uc.Delete(s.ctx, car.ID))
	p, err := s.resuc.List(s.ctx, model.ReservationFilter{
		CarID: &car.ID,
	}, model.Page{})
	s.Require().NoError(err)
	s.Zero(p.Total)
	_, err = s.uc.Get(s.ctx, car.ID)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))

	err = s.uc.Delete(s.ctx, car.ID)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}

func (s *CarsSuite) TestDeleteAbortsOnCascadeFailure() {
	car, err := s.uc.Create(s.ctx, validCar())
	s.Require().NoError(err)
	u1 := s.newUser("52998224725", "a@example.com")
	_, err = s.resuc.Create(s.ctx, u1, car.ID, "01/01/2022", "02/01/2022")
	s.Require().NoError(err)
	_, err = s.resuc.Create(s.ctx, u1, car.ID, "05/01/2022", "06/01/2022")
	s.Require().NoError(err)

	s.rs.failAt = 2
	err = s.uc.Delete(s.ctx, car.ID)
	s.Require().Error(err)
	s.Equal(cerr.KindStoreFailure, cerr.KindOf(err))
	s.ErrorContains(err, "disk is full")

	_, err = s.uc.Get(s.ctx, car.ID)
	s.NoError(err, "car must survive the aborted cascade")
	p, err := s.resuc.List(s.ctx, model.ReservationFilter{
		CarID: &car.ID,
	}, model.Page{})
	s.Require().NoError(err)
	s.EqualValues(2, p.Total, "deleted reservation is rolled back")
}
