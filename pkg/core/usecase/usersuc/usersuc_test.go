// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersuc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/memory"
	"github.com/momeni/flexilease/pkg/adapter/hash/scram"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type fakeAddresses map[string]model.Address

func (fa fakeAddresses) FindAddress(
	ctx context.Context, cep string,
) (*model.Address, error) {
	if cep == "00000000" {
		return nil, errors.New("lookup timed out")
	}
	a, ok := fa[cep]
	if !ok {
		return nil, fmt.Errorf("cep %s: %w", cep, usersuc.ErrUnknownCEP)
	}
	return &a, nil
}

type UsersSuite struct {
	suite.Suite

	ctx  context.Context
	pool *memory.Pool
	cars *memory.CarsRepo
	rs   *memory.ReservationsRepo
	uc   *usersuc.UseCase
}

func TestUsersSuite(t *testing.T) {
	suite.Run(t, new(UsersSuite))
}

func (s *UsersSuite) SetupTest() {
	s.ctx = context.Background()
	s.pool = memory.NewPool()
	s.cars = memory.NewCars()
	s.rs = memory.NewReservations()
	addrs := fakeAddresses{
		"01001000": {
			Street:       "Praça da Sé",
			Complement:   "lado ímpar",
			Neighborhood: "Sé",
			Locality:     "São Paulo",
			State:        "SP",
		},
	}
	var err error
	s.uc, err = usersuc.New(
		s.pool, memory.NewUsers(), s.rs, scram.SHA256(), addrs,
		usersuc.WithHashIterations(4096),
		usersuc.WithClock(func() time.Time {
			return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
	s.Require().NoError(err)
}

func params() *usersuc.Params {
	return &usersuc.Params{
		Name:      "Ana Lima",
		CPF:       "529.982.247-25",
		Birth:     "01/06/2006",
		Email:     "Ana@Example.com",
		Password:  "s3cret",
		CEP:       "01001-000",
		Qualified: "sim",
	}
}

func (s *UsersSuite) TestCreate() {
	u, err := s.uc.Create(s.ctx, params())
	s.Require().NoError(err)
	s.Equal("52998224725", u.CPF)
	s.Equal("ana@example.com", u.Email)
	s.Equal("01001000", u.CEP)
	s.Equal(model.QualificationYes, u.Qualified)
	s.Equal("São Paulo", u.Address.Locality)
	s.NotEqual("s3cret", u.Password)

	got, err := s.uc.Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u, got)
}

func (s *UsersSuite) TestCreateRejectsInvalidInputs() {
	for name, tc := range map[string]struct {
		mutate func(p *usersuc.Params)
		kind   cerr.Kind
	}{
		"cpf":      {func(p *usersuc.Params) { p.CPF = "529.982.247-24" }, cerr.KindBadRequest},
		"minor":    {func(p *usersuc.Params) { p.Birth = "02/06/2006" }, cerr.KindBadRequest},
		"birth":    {func(p *usersuc.Params) { p.Birth = "2006-06-01" }, cerr.KindInvalidDate},
		"email":    {func(p *usersuc.Params) { p.Email = "ana" }, cerr.KindBadRequest},
		"password": {func(p *usersuc.Params) { p.Password = "" }, cerr.KindBadRequest},
		"address":  {func(p *usersuc.Params) { p.CEP = "99999999" }, cerr.KindNotFound},
	} {
		p := params()
		tc.mutate(p)
		_, err := s.uc.Create(s.ctx, p)
		s.Equal(tc.kind, cerr.KindOf(err), "%s: %v", name, err)
	}
}

func (s *UsersSuite) TestAddressLookupFailure() {
	p := params()
	p.CEP = "00000-000"
	_, err := s.uc.Create(s.ctx, p)
	s.Require().Error(err)
	s.Equal(cerr.KindStoreFailure, cerr.KindOf(err), "err: %v", err)

	p.CEP = "99999-999"
	_, err = s.uc.Create(s.ctx, p)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err), "err: %v", err)
	s.Equal("address", cerr.SubjectOf(err))

	page, err := s.uc.List(s.ctx, model.UserFilter{}, model.Page{})
	s.Require().NoError(err)
	s.Zero(page.Total)
}

func (s *UsersSuite) TestUniqueness() {
	_, err := s.uc.Create(s.ctx, params())
	s.Require().NoError(err)

	p := params()
	p.CPF = "11144477735"
	p.Email = "ANA@example.com"
	_, err = s.uc.Create(s.ctx, p)
	s.Equal(cerr.KindConflict, cerr.KindOf(err))
	s.Equal(model.FieldEmail, cerr.SubjectOf(err))

	p = params()
	p.Email = "other@example.com"
	_, err = s.uc.Create(s.ctx, p)
	s.Equal(cerr.KindConflict, cerr.KindOf(err))
	s.Equal(model.FieldCPF, cerr.SubjectOf(err))
}

func (s *UsersSuite) TestUpdateKeepsPasswordWhenOmitted() {
	u, err := s.uc.Create(s.ctx, params())
	s.Require().NoError(err)

	p := params()
	p.Name = "Ana Souza"
	p.Password = ""
	p.Qualified = "no"
	updated, err := s.uc.Update(s.ctx, u.ID, p)
	s.Require().NoError(err, "own email and cpf are not conflicts")
	s.Equal("Ana Souza", updated.Name)
	s.Equal(u.Password, updated.Password)
	s.Equal(model.QualificationNo, updated.Qualified)

	_, err = s.uc.Authenticate(s.ctx, "ana@example.com", "s3cret")
	s.NoError(err)

	_, err = s.uc.Update(s.ctx, uuid.New(), params())
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
	s.Equal("user", cerr.SubjectOf(err))
}

func (s *UsersSuite) TestAuthenticate() {
	u, err := s.uc.Create(s.ctx, params())
	s.Require().NoError(err)

	got, err := s.uc.Authenticate(s.ctx, " ANA@example.com", "s3cret")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	_, err = s.uc.Authenticate(s.ctx, "ana@example.com", "wrong")
	s.Equal(cerr.KindUnauthenticated, cerr.KindOf(err))
	_, err = s.uc.Authenticate(s.ctx, "bob@example.com", "s3cret")
	s.Equal(cerr.KindUnauthenticated, cerr.KindOf(err))
}

func (s *UsersSuite) TestListFilters() {
	_, err := s.uc.Create(s.ctx, params())
	s.Require().NoError(err)
	p := params()
	p.Name, p.Email, p.CPF, p.Qualified = "Bruno", "b@example.com",
		"11144477735", "no"
	_, err = s.uc.Create(s.ctx, p)
	s.Require().NoError(err)

	state, no := "sp", "no"
	page, err := s.uc.List(s.ctx, model.UserFilter{State: &state},
		model.Page{})
	s.Require().NoError(err)
	s.EqualValues(2, page.Total)
	s.Equal("Ana Lima", page.Items[0].Name)

	page, err = s.uc.List(s.ctx, model.UserFilter{Qualified: &no},
		model.Page{})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("Bruno", page.Items[0].Name)
}

func (s *UsersSuite) TestDeleteCascades() {
	u, err := s.uc.Create(s.ctx, params())
	s.Require().NoError(err)
	car := model.Car{
		ID:                 uuid.New(),
		Model:              "Gol",
		Color:              "black",
		Year:               "2019",
		ValuePerDay:        decimal.NewFromInt(80),
		NumberOfPassengers: 5,
	}
	err = s.pool.Conn(s.ctx, func(ctx context.Context, c repo.Conn) error {
		if err := s.cars.Conn(c).Create(ctx, &car); err != nil {
			return err
		}
		for _, d := range []string{"01/02/2022", "05/02/2022"} {
			r := &model.Reservation{
				ID:        uuid.New(),
				StartDate: model.MustParseDate(d),
				EndDate:   model.MustParseDate(d),
				UserID:    u.ID,
				CarID:     car.ID,
			}
			if err := s.rs.Conn(c).Create(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)

	s.Require().NoError(s.uc.Delete(s.ctx, u.ID))
	err = s.pool.Conn(s.ctx, func(ctx context.Context, c repo.Conn) error {
		rs, err := s.rs.Conn(c).ListByUser(ctx, u.ID)
		s.Empty(rs)
		return err
	})
	s.Require().NoError(err)
	_, err = s.uc.Get(s.ctx, u.ID)
	s.Equal(cerr.KindNotFound, cerr.KindOf(err))
}
