// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reservationsuc_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/db/memory"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/usecase/reservationsuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReservationsSuite struct {
	suite.Suite

	ctx  context.Context
	pool *memory.Pool
	rs   *memory.ReservationsRepo
	uc   *reservationsuc.UseCase

	car        model.Car
	otherCar   model.Car
	user       model.User
	otherUser  model.User
	unqualUser model.User
}

func TestReservationsSuite(t *testing.T) {
	suite.Run(t, new(ReservationsSuite))
}

func (s *ReservationsSuite) SetupTest() {
	s.ctx = context.Background()
	s.pool = memory.NewPool()
	cars, users := memory.NewCars(), memory.NewUsers()
	s.rs = memory.NewReservations()
	var err error
	s.uc, err = reservationsuc.New(
		s.pool, cars, users, s.rs,
		reservationsuc.WithDefaultPageLimit(2),
		reservationsuc.WithMaxPageLimit(5),
	)
	s.Require().NoError(err)

	s.car = newCar("Fiat Uno", "150")
	s.otherCar = newCar("Gol", "99.90")
	s.user = newUser("Ana", "ana@example.com", "sim")
	s.otherUser = newUser("Bruno", "bruno@example.com", "yes")
	s.unqualUser = newUser("Caio", "caio@example.com", "no")
	err = s.pool.Conn(s.ctx, func(ctx context.Context, c repo.Conn) error {
		for _, car := range []*model.Car{&s.car, &s.otherCar} {
			if err := cars.Conn(c).Create(ctx, car); err != nil {
				return err
			}
		}
		for _, u := range []*model.User{
			&s.user, &s.otherUser, &s.unqualUser,
		} {
			if err := users.Conn(c).Create(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)
}

var cpfs = []string{"52998224725", "11144477735", "39053344705"}

func newCar(m, value string) model.Car {
	return model.Car{
		ID:                 uuid.New(),
		Model:              m,
		Color:              "white",
		Year:               "2020",
		ValuePerDay:        decimal.RequireFromString(value),
		NumberOfPassengers: 5,
		Accessories: []model.Accessory{
			{ID: uuid.New(), Description: "air conditioning"},
		},
	}
}

func newUser(name, email string, q model.Qualification) model.User {
	u := model.User{
		ID:        uuid.New(),
		Name:      name,
		CPF:       cpfs[0],
		Birth:     model.MustParseDate("01/01/1990"),
		Email:     email,
		Qualified: q,
	}
	cpfs = append(cpfs[1:], cpfs[0])
	return u
}

func (s *ReservationsSuite) count() int64 {
	p, err := s.uc.List(s.ctx, model.ReservationFilter{}, model.Page{})
	s.Require().NoError(err)
	return p.Total
}

func (s *ReservationsSuite) requireKind(
	err error, k cerr.Kind, subject string,
) {
	s.Require().Error(err)
	s.Equal(k, cerr.KindOf(err), "err: %v", err)
	s.Equal(subject, cerr.SubjectOf(err), "err: %v", err)
}

func (s *ReservationsSuite) TestAdmissionScenario() {
	r1, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.Require().NoError(err)
	s.Equal("1350", r1.FinalValue.String())
	s.NotEqual(uuid.Nil, r1.ID)

	_, err = s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "05/01/2022", "07/01/2022",
	)
	s.requireKind(err, cerr.KindConflict, "user")

	r3, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "11/01/2022", "15/01/2022",
	)
	s.Require().NoError(err)
	s.Equal("600", r3.FinalValue.String())
	s.EqualValues(2, s.count())
}

func (s *ReservationsSuite) TestCarConflictWithAnotherUser() {
	_, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.Require().NoError(err)
	_, err = s.uc.Create(
		s.ctx, s.otherUser.ID, s.car.ID, "10/01/2022", "12/01/2022",
	)
	s.requireKind(err, cerr.KindConflict, "car")

	_, err = s.uc.Create(
		s.ctx, s.otherUser.ID, s.otherCar.ID, "10/01/2022", "12/01/2022",
	)
	s.NoError(err, "another car is free at the same dates")
}

func (s *ReservationsSuite) TestUserConflictIsReportedBeforeCar() {
	_, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.Require().NoError(err)
	_, err = s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "01/01/2022", "01/01/2022",
	)
	s.requireKind(err, cerr.KindConflict, "user")
}

func (s *ReservationsSuite) TestSameDayReservationIsFree() {
	r, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "03/03/2023", "03/03/2023",
	)
	s.Require().NoError(err)
	s.True(r.FinalValue.IsZero())
}

func (s *ReservationsSuite) TestUnqualifiedUserWritesNothing() {
	_, err := s.uc.Create(
		s.ctx, s.unqualUser.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.requireKind(err, cerr.KindUnqualified, "user")
	s.Zero(s.count())
}

func (s *ReservationsSuite) TestMissingReferences() {
	_, err := s.uc.Create(
		s.ctx, s.user.ID, uuid.New(), "not a date", "10/01/2022",
	)
	s.requireKind(err, cerr.KindNotFound, "car")

	_, err = s.uc.Create(
		s.ctx, uuid.New(), s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.requireKind(err, cerr.KindNotFound, "user")
	s.Zero(s.count())
}

func (s *ReservationsSuite) TestInvalidDates() {
	for _, tc := range []struct {
		start, end string
		kind       cerr.Kind
		subject    string
	}{
		{"31/02/2022", "10/03/2022", cerr.KindInvalidDate, "start_date"},
		{"2022-01-01", "10/03/2022", cerr.KindInvalidDate, "start_date"},
		{"01/01/2022", "1/2/2022", cerr.KindInvalidDate, "end_date"},
		{"01/01/0001", "03/01/0001", cerr.KindInvalidDate, "start_date"},
		{"10/01/2022", "01/01/2022", cerr.KindInvalidRange, ""},
	} {
		_, err := s.uc.Create(s.ctx, s.user.ID, s.car.ID, tc.start, tc.end)
		s.requireKind(err, tc.kind, tc.subject)
	}
	s.Zero(s.count())
}

func (s *ReservationsSuite) TestUpdateExcludesItself() {
	r, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.Require().NoError(err)

	u, err := s.uc.Update(
		s.ctx, r.ID, s.user.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.Require().NoError(err)
	s.Equal(r.ID, u.ID)

	u, err = s.uc.Update(
		s.ctx, r.ID, s.user.ID, s.otherCar.ID, "02/01/2022", "04/01/2022",
	)
	s.Require().NoError(err)
	s.Equal("199.8", u.FinalValue.String())

	got, err := s.uc.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(s.otherCar.ID, got.CarID)
	s.Equal("02/01/2022", got.StartDate.String())
	s.EqualValues(1, s.count())
}

func (s *ReservationsSuite) TestUpdateConflictsWithOthers() {
	_, err := s.uc.Create(
		s.ctx, s.otherUser.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.Require().NoError(err)
	r, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "11/01/2022", "12/01/2022",
	)
	s.Require().NoError(err)
	_, err = s.uc.Update(
		s.ctx, r.ID, s.user.ID, s.car.ID, "09/01/2022", "12/01/2022",
	)
	s.requireKind(err, cerr.KindConflict, "car")

	got, err := s.uc.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal("11/01/2022", got.StartDate.String(), "update is rejected")
}

func (s *ReservationsSuite) TestUpdateMissingReservation() {
	_, err := s.uc.Update(
		s.ctx, uuid.New(), uuid.New(), uuid.New(), "x", "y",
	)
	s.requireKind(err, cerr.KindNotFound, "reservation")
}

func (s *ReservationsSuite) TestGetAndDelete() {
	r, err := s.uc.Create(
		s.ctx, s.user.ID, s.car.ID, "01/01/2022", "10/01/2022",
	)
	s.Require().NoError(err)
	s.Require().NoError(s.uc.Delete(s.ctx, r.ID))

	_, err = s.uc.Get(s.ctx, r.ID)
	s.requireKind(err, cerr.KindNotFound, "reservation")
	err = s.uc.Delete(s.ctx, r.ID)
	s.requireKind(err, cerr.KindNotFound, "reservation")
}

func (s *ReservationsSuite) TestListPagination() {
	for _, d := range []string{"01", "03", "05", "07", "09"} {
		_, err := s.uc.Create(
			s.ctx, s.user.ID, s.car.ID, d+"/05/2022", d+"/05/2022",
		)
		s.Require().NoError(err)
	}
	_, err := s.uc.Create(
		s.ctx, s.otherUser.ID, s.otherCar.ID, "01/05/2022", "02/05/2022",
	)
	s.Require().NoError(err)

	p, err := s.uc.List(s.ctx, model.ReservationFilter{
		UserID: &s.user.ID,
	}, model.Page{Offset: 2})
	s.Require().NoError(err)
	s.EqualValues(5, p.Total)
	s.Equal(2, p.Limit, "default page limit")
	s.EqualValues(3, p.PageCount)
	s.Require().Len(p.Items, 2)
	s.Equal("05/05/2022", p.Items[0].StartDate.String())

	p, err = s.uc.List(s.ctx, model.ReservationFilter{}, model.Page{
		Limit: 50,
	})
	s.Require().NoError(err)
	s.Equal(5, p.Limit, "max page limit")
	s.Len(p.Items, 5)
	s.EqualValues(6, p.Total)
	s.EqualValues(2, p.PageCount)

	month := "/05/"
	p, err = s.uc.List(s.ctx, model.ReservationFilter{
		CarID:   &s.otherCar.ID,
		EndDate: &month,
	}, model.Page{})
	s.Require().NoError(err)
	s.EqualValues(1, p.Total)
}

func (s *ReservationsSuite) TestConcurrentCreatesNeverOverlap() {
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.uc.Create(
				s.ctx, s.user.ID, s.car.ID, "01/06/2022", "05/06/2022",
			)
		}(i)
	}
	wg.Wait()
	var accepted int
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		s.True(errors.Is(err, &cerr.Error{Kind: cerr.KindConflict}))
	}
	s.Equal(1, accepted)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	p := memory.NewPool()
	_, err := reservationsuc.New(
		p, memory.NewCars(), memory.NewUsers(), memory.NewReservations(),
		reservationsuc.WithDefaultPageLimit(20),
		reservationsuc.WithMaxPageLimit(10),
	)
	if err == nil {
		t.Fatal("expected default > max to be rejected")
	}
	_, err = reservationsuc.New(
		p, memory.NewCars(), memory.NewUsers(), memory.NewReservations(),
		reservationsuc.WithMaxPageLimit(0),
	)
	if err == nil {
		t.Fatal("expected a non-positive limit to be rejected")
	}
}
