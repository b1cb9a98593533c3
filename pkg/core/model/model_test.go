// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := model.ParseDate("29/02/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d.Time())
	assert.Equal(t, "29/02/2024", d.String())

	for _, s := range []string{
		"30/02/2022", "29/02/2023", "31/04/2024", "1/1/2024",
		"2024-01-10", "10/01/24", "", "aa/bb/cccc",
		"01/01/0001", "03/01/0001", "31/12/1899",
	} {
		_, err := model.ParseDate(s)
		assert.ErrorIs(t, err, model.ErrInvalidDate, "date: %q", s)
	}
}

func TestParseDateKeepsItsText(t *testing.T) {
	for _, s := range []string{"01/01/1900", "31/12/9999", "15/06/2022"} {
		d, err := model.ParseDate(s)
		require.NoError(t, err, s)
		assert.False(t, d.IsZero(), s)
		text, err := d.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, s, string(text))

		var back model.Date
		require.NoError(t, back.UnmarshalText(text))
		assert.Zero(t, back.Compare(d), s)
	}
}

func TestSemVer(t *testing.T) {
	v, err := model.ParseSemVer("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, model.SemVer{1, 2, 3}, v)
	assert.Equal(t, "1.2.3", v.String())
	v, err = model.ParseSemVer("2")
	require.NoError(t, err)
	assert.Equal(t, model.SemVer{2, 0, 0}, v)

	for _, s := range []string{"", "1.2.3.4", "1.x.0", "-1.0.0"} {
		_, err := model.ParseSemVer(s)
		assert.Error(t, err, "version: %q", s)
	}

	reader := model.SemVer{1, 2, 0}
	assert.True(t, reader.Reads(model.SemVer{1, 0, 5}))
	assert.True(t, reader.Reads(model.SemVer{1, 2, 9}))
	assert.False(t, reader.Reads(model.SemVer{1, 3, 0}))
	assert.False(t, reader.Reads(model.SemVer{2, 0, 0}))
}

func TestParseDateRange(t *testing.T) {
	r, err := model.ParseDateRange("10/01/2024", "15/01/2024")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Days())

	_, err = model.ParseDateRange("15/01/2024", "10/01/2024")
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, err = model.ParseDateRange("10/01/2024", "32/01/2024")
	var dfe *model.DateFieldError
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, "end_date", dfe.Field)
	assert.ErrorIs(t, err, model.ErrInvalidDate)
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		start, end string
		days       int
	}{
		{"10/01/2024", "10/01/2024", 0},
		{"10/01/2024", "11/01/2024", 1},
		{"28/02/2024", "01/03/2024", 2},
		{"28/02/2023", "01/03/2023", 1},
		{"20/12/2023", "05/01/2024", 16},
	}
	for _, c := range cases {
		got := model.DaysBetween(
			model.MustParseDate(c.start), model.MustParseDate(c.end),
		)
		assert.Equal(t, c.days, got, "%s..%s", c.start, c.end)
	}
}

func TestOverlapsIsInclusive(t *testing.T) {
	d := model.MustParseDate
	base := model.DateRange{Start: d("10/01/2024"), End: d("15/01/2024")}
	cases := []struct {
		start, end string
		overlaps   bool
	}{
		{"01/01/2024", "09/01/2024", false},
		{"01/01/2024", "10/01/2024", true},
		{"15/01/2024", "20/01/2024", true},
		{"16/01/2024", "20/01/2024", false},
		{"11/01/2024", "12/01/2024", true},
		{"01/01/2024", "31/01/2024", true},
	}
	for _, c := range cases {
		o := model.DateRange{Start: d(c.start), End: d(c.end)}
		assert.Equal(t, c.overlaps, base.Overlaps(o), "%v", o)
		assert.Equal(t, c.overlaps, o.Overlaps(base), "%v", o)
	}
}

func TestYearsSince(t *testing.T) {
	birth := model.MustParseDate("03/03/1995")
	d := model.MustParseDate
	assert.Equal(t, 17, d("02/03/2013").YearsSince(birth))
	assert.Equal(t, 18, d("03/03/2013").YearsSince(birth))
	assert.Equal(t, 18, d("01/01/2014").YearsSince(birth))

	leap := model.MustParseDate("29/02/2000")
	assert.Equal(t, 17, d("28/02/2018").YearsSince(leap))
	assert.Equal(t, 18, d("01/03/2018").YearsSince(leap))
}

func TestDateJSON(t *testing.T) {
	r := model.Reservation{
		StartDate:  model.MustParseDate("10/01/2024"),
		EndDate:    model.MustParseDate("15/01/2024"),
		FinalValue: decimal.RequireFromString("250.5"),
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "10/01/2024", raw["start_date"])
	assert.Equal(t, "250.5", raw["final_value"])

	var back model.Reservation
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Zero(t, back.StartDate.Compare(r.StartDate))

	err = json.Unmarshal([]byte(`{"start_date":"31/02/2024"}`), &back)
	assert.True(t, errors.Is(err, model.ErrInvalidDate), "err: %v", err)
}

func TestCarPrice(t *testing.T) {
	c := model.Car{ValuePerDay: decimal.RequireFromString("270.10")}
	r, err := model.ParseDateRange("10/01/2024", "15/01/2024")
	require.NoError(t, err)
	assert.True(t,
		decimal.RequireFromString("1350.5").Equal(c.Price(r)),
		"price: %s", c.Price(r),
	)
}

func TestAssignAccessoryIDs(t *testing.T) {
	kept := uuid.New()
	c := model.Car{Accessories: []model.Accessory{
		{ID: kept, Description: "Sunroof"},
		{Description: "Ar-condicionado"},
	}}
	c.AssignAccessoryIDs()
	assert.Equal(t, kept, c.Accessories[0].ID)
	assert.NotEqual(t, uuid.Nil, c.Accessories[1].ID)
}

func TestValidCPF(t *testing.T) {
	for _, cpf := range []string{
		"529.982.247-25", "52998224725", "111.444.777-35",
	} {
		assert.True(t, model.ValidCPF(cpf), cpf)
	}
	for _, cpf := range []string{
		"529.982.247-24", "111.111.111-11", "00000000000",
		"5299822472", "529982247250", "",
	} {
		assert.False(t, model.ValidCPF(cpf), cpf)
	}
}

func TestQualification(t *testing.T) {
	for _, q := range []model.Qualification{"yes", "Sim", " YES "} {
		assert.True(t, q.IsQualified(), "%q", q)
	}
	for _, q := range []model.Qualification{"no", "não", "", "y"} {
		assert.False(t, q.IsQualified(), "%q", q)
	}
}

func TestPageBounded(t *testing.T) {
	p := model.Page{Limit: 0, Offset: -3}.Bounded(10, 100)
	assert.Equal(t, model.Page{Limit: 10, Offset: 0}, p)
	p = model.Page{Limit: 500, Offset: 20}.Bounded(10, 100)
	assert.Equal(t, model.Page{Limit: 100, Offset: 20}, p)
	p = model.Page{Limit: 7}.Bounded(10, 100)
	assert.Equal(t, model.Page{Limit: 7}, p)
}

func TestNewPageOf(t *testing.T) {
	po := model.NewPageOf[int](nil, 21, model.Page{Limit: 10, Offset: 20})
	assert.NotNil(t, po.Items)
	assert.EqualValues(t, 3, po.PageCount)
	assert.Equal(t, 20, po.Offset)

	po = model.NewPageOf([]int{1, 2}, 2, model.Page{Limit: 2})
	assert.EqualValues(t, 1, po.PageCount)
	po = model.NewPageOf[int](nil, 0, model.Page{Limit: 2})
	assert.Zero(t, po.PageCount)
}

func TestFilterPredicates(t *testing.T) {
	uid := uuid.New()
	empty := ""
	value := "250"
	ps := model.ReservationFilter{
		UserID:     &uid,
		StartDate:  &empty,
		FinalValue: &value,
	}.Predicates()
	assert.Equal(t, []model.Predicate{
		model.Equal(model.FieldUserID, uid.String()),
		model.Contains(model.FieldFinalValue, "250"),
	}, ps)

	n := 5
	ps = model.CarFilter{NumberOfPassengers: &n}.Predicates()
	assert.Equal(t, []model.Predicate{
		model.Equal(model.FieldNumberOfPassengers, "5"),
	}, ps)
	assert.Empty(t, model.UserFilter{}.Predicates())
}
