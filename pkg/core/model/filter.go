// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Operator is the comparison kind of a Predicate.
type Operator int

// Supported predicate operators.
const (
	OpInvalid Operator = iota // zero value is invalid

	OpEqual    // exact match
	OpContains // case-insensitive substring match
)

// String returns a short name of op for logging.
func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "eq"
	case OpContains:
		return "contains"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// Predicate is a backend-neutral filtering condition. Each store
// adapter translates predicates into its own query language (e.g.,
// a SQL WHERE clause) or evaluates them directly. Field names are
// taken from the Field* constants, so a store can reject unknown ones.
type Predicate struct {
	Field string
	Op    Operator
	Value string
}

// Equal creates an OpEqual predicate.
func Equal(field, value string) Predicate {
	return Predicate{Field: field, Op: OpEqual, Value: value}
}

// Contains creates an OpContains predicate.
func Contains(field, value string) Predicate {
	return Predicate{Field: field, Op: OpContains, Value: value}
}

// Filterable field names. They match the JSON names of the models.
const (
	FieldID = "id"

	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldUserID     = "user_id"
	FieldCarID      = "car_id"
	FieldFinalValue = "final_value"

	FieldModel                = "model"
	FieldColor                = "color"
	FieldYear                 = "year"
	FieldValuePerDay          = "value_per_day"
	FieldNumberOfPassengers   = "number_of_passengers"
	FieldAccessoryDescription = "accessories.description"

	FieldName         = "name"
	FieldCPF          = "cpf"
	FieldBirth        = "birth"
	FieldEmail        = "email"
	FieldCEP          = "cep"
	FieldQualified    = "qualified"
	FieldStreet       = "street"
	FieldComplement   = "complement"
	FieldNeighborhood = "neighborhood"
	FieldLocality     = "locality"
	FieldState        = "state"
)

// ReservationFilter lists optional reservation listing conditions.
// IDs are matched exactly while other fields are matched as
// case-insensitive substrings of their textual representation.
type ReservationFilter struct {
	UserID     *uuid.UUID
	CarID      *uuid.UUID
	StartDate  *string
	EndDate    *string
	FinalValue *string
}

// Predicates converts f into a list of predicates.
func (f ReservationFilter) Predicates() []Predicate {
	var ps []Predicate
	ps = appendID(ps, FieldUserID, f.UserID)
	ps = appendID(ps, FieldCarID, f.CarID)
	ps = appendContains(ps, FieldStartDate, f.StartDate)
	ps = appendContains(ps, FieldEndDate, f.EndDate)
	ps = appendContains(ps, FieldFinalValue, f.FinalValue)
	return ps
}

// CarFilter lists optional car listing conditions.
type CarFilter struct {
	Model                *string
	Color                *string
	Year                 *string
	ValuePerDay          *string
	NumberOfPassengers   *int
	AccessoryDescription *string
}

// Predicates converts f into a list of predicates.
func (f CarFilter) Predicates() []Predicate {
	var ps []Predicate
	ps = appendContains(ps, FieldModel, f.Model)
	ps = appendContains(ps, FieldColor, f.Color)
	ps = appendContains(ps, FieldYear, f.Year)
	ps = appendContains(ps, FieldValuePerDay, f.ValuePerDay)
	if n := f.NumberOfPassengers; n != nil {
		ps = append(ps, Equal(FieldNumberOfPassengers, strconv.Itoa(*n)))
	}
	ps = appendContains(
		ps, FieldAccessoryDescription, f.AccessoryDescription,
	)
	return ps
}

// UserFilter lists optional user listing conditions.
type UserFilter struct {
	Name         *string
	CPF          *string
	Birth        *string
	Email        *string
	CEP          *string
	Qualified    *string
	Street       *string
	Complement   *string
	Neighborhood *string
	Locality     *string
	State        *string
}

// Predicates converts f into a list of predicates.
func (f UserFilter) Predicates() []Predicate {
	var ps []Predicate
	ps = appendContains(ps, FieldName, f.Name)
	ps = appendContains(ps, FieldCPF, f.CPF)
	ps = appendContains(ps, FieldBirth, f.Birth)
	ps = appendContains(ps, FieldEmail, f.Email)
	ps = appendContains(ps, FieldCEP, f.CEP)
	ps = appendContains(ps, FieldQualified, f.Qualified)
	ps = appendContains(ps, FieldStreet, f.Street)
	ps = appendContains(ps, FieldComplement, f.Complement)
	ps = appendContains(ps, FieldNeighborhood, f.Neighborhood)
	ps = appendContains(ps, FieldLocality, f.Locality)
	ps = appendContains(ps, FieldState, f.State)
	return ps
}

func appendID(ps []Predicate, field string, id *uuid.UUID) []Predicate {
	if id == nil {
		return ps
	}
	return append(ps, Equal(field, id.String()))
}

func appendContains(ps []Predicate, field string, s *string) []Predicate {
	if s == nil || *s == "" {
		return ps
	}
	return append(ps, Contains(field, *s))
}

// Page selects a window of a listing result.
type Page struct {
	Limit  int
	Offset int
}

// Bounded returns a copy of p with a positive limit which is not
// greater than maxLimit. A non-positive limit is replaced by defLimit
// and a negative offset is replaced by zero.
func (p Page) Bounded(defLimit, maxLimit int) Page {
	if p.Limit <= 0 {
		p.Limit = defLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageOf is one page of a listing result. The PageCount is computed
// from Total and Limit, rounding upwards.
type PageOf[T any] struct {
	Items     []T   `json:"items"`
	Total     int64 `json:"total"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
	PageCount int64 `json:"page_count"`
}

// NewPageOf wraps items of the p page, out of total matching items.
// The p.Limit must be positive.
func NewPageOf[T any](items []T, total int64, p Page) *PageOf[T] {
	if items == nil {
		items = []T{}
	}
	l := int64(p.Limit)
	return &PageOf[T]{
		Items:     items,
		Total:     total,
		Limit:     p.Limit,
		Offset:    p.Offset,
		PageCount: (total + l - 1) / l,
	}
}
