// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
)

var errTxDone = errors.New("transaction is already finished")

// compareIDs orders UUIDs like a PostgreSQL uuid column does.
func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// fieldsFunc returns the textual values of a named field of an item,
// or false if the field is not supported. Multi-valued fields (such as
// descriptions of accessories) return more than one value.
type fieldsFunc[T any] func(item *T, field string) ([]string, bool)

func reservationFields(r *model.Reservation, field string) ([]string, bool) {
	switch field {
	case model.FieldID:
		return []string{r.ID.String()}, true
	case model.FieldStartDate:
		return []string{r.StartDate.String()}, true
	case model.FieldEndDate:
		return []string{r.EndDate.String()}, true
	case model.FieldUserID:
		return []string{r.UserID.String()}, true
	case model.FieldCarID:
		return []string{r.CarID.String()}, true
	case model.FieldFinalValue:
		return []string{r.FinalValue.String()}, true
	default:
		return nil, false
	}
}

func carFields(c *model.Car, field string) ([]string, bool) {
	switch field {
	case model.FieldID:
		return []string{c.ID.String()}, true
	case model.FieldModel:
		return []string{c.Model}, true
	case model.FieldColor:
		return []string{c.Color}, true
	case model.FieldYear:
		return []string{c.Year}, true
	case model.FieldValuePerDay:
		return []string{c.ValuePerDay.String()}, true
	case model.FieldNumberOfPassengers:
		return []string{strconv.Itoa(c.NumberOfPassengers)}, true
	case model.FieldAccessoryDescription:
		ds := make([]string, 0, len(c.Accessories))
		for _, a := range c.Accessories {
			ds = append(ds, a.Description)
		}
		return ds, true
	default:
		return nil, false
	}
}

func userFields(u *model.User, field string) ([]string, bool) {
	var v string
	switch field {
	case model.FieldID:
		v = u.ID.String()
	case model.FieldName:
		v = u.Name
	case model.FieldCPF:
		v = u.CPF
	case model.FieldBirth:
		v = u.Birth.String()
	case model.FieldEmail:
		v = u.Email
	case model.FieldCEP:
		v = u.CEP
	case model.FieldQualified:
		v = string(u.Qualified)
	case model.FieldStreet:
		v = u.Address.Street
	case model.FieldComplement:
		v = u.Address.Complement
	case model.FieldNeighborhood:
		v = u.Address.Neighborhood
	case model.FieldLocality:
		v = u.Address.Locality
	case model.FieldState:
		v = u.Address.State
	default:
		return nil, false
	}
	return []string{v}, true
}

// matchAll reports whether item satisfies all of preds. Unknown fields
// and operators are reported as cerr BadRequest errors.
func matchAll[T any](
	item *T, preds []model.Predicate, fields fieldsFunc[T],
) (bool, error) {
	for _, p := range preds {
		vals, ok := fields(item, p.Field)
		if !ok {
			return false, cerr.BadRequest(
				fmt.Errorf("unsupported filter field %q", p.Field),
			)
		}
		m, err := matchAny(vals, p)
		if err != nil {
			return false, err
		}
		if !m {
			return false, nil
		}
	}
	return true, nil
}

func matchAny(vals []string, p model.Predicate) (bool, error) {
	for _, v := range vals {
		switch p.Op {
		case model.OpEqual:
			if v == p.Value {
				return true, nil
			}
		case model.OpContains:
			if strings.Contains(
				strings.ToLower(v), strings.ToLower(p.Value),
			) {
				return true, nil
			}
		default:
			return false, cerr.BadRequest(
				fmt.Errorf("unsupported filter operator %s", p.Op),
			)
		}
	}
	return false, nil
}

// filterPage returns the p page of items which match all preds, and
// the number of matching items. Items must be sorted by the caller.
func filterPage[T any](
	items []T, preds []model.Predicate, p model.Page, fields fieldsFunc[T],
) ([]T, int64, error) {
	var matched []T
	for i := range items {
		ok, err := matchAll(&items[i], preds, fields)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matched = append(matched, items[i])
		}
	}
	total := int64(len(matched))
	start := min(max(p.Offset, 0), len(matched))
	end := len(matched)
	if p.Limit > 0 {
		end = min(start+p.Limit, end)
	}
	return matched[start:end], total, nil
}
