// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"fmt"
	"strings"

	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
	"gorm.io/gorm"
)

// Filter holds the SQL conditions which implement the predicate
// operators for one filterable field. Each condition must contain
// exactly one ? placeholder for the predicate value.
type Filter struct {
	Equal    string
	Contains string
}

// TextFilter returns a Filter which compares the expr SQL expression
// as text. Contains is evaluated case-insensitively.
func TextFilter(expr string) Filter {
	return Filter{
		Equal:    expr + " = ?",
		Contains: expr + " ILIKE ?",
	}
}

// Filters maps model.Field* names to their filters.
type Filters map[string]Filter

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where adds preds to gdb as a series of AND-ed WHERE conditions.
// Unsupported fields or operators cause a cerr BadRequest error.
func (fs Filters) Where(
	gdb *gorm.DB, preds []model.Predicate,
) (*gorm.DB, error) {
	for _, p := range preds {
		f, ok := fs[p.Field]
		if !ok {
			return nil, cerr.BadRequest(
				fmt.Errorf("unsupported filter field %q", p.Field),
			)
		}
		switch p.Op {
		case model.OpEqual:
			gdb = gdb.Where(f.Equal, p.Value)
		case model.OpContains:
			gdb = gdb.Where(
				f.Contains, "%"+likeEscaper.Replace(p.Value)+"%",
			)
		default:
			return nil, cerr.BadRequest(
				fmt.Errorf("unsupported filter operator %s", p.Op),
			)
		}
	}
	return gdb, nil
}

// Page runs a count query and a page query for the rows of the
// m model (table) which match preds, filling rows with the p page.
// The order is used for sorting the rows before paging.
func Page[T any](
	gdb *gorm.DB,
	fs Filters,
	preds []model.Predicate,
	p model.Page,
	order string,
	rows *[]T,
) (total int64, err error) {
	var m T
	q, err := fs.Where(gdb.Model(&m), preds)
	if err != nil {
		return 0, err
	}
	if err = q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("counting: %w", err)
	}
	q, _ = fs.Where(gdb.Model(&m), preds)
	q = q.Order(order).Offset(p.Offset)
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if err = q.Find(rows).Error; err != nil {
		return 0, fmt.Errorf("finding: %w", err)
	}
	return total, nil
}
