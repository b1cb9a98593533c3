// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres reifies the store contracts of the repo package
// over a PostgreSQL database using GORM and the pgx driver. The Pool,
// Conn, and Tx types are defined here, while each repository lives in
// its own sub-package, e.g., reservationsrp.
//
// Integrity rules are guarded by the database schema. Violations are
// converted to cerr errors by the Classify function, so a concurrent
// writer which passes the use case checks is still rejected by the
// reservations exclusion constraints with a cerr Conflict error.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/flexilease/pkg/core/cerr"
)

// PostgreSQL error codes (SQLSTATE) which are converted by Classify.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	ForeignKeyViolation = "23503"
	UniqueViolation     = "23505"
	ExclusionViolation  = "23P01"
)

// Classify converts integrity violation errors of PostgreSQL to cerr
// errors. Unique and exclusion constraint violations become Conflict
// errors, while foreign key violations become NotFound errors (since
// they are caused by inserting a reference to a missing row).
// The subjects maps constraint names to error subjects. Other errors
// are returned unchanged.
func Classify(err error, subjects map[string]string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	subject := subjects[pgErr.ConstraintName]
	switch pgErr.Code {
	case UniqueViolation, ExclusionViolation:
		return cerr.Conflict(subject, err)
	case ForeignKeyViolation:
		return cerr.NotFound(subject, err)
	default:
		return err
	}
}

// IsForeignKeyViolation reports whether err is caused by a foreign
// key constraint violation, e.g., deleting a row which is referenced.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == ForeignKeyViolation
}
