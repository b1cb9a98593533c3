// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1 provides the Initializer type for database schema major
// version 1. It creates the cars, users, and reservations tables in an
// empty schema and may fill them with development suitable data.
package sch1

import (
	"context"
	"fmt"

	"github.com/momeni/flexilease/pkg/adapter/db/postgres"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// These constants indicate the major, minor, and patch components of
// the database schema which is created by this package.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Tables lists the DDL statements which create the tables of the v1
// schema. Reservations of one car (or one user) may not overlap, as
// enforced by two exclusion constraints which need the btree_gist
// extension. Closed date ranges are used, so a reservation which ends
// at some day and another one which starts at the same day overlap.
var Tables = []string{
	`CREATE TABLE cars (
	id uuid PRIMARY KEY,
	model text NOT NULL,
	color text NOT NULL,
	year varchar(4) NOT NULL,
	value_per_day numeric NOT NULL
		CONSTRAINT cars_value_per_day_check CHECK (value_per_day > 0),
	number_of_passengers integer NOT NULL
		CONSTRAINT cars_passengers_check CHECK (number_of_passengers > 0),
	accessories jsonb NOT NULL DEFAULT '[]'
)`,
	`CREATE TABLE users (
	id uuid PRIMARY KEY,
	name text NOT NULL,
	cpf text NOT NULL CONSTRAINT users_cpf_key UNIQUE,
	birth date NOT NULL,
	email text NOT NULL CONSTRAINT users_email_key UNIQUE,
	password text NOT NULL,
	cep varchar(8) NOT NULL,
	qualified text NOT NULL,
	street text NOT NULL DEFAULT '',
	complement text NOT NULL DEFAULT '',
	neighborhood text NOT NULL DEFAULT '',
	locality text NOT NULL DEFAULT '',
	state text NOT NULL DEFAULT ''
)`,
	`CREATE TABLE reservations (
	id uuid PRIMARY KEY,
	start_date date NOT NULL,
	end_date date NOT NULL,
	user_id uuid NOT NULL
		CONSTRAINT reservations_user_id_fkey REFERENCES users (id)
		ON DELETE RESTRICT,
	car_id uuid NOT NULL
		CONSTRAINT reservations_car_id_fkey REFERENCES cars (id)
		ON DELETE RESTRICT,
	final_value numeric NOT NULL,
	CONSTRAINT reservations_range_check CHECK (start_date <= end_date),
	CONSTRAINT reservations_user_overlap EXCLUDE USING gist (
		user_id WITH =,
		daterange(start_date, end_date, '[]') WITH &&
	),
	CONSTRAINT reservations_car_overlap EXCLUDE USING gist (
		car_id WITH =,
		daterange(start_date, end_date, '[]') WITH &&
	)
)`,
}

// Initializer creates and fills the v1 tables using a single
// transaction of the destination database. The caller is responsible
// to commit that transaction.
type Initializer struct {
	tx *postgres.Tx
}

// New creates a new Initializer instance, wrapping the given `tx`
// database transaction. The schema must exist and be the first item
// of the search_path of the connected role.
func New(tx repo.Tx) *Initializer {
	return &Initializer{
		tx: tx.(*postgres.Tx),
	}
}

func (i *Initializer) createTables(ctx context.Context) error {
	for _, ddl := range Tables {
		if _, err := i.tx.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	return nil
}

// InitDevSchema creates the v1 tables and fills them with the
// development suitable initial data, as provided by the DevData.
func (i *Initializer) InitDevSchema(ctx context.Context) error {
	if err := i.createTables(ctx); err != nil {
		return err
	}
	if err := i.insertDevData(ctx); err != nil {
		return fmt.Errorf("inserting dev data: %w", err)
	}
	return nil
}

// InitProdSchema creates the v1 tables and leaves them empty.
func (i *Initializer) InitProdSchema(ctx context.Context) error {
	return i.createTables(ctx)
}

// MajorVersion returns the Major constant. It can be called with a nil
// instance too.
func (i *Initializer) MajorVersion() uint {
	return Major
}
