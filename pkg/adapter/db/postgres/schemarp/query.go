// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres"
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/scram"
)

// Extensions lists the extensions which are installed by the
// InstallExtensions function. The btree_gist extension is required
// by the reservations overlap exclusion constraints which combine
// the equality of uuid columns with the overlap of date ranges.
var Extensions = []string{"btree_gist"}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func roleIdent(roleSuffix, role repo.Role) string {
	return ident(string(role + roleSuffix))
}

// DropIfExists drops the `schema` schema with cascading if it exists.
// That is, if `schema` does not exist, a nil error will be returned
// without any change. Otherwise, it will be dropped together with all
// of its tables.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(
		ctx, "DROP SCHEMA IF EXISTS "+ident(schema)+" CASCADE",
	)
	return err
}

// CreateSchema tries to create the `schema` schema.
// There must be no other schema with the `schema` name, otherwise,
// this operation will fail.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA "+ident(schema))
	return err
}

// InstallExtensions creates the Extensions in the public schema if
// they are missing. Their relevant .so files must be available.
func InstallExtensions[Q postgres.Queryer](
	ctx context.Context, q Q,
) error {
	for _, ext := range Extensions {
		_, err := q.Exec(
			ctx,
			"CREATE EXTENSION IF NOT EXISTS "+ident(ext)+
				" WITH SCHEMA public",
		)
		if err != nil {
			return fmt.Errorf("creating %q extension: %w", ext, err)
		}
	}
	return nil
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, but no specific password will be set for it.
// The ChangePasswords function may be used for setting a password.
//
// The `role` role name is suffixed by `roleSuffix` if it is not
// empty.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix, role repo.Role,
) error {
	r := string(role + roleSuffix)
	var n int64
	err := q.GORM(ctx).Raw(
		"SELECT count(*) FROM pg_roles WHERE rolname = ?", r,
	).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("querying pg_roles: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = q.Exec(ctx, "CREATE ROLE "+ident(r)+" WITH LOGIN")
	return err
}

// GrantPrivileges grants ALL privileges on the `schema` schema
// to the `role` role, so it may create or access tables in that schema
// and run relevant queries.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL PRIVILEGES ON SCHEMA %s TO %s",
		ident(schema), roleIdent(roleSuffix, role),
	))
	return err
}

// SetSearchPath alters the given database role and sets its default
// search_path to the given schema name and the public schema, so the
// installed extensions remain accessible.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s, public",
		roleIdent(roleSuffix, role), ident(schema),
	))
	return err
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction. The roles and passwords slices must have the
// same number of entries, so they can be used in pair.
//
// The `roles` role names are suffixed by `roleSuffix` if it is not
// empty. The `hasher` will be used for hashing of the `passwords`
// before sending them to the DBMS (so they may not leak in plaintext).
// This SCRAM hasher format must conform with the DBMS expected format.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return errors.New("roles and passwords lengths do not match")
	}
	for i, role := range roles {
		hp, err := hasher.Hash(passwords[i], "", 15000)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		// The hashed password consists of printable ASCII letters
		// (base64, $, and :) and so needs no escaping.
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'",
			roleIdent(roleSuffix, role), hp,
		))
		if err != nil {
			return fmt.Errorf("altering %q role: %w", role, err)
		}
	}
	return nil
}
