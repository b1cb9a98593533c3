// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer interface specifies the expectations from a schema
// initializer which creates tables of an empty schema and fills them
// with development or production suitable data.
type SchemaInitializer interface {
	// InitDevSchema creates tables and fills them with sample cars,
	// users, and reservations which are suitable for a development
	// environment.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates tables without inserting any rows.
	InitProdSchema(ctx context.Context) error
}

// Schema represents a schema management repository. It is used by
// the database initialization use case with an administrator role.
type Schema interface {
	Conn(Conn) SchemaConnQueryer
	Tx(Tx) SchemaTxQueryer
}

type SchemaConnQueryer interface {
	SchemaQueryer
}

type SchemaTxQueryer interface {
	SchemaQueryer

	// ChangePasswords updates the passwords of the given roles in the
	// current transaction. The roles and passwords slices must have
	// the same number of entries, so they can be used in pair.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}

type SchemaQueryer interface {
	// DropIfExists drops the schema with cascading if it exists.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema creates an empty schema.
	CreateSchema(ctx context.Context, schema string) error

	// InstallExtensions creates the extensions which are required
	// by the tables constraints, unless they exist already.
	InstallExtensions(ctx context.Context) error

	CreateRoleIfNotExists(ctx context.Context, role Role) error
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath alters the role and sets its default search_path
	// to the given schema name (and the public schema, where the
	// extensions are installed).
	SetSearchPath(ctx context.Context, schema string, role Role) error
}
