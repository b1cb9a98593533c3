// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"

	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// Settings represents the database-related settings which should be
// provided by a configuration file. It allows a database connection
// pool to be established for an asked role using the ConnectionPool
// method, reports the database schema version, may be used as a
// factory for repo.SchemaInitializer (in order to initialize an empty
// schema with development or production suitable data), and can change
// passwords of a set of database roles while storing the new passwords
// in relevant files.
type Settings interface {
	// ConnectionPool creates a database connection pool using the
	// connection information which are kept in this Settings instance.
	// The `r` argument specifies the role name for the created pool.
	//
	// Password values are kept in files in a specific password dir.
	// Each non-empty and non-commented line of the passwords file
	// should conform with this format:
	//
	//	host:port:dbname:role:password
	//
	// A second temporary passwords file may hold the renewed passwords
	// until their renewal is committed. If the main file is outdated,
	// the temporary file is used and moved over the main file.
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository.
	// Role names may be suffixed based on the settings, and since the
	// Schema repository creates roles or grants them privileges, it
	// is configured with the same role name suffix.
	NewSchemaRepo() repo.Schema

	// SchemaInitializer creates a repo.SchemaInitializer instance
	// which wraps the given transaction argument and can be used to
	// initialize the database with development or production suitable
	// data. All table creation and data insertion operations will be
	// performed in the given transaction and will be persisted only if
	// the `tx` could commit successfully.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords generates new secure passwords for the given roles
	// and after recording them in a temporary file, will use the change
	// function in order to update the passwords of those roles in the
	// database too. The change function should perform the update
	// operation in a transaction which may or may not be committed
	// when RenewPasswords returns. After a successful commitment, the
	// temporary passwords file should be moved over the main passwords
	// file using the returned finalizer function.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)

	// SchemaVersion returns the semantic version of the database schema
	// which its connection information are kept by this Settings.
	SchemaVersion() model.SemVer
}
