// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration is the top-level database schema package which
// acts as a facade for all supported database schema versions.
//
// The NewInitializer and LatestVersion functions can be used to find
// out the latest supported minor version for each major version and
// create its schema initializer object. Each major version is kept in
// its own schN sub-package.
package migration

import (
	"fmt"

	"github.com/momeni/flexilease/pkg/adapter/db/postgres/migration/sch1"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// LatestVersion returns the latest supported database schema version
// within the major version of the given `v` semantic version.
// If the minor version of `v` argument is beyond the supported database
// schema versions, an error will be returned.
func LatestVersion(v model.SemVer) (lv model.SemVer, err error) {
	switch major := v[0]; major {
	case 1:
		if minor := v[1]; minor > sch1.Minor {
			err = fmt.Errorf("unsupported minor: %d", minor)
			return
		}
		lv = model.SemVer{1, sch1.Minor, sch1.Patch}

	default:
		err = fmt.Errorf("unsupported major: %d", major)
	}
	return
}

// NewInitializer creates a database schema initializer instance for the
// given `v` semantic version. A repo.SchemaInitializer can be used for
// creating tables in an existing empty schema and filling them with the
// development or production suitable initial data.
//
// The returned instance wraps the `tx` transaction argument and
// uses it for creation and initialization of tables. The caller remains
// responsible to commit that transaction.
func NewInitializer(tx repo.Tx, v model.SemVer) (
	repo.SchemaInitializer, error,
) {
	if _, err := LatestVersion(v); err != nil {
		return nil, err
	}
	return sch1.New(tx), nil
}
