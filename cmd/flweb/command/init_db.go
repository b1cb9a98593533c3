// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"errors"
	"fmt"

	"github.com/momeni/flexilease/pkg/adapter/config"
	"github.com/momeni/flexilease/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

const schemaMessage = `
If database schema version X.Y.Z is asked in the config file, while the
latest known minor and patch versions in the X schema major version are
equal to Y' and Z' respectively, relevant tables of version X.Y'.Z' will
be created in the flwebX schema (without updating the config file).
Any existing flwebX schema is dropped beforehand.`

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development data",
	Long: `Initialize database contents with development suitable data
(a few cars, users, and reservations) for the database schema version
which is specified in the configuration file. The database connection
information are also read from the config file.
` + credsRenewalMessage + "\n" + schemaMessage,
	RunE: initDev,
	Args: cobra.NoArgs,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database contents with production suitable data",
	Long: `Initialize database contents with production suitable data
(i.e., empty tables) for the database schema version which is specified
in the configuration file. The database connection information are also
read from the config file. No changes will be made to the config file.
` + credsRenewalMessage + "\n" + schemaMessage,
	RunE: initProd,
	Args: cobra.NoArgs,
}

func initDev(cmd *cobra.Command, _ []string) error {
	muc, err := newInitDB()
	if err != nil {
		return err
	}
	if err = muc.InitDev(cmd.Context()); err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	return nil
}

func initProd(cmd *cobra.Command, _ []string) error {
	muc, err := newInitDB()
	if err != nil {
		return err
	}
	if err = muc.InitProd(cmd.Context()); err != nil {
		return fmt.Errorf("initializing DB with prod data: %w", err)
	}
	return nil
}

func newInitDB() (*migrationuc.InitDBUseCase, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if c.Store != config.StorePostgres {
		return nil, errors.New("db actions require the postgres store")
	}
	return migrationuc.NewInitDB(c), nil
}

func init() {
	dbCmd.AddCommand(initDevCmd)
	dbCmd.AddCommand(initProdCmd)
}
