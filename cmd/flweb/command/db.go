// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import "github.com/spf13/cobra"

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used. These actions are meaningful
only for the postgres store; the memory store needs no initialization.`,
}

const credsRenewalMessage = `
Passwords of the database roles are renewed during the initialization.
New passwords are written to the .pgpass.new file in the pass-dir
folder (as specified in the config file) before being set in the
database and that file is moved over the .pgpass file afterwards.
If the initialization is interrupted, the .pgpass.new file is tried
by the next connection attempts too.`

func init() {
	rootCmd.AddCommand(dbCmd)
}
