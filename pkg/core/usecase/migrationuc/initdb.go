// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/momeni/flexilease/pkg/core/repo"
)

// Mode selects the data which fill a freshly created schema.
type Mode int

// Supported initialization modes.
const (
	ModeProd Mode = iota // empty tables
	ModeDev              // sample cars, users, and reservations
)

// String returns "prod" or "dev".
func (m Mode) String() string {
	if m == ModeDev {
		return "dev"
	}
	return "prod"
}

// InitDBUseCase represents the database initialization use case.
// It recreates the flwebN schema and its tables, so the fleet store
// can be used by the normal role afterwards.
type InitDBUseCase struct {
	settings   Settings
	schemaRepo repo.Schema
}

// NewInitDB creates an InitDBUseCase instance. The ss settings locate
// the target database, renew the roles passwords, and choose the
// schema initializer of the configured schema version.
func NewInitDB(ss Settings) *InitDBUseCase {
	return &InitDBUseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd is a shorthand for Init(ctx, ModeProd).
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.Init(ctx, ModeProd)
}

// InitDev is a shorthand for Init(ctx, ModeDev).
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.Init(ctx, ModeDev)
}

// Init runs in two phases. First, the admin role drops and recreates
// an empty flwebN schema (N being the schema major version), installs
// the btree_gist extension which the reservations exclusion
// constraints need, prepares the normal role, and renews passwords of
// both roles. All of them happen in one transaction whose new
// passwords are kept in a temporary pass file until it commits, so a
// failed attempt can be repeated safely.
//
// Second, the normal role creates the tables in another transaction
// and fills them based on the m mode.
func (iduc *InitDBUseCase) Init(ctx context.Context, m Mode) error {
	v := iduc.settings.SchemaVersion()
	sn := SchemaName(v[0])
	ctx = log.With(ctx, slog.String("schema", sn), log.Stringer("mode", m))
	if err := iduc.prepareSchema(ctx, sn); err != nil {
		return fmt.Errorf("preparing schema %q: %w", sn, err)
	}
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si, err := iduc.settings.SchemaInitializer(tx)
			if err != nil {
				return fmt.Errorf("creating SchemaInitializer: %w", err)
			}
			if m == ModeDev {
				return si.InitDevSchema(ctx)
			}
			return si.InitProdSchema(ctx)
		})
	})
	if err != nil {
		return fmt.Errorf("filling tables: %w", err)
	}
	log.Info(ctx, "database is initialized", log.Stringer("version", v))
	return nil
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

func (iduc *InitDBUseCase) prepareSchema(
	ctx context.Context, sn string,
) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			steps := []step{
				{"dropping schema", func(ctx context.Context) error {
					return q.DropIfExists(ctx, sn)
				}},
				{"creating schema", func(ctx context.Context) error {
					return q.CreateSchema(ctx, sn)
				}},
				{"installing extensions", q.InstallExtensions},
				{"creating normal role", func(ctx context.Context) error {
					return q.CreateRoleIfNotExists(ctx, repo.NormalRole)
				}},
				{"granting privileges", func(ctx context.Context) error {
					return q.GrantPrivileges(ctx, sn, repo.NormalRole)
				}},
				{"setting search_path", func(ctx context.Context) error {
					return q.SetSearchPath(ctx, sn, repo.NormalRole)
				}},
				{"renewing passwords", func(ctx context.Context) (err error) {
					finalizer, err = iduc.settings.RenewPasswords(
						ctx, q.ChangePasswords,
						repo.AdminRole, repo.NormalRole,
					)
					return err
				}},
			}
			for _, s := range steps {
				if err := s.run(ctx); err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
				log.Debug(ctx, "schema preparation step is done",
					slog.String("step", s.name),
				)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}

// SchemaName returns flwebN, the schema name of the major version N.
func SchemaName(major uint) string {
	return fmt.Sprintf("flweb%d", major)
}
