// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"fmt"

	"github.com/momeni/flexilease/pkg/adapter/db/memory"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres/reservationsrp"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/usecase/appuc"
)

// NewStore opens the configured store and returns its connection
// pool besides its repositories. The postgres store is accessed with
// the repo.NormalRole role. Caller is responsible to close the
// returned pool.
func (c *Config) NewStore(ctx context.Context) (
	repo.Pool, appuc.Repos, error,
) {
	if c.Store == StoreMemory {
		return memory.NewPool(), appuc.Repos{
			Cars:         memory.NewCars(),
			Users:        memory.NewUsers(),
			Reservations: memory.NewReservations(),
		}, nil
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return nil, appuc.Repos{}, fmt.Errorf("connecting: %w", err)
	}
	return p, appuc.Repos{
		Cars:         carsrp.New(),
		Users:        usersrp.New(),
		Reservations: reservationsrp.New(),
	}, nil
}

// NewAppUseCase opens the configured store and instantiates the
// application use case, so all use cases share that store.
func (c *Config) NewAppUseCase(ctx context.Context) (*appuc.UseCase, error) {
	p, r, err := c.NewStore(ctx)
	if err != nil {
		return nil, err
	}
	app, err := appuc.New(p, r, c)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return app, nil
}
