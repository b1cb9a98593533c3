// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which instantiates
// and maintains all other use case objects, so they may be used by the
// resources packages. The use case objects are created by a Builder,
// which is realized by the effective configuration settings, and share
// one database connection pool and one set of repository instances.
package appuc

import (
	"fmt"

	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/usecase/authuc"
	"github.com/momeni/flexilease/pkg/core/usecase/carsuc"
	"github.com/momeni/flexilease/pkg/core/usecase/reservationsuc"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
)

// Repos groups the repository instances which are required by the
// supported use cases. All of them must belong to the same store as
// the connection pool which is passed to the New function.
type Repos struct {
	Cars         repo.Cars
	Users        repo.Users
	Reservations repo.Reservations
}

// UseCase represents an application use case. It holds a database
// connection pool, all repository instances, and the use case objects
// which are created by a Builder using them.
type UseCase struct {
	pool  repo.Pool
	repos Repos

	carsUseCase         *carsuc.UseCase
	usersUseCase        *usersuc.UseCase
	reservationsUseCase *reservationsuc.UseCase
	authUseCase         *authuc.UseCase
}

// New instantiates an application use case object, asking the b
// Builder to create all supported use case objects.
func New(p repo.Pool, r Repos, b Builder) (*UseCase, error) {
	uc := &UseCase{
		pool:  p,
		repos: r,
	}
	var err error
	uc.carsUseCase, err = b.NewCarsUseCase(p, r.Cars, r.Reservations)
	if err != nil {
		return nil, fmt.Errorf("creating cars use case: %w", err)
	}
	uc.usersUseCase, err = b.NewUsersUseCase(
		p, r.Users, r.Reservations,
	)
	if err != nil {
		return nil, fmt.Errorf("creating users use case: %w", err)
	}
	uc.reservationsUseCase, err = b.NewReservationsUseCase(
		p, r.Cars, r.Users, r.Reservations,
	)
	if err != nil {
		return nil, fmt.Errorf("creating reservations use case: %w", err)
	}
	uc.authUseCase, err = b.NewAuthUseCase(uc.usersUseCase)
	if err != nil {
		return nil, fmt.Errorf("creating auth use case: %w", err)
	}
	return uc, nil
}

// CarsUseCase returns the cars use case object.
func (app *UseCase) CarsUseCase() *carsuc.UseCase {
	return app.carsUseCase
}

// UsersUseCase returns the users use case object.
func (app *UseCase) UsersUseCase() *usersuc.UseCase {
	return app.usersUseCase
}

// ReservationsUseCase returns the reservations use case object.
func (app *UseCase) ReservationsUseCase() *reservationsuc.UseCase {
	return app.reservationsUseCase
}

// AuthUseCase returns the authentication use case object.
func (app *UseCase) AuthUseCase() *authuc.UseCase {
	return app.authUseCase
}

// Close releases the database connection pool.
func (app *UseCase) Close() error {
	return app.pool.Close()
}
