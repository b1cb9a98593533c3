// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/usecase/authuc"
	"github.com/momeni/flexilease/pkg/core/usecase/carsuc"
	"github.com/momeni/flexilease/pkg/core/usecase/reservationsuc"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
)

// Builder interface represents the expectations from the application
// use case builders. All use cases which can be instantiated by a
// configuration struct have one NewX method here which takes database
// connection pool and their repository dependencies. Other adapters
// which are required by a use case (e.g., a password hasher or a JWT
// issuer) are created by the Builder itself based on its settings.
type Builder interface {
	// NewCarsUseCase creates a new carsuc UseCase object having the
	// provided database connection pool and repositories.
	NewCarsUseCase(
		p repo.Pool, cars repo.Cars, reservations repo.Reservations,
	) (*carsuc.UseCase, error)

	// NewUsersUseCase creates a new usersuc UseCase object. The
	// password hasher and the CEP address finder are chosen by the
	// Builder.
	NewUsersUseCase(
		p repo.Pool, users repo.Users, reservations repo.Reservations,
	) (*usersuc.UseCase, error)

	// NewReservationsUseCase creates a new reservationsuc UseCase.
	NewReservationsUseCase(
		p repo.Pool,
		cars repo.Cars,
		users repo.Users,
		reservations repo.Reservations,
	) (*reservationsuc.UseCase, error)

	// NewAuthUseCase creates a new authuc UseCase object which uses
	// the `a` authenticator for verifying credentials of users.
	NewAuthUseCase(a authuc.Authenticator) (*authuc.UseCase, error)
}
