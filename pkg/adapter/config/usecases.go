// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/momeni/flexilease/pkg/adapter/cep/viacep"
	"github.com/momeni/flexilease/pkg/adapter/config/settings"
	"github.com/momeni/flexilease/pkg/adapter/hash/scram"
	"github.com/momeni/flexilease/pkg/adapter/token/jwt"
	"github.com/momeni/flexilease/pkg/core/repo"
	"github.com/momeni/flexilease/pkg/core/usecase/authuc"
	"github.com/momeni/flexilease/pkg/core/usecase/carsuc"
	"github.com/momeni/flexilease/pkg/core/usecase/reservationsuc"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
)

// Auth contains the access tokens related configuration settings.
type Auth struct {
	// SecretFile is the path of a file whose trimmed content is used
	// as the HMAC key for signing access tokens.
	SecretFile string `yaml:"secret-file"`

	TokenLifetime *settings.Duration `yaml:"token-lifetime,omitempty"`
	Issuer        string             `yaml:"issuer,omitempty"`

	secret []byte
}

// ValidateAndNormalize reads the secret file and fills the defaults.
func (a *Auth) ValidateAndNormalize() error {
	if a.SecretFile == "" {
		return errors.New("secret-file is required")
	}
	data, err := os.ReadFile(a.SecretFile)
	if err != nil {
		return fmt.Errorf("reading secret file: %w", err)
	}
	a.secret = []byte(strings.TrimSpace(string(data)))
	if len(a.secret) < 32 {
		return errors.New("secret must have at least 32 bytes")
	}
	settings.Default(&a.TokenLifetime, settings.Duration(24*time.Hour))
	minLifetime := settings.Duration(time.Minute)
	if err := settings.Within(
		a.TokenLifetime, &minLifetime, nil,
	); err != nil {
		return fmt.Errorf("token-lifetime: %w", err)
	}
	if a.Issuer == "" {
		a.Issuer = "flweb"
	}
	return nil
}

// CEP contains the postal code lookup service settings.
type CEP struct {
	BaseURL string             `yaml:"base-url,omitempty"`
	Timeout *settings.Duration `yaml:"timeout,omitempty"`
}

// ValidateAndNormalize fills the defaults of the `c` settings.
func (c *CEP) ValidateAndNormalize() error {
	if c.BaseURL == "" {
		c.BaseURL = viacep.DefaultBaseURL
	}
	settings.Default(&c.Timeout, settings.Duration(5*time.Second))
	minTimeout := settings.Duration(100 * time.Millisecond)
	maxTimeout := settings.Duration(time.Minute)
	if err := settings.Within(
		c.Timeout, &minTimeout, &maxTimeout,
	); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	return nil
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Pagination Pagination
	Cars       Cars
	Users      Users
}

// Pagination contains the listing page limits which are shared by
// all listing use cases. Nil fields take the use cases defaults.
type Pagination struct {
	DefaultLimit *int `yaml:"default-limit,omitempty"`
	MaxLimit     *int `yaml:"max-limit,omitempty"`
}

// Cars contains the cars use case settings.
type Cars struct {
	MinYear *int `yaml:"min-year,omitempty"`
}

// Users contains the users use case settings.
type Users struct {
	MinimumAge     *int `yaml:"minimum-age,omitempty"`
	HashIterations *int `yaml:"hash-iterations,omitempty"`
}

// ValidateAndNormalize validates the use cases settings and reports
// all out of range values together. Nil values are kept in order to
// let the use cases choose their own defaults.
func (u *Usecases) ValidateAndNormalize() error {
	one, maxLimit := 1, 1000
	var errs []error
	if err := settings.Within(
		u.Pagination.MaxLimit, &one, &maxLimit,
	); err != nil {
		errs = append(errs, fmt.Errorf("pagination.max-limit: %w", err))
	}
	if err := settings.Within(
		u.Pagination.DefaultLimit, &one, u.Pagination.MaxLimit,
	); err != nil {
		errs = append(errs, fmt.Errorf(
			"pagination.default-limit: %w", err,
		))
	}
	minYear := 1886
	if err := settings.Within(
		u.Cars.MinYear, &minYear, nil,
	); err != nil {
		errs = append(errs, fmt.Errorf("cars.min-year: %w", err))
	}
	minAge, maxAge := 0, 150
	if err := settings.Within(
		u.Users.MinimumAge, &minAge, &maxAge,
	); err != nil {
		errs = append(errs, fmt.Errorf("users.minimum-age: %w", err))
	}
	minIters := 4096
	if err := settings.Within(
		u.Users.HashIterations, &minIters, nil,
	); err != nil {
		errs = append(errs, fmt.Errorf(
			"users.hash-iterations: %w", err,
		))
	}
	return errors.Join(errs...)
}

// NewCarsUseCase instantiates a new cars use case based on the `c`
// settings.
func (c *Config) NewCarsUseCase(
	p repo.Pool, cars repo.Cars, reservations repo.Reservations,
) (*carsuc.UseCase, error) {
	var opts []carsuc.Option
	if y := c.Usecases.Cars.MinYear; y != nil {
		opts = append(opts, carsuc.WithMinYear(*y))
	}
	if def, maxLimit, ok := c.pageLimits(); ok {
		opts = append(opts, carsuc.WithPageLimits(def, maxLimit))
	}
	return carsuc.New(p, cars, reservations, opts...)
}

// NewUsersUseCase instantiates a new users use case which hashes the
// passwords with SCRAM-SHA-256 and finds addresses using the ViaCEP
// service.
func (c *Config) NewUsersUseCase(
	p repo.Pool, users repo.Users, reservations repo.Reservations,
) (*usersuc.UseCase, error) {
	af, err := viacep.New(c.CEP.BaseURL, time.Duration(*c.CEP.Timeout))
	if err != nil {
		return nil, fmt.Errorf("creating viacep client: %w", err)
	}
	var opts []usersuc.Option
	if a := c.Usecases.Users.MinimumAge; a != nil {
		opts = append(opts, usersuc.WithMinimumAge(*a))
	}
	if n := c.Usecases.Users.HashIterations; n != nil {
		opts = append(opts, usersuc.WithHashIterations(*n))
	}
	if def, maxLimit, ok := c.pageLimits(); ok {
		opts = append(opts, usersuc.WithPageLimits(def, maxLimit))
	}
	return usersuc.New(
		p, users, reservations, scram.SHA256(), af, opts...,
	)
}

// NewReservationsUseCase instantiates a new reservations use case.
func (c *Config) NewReservationsUseCase(
	p repo.Pool,
	cars repo.Cars,
	users repo.Users,
	reservations repo.Reservations,
) (*reservationsuc.UseCase, error) {
	var opts []reservationsuc.Option
	if def, maxLimit, ok := c.pageLimits(); ok {
		opts = append(
			opts,
			reservationsuc.WithMaxPageLimit(maxLimit),
			reservationsuc.WithDefaultPageLimit(def),
		)
	}
	return reservationsuc.New(p, cars, users, reservations, opts...)
}

// NewAuthUseCase instantiates a new authentication use case which
// issues HMAC signed JWT access tokens.
func (c *Config) NewAuthUseCase(
	a authuc.Authenticator,
) (*authuc.UseCase, error) {
	tm, err := jwt.New(
		c.Auth.secret, time.Duration(*c.Auth.TokenLifetime), c.Auth.Issuer,
	)
	if err != nil {
		return nil, fmt.Errorf("creating tokens manager: %w", err)
	}
	return authuc.New(a, tm), nil
}

// pageLimits returns the default and max page limits if at least one
// of them is configured. A missing one is derived from the other one.
func (c *Config) pageLimits() (def, maxLimit int, ok bool) {
	pg := c.Usecases.Pagination
	switch {
	case pg.DefaultLimit == nil && pg.MaxLimit == nil:
		return 0, 0, false
	case pg.MaxLimit == nil:
		return *pg.DefaultLimit, max(100, *pg.DefaultLimit), true
	case pg.DefaultLimit == nil:
		return min(10, *pg.MaxLimit), *pg.MaxLimit, true
	default:
		return *pg.DefaultLimit, *pg.MaxLimit, true
	}
}
