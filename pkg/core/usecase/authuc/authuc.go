// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authuc contains the authentication UseCase which issues
// access tokens for users who present a correct email and password,
// and resolves tokens back to their users.
package authuc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/momeni/flexilease/pkg/core/model"
)

// Authenticator verifies credentials of a user.
type Authenticator interface {
	Authenticate(
		ctx context.Context, email, password string,
	) (*model.User, error)
}

// Tokens issues signed tokens for a subject and verifies them.
type Tokens interface {
	Issue(subject string) (token string, err error)
	Verify(token string) (subject string, err error)
}

// UseCase represents the authentication use case.
type UseCase struct {
	users  Authenticator
	tokens Tokens
}

// New instantiates an authentication use case.
func New(a Authenticator, t Tokens) *UseCase {
	return &UseCase{users: a, tokens: t}
}

// Login authenticates a user by email and password, and issues a
// token having the user ID as its subject.
func (auth *UseCase) Login(
	ctx context.Context, email, password string,
) (string, error) {
	u, err := auth.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := auth.tokens.Issue(u.ID.String())
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	log.Info(ctx, "user is logged in", log.UUID("id", u.ID))
	return token, nil
}

// Verify checks token and returns its user ID. Invalid or expired
// tokens cause a cerr Unauthenticated error.
func (auth *UseCase) Verify(
	ctx context.Context, token string,
) (uuid.UUID, error) {
	sub, err := auth.tokens.Verify(token)
	if err != nil {
		return uuid.Nil, cerr.Unauthenticated(err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, cerr.Unauthenticated(
			fmt.Errorf("parsing subject: %w", err),
		)
	}
	return id, nil
}
