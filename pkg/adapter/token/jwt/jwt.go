// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwt issues and verifies HS256 signed JSON Web Tokens using
// the github.com/golang-jwt/jwt/v5 module. It implements the
// github.com/momeni/flexilease/pkg/core/usecase/authuc.Tokens
// interface.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager signs tokens with a shared secret and gives them a fixed
// lifetime.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

// New creates a Manager. The secret must have at least 32 bytes.
func New(secret []byte, lifetime time.Duration, issuer string) (
	*Manager, error,
) {
	if len(secret) < 32 {
		return nil, fmt.Errorf(
			"secret has %d bytes, at least 32 are required", len(secret),
		)
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("lifetime (%v) is not positive", lifetime)
	}
	return &Manager{
		secret:   secret,
		lifetime: lifetime,
		issuer:   issuer,
		now:      time.Now,
	}, nil
}

// Issue returns a signed token for subject which expires after the
// configured lifetime.
func (m *Manager) Issue(subject string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return s, nil
}

// Verify checks the token signature, algorithm, issuer, and validity
// period, returning its subject.
func (m *Manager) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
