// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/flexilease/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	m := scram.SHA256()
	h, err := m.Hash("s3cret", "", 4096)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "SCRAM-SHA-256$4096:"))

	ok, err := m.Verify("s3cret", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Verify("secret", h)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Verify("", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsDeterministicForFixedSalt(t *testing.T) {
	m := scram.SHA256()
	salt := "c2FsdHNhbHRzYWx0c2FsdA=="
	h1, err := m.Hash("pass", salt, 4096)
	require.NoError(t, err)
	h2, err := m.Hash("pass", salt, 4096)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHashRejectsBadInputs(t *testing.T) {
	m := scram.SHA256()
	_, err := m.Hash("", "", 4096)
	assert.Error(t, err)
	_, err = m.Hash("pass", "", 100)
	assert.Error(t, err)
}

func TestVerifyRejectsMalformedHashes(t *testing.T) {
	h, err := scram.SHA1().Hash("pass", "", 4096)
	require.NoError(t, err)
	_, err = scram.SHA256().Verify("pass", h)
	assert.Error(t, err, "mechanism mismatch")

	for _, bad := range []string{
		"SCRAM-SHA-256",
		"SCRAM-SHA-256$4096",
		"SCRAM-SHA-256$x:c2FsdA==$a:b",
	} {
		_, err := scram.SHA256().Verify("pass", bad)
		assert.Error(t, err, bad)
	}
}
