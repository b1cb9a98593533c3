// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package viacep_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momeni/flexilease/pkg/adapter/cep/viacep"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/01001000/json/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cep": "01001-000",
			"logradouro": "Praça da Sé",
			"complemento": "lado ímpar",
			"bairro": "Sé",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	})
	mux.HandleFunc("/ws/99999999/json/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"erro": true}`))
	})
	mux.HandleFunc("/ws/88888888/json/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"erro": "true"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFindAddress(t *testing.T) {
	srv := newServer(t)
	c, err := viacep.New(srv.URL+"/ws/", time.Second)
	require.NoError(t, err)

	a, err := c.FindAddress(context.Background(), "01001000")
	require.NoError(t, err)
	assert.Equal(t, "Praça da Sé", a.Street)
	assert.Equal(t, "lado ímpar", a.Complement)
	assert.Equal(t, "Sé", a.Neighborhood)
	assert.Equal(t, "São Paulo", a.Locality)
	assert.Equal(t, "SP", a.State)
}

func TestFindAddressFailures(t *testing.T) {
	srv := newServer(t)
	c, err := viacep.New(srv.URL+"/ws", time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.FindAddress(ctx, "99999999")
	assert.ErrorIs(t, err, usersuc.ErrUnknownCEP)
	_, err = c.FindAddress(ctx, "88888888")
	assert.ErrorIs(t, err, usersuc.ErrUnknownCEP)

	_, err = c.FindAddress(ctx, "12345678")
	assert.ErrorContains(t, err, "unexpected status")
}

func TestNewRejectsBadURLs(t *testing.T) {
	_, err := viacep.New("ftp://example.com", time.Second)
	assert.Error(t, err)
	_, err = viacep.New("://", time.Second)
	assert.Error(t, err)
}
