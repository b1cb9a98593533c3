// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package viacep looks up Brazilian postal codes (CEPs) using the
// ViaCEP web service, see https://viacep.com.br for its API.
// It implements the usersuc.AddressFinder interface.
package viacep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws/"

// Client is a ViaCEP client.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a Client which sends its requests to baseURL, waiting
// at most timeout for each response.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

type response struct {
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	Locality     string `json:"localidade"`
	State        string `json:"uf"`

	// ViaCEP answers with {"erro": true} (or "true") and a 200 status
	// code for well-formed but unknown CEPs.
	Error any `json:"erro,omitempty"`
}

// FindAddress queries the address of the cep postal code, which must
// consist of eight digits. Unknown CEPs are reported as
// usersuc.ErrUnknownCEP.
func (c *Client) FindAddress(
	ctx context.Context, cep string,
) (*model.Address, error) {
	u := c.base.JoinPath(cep, "json")
	u.Path += "/"
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, u.String(), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if r.Error != nil && r.Error != false && r.Error != "false" {
		return nil, usersuc.ErrUnknownCEP
	}
	log.Debug(
		ctx, "cep is resolved",
		slog.String("cep", cep),
		slog.String("locality", r.Locality),
	)
	return &model.Address{
		Street:       r.Street,
		Complement:   r.Complement,
		Neighborhood: r.Neighborhood,
		Locality:     r.Locality,
		State:        r.State,
	}, nil
}
