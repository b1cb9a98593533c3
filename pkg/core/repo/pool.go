// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the store contracts which are used by the use
// cases layer. A store is reached through a Pool of connections; each
// Conn may begin a Tx. Repositories (such as Cars or Reservations)
// take a Conn or a Tx and return a queryer which runs the repository
// specific operations on it, so a use case can decide which operations
// must observe the same transaction.
//
// The same contracts are implemented by the PostgreSQL adapter and by
// the in-memory reference store.
package repo

import "context"

// ConnHandler is a function which receives a connection.
type ConnHandler func(context.Context, Conn) error

// Pool represents a store connection pool.
type Pool interface {
	// Conn acquires a connection, passes it to handler, and releases
	// it when handler returns. The handler error is returned as is.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close releases all resources of the pool.
	Close() error
}
