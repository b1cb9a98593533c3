// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memory provides an in-memory reification of the store
// contracts of the repo package. It keeps cars, users, and
// reservations in maps which are protected by a single lock.
//
// Transactions are serialized: Conn.Tx holds the write lock while its
// handler runs and works on a private copy of the data, which replaces
// the shared data only if the handler succeeds. So a reservation
// conflict check and its subsequent write can not interleave with
// another transaction. Operations which are called on a Conn (out of a
// transaction) take the lock individually.
//
// The store enforces the same integrity rules as the PostgreSQL schema
// does, i.e., references must resolve, emails and CPFs are unique, and
// reservations of one car or one user may not overlap.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
)

type data struct {
	cars         map[uuid.UUID]model.Car
	users        map[uuid.UUID]model.User
	reservations map[uuid.UUID]model.Reservation
}

func newData() *data {
	return &data{
		cars:         make(map[uuid.UUID]model.Car),
		users:        make(map[uuid.UUID]model.User),
		reservations: make(map[uuid.UUID]model.Reservation),
	}
}

func (d *data) clone() *data {
	dd := &data{
		cars:         make(map[uuid.UUID]model.Car, len(d.cars)),
		users:        make(map[uuid.UUID]model.User, len(d.users)),
		reservations: make(map[uuid.UUID]model.Reservation, len(d.reservations)),
	}
	for id, c := range d.cars {
		dd.cars[id] = cloneCar(c)
	}
	for id, u := range d.users {
		dd.users[id] = u
	}
	for id, r := range d.reservations {
		dd.reservations[id] = r
	}
	return dd
}

func cloneCar(c model.Car) model.Car {
	c.Accessories = slices.Clone(c.Accessories)
	return c
}

// Pool is an in-memory store. Its zero value is not usable, so it
// should be created by the NewPool function.
type Pool struct {
	mu   sync.RWMutex
	data *data
}

// NewPool creates an empty in-memory store.
func NewPool() *Pool {
	return &Pool{data: newData()}
}

// Conn passes a connection to handler. There is nothing to acquire,
// so handler is called right away.
func (p *Pool) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, &Conn{pool: p})
}

// Close is a no-op. It is provided for the repo.Pool interface.
func (p *Pool) Close() error {
	return nil
}

// Conn represents a connection to the in-memory store.
type Conn struct {
	pool *Pool
}

// Tx runs handler in a serialized transaction. The handler observes
// a private copy of the store data which is committed when it returns
// a nil error. Returned errors and panics discard the copy.
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) (err error) {
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	tx := &Tx{data: p.data.clone()}
	defer func() {
		tx.done = true
		if r := recover(); r != nil {
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			err = fmt.Errorf("handler: %w", err)
			return
		}
		p.data = tx.data
	}()
	return handler(ctx, tx)
}

// IsConn method prevents a non-Conn object (such as a Tx) to
// mistakenly implement the repo.Conn interface.
func (c *Conn) IsConn() {
}

func (c *Conn) read(f func(d *data) error) error {
	c.pool.mu.RLock()
	defer c.pool.mu.RUnlock()
	return f(c.pool.data)
}

func (c *Conn) write(f func(d *data) error) error {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	d := c.pool.data.clone()
	if err := f(d); err != nil {
		return err
	}
	c.pool.data = d
	return nil
}

// Tx represents an ongoing transaction of the in-memory store.
type Tx struct {
	data *data
	done bool
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the repo.Tx interface.
func (tx *Tx) IsTx() {
}

func (tx *Tx) read(f func(d *data) error) error {
	if tx.done {
		return errTxDone
	}
	return f(tx.data)
}

func (tx *Tx) write(f func(d *data) error) error {
	return tx.read(f)
}

// queryer is implemented by both of *Conn and *Tx, so repositories
// can be written once for both of them.
type queryer interface {
	read(f func(d *data) error) error
	write(f func(d *data) error) error
}
