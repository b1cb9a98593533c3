// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx represents a store transaction.
// It is unsafe to be used concurrently. All operations which are
// performed by repositories on a single transaction observe the ACID
// properties. The exact amount of isolation between transactions
// depends on the store. A PostgreSQL store runs READ-COMMITTED
// transactions while its exclusion constraints guard the reservations
// overlap invariant. The memory store serializes all transactions.
// For details, read
// https://www.postgresql.org/docs/current/transaction-iso.html#XACT-READ-COMMITTED
type Tx interface {
	// IsTx method prevents a non-Tx object (such as a Conn) to
	// mistakenly implement the Tx interface.
	IsTx()
}
