package repo

import "context"

type TxHandler func(context.Context, Tx) error

// Conn represents a store connection.
// The Tx method begins a transaction and passes it to handler. If the
// handler returns a nil error, the transaction is committed. Otherwise,
// or if it panics, the transaction is rolled back.
type Conn interface {
	Tx(ctx context.Context, handler TxHandler) error
	IsConn()
}
