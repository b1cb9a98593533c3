package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Queryer is satisfied by *Conn and *Tx. Repository functions which
// can run on both of them take a type parameter constrained by it.
type Queryer interface {
	*Conn | *Tx
	GORM(ctx context.Context) *gorm.DB
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}
