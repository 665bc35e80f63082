package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface repositories run against. *pgxpool.Pool, pgx.Tx
// and pgxmock pools all satisfy it, so a repository never knows whether it is
// inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts transactions. *pgxpool.Pool and pgxmock pools satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor scopes a unit of work to one session. The session handed to fn
// is valid only until fn returns; it is committed when fn returns nil and
// rolled back otherwise, including on panic.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// PoolTransactor implements Transactor on top of a pgx pool.
type PoolTransactor struct {
	db TxBeginner
}

// NewPoolTransactor creates a Transactor that begins transactions on db.
func NewPoolTransactor(db TxBeginner) *PoolTransactor {
	return &PoolTransactor{db: db}
}

// WithTx runs fn inside a transaction and always releases it.
func (t *PoolTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
