package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNilDB = errors.New("nil db")

// Querier is the statement surface shared by the pool and an open
// transaction. Arguments bind to $1..$n.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// DB is the handle every repository is built on.
type DB interface {
	Querier

	Ping(ctx context.Context) error
	Begin(ctx context.Context) (Tx, error)
	Close() error

	// SQLDB is a database/sql view over the same pool, used by migrations.
	SQLDB() *sql.DB
}

type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type Row interface {
	Scan(dest ...any) error
}

// WithTx runs fn inside a transaction. fn's error rolls the transaction back
// and is returned unchanged; otherwise the transaction is committed.
func WithTx(ctx context.Context, db DB, fn func(q Querier) error) error {
	if db == nil {
		return ErrNilDB
	}
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
