package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// scanner is satisfied by both *sql.Row and *sql.Rows, so the scanX
// helpers work for single lookups and list queries alike.
type scanner interface {
	Scan(dest ...any) error
}

// DB hands out transactions for the multi-statement flows: transfers,
// settlements, admin adjustments, and the seat/booking/payment write.
type DB struct {
	pool *sql.DB
}

func NewDB(pool *sql.DB) *DB {
	return &DB{pool: pool}
}

func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := d.pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("BeginTx: %w", err)
	}
	return tx, nil
}
