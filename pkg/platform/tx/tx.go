// Package tx carries an open SQL transaction through a context so that stores
// invoked inside a unit of work share it without changing their signatures.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx stores a SQL transaction in context for downstream store usage.
// A nil transaction leaves the context unchanged.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}
