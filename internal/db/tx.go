package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a single transaction. Any error from fn rolls the
// whole unit back.
func WithTx(ctx context.Context, database *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
