package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

// Caller identifies the authenticated club member performing an operation.
type Caller struct {
	UserID int
	Role   models.ClubRole
}

// withTx runs fn inside a transaction, rolling back on error or panic and
// committing otherwise. Every mutating scoring command goes through here so
// a match, its derived entries and its bracket effects change together or
// not at all.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
