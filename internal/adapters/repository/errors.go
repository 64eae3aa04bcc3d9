package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Postgres error codes mapped onto sentinels.
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

// Sentinel kinds for store errors.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrConflict         = errors.New("entity with given key already exists")
	ErrInvalidReference = errors.New("referenced entity does not exist")
	ErrStore            = errors.New("store failure")
	ErrUnknownDriver    = errors.New("unknown store driver")
)

// wrap classifies a driver error and annotates it with the operation.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, classify(err), err)
}

func classify(err error) error {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return ErrConflict
		case pgCodeForeignKeyViolation:
			return ErrInvalidReference
		}
		return ErrStore
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrConflict
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrInvalidReference
		}
	}
	return ErrStore
}
