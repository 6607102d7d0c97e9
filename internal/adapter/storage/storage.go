// Package storage keeps the local cache of settings and inspection logs in
// an embedded SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("not found")

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
