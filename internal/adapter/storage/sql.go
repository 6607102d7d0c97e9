package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const busyTimeoutPragma = "_pragma=busy_timeout(5000)"

type SQLDB struct {
	*sql.DB
}

// NewSQLDB opens (creating if needed) the SQLite file at path.
func NewSQLDB(ctx context.Context, path string) (SQLDB, error) {
	const op = "NewSQLDB"
	log := slog.With("op", op)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return SQLDB{}, fmt.Errorf("%s: failed to create directory: %w", op, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?"+busyTimeoutPragma)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: %w", op, err)
	}

	s := SQLDB{db}
	if err := s.PingContext(ctx); err != nil {
		_ = db.Close()
		return SQLDB{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available", "path", path)
	return s, nil
}

func (s SQLDB) Close() {
	const op = "SQLDB.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.DB.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}
