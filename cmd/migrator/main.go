package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/niksmo/qc-logbook/internal/adapter/storage"
	"github.com/spf13/pflag"
)

const (
	cacheDBFlag       = "cache-db"
	migrationPathFlag = "migrations-path"
	downFlag          = "down"
)

// Without --migrations-path the schema embedded in the binary is applied.
func main() {
	cacheDB, migrationsPath, down := getFlagsValues()
	validateFlags(cacheDB, migrationsPath, down)

	if migrationsPath == "" {
		migrateEmbedded(cacheDB)
		return
	}
	makeMigrations(cacheDB, migrationsPath, down)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (cacheDB, migrations string, down bool) {
	cacheDBPath := pflag.StringP(cacheDBFlag, "s", "", "local cache database file")
	migrationsPath := pflag.StringP(migrationPathFlag, "m", "", "migrations directory")
	downMigrations := pflag.Bool(downFlag, false, "roll back all migrations")
	pflag.Parse()
	return *cacheDBPath, *migrationsPath, *downMigrations
}

func validateFlags(cacheDB, migrationsPath string, down bool) {
	var errs []error

	if cacheDB == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", cacheDBFlag))
	}

	if down && migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: requires --%s", downFlag, migrationPathFlag))
	}

	if len(errs) != 0 {
		slog.Error("invalid flags", "err", errors.Join(errs...))
		fallDown()
	}
}

func migrateEmbedded(cacheDB string) {
	db, err := storage.NewSQLDB(context.Background(), cacheDB)
	if err != nil {
		slog.Error("failed to open cache database", "err", err)
		fallDown()
	}
	defer db.Close()

	if err := storage.Migrate(db.DB); err != nil {
		slog.Error("failed to migrate", "err", err)
		db.Close()
		fallDown()
	}
	slog.Info("cache database is up to date")
}

func makeMigrations(cacheDB, migrationsPath string, down bool) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("sqlite://%s", cacheDB),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	defer m.Close()

	m.Log = NewMigrationLogger()

	apply, action := m.Up, "applied"
	if down {
		apply, action = m.Down, "rolled back"
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		m.Close()
		fallDown()
	}
	m.Log.Printf("migrations %s\n", action)
}

func fallDown() {
	os.Exit(2)
}
