package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the account-memory schema up to date. The service
// owns its schema and migrates on startup.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("opening migrations at %s: %w", migrationsPath, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			slog.Warn("closing migration source", "error", srcErr)
		}
		if dbErr != nil {
			slog.Warn("closing migration db connection", "error", dbErr)
		}
	}()

	switch err := m.Up(); {
	case err == nil:
		ver, dirty, _ := m.Version()
		slog.Info("schema migrated", "version", ver, "dirty", dirty)
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("schema already up to date")
	default:
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
