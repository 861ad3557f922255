package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations for driver. Migrations are read
// from baseDir/postgresql or baseDir/mysql. Returns nil when there is nothing
// to apply.
func RunMigrations(logger *slog.Logger, driver, connectionString, baseDir string) error {
	logger.Info("running database migrations",
		slog.String("driver", driver),
	)

	m, err := migrate.New(migrationsSource(baseDir, driver), migrationsDatabaseURL(driver, connectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

func migrationsSource(baseDir, driver string) string {
	folder := "postgresql"
	if driver == "mysql" {
		folder = "mysql"
	}
	return "file://" + path.Join(baseDir, folder)
}

// migrationsDatabaseURL adds the mysql:// scheme golang-migrate expects in
// front of a go-sql-driver DSN. PostgreSQL URLs are used as they are.
func migrationsDatabaseURL(driver, connectionString string) string {
	if driver == "mysql" && !strings.HasPrefix(connectionString, "mysql://") {
		return "mysql://" + connectionString
	}
	return connectionString
}
