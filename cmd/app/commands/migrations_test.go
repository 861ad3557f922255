package commands

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Error_InvalidDriver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost", "../../../migrations")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("Error_InvalidConnectionString", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "invalid-connection-string", "../../../migrations")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})
}

func TestMigrationsSource(t *testing.T) {
	assert.Equal(t, "file://migrations/postgresql", migrationsSource("migrations", "postgres"))
	assert.Equal(t, "file://migrations/mysql", migrationsSource("migrations/", "mysql"))
	assert.Equal(t, "file:///srv/app/migrations/postgresql", migrationsSource("/srv/app/migrations", "postgres"))
}

func TestMigrationsDatabaseURL(t *testing.T) {
	assert.Equal(t, "mysql://user:pw@tcp(db:3306)/useradmin", migrationsDatabaseURL("mysql", "user:pw@tcp(db:3306)/useradmin"))
	assert.Equal(t, "mysql://user:pw@tcp(db:3306)/useradmin", migrationsDatabaseURL("mysql", "mysql://user:pw@tcp(db:3306)/useradmin"))
	assert.Equal(t, "postgres://u:p@db/useradmin", migrationsDatabaseURL("postgres", "postgres://u:p@db/useradmin"))
}
