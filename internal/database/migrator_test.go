package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrator_Validation(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("fails with nil database", func(t *testing.T) {
		migrator, err := NewMigrator(nil, "/some/path", logger)
		require.Error(t, err)
		assert.Nil(t, migrator)
		assert.Contains(t, err.Error(), "database is required")
	})

	t.Run("fails with nil pool", func(t *testing.T) {
		migrator, err := NewMigrator(&DB{}, "/some/path", logger)
		require.Error(t, err)
		assert.Nil(t, migrator)
		assert.Contains(t, err.Error(), "database pool not initialized")
	})
}

// TestMigrator_Lifecycle walks the record migrations up, one step down and up
// again against a live database.
func TestMigrator_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	logger := zerolog.Nop()

	t.Run("rejects empty and missing paths", func(t *testing.T) {
		_, err := NewMigrator(db, "", logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migrations path is required")

		_, err = NewMigrator(db, "/nonexistent/path", logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migrations path validation failed")
	})

	migrator, err := NewMigrator(db, getMigrationsPath(t), logger)
	require.NoError(t, err)
	defer migrator.Close()

	require.NoError(t, migrator.Up())
	// A second Up is a no-op.
	require.NoError(t, migrator.Up())

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.GreaterOrEqual(t, version, uint(1))

	require.NoError(t, migrator.Steps(-1))
	require.NoError(t, migrator.Steps(1))
	require.NoError(t, migrator.Force(int(version)))

	after, _, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, version, after)
}

// getMigrationsPath returns the path to the repository's migrations directory.
func getMigrationsPath(t *testing.T) string {
	t.Helper()

	cwd, err := os.Getwd()
	require.NoError(t, err)

	// internal/database -> internal -> project root
	migrationsPath := filepath.Join(cwd, "..", "..", "migrations")
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		t.Skipf("Skipping test: migrations directory not found at %s", migrationsPath)
	}

	return migrationsPath
}
