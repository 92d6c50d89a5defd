package fluentdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMigrateURL(t *testing.T) {
	tests := []struct {
		name      string
		inputPath string
	}{
		{name: "relative path", inputPath: "test.db"},
		{name: "absolute path", inputPath: filepath.Join(os.TempDir(), "test.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := buildMigrateURL(tt.inputPath)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, "sqlite:///"), "got %q", url)
		})
	}
}

func writeTestMigrations(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"000001_create_users.up.sql":   "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);",
		"000001_create_users.down.sql": "DROP TABLE users;",
		"000002_add_email.up.sql":      "ALTER TABLE users ADD COLUMN email TEXT;",
		"000002_add_email.down.sql":    "ALTER TABLE users DROP COLUMN email;",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return "file://" + filepath.ToSlash(dir)
}

func TestMigrate_AppliesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewTestStoreFile(t)
	source := writeTestMigrations(t)

	require.NoError(t, s.Migrate(source))

	exists, err := s.TableExists(ctx, "users")
	require.NoError(t, err)
	assert.True(t, exists)

	version, dirty, err := s.MigrationVersion(source)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// Re-applying with no new migrations is not an error.
	require.NoError(t, s.Migrate(source))
}

func TestMigrationVersion_NoMigrationsApplied(t *testing.T) {
	s := NewTestStoreFile(t)
	source := writeTestMigrations(t)

	version, dirty, err := s.MigrationVersion(source)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)
}

func TestMigrate_RefusedForInMemoryStore(t *testing.T) {
	s := NewTestStore(t)

	err := s.Migrate("file://migrations")
	assert.ErrorIs(t, err, ErrSchema)
}
