package fluentdb

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all pending migrations from sourceURL (for example
// "file://migrations") to the store's database file. Safe to call
// repeatedly: an up-to-date database is not an error. In-memory stores
// cannot be migrated because golang-migrate opens its own connection.
func (s *Store) Migrate(sourceURL string) error {
	m, err := s.newMigrate(sourceURL)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the currently applied migration version and
// whether the database is dirty. A database with no applied migrations
// reports version 0 without error.
func (s *Store) MigrationVersion(sourceURL string) (uint, bool, error) {
	m, err := s.newMigrate(sourceURL)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		_, _ = m.Close()
	}()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func (s *Store) newMigrate(sourceURL string) (*migrate.Migrate, error) {
	if s.path == "" || s.path == ":memory:" {
		return nil, fmt.Errorf("%w: migrations require a file-backed database", ErrSchema)
	}
	databaseURL, err := buildMigrateURL(s.path)
	if err != nil {
		return nil, err
	}
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// buildMigrateURL builds a golang-migrate database URL from a file path.
// Windows drive paths like "C:\..." become "sqlite:///C:/...".
func buildMigrateURL(dbPath string) (string, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	urlPath := filepath.ToSlash(absPath)
	if runtime.GOOS == "windows" && len(urlPath) >= 2 && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	return "sqlite://" + urlPath, nil
}
