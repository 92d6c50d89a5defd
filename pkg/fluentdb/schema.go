package fluentdb

import (
	"context"
	"fmt"
	"strings"
)

// CreateTable creates table from a map of column name to SQL definition,
// e.g. {"id": "INTEGER PRIMARY KEY", "name": "TEXT NOT NULL"}. Columns are
// emitted in sorted name order. Schema helpers never touch the condition
// accumulator.
func (s *Store) CreateTable(ctx context.Context, table string, cols map[string]string) error {
	return s.createTable(ctx, table, cols, false)
}

// CreateTableIfNotExists is CreateTable with IF NOT EXISTS.
func (s *Store) CreateTableIfNotExists(ctx context.Context, table string, cols map[string]string) error {
	return s.createTable(ctx, table, cols, true)
}

func (s *Store) createTable(ctx context.Context, table string, cols map[string]string, ifNotExists bool) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%w: empty table name", ErrSchema)
	}
	if len(cols) == 0 {
		return fmt.Errorf("%w: table %s has no columns", ErrSchema, table)
	}

	names := sortedKeys(cols)
	defs := make([]string, len(names))
	for i, n := range names {
		if strings.TrimSpace(cols[n]) == "" {
			return fmt.Errorf("%w: column %s has no definition", ErrSchema, n)
		}
		defs[i] = n + " " + cols[n]
	}

	stmt := "CREATE TABLE "
	if ifNotExists {
		stmt = "CREATE TABLE IF NOT EXISTS "
	}
	_, err := s.Run(ctx, stmt+table+" ("+strings.Join(defs, ", ")+")")
	return err
}

// DropTable drops table if it exists.
func (s *Store) DropTable(ctx context.Context, table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%w: empty table name", ErrSchema)
	}
	_, err := s.Run(ctx, "DROP TABLE IF EXISTS "+table)
	return err
}

// TableExists reports whether table exists, via sqlite_master.
func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	row, err := s.Get(ctx, "SELECT COUNT(*) AS n FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err != nil || row == nil {
		return false, err
	}
	n, _ := row["n"].(int64)
	return n > 0, nil
}
