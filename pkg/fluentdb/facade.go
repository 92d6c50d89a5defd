package fluentdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Select returns every row of table matching the accumulated conditions.
// columns is a comma-separated projection; empty selects all columns. The
// condition accumulator is cleared on every exit path, success or failure.
func (s *Store) Select(ctx context.Context, table, columns string) ([]Row, error) {
	defer s.ResetConditions()

	if columns == "" {
		columns = "*"
	}
	clause, args := s.whereClause()
	return s.All(ctx, "SELECT "+columns+" FROM "+table+clause, args...)
}

// One returns the first row of table matching the accumulated conditions
// (LIMIT 1), or nil if nothing matches. When columns names a single bare
// column, the result is unwrapped to that column's scalar value instead of
// a Row. Clears the accumulator on every exit path.
func (s *Store) One(ctx context.Context, table, columns string) (any, error) {
	defer s.ResetConditions()

	proj := columns
	if proj == "" {
		proj = "*"
	}
	clause, args := s.whereClause()
	row, err := s.Get(ctx, "SELECT "+proj+" FROM "+table+clause+" LIMIT 1", args...)
	if err != nil || row == nil {
		return nil, err
	}

	if columns != "" && !strings.Contains(columns, ",") {
		if v, ok := row[strings.TrimSpace(columns)]; ok {
			return v, nil
		}
	}
	return row, nil
}

// Count returns COUNT(column) over the rows matching the accumulated
// conditions. An empty column counts all rows; an empty table or a NULL
// aggregate yields 0, not an error. Clears the accumulator on every exit
// path.
func (s *Store) Count(ctx context.Context, table, column string) (int64, error) {
	defer s.ResetConditions()

	if column == "" {
		column = "*"
	}
	clause, args := s.whereClause()
	row, err := s.Get(ctx, "SELECT COUNT("+column+") AS n FROM "+table+clause, args...)
	if err != nil || row == nil {
		return 0, err
	}
	n, _ := row["n"].(int64)
	return n, nil
}

// Insert builds an INSERT from the data map and returns the new row's id.
// Column names are sorted so the statement text is deterministic. Insert
// never reads the condition accumulator and leaves it untouched. An empty
// data map fails with ErrRowData before any statement is built.
func (s *Store) Insert(ctx context.Context, table string, data map[string]any) (int64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: no columns to insert", ErrRowData)
	}

	cols := sortedKeys(data)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = "?"
		args[i] = data[c]
	}

	query := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	res, err := s.Run(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertID, nil
}

// Update builds an UPDATE from the data map, scoped by the accumulated
// conditions, and returns the number of affected rows. Data values are
// bound before WHERE parameters. Clears the accumulator on every exit
// path.
func (s *Store) Update(ctx context.Context, table string, data map[string]any) (int64, error) {
	defer s.ResetConditions()

	if len(data) == 0 {
		return 0, fmt.Errorf("%w: no columns to update", ErrRowData)
	}

	clause, whereArgs := s.whereClause()
	cols := sortedKeys(data)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(whereArgs))
	for i, c := range cols {
		sets[i] = c + " = ?"
		args = append(args, data[c])
	}
	args = append(args, whereArgs...)

	res, err := s.Run(ctx, "UPDATE "+table+" SET "+strings.Join(sets, ", ")+clause, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// Delete removes the rows of table matching the accumulated conditions and
// returns the number of deleted rows. With no conditions it deletes every
// row. Clears the accumulator on every exit path.
func (s *Store) Delete(ctx context.Context, table string) (int64, error) {
	defer s.ResetConditions()

	clause, args := s.whereClause()
	res, err := s.Run(ctx, "DELETE FROM "+table+clause, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// Go maps iterate in random order; sorting keeps statement text stable.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
