package fluentdb

import (
	"context"
	"database/sql"
	"fmt"
)

// Result describes the outcome of a mutation statement.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Run executes a statement that does not return rows. The statement is
// recorded before dispatch. Failures wrap ErrRun with the engine's message.
func (s *Store) Run(ctx context.Context, query string, args ...any) (Result, error) {
	s.record(StatementRun, query, args)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRun, err)
	}

	// modernc.org/sqlite supports both; errors here would mean a broken driver.
	id, _ := res.LastInsertId()
	n, _ := res.RowsAffected()
	return Result{LastInsertID: id, RowsAffected: n}, nil
}

// All executes a row-set query and returns every matching row. A query
// matching nothing returns an empty, non-nil slice. Failures wrap ErrAll.
func (s *Store) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	s.record(StatementAll, query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAll, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAll, err)
	}
	return out, nil
}

// Get executes a single-row query. It returns (nil, nil) when no row
// matches; zero rows is not an error. Failures wrap ErrGet.
func (s *Store) Get(ctx context.Context, query string, args ...any) (Row, error) {
	s.record(StatementGet, query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGet, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGet, err)
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGet, err)
		}
		return nil, nil
	}
	row, err := scanRow(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGet, err)
	}
	return row, nil
}

// Each executes a row-set query and returns a replay iterator over the
// result. The result set is fully materialized before Each returns; the
// iterator is a buffer-then-replay convenience over All and offers no
// incremental memory benefit over it.
func (s *Store) Each(ctx context.Context, query string, args ...any) (*RowIter, error) {
	rows, err := s.All(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &RowIter{rows: rows, pos: -1}, nil
}

// RowIter replays a buffered result set row by row.
type RowIter struct {
	rows []Row
	pos  int
}

// Next advances the iterator and reports whether a row is available.
func (it *RowIter) Next() bool {
	if it.pos+1 >= len(it.rows) {
		return false
	}
	it.pos++
	return true
}

// Row returns the current row. Valid only after a successful Next.
func (it *RowIter) Row() Row {
	if it.pos < 0 || it.pos >= len(it.rows) {
		return nil
	}
	return it.rows[it.pos]
}

// Len returns the number of buffered rows.
func (it *RowIter) Len() int {
	return len(it.rows)
}

// Rewind resets the iterator to the start of the buffer.
func (it *RowIter) Rewind() {
	it.pos = -1
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0)
	for rows.Next() {
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanRow(rows *sql.Rows, cols []string) (Row, error) {
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(Row, len(cols))
	for i, c := range cols {
		row[c] = vals[i]
	}
	return row, nil
}
