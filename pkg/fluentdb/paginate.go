package fluentdb

import (
	"context"
	"fmt"
)

// Page is one pagination window plus its metadata.
type Page struct {
	Rows        []Row
	Total       int64
	PerPage     int
	CurrentPage int
	TotalPages  int
	HasMore     bool
}

// Paginate returns one LIMIT/OFFSET window of table together with the
// total row count and derived metadata. The accumulated conditions are
// rendered once and applied to both the count and the data query, then
// cleared on every exit path. Page numbers start at 1.
func (s *Store) Paginate(ctx context.Context, table string, page, perPage int, columns string) (*Page, error) {
	defer s.ResetConditions()

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return nil, fmt.Errorf("%w: per-page size must be positive", ErrRowData)
	}
	if columns == "" {
		columns = "*"
	}
	clause, args := s.whereClause()

	countRow, err := s.Get(ctx, "SELECT COUNT(*) AS n FROM "+table+clause, args...)
	if err != nil {
		return nil, err
	}
	var total int64
	if countRow != nil {
		total, _ = countRow["n"].(int64)
	}

	offset := (page - 1) * perPage
	dataArgs := append(append([]any{}, args...), perPage, offset)
	rows, err := s.All(ctx, "SELECT "+columns+" FROM "+table+clause+" LIMIT ? OFFSET ?", dataArgs...)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Page{
		Rows:        rows,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasMore:     page < totalPages,
	}, nil
}

// EachBatch fetches rows of table in sequential LIMIT/OFFSET windows of
// batchSize and invokes fn with each one. fn completes before the next
// window is fetched, so it never sees overlapping batches; an error from
// fn stops the loop. fn is never invoked with an empty batch. The
// accumulated conditions apply to every window and are cleared once the
// loop exits, on every exit path.
func (s *Store) EachBatch(ctx context.Context, table string, batchSize int, fn func(batch []Row) error, columns string) error {
	defer s.ResetConditions()

	if batchSize < 1 {
		return fmt.Errorf("%w: batch size must be positive", ErrRowData)
	}
	if columns == "" {
		columns = "*"
	}
	clause, args := s.whereClause()

	for offset := 0; ; offset += batchSize {
		batchArgs := append(append([]any{}, args...), batchSize, offset)
		batch, err := s.All(ctx, "SELECT "+columns+" FROM "+table+clause+" LIMIT ? OFFSET ?", batchArgs...)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
}
