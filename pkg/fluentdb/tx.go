package fluentdb

import "context"

// Begin opens a transaction by issuing BEGIN TRANSACTION. It fails with
// ErrTxActive if a transaction is already active; the state is left
// unchanged in that case. Only one transaction can be live per store.
func (s *Store) Begin(ctx context.Context) error {
	if s.inTx {
		s.log.Warn("begin rejected", "error", ErrTxActive)
		return ErrTxActive
	}
	if _, err := s.Run(ctx, "BEGIN TRANSACTION"); err != nil {
		return err
	}
	s.inTx = true
	return nil
}

// Commit issues COMMIT and returns the store to the idle state. It fails
// with ErrNoTx if no transaction is active.
func (s *Store) Commit(ctx context.Context) error {
	if !s.inTx {
		s.log.Warn("commit rejected", "error", ErrNoTx)
		return ErrNoTx
	}
	if _, err := s.Run(ctx, "COMMIT"); err != nil {
		return err
	}
	s.inTx = false
	return nil
}

// Rollback issues ROLLBACK and returns the store to the idle state. Unlike
// Commit it succeeds as a no-op when no transaction is active, so it is
// safe to call unconditionally in cleanup paths.
func (s *Store) Rollback(ctx context.Context) error {
	if !s.inTx {
		return nil
	}
	if _, err := s.Run(ctx, "ROLLBACK"); err != nil {
		return err
	}
	s.inTx = false
	return nil
}

// InTransaction reports whether a transaction is currently active.
func (s *Store) InTransaction() bool {
	return s.inTx
}

// Compact runs VACUUM to rebuild and defragment the database file. SQLite
// refuses to VACUUM inside a transaction, so Compact fails with
// ErrMaintenance while one is active.
func (s *Store) Compact(ctx context.Context) error {
	if s.inTx {
		s.log.Warn("compact rejected", "error", ErrMaintenance)
		return ErrMaintenance
	}
	_, err := s.Run(ctx, "VACUUM")
	return err
}

// CompactInto writes a vacuumed copy of the database to path, leaving the
// original untouched. Subject to the same transaction gate as Compact.
func (s *Store) CompactInto(ctx context.Context, path string) error {
	if s.inTx {
		s.log.Warn("compact rejected", "error", ErrMaintenance)
		return ErrMaintenance
	}
	_, err := s.Run(ctx, "VACUUM INTO ?", path)
	return err
}
