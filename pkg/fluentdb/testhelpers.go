package fluentdb

import (
	"context"
	"os"
	"testing"
)

// NewTestStore creates an in-memory store for tests. The store is closed
// automatically when the test finishes.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := OpenInMemory(context.Background())
	if err != nil {
		t.Fatalf("failed to create in-memory test store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// NewTestStoreFile creates a file-backed store in a temporary location.
// The store is closed and the file removed when the test finishes.
func NewTestStoreFile(t *testing.T) *Store {
	t.Helper()

	tmp, err := os.CreateTemp("", "fluentdb_test_*.sqlite")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	path := tmp.Name()
	_ = tmp.Close()

	s, err := Open(context.Background(), path)
	if err != nil {
		_ = os.Remove(path)
		t.Fatalf("failed to open file test store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
		_ = os.Remove(path)
	})
	return s
}

// MustExec runs a statement and fails the test on error.
func (s *Store) MustExec(t *testing.T, query string, args ...any) Result {
	t.Helper()

	res, err := s.Run(context.Background(), query, args...)
	if err != nil {
		t.Fatalf("failed to execute %q: %v", query, err)
	}
	return res
}

// MustSeed runs a sequence of statements and fails the test on the first
// error. Convenient for preparing fixtures.
func (s *Store) MustSeed(t *testing.T, queries ...string) {
	t.Helper()

	for _, q := range queries {
		s.MustExec(t, q)
	}
}
