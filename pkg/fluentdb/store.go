package fluentdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// AccessMode controls how the database file is opened.
type AccessMode string

const (
	// AccessModeReadWrite opens an existing database for reading and writing.
	AccessModeReadWrite AccessMode = "rw"
	// AccessModeReadOnly opens the database for reading only.
	AccessModeReadOnly AccessMode = "ro"
	// AccessModeReadWriteCreate opens for reading and writing, creating the
	// file if it does not exist.
	AccessModeReadWriteCreate AccessMode = "rwc"
)

// Options configures the underlying SQLite connection.
type Options struct {
	// BusyTimeout is how long SQLite waits on SQLITE_BUSY before failing.
	BusyTimeout time.Duration
	// PingTimeout bounds the connectivity check performed at open time.
	PingTimeout time.Duration
	// WALMode enables write-ahead logging.
	WALMode bool
	// ForeignKeys enables foreign key enforcement.
	ForeignKeys bool
	// AccessMode selects the file access mode.
	AccessMode AccessMode
	// Logger receives statement and state-machine events. Defaults to
	// slog.Default when nil.
	Logger *slog.Logger
}

// DefaultOptions returns settings suitable for embedded use.
func DefaultOptions() Options {
	return Options{
		BusyTimeout: 5 * time.Second,
		PingTimeout: 5 * time.Second,
		WALMode:     true,
		ForeignKeys: true,
		AccessMode:  AccessModeReadWrite,
	}
}

// Row is a single result record keyed by column name.
type Row map[string]any

// Store is a single logical SQLite connection carrying the condition
// accumulator, the last-statement slot and the transaction state. The
// connection pool is pinned to one open connection so that manually issued
// BEGIN/COMMIT statements and the transaction flag always describe the
// same connection.
//
// A Store is not safe for concurrent use; see the package documentation.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger

	conds []condition
	inTx  bool
	last  *Statement
}

// Open opens a file-backed store with default options, creating the parent
// directory if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	return OpenWithOptions(ctx, path, DefaultOptions())
}

// OpenInMemory opens an in-memory store. WAL mode is disabled because
// SQLite does not support it for in-memory databases.
func OpenInMemory(ctx context.Context) (*Store, error) {
	opts := DefaultOptions()
	opts.WALMode = false
	return OpenWithOptions(ctx, ":memory:", opts)
}

// OpenWithOptions opens a store with the given options.
func OpenWithOptions(ctx context.Context, path string, opts Options) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", buildDSN(path, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One in-flight statement at a time: transaction state is per-connection,
	// so the pool must never hand out a second connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := applyPragmas(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply PRAGMA settings: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Store{db: db, path: path, log: log}, nil
}

// Path returns the database file path, or ":memory:" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close tears the store down: any active transaction is rolled back, the
// condition accumulator is cleared and the connection is closed.
func (s *Store) Close() error {
	if s.inTx {
		if _, err := s.db.Exec("ROLLBACK"); err != nil {
			s.log.Warn("rollback on close failed", "error", err)
		}
		s.inTx = false
	}
	s.ResetConditions()
	return s.db.Close()
}

func buildDSN(path string, opts Options) string {
	params := []string{}

	if opts.AccessMode != "" && opts.AccessMode != AccessModeReadWrite {
		params = append(params, fmt.Sprintf("mode=%s", opts.AccessMode))
	}
	if opts.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", opts.BusyTimeout.Milliseconds()))
	}

	if len(params) > 0 {
		return path + "?" + strings.Join(params, "&")
	}
	return path
}

func applyPragmas(ctx context.Context, db *sql.DB, opts Options) error {
	pragmas := make([]string, 0, 4)

	if opts.ForeignKeys {
		pragmas = append(pragmas, "PRAGMA foreign_keys = ON")
	}
	if opts.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	pragmas = append(pragmas, "PRAGMA synchronous = NORMAL")
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()))
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}
