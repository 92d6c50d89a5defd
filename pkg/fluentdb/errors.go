package fluentdb

import "errors"

// ErrRun is returned when a mutation statement fails to execute.
var ErrRun = errors.New("run failed")

// ErrAll is returned when a row-set query fails to execute.
var ErrAll = errors.New("query failed")

// ErrGet is returned when a single-row query fails to execute.
// A query that matches no row is not an error; Get returns a nil Row.
var ErrGet = errors.New("get failed")

// ErrTxActive is returned by Begin when a transaction is already active.
var ErrTxActive = errors.New("transaction already active")

// ErrNoTx is returned by Commit when no transaction is active.
// Rollback without an active transaction is a no-op, not an error.
var ErrNoTx = errors.New("no active transaction")

// ErrMaintenance is returned when a maintenance operation such as Compact
// is attempted while a transaction is active. SQLite cannot VACUUM inside
// a transaction.
var ErrMaintenance = errors.New("maintenance not allowed during transaction")

// ErrSchema is returned for invalid schema definitions before any
// statement is built.
var ErrSchema = errors.New("invalid schema definition")

// ErrRowData is returned for invalid row data before any statement is
// built, e.g. an Insert with no columns.
var ErrRowData = errors.New("invalid row data")
