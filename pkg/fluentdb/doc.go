// Package fluentdb is a stateful query-construction and transaction layer
// over an embedded SQLite database.
//
// A Store accumulates filter conditions through chained Where calls, then a
// terminal operation (Select, One, Count, Update, Delete, Paginate,
// EachBatch) renders them into a parameterized WHERE clause, executes the
// composed statement and clears the accumulator. Transactions are managed
// through an explicit Begin/Commit/Rollback state machine that also gates
// maintenance operations such as Compact.
//
// A Store is not safe for concurrent use: the condition accumulator is
// shared mutable state and at most one statement may be in flight per
// store. Callers that need concurrency must serialize access or open
// separate stores.
package fluentdb
