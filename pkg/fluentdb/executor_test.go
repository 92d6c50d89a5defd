package fluentdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPeopleStore(t *testing.T) *Store {
	t.Helper()

	s := NewTestStore(t)
	s.MustSeed(t,
		"CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)",
		"INSERT INTO people (name, age) VALUES ('alice', 30)",
		"INSERT INTO people (name, age) VALUES ('bob', 25)",
		"INSERT INTO people (name, age) VALUES ('carol', 41)",
	)
	return s
}

func TestRun_ReturnsInsertIDAndRowsAffected(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	res, err := s.Run(ctx, "INSERT INTO people (name, age) VALUES (?, ?)", "dave", 19)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.LastInsertID)
	assert.Equal(t, int64(1), res.RowsAffected)

	res, err = s.Run(ctx, "UPDATE people SET age = age + 1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.RowsAffected)
}

func TestRun_WrapsEngineError(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	_, err := s.Run(ctx, "INSERT INTO missing_table (x) VALUES (1)")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRun)
	assert.Contains(t, err.Error(), "missing_table")
}

func TestAll_EmptyResultIsNotNil(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	rows, err := s.All(ctx, "SELECT * FROM people WHERE age > ?", 100)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestAll_ReturnsAllRows(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	rows, err := s.All(ctx, "SELECT name, age FROM people ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alice", rows[0]["name"])
	assert.Equal(t, int64(30), rows[0]["age"])
}

func TestAll_WrapsEngineError(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	_, err := s.All(ctx, "SELECT * FROM missing_table")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAll)
}

func TestGet_NoRowIsNilNotError(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	row, err := s.Get(ctx, "SELECT * FROM people WHERE name = ?", "nobody")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGet_ReturnsSingleRow(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	row, err := s.Get(ctx, "SELECT name, age FROM people WHERE name = ?", "bob")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "bob", row["name"])
	assert.Equal(t, int64(25), row["age"])
}

func TestGet_WrapsEngineError(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	_, err := s.Get(ctx, "SELECT * FROM missing_table")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGet)
}

func TestEach_BuffersAndReplays(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	it, err := s.Each(ctx, "SELECT name FROM people ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, 3, it.Len())

	// The iterator replays a buffer: deleting the rows after Each returns
	// does not affect iteration.
	_, err = s.Run(ctx, "DELETE FROM people")
	require.NoError(t, err)

	var names []string
	for it.Next() {
		names = append(names, it.Row()["name"].(string))
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)

	// Exhausted.
	assert.False(t, it.Next())
	assert.Nil(t, it.Row())

	it.Rewind()
	assert.True(t, it.Next())
	assert.Equal(t, "alice", it.Row()["name"])
}

func TestRecorder_TracksEveryPrimitive(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	_, err := s.All(ctx, "SELECT * FROM people WHERE age > ?", 20)
	require.NoError(t, err)
	st := s.LastStatement()
	require.NotNil(t, st)
	assert.Equal(t, StatementAll, st.Kind)
	assert.Equal(t, "SELECT * FROM people WHERE age > ?", st.Text)
	assert.Equal(t, []any{20}, st.Args)

	_, err = s.Get(ctx, "SELECT * FROM people WHERE name = ?", "bob")
	require.NoError(t, err)
	assert.Equal(t, StatementGet, s.LastStatement().Kind)

	_, err = s.Run(ctx, "DELETE FROM people WHERE name = ?", "bob")
	require.NoError(t, err)
	assert.Equal(t, StatementRun, s.LastStatement().Kind)
}

func TestRecorder_RecordsFailedStatements(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	_, err := s.Run(ctx, "INSERT INTO missing_table (x) VALUES (?)", 1)
	require.Error(t, err)

	st := s.LastStatement()
	require.NotNil(t, st)
	assert.Equal(t, "INSERT INTO missing_table (x) VALUES (?)", st.Text)
}

func TestRecorder_DefensivelyCopiesArgs(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	args := []any{"alice"}
	_, err := s.Get(ctx, "SELECT * FROM people WHERE name = ?", args...)
	require.NoError(t, err)

	// Mutating the caller-held slice must not alias into the snapshot.
	args[0] = "mallory"
	assert.Equal(t, []any{"alice"}, s.LastStatement().Args)

	// Mutating the returned snapshot must not alias into the slot either.
	snap := s.LastStatement()
	snap.Args[0] = "mallory"
	assert.Equal(t, []any{"alice"}, s.LastStatement().Args)
}

func TestLastStatement_NilBeforeFirstStatement(t *testing.T) {
	s := NewTestStore(t)
	assert.Nil(t, s.LastStatement())
}
