package fluentdb

import "strings"

// condition is one filter predicate contributed to the pending query.
// Immutable once pushed.
type condition struct {
	column string
	op     string
	value  any
	join   string // "AND" or "OR"; never emitted for the first condition
}

// Where appends an equality condition joined with AND and returns the
// store for chaining.
func (s *Store) Where(column string, value any) *Store {
	return s.WhereOp(column, "=", value)
}

// WhereOp appends a condition with an explicit comparison operator
// (=, >, <, >=, <=, <>, LIKE, ...) joined with AND. Column names and
// operators are passed through verbatim; only values are parameterized.
func (s *Store) WhereOp(column, op string, value any) *Store {
	s.conds = append(s.conds, condition{column: column, op: op, value: value, join: "AND"})
	return s
}

// OrWhere appends an equality condition joined with OR.
func (s *Store) OrWhere(column string, value any) *Store {
	return s.OrWhereOp(column, "=", value)
}

// OrWhereOp appends a condition with an explicit comparison operator
// joined with OR.
func (s *Store) OrWhereOp(column, op string, value any) *Store {
	s.conds = append(s.conds, condition{column: column, op: op, value: value, join: "OR"})
	return s
}

// ResetConditions discards all accumulated conditions. Every terminal
// operation calls this on its way out; it is exported so callers can
// abandon a half-built chain. Idempotent.
func (s *Store) ResetConditions() {
	s.conds = nil
}

// whereClause renders the accumulated conditions into a WHERE clause and
// its positional parameters, in push order. The first condition's join
// operator is never emitted: the clause always starts with " WHERE"; from
// the second condition on, each condition's own join operator connects it
// to the text built so far. Returns ("", nil) when nothing is accumulated.
func (s *Store) whereClause() (string, []any) {
	if len(s.conds) == 0 {
		return "", nil
	}

	var b strings.Builder
	args := make([]any, 0, len(s.conds))
	for i, c := range s.conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" ")
			b.WriteString(c.join)
			b.WriteString(" ")
		}
		b.WriteString(c.column)
		b.WriteString(" ")
		b.WriteString(c.op)
		b.WriteString(" ?")
		args = append(args, c.value)
	}
	return b.String(), args
}
