package fluentdb

// StatementKind identifies which executor primitive issued a statement.
type StatementKind string

const (
	// StatementRun marks a mutation statement.
	StatementRun StatementKind = "run"
	// StatementAll marks a row-set query.
	StatementAll StatementKind = "all"
	// StatementGet marks a single-row query.
	StatementGet StatementKind = "get"
)

// Statement is an immutable snapshot of an issued statement: its text, the
// executor primitive that ran it and the bound parameters.
type Statement struct {
	Text string
	Kind StatementKind
	Args []any
}

// record overwrites the last-statement slot. Args are copied so a caller
// mutating its argument slice afterwards cannot alias into the snapshot.
func (s *Store) record(kind StatementKind, text string, args []any) {
	cp := make([]any, len(args))
	copy(cp, args)
	s.last = &Statement{Text: text, Kind: kind, Args: cp}
	s.log.Debug("statement", "kind", string(kind), "query", text)
}

// LastStatement returns a copy of the most recently issued statement, or
// nil if the store has not executed anything yet. Purely observational.
func (s *Store) LastStatement() *Statement {
	if s.last == nil {
		return nil
	}
	cp := make([]any, len(s.last.Args))
	copy(cp, s.last.Args)
	return &Statement{Text: s.last.Text, Kind: s.last.Kind, Args: cp}
}
