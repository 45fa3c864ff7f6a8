package dataprovider

import (
	"context"
	"database/sql"

	"github.com/lvillar/pdfreport/observability"
)

// SQL serves the result set of a database/sql query. Positional args are
// bound on every Execute.
type SQL struct {
	queries
	db      *sql.DB
	args    []any
	rows    *sql.Rows
	cols    []string
	current Row
	count   int
	logger  observability.Logger
}

// NewSQL returns a cursor running query against db.
func NewSQL(db *sql.DB, query string, args ...any) *SQL {
	return &SQL{
		queries: newQueries(query),
		db:      db,
		args:    args,
		logger:  observability.NopLogger{},
	}
}

// SetLogger sets the logger used for count failures.
func (s *SQL) SetLogger(l observability.Logger) {
	if l == nil {
		l = observability.NopLogger{}
	}
	s.logger = l
}

// SetArgs replaces the positional arguments.
func (s *SQL) SetArgs(args ...any) { s.args = args }

// Execute counts the rows with a wrapping COUNT query, then opens the
// result set. A failing count is logged and leaves the count at 0.
func (s *SQL) Execute(ctx context.Context) error {
	s.Reset()

	countQuery := "SELECT COUNT(*) AS count_num_rec FROM (" + s.query + ") AS count_alias"
	if err := s.db.QueryRowContext(ctx, countQuery, s.args...).Scan(&s.count); err != nil {
		s.logger.Warn("record count failed", observability.String("query", s.query), observability.Error("error", err))
		s.count = 0
	}

	rows, err := s.db.QueryContext(ctx, s.query, s.args...)
	if err != nil {
		return &Error{Provider: "sql", Op: "execute", Err: err}
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return &Error{Provider: "sql", Op: "execute", Err: err}
	}
	s.rows = rows
	s.cols = cols
	return nil
}

func (s *SQL) FetchNext(ctx context.Context) (Row, error) {
	if s.rows == nil {
		s.current = nil
		return nil, nil
	}
	if !s.rows.Next() {
		err := s.rows.Err()
		s.rows.Close()
		s.rows = nil
		s.current = nil
		if err != nil {
			return nil, &Error{Provider: "sql", Op: "fetch", Err: err}
		}
		return nil, nil
	}

	values := make([]any, len(s.cols))
	ptrs := make([]any, len(s.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, &Error{Provider: "sql", Op: "fetch", Err: err}
	}

	row := make(Row, len(s.cols))
	for i, c := range s.cols {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[i] = Field{Name: c, Value: v}
	}
	s.current = row
	return row, nil
}

func (s *SQL) CurrentRow() Row      { return s.current }
func (s *SQL) HasMoreRecords() bool { return s.current != nil }
func (s *SQL) RecordCount() int     { return s.count }

// Reset closes any open result set.
func (s *SQL) Reset() {
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}
	s.cols = nil
	s.current = nil
	s.count = 0
}
