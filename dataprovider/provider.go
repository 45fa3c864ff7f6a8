// Package dataprovider defines the row cursor a report section walks, and
// the adapters that feed it from Go values, JSON documents, SQL databases
// and Excel workbooks.
//
// A cursor is forward-only and single-statement: Execute runs the query,
// FetchNext returns rows one at a time until it returns a nil Row, and
// Reset drops the statement. Cursors are not safe for concurrent use.
package dataprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lvillar/pdfreport/observability"
)

// Provider is a forward-only row cursor.
type Provider interface {
	// Execute runs the query. It resets any previous statement first.
	Execute(ctx context.Context) error
	// FetchNext advances one record. A nil Row with a nil error means the
	// cursor is exhausted.
	FetchNext(ctx context.Context) (Row, error)
	// CurrentRow returns the row returned by the last FetchNext.
	CurrentRow() Row
	// HasMoreRecords reports whether the last fetch returned a row.
	HasMoreRecords() bool
	// RecordCount is the best-effort total number of rows. Adapters that
	// cannot count return 0.
	RecordCount() int
	Reset()

	// Query is the statement sent to the data source, after tag
	// substitution. QueryRaw is the form written in the template.
	Query() string
	SetQuery(q string)
	QueryRaw() string
	SetQueryRaw(q string)
}

// LoggerSetter is implemented by providers that log recoverable failures.
type LoggerSetter interface {
	SetLogger(l observability.Logger)
}

// Field is one column of a row.
type Field struct {
	Name  string
	Value any
}

// Row is an ordered set of fields, as fetched.
type Row []Field

// NewRow builds a row from name/value pairs:
//
//	NewRow("id", 1, "name", "Ada")
func NewRow(kv ...any) Row {
	r := make(Row, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, Field{Name: fmt.Sprint(kv[i]), Value: kv[i+1]})
	}
	return r
}

// Get returns the value of the field called name, ignoring case.
func (r Row) Get(name string) (any, bool) {
	for _, f := range r {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the formatted value of name, or "" when absent.
func (r Row) String(name string) string {
	v, _ := r.Get(name)
	return FormatValue(v)
}

// Map returns the row as a map keyed by field name.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Name] = f.Value
	}
	return m
}

// FormatValue renders a field value for text substitution. nil is "",
// integral floats carry no decimals and booleans are "1" or "".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return ""
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Error wraps an adapter failure with the adapter name and operation.
type Error struct {
	Provider string
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dataprovider: %s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// queries holds the resolved and raw query strings shared by every adapter.
type queries struct {
	query    string
	queryRaw string
}

func newQueries(q string) queries { return queries{query: q, queryRaw: q} }

func (q *queries) Query() string        { return q.query }
func (q *queries) SetQuery(s string)    { q.query = s }
func (q *queries) QueryRaw() string     { return q.queryRaw }
func (q *queries) SetQueryRaw(s string) { q.queryRaw = s }
