package dataprovider

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/lvillar/pdfreport/observability"
)

// drain executes p and fetches every row.
func drain(t *testing.T, p Provider) []Row {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, p.Execute(ctx))
	var out []Row
	for {
		row, err := p.FetchNext(ctx)
		require.NoError(t, err)
		if row == nil {
			break
		}
		out = append(out, row)
	}
	assert.False(t, p.HasMoreRecords())
	assert.Nil(t, p.CurrentRow())
	return out
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "3", FormatValue(3.0))
	assert.Equal(t, "3.25", FormatValue(3.25))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "1", FormatValue(true))
	assert.Equal(t, "", FormatValue(false))
}

func TestRow(t *testing.T) {
	r := NewRow("Id", 7, "name", "Ada", "note", nil)
	v, ok := r.Get("ID")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, "Ada", r.String("NAME"))
	assert.Equal(t, "", r.String("note"))
	assert.Equal(t, "", r.String("missing"))
	assert.Equal(t, map[string]any{"Id": 7, "name": "Ada", "note": nil}, r.Map())
}

func TestMemory(t *testing.T) {
	m := NewMemory(NewRow("n", 1), NewRow("n", 2))
	assert.Equal(t, 0, m.RecordCount(), "count before execute")

	row, err := m.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Nil(t, row, "fetch before execute")

	rows := drain(t, m)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[1].String("n"))
	assert.Equal(t, 2, m.RecordCount())

	m.Reset()
	assert.Equal(t, 0, m.RecordCount())
	assert.Len(t, drain(t, m), 2, "re-executes from the start")
}

func TestQueryAccessors(t *testing.T) {
	m := NewMemory()
	m.SetQueryRaw("select {id}")
	m.SetQuery("select 5")
	assert.Equal(t, "select {id}", m.QueryRaw())
	assert.Equal(t, "select 5", m.Query())
}

func TestJSON(t *testing.T) {
	data := []byte(`{"meta": {"v": 1}, "orders": [
		{"id": 1, "total": 9.5, "customer": "Ada", "tags": ["a"]},
		{"id": 2, "total": 12, "customer": null}
	]}`)
	rows := drain(t, NewJSON(data, "orders"))
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"id", "total", "customer", "tags"}, names(rows[0]))
	assert.Equal(t, "9.5", rows[0].String("total"))
	assert.Equal(t, `["a"]`, rows[0].String("tags"))
	assert.Equal(t, "12", rows[1].String("total"))
	assert.Equal(t, "", rows[1].String("customer"))
}

func TestJSONRootArrayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"a": "x"}, {"a": "y"}, {"a": "z"}]`), 0o644))

	p := NewJSONFile(path, "")
	rows := drain(t, p)
	assert.Len(t, rows, 3)
	assert.Equal(t, 3, p.RecordCount())
}

func TestJSONErrors(t *testing.T) {
	ctx := context.Background()
	err := NewJSON([]byte(`{"x": []}`), "orders").Execute(ctx)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "json", perr.Provider)
	assert.Equal(t, "execute", perr.Op)

	assert.Error(t, NewJSON([]byte(`{"a": 1}`), "").Execute(ctx))
	assert.Error(t, NewJSONFile(filepath.Join(t.TempDir(), "none.json"), "").Execute(ctx))
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE items (id INTEGER, name TEXT, price REAL, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO items VALUES (1, 'bolt', 0.5, NULL), (2, 'nut', 0.25, 'm6'), (3, 'gear', 12, NULL)`)
	require.NoError(t, err)
	return db
}

func TestSQL(t *testing.T) {
	db := openDB(t)
	p := NewSQL(db, "SELECT id, name, price, note FROM items WHERE id >= ? ORDER BY id", 2)

	rows := drain(t, p)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, p.RecordCount())
	assert.Equal(t, []string{"id", "name", "price", "note"}, names(rows[0]))
	assert.Equal(t, "nut", rows[0].String("name"))
	assert.Equal(t, "0.25", rows[0].String("price"))
	assert.Equal(t, "12", rows[1].String("price"))
	assert.Equal(t, "", rows[1].String("note"))

	p.SetArgs(0)
	assert.Len(t, drain(t, p), 3)
}

func TestSQLCountFailureIsLogged(t *testing.T) {
	db := openDB(t)
	var buf bytes.Buffer
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	// A trailing semicolon breaks the wrapping COUNT query only.
	p := NewSQL(db, "SELECT name FROM items;")
	p.SetLogger(logger)

	rows := drain(t, p)
	assert.Len(t, rows, 3, "iteration continues")
	assert.Equal(t, 0, p.RecordCount())
	assert.Contains(t, buf.String(), "record count failed")
}

func TestSQLExecuteError(t *testing.T) {
	db := openDB(t)
	err := NewSQL(db, "SELECT * FROM missing").Execute(context.Background())
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "sql", perr.Provider)
}

func TestXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"ignored"}))
	_, err := f.NewSheet("Stock")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Stock", "A1", &[]any{"code", "qty"}))
	require.NoError(t, f.SetSheetRow("Stock", "A2", &[]any{"A-1", 10}))
	require.NoError(t, f.SetSheetRow("Stock", "A3", &[]any{"B-2"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	p := NewXLSX(path, "Stock")
	rows := drain(t, p)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, p.RecordCount())
	assert.Equal(t, "A-1", rows[0].String("code"))
	assert.Equal(t, "10", rows[0].String("qty"))
	assert.Equal(t, "", rows[1].String("qty"))

	first := drain(t, NewXLSX(path, ""))
	assert.Len(t, first, 0, "first sheet has only a header")

	assert.Error(t, NewXLSX(path, "Nope").Execute(context.Background()))
}

func names(r Row) []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Name
	}
	return out
}
