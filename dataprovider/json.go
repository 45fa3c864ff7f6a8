package dataprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON serves the objects of a JSON array. The query, when set, names the
// top-level key holding the array:
//
//	{"orders": [{"id": 1, "total": 9.5}, {"id": 2, "total": 12}]}
//
// Fields keep document order. Nested objects and arrays are passed through
// as compact JSON text.
type JSON struct {
	mem  Memory
	data []byte
	path string
}

// NewJSON returns a cursor over data.
func NewJSON(data []byte, query string) *JSON {
	j := &JSON{data: data}
	j.mem.queries = newQueries(query)
	return j
}

// NewJSONFile returns a cursor that reads path on every Execute.
func NewJSONFile(path, query string) *JSON {
	j := &JSON{path: path}
	j.mem.queries = newQueries(query)
	return j
}

func (j *JSON) Execute(ctx context.Context) error {
	data := j.data
	if j.path != "" {
		b, err := os.ReadFile(j.path)
		if err != nil {
			return &Error{Provider: "json", Op: "execute", Err: err}
		}
		data = b
	}
	rows, err := decodeRows(data, j.mem.Query())
	if err != nil {
		return &Error{Provider: "json", Op: "execute", Err: err}
	}
	j.mem.rows = rows
	return j.mem.Execute(ctx)
}

func (j *JSON) FetchNext(ctx context.Context) (Row, error) { return j.mem.FetchNext(ctx) }
func (j *JSON) CurrentRow() Row                            { return j.mem.CurrentRow() }
func (j *JSON) HasMoreRecords() bool                       { return j.mem.HasMoreRecords() }
func (j *JSON) RecordCount() int                           { return j.mem.RecordCount() }
func (j *JSON) Reset()                                     { j.mem.Reset() }
func (j *JSON) Query() string                              { return j.mem.Query() }
func (j *JSON) SetQuery(q string)                          { j.mem.SetQuery(q) }
func (j *JSON) QueryRaw() string                           { return j.mem.QueryRaw() }
func (j *JSON) SetQueryRaw(q string)                       { j.mem.SetQueryRaw(q) }

// decodeRows finds the array (at the root or under key) and decodes its
// objects into rows.
func decodeRows(data []byte, key string) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if key != "" {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		found := false
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if name, _ := tok.(string); name == key {
				found = true
				break
			}
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		if !found {
			return nil, fmt.Errorf("key %q not found", key)
		}
	}

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var rows []Row
	for dec.More() {
		row, err := decodeObject(dec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeObject(dec *json.Decoder) (Row, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	row := Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		row = append(row, Field{Name: name, Value: jsonValue(v)})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return row, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil
		}
		return string(b)
	default:
		return x
	}
}
