package dataprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX serves the rows of a worksheet. The first row holds the field
// names. The query names the sheet; an empty query reads the first sheet.
type XLSX struct {
	mem  Memory
	path string
}

// NewXLSX returns a cursor over sheet in the workbook at path.
func NewXLSX(path, sheet string) *XLSX {
	x := &XLSX{path: path}
	x.mem.queries = newQueries(sheet)
	return x
}

func (x *XLSX) Execute(ctx context.Context) error {
	rows, err := x.load()
	if err != nil {
		return &Error{Provider: "xlsx", Op: "execute", Err: err}
	}
	x.mem.rows = rows
	return x.mem.Execute(ctx)
}

func (x *XLSX) load() ([]Row, error) {
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := x.mem.Query()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	header := cells[0]
	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			var v any
			if i < len(line) {
				v = line[i]
			}
			row[i] = Field{Name: name, Value: v}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (x *XLSX) FetchNext(ctx context.Context) (Row, error) { return x.mem.FetchNext(ctx) }
func (x *XLSX) CurrentRow() Row                            { return x.mem.CurrentRow() }
func (x *XLSX) HasMoreRecords() bool                       { return x.mem.HasMoreRecords() }
func (x *XLSX) RecordCount() int                           { return x.mem.RecordCount() }
func (x *XLSX) Reset()                                     { x.mem.Reset() }
func (x *XLSX) Query() string                              { return x.mem.Query() }
func (x *XLSX) SetQuery(q string)                          { x.mem.SetQuery(q) }
func (x *XLSX) QueryRaw() string                           { return x.mem.QueryRaw() }
func (x *XLSX) SetQueryRaw(q string)                       { x.mem.SetQueryRaw(q) }
