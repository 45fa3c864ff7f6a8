package pdfreport

import (
	"context"

	"github.com/lvillar/pdfreport/dataprovider"
	"github.com/lvillar/pdfreport/observability"
)

// Datalist walks a provider to feed chart series. It has the record
// contract of a Section without any page geometry.
type Datalist struct {
	id       string
	provider dataprovider.Provider
	row      dataprovider.Row

	recIndex  int
	recCount  int
	endOfData bool

	logger observability.Logger
}

// NewDatalist returns a reset datalist reading from p.
func NewDatalist(id string, p dataprovider.Provider) *Datalist {
	d := &Datalist{id: id, provider: p, logger: observability.NopLogger{}}
	d.Reset()
	return d
}

// ID returns the datalist id used in templates and tags.
func (d *Datalist) ID() string { return d.id }

// Provider returns the bound row cursor.
func (d *Datalist) Provider() dataprovider.Provider { return d.provider }

// Row returns the current record, nil at end of data.
func (d *Datalist) Row() dataprovider.Row { return d.row }

// RecordIndex is the number of records fetched since the last Reset.
func (d *Datalist) RecordIndex() int { return d.recIndex }

// RecordCount is the provider's row count from the last ExecuteQuery.
func (d *Datalist) RecordCount() int { return d.recCount }

// EndOfData reports whether the provider is exhausted.
func (d *Datalist) EndOfData() bool { return d.endOfData }

// SetLogger sets the logger, tagged with the datalist id.
func (d *Datalist) SetLogger(l observability.Logger) {
	d.logger = l.With(observability.String("datalist", d.id))
}

// Reset drops the current row and resets the provider.
func (d *Datalist) Reset() {
	d.row = nil
	d.recIndex = 0
	d.endOfData = true
	if d.provider != nil {
		d.provider.Reset()
	}
}

// ExecuteQuery runs the provider query and loads the first record, unless
// a record is already loaded.
func (d *Datalist) ExecuteQuery(ctx context.Context) (int, error) {
	if d.provider == nil {
		return 0, nil
	}
	if d.row != nil {
		return d.provider.RecordCount(), nil
	}
	d.Reset()
	if err := d.provider.Execute(ctx); err != nil {
		return 0, err
	}
	d.recIndex = 0
	if err := d.NextRecord(ctx); err != nil {
		return 0, err
	}
	d.endOfData = !d.provider.HasMoreRecords()
	d.recCount = d.provider.RecordCount()
	d.logger.Debug("query executed", observability.Int("count", d.recCount))
	return d.recCount, nil
}

// NextRecord fetches the next record.
func (d *Datalist) NextRecord(ctx context.Context) error {
	if d.provider == nil {
		return nil
	}
	row, err := d.provider.FetchNext(ctx)
	if err != nil {
		return err
	}
	d.row = row
	if row == nil {
		d.endOfData = true
		return nil
	}
	d.recIndex++
	d.endOfData = false
	return nil
}

// Query and QueryRaw proxy the provider's statement.
func (d *Datalist) Query() string {
	if d.provider == nil {
		return ""
	}
	return d.provider.Query()
}

// SetQuery sets the resolved statement on the provider.
func (d *Datalist) SetQuery(q string) {
	if d.provider != nil {
		d.provider.SetQuery(q)
	}
}

// QueryRaw returns the statement before tag substitution.
func (d *Datalist) QueryRaw() string {
	if d.provider == nil {
		return ""
	}
	return d.provider.QueryRaw()
}

// SetQueryRaw sets the statement before tag substitution.
func (d *Datalist) SetQueryRaw(q string) {
	if d.provider != nil {
		d.provider.SetQueryRaw(q)
	}
}
