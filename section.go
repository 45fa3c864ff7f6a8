package pdfreport

import (
	"context"
	"fmt"

	"github.com/lvillar/pdfreport/dataprovider"
	"github.com/lvillar/pdfreport/observability"
	"github.com/lvillar/pdfreport/style"
)

// Section geometry defaults, in document units.
const (
	DefaultYStart    = 0.0
	DefaultRowHeight = 6.0
	DefaultYEnd      = 290.0
)

// Section is a repeating data-bound region. It walks its provider one
// record at a time and tracks where the current record goes on the page:
// the line index is the 1-based row slot on the current page, the record
// index counts rows since the last Reset and the page index counts the
// pages the section has flowed over.
//
// A section without a page format flows rows between YStart and YEnd and
// raises a page break when a row would start at or below YEnd. A section
// with a page format gets a page per record from the engine instead.
type Section struct {
	id       string
	provider dataprovider.Provider
	row      dataprovider.Row

	YStart    float64
	RowHeight float64
	YEnd      float64
	// Page, when set, is the page format the engine adds for every record.
	Page *style.Page

	recIndex    int
	recCount    int
	lineIndex   int
	pageIndex   int
	pageBreak   bool
	endOfData   bool
	pendingPage bool

	logger observability.Logger
}

// NewSection returns a reset section reading from p, which may be nil for
// a section that only lays out static content once.
func NewSection(id string, p dataprovider.Provider, page *style.Page) *Section {
	s := &Section{
		id:        id,
		provider:  p,
		YStart:    DefaultYStart,
		RowHeight: DefaultRowHeight,
		YEnd:      DefaultYEnd,
		Page:      page,
		logger:    observability.NopLogger{},
	}
	s.Reset()
	return s
}

// ID returns the section id used in templates and tags.
func (s *Section) ID() string { return s.id }

// Provider returns the bound row cursor, or nil.
func (s *Section) Provider() dataprovider.Provider { return s.provider }

// Row returns the current record, nil before the first fetch and at end
// of data.
func (s *Section) Row() dataprovider.Row { return s.row }

// RecordIndex is the number of records fetched since the last Reset.
func (s *Section) RecordIndex() int { return s.recIndex }

// RecordCount is the provider's row count from the last ExecuteQuery.
func (s *Section) RecordCount() int { return s.recCount }

// LineIndex is the 1-based row slot on the current page, 0 at end of data.
func (s *Section) LineIndex() int { return s.lineIndex }

// PageIndex is the 1-based page of the current record.
func (s *Section) PageIndex() int { return s.pageIndex }

// PageBreak reports whether the current record overflowed YEnd.
func (s *Section) PageBreak() bool { return s.pageBreak }

// EndOfData reports whether the provider is exhausted.
func (s *Section) EndOfData() bool { return s.endOfData }

// SetLogger sets the logger for state transitions, tagged with the
// section id.
func (s *Section) SetLogger(l observability.Logger) {
	s.logger = l.With(observability.String("section", s.id))
}

// checkGeometry reports flow geometry that cannot hold a single row.
func (s *Section) checkGeometry() error {
	if s.RowHeight <= 0 {
		return fmt.Errorf("row_height %v must be positive", s.RowHeight)
	}
	if s.YEnd <= s.YStart {
		return fmt.Errorf("y_end %v must be greater than y_start %v", s.YEnd, s.YStart)
	}
	return nil
}

// EndOfPage reports whether the current page of rows is complete: a page
// break is pending or the data ran out.
func (s *Section) EndOfPage() bool { return s.pageBreak || s.endOfData }

// OffsetY is the distance of the current row slot from YStart.
func (s *Section) OffsetY() float64 {
	line := 0
	if s.lineIndex > 0 {
		line = s.lineIndex - 1
	}
	return float64(line) * s.RowHeight
}

// CurrentY is the top of the current row slot.
func (s *Section) CurrentY() float64 { return s.YStart + s.OffsetY() }

// Reset drops the current row and all counters and resets the provider.
// End of data is set until the next ExecuteQuery.
func (s *Section) Reset() {
	s.row = nil
	s.recIndex = 0
	s.recCount = 0
	s.lineIndex = 0
	s.pageIndex = 0
	s.pageBreak = false
	s.endOfData = true
	s.pendingPage = false
	if s.provider != nil {
		s.provider.Reset()
	}
	s.log("reset")
}

// ExecuteQuery runs the provider query and loads the first record. When a
// record is already loaded it only returns the count, so a nested section
// re-entered on the next parent page keeps its position. That re-entry
// starts the new page: a record carried over a page break counts on it.
func (s *Section) ExecuteQuery(ctx context.Context) (int, error) {
	if s.provider == nil {
		return 0, nil
	}
	if s.row != nil {
		s.takePendingPage()
		return s.provider.RecordCount(), nil
	}
	s.Reset()
	if err := s.provider.Execute(ctx); err != nil {
		return 0, err
	}
	s.recIndex = 0
	if err := s.NextRecord(ctx); err != nil {
		return 0, err
	}
	s.endOfData = !s.provider.HasMoreRecords()
	s.recCount = s.provider.RecordCount()
	s.logger.Debug("query executed", observability.Int("count", s.recCount))
	return s.recCount, nil
}

// NextRecord fetches the next record and moves to the next row slot. The
// record that would start at or below YEnd takes the first slot of the
// next page and raises the page break. Its page index is counted once the
// next page starts, when the section is re-entered through ExecuteQuery or
// at the latest by the following NextRecord.
func (s *Section) NextRecord(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	s.pageBreak = false
	s.takePendingPage()

	row, err := s.provider.FetchNext(ctx)
	if err != nil {
		return err
	}
	if row == nil {
		s.row = nil
		s.endOfData = true
		s.lineIndex = 0
		s.pageBreak = false
		s.log("end of data")
		return nil
	}

	s.row = row
	if s.recIndex == 0 {
		s.pageIndex = 1
	} else if s.Page != nil {
		s.pageIndex++
	}
	s.recIndex++
	s.lineIndex++
	s.endOfData = false
	if s.Page != nil {
		// Every record starts a page of its own.
		s.lineIndex = 1
	} else if s.lineIndex > 1 && s.CurrentY() >= s.YEnd {
		s.lineIndex = 1
		s.pageBreak = true
		s.pendingPage = true
	}
	s.log("next record")
	return nil
}

// ResetPageBreak closes the current page of rows: the pending record
// keeps the first slot for the next page. The page index is left alone
// since content after the section may still draw on the current page.
func (s *Section) ResetPageBreak() {
	s.lineIndex = 1
	s.pageBreak = false
	s.log("page break reset")
}

func (s *Section) takePendingPage() {
	if s.pendingPage {
		s.pageIndex++
		s.pendingPage = false
	}
}

// Query and QueryRaw proxy the provider's statement; they are empty for a
// section without a provider.
func (s *Section) Query() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Query()
}

// SetQuery sets the resolved statement on the provider.
func (s *Section) SetQuery(q string) {
	if s.provider != nil {
		s.provider.SetQuery(q)
	}
}

// QueryRaw returns the statement before tag substitution.
func (s *Section) QueryRaw() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.QueryRaw()
}

// SetQueryRaw sets the statement before tag substitution.
func (s *Section) SetQueryRaw(q string) {
	if s.provider != nil {
		s.provider.SetQueryRaw(q)
	}
}

func (s *Section) log(msg string) {
	s.logger.Debug(msg,
		observability.Int("recIndex", s.recIndex),
		observability.Int("lineIndex", s.lineIndex),
		observability.Int("pageIndex", s.pageIndex),
		observability.Bool("pageBreak", s.pageBreak),
		observability.Bool("endOfData", s.endOfData),
	)
}
