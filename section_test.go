package pdfreport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/pdfreport/dataprovider"
	"github.com/lvillar/pdfreport/style"
)

// namedRows returns n rows with a name field r1 .. rn.
func namedRows(n int) []dataprovider.Row {
	rows := make([]dataprovider.Row, n)
	for i := range rows {
		rows[i] = dataprovider.NewRow("name", fmt.Sprintf("r%d", i+1), "n", i+1)
	}
	return rows
}

type slot struct {
	name string
	line int
	page int
	y    float64
}

func TestSectionFlowsRowsOverPages(t *testing.T) {
	ctx := context.Background()
	s := NewSection("rows", dataprovider.NewMemory(namedRows(7)...), nil)
	s.YStart, s.RowHeight, s.YEnd = 10, 6, 40

	n, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.False(t, s.EndOfData())

	var got []slot
	breaks := 0
	for !s.EndOfData() {
		got = append(got, slot{
			name: dataprovider.FormatValue(s.Row()[0].Value),
			line: s.LineIndex(),
			page: s.PageIndex(),
			y:    s.CurrentY(),
		})
		require.NoError(t, s.NextRecord(ctx))
		if s.PageBreak() {
			breaks++
			assert.Equal(t, 5, s.RecordIndex()-1, "break raised when the sixth record is fetched")
			assert.Equal(t, 1, s.PageIndex(), "the carried record counts on the next page")
			assert.True(t, s.EndOfPage())
			s.ResetPageBreak()
			assert.False(t, s.EndOfPage())
			assert.Equal(t, 1, s.PageIndex(), "still on the first page after the reset")

			// The engine re-enters the section for the next page.
			n, err := s.ExecuteQuery(ctx)
			require.NoError(t, err)
			assert.Equal(t, 7, n)
			assert.Equal(t, 2, s.PageIndex())
			assert.Equal(t, 6, s.RecordIndex())
		}
	}

	assert.Equal(t, 1, breaks)
	assert.Equal(t, []slot{
		{"r1", 1, 1, 10},
		{"r2", 2, 1, 16},
		{"r3", 3, 1, 22},
		{"r4", 4, 1, 28},
		{"r5", 5, 1, 34},
		{"r6", 1, 2, 10},
		{"r7", 2, 2, 16},
	}, got)

	assert.True(t, s.EndOfPage())
	assert.False(t, s.PageBreak())
	assert.Equal(t, 0, s.LineIndex())
	assert.Nil(t, s.Row())
	assert.Equal(t, 7, s.RecordIndex())
	assert.Equal(t, 7, s.RecordCount())
}

func TestSectionRowsPerPage(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		start, height, end float64
		perPage            int
	}{
		{10, 6, 40, 5},
		{0, 10, 100, 10},
		{30, 6, 270, 40},
		{20, 7, 30, 2},
	} {
		t.Run(fmt.Sprintf("%v-%v-%v", tc.start, tc.height, tc.end), func(t *testing.T) {
			s := NewSection("s", dataprovider.NewMemory(namedRows(tc.perPage+1)...), nil)
			s.YStart, s.RowHeight, s.YEnd = tc.start, tc.height, tc.end
			_, err := s.ExecuteQuery(ctx)
			require.NoError(t, err)

			for i := 1; i < tc.perPage; i++ {
				require.NoError(t, s.NextRecord(ctx))
				require.False(t, s.PageBreak(), "record %d", i+1)
			}
			require.NoError(t, s.NextRecord(ctx))
			assert.True(t, s.PageBreak())
			assert.Equal(t, 1, s.LineIndex())
		})
	}
}

func TestSectionPendingPageTakenByNextFetch(t *testing.T) {
	ctx := context.Background()
	s := NewSection("rows", dataprovider.NewMemory(namedRows(7)...), nil)
	s.YStart, s.RowHeight, s.YEnd = 10, 6, 40
	_, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.NextRecord(ctx))
	}
	require.True(t, s.PageBreak())
	s.ResetPageBreak()
	assert.Equal(t, 1, s.PageIndex())

	require.NoError(t, s.NextRecord(ctx))
	assert.Equal(t, "r7", s.Row()[0].Value)
	assert.Equal(t, 2, s.PageIndex())
	assert.Equal(t, 2, s.LineIndex())
}

func TestSectionRowTallerThanPage(t *testing.T) {
	ctx := context.Background()
	s := NewSection("rows", dataprovider.NewMemory(namedRows(3)...), nil)
	s.YStart, s.RowHeight, s.YEnd = 50, 6, 40
	assert.Error(t, s.checkGeometry())

	_, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	var pages []int
	for !s.EndOfData() {
		pages = append(pages, s.PageIndex())
		assert.Equal(t, 1, s.LineIndex())
		require.NoError(t, s.NextRecord(ctx))
		if s.PageBreak() {
			s.ResetPageBreak()
			_, err := s.ExecuteQuery(ctx)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, pages, "one row per page, no page skipped")
}

func TestSectionCheckGeometry(t *testing.T) {
	for _, tc := range []struct {
		start, height, end float64
		ok                 bool
	}{
		{10, 6, 40, true},
		{0, 6, 290, true},
		{10, 0, 40, false},
		{10, -6, 40, false},
		{40, 6, 40, false},
		{50, 6, 40, false},
	} {
		s := NewSection("s", nil, nil)
		s.YStart, s.RowHeight, s.YEnd = tc.start, tc.height, tc.end
		if tc.ok {
			assert.NoError(t, s.checkGeometry(), "%v", tc)
		} else {
			assert.Error(t, s.checkGeometry(), "%v", tc)
		}
	}
}

func TestSectionWithoutRows(t *testing.T) {
	ctx := context.Background()
	s := NewSection("empty", dataprovider.NewMemory(), nil)

	n, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, s.EndOfData())
	assert.True(t, s.EndOfPage())
	assert.Nil(t, s.Row())
	assert.Equal(t, 0, s.PageIndex())
	assert.Equal(t, 0, s.LineIndex())
}

func TestSectionWithoutProvider(t *testing.T) {
	ctx := context.Background()
	s := NewSection("static", nil, nil)

	n, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, s.EndOfData())
	require.NoError(t, s.NextRecord(ctx))
	assert.Equal(t, "", s.Query())
	assert.Equal(t, "", s.QueryRaw())
	s.SetQuery("ignored")
	assert.Equal(t, "", s.Query())
}

func TestSectionFixedPage(t *testing.T) {
	ctx := context.Background()
	page := style.Page{Format: "A5", Orientation: "L"}
	s := NewSection("doc", dataprovider.NewMemory(namedRows(3)...), &page)
	s.YStart, s.RowHeight, s.YEnd = 0, 100, 50

	_, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	for want := 1; want <= 3; want++ {
		assert.Equal(t, want, s.PageIndex())
		assert.Equal(t, 1, s.LineIndex())
		assert.Equal(t, 0.0, s.OffsetY())
		assert.False(t, s.PageBreak())
		require.NoError(t, s.NextRecord(ctx))
	}
	assert.True(t, s.EndOfData())
}

func TestSectionExecuteQueryKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := NewSection("rows", dataprovider.NewMemory(namedRows(3)...), nil)
	_, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	require.NoError(t, s.NextRecord(ctx))
	require.Equal(t, 2, s.RecordIndex())

	n, err := s.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, s.RecordIndex())
	assert.Equal(t, "r2", s.Row()[0].Value)

	s.Reset()
	assert.Nil(t, s.Row())
	assert.True(t, s.EndOfData())
	_, err = s.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", s.Row()[0].Value)
	assert.Equal(t, 1, s.RecordIndex())
}

func TestSectionQueries(t *testing.T) {
	s := NewSection("rows", dataprovider.NewMemory(), nil)
	s.SetQueryRaw("SELECT * FROM t WHERE id = {ID}")
	s.SetQuery("SELECT * FROM t WHERE id = 4")
	assert.Equal(t, "SELECT * FROM t WHERE id = {ID}", s.QueryRaw())
	assert.Equal(t, "SELECT * FROM t WHERE id = 4", s.Query())
}

type failingProvider struct {
	*dataprovider.Memory
	err error
}

func (f failingProvider) Execute(ctx context.Context) error { return f.err }

func TestSectionProviderError(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewSection("rows", failingProvider{Memory: dataprovider.NewMemory(), err: boom}, nil)
	_, err := s.ExecuteQuery(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDatalist(t *testing.T) {
	ctx := context.Background()
	d := NewDatalist("sales", dataprovider.NewMemory(namedRows(3)...))
	assert.True(t, d.EndOfData())

	n, err := d.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var names []string
	for !d.EndOfData() {
		names = append(names, dataprovider.FormatValue(d.Row()[0].Value))
		require.NoError(t, d.NextRecord(ctx))
	}
	assert.Equal(t, []string{"r1", "r2", "r3"}, names)
	assert.Equal(t, 3, d.RecordIndex())
	assert.Nil(t, d.Row())

	d.Reset()
	_, err = d.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", d.Row()[0].Value)

	empty := NewDatalist("none", dataprovider.NewMemory())
	n, err = empty.ExecuteQuery(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, empty.EndOfData())
}
