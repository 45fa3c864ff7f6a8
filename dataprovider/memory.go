package dataprovider

import "context"

// Memory serves rows held in memory. The query is kept for tag
// substitution bookkeeping but never interpreted.
type Memory struct {
	queries
	rows     []Row
	pos      int
	current  Row
	executed bool
}

// NewMemory returns a cursor over rows.
func NewMemory(rows ...Row) *Memory {
	return &Memory{rows: rows}
}

// SetRows replaces the data set. The cursor must be executed again.
func (m *Memory) SetRows(rows []Row) {
	m.rows = rows
	m.Reset()
}

func (m *Memory) Execute(ctx context.Context) error {
	m.Reset()
	m.executed = true
	return nil
}

func (m *Memory) FetchNext(ctx context.Context) (Row, error) {
	if !m.executed || m.pos >= len(m.rows) {
		m.current = nil
		return nil, nil
	}
	m.current = m.rows[m.pos]
	m.pos++
	return m.current, nil
}

func (m *Memory) CurrentRow() Row     { return m.current }
func (m *Memory) HasMoreRecords() bool { return m.current != nil }

func (m *Memory) RecordCount() int {
	if !m.executed {
		return 0
	}
	return len(m.rows)
}

func (m *Memory) Reset() {
	m.pos = 0
	m.current = nil
	m.executed = false
}
