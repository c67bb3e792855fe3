package riff

import (
	"io"
)

type inMemoryScan struct {
	td      *TypeDescription
	records []Record
}

var _ Iterator = (*inMemoryScan)(nil)

// NewInMemoryScan iterates over records held in memory; records must be in
// the read layout order of td.
func NewInMemoryScan(td *TypeDescription, records []Record) *inMemoryScan {
	return &inMemoryScan{
		td:      td,
		records: records,
	}
}

func (m *inMemoryScan) TypeDescription() *TypeDescription {
	return m.td
}

func (m *inMemoryScan) Next() (Record, error) {
	if len(m.records) == 0 {
		return nil, io.EOF
	}
	r := m.records[0]
	m.records = m.records[1:]
	return r, nil
}

func (m *inMemoryScan) Close() error {
	m.records = nil
	return nil
}
