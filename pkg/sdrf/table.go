// Package sdrf holds the shared data model for SDRF validation: the parsed
// table, the issue/code taxonomy, and the validation manifest.
package sdrf

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/bigbio/sdrf-go/pkg/logger"
)

var tableLog = logger.New("sdrf:table")

// Table is an in-memory SDRF file: a header row of column names over
// ordered rows of string cells. Headers are matched case-sensitively and
// duplicates are preserved in declaration order.
type Table struct {
	headers []string
	rows    [][]string
	// index maps a header to its first occurrence.
	index map[string]int
}

// ParseTable reads a tab-separated table with a header row. Short rows are
// padded with empty cells so every row has one cell per header.
func ParseTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}

	headers := records[0]
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, record)
			record = padded
		}
		rows = append(rows, record)
	}

	tableLog.Printf("Parsed table: columns=%d rows=%d", len(headers), len(rows))
	return &Table{headers: headers, rows: rows, index: index}, nil
}

// ParseTableFile reads a tab-separated SDRF file from disk.
func ParseTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SDRF file: %w", err)
	}
	defer f.Close()
	return ParseTable(f)
}

// NewTable builds a table directly from headers and rows, for callers that
// source data from somewhere other than a TSV file.
func NewTable(headers []string, rows [][]string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}
	return &Table{headers: headers, rows: rows, index: index}
}

// Headers returns the column names in file order.
func (t *Table) Headers() []string { return t.headers }

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.rows) }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.headers) }

// HasColumn reports whether a header is present (exact, case-sensitive).
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the cells of the named column across all rows, or false
// if the header is absent.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	cells := make([]string, len(t.rows))
	for r, row := range t.rows {
		if i < len(row) {
			cells[r] = row[i]
		}
	}
	return cells, true
}

// Cell returns the value at (row, column name), or false if out of range.
func (t *Table) Cell(row int, name string) (string, bool) {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	if i >= len(t.rows[row]) {
		return "", true
	}
	return t.rows[row][i], true
}

// WriteTSV serializes the table back to tab-separated form. Used by proof
// generation to obtain a canonical byte representation of the input.
func (t *Table) WriteTSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write(t.headers); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
