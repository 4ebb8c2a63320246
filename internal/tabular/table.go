package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table is an immutable snapshot of one fetched sheet. Column names are
// normalized and kept in source order; cells stay as raw strings until a
// consumer coerces them. Dates need not be unique or sorted here - the
// dataset layer sorts before use.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a Table from raw header names and rows. Header names are
// normalized; short rows are padded and long rows truncated so every row has
// exactly one cell per column.
func New(header []string, rows [][]string) *Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = NormalizeName(h)
	}

	fixed := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, len(cols))
		copy(r, row)
		fixed[i] = r
	}

	return &Table{Columns: cols, Rows: fixed}
}

// ReadCSV parses a comma-separated body into a Table. The first record is the
// header. Invalid UTF-8 bytes are replaced rather than rejected, matching the
// spreadsheet export contract.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv body: %w", err)
	}
	return ReadCSVBytes(data)
}

// ReadCSVBytes parses an in-memory CSV body into a Table.
func ReadCSVBytes(data []byte) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(sanitizeUTF8(string(data))))
	reader.FieldsPerRecord = -1 // ragged rows are padded in New
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv body contains no header row")
	}

	return New(records[0], records[1:]), nil
}

// ColumnIndex returns the position of an exact (already normalized) column
// name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the raw cells of the column at index idx.
func (t *Table) Column(idx int) []string {
	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
