// Package table decodes the delimited text SkyServer returns into typed
// columns.
package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is a column-oriented view of a delimited response. Column names
// are matched case-insensitively.
type Table struct {
	names []string
	cols  map[string][]string
	n     int
}

// New builds a table from a header and rows, mainly for callers that
// already hold coordinate columns in memory.
func New(names []string, rows [][]string) (*Table, error) {
	t := &Table{
		names: append([]string(nil), names...),
		cols:  make(map[string][]string, len(names)),
		n:     len(rows),
	}
	for i, name := range names {
		col := make([]string, 0, len(rows))
		for ri, row := range rows {
			if len(row) != len(names) {
				return nil, fmt.Errorf("row %d has %d values, header has %d", ri, len(row), len(names))
			}
			col = append(col, row[i])
		}
		t.cols[strings.ToLower(name)] = col
	}
	return t, nil
}

// Decode reads CSV with '#' comment lines and a header row of column names.
// A body whose first payload line starts with "error" is a server-side
// failure report, not a table.
func Decode(r io.Reader) (*Table, error) {
	var buf bytes.Buffer
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "error") {
				return nil, fmt.Errorf("server reported an error: %s", strings.TrimSpace(line))
			}
			first = false
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan response: %w", err)
	}

	cr := csv.NewReader(&buf)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{cols: map[string][]string{}}, nil
	}

	names := records[0]
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return New(names, records[1:])
}

func (t *Table) Len() int { return t.n }

func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Column returns the raw string column, or false when the name is unknown.
func (t *Table) Column(name string) ([]string, bool) {
	col, ok := t.cols[strings.ToLower(name)]
	return col, ok
}

func (t *Table) value(name string, i int) (string, error) {
	col, ok := t.cols[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("no column %q", name)
	}
	if i < 0 || i >= len(col) {
		return "", fmt.Errorf("row %d out of range for column %q", i, name)
	}
	return col[i], nil
}

func (t *Table) Float(name string, i int) (float64, error) {
	s, err := t.value(name, i)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("column %q row %d: %w", name, i, err)
	}
	return f, nil
}

func (t *Table) Int(name string, i int) (int64, error) {
	s, err := t.value(name, i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q row %d: %w", name, i, err)
	}
	return n, nil
}

func (t *Table) String(name string, i int) (string, error) {
	s, err := t.value(name, i)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
