package contentobj

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

// Table is a table of text cells. Rows may be ragged.
type Table struct {
	BaseNode
	Caption string
	Headers []string
	Rows    [][]string
}

// NewTable returns a Table.
func NewTable(headers []string, rows [][]string) *Table {
	return &Table{Headers: headers, Rows: rows}
}

func (t *Table) Kind() Kind { return KindTable }

// RowCount returns the number of body rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnCount returns the widest of the header and every row.
func (t *Table) ColumnCount() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

// Cell returns the cell at row r, column c, or "" when out of range.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Records returns each row as a map keyed by header. Cells beyond the
// headers, and rows of a headerless table, use "column_N" keys (1-based).
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(row))
		for i, cell := range row {
			key := ""
			if i < len(t.Headers) {
				key = t.Headers[i]
			}
			if key == "" {
				key = "column_" + strconv.Itoa(i+1)
			}
			rec[key] = cell
		}
		out = append(out, rec)
	}
	return out
}

// CSV renders the headers, if any, and rows as CSV.
func (t *Table) CSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(t.Headers) > 0 {
		if err := w.Write(t.Headers); err != nil {
			return "", err
		}
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (t *Table) TextContent() string {
	var lines []string
	if t.Caption != "" {
		lines = append(lines, "[TABLE: "+t.Caption+"]")
	} else {
		lines = append(lines, "[TABLE]")
	}
	if len(t.Headers) > 0 {
		header := strings.Join(t.Headers, " | ")
		lines = append(lines, header, strings.Repeat("-", len([]rune(header))))
	}
	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	lines = append(lines, "[/TABLE]")
	return strings.Join(lines, "\n")
}

func (t *Table) RawData() map[string]any {
	return map[string]any{
		"caption":    nullable(t.Caption),
		"headers":    t.Headers,
		"rows":       t.Rows,
		"dimensions": map[string]int{"rows": t.RowCount(), "columns": t.ColumnCount()},
	}
}
