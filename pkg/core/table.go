package core

import "fmt"

// Table is a fully materialized query result. Rows hold values in Columns order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of a column, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Record returns row i as a column name to value mapping.
func (t *Table) Record(i int) Record {
	rec := make(Record, len(t.Columns))
	for j, c := range t.Columns {
		rec[c] = t.Rows[i][j]
	}
	return rec
}

// Records returns every row as a Record.
func (t *Table) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		out[i] = t.Record(i)
	}
	return out
}

// Strings returns the values of one column formatted with %v.
func (t *Table) Strings(column string) ([]string, error) {
	idx := t.Index(column)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not in result", column)
	}
	out := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		switch v := row[idx].(type) {
		case nil:
			out = append(out, "")
		case []byte:
			out = append(out, string(v))
		default:
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	return out, nil
}

// Record is one result row keyed by column name.
type Record map[string]any
