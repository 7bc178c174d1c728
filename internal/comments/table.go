// Package comments implements the tabular side of comment classification:
// loading comment tables from CSV or XLSX, classifying every row, and
// exporting the augmented table as CSV.
package comments

import (
	"fmt"
	"slices"
)

const (
	// CommentColumn is the required input column holding comment text.
	CommentColumn = "Comment"
	// PredictedColumn is the column the batch runner writes labels into.
	PredictedColumn = "predicted_topic"
	// ExportFilename is the suggested download name for exported tables.
	ExportFilename = "resultados_clasificacion.csv"
	// ExportContentType is the media type of exported tables.
	ExportContentType = "text/csv"
)

// Table is an ordered collection of string rows under a fixed column set.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the values in the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// SetColumn writes values into the named column, appending the column if it
// does not exist. values must have one entry per row.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(t.Rows))
	}

	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], values[i])
		}
		return nil
	}

	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}

// Preview returns a copy of the table limited to the first n rows.
func (t *Table) Preview(n int) *Table {
	n = max(min(n, len(t.Rows)), 0)

	rows := make([][]string, n)
	for i := range n {
		rows[i] = slices.Clone(t.Rows[i])
	}

	return &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    rows,
	}
}
