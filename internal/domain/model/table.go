package model

import "time"

// Row is one raw record from a source file. Fields holds the cell values
// keyed by column name; Timestamp is the parsed timestamp column, nil when
// the value was absent or unparseable (the row itself is kept).
type Row struct {
	Fields    map[string]string
	Timestamp *time.Time
}

// Get returns the value of a column, or the empty string when absent.
func (r Row) Get(column string) string {
	return r.Fields[column]
}

// Table is one successfully loaded source file.
type Table struct {
	Source  string // source identifier, e.g. "ios_reviews"
	Path    string // file it was loaded from
	Columns []string
	Rows    []Row
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}
