package models

import (
	"fmt"
	"path/filepath"
)

// TabularDocument is a header row plus a grid of cells. Every row has one cell
// per header once the document is built with NewDocument.
//
// A TabularDocument is not safe for concurrent use; the editor session owns it
// and serialises access.
type TabularDocument struct {
	headers  []string
	rows     [][]string
	source   string
	dirty    bool
	revision uint64
}

// NewDocument builds a document from copies of headers and rows. The result
// is as wide as its widest record; short rows and the header are padded
// with empty strings.
func NewDocument(headers []string, rows [][]string, source string) *TabularDocument {
	width := len(headers)
	for _, row := range rows {
		width = max(width, len(row))
	}

	hdr := make([]string, width)
	copy(hdr, headers)

	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = make([]string, width)
		copy(grid[i], row)
	}

	return &TabularDocument{
		headers: hdr,
		rows:    grid,
		source:  source,
	}
}

// NewEmptyDocument is the document shown before anything is loaded.
func NewEmptyDocument() *TabularDocument {
	return &TabularDocument{}
}

func (d *TabularDocument) RowCount() int {
	return len(d.rows)
}

func (d *TabularDocument) ColumnCount() int {
	return len(d.headers)
}

// Header returns the name of column col, or "" when col is out of range.
func (d *TabularDocument) Header(col int) string {
	if col < 0 || col >= len(d.headers) {
		return ""
	}
	return d.headers[col]
}

// Cell returns the text of a cell. Absent cells read as "".
func (d *TabularDocument) Cell(row, col int) string {
	if row < 0 || row >= len(d.rows) || col < 0 || col >= len(d.rows[row]) {
		return ""
	}
	return d.rows[row][col]
}

// SetCell replaces the text of a cell, marks the document dirty and returns
// the previous text.
func (d *TabularDocument) SetCell(row, col int, value string) (string, error) {
	if row < 0 || row >= len(d.rows) || col < 0 || col >= len(d.headers) {
		return "", fmt.Errorf("%w: row %d, column %d in %dx%d document",
			ErrCellOutOfRange, row, col, len(d.rows), len(d.headers))
	}

	old := d.rows[row][col]
	d.rows[row][col] = value
	d.dirty = true
	d.revision++
	return old, nil
}

func (d *TabularDocument) IsDirty() bool {
	return d.dirty
}

// Revision increments on every edit.
func (d *TabularDocument) Revision() uint64 {
	return d.revision
}

// MarkClean clears the dirty flag.
func (d *TabularDocument) MarkClean() {
	d.dirty = false
}

func (d *TabularDocument) Source() string {
	return d.source
}

func (d *TabularDocument) SetSource(source string) {
	d.source = source
}

// Name is the base name of the source, or "Untitled".
func (d *TabularDocument) Name() string {
	if d.source == "" {
		return "Untitled"
	}
	return filepath.Base(d.source)
}

// Headers returns a copy of the header row.
func (d *TabularDocument) Headers() []string {
	return append([]string(nil), d.headers...)
}

// Rows returns a deep copy of the cell grid.
func (d *TabularDocument) Rows() [][]string {
	out := make([][]string, len(d.rows))
	for i, row := range d.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Clone returns an independent copy including the dirty flag and revision.
func (d *TabularDocument) Clone() *TabularDocument {
	return &TabularDocument{
		headers:  d.Headers(),
		rows:     d.Rows(),
		source:   d.source,
		dirty:    d.dirty,
		revision: d.revision,
	}
}
