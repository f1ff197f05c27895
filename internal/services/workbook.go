package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"csvedit/internal/csvio"
	"csvedit/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// Import reads the first worksheet of an XLSX workbook. Row 1 is the header.
// Rows are padded to the sheet's recorded dimension and then to the widest
// row, because the workbook reader drops trailing empty cells and rows.
func (ds *DocumentService) Import(ctx context.Context, path string) (*models.TabularDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop := ds.timings.Start("import")

	doc, sheet, err := ds.readWorkbook(path)
	if err != nil {
		stop()
		return nil, err
	}

	ds.logger.Debug("DocumentService", "workbook imported", map[string]interface{}{
		"path":        path,
		"sheet":       sheet,
		"rows":        doc.RowCount(),
		"columns":     doc.ColumnCount(),
		"duration_ms": stop().Milliseconds(),
	})
	return doc, nil
}

func (ds *DocumentService) readWorkbook(path string) (*models.TabularDocument, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", models.NewIOError("open", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.NewDocument(nil, nil, ""), "", nil
	}
	sheet := sheets[0]

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, sheet, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}

	if dim, err := f.GetSheetDimension(sheet); err == nil {
		if cols, rows, ok := dimensionExtent(dim); ok {
			records = padRecords(records, cols, rows)
		}
	}
	if len(records) == 0 {
		return models.NewDocument(nil, nil, ""), sheet, nil
	}

	headers, rows, err := csvio.Normalize(records[0], records[1:], nil, csvio.RaggedPad)
	if err != nil {
		return nil, sheet, err
	}

	// Imported documents have no CSV source; saving asks for a path.
	return models.NewDocument(headers, rows, ""), sheet, nil
}

// dimensionExtent returns the bottom-right corner of a range such as
// "A1:C4". A single cell reference counts only when it is not A1, since an
// empty sheet reports A1.
func dimensionExtent(ref string) (cols, rows int, ok bool) {
	parts := strings.Split(ref, ":")
	last := parts[len(parts)-1]
	if len(parts) == 1 && strings.EqualFold(last, "A1") {
		return 0, 0, false
	}
	cols, rows, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return 0, 0, false
	}
	return cols, rows, true
}

// padRecords extends records to at least rows records of cols cells each
func padRecords(records [][]string, cols, rows int) [][]string {
	for len(records) < rows {
		records = append(records, nil)
	}
	for i, rec := range records {
		for len(rec) < cols {
			rec = append(rec, "")
		}
		records[i] = rec
	}
	return records
}

// Export writes doc to path as a single-sheet XLSX workbook
func (ds *DocumentService) Export(ctx context.Context, path string, doc *models.TabularDocument) error {
	if doc == nil {
		return models.ErrNoDocument
	}

	stop := ds.timings.Start("export")

	err := writeAtomic(ctx, path, func(w io.Writer) error {
		return ds.WriteWorkbook(w, doc)
	})
	if err != nil {
		stop()
		return err
	}

	ds.logger.Debug("DocumentService", "workbook exported", map[string]interface{}{
		"path":        path,
		"rows":        doc.RowCount(),
		"duration_ms": stop().Milliseconds(),
	})
	return nil
}

// WriteWorkbook serialises doc as XLSX to w
func (ds *DocumentService) WriteWorkbook(w io.Writer, doc *models.TabularDocument) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, doc.Headers()); err != nil {
		return err
	}
	for i, row := range doc.Rows() {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	// Record the full extent so trailing empty rows and columns survive a
	// round trip.
	if cols := doc.ColumnCount(); cols > 0 {
		last, err := excelize.CoordinatesToCellName(cols, doc.RowCount()+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetDimension(exportSheet, "A1:"+last); err != nil {
			return fmt.Errorf("set sheet dimension: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, cells []string) error {
	if len(cells) == 0 {
		return nil
	}

	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}
