package components

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// TableSource supplies the grid shown by DataTable
type TableSource interface {
	Dimensions() (rows, cols int)
	Header(col int) string
	Cell(row, col int) string
	IsColumnSelected(col int) bool
}

// DataTable renders a TableSource with a header row of column buttons and a
// row number column. Tapping a header toggles that column's selection;
// tapping a cell reports the cell.
type DataTable struct {
	table  *widget.Table
	source TableSource

	headerTapHandler func(col int)
	cellHandler      func(row, col int)
}

func NewDataTable(source TableSource) *DataTable {
	dt := &DataTable{source: source}

	dt.table = widget.NewTableWithHeaders(dt.length, dt.createCell, dt.updateCell)
	dt.table.CreateHeader = dt.createHeader
	dt.table.UpdateHeader = dt.updateHeader
	dt.table.OnSelected = func(id widget.TableCellID) {
		if dt.cellHandler != nil && id.Row >= 0 && id.Col >= 0 {
			dt.cellHandler(id.Row, id.Col)
		}
	}

	return dt
}

func (dt *DataTable) length() (int, int) {
	return dt.source.Dimensions()
}

func (dt *DataTable) createCell() fyne.CanvasObject {
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis
	return label
}

func (dt *DataTable) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	o.(*widget.Label).SetText(dt.source.Cell(id.Row, id.Col))
}

func (dt *DataTable) createHeader() fyne.CanvasObject {
	return widget.NewButton("", nil)
}

func (dt *DataTable) updateHeader(id widget.TableCellID, o fyne.CanvasObject) {
	button := o.(*widget.Button)

	switch {
	case id.Row < 0 && id.Col >= 0:
		col := id.Col
		button.SetText(dt.source.Header(col))
		if dt.source.IsColumnSelected(col) {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.OnTapped = func() {
			if dt.headerTapHandler != nil {
				dt.headerTapHandler(col)
			}
		}
	case id.Col < 0 && id.Row >= 0:
		button.SetText(strconv.Itoa(id.Row + 1))
		button.Importance = widget.LowImportance
		button.OnTapped = nil
	default:
		button.SetText("")
		button.OnTapped = nil
	}
	button.Refresh()
}

// SetHeaderTapHandler is called with the column index of a tapped header
func (dt *DataTable) SetHeaderTapHandler(handler func(col int)) {
	dt.headerTapHandler = handler
}

// SetCellHandler is called with the row and column of a tapped cell
func (dt *DataTable) SetCellHandler(handler func(row, col int)) {
	dt.cellHandler = handler
}

// Reload redraws every cell and header from the source
func (dt *DataTable) Reload() {
	dt.table.UnselectAll()
	dt.table.ScrollToTop()
	dt.table.Refresh()
}

func (dt *DataTable) Refresh() {
	dt.table.Refresh()
}

func (dt *DataTable) Widget() *widget.Table {
	return dt.table
}
