package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// FormulaBar edits the text of the active cell. Submitting the entry reports
// the new text for that cell.
type FormulaBar struct {
	container *fyne.Container
	cellLabel *widget.Label
	entry     *widget.Entry

	row, col      int
	active        bool
	submitHandler func(row, col int, text string)
}

func NewFormulaBar() *FormulaBar {
	fb := &FormulaBar{}

	fb.cellLabel = widget.NewLabel("")
	fb.entry = widget.NewEntry()
	fb.entry.SetPlaceHolder("Select a cell to edit")
	fb.entry.OnSubmitted = func(text string) {
		fb.submit(text)
	}
	fb.entry.Disable()

	fb.container = container.NewBorder(nil, nil, fb.cellLabel, nil, fb.entry)
	return fb
}

// SetCell makes (row, col) the active cell and shows its text
func (fb *FormulaBar) SetCell(row, col int, text string) {
	fb.row, fb.col, fb.active = row, col, true
	fb.cellLabel.SetText(fmt.Sprintf("R%dC%d", row+1, col+1))
	fb.entry.Enable()
	fb.entry.SetText(text)
}

// Clear deactivates the bar
func (fb *FormulaBar) Clear() {
	fb.active = false
	fb.cellLabel.SetText("")
	fb.entry.SetText("")
	fb.entry.Disable()
}

func (fb *FormulaBar) SetSubmitHandler(handler func(row, col int, text string)) {
	fb.submitHandler = handler
}

func (fb *FormulaBar) submit(text string) {
	if !fb.active || fb.submitHandler == nil {
		return
	}
	fb.submitHandler(fb.row, fb.col, text)
}

// ActiveCell returns the cell being edited
func (fb *FormulaBar) ActiveCell() (row, col int, ok bool) {
	return fb.row, fb.col, fb.active
}

func (fb *FormulaBar) Text() string {
	return fb.entry.Text
}

func (fb *FormulaBar) GetContainer() *fyne.Container {
	return fb.container
}
