package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const noDocument = "No document loaded"

// StatusBar displays application status and document information
type StatusBar struct {
	container    *fyne.Container
	statusLabel  *widget.Label
	documentInfo *widget.Label
	dirtyLabel   *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.documentInfo = widget.NewLabel(noDocument)
	sb.dirtyLabel = widget.NewLabel("")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		layout.NewSpacer(),
		sb.documentInfo,
		widget.NewSeparator(),
		sb.dirtyLabel,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetDocumentInfo shows the file name and grid size
func (sb *StatusBar) SetDocumentInfo(name string, rows, cols int) {
	sb.documentInfo.SetText(fmt.Sprintf("%s: %d rows × %d columns", name, rows, cols))
}

func (sb *StatusBar) GetDocumentInfo() string {
	return sb.documentInfo.Text
}

// SetDirty shows or clears the unsaved-changes marker
func (sb *StatusBar) SetDirty(dirty bool) {
	if dirty {
		sb.dirtyLabel.SetText("Modified")
	} else {
		sb.dirtyLabel.SetText("")
	}
}

func (sb *StatusBar) GetDirty() string {
	return sb.dirtyLabel.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
