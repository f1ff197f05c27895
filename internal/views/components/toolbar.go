package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// PlotKind names one of the two-column plot actions
type PlotKind string

const (
	PlotScatter      PlotKind = "Scatter Points"
	PlotScatterLines PlotKind = "Scatter Points + Lines"
	PlotLines        PlotKind = "Lines"
)

// PlotKinds lists the plot actions in menu order
var PlotKinds = []PlotKind{PlotScatter, PlotScatterLines, PlotLines}

// Toolbar represents the main application toolbar
type Toolbar struct {
	container   *fyne.Container
	openButton  *widget.Button
	saveButton  *widget.Button
	plotButtons map[PlotKind]*widget.Button

	openHandler func()
	saveHandler func()
	plotHandler func(PlotKind)
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{plotButtons: make(map[PlotKind]*widget.Button)}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), func() {
		if t.openHandler != nil {
			t.openHandler()
		}
	})
	t.openButton.Importance = widget.HighImportance

	t.saveButton = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	})
	t.saveButton.Disable()

	for _, kind := range PlotKinds {
		button := widget.NewButton(string(kind), func() {
			if t.plotHandler != nil {
				t.plotHandler(kind)
			}
		})
		button.Disable()
		t.plotButtons[kind] = button
	}
}

func (t *Toolbar) buildLayout() {
	plots := container.NewHBox()
	for _, kind := range PlotKinds {
		plots.Add(t.plotButtons[kind])
	}

	t.container = container.NewHBox(
		t.openButton,
		t.saveButton,
		widget.NewSeparator(),
		plots,
	)
}

func (t *Toolbar) SetOpenHandler(handler func()) {
	t.openHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetPlotHandler(handler func(PlotKind)) {
	t.plotHandler = handler
}

// SetSaveEnabled follows the document's save state
func (t *Toolbar) SetSaveEnabled(enabled bool) {
	setEnabled(t.saveButton, enabled)
}

// SetPlotEnabled follows the two-column selection rule
func (t *Toolbar) SetPlotEnabled(enabled bool) {
	for _, button := range t.plotButtons {
		setEnabled(button, enabled)
	}
}

func (t *Toolbar) SaveEnabled() bool {
	return !t.saveButton.Disabled()
}

func (t *Toolbar) PlotEnabled() bool {
	return !t.plotButtons[PlotScatter].Disabled()
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
