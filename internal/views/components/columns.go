package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ColumnLayoutRows formats one "index: header" line per column
func ColumnLayoutRows(headers []string) []string {
	lines := make([]string, len(headers))
	for i, h := range headers {
		if h == "" {
			h = "(unnamed)"
		}
		lines[i] = fmt.Sprintf("%d: %s", i, h)
	}
	return lines
}

// NewColumnLayout builds the read-only column listing shown in the column
// layout dialog.
func NewColumnLayout(headers []string) fyne.CanvasObject {
	lines := ColumnLayoutRows(headers)

	list := widget.NewList(
		func() int { return len(lines) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(lines[id])
		},
	)

	summary := widget.NewLabel(fmt.Sprintf("%d columns", len(headers)))
	scroll := container.NewVScroll(list)
	scroll.SetMinSize(fyne.NewSize(320, 240))

	return container.NewBorder(summary, nil, nil, nil, scroll)
}
