package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"csvedit/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	startTabTitle    = "Start Page"
	documentTabTitle = "Main Document"
)

// FileKind selects the extension filter and default name of a file dialog
type FileKind struct {
	Extension   string
	DefaultName string
}

var (
	CSVFile  = FileKind{Extension: ".csv", DefaultName: "untitled.csv"}
	XLSXFile = FileKind{Extension: ".xlsx", DefaultName: "untitled.xlsx"}
)

// MainView is the editor window: menus, toolbar, start page, document tab
// with formula bar and table, and status bar. Its methods touch widgets and
// must run on the Fyne UI goroutine; the controller marshals with fyne.Do.
type MainView struct {
	window  fyne.Window
	appName string

	mainContainer *fyne.Container
	tabs          *container.AppTabs
	startTab      *container.TabItem
	documentTab   *container.TabItem

	toolbar   *components.Toolbar
	statusBar *components.StatusBar
	table     *components.DataTable
	formula   *components.FormulaBar

	mainMenu         *fyne.MainMenu
	saveItem         *fyne.MenuItem
	saveAsItem       *fyne.MenuItem
	exportItem       *fyne.MenuItem
	columnLayoutItem *fyne.MenuItem
	plotItems        []*fyne.MenuItem

	openHandler         func()
	saveHandler         func()
	saveAsHandler       func()
	importHandler       func()
	exportHandler       func()
	quitHandler         func()
	columnLayoutHandler func()
	aboutHandler        func()
	plotHandler         func(components.PlotKind)
	headerTapHandler    func(col int)
	cellSelectHandler   func(row, col int)
	cellSubmitHandler   func(row, col int, text string)
}

// NewMainView builds the window content around source
func NewMainView(window fyne.Window, appName string, source components.TableSource) *MainView {
	view := &MainView{
		window:  window,
		appName: appName,
	}

	view.initializeComponents(source)
	view.buildLayout()
	view.buildMenus()
	view.setupEventHandlers()
	view.setupShortcuts()
	view.SetTitle("", false)

	return view
}

func (mv *MainView) initializeComponents(source components.TableSource) {
	mv.toolbar = components.NewToolbar()
	mv.statusBar = components.NewStatusBar()
	mv.table = components.NewDataTable(source)
	mv.formula = components.NewFormulaBar()
}

func (mv *MainView) buildLayout() {
	openButton := widget.NewButtonWithIcon("Open CSV", theme.FolderOpenIcon(), func() {
		if mv.openHandler != nil {
			mv.openHandler()
		}
	})
	openButton.Importance = widget.HighImportance

	startPage := container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle(mv.appName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Open a CSV file to start editing."),
		openButton,
	))
	mv.startTab = container.NewTabItemWithIcon(startTabTitle, theme.HomeIcon(), startPage)

	documentPage := container.NewBorder(mv.formula.GetContainer(), nil, nil, nil, mv.table.Widget())
	mv.documentTab = container.NewTabItemWithIcon(documentTabTitle, theme.GridIcon(), documentPage)

	mv.tabs = container.NewAppTabs(mv.startTab)

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.tabs,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) buildMenus() {
	call := func(h *func()) func() {
		return func() {
			if *h != nil {
				(*h)()
			}
		}
	}

	mv.saveItem = fyne.NewMenuItem("Save...", call(&mv.saveHandler))
	mv.saveItem.Disabled = true
	mv.saveAsItem = fyne.NewMenuItem("Save As...", call(&mv.saveAsHandler))
	mv.saveAsItem.Disabled = true
	mv.exportItem = fyne.NewMenuItem("Export XLSX...", call(&mv.exportHandler))
	mv.exportItem.Disabled = true

	quitItem := fyne.NewMenuItem("Quit", call(&mv.quitHandler))
	quitItem.IsQuit = true

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open...", call(&mv.openHandler)),
		fyne.NewMenuItemSeparator(),
		mv.saveItem,
		mv.saveAsItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import XLSX...", call(&mv.importHandler)),
		mv.exportItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	mv.columnLayoutItem = fyne.NewMenuItem("Column Layout...", call(&mv.columnLayoutHandler))
	mv.columnLayoutItem.Disabled = true
	viewMenu := fyne.NewMenu("View", mv.columnLayoutItem)

	plotMenu := fyne.NewMenu("Plot")
	for _, kind := range components.PlotKinds {
		item := fyne.NewMenuItem(string(kind), func() {
			if mv.plotHandler != nil {
				mv.plotHandler(kind)
			}
		})
		item.Disabled = true
		mv.plotItems = append(mv.plotItems, item)
		plotMenu.Items = append(plotMenu.Items, item)
	}

	helpMenu := fyne.NewMenu("Help", fyne.NewMenuItem("About", call(&mv.aboutHandler)))

	mv.mainMenu = fyne.NewMainMenu(fileMenu, viewMenu, plotMenu, helpMenu)
	mv.window.SetMainMenu(mv.mainMenu)
}

// setupEventHandlers connects internal component events
func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetOpenHandler(func() {
		if mv.openHandler != nil {
			mv.openHandler()
		}
	})
	mv.toolbar.SetSaveHandler(func() {
		if mv.saveHandler != nil {
			mv.saveHandler()
		}
	})
	mv.toolbar.SetPlotHandler(func(kind components.PlotKind) {
		if mv.plotHandler != nil {
			mv.plotHandler(kind)
		}
	})

	mv.table.SetHeaderTapHandler(func(col int) {
		if mv.headerTapHandler != nil {
			mv.headerTapHandler(col)
		}
	})
	mv.table.SetCellHandler(func(row, col int) {
		if mv.cellSelectHandler != nil {
			mv.cellSelectHandler(row, col)
		}
	})
	mv.formula.SetSubmitHandler(func(row, col int, text string) {
		if mv.cellSubmitHandler != nil {
			mv.cellSubmitHandler(row, col, text)
		}
	})
}

func (mv *MainView) setupShortcuts() {
	canvas := mv.window.Canvas()

	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		if mv.openHandler != nil {
			mv.openHandler()
		}
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		if mv.saveHandler != nil && !mv.saveItem.Disabled {
			mv.saveHandler()
		}
	})
}

// Event handler setters - called by controller

func (mv *MainView) SetOpenHandler(handler func())   { mv.openHandler = handler }
func (mv *MainView) SetSaveHandler(handler func())   { mv.saveHandler = handler }
func (mv *MainView) SetSaveAsHandler(handler func()) { mv.saveAsHandler = handler }
func (mv *MainView) SetImportHandler(handler func()) { mv.importHandler = handler }
func (mv *MainView) SetExportHandler(handler func()) { mv.exportHandler = handler }
func (mv *MainView) SetQuitHandler(handler func())   { mv.quitHandler = handler }
func (mv *MainView) SetAboutHandler(handler func())  { mv.aboutHandler = handler }

func (mv *MainView) SetColumnLayoutHandler(handler func()) {
	mv.columnLayoutHandler = handler
}

func (mv *MainView) SetPlotHandler(handler func(components.PlotKind)) {
	mv.plotHandler = handler
}

// SetHeaderTapHandler is called when a column header is tapped
func (mv *MainView) SetHeaderTapHandler(handler func(col int)) {
	mv.headerTapHandler = handler
}

// SetCellSelectHandler is called when a data cell is tapped
func (mv *MainView) SetCellSelectHandler(handler func(row, col int)) {
	mv.cellSelectHandler = handler
}

// SetCellSubmitHandler is called when the formula bar is submitted
func (mv *MainView) SetCellSubmitHandler(handler func(row, col int, text string)) {
	mv.cellSubmitHandler = handler
}

// UI update methods - called by controller

// ShowDocument swaps the start page for the document tab on first load and
// redraws the grid.
func (mv *MainView) ShowDocument(name string, rows, cols int) {
	if !mv.HasDocumentTab() {
		mv.tabs.Remove(mv.startTab)
		mv.tabs.Append(mv.documentTab)
	}
	mv.tabs.Select(mv.documentTab)

	mv.table.Reload()
	mv.formula.Clear()
	mv.statusBar.SetDocumentInfo(name, rows, cols)

	mv.saveAsItem.Disabled = false
	mv.exportItem.Disabled = false
	mv.columnLayoutItem.Disabled = false
	mv.mainMenu.Refresh()
}

// HasDocumentTab reports whether the start page has been replaced
func (mv *MainView) HasDocumentTab() bool {
	for _, item := range mv.tabs.Items {
		if item == mv.documentTab {
			return true
		}
	}
	return false
}

// SetDirty updates every control that follows the save state
func (mv *MainView) SetDirty(dirty bool) {
	mv.toolbar.SetSaveEnabled(dirty)
	mv.statusBar.SetDirty(dirty)
	mv.saveItem.Disabled = !dirty
	mv.mainMenu.Refresh()
}

// SetPlotEnabled updates every control that follows the two-column rule
func (mv *MainView) SetPlotEnabled(enabled bool) {
	mv.toolbar.SetPlotEnabled(enabled)
	for _, item := range mv.plotItems {
		item.Disabled = !enabled
	}
	mv.mainMenu.Refresh()
}

// RefreshTable redraws cells and header selection state
func (mv *MainView) RefreshTable() {
	mv.table.Refresh()
}

func (mv *MainView) SetActiveCell(row, col int, text string) {
	mv.formula.SetCell(row, col, text)
}

func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) SetDocumentInfo(name string, rows, cols int) {
	mv.statusBar.SetDocumentInfo(name, rows, cols)
}

// SetTitle shows the document name, with a trailing * when dirty
func (mv *MainView) SetTitle(name string, dirty bool) {
	title := mv.appName
	if name != "" {
		title = fmt.Sprintf("%s - %s", name, mv.appName)
		if dirty {
			title = fmt.Sprintf("%s* - %s", name, mv.appName)
		}
	}
	mv.window.SetTitle(title)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), mv.window)
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, mv.window)
}

// ShowOpenDialog asks for an existing file of the given kind. The callback
// receives an empty path when the dialog is dismissed.
func (mv *MainView) ShowOpenDialog(kind FileKind, location string, callback func(path string, err error)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			callback("", err)
			return
		}
		if reader == nil {
			callback("", nil)
			return
		}
		path := reader.URI().Path()
		reader.Close()
		callback(path, nil)
	}, mv.window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{kind.Extension}))
	setDialogLocation(fd, location)
	fd.Show()
}

// ShowSaveDialog asks for a destination file of the given kind. A missing
// extension is appended.
func (mv *MainView) ShowSaveDialog(kind FileKind, location, fileName string, callback func(path string, err error)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			callback("", err)
			return
		}
		if writer == nil {
			callback("", nil)
			return
		}
		path := writer.URI().Path()
		writer.Close()

		target := WithExtension(path, kind.Extension)
		if target != path {
			removePlaceholder(path)
		}
		callback(target, nil)
	}, mv.window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{kind.Extension}))
	if fileName == "" {
		fileName = kind.DefaultName
	}
	fd.SetFileName(WithExtension(fileName, kind.Extension))
	setDialogLocation(fd, location)
	fd.Show()
}

type locatable interface {
	SetLocation(fyne.ListableURI)
}

func setDialogLocation(fd locatable, location string) {
	if location == "" {
		return
	}
	if lister, err := storage.ListerForURI(storage.NewFileURI(location)); err == nil {
		fd.SetLocation(lister)
	}
}

// WithExtension appends ext to path unless it already ends with it
func WithExtension(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

// removePlaceholder deletes the empty file the save dialog created for a
// name typed without its extension. Files with content are left alone.
func removePlaceholder(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > 0 {
		return
	}
	_ = os.Remove(path)
}

// ShowColumnLayout lists the document's columns
func (mv *MainView) ShowColumnLayout(headers []string) {
	dialog.ShowCustom("Column Layout", "Close", components.NewColumnLayout(headers), mv.window)
}

// ShowAboutDialog displays application information
func (mv *MainView) ShowAboutDialog(version, description string) {
	content := container.NewVBox(
		widget.NewLabelWithStyle(mv.appName, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(fmt.Sprintf("Version: %s", version)),
		widget.NewLabel(""),
		widget.NewLabel(description),
	)

	dialog.ShowCustom("About", "Close", content, mv.window)
}

func (mv *MainView) Show() {
	mv.window.Show()
}

func (mv *MainView) Close() {
	mv.window.Close()
}

func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

func (mv *MainView) GetFormulaBar() *components.FormulaBar {
	return mv.formula
}

// MenuState reports which optional menu actions are enabled
type MenuState struct {
	Save         bool
	SaveAs       bool
	Export       bool
	ColumnLayout bool
	Plot         bool
}

func (mv *MainView) GetMenuState() MenuState {
	return MenuState{
		Save:         !mv.saveItem.Disabled,
		SaveAs:       !mv.saveAsItem.Disabled,
		Export:       !mv.exportItem.Disabled,
		ColumnLayout: !mv.columnLayoutItem.Disabled,
		Plot:         len(mv.plotItems) > 0 && !mv.plotItems[0].Disabled,
	}
}
