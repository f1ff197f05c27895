package controllers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"csvedit/internal/editor"
	"csvedit/internal/logger"
	"csvedit/internal/models"
	"csvedit/internal/views"
	"csvedit/internal/views/components"

	"fyne.io/fyne/v2"
)

const (
	component = "MainController"

	// PrefLastDirectory remembers where the last file dialog ended up
	PrefLastDirectory = "lastDirectory"

	defaultIOTimeout = 30 * time.Second
)

// MainController connects the editor session to the main view: it opens file
// dialogs, runs file operations off the UI goroutine and mirrors editor events
// into widgets.
type MainController struct {
	editor   *editor.Editor
	mainView *views.MainView
	prefs    fyne.Preferences
	logger   logger.Logger

	version   string
	ioTimeout time.Duration

	pending sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	quit    func()
}

// NewMainController creates a new main controller
func NewMainController(ed *editor.Editor, prefs fyne.Preferences, log logger.Logger) *MainController {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	mc := &MainController{
		editor:    ed,
		prefs:     prefs,
		logger:    log,
		version:   "dev",
		ioTimeout: defaultIOTimeout,
		ctx:       ctx,
		cancel:    cancel,
	}

	mc.initializeEditorHandlers()
	return mc
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view *views.MainView) {
	mc.mainView = view
	mc.setupViewEventHandlers()
}

// SetIOTimeout bounds each load, save, import or export
func (mc *MainController) SetIOTimeout(d time.Duration) {
	if d > 0 {
		mc.ioTimeout = d
	}
}

// SetVersion is shown in the About dialog
func (mc *MainController) SetVersion(version string) {
	mc.version = version
}

// SetQuitFunc replaces the action run once quitting is confirmed
func (mc *MainController) SetQuitFunc(quit func()) {
	mc.quit = quit
}

// OpenFile asks for a CSV file and loads it, confirming first when the
// current document has unsaved changes.
func (mc *MainController) OpenFile() {
	mc.confirmDiscard("Open File", func() {
		mc.mainView.ShowOpenDialog(views.CSVFile, mc.lastDirectory(), func(path string, err error) {
			if err != nil {
				mc.handleError("File selection failed", err)
				return
			}
			mc.OpenPath(path)
		})
	})
}

// OpenPath loads path in the background
func (mc *MainController) OpenPath(path string) {
	mc.runAsync("Loading "+filepath.Base(path)+"...", func(ctx context.Context) (string, error) {
		if err := mc.editor.Load(ctx, path); err != nil {
			return "", err
		}
		mc.rememberDirectory(path)
		return "Loaded " + filepath.Base(path), nil
	}, "Load failed")
}

// ImportWorkbook asks for an XLSX workbook and loads its first sheet
func (mc *MainController) ImportWorkbook() {
	mc.confirmDiscard("Import Workbook", func() {
		mc.mainView.ShowOpenDialog(views.XLSXFile, mc.lastDirectory(), func(path string, err error) {
			if err != nil {
				mc.handleError("File selection failed", err)
				return
			}
			mc.runAsync("Importing "+filepath.Base(path)+"...", func(ctx context.Context) (string, error) {
				if err := mc.editor.Import(ctx, path); err != nil {
					return "", err
				}
				mc.rememberDirectory(path)
				return "Imported " + filepath.Base(path), nil
			}, "Import failed")
		})
	})
}

// Save writes to the document's source, or asks for a path when it has none
func (mc *MainController) Save() {
	source := mc.editor.Info().Source
	if source == "" {
		mc.SaveAs()
		return
	}
	mc.SavePath(source)
}

// SaveAs always asks for the destination path
func (mc *MainController) SaveAs() {
	info := mc.editor.Info()
	name := ""
	if info.Source != "" {
		name = filepath.Base(info.Source)
	}

	mc.mainView.ShowSaveDialog(views.CSVFile, mc.lastDirectory(), name, func(path string, err error) {
		if err != nil {
			mc.handleError("File selection failed", err)
			return
		}
		mc.SavePath(path)
	})
}

// SavePath writes the document to path in the background
func (mc *MainController) SavePath(path string) {
	mc.runAsync("Saving "+filepath.Base(path)+"...", func(ctx context.Context) (string, error) {
		if err := mc.editor.Save(ctx, path); err != nil {
			return "", err
		}
		mc.rememberDirectory(path)
		return "Saved " + filepath.Base(path), nil
	}, "Save failed")
}

// ExportWorkbook asks for an XLSX destination and writes the document there
func (mc *MainController) ExportWorkbook() {
	mc.mainView.ShowSaveDialog(views.XLSXFile, mc.lastDirectory(), "", func(path string, err error) {
		if err != nil {
			mc.handleError("File selection failed", err)
			return
		}
		mc.runAsync("Exporting "+filepath.Base(path)+"...", func(ctx context.Context) (string, error) {
			if err := mc.editor.Export(ctx, path); err != nil {
				return "", err
			}
			mc.rememberDirectory(path)
			return "Exported " + filepath.Base(path), nil
		}, "Export failed")
	})
}

// ShowColumnLayout lists the columns of the loaded document
func (mc *MainController) ShowColumnLayout() {
	if !mc.editor.HasDocument() {
		return
	}
	mc.mainView.ShowColumnLayout(mc.editor.Headers())
}

// Plot handles the two-column plot actions. The first selected column is
// the x axis. Rendering is not implemented; the user is told how many
// numeric points the pair holds.
func (mc *MainController) Plot(kind components.PlotKind) {
	cols := mc.editor.SelectedColumns()
	if len(cols) != 2 {
		return
	}

	xs, err := mc.editor.Column(cols[0])
	if err != nil {
		mc.handleError("Plot failed", err)
		return
	}
	ys, err := mc.editor.Column(cols[1])
	if err != nil {
		mc.handleError("Plot failed", err)
		return
	}
	points := plotPoints(xs, ys)

	mc.logger.Info(component, "plot requested", map[string]interface{}{
		"kind":    string(kind),
		"columns": cols,
		"points":  points,
	})
	mc.mainView.ShowInfo(string(kind), fmt.Sprintf(
		"Plotting %q against %q (%d points) is not available.",
		mc.editor.Header(cols[1]), mc.editor.Header(cols[0]), points,
	))
}

// plotPoints counts the rows where both cells are numbers
func plotPoints(xs, ys []string) int {
	n := 0
	for i := 0; i < len(xs) && i < len(ys); i++ {
		if isNumber(xs[i]) && isNumber(ys[i]) {
			n++
		}
	}
	return n
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// ToggleColumn flips a column in or out of the selection
func (mc *MainController) ToggleColumn(col int) {
	mc.editor.ToggleColumn(col)
}

// SelectCell clears the column selection and loads the cell into the
// formula bar.
func (mc *MainController) SelectCell(row, col int) {
	mc.editor.ClearSelection()
	mc.mainView.SetActiveCell(row, col, mc.editor.Cell(row, col))
}

// SubmitCell applies the formula bar text to a cell
func (mc *MainController) SubmitCell(row, col int, text string) {
	if mc.editor.Cell(row, col) == text {
		return
	}

	err := mc.editor.EditCell(row, col, text)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrLoading):
		mc.mainView.UpdateStatus("Edit ignored while loading")
	default:
		mc.handleError("Edit failed", err)
	}
}

// RequestQuit quits, asking first when there are unsaved changes
func (mc *MainController) RequestQuit() {
	mc.confirmDiscard("Quit", func() {
		mc.logger.Info(component, "quit confirmed", nil)
		if mc.quit != nil {
			mc.quit()
		}
	})
}

// ShowAbout displays application information
func (mc *MainController) ShowAbout() {
	mc.mainView.ShowAboutDialog(mc.version, "A small editor for comma separated files.")
}

// confirmDiscard runs next immediately when the document is clean and
// otherwise after the user agrees to drop the edits.
func (mc *MainController) confirmDiscard(title string, next func()) {
	if !mc.editor.IsDirty() {
		next()
		return
	}

	mc.mainView.ShowConfirm(title, "The document has unsaved changes. Discard them?", func(confirmed bool) {
		if confirmed {
			next()
		}
	})
}

// runAsync runs op off the UI goroutine with the I/O timeout and reports the
// outcome in the status bar. Cancelled prompts are silent.
func (mc *MainController) runAsync(progress string, op func(ctx context.Context) (string, error), failure string) {
	mc.mainView.UpdateStatus(progress)

	mc.pending.Add(1)
	go func() {
		defer mc.pending.Done()

		ctx, cancel := context.WithTimeout(mc.ctx, mc.ioTimeout)
		defer cancel()

		done, err := op(ctx)

		fyne.Do(func() {
			switch {
			case err == nil:
				mc.mainView.UpdateStatus(done)
			case editor.IsCancelled(err):
				mc.mainView.UpdateStatus("Ready")
			default:
				mc.mainView.UpdateStatus(failure)
				mc.handleError(failure, err)
			}
		})
	}()
}

// Wait blocks until background file operations have finished
func (mc *MainController) Wait() {
	mc.pending.Wait()
}

func (mc *MainController) lastDirectory() string {
	if mc.prefs == nil {
		return ""
	}
	return mc.prefs.String(PrefLastDirectory)
}

func (mc *MainController) rememberDirectory(path string) {
	if mc.prefs == nil {
		return
	}
	mc.prefs.SetString(PrefLastDirectory, filepath.Dir(path))
}

// Event system methods

// initializeEditorHandlers mirrors editor events into the view
func (mc *MainController) initializeEditorHandlers() {
	mc.editor.OnDocumentLoaded(func(info editor.DocumentInfo) {
		mc.onView(func(v *views.MainView) {
			v.ShowDocument(info.Name, info.Rows, info.Columns)
			v.SetTitle(info.Name, info.Dirty)
			v.SetDirty(info.Dirty)
			v.SetPlotEnabled(false)
		})
	})

	mc.editor.OnDocumentSaved(func(info editor.DocumentInfo) {
		mc.onView(func(v *views.MainView) {
			v.SetDocumentInfo(info.Name, info.Rows, info.Columns)
			v.SetTitle(info.Name, info.Dirty)
		})
	})

	mc.editor.OnDirtyChanged(func(dirty bool) {
		name := mc.editor.Info().Name
		mc.onView(func(v *views.MainView) {
			v.SetDirty(dirty)
			v.SetTitle(name, dirty)
		})
	})

	mc.editor.OnSelectionChanged(func(change editor.SelectionChange) {
		mc.onView(func(v *views.MainView) {
			v.SetPlotEnabled(change.PlotEnabled)
			v.RefreshTable()
		})
	})

	mc.editor.OnCellEdited(func(edit editor.CellEdit) {
		mc.onView(func(v *views.MainView) {
			v.RefreshTable()
		})
	})
}

// setupViewEventHandlers connects view callbacks to controller methods
func (mc *MainController) setupViewEventHandlers() {
	if mc.mainView == nil {
		return
	}

	mc.mainView.SetOpenHandler(mc.OpenFile)
	mc.mainView.SetSaveHandler(mc.Save)
	mc.mainView.SetSaveAsHandler(mc.SaveAs)
	mc.mainView.SetImportHandler(mc.ImportWorkbook)
	mc.mainView.SetExportHandler(mc.ExportWorkbook)
	mc.mainView.SetQuitHandler(mc.RequestQuit)
	mc.mainView.SetColumnLayoutHandler(mc.ShowColumnLayout)
	mc.mainView.SetAboutHandler(mc.ShowAbout)
	mc.mainView.SetPlotHandler(mc.Plot)
	mc.mainView.SetHeaderTapHandler(mc.ToggleColumn)
	mc.mainView.SetCellSelectHandler(mc.SelectCell)
	mc.mainView.SetCellSubmitHandler(mc.SubmitCell)
}

func (mc *MainController) onView(update func(v *views.MainView)) {
	fyne.Do(func() {
		if mc.mainView != nil {
			update(mc.mainView)
		}
	})
}

// handleError logs the failure and shows it in an error dialog
func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error(component, err, map[string]interface{}{"title": title})

	mc.onView(func(v *views.MainView) {
		v.ShowError(title, err)
	})
}

// Shutdown cancels in-flight file operations and waits for them to return
func (mc *MainController) Shutdown() {
	mc.cancel()

	mc.pending.Wait()
	mc.logger.Info(component, "controller stopped", nil)
}
