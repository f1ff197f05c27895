// Package editor holds the single-document editing session: the loaded
// document, its dirty flag, the column selection and the load phase.
// It has no UI dependency; presentation layers register handlers and call
// its operations.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"csvedit/internal/logger"
	"csvedit/internal/models"

	"github.com/google/uuid"
)

const component = "Editor"

// Transfer moves documents between the session and storage
type Transfer interface {
	Load(ctx context.Context, path string) (*models.TabularDocument, error)
	Save(ctx context.Context, path string, doc *models.TabularDocument) error
	Import(ctx context.Context, path string) (*models.TabularDocument, error)
	Export(ctx context.Context, path string, doc *models.TabularDocument) error
}

// CellEdit describes an applied cell change
type CellEdit struct {
	Row, Col int
	Old, New string
}

// SelectionChange describes the column selection after it changed
type SelectionChange struct {
	Columns     []int
	PlotEnabled bool
}

// DocumentInfo summarises the current document
type DocumentInfo struct {
	Name    string
	Source  string
	Rows    int
	Columns int
	Dirty   bool
}

// Editor is one editing session. All methods are safe for concurrent use;
// handlers run on the goroutine that triggered them, after internal locks
// are released.
type Editor struct {
	id       string
	transfer Transfer
	logger   logger.Logger

	mu        sync.RWMutex
	doc       *models.TabularDocument
	selection *models.SelectionState
	phase     models.Phase
	loaded    bool

	handlerMu        sync.RWMutex
	cellEdited       []func(CellEdit)
	selectionChanged []func(SelectionChange)
	dirtyChanged     []func(bool)
	documentLoaded   []func(DocumentInfo)
	documentSaved    []func(DocumentInfo)
}

// New creates an editor session with an empty document
func New(transfer Transfer, log logger.Logger) *Editor {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	id := uuid.NewString()

	return &Editor{
		id:        id,
		transfer:  transfer,
		logger:    log.With("session", id),
		doc:       models.NewEmptyDocument(),
		selection: models.NewSelectionState(),
		phase:     models.PhaseIdle,
	}
}

// SessionID identifies this session in logs
func (e *Editor) SessionID() string {
	return e.id
}

// Handler registration

func (e *Editor) OnCellEdited(h func(CellEdit)) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.cellEdited = append(e.cellEdited, h)
}

func (e *Editor) OnSelectionChanged(h func(SelectionChange)) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.selectionChanged = append(e.selectionChanged, h)
}

// OnDirtyChanged is called whenever the save state flips
func (e *Editor) OnDirtyChanged(h func(dirty bool)) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.dirtyChanged = append(e.dirtyChanged, h)
}

func (e *Editor) OnDocumentLoaded(h func(DocumentInfo)) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.documentLoaded = append(e.documentLoaded, h)
}

func (e *Editor) OnDocumentSaved(h func(DocumentInfo)) {
	e.handlerMu.Lock()
	defer e.handlerMu.Unlock()
	e.documentSaved = append(e.documentSaved, h)
}

// Load replaces the document with the CSV file at path. An empty path means
// the prompt was cancelled: nothing changes and ErrCancelled is returned.
// On failure the current document is kept.
func (e *Editor) Load(ctx context.Context, path string) error {
	if path == "" {
		return models.ErrCancelled
	}
	return e.load(ctx, "load", path, e.transfer.Load)
}

// Import replaces the document with the first sheet of an XLSX workbook.
func (e *Editor) Import(ctx context.Context, path string) error {
	if path == "" {
		return models.ErrCancelled
	}
	return e.load(ctx, "import", path, e.transfer.Import)
}

func (e *Editor) load(ctx context.Context, op, path string, read func(context.Context, string) (*models.TabularDocument, error)) error {
	e.mu.Lock()
	if e.phase == models.PhaseLoading {
		e.mu.Unlock()
		return models.ErrLoading
	}
	e.phase = models.PhaseLoading
	e.mu.Unlock()

	e.logger.Info(component, op+" started", map[string]interface{}{"path": path})

	doc, err := read(ctx, path)
	if err != nil {
		e.mu.Lock()
		e.phase = models.PhaseIdle
		e.mu.Unlock()

		e.logger.Error(component, err, map[string]interface{}{"op": op, "path": path})
		return err
	}

	doc.MarkClean()

	e.mu.Lock()
	wasDirty := e.doc.IsDirty()
	hadSelection := e.selection.Len() > 0
	e.doc = doc
	e.selection.Clear()
	e.loaded = true
	e.phase = models.PhaseIdle
	info := e.infoLocked()
	e.mu.Unlock()

	e.logger.Info(component, op+" finished", map[string]interface{}{
		"path":    path,
		"rows":    info.Rows,
		"columns": info.Columns,
	})

	e.emitLoaded(info)
	if wasDirty {
		e.emitDirty(false)
	}
	if hadSelection {
		e.emitSelection(SelectionChange{Columns: []int{}, PlotEnabled: false})
	}
	return nil
}

// Save writes the document to path. An empty path means the prompt was
// cancelled. On success the document becomes clean unless it was edited
// while the write was in flight, and path becomes its source.
func (e *Editor) Save(ctx context.Context, path string) error {
	if path == "" {
		return models.ErrCancelled
	}

	e.mu.RLock()
	if !e.loaded {
		e.mu.RUnlock()
		return models.ErrNoDocument
	}
	current := e.doc
	snapshot := e.doc.Clone()
	e.mu.RUnlock()

	if err := e.transfer.Save(ctx, path, snapshot); err != nil {
		e.logger.Error(component, err, map[string]interface{}{"op": "save", "path": path})
		return err
	}

	e.mu.Lock()
	if e.doc != current {
		// A load replaced the document while the write ran; the file on
		// disk belongs to the old document.
		e.mu.Unlock()
		e.logger.Warning(component, "document replaced during save", map[string]interface{}{"path": path})
		return nil
	}
	e.doc.SetSource(path)
	cleaned := false
	if e.doc.Revision() == snapshot.Revision() && e.doc.IsDirty() {
		e.doc.MarkClean()
		cleaned = true
	}
	info := e.infoLocked()
	e.mu.Unlock()

	e.logger.Info(component, "document saved", map[string]interface{}{
		"path": path,
		"rows": info.Rows,
	})

	e.emitSaved(info)
	if cleaned {
		e.emitDirty(false)
	}
	return nil
}

// Export writes the document to an XLSX workbook. The dirty flag is not
// affected.
func (e *Editor) Export(ctx context.Context, path string) error {
	if path == "" {
		return models.ErrCancelled
	}

	e.mu.RLock()
	if !e.loaded {
		e.mu.RUnlock()
		return models.ErrNoDocument
	}
	snapshot := e.doc.Clone()
	e.mu.RUnlock()

	if err := e.transfer.Export(ctx, path, snapshot); err != nil {
		e.logger.Error(component, err, map[string]interface{}{"op": "export", "path": path})
		return err
	}

	e.logger.Info(component, "document exported", map[string]interface{}{"path": path})
	return nil
}

// EditCell sets one cell. Edits arriving while a load is populating the
// document are dropped with ErrLoading.
func (e *Editor) EditCell(row, col int, value string) error {
	e.mu.Lock()
	if e.phase == models.PhaseLoading {
		e.mu.Unlock()
		e.logger.Debug(component, "edit ignored while loading", map[string]interface{}{"row": row, "col": col})
		return models.ErrLoading
	}
	if !e.loaded {
		e.mu.Unlock()
		return models.ErrNoDocument
	}

	wasDirty := e.doc.IsDirty()
	old, err := e.doc.SetCell(row, col, value)
	e.mu.Unlock()

	if err != nil {
		return err
	}

	e.logger.Debug(component, "cell edited", map[string]interface{}{
		"row": row,
		"col": col,
		"old": old,
		"new": value,
	})

	e.emitCellEdited(CellEdit{Row: row, Col: col, Old: old, New: value})
	if !wasDirty {
		e.emitDirty(true)
	}
	return nil
}

// SetSelectedColumns replaces the column selection. Indices outside the
// document are dropped.
func (e *Editor) SetSelectedColumns(cols []int) {
	e.mu.Lock()
	valid := make([]int, 0, len(cols))
	for _, c := range cols {
		if c >= 0 && c < e.doc.ColumnCount() {
			valid = append(valid, c)
		}
	}
	e.selection.Set(valid)
	change := e.selectionLocked()
	e.mu.Unlock()

	e.logSelection(change)
	e.emitSelection(change)
}

// ToggleColumn flips one column in or out of the selection
func (e *Editor) ToggleColumn(col int) {
	e.mu.Lock()
	if col < 0 || col >= e.doc.ColumnCount() {
		e.mu.Unlock()
		return
	}
	e.selection.Toggle(col)
	change := e.selectionLocked()
	e.mu.Unlock()

	e.logSelection(change)
	e.emitSelection(change)
}

// ClearSelection empties the column selection
func (e *Editor) ClearSelection() {
	e.SetSelectedColumns(nil)
}

// Queries

func (e *Editor) IsDirty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.IsDirty()
}

func (e *Editor) SaveState() models.SaveState {
	if e.IsDirty() {
		return models.Dirty
	}
	return models.Clean
}

func (e *Editor) Phase() models.Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// HasDocument reports whether a document has been loaded
func (e *Editor) HasDocument() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

func (e *Editor) SelectedColumns() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selection.Columns()
}

func (e *Editor) IsColumnSelected(col int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selection.Contains(col)
}

// PlotEnabled reports whether two-column features are available
func (e *Editor) PlotEnabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selection.PairSelected()
}

// Dimensions returns the row and column count
func (e *Editor) Dimensions() (rows, cols int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.RowCount(), e.doc.ColumnCount()
}

func (e *Editor) Header(col int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Header(col)
}

func (e *Editor) Headers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Headers()
}

func (e *Editor) Cell(row, col int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Cell(row, col)
}

// Rows returns a copy of the cell grid
func (e *Editor) Rows() [][]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Rows()
}

func (e *Editor) Info() DocumentInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.infoLocked()
}

// Column returns a copy of the cells of one column
func (e *Editor) Column(col int) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if col < 0 || col >= e.doc.ColumnCount() {
		return nil, fmt.Errorf("%w: column %d", models.ErrCellOutOfRange, col)
	}
	out := make([]string, e.doc.RowCount())
	for r := range out {
		out[r] = e.doc.Cell(r, col)
	}
	return out, nil
}

func (e *Editor) infoLocked() DocumentInfo {
	return DocumentInfo{
		Name:    e.doc.Name(),
		Source:  e.doc.Source(),
		Rows:    e.doc.RowCount(),
		Columns: e.doc.ColumnCount(),
		Dirty:   e.doc.IsDirty(),
	}
}

func (e *Editor) selectionLocked() SelectionChange {
	return SelectionChange{
		Columns:     e.selection.Columns(),
		PlotEnabled: e.selection.PairSelected(),
	}
}

func (e *Editor) logSelection(change SelectionChange) {
	e.logger.Debug(component, "selection changed", map[string]interface{}{
		"columns":      change.Columns,
		"plot_enabled": change.PlotEnabled,
	})
}

// IsCancelled reports whether err means the user dismissed a prompt
func IsCancelled(err error) bool {
	return errors.Is(err, models.ErrCancelled)
}

// Event emission

func (e *Editor) emitCellEdited(edit CellEdit) {
	e.handlerMu.RLock()
	handlers := append([]func(CellEdit){}, e.cellEdited...)
	e.handlerMu.RUnlock()
	for _, h := range handlers {
		h(edit)
	}
}

func (e *Editor) emitSelection(change SelectionChange) {
	e.handlerMu.RLock()
	handlers := append([]func(SelectionChange){}, e.selectionChanged...)
	e.handlerMu.RUnlock()
	for _, h := range handlers {
		h(change)
	}
}

func (e *Editor) emitDirty(dirty bool) {
	e.handlerMu.RLock()
	handlers := append([]func(bool){}, e.dirtyChanged...)
	e.handlerMu.RUnlock()
	for _, h := range handlers {
		h(dirty)
	}
}

func (e *Editor) emitLoaded(info DocumentInfo) {
	e.handlerMu.RLock()
	handlers := append([]func(DocumentInfo){}, e.documentLoaded...)
	e.handlerMu.RUnlock()
	for _, h := range handlers {
		h(info)
	}
}

func (e *Editor) emitSaved(info DocumentInfo) {
	e.handlerMu.RLock()
	handlers := append([]func(DocumentInfo){}, e.documentSaved...)
	e.handlerMu.RUnlock()
	for _, h := range handlers {
		h(info)
	}
}
