package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"csvedit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransfer struct {
	mu      sync.Mutex
	docs    map[string]*models.TabularDocument
	saved   map[string]*models.TabularDocument
	loadErr error
	saveErr error

	// when set, Load signals entered and waits on release
	entered chan struct{}
	release chan struct{}
	// when set, Save waits on release before returning
	saveRelease chan struct{}
	saveEntered chan struct{}
}

func newFakeTransfer() *fakeTransfer {
	return &fakeTransfer{
		docs:  make(map[string]*models.TabularDocument),
		saved: make(map[string]*models.TabularDocument),
	}
}

func (f *fakeTransfer) Load(ctx context.Context, path string) (*models.TabularDocument, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[path]
	if !ok {
		return nil, models.NewIOError("open", path, errors.New("not found"))
	}
	return doc.Clone(), nil
}

func (f *fakeTransfer) Save(ctx context.Context, path string, doc *models.TabularDocument) error {
	if f.saveEntered != nil {
		f.saveEntered <- struct{}{}
		<-f.saveRelease
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[path] = doc.Clone()
	return nil
}

func (f *fakeTransfer) Import(ctx context.Context, path string) (*models.TabularDocument, error) {
	doc, err := f.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	doc.SetSource("")
	return doc, nil
}

func (f *fakeTransfer) Export(ctx context.Context, path string, doc *models.TabularDocument) error {
	return f.Save(ctx, path, doc)
}

func sample() *models.TabularDocument {
	return models.NewDocument(
		[]string{"a", "b", "c"},
		[][]string{{"1", "2", "3"}, {"4", "5", "6"}},
		"/data/sample.csv",
	)
}

func loadedEditor(t *testing.T) (*Editor, *fakeTransfer) {
	t.Helper()
	ft := newFakeTransfer()
	ft.docs["/data/sample.csv"] = sample()
	ed := New(ft, nil)
	require.NoError(t, ed.Load(context.Background(), "/data/sample.csv"))
	return ed, ft
}

func TestNew_StartsEmptyAndClean(t *testing.T) {
	ed := New(newFakeTransfer(), nil)

	rows, cols := ed.Dimensions()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.False(t, ed.IsDirty())
	assert.False(t, ed.HasDocument())
	assert.Equal(t, models.PhaseIdle, ed.Phase())
	assert.NotEmpty(t, ed.SessionID())
}

func TestLoad_ReplacesDocument(t *testing.T) {
	ed, _ := loadedEditor(t)

	assert.Equal(t, []string{"a", "b", "c"}, ed.Headers())
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, ed.Rows())
	assert.False(t, ed.IsDirty())
	assert.True(t, ed.HasDocument())
	assert.Equal(t, "sample.csv", ed.Info().Name)
}

func TestDirtyLifecycle(t *testing.T) {
	ed, ft := loadedEditor(t)
	var transitions []bool
	ed.OnDirtyChanged(func(dirty bool) { transitions = append(transitions, dirty) })

	require.NoError(t, ed.EditCell(0, 1, "9"))
	assert.True(t, ed.IsDirty())
	assert.Equal(t, models.Dirty, ed.SaveState())

	require.NoError(t, ed.EditCell(1, 1, "8"))
	assert.True(t, ed.IsDirty())

	require.NoError(t, ed.Save(context.Background(), "/data/out.csv"))
	assert.False(t, ed.IsDirty())
	assert.Equal(t, models.Clean, ed.SaveState())
	assert.Equal(t, "/data/out.csv", ed.Info().Source)

	assert.Equal(t, []bool{true, false}, transitions)
	assert.Equal(t, "9", ft.saved["/data/out.csv"].Cell(0, 1))
}

func TestLoad_ResetsDirtyAndSelection(t *testing.T) {
	ed, _ := loadedEditor(t)
	require.NoError(t, ed.EditCell(0, 0, "x"))
	ed.SetSelectedColumns([]int{0, 2})

	var selections []SelectionChange
	var dirty []bool
	ed.OnSelectionChanged(func(c SelectionChange) { selections = append(selections, c) })
	ed.OnDirtyChanged(func(d bool) { dirty = append(dirty, d) })

	require.NoError(t, ed.Load(context.Background(), "/data/sample.csv"))

	assert.False(t, ed.IsDirty())
	assert.Empty(t, ed.SelectedColumns())
	assert.Equal(t, "1", ed.Cell(0, 0))
	assert.Equal(t, []bool{false}, dirty)
	require.Len(t, selections, 1)
	assert.False(t, selections[0].PlotEnabled)
}

func TestLoad_CancelledLeavesStateUnchanged(t *testing.T) {
	ed, _ := loadedEditor(t)
	require.NoError(t, ed.EditCell(0, 0, "x"))

	err := ed.Load(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrCancelled)
	assert.True(t, IsCancelled(err))

	assert.True(t, ed.IsDirty())
	assert.Equal(t, "x", ed.Cell(0, 0))
}

func TestLoad_FailureKeepsPriorDocument(t *testing.T) {
	ed, ft := loadedEditor(t)
	require.NoError(t, ed.EditCell(0, 0, "x"))

	ft.loadErr = models.NewIOError("open", "/data/missing.csv", errors.New("no such file"))
	err := ed.Load(context.Background(), "/data/missing.csv")

	var ioErr *models.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
	assert.Equal(t, "x", ed.Cell(0, 0))
	assert.True(t, ed.IsDirty())
	assert.Equal(t, models.PhaseIdle, ed.Phase())
}

func TestEditCell_IgnoredWhileLoading(t *testing.T) {
	ed, ft := loadedEditor(t)
	ft.entered = make(chan struct{})
	ft.release = make(chan struct{})

	done := make(chan error)
	go func() {
		done <- ed.Load(context.Background(), "/data/sample.csv")
	}()

	<-ft.entered
	assert.Equal(t, models.PhaseLoading, ed.Phase())
	assert.ErrorIs(t, ed.EditCell(0, 0, "x"), models.ErrLoading)
	assert.ErrorIs(t, ed.Load(context.Background(), "/data/sample.csv"), models.ErrLoading)
	close(ft.release)

	require.NoError(t, <-done)
	assert.False(t, ed.IsDirty())
	assert.Equal(t, "1", ed.Cell(0, 0))
	assert.Equal(t, models.PhaseIdle, ed.Phase())
}

func TestEditCell_Errors(t *testing.T) {
	ed := New(newFakeTransfer(), nil)
	assert.ErrorIs(t, ed.EditCell(0, 0, "x"), models.ErrNoDocument)

	ed, _ = loadedEditor(t)
	assert.ErrorIs(t, ed.EditCell(5, 0, "x"), models.ErrCellOutOfRange)
	assert.ErrorIs(t, ed.EditCell(0, -1, "x"), models.ErrCellOutOfRange)
	assert.False(t, ed.IsDirty())
}

func TestEditCell_NotifiesObservers(t *testing.T) {
	ed, _ := loadedEditor(t)
	var edits []CellEdit
	ed.OnCellEdited(func(e CellEdit) { edits = append(edits, e) })

	require.NoError(t, ed.EditCell(1, 2, "z"))

	assert.Equal(t, []CellEdit{{Row: 1, Col: 2, Old: "6", New: "z"}}, edits)
}

func TestPlotEnabled_ExactlyTwoColumns(t *testing.T) {
	ed := New(newFakeTransfer(), nil)
	ft := ed.transfer.(*fakeTransfer)
	ft.docs["wide.csv"] = models.NewDocument([]string{"a", "b", "c", "d"}, nil, "wide.csv")
	require.NoError(t, ed.Load(context.Background(), "wide.csv"))

	tests := []struct {
		name    string
		columns []int
		want    bool
	}{
		{"none", nil, false},
		{"one", []int{1}, false},
		{"two", []int{0, 3}, true},
		{"duplicates count once", []int{2, 2}, false},
		{"three", []int{0, 1, 2}, false},
		{"out of range dropped", []int{0, 9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SelectionChange
			ed.OnSelectionChanged(func(c SelectionChange) { got = c })

			ed.SetSelectedColumns(tt.columns)

			assert.Equal(t, tt.want, ed.PlotEnabled())
			assert.Equal(t, tt.want, got.PlotEnabled)
		})
	}
}

func TestToggleColumn(t *testing.T) {
	ed, _ := loadedEditor(t)

	ed.ToggleColumn(2)
	ed.ToggleColumn(0)
	assert.Equal(t, []int{0, 2}, ed.SelectedColumns())
	assert.True(t, ed.PlotEnabled())
	assert.True(t, ed.IsColumnSelected(2))

	ed.ToggleColumn(2)
	assert.Equal(t, []int{0}, ed.SelectedColumns())
	assert.False(t, ed.PlotEnabled())

	ed.ToggleColumn(7)
	assert.Equal(t, []int{0}, ed.SelectedColumns())

	ed.ClearSelection()
	assert.Empty(t, ed.SelectedColumns())
}

func TestSave_Errors(t *testing.T) {
	ed := New(newFakeTransfer(), nil)
	assert.ErrorIs(t, ed.Save(context.Background(), "/x.csv"), models.ErrNoDocument)

	ed, ft := loadedEditor(t)
	require.NoError(t, ed.EditCell(0, 0, "x"))

	assert.ErrorIs(t, ed.Save(context.Background(), ""), models.ErrCancelled)
	assert.True(t, ed.IsDirty())

	ft.saveErr = models.NewIOError("rename", "/x.csv", errors.New("denied"))
	err := ed.Save(context.Background(), "/x.csv")
	var ioErr *models.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, ed.IsDirty())
	assert.Equal(t, "/data/sample.csv", ed.Info().Source)
}

func TestSave_EditDuringWriteStaysDirty(t *testing.T) {
	ed, ft := loadedEditor(t)
	require.NoError(t, ed.EditCell(0, 0, "x"))

	ft.saveEntered = make(chan struct{})
	ft.saveRelease = make(chan struct{})

	done := make(chan error)
	go func() {
		done <- ed.Save(context.Background(), "/data/out.csv")
	}()

	<-ft.saveEntered
	require.NoError(t, ed.EditCell(0, 1, "y"))
	close(ft.saveRelease)

	require.NoError(t, <-done)
	assert.True(t, ed.IsDirty())
	assert.Equal(t, "2", ft.saved["/data/out.csv"].Cell(0, 1))
}

func TestSave_LoadDuringWriteKeepsNewDocument(t *testing.T) {
	ed, ft := loadedEditor(t)
	require.NoError(t, ed.EditCell(0, 0, "x"))
	ft.docs["/data/other.csv"] = models.NewDocument([]string{"b"}, [][]string{{"7"}}, "/data/other.csv")

	var saved []DocumentInfo
	ed.OnDocumentSaved(func(info DocumentInfo) { saved = append(saved, info) })

	ft.saveEntered = make(chan struct{})
	ft.saveRelease = make(chan struct{})

	done := make(chan error)
	go func() {
		done <- ed.Save(context.Background(), "/data/out.csv")
	}()

	<-ft.saveEntered
	require.NoError(t, ed.Load(context.Background(), "/data/other.csv"))
	close(ft.saveRelease)

	require.NoError(t, <-done)
	assert.Equal(t, []string{"b"}, ed.Headers())
	assert.Equal(t, "/data/other.csv", ed.Info().Source)
	assert.False(t, ed.IsDirty())
	assert.Empty(t, saved)
	assert.Equal(t, "x", ft.saved["/data/out.csv"].Cell(0, 0))
}

func TestSave_NotifiesSaved(t *testing.T) {
	ed, _ := loadedEditor(t)
	var saved []DocumentInfo
	ed.OnDocumentSaved(func(info DocumentInfo) { saved = append(saved, info) })

	require.NoError(t, ed.Save(context.Background(), "/data/copy.csv"))

	require.Len(t, saved, 1)
	assert.Equal(t, "copy.csv", saved[0].Name)
	assert.False(t, saved[0].Dirty)
}

func TestImportExport(t *testing.T) {
	ft := newFakeTransfer()
	ft.docs["/data/book.xlsx"] = sample()
	ed := New(ft, nil)

	var loaded []DocumentInfo
	ed.OnDocumentLoaded(func(info DocumentInfo) { loaded = append(loaded, info) })

	require.NoError(t, ed.Import(context.Background(), "/data/book.xlsx"))
	require.Len(t, loaded, 1)
	assert.Empty(t, loaded[0].Source)
	assert.Equal(t, "Untitled", loaded[0].Name)

	require.NoError(t, ed.EditCell(0, 0, "x"))
	require.NoError(t, ed.Export(context.Background(), "/data/out.xlsx"))
	assert.True(t, ed.IsDirty())
	assert.Equal(t, "x", ft.saved["/data/out.xlsx"].Cell(0, 0))

	assert.ErrorIs(t, ed.Import(context.Background(), ""), models.ErrCancelled)
	assert.ErrorIs(t, ed.Export(context.Background(), ""), models.ErrCancelled)
}

func TestColumn(t *testing.T) {
	ed, _ := loadedEditor(t)

	col, err := ed.Column(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "5"}, col)

	_, err = ed.Column(3)
	assert.ErrorIs(t, err, models.ErrCellOutOfRange)
}
