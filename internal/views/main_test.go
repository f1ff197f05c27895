package views

import (
	"os"
	"path/filepath"
	"testing"

	"csvedit/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptySource struct{}

func (emptySource) Dimensions() (int, int)    { return 0, 0 }
func (emptySource) Header(int) string         { return "" }
func (emptySource) Cell(int, int) string      { return "" }
func (emptySource) IsColumnSelected(int) bool { return false }

func newTestView(t *testing.T) (*MainView, fyne.Window) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	w := a.NewWindow("")
	return NewMainView(w, "csvedit", emptySource{}), w
}

func TestMainView_StartsOnStartPage(t *testing.T) {
	view, w := newTestView(t)

	assert.False(t, view.HasDocumentTab())
	assert.Equal(t, "csvedit", w.Title())
	assert.Equal(t, MenuState{}, view.GetMenuState())
	assert.Equal(t, startTabTitle, view.tabs.Selected().Text)
}

func TestMainView_ShowDocumentReplacesStartPage(t *testing.T) {
	view, _ := newTestView(t)

	view.ShowDocument("data.csv", 2, 3)
	view.ShowDocument("other.csv", 1, 1)

	assert.True(t, view.HasDocumentTab())
	assert.Len(t, view.tabs.Items, 1)
	assert.Equal(t, documentTabTitle, view.tabs.Selected().Text)
	assert.Equal(t, "other.csv: 1 rows × 1 columns", view.GetStatusBar().GetDocumentInfo())

	menus := view.GetMenuState()
	assert.True(t, menus.SaveAs)
	assert.True(t, menus.Export)
	assert.True(t, menus.ColumnLayout)
	assert.False(t, menus.Save)
}

func TestMainView_DirtyAndPlotState(t *testing.T) {
	view, w := newTestView(t)

	view.SetDirty(true)
	view.SetTitle("data.csv", true)
	assert.True(t, view.GetMenuState().Save)
	assert.True(t, view.GetToolbar().SaveEnabled())
	assert.Equal(t, "data.csv* - csvedit", w.Title())

	view.SetDirty(false)
	assert.False(t, view.GetMenuState().Save)

	view.SetPlotEnabled(true)
	assert.True(t, view.GetMenuState().Plot)
	assert.True(t, view.GetToolbar().PlotEnabled())
}

func TestMainView_HandlersReachController(t *testing.T) {
	view, _ := newTestView(t)

	var opened int
	var plotted components.PlotKind
	view.SetOpenHandler(func() { opened++ })
	view.SetPlotHandler(func(k components.PlotKind) { plotted = k })

	test.Tap(view.GetToolbar().GetContainer().Objects[0].(fyne.Tappable))
	view.mainMenu.Items[0].Items[0].Action()
	view.plotItems[1].Action()

	assert.Equal(t, 2, opened)
	assert.Equal(t, components.PlotScatterLines, plotted)
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"/tmp/data", ".csv", "/tmp/data.csv"},
		{"/tmp/data.csv", ".csv", "/tmp/data.csv"},
		{"/tmp/DATA.CSV", ".csv", "/tmp/DATA.CSV"},
		{"/tmp/book.csv", ".xlsx", "/tmp/book.csv.xlsx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WithExtension(tt.path, tt.ext))
	}
}

func TestRemovePlaceholder(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "notes")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	removePlaceholder(empty)
	assert.NoFileExists(t, empty)

	kept := filepath.Join(dir, "readme")
	require.NoError(t, os.WriteFile(kept, []byte("keep"), 0o644))
	removePlaceholder(kept)
	assert.FileExists(t, kept)

	removePlaceholder(filepath.Join(dir, "missing"))
}
