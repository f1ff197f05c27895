// Package tui is a terminal front end over the editor session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"csvedit/internal/editor"
	"csvedit/internal/models"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	cellWidth     = 14
	chromeLines   = 5
	defaultWidth  = 80
	defaultHeight = 24
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#90EE90"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D3D3D3"))
	dirtyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB6C1"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD5C5C"))
)

type loadedMsg struct{ err error }

type savedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model for the terminal editor
type Model struct {
	editor  *editor.Editor
	path    string
	timeout time.Duration

	keys  keyMap
	help  help.Model
	input textinput.Model

	row, col             int
	rowOffset, colOffset int
	width, height        int

	editing     bool
	confirmQuit bool
	status      string
	failed      bool
}

// New creates a terminal model that loads path on start when it is not empty
func New(ed *editor.Editor, path string, timeout time.Duration) Model {
	input := textinput.New()
	input.Prompt = "> "

	return Model{
		editor:  ed,
		path:    path,
		timeout: timeout,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   input,
		width:   defaultWidth,
		height:  defaultHeight,
		status:  "Ready",
	}
}

// Run starts the program on the terminal and blocks until it exits
func Run(ed *editor.Editor, path string, timeout time.Duration) error {
	_, err := tea.NewProgram(New(ed, path, timeout), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.path == "" {
		return nil
	}
	return m.loadCmd(m.path)
}

func (m Model) loadCmd(path string) tea.Cmd {
	ed, timeout := m.editor, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{err: ed.Load(ctx, path)}
	}
}

func (m Model) saveCmd(path string) tea.Cmd {
	ed, timeout := m.editor, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return savedMsg{path: path, err: ed.Save(ctx, path)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.setError("Load failed", msg.err)
			return m, nil
		}
		m.row, m.col, m.rowOffset, m.colOffset = 0, 0, 0, 0
		m.setStatus("Loaded " + m.editor.Info().Name)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError("Save failed", msg.err)
			return m, nil
		}
		m.setStatus("Saved " + m.editor.Info().Name)
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.editing:
			return m.updateEditing(msg)
		case m.confirmQuit:
			if msg.String() == "y" {
				return m, tea.Quit
			}
			m.confirmQuit = false
			m.setStatus("Quit cancelled")
			return m, nil
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows, cols := m.editor.Dimensions()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.editor.IsDirty() {
			m.confirmQuit = true
			m.setStatus("Unsaved changes. Quit anyway? (y/n)")
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < rows-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < cols-1 {
			m.col++
		}

	case key.Matches(msg, m.keys.Edit):
		if rows == 0 || cols == 0 {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(m.editor.Cell(m.row, m.col))
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Select):
		if cols > 0 {
			m.editor.ToggleColumn(m.col)
		}

	case key.Matches(msg, m.keys.Save):
		source := m.editor.Info().Source
		if source == "" {
			m.setError("Save failed", models.ErrNoDocument)
			return m, nil
		}
		m.setStatus("Saving...")
		return m, m.saveCmd(source)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.scrollToCursor()
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		m.setStatus("Edit cancelled")
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		m.editing = false
		m.input.Blur()
		value := m.input.Value()
		if value == m.editor.Cell(m.row, m.col) {
			return m, nil
		}
		if err := m.editor.EditCell(m.row, m.col, value); err != nil {
			m.setError("Edit failed", err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Edited R%dC%d", m.row+1, m.col+1))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setStatus(status string) {
	m.status = status
	m.failed = false
}

func (m *Model) setError(title string, err error) {
	if errors.Is(err, models.ErrCancelled) {
		return
	}
	m.status = fmt.Sprintf("%s: %v", title, err)
	m.failed = true
}

func (m Model) visibleRows() int {
	return max(m.height-chromeLines, 1)
}

func (m Model) visibleCols() int {
	// leave room for the row number gutter
	return max((m.width-6)/(cellWidth+1), 1)
}

func (m *Model) scrollToCursor() {
	if m.row < m.rowOffset {
		m.rowOffset = m.row
	}
	if n := m.visibleRows(); m.row >= m.rowOffset+n {
		m.rowOffset = m.row - n + 1
	}
	if m.col < m.colOffset {
		m.colOffset = m.col
	}
	if n := m.visibleCols(); m.col >= m.colOffset+n {
		m.colOffset = m.col - n + 1
	}
}

func (m Model) View() string {
	var b strings.Builder
	rows, cols := m.editor.Dimensions()

	if cols == 0 {
		b.WriteString("No document loaded.\n")
	} else {
		lastCol := min(cols, m.colOffset+m.visibleCols())
		lastRow := min(rows, m.rowOffset+m.visibleRows())

		b.WriteString(fmt.Sprintf("%5s ", ""))
		for c := m.colOffset; c < lastCol; c++ {
			style := headerStyle
			if m.editor.IsColumnSelected(c) {
				style = selectedStyle
			}
			b.WriteString(style.Render(fit(m.editor.Header(c))) + " ")
		}
		b.WriteString("\n")

		for r := m.rowOffset; r < lastRow; r++ {
			b.WriteString(fmt.Sprintf("%5d ", r+1))
			for c := m.colOffset; c < lastCol; c++ {
				text := fit(m.editor.Cell(r, c))
				if r == m.row && c == m.col {
					text = cursorStyle.Render(text)
				}
				b.WriteString(text + " ")
			}
			b.WriteString("\n")
		}
	}

	if m.editing {
		b.WriteString(m.input.View() + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine(rows, cols) + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine(rows, cols int) string {
	info := m.editor.Info()
	name := info.Name
	if info.Dirty {
		name = dirtyStyle.Render(name + "*")
	}

	plot := "off"
	if m.editor.PlotEnabled() {
		plot = "on"
	}

	status := m.status
	if m.failed {
		status = errorStyle.Render(status)
	}

	return statusStyle.Render(fmt.Sprintf("%s | %d×%d | plot %s | ", name, rows, cols, plot)) + status
}

// fit pads or truncates s to the cell width
func fit(s string) string {
	s = strings.ReplaceAll(s, "\n", "⏎")
	r := []rune(s)
	if len(r) > cellWidth {
		return string(r[:cellWidth-1]) + "…"
	}
	return s + strings.Repeat(" ", cellWidth-len(r))
}

// Status returns the message shown in the status line
func (m Model) Status() string {
	return m.status
}

// Cursor returns the active cell
func (m Model) Cursor() (row, col int) {
	return m.row, m.col
}

// Editing reports whether the cell editor is open
func (m Model) Editing() bool {
	return m.editing
}
