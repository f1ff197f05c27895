package models

import "sort"

// Phase is the editor session phase. Edits are only accepted while Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
)

func (p Phase) String() string {
	if p == PhaseLoading {
		return "loading"
	}
	return "idle"
}

// SaveState tells whether the document has unsaved edits.
type SaveState int

const (
	Clean SaveState = iota
	Dirty
)

func (s SaveState) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// SelectionState is the set of fully selected columns.
type SelectionState struct {
	columns map[int]struct{}
}

func NewSelectionState() *SelectionState {
	return &SelectionState{columns: make(map[int]struct{})}
}

// Set replaces the selection. Negative indices and duplicates are dropped.
func (s *SelectionState) Set(cols []int) {
	s.columns = make(map[int]struct{}, len(cols))
	for _, c := range cols {
		if c >= 0 {
			s.columns[c] = struct{}{}
		}
	}
}

// Toggle adds col to the selection, or removes it when already selected.
func (s *SelectionState) Toggle(col int) {
	if col < 0 {
		return
	}
	if _, ok := s.columns[col]; ok {
		delete(s.columns, col)
		return
	}
	s.columns[col] = struct{}{}
}

func (s *SelectionState) Clear() {
	s.columns = make(map[int]struct{})
}

func (s *SelectionState) Contains(col int) bool {
	_, ok := s.columns[col]
	return ok
}

func (s *SelectionState) Len() int {
	return len(s.columns)
}

// Columns returns the selected indices in ascending order.
func (s *SelectionState) Columns() []int {
	out := make([]int, 0, len(s.columns))
	for c := range s.columns {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// PairSelected reports whether exactly two distinct columns are selected,
// the condition for two-column features such as plotting.
func (s *SelectionState) PairSelected() bool {
	return len(s.columns) == 2
}
