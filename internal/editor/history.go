package editor

import (
	"slices"

	"github.com/funnelforge/api/internal/element"
)

// History is a linear undo/redo log of element-sequence snapshots with a
// cursor at the currently displayed one. It lives for one editing session and
// is never persisted.
type History struct {
	snapshots [][]element.Element
	cursor    int
}

func NewHistory(initial []element.Element) *History {
	return &History{
		snapshots: [][]element.Element{slices.Clone(initial)},
		cursor:    0,
	}
}

// Commit truncates everything past the cursor, appends the snapshot and moves
// the cursor to it. A commit after an undo makes redo unavailable.
func (h *History) Commit(snapshot []element.Element) {
	h.snapshots = append(h.snapshots[:h.cursor+1], slices.Clone(snapshot))
	h.cursor = len(h.snapshots) - 1
}

// Undo steps the cursor back and returns that snapshot. At the start it is a
// no-op and returns ok=false.
func (h *History) Undo() ([]element.Element, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return slices.Clone(h.snapshots[h.cursor]), true
}

// Redo steps the cursor forward and returns that snapshot. At the end it is a
// no-op and returns ok=false.
func (h *History) Redo() ([]element.Element, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return nil, false
	}
	h.cursor++
	return slices.Clone(h.snapshots[h.cursor]), true
}

// Current returns the snapshot under the cursor.
func (h *History) Current() []element.Element {
	return slices.Clone(h.snapshots[h.cursor])
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }
func (h *History) Len() int      { return len(h.snapshots) }
