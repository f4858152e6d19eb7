// Package editor owns the editing semantics of one funnel document session:
// selection, structural operations, staged content edits and undo/redo.
// It is UI-agnostic; the shell drives it and re-renders from Document().
package editor

import (
	"errors"

	"github.com/funnelforge/api/internal/document"
	"github.com/funnelforge/api/internal/element"
)

var ErrNoOpenEdit = errors.New("no content edit in progress")

// Session wraps a document with selection state, a two-phase content-edit
// buffer and a history stack. Structural operations commit to history
// immediately; content edits commit when the edit is closed (CommitEdit,
// selection change, or save) so the undo stack stays one entry per logical
// edit rather than one per keystroke.
type Session struct {
	doc      document.Document
	selected string
	editing  string // id with an open content edit, "" if none
	dirty    bool
	history  *History
}

func NewSession(doc document.Document) *Session {
	return &Session{
		doc:     doc,
		history: NewHistory(doc.CloneElements()),
	}
}

func (s *Session) Document() document.Document { return s.doc }

func (s *Session) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

func (s *Session) History() *History { return s.history }

// Select moves the selection, committing any open content edit first.
func (s *Session) Select(id string) {
	s.CommitEdit()
	s.selected = id
}

func (s *Session) Deselect() {
	s.CommitEdit()
	s.selected = ""
}

// AddElement builds a default element of the given type, inserts it after the
// current selection (or appends when nothing is selected), selects it and
// commits.
func (s *Session) AddElement(t element.Type) (element.Element, error) {
	s.CommitEdit()

	el, err := element.NewDefault(t)
	if err != nil {
		return element.Element{}, err
	}

	pos := len(s.doc.Elements)
	if s.selected != "" {
		if i := s.doc.IndexOf(s.selected); i >= 0 {
			pos = i + 1
		}
	}

	doc, err := s.doc.InsertAt(pos, el)
	if err != nil {
		return element.Element{}, err
	}

	s.doc = doc
	s.selected = el.ID
	s.commit()
	return el, nil
}

// DuplicateElement clones the source with fresh ids, inserts the copy right
// after it, selects it and commits.
func (s *Session) DuplicateElement(id string) (element.Element, error) {
	s.CommitEdit()

	src, ok := s.doc.FindElement(id)
	if !ok {
		return element.Element{}, document.ErrElementNotFound
	}

	dup := src.Clone()
	doc, err := s.doc.InsertAt(s.doc.IndexOf(id)+1, dup)
	if err != nil {
		return element.Element{}, err
	}

	s.doc = doc
	s.selected = dup.ID
	s.commit()
	return dup, nil
}

// DeleteElement removes the element and commits. Deleting an absent id is a
// no-op. The selection is cleared if it pointed at the removed element.
func (s *Session) DeleteElement(id string) {
	s.CommitEdit()

	doc, removed := s.doc.RemoveByID(id)
	if !removed {
		return
	}

	s.doc = doc
	if s.selected == id {
		s.selected = ""
	}
	s.commit()
}

// MoveBy shifts an element one position and commits. Boundary moves are
// no-ops and do not produce a history entry.
func (s *Session) MoveBy(id, direction string) error {
	s.CommitEdit()

	before := s.doc.IndexOf(id)
	doc, err := s.doc.MoveBy(id, direction)
	if err != nil {
		return err
	}
	if doc.IndexOf(id) == before {
		return nil
	}

	s.doc = doc
	s.commit()
	return nil
}

// Reorder applies a drag-drop splice and commits. Equal indices are a no-op.
func (s *Session) Reorder(from, to int) error {
	s.CommitEdit()

	if from == to || len(s.doc.Elements) < 2 {
		return nil
	}

	doc, err := s.doc.Reorder(from, to)
	if err != nil {
		return err
	}

	s.doc = doc
	s.commit()
	return nil
}

// BeginEdit opens a content-edit buffer for the element. An already-open edit
// on another element is committed first.
func (s *Session) BeginEdit(id string) error {
	if s.editing == id {
		return nil
	}
	s.CommitEdit()

	if _, ok := s.doc.FindElement(id); !ok {
		return document.ErrElementNotFound
	}

	s.editing = id
	s.dirty = false
	return nil
}

// UpdateContent applies staged content to the document so the canvas reflects
// it live, but does not touch history until the edit is committed.
func (s *Session) UpdateContent(content element.Content) error {
	if s.editing == "" {
		return ErrNoOpenEdit
	}

	doc, err := s.doc.ReplaceContent(s.editing, content)
	if err != nil {
		return err
	}

	s.doc = doc
	s.dirty = true
	return nil
}

// CommitEdit closes the open edit, writing one history entry if anything was
// staged. Safe to call when no edit is open.
func (s *Session) CommitEdit() {
	if s.editing == "" {
		return
	}
	if s.dirty {
		s.commit()
	}
	s.editing = ""
	s.dirty = false
}

// DiscardEdit closes the open edit and restores the document to the last
// committed snapshot.
func (s *Session) DiscardEdit() {
	if s.editing == "" {
		return
	}
	if s.dirty {
		s.doc.Elements = s.history.Current()
	}
	s.editing = ""
	s.dirty = false
}

// Undo restores the previous snapshot. Returns false at the start of history.
func (s *Session) Undo() bool {
	s.CommitEdit()

	snapshot, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

// Redo restores the next snapshot. Returns false at the end of history.
func (s *Session) Redo() bool {
	s.CommitEdit()

	snapshot, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

func (s *Session) restore(snapshot []element.Element) {
	s.doc.Elements = snapshot
	if s.selected != "" {
		if _, ok := s.doc.FindElement(s.selected); !ok {
			s.selected = ""
		}
	}
}

func (s *Session) commit() {
	s.history.Commit(s.doc.CloneElements())
}
