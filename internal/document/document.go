// Package document holds the in-memory funnel page model: an ordered element
// sequence plus page-level settings. The sequence itself is the rendering and
// editing order; there is no separate position field. Every operation returns
// a new Document value, the receiver is never mutated.
package document

import (
	"errors"
	"slices"

	"github.com/funnelforge/api/internal/element"
)

var (
	ErrInvalidIndex    = errors.New("index out of range")
	ErrElementNotFound = errors.New("element not found")
)

// Direction for MoveBy.
const (
	MoveUp   = "up"
	MoveDown = "down"
)

type Document struct {
	Elements []element.Element `json:"elements"`
	Settings PageSettings      `json:"settings"`
}

func New() Document {
	return Document{Settings: DefaultSettings()}
}

// FindElement returns the element with the given id.
func (d Document) FindElement(id string) (element.Element, bool) {
	for _, el := range d.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return element.Element{}, false
}

// IndexOf returns the position of the element with the given id, or -1.
func (d Document) IndexOf(id string) int {
	return slices.IndexFunc(d.Elements, func(el element.Element) bool {
		return el.ID == id
	})
}

// InsertAt places el at index i, shifting later elements down. i may equal
// len(Elements) to append.
func (d Document) InsertAt(i int, el element.Element) (Document, error) {
	if i < 0 || i > len(d.Elements) {
		return d, ErrInvalidIndex
	}
	elements := make([]element.Element, 0, len(d.Elements)+1)
	elements = append(elements, d.Elements[:i]...)
	elements = append(elements, el)
	elements = append(elements, d.Elements[i:]...)
	d.Elements = elements
	return d, nil
}

func (d Document) Append(el element.Element) Document {
	out, _ := d.InsertAt(len(d.Elements), el)
	return out
}

// RemoveByID removes the element with the given id. A missing id is reported
// through the bool, not an error.
func (d Document) RemoveByID(id string) (Document, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, false
	}
	elements := make([]element.Element, 0, len(d.Elements)-1)
	elements = append(elements, d.Elements[:i]...)
	elements = append(elements, d.Elements[i+1:]...)
	d.Elements = elements
	return d, true
}

// ReplaceContent swaps the content payload of the element with the given id.
// The element keeps its id and type; content of a different type is rejected.
func (d Document) ReplaceContent(id string, content element.Content) (Document, error) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, ErrElementNotFound
	}

	updated := d.Elements[i]
	updated.Content = content
	if err := element.Validate(updated); err != nil {
		return d, err
	}

	elements := slices.Clone(d.Elements)
	elements[i] = updated
	d.Elements = elements
	return d, nil
}

// MoveBy shifts the element one position up or down. Moving the first element
// up or the last element down is a no-op, not an error.
func (d Document) MoveBy(id, direction string) (Document, error) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, ErrElementNotFound
	}

	j := i
	switch direction {
	case MoveUp:
		j = i - 1
	case MoveDown:
		j = i + 1
	default:
		return d, ErrInvalidIndex
	}

	if j < 0 || j >= len(d.Elements) {
		return d, nil
	}

	elements := slices.Clone(d.Elements)
	elements[i], elements[j] = elements[j], elements[i]
	d.Elements = elements
	return d, nil
}

// Reorder moves the element at from to position to, the splice a drag-drop
// end event produces. Equal indices are a no-op.
func (d Document) Reorder(from, to int) (Document, error) {
	n := len(d.Elements)
	if from < 0 || from >= n || to < 0 || to >= n {
		return d, ErrInvalidIndex
	}
	if from == to || n < 2 {
		return d, nil
	}

	elements := slices.Clone(d.Elements)
	moved := elements[from]
	elements = append(elements[:from], elements[from+1:]...)
	elements = append(elements[:to], append([]element.Element{moved}, elements[to:]...)...)
	d.Elements = elements
	return d, nil
}

// CloneElements returns an independent copy of the element sequence, used for
// history snapshots.
func (d Document) CloneElements() []element.Element {
	return slices.Clone(d.Elements)
}
