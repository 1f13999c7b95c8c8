// Package selection tracks which items within one container are
// selected and focused. It is independent of drag mechanics; the pointer
// and keyboard adapters consult it when a session starts to decide
// whether a drag carries one item or the selected set.
package selection

import (
	"sync"

	"github.com/dshills/dragflow/internal/container"
	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/event"
)

// Store is the per-container selection state: a selected set, one anchor
// (last selected, used for range extension), and one focused item. Every
// mutating call emits a select event on the container's sink carrying the
// full current state, never a delta.
type Store struct {
	mu       sync.Mutex
	model    *container.Model
	sink     *event.Sink
	selected map[*dom.Element]bool
	anchor   *dom.Element
	focused  *dom.Element

	// markClass, when set, is applied to selected items and removed on
	// deselection so hosts can style the selection.
	markClass string
}

// Option configures a store.
type Option func(*Store)

// WithSelectedClass applies the class to selected items.
func WithSelectedClass(name string) Option {
	return func(s *Store) { s.markClass = name }
}

// NewStore creates a selection store over the container.
func NewStore(model *container.Model, sink *event.Sink, opts ...Option) *Store {
	s := &Store{
		model:    model,
		sink:     sink,
		selected: make(map[*dom.Element]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the owning container model.
func (s *Store) Model() *container.Model { return s.model }

// Select marks the item selected and makes it the anchor. Unless additive,
// every other selection is cleared first. Ineligible items are a no-op.
func (s *Store) Select(item *dom.Element, additive bool) {
	s.mu.Lock()
	if s.model.IndexOf(item) < 0 {
		s.mu.Unlock()
		return
	}
	if !additive {
		s.clearLocked()
	}
	s.markLocked(item)
	s.anchor = item
	s.mu.Unlock()
	s.emit()
}

// Toggle selects the item additively when unselected and deselects it
// otherwise. Ineligible items are a no-op.
func (s *Store) Toggle(item *dom.Element) {
	s.mu.Lock()
	if s.model.IndexOf(item) < 0 {
		s.mu.Unlock()
		return
	}
	if s.selected[item] {
		s.unmarkLocked(item)
		if s.anchor == item {
			s.anchor = nil
		}
	} else {
		s.markLocked(item)
		s.anchor = item
	}
	s.mu.Unlock()
	s.emit()
}

// SelectRange replaces the selection with the contiguous eligible span
// between anchor and item, inclusive, in either direction. The anchor is
// kept as the range's anchor. A no-op when either end is ineligible.
func (s *Store) SelectRange(anchor, item *dom.Element) {
	s.mu.Lock()
	a := s.model.IndexOf(anchor)
	b := s.model.IndexOf(item)
	if a < 0 || b < 0 {
		s.mu.Unlock()
		return
	}
	if a > b {
		a, b = b, a
	}
	s.clearLocked()
	items := s.model.Items()
	for i := a; i <= b; i++ {
		s.markLocked(items[i])
	}
	s.anchor = anchor
	s.mu.Unlock()
	s.emit()
}

// SelectAll selects every eligible item. The anchor becomes the last item.
func (s *Store) SelectAll() {
	s.mu.Lock()
	items := s.model.Items()
	if len(items) == 0 {
		s.mu.Unlock()
		return
	}
	s.clearLocked()
	for _, it := range items {
		s.markLocked(it)
	}
	s.anchor = items[len(items)-1]
	s.mu.Unlock()
	s.emit()
}

// Deselect removes the item from the selection.
func (s *Store) Deselect(item *dom.Element) {
	s.mu.Lock()
	if !s.selected[item] {
		s.mu.Unlock()
		return
	}
	s.unmarkLocked(item)
	if s.anchor == item {
		s.anchor = nil
	}
	s.mu.Unlock()
	s.emit()
}

// Clear empties the selection and resets the anchor.
func (s *Store) Clear() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.emit()
}

// SetFocus designates the focused item, or clears focus with nil. Focus is
// independent of selection; at most one item is focused.
func (s *Store) SetFocus(item *dom.Element) {
	s.mu.Lock()
	if item != nil && s.model.IndexOf(item) < 0 {
		s.mu.Unlock()
		return
	}
	s.focused = item
	s.mu.Unlock()
	s.emit()
}

// Focused returns the focused item, or nil.
func (s *Store) Focused() *dom.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// LastSelected returns the anchor, or nil.
func (s *Store) LastSelected() *dom.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

// IsSelected reports whether the item is selected.
func (s *Store) IsSelected(item *dom.Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[item]
}

// Selected returns the selected items in current container order.
func (s *Store) Selected() []*dom.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

// Count returns the number of selected items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

func (s *Store) selectedLocked() []*dom.Element {
	out := make([]*dom.Element, 0, len(s.selected))
	for _, it := range s.model.Items() {
		if s.selected[it] {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) markLocked(item *dom.Element) {
	s.selected[item] = true
	if s.markClass != "" {
		item.AddClass(s.markClass)
	}
}

func (s *Store) unmarkLocked(item *dom.Element) {
	delete(s.selected, item)
	if s.markClass != "" {
		item.RemoveClass(s.markClass)
	}
}

func (s *Store) clearLocked() {
	for it := range s.selected {
		s.unmarkLocked(it)
	}
	s.anchor = nil
}

// emit publishes the full current state. Called without the lock held so
// handlers may read the store.
func (s *Store) emit() {
	if s.sink == nil {
		return
	}
	s.mu.Lock()
	p := event.SelectPayload{
		Container: s.model.Element(),
		Selected:  s.selectedLocked(),
		Anchor:    s.anchor,
		Focused:   s.focused,
	}
	s.mu.Unlock()
	s.sink.Emit(event.TypeSelect, p)
}
