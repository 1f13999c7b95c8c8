// Package container wraps one ordered-children element as a sortable
// container: an eligible-item view with index math that ignores
// non-draggable decorative nodes, and the move operations drag
// coordination is built on.
package container

import (
	"github.com/google/uuid"

	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/group"
)

// Model is a handle to a container element. The eligible-item list is
// recomputed from the live child list on every call — the underlying
// collection is externally mutable at any time and must never be cached.
//
// All indexes are relative to the eligible subset, never the raw child
// list. Models are created once per managed container at setup time.
type Model struct {
	id       string
	el       *dom.Element
	grp      *group.Group
	eligible dom.Selector
}

// Option configures a Model.
type Option func(*Model)

// WithID sets the container id used in event metadata.
func WithID(id string) Option {
	return func(m *Model) { m.id = id }
}

// WithGroup sets the container's compatibility group.
func WithGroup(g *group.Group) Option {
	return func(m *Model) { m.grp = g }
}

// WithEligible sets the selector deciding which children are items.
func WithEligible(sel dom.Selector) Option {
	return func(m *Model) { m.eligible = sel }
}

// New creates a model over the element. Without options every child is
// eligible, the group is permissive and anonymous, and the id falls back
// to the element's id attribute (a generated one when absent).
func New(el *dom.Element, opts ...Option) *Model {
	m := &Model{
		el:       el,
		eligible: dom.MatchAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.id == "" {
		m.id = el.ID()
	}
	if m.id == "" {
		m.id = uuid.New().String()
	}
	if m.grp == nil {
		m.grp = group.New("")
	}
	return m
}

// ID returns the container id.
func (m *Model) ID() string { return m.id }

// Element returns the underlying container element.
func (m *Model) Element() *dom.Element { return m.el }

// Group returns the container's compatibility group.
func (m *Model) Group() *group.Group { return m.grp }

// GroupName returns the group name, or "" without a group.
func (m *Model) GroupName() string {
	if m.grp == nil {
		return ""
	}
	return m.grp.Name
}

// Eligible reports whether the element is an item of this container.
func (m *Model) Eligible(e *dom.Element) bool {
	return e != nil && e.Parent() == m.el && m.eligible.Matches(e)
}

// Items returns the ordered eligible items, recomputed from the live
// child list.
func (m *Model) Items() []*dom.Element {
	children := m.el.Children()
	out := make([]*dom.Element, 0, len(children))
	for _, c := range children {
		if m.eligible.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of eligible items.
func (m *Model) Len() int { return len(m.Items()) }

// IndexOf returns the item's index within Items(), or -1.
func (m *Model) IndexOf(item *dom.Element) int {
	for i, it := range m.Items() {
		if it == item {
			return i
		}
	}
	return -1
}

// ItemAt returns the eligible item at index i, or nil.
func (m *Model) ItemAt(i int) *dom.Element {
	items := m.Items()
	if i < 0 || i >= len(items) {
		return nil
	}
	return items[i]
}

// MoveTo moves an item of this container so that afterwards
// IndexOf(item) == target, with target clamped into the valid range
// measured excluding the item itself. A foreign item or an in-place move
// is a silent no-op. Reports whether the order changed.
func (m *Model) MoveTo(item *dom.Element, target int) bool {
	idx := m.IndexOf(item)
	if idx < 0 {
		return false
	}

	rest := m.itemsExcluding(item)
	target = clamp(target, len(rest))
	if target == idx {
		return false
	}

	m.placeAt(item, rest, target)
	return true
}

// MoveManyTo moves a possibly non-contiguous set of this container's
// items so they land contiguously at target, preserving the input
// slice's relative order. The index is computed against the remaining
// items after conceptual removal of the whole set. Foreign items are
// ignored; an empty or fully-foreign set is a no-op. Reports whether the
// order changed.
func (m *Model) MoveManyTo(items []*dom.Element, target int) bool {
	moved := m.ownedSubset(items)
	if len(moved) == 0 {
		return false
	}
	if len(moved) == 1 {
		return m.MoveTo(moved[0], target)
	}

	rest := m.itemsExcludingSet(moved)
	target = clamp(target, len(rest))

	// Desired final order; skip the surgery when nothing changes.
	desired := make([]*dom.Element, 0, len(rest)+len(moved))
	desired = append(desired, rest[:target]...)
	desired = append(desired, moved...)
	desired = append(desired, rest[target:]...)
	if sameOrder(m.Items(), desired) {
		return false
	}

	if target < len(rest) {
		anchor := rest[target]
		for _, it := range moved {
			m.el.InsertBefore(it, anchor)
		}
		return true
	}

	if len(rest) == 0 {
		for _, it := range moved {
			m.el.AppendChild(it)
		}
		return true
	}

	ref := rest[len(rest)-1]
	for _, it := range moved {
		m.el.InsertAfter(it, ref)
		ref = it
	}
	return true
}

// Insert places an item so it lands at the given eligible index,
// adopting it from another container when necessary. Items already in
// this container delegate to MoveTo. Reports whether anything changed.
func (m *Model) Insert(item *dom.Element, target int) bool {
	if item == nil || item == m.el {
		return false
	}
	if m.IndexOf(item) >= 0 {
		return m.MoveTo(item, target)
	}

	items := m.Items()
	target = clamp(target, len(items))
	m.placeAt(item, items, target)
	return true
}

// RestoreOrder normalizes the container so its eligible items appear in
// the given order. Items not currently in the container are skipped.
// Used by cancellation paths to restore pre-drag state exactly.
func (m *Model) RestoreOrder(order []*dom.Element) {
	desired := m.ownedSubset(order)
	for i, it := range desired {
		if m.ItemAt(i) != it {
			m.MoveTo(it, i)
		}
	}
}

// InsertionIndex resolves the MoveTo target for dropping dragged
// relative to hovered: before the hovered item or after it. Works for
// cross-container drags, where dragged is not yet among the items.
// Returns -1 when hovered is not an item of this container.
func (m *Model) InsertionIndex(dragged, hovered *dom.Element, after bool) int {
	h := m.IndexOf(hovered)
	if h < 0 {
		return -1
	}
	d := m.IndexOf(dragged)

	if after {
		if d >= 0 && d < h {
			return h
		}
		return h + 1
	}
	if d >= 0 && d < h {
		return h - 1
	}
	return h
}

// placeAt inserts item so it occupies position target within rest, the
// current eligible items without it.
func (m *Model) placeAt(item *dom.Element, rest []*dom.Element, target int) {
	switch {
	case target < len(rest):
		m.el.InsertBefore(item, rest[target])
	case len(rest) > 0:
		m.el.InsertAfter(item, rest[len(rest)-1])
	default:
		m.el.AppendChild(item)
	}
}

// ownedSubset filters candidates to this container's items, preserving
// input order and dropping duplicates.
func (m *Model) ownedSubset(candidates []*dom.Element) []*dom.Element {
	out := make([]*dom.Element, 0, len(candidates))
	seen := make(map[*dom.Element]bool, len(candidates))
	for _, c := range candidates {
		if c == nil || seen[c] || m.IndexOf(c) < 0 {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (m *Model) itemsExcluding(item *dom.Element) []*dom.Element {
	items := m.Items()
	out := make([]*dom.Element, 0, len(items))
	for _, it := range items {
		if it != item {
			out = append(out, it)
		}
	}
	return out
}

func (m *Model) itemsExcludingSet(set []*dom.Element) []*dom.Element {
	in := make(map[*dom.Element]bool, len(set))
	for _, it := range set {
		in[it] = true
	}
	items := m.Items()
	out := make([]*dom.Element, 0, len(items))
	for _, it := range items {
		if !in[it] {
			out = append(out, it)
		}
	}
	return out
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

func sameOrder(a, b []*dom.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
