package session

import (
	"fmt"

	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/group"
)

// Session ids are derived from the input modality. The native drag API
// cannot run two drags at once and only one keyboard drag can be active,
// so those paths use fixed literals; pointer sessions are keyed by
// pointer id and may coexist.
const (
	// NativeID is the session id for the native-drag path.
	NativeID = "native"

	// KeyboardID is the session id for the keyboard path.
	KeyboardID = "keyboard"
)

// PointerID returns the session id for a pointer-path gesture.
func PointerID(pointer int) string {
	return fmt.Sprintf("pointer:%d", pointer)
}

// Session is one in-flight drag gesture: the dragged items, where they
// came from, and the lazily-resolved clone bookkeeping. Sessions are
// created by Registry.Start, mutated only by the Registry, and removed
// synchronously by End.
type Session struct {
	id           string
	items        []*dom.Element
	origin       Controller
	originGroup  *group.Group
	startIndexes []int

	// Clone bookkeeping, populated at most once on the first
	// cross-container target.
	pullMode     group.Mode
	pullResolved bool
	clones       []*dom.Element
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Items returns the ordered dragged items.
func (s *Session) Items() []*dom.Element {
	out := make([]*dom.Element, len(s.items))
	copy(out, s.items)
	return out
}

// Primary returns the primary dragged item.
func (s *Session) Primary() *dom.Element {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[0]
}

// Origin returns the controller the drag started from.
func (s *Session) Origin() Controller { return s.origin }

// OriginGroup returns the origin's compatibility group, possibly nil.
func (s *Session) OriginGroup() *group.Group { return s.originGroup }

// StartIndexes returns each item's index at session start, in item order.
func (s *Session) StartIndexes() []int {
	out := make([]int, len(s.startIndexes))
	copy(out, s.startIndexes)
	return out
}

// StartIndex returns the primary item's index at session start, or -1.
func (s *Session) StartIndex() int {
	if len(s.startIndexes) == 0 {
		return -1
	}
	return s.startIndexes[0]
}

// PullMode returns the resolved transfer mode and whether it has been
// resolved yet. Resolution happens on the first cross-container target.
func (s *Session) PullMode() (group.Mode, bool) {
	return s.pullMode, s.pullResolved
}

// Clones returns the clone nodes, one per dragged item, or nil before a
// clone-mode target has been set.
func (s *Session) Clones() []*dom.Element {
	out := make([]*dom.Element, len(s.clones))
	copy(out, s.clones)
	return out
}
