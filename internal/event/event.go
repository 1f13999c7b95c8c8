// Package event provides the per-container emission sink: ordered,
// synchronous publish/subscribe for the drag lifecycle, with typed
// payloads per event name.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/group"
)

// Type identifies a lifecycle event name.
type Type string

const (
	// TypeChoose fires when an item is picked up, before drag motion is
	// confirmed. The keyboard path folds choose into start.
	TypeChoose Type = "choose"
	// TypeStart fires when a drag session is created.
	TypeStart Type = "start"
	// TypeSort fires on any index reshuffle, same-container or not.
	TypeSort Type = "sort"
	// TypeUpdate fires when order changed within the origin container.
	TypeUpdate Type = "update"
	// TypeChange fires alongside update for same-container reshuffles.
	TypeChange Type = "change"
	// TypeMove is the continuous hover hook carrying geometry.
	TypeMove Type = "move"
	// TypeAdd fires on the target container when items arrive.
	TypeAdd Type = "add"
	// TypeRemove fires on the origin container when items leave.
	TypeRemove Type = "remove"
	// TypeClone fires on the origin container for clone-mode transfers.
	TypeClone Type = "clone"
	// TypeUnchoose fires when the item is released, before end.
	TypeUnchoose Type = "unchoose"
	// TypeEnd terminates every session's sequence.
	TypeEnd Type = "end"
	// TypeSelect carries selection-state changes, an independent stream.
	TypeSelect Type = "select"
	// TypeAny subscribes to every event on the sink.
	TypeAny Type = "*"
)

// Valid reports whether t is a known event type (TypeAny included).
func (t Type) Valid() bool {
	switch t {
	case TypeChoose, TypeStart, TypeSort, TypeUpdate, TypeChange, TypeMove,
		TypeAdd, TypeRemove, TypeClone, TypeUnchoose, TypeEnd, TypeSelect,
		TypeAny:
		return true
	default:
		return false
	}
}

// String returns the event name.
func (t Type) String() string { return string(t) }

// NoIndex marks an index field that does not apply to the event.
const NoIndex = -1

// Metadata accompanies every emitted event.
type Metadata struct {
	// ID is a unique identifier for this emission.
	ID string

	// Time is when the event was emitted.
	Time time.Time

	// Session is the drag session id, when the event belongs to one.
	Session string

	// Container is the emitting sink's container id.
	Container string
}

func newMetadata(container, session string) Metadata {
	return Metadata{
		ID:        uuid.New().String(),
		Time:      time.Now(),
		Session:   session,
		Container: container,
	}
}

// Payload is implemented by the typed payload structs. Which concrete
// type an event carries is determined by its Type:
//
//	choose/start/sort/update/change/unchoose/end → SortPayload
//	add/remove                                   → TransferPayload
//	clone                                        → ClonePayload
//	move                                         → MovePayload
//	select                                       → SelectPayload
type Payload interface {
	payload()
}

// SortPayload is the common reorder payload.
type SortPayload struct {
	// Item is the primary dragged item.
	Item *dom.Element

	// Items is the ordered set of all dragged items.
	Items []*dom.Element

	// From is the origin container element.
	From *dom.Element

	// To is the current or final container element.
	To *dom.Element

	// OldIndex is the item's index before the operation, or NoIndex.
	OldIndex int

	// NewIndex is the item's index after the operation, or NoIndex.
	NewIndex int
}

func (SortPayload) payload() {}

// TransferPayload is the cross-container payload for add and remove.
type TransferPayload struct {
	SortPayload

	// PullMode is how the items crossed containers.
	PullMode group.Mode
}

// ClonePayload is the payload for clone events.
type ClonePayload struct {
	TransferPayload

	// Clone is the duplicate of the primary item.
	Clone *dom.Element

	// Clones holds one duplicate per dragged item, in item order.
	Clones []*dom.Element
}

// MovePayload is the continuous hover payload.
type MovePayload struct {
	// Item is the primary dragged item.
	Item *dom.Element

	// Items is the ordered set of all dragged items.
	Items []*dom.Element

	// From is the origin container element.
	From *dom.Element

	// To is the hovered container element.
	To *dom.Element

	// Related is the item currently hovered over.
	Related *dom.Element

	// WillInsertAfter is true when the dragged item would land after
	// Related.
	WillInsertAfter bool

	// DraggedRect is the dragged item's layout rect.
	DraggedRect geom.Rect

	// TargetRect is the hovered item's layout rect.
	TargetRect geom.Rect
}

func (MovePayload) payload() {}

// SelectPayload carries the full selection state, never a delta.
type SelectPayload struct {
	// Container is the owning container element.
	Container *dom.Element

	// Selected is the complete selected set in container order.
	Selected []*dom.Element

	// Anchor is the last-selected item, or nil.
	Anchor *dom.Element

	// Focused is the focused item, or nil.
	Focused *dom.Element
}

func (SelectPayload) payload() {}

// Event is one emitted occurrence.
type Event struct {
	Type    Type
	Meta    Metadata
	Payload Payload
}

// Sort returns the payload as a SortPayload when the event carries one.
// Transfer and clone events embed it, so those unwrap too.
func (e Event) Sort() (SortPayload, bool) {
	switch p := e.Payload.(type) {
	case SortPayload:
		return p, true
	case TransferPayload:
		return p.SortPayload, true
	case ClonePayload:
		return p.SortPayload, true
	default:
		return SortPayload{}, false
	}
}

// Transfer returns the payload as a TransferPayload when present.
func (e Event) Transfer() (TransferPayload, bool) {
	switch p := e.Payload.(type) {
	case TransferPayload:
		return p, true
	case ClonePayload:
		return p.TransferPayload, true
	default:
		return TransferPayload{}, false
	}
}

// CloneInfo returns the payload as a ClonePayload when present.
func (e Event) CloneInfo() (ClonePayload, bool) {
	p, ok := e.Payload.(ClonePayload)
	return p, ok
}

// MoveInfo returns the payload as a MovePayload when present.
func (e Event) MoveInfo() (MovePayload, bool) {
	p, ok := e.Payload.(MovePayload)
	return p, ok
}

// Selection returns the payload as a SelectPayload when present.
func (e Event) Selection() (SelectPayload, bool) {
	p, ok := e.Payload.(SelectPayload)
	return p, ok
}

// Handler processes one event. Errors are recorded in sink stats and do
// not stop delivery to later handlers.
type Handler interface {
	Handle(Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(e Event) error { return f(e) }

// FilterFunc is a delivery predicate; return false to skip the handler
// for this event.
type FilterFunc func(Event) bool

// Priority determines handler execution order. Lower values execute
// first; equal priorities execute in subscription order.
type Priority int

const (
	// PriorityCritical is for engine-internal handlers that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh is for bookkeeping that must precede user callbacks.
	PriorityHigh Priority = 100

	// PriorityNormal is the default for user callbacks.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and metrics handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}
