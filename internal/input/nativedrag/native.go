// Package nativedrag is the HTML5 drag-and-drop input adapter. The
// browser's native drag API runs at most one drag per document, so this
// path uses one fixed session id; its job is mapping the
// dragstart/dragenter/dragover/dragleave/drop/dragend stream onto the
// registry protocol, including the enter-depth counting that keeps child
// boundary crossings from flickering the put target.
package nativedrag

import (
	"sync"

	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/event"
	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/log"
	"github.com/dshills/dragflow/internal/session"
)

// Config controls drag initiation and styling.
type Config struct {
	// Handle, when set, restricts drag initiation to descendants
	// matching it.
	Handle dom.Selector

	// Filter, when set, blocks drag initiation from matching
	// descendants.
	Filter dom.Selector

	// Direction fixes the sort axis; AxisAuto detects it from layout.
	Direction geom.Axis

	// Swap gates when a hovered item commits a reorder.
	Swap geom.SwapConfig

	// ChosenClass is applied to the dragged item for the session's life.
	ChosenClass string
}

// DefaultConfig returns the stock values.
func DefaultConfig() Config {
	return Config{
		Direction: geom.AxisAuto,
		Swap:      geom.DefaultSwapConfig(),
	}
}

// Adapter is the native-drag state machine. The host forwards its drag
// events; DragOver's return value is the accept flag the host maps to
// preventDefault.
type Adapter struct {
	mu       sync.Mutex
	reg      *session.Registry
	cfg      Config
	logger   *log.Logger
	onFilter func(*dom.Element)

	item   *dom.Element
	active bool
	depth  map[session.Controller]int
}

// Option configures an adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithOnFilter installs the notification called when a filtered element
// blocks a drag.
func WithOnFilter(fn func(*dom.Element)) Option {
	return func(a *Adapter) { a.onFilter = fn }
}

// New creates a native-drag adapter over the registry.
func New(reg *session.Registry, cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		reg:    reg,
		cfg:    cfg,
		logger: log.Null,
		depth:  make(map[session.Controller]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("native")
	return a
}

// DragStart handles dragstart over target: the eligible item is
// resolved, choose fires, and the session starts. Reports whether a drag
// began. The native path always drags a single item.
func (a *Adapter) DragStart(target *dom.Element) bool {
	ctrl, ok := a.reg.ControllerForElement(target)
	if !ok {
		a.logger.Error("%v", session.ErrUnknownContainer)
		return false
	}
	item := itemOf(ctrl, target)
	if item == nil {
		return false
	}
	if !a.cfg.Filter.IsZero() {
		if hit := dom.Closest(target, a.cfg.Filter, item); hit != nil {
			if a.onFilter != nil {
				a.onFilter(hit)
			}
			return false
		}
	}
	if !a.cfg.Handle.IsZero() && dom.Closest(target, a.cfg.Handle, item) == nil {
		return false
	}

	items := []*dom.Element{item}
	ctrl.Sink().Emit(event.TypeChoose, event.SortPayload{
		Item:     item,
		Items:    items,
		From:     ctrl.Model().Element(),
		To:       ctrl.Model().Element(),
		OldIndex: ctrl.Model().IndexOf(item),
		NewIndex: event.NoIndex,
	}, event.WithSession(session.NativeID))

	if a.reg.Start(session.NativeID, items, ctrl) == nil {
		return false
	}

	a.mu.Lock()
	a.item = item
	a.active = true
	a.depth = make(map[session.Controller]int)
	a.mu.Unlock()

	if a.cfg.ChosenClass != "" {
		item.AddClass(a.cfg.ChosenClass)
	}
	return true
}

// DragEnter handles dragenter on a container. Only the transition from
// outside the container sets the put target; re-entries from child
// boundaries just deepen the counter.
func (a *Adapter) DragEnter(ctrl session.Controller) {
	if ctrl == nil {
		return
	}
	a.mu.Lock()
	a.depth[ctrl]++
	first := a.depth[ctrl] == 1
	a.mu.Unlock()

	if first {
		a.reg.SetTarget(session.NativeID, ctrl)
	}
}

// DragLeave handles dragleave on a container. The put target clears only
// when the counter returns to zero, meaning the pointer left the
// container's bounds entirely rather than crossing into a child.
func (a *Adapter) DragLeave(ctrl session.Controller) {
	if ctrl == nil {
		return
	}
	a.mu.Lock()
	if a.depth[ctrl] > 0 {
		a.depth[ctrl]--
	}
	cleared := a.depth[ctrl] == 0
	a.mu.Unlock()

	if cleared {
		a.reg.ClearTarget(session.NativeID)
	}
}

// DragOver handles dragover at p inside the container. The return value
// is the drop-acceptance flag the host maps to preventDefault; when the
// session may not drop here nothing else happens. Otherwise the hovered
// item and drag direction resolve one MoveOver.
func (a *Adapter) DragOver(ctrl session.Controller, target *dom.Element, p geom.Point) bool {
	if ctrl == nil || !a.reg.CanAcceptDrop(session.NativeID, ctrl) {
		return false
	}

	a.mu.Lock()
	dragged := a.item
	a.mu.Unlock()
	if dragged == nil {
		return false
	}

	hovered := a.hoveredItem(ctrl, target, p)
	if hovered == nil || hovered == dragged {
		a.reg.SetTarget(session.NativeID, ctrl)
		return true
	}

	axis := axisFor(a.cfg.Direction, ctrl)
	after := false
	if dIdx := ctrl.Model().IndexOf(dragged); dIdx >= 0 {
		// Same container: direction decides the side, which avoids the
		// off-by-one oscillation around the hovered item.
		after = ctrl.Model().IndexOf(hovered) > dIdx
	} else {
		switch a.cfg.Swap.Evaluate(p, hovered.Bounds(), axis) {
		case geom.SwapBefore:
			after = false
		case geom.SwapAfter:
			after = true
		default:
			return true
		}
	}

	a.reg.MoveOver(session.NativeID, ctrl, hovered, after)
	return true
}

// Drop handles a drop on a container. The actual settlement happens in
// DragEnd, which the browser fires afterwards in every case; Drop only
// pins the target.
func (a *Adapter) Drop(ctrl session.Controller) {
	if ctrl != nil {
		a.reg.SetTarget(session.NativeID, ctrl)
	}
}

// DragEnd is the sole guaranteed cleanup hook: the browser fires dragend
// whether or not a drop was accepted, and this always ends the session.
func (a *Adapter) DragEnd() {
	a.mu.Lock()
	item := a.item
	a.item = nil
	a.active = false
	a.depth = make(map[session.Controller]int)
	a.mu.Unlock()

	if item != nil && a.cfg.ChosenClass != "" {
		item.RemoveClass(a.cfg.ChosenClass)
	}
	a.reg.End(session.NativeID)
}

// Active reports whether a native drag is in flight.
func (a *Adapter) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// hoveredItem resolves the item under the drag from the event target
// when it sits inside an item, else by point lookup over item bounds.
func (a *Adapter) hoveredItem(ctrl session.Controller, target *dom.Element, p geom.Point) *dom.Element {
	if target != nil {
		if it := itemOf(ctrl, target); it != nil {
			return it
		}
	}
	for _, it := range ctrl.Model().Items() {
		if it.Bounds().Contains(p) {
			return it
		}
	}
	return nil
}

// itemOf walks from el up to the container's direct child and returns it
// when it is an eligible item.
func itemOf(ctrl session.Controller, el *dom.Element) *dom.Element {
	root := ctrl.Model().Element()
	for n := el; n != nil && n != root; n = n.Parent() {
		if n.Parent() == root {
			if ctrl.Model().Eligible(n) {
				return n
			}
			return nil
		}
	}
	return nil
}

// axisFor resolves the sort axis, detecting from the first two items
// when automatic.
func axisFor(dir geom.Axis, ctrl session.Controller) geom.Axis {
	if dir != geom.AxisAuto {
		return dir
	}
	items := ctrl.Model().Items()
	var first, second geom.Rect
	if len(items) > 0 {
		first = items[0].Bounds()
	}
	if len(items) > 1 {
		second = items[1].Bounds()
	}
	return geom.DetectAxis(first, second, ctrl.Model().Element().Bounds())
}
