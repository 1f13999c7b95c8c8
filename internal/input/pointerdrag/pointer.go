// Package pointerdrag is the pointer-event input adapter: press-delay and
// movement-threshold gating, pointer capture, cross-container hit testing
// at the pointer's coordinates, and the second-touch cancellation rule.
// Sessions are keyed by pointer id, so touch pointers on different
// containers drag independently.
package pointerdrag

import (
	"sync"
	"time"

	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/event"
	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/log"
	"github.com/dshills/dragflow/internal/selection"
	"github.com/dshills/dragflow/internal/session"
)

// PointerType classifies the input device behind a pointer id.
type PointerType int

const (
	// Mouse pointers.
	Mouse PointerType = iota
	// Touch pointers.
	Touch
	// Pen pointers.
	Pen
)

// String returns the pointer type name.
func (t PointerType) String() string {
	switch t {
	case Mouse:
		return "mouse"
	case Touch:
		return "touch"
	case Pen:
		return "pen"
	default:
		return "unknown"
	}
}

// Capturer is the host's pointer-capture surface. Capture failure (for
// instance on synthetic events) is tolerated: the drag proceeds
// uncaptured.
type Capturer interface {
	Capture(pointer int, el *dom.Element) error
	Release(pointer int)
}

// Config controls gesture gating and geometry.
type Config struct {
	// Delay is the press-and-hold time before a drag starts.
	Delay time.Duration

	// DelayOnTouchOnly applies Delay to touch pointers only.
	DelayOnTouchOnly bool

	// TouchStartThreshold is the movement in document units that cancels
	// a pending delayed start.
	TouchStartThreshold float64

	// Swap gates when a hovered item commits a reorder.
	Swap geom.SwapConfig

	// Direction fixes the sort axis; AxisAuto detects it from layout.
	Direction geom.Axis

	// RevertOnCancel restores the origin order on pointercancel.
	RevertOnCancel bool

	// Handle, when set, restricts drag initiation to descendants
	// matching it.
	Handle dom.Selector

	// Filter, when set, blocks drag initiation from matching
	// descendants.
	Filter dom.Selector

	// MultiDrag lets a drag starting on a selected item carry the whole
	// selection.
	MultiDrag bool

	// ChosenClass is applied to dragged items for the session's life.
	ChosenClass string
}

// DefaultConfig returns the stock gating values.
func DefaultConfig() Config {
	return Config{
		TouchStartThreshold: 1,
		Swap:                geom.DefaultSwapConfig(),
		Direction:           geom.AxisAuto,
		RevertOnCancel:      true,
	}
}

// pointerState tracks one pointer from pointerdown to its terminal event.
type pointerState struct {
	pointer int
	typ     PointerType
	ctrl    session.Controller
	item    *dom.Element
	items   []*dom.Element
	start   geom.Point
	timer   Timer
	active  bool
}

func (s *pointerState) sessionID() string { return session.PointerID(s.pointer) }

// Adapter is the pointer-path state machine. One adapter serves every
// registered container; the host feeds it pointer events in document
// coordinates.
type Adapter struct {
	mu       sync.Mutex
	reg      *session.Registry
	root     *dom.Element
	cfg      Config
	clock    Clock
	capturer Capturer
	logger   *log.Logger
	onFilter func(*dom.Element)
	stores   map[session.Controller]*selection.Store
	pointers map[int]*pointerState
}

// Option configures an adapter.
type Option func(*Adapter)

// WithClock sets the delay-timer clock.
func WithClock(c Clock) Option {
	return func(a *Adapter) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithCapturer sets the host's pointer-capture surface.
func WithCapturer(c Capturer) Option {
	return func(a *Adapter) { a.capturer = c }
}

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

// New creates a pointer adapter over the registry. Hit testing runs
// against root, the document-level element containing every managed
// container.
func New(reg *session.Registry, root *dom.Element, cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		reg:      reg,
		root:     root,
		cfg:      cfg,
		clock:    SystemClock,
		logger:   log.Null,
		stores:   make(map[session.Controller]*selection.Store),
		pointers: make(map[int]*pointerState),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("pointer")
	return a
}

// BindSelection attaches a container's selection store so multi-drag can
// expand a drag starting on a selected item.
func (a *Adapter) BindSelection(ctrl session.Controller, store *selection.Store) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stores[ctrl] = store
}

// PointerDown begins tracking a pointer pressed on target. Reports
// whether a drag is pending or started. A second concurrent touch does
// not start a drag: it reverts and ends the in-flight touch session,
// modeling "two fingers means the user didn't intend to drag".
func (a *Adapter) PointerDown(pointer int, typ PointerType, target *dom.Element, p geom.Point) bool {
	if typ == Touch {
		if a.interruptTouch(pointer) {
			return false
		}
	} else if a.hasNonTouch() {
		// One primary non-touch gesture at a time on the pointer path.
		return false
	}

	ctrl, ok := a.reg.ControllerForElement(target)
	if !ok {
		a.logger.Error("%v", session.ErrUnknownContainer)
		return false
	}
	item := a.itemOf(ctrl, target)
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

	st := &pointerState{
		pointer: pointer,
		typ:     typ,
		ctrl:    ctrl,
		item:    item,
		items:   a.dragSet(ctrl, item),
		start:   p,
	}

	a.mu.Lock()
	a.pointers[pointer] = st
	a.mu.Unlock()

	if d := a.effectiveDelay(typ); d > 0 {
		st.timer = a.clock.AfterFunc(d, func() { a.promote(pointer) })
		return true
	}
	a.promote(pointer)
	return true
}

// PointerMove updates a tracked pointer. A pending start is cancelled
// when movement exceeds the threshold; an active session re-resolves its
// hover target by hit testing at the pointer's coordinates, never the
// dragged element's bounds.
func (a *Adapter) PointerMove(pointer int, p geom.Point) {
	a.mu.Lock()
	st, ok := a.pointers[pointer]
	if !ok {
		a.mu.Unlock()
		return
	}
	if !st.active {
		if p.Distance(st.start) > a.cfg.TouchStartThreshold {
			a.dropStateLocked(st)
		}
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	sid := st.sessionID()
	el := dom.ElementFromPoint(a.root, p)
	if el == nil {
		a.reg.ClearTarget(sid)
		return
	}
	ctrl, ok := a.reg.ControllerForElement(el)
	if !ok {
		a.logger.Error("hit test: %v", session.ErrUnknownContainer)
		a.reg.ClearTarget(sid)
		return
	}

	hovered := a.itemOf(ctrl, el)
	if hovered == nil || hovered == st.item {
		a.reg.SetTarget(sid, ctrl)
		return
	}

	axis := a.axisFor(ctrl)
	switch a.cfg.Swap.Evaluate(p, hovered.Bounds(), axis) {
	case geom.SwapBefore:
		a.reg.MoveOver(sid, ctrl, hovered, false)
	case geom.SwapAfter:
		a.reg.MoveOver(sid, ctrl, hovered, true)
	default:
		a.reg.SetTarget(sid, ctrl)
	}
}

// PointerUp completes a tracked pointer: a pending start becomes a plain
// click (selecting the item when multi-drag is on), an active session
// ends with a drop.
func (a *Adapter) PointerUp(pointer int, p geom.Point) {
	a.mu.Lock()
	st, ok := a.pointers[pointer]
	if !ok {
		a.mu.Unlock()
		return
	}
	a.dropStateLocked(st)
	store := a.stores[st.ctrl]
	a.mu.Unlock()

	if !st.active {
		if a.cfg.MultiDrag && store != nil {
			store.Select(st.item, false)
		}
		return
	}
	a.releaseCapture(pointer)
	a.unmark(st)
	a.reg.End(st.sessionID())
}

// PointerCancel aborts a tracked pointer: browser-initiated
// cancellation, with the origin order restored when configured.
func (a *Adapter) PointerCancel(pointer int) {
	a.mu.Lock()
	st, ok := a.pointers[pointer]
	if !ok {
		a.mu.Unlock()
		return
	}
	a.dropStateLocked(st)
	a.mu.Unlock()

	if !st.active {
		return
	}
	a.releaseCapture(pointer)
	a.unmark(st)
	if a.cfg.RevertOnCancel {
		a.reg.CancelWithRevert(st.sessionID())
		return
	}
	a.reg.End(st.sessionID())
}

// Teardown ends every tracked pointer through the cancel path. For host
// shutdown mid-drag; no session may leak.
func (a *Adapter) Teardown() {
	a.mu.Lock()
	ids := make([]int, 0, len(a.pointers))
	for id := range a.pointers {
		ids = append(ids, id)
	}
	a.mu.Unlock()
	for _, id := range ids {
		a.PointerCancel(id)
	}
}

// promote fires when the press delay elapses (or immediately without
// one): the session starts, the choose event fires, capture is
// attempted.
func (a *Adapter) promote(pointer int) {
	a.mu.Lock()
	st, ok := a.pointers[pointer]
	if !ok || st.active {
		a.mu.Unlock()
		return
	}
	st.timer = nil
	st.active = true
	a.mu.Unlock()

	sid := st.sessionID()
	oldIdx := st.ctrl.Model().IndexOf(st.item)
	st.ctrl.Sink().Emit(event.TypeChoose, event.SortPayload{
		Item:     st.item,
		Items:    st.items,
		From:     st.ctrl.Model().Element(),
		To:       st.ctrl.Model().Element(),
		OldIndex: oldIdx,
		NewIndex: event.NoIndex,
	}, event.WithSession(sid))

	if a.reg.Start(sid, st.items, st.ctrl) == nil {
		a.mu.Lock()
		a.dropStateLocked(st)
		a.mu.Unlock()
		return
	}

	if a.cfg.ChosenClass != "" {
		for _, it := range st.items {
			it.AddClass(a.cfg.ChosenClass)
		}
	}
	if a.capturer != nil {
		if err := a.capturer.Capture(pointer, st.item); err != nil {
			a.logger.Debug("pointer capture failed, continuing uncaptured: %v", err)
		}
	}
}

// interruptTouch handles a touch pointerdown while another touch is
// tracked: the in-flight touch is reverted and ended, and the new touch
// is swallowed. Reports whether an interruption happened.
func (a *Adapter) interruptTouch(pointer int) bool {
	a.mu.Lock()
	var prior *pointerState
	for _, st := range a.pointers {
		if st.typ == Touch && st.pointer != pointer {
			prior = st
			break
		}
	}
	if prior != nil {
		a.dropStateLocked(prior)
	}
	a.mu.Unlock()

	if prior == nil {
		return false
	}
	a.logger.Debug("second touch %d interrupts touch %d", pointer, prior.pointer)
	if prior.active {
		a.releaseCapture(prior.pointer)
		a.unmark(prior)
		a.reg.CancelWithRevert(prior.sessionID())
	}
	return true
}

func (a *Adapter) hasNonTouch() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, st := range a.pointers {
		if st.typ != Touch {
			return true
		}
	}
	return false
}

// dropStateLocked stops any pending timer and forgets the pointer.
func (a *Adapter) dropStateLocked(st *pointerState) {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	delete(a.pointers, st.pointer)
}

func (a *Adapter) unmark(st *pointerState) {
	if a.cfg.ChosenClass == "" {
		return
	}
	for _, it := range st.items {
		it.RemoveClass(a.cfg.ChosenClass)
	}
}

func (a *Adapter) releaseCapture(pointer int) {
	if a.capturer != nil {
		a.capturer.Release(pointer)
	}
}

func (a *Adapter) effectiveDelay(typ PointerType) time.Duration {
	if a.cfg.DelayOnTouchOnly && typ != Touch {
		return 0
	}
	return a.cfg.Delay
}

// dragSet resolves the items a drag starting on item carries: the whole
// selection when multi-drag is on and the item is part of it.
func (a *Adapter) dragSet(ctrl session.Controller, item *dom.Element) []*dom.Element {
	if a.cfg.MultiDrag {
		a.mu.Lock()
		store := a.stores[ctrl]
		a.mu.Unlock()
		if store != nil && store.IsSelected(item) {
			if set := store.Selected(); len(set) > 0 {
				return set
			}
		}
	}
	return []*dom.Element{item}
}

// itemOf walks from el up to the container's direct child and returns it
// when it is an eligible item.
func (a *Adapter) itemOf(ctrl session.Controller, el *dom.Element) *dom.Element {
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

// axisFor resolves the sort axis for a container, detecting it from the
// first two items when the config leaves it automatic.
func (a *Adapter) axisFor(ctrl session.Controller) geom.Axis {
	if a.cfg.Direction != geom.AxisAuto {
		return a.cfg.Direction
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
