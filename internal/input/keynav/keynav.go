// Package keynav is the keyboard input adapter: a grab/move/drop/cancel
// state machine over arrow keys, Enter, and Escape, with ARIA
// bookkeeping and announcements. While nothing is grabbed the same keys
// drive the selection store instead and never touch the registry.
package keynav

import (
	"sync"

	"github.com/dshills/dragflow/internal/announce"
	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/log"
	"github.com/dshills/dragflow/internal/selection"
	"github.com/dshills/dragflow/internal/session"
)

// Key is a normalized keyboard input.
type Key int

const (
	// KeyUp is the up arrow.
	KeyUp Key = iota
	// KeyDown is the down arrow.
	KeyDown
	// KeyLeft is the left arrow.
	KeyLeft
	// KeyRight is the right arrow.
	KeyRight
	// KeyHome jumps focus to the first item.
	KeyHome
	// KeyEnd jumps focus to the last item.
	KeyEnd
	// KeySpace toggles or range-extends the selection.
	KeySpace
	// KeyEnter grabs or drops.
	KeyEnter
	// KeyEscape cancels a grab.
	KeyEscape
	// KeySelectAll selects every item.
	KeySelectAll
)

// ARIA attributes maintained on grabbed items and their containers.
const (
	ariaGrabbed    = "aria-grabbed"
	ariaDropEffect = "aria-dropeffect"
)

// Config controls the keyboard adapter.
type Config struct {
	// Enabled gates the whole adapter; off means keys are not handled.
	Enabled bool

	// GrabbedClass is applied to grabbed items.
	GrabbedClass string

	// Direction fixes the sort axis; AxisAuto detects it from layout.
	Direction geom.Axis
}

// DefaultConfig returns the stock values with the adapter enabled.
func DefaultConfig() Config {
	return Config{Enabled: true, Direction: geom.AxisAuto}
}

// Adapter is the keyboard-path state machine: idle or grabbed. Only one
// keyboard drag can be active at a time, so the path uses the fixed
// keyboard session id.
type Adapter struct {
	mu     sync.Mutex
	reg    *session.Registry
	cfg    Config
	logger *log.Logger
	ann    announce.Announcer

	ctrl  session.Controller
	store *selection.Store

	grabbing bool
	grabbed  []*dom.Element
	current  session.Controller
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

// WithAnnouncer sets the accessibility announcer.
func WithAnnouncer(an announce.Announcer) Option {
	return func(a *Adapter) {
		if an != nil {
			a.ann = an
		}
	}
}

// New creates a keyboard adapter over the registry.
func New(reg *session.Registry, cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		reg:    reg,
		cfg:    cfg,
		logger: log.Null,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("keynav")
	if a.ann == nil {
		a.ann = announce.NewLogAnnouncer(a.logger)
	}
	return a
}

// SetActive points the adapter at the container holding keyboard focus
// and its selection store. Ignored mid-grab; the grab finishes against
// its own containers.
func (a *Adapter) SetActive(ctrl session.Controller, store *selection.Store) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.grabbing {
		return
	}
	a.ctrl = ctrl
	a.store = store
}

// Grabbing reports whether a keyboard drag is in flight.
func (a *Adapter) Grabbing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.grabbing
}

// HandleKey processes one key with its shift state. Reports whether the
// key was consumed.
func (a *Adapter) HandleKey(k Key, shift bool) bool {
	if !a.cfg.Enabled {
		return false
	}
	a.mu.Lock()
	ctrl := a.ctrl
	grabbing := a.grabbing
	a.mu.Unlock()
	if ctrl == nil {
		return false
	}

	if grabbing {
		return a.handleGrabbed(k)
	}
	return a.handleIdle(k, shift)
}

// handleIdle drives focus and selection. These keys never touch the
// registry.
func (a *Adapter) handleIdle(k Key, shift bool) bool {
	switch k {
	case KeyUp, KeyLeft:
		a.moveFocus(-1, shift)
	case KeyDown, KeyRight:
		a.moveFocus(1, shift)
	case KeyHome:
		a.focusEdge(0, shift)
	case KeyEnd:
		a.focusEdge(-1, shift)
	case KeySpace:
		a.spaceSelect(shift)
	case KeySelectAll:
		if a.store != nil {
			a.store.SelectAll()
		}
	case KeyEnter:
		return a.grab()
	default:
		return false
	}
	return true
}

// handleGrabbed drives the in-flight keyboard drag.
func (a *Adapter) handleGrabbed(k Key) bool {
	axis := a.axisOf(a.currentCtrl())
	switch k {
	case KeyEnter:
		a.drop()
	case KeyEscape:
		a.cancel()
	case KeyUp:
		a.arrow(axis, geom.AxisVertical, -1)
	case KeyDown:
		a.arrow(axis, geom.AxisVertical, 1)
	case KeyLeft:
		a.arrow(axis, geom.AxisHorizontal, -1)
	case KeyRight:
		a.arrow(axis, geom.AxisHorizontal, 1)
	default:
		return false
	}
	return true
}

// grab picks up the selection (or the focused item when nothing is
// selected) and starts the session. The choose event is folded into
// start on this path.
func (a *Adapter) grab() bool {
	a.mu.Lock()
	ctrl := a.ctrl
	store := a.store
	a.mu.Unlock()

	var items []*dom.Element
	if store != nil {
		items = store.Selected()
		if len(items) == 0 {
			if f := store.Focused(); f != nil {
				items = []*dom.Element{f}
			}
		}
	}
	if len(items) == 0 {
		return false
	}

	if a.reg.Start(session.KeyboardID, items, ctrl) == nil {
		return false
	}

	a.mu.Lock()
	a.grabbing = true
	a.grabbed = items
	a.current = ctrl
	a.mu.Unlock()

	for _, it := range items {
		it.SetAttr(ariaGrabbed, "true")
		if a.cfg.GrabbedClass != "" {
			it.AddClass(a.cfg.GrabbedClass)
		}
	}
	ctrl.Model().Element().SetAttr(ariaDropEffect, "move")

	model := ctrl.Model()
	a.ann.Announce(announce.Grabbed(len(items), model.IndexOf(items[0]), model.Len()))
	return true
}

// arrow moves the grabbed set one position along the sort axis, or
// transfers it to the adjacent compatible container across it.
func (a *Adapter) arrow(axis, keyAxis geom.Axis, delta int) {
	if axis == keyAxis {
		a.moveBy(delta)
		return
	}
	a.transfer(delta)
}

// moveBy repositions the grabbed set by delta, each index computed from
// the live position at the moment of the key press.
func (a *Adapter) moveBy(delta int) {
	ctrl := a.currentCtrl()
	model := ctrl.Model()

	low := -1
	for _, it := range a.grabbedItems() {
		if idx := model.IndexOf(it); idx >= 0 && (low < 0 || idx < low) {
			low = idx
		}
	}
	if low < 0 {
		return
	}
	target := low + delta
	if target < 0 {
		target = 0
	}
	if !a.reg.MoveSet(session.KeyboardID, ctrl, target) {
		return
	}
	a.ann.Announce(announce.Moved(model.IndexOf(a.grabbedItems()[0]), model.Len()))
}

// transfer moves the grabbed set to the spatially adjacent compatible
// container in the arrow's direction, landing at the nearest index. A
// no-op without a compatible neighbor.
func (a *Adapter) transfer(delta int) {
	cur := a.currentCtrl()
	neighbor := a.adjacent(cur, delta)
	if neighbor == nil {
		return
	}

	primary := a.grabbedItems()[0]
	idx := cur.Model().IndexOf(primary)
	if idx < 0 || idx > neighbor.Model().Len() {
		idx = neighbor.Model().Len()
	}
	if !a.reg.MoveSet(session.KeyboardID, neighbor, idx) {
		return
	}

	cur.Model().Element().RemoveAttr(ariaDropEffect)
	neighbor.Model().Element().SetAttr(ariaDropEffect, "move")

	a.mu.Lock()
	a.current = neighbor
	a.mu.Unlock()

	model := neighbor.Model()
	a.ann.Announce(announce.Moved(model.IndexOf(primary), model.Len()))
}

// adjacent finds the registered compatible container nearest to cur on
// the given side of the cross axis.
func (a *Adapter) adjacent(cur session.Controller, delta int) session.Controller {
	curCenter := cur.Model().Element().Bounds().Center()
	axis := a.axisOf(cur)
	cross := geom.AxisHorizontal
	if axis == geom.AxisHorizontal {
		cross = geom.AxisVertical
	}

	var best session.Controller
	var bestDist float64
	for _, c := range a.reg.Controllers() {
		if c == cur {
			continue
		}
		center := c.Model().Element().Bounds().Center()
		offset := center.Along(cross) - curCenter.Along(cross)
		if (delta < 0 && offset >= 0) || (delta > 0 && offset <= 0) {
			continue
		}
		if !a.reg.CanAcceptDrop(session.KeyboardID, c) {
			continue
		}
		dist := curCenter.Distance(center)
		if best == nil || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// drop ends the grab at the current position.
func (a *Adapter) drop() {
	ctrl := a.currentCtrl()
	model := ctrl.Model()
	idx := model.IndexOf(a.grabbedItems()[0])
	total := model.Len()

	a.reg.End(session.KeyboardID)
	a.release()
	a.ann.Announce(announce.Dropped(idx, total))
}

// cancel restores every grabbed item to its recorded start index and
// ends the session without further move events.
func (a *Adapter) cancel() {
	a.reg.CancelWithRevert(session.KeyboardID)
	a.release()
	a.ann.Announce(announce.Cancelled())
}

// release clears grab marks and state.
func (a *Adapter) release() {
	a.mu.Lock()
	items := a.grabbed
	cur := a.current
	a.grabbing = false
	a.grabbed = nil
	a.current = nil
	a.mu.Unlock()

	for _, it := range items {
		it.SetAttr(ariaGrabbed, "false")
		if a.cfg.GrabbedClass != "" {
			it.RemoveClass(a.cfg.GrabbedClass)
		}
	}
	if cur != nil {
		cur.Model().Element().RemoveAttr(ariaDropEffect)
	}
	a.mu.Lock()
	origin := a.ctrl
	a.mu.Unlock()
	if origin != nil && origin != cur {
		origin.Model().Element().RemoveAttr(ariaDropEffect)
	}
}

// moveFocus advances focus by delta eligible items, range-selecting from
// the anchor when shift is held.
func (a *Adapter) moveFocus(delta int, shift bool) {
	a.mu.Lock()
	ctrl := a.ctrl
	store := a.store
	a.mu.Unlock()
	if store == nil {
		return
	}

	model := ctrl.Model()
	items := model.Items()
	if len(items) == 0 {
		return
	}

	idx := 0
	if f := store.Focused(); f != nil {
		idx = model.IndexOf(f) + delta
	} else if delta < 0 {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(items) {
		idx = len(items) - 1
	}

	store.SetFocus(items[idx])
	if shift {
		anchor := store.LastSelected()
		if anchor == nil {
			anchor = items[idx]
		}
		store.SelectRange(anchor, items[idx])
	}
	a.ann.Announce(announce.Position(idx, len(items)))
}

// focusEdge jumps focus to the first (0) or last (-1) item.
func (a *Adapter) focusEdge(edge int, shift bool) {
	a.mu.Lock()
	ctrl := a.ctrl
	store := a.store
	a.mu.Unlock()
	if store == nil {
		return
	}
	items := ctrl.Model().Items()
	if len(items) == 0 {
		return
	}
	idx := 0
	if edge != 0 {
		idx = len(items) - 1
	}
	store.SetFocus(items[idx])
	if shift {
		anchor := store.LastSelected()
		if anchor == nil {
			anchor = items[idx]
		}
		store.SelectRange(anchor, items[idx])
	}
	a.ann.Announce(announce.Position(idx, len(items)))
}

// spaceSelect toggles the focused item, or range-extends from the anchor
// when shift is held.
func (a *Adapter) spaceSelect(shift bool) {
	a.mu.Lock()
	store := a.store
	a.mu.Unlock()
	if store == nil {
		return
	}
	f := store.Focused()
	if f == nil {
		return
	}
	if shift {
		anchor := store.LastSelected()
		if anchor == nil {
			anchor = f
		}
		store.SelectRange(anchor, f)
		return
	}
	store.Toggle(f)
}

func (a *Adapter) currentCtrl() session.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil {
		return a.current
	}
	return a.ctrl
}

func (a *Adapter) grabbedItems() []*dom.Element {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.grabbed
}

// axisOf resolves the container's sort axis, detecting from the first
// two items when automatic.
func (a *Adapter) axisOf(ctrl session.Controller) geom.Axis {
	if a.cfg.Direction != geom.AxisAuto {
		return a.cfg.Direction
	}
	if ctrl == nil {
		return geom.AxisVertical
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
