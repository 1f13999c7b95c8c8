// Package session implements the concurrent drag registry: a table of
// in-flight drag sessions keyed by gesture id, the transactional
// start/target/end protocol every input adapter drives, and the canonical
// event-emission sequence. The registry is the single point of truth
// shared by the adapters; sessions with different ids are fully
// independent, which is what lets two touch pointers drag on two
// containers at once.
//
// A Registry is an explicit injected instance, never a package global, so
// independent registries coexist in tests.
package session

import (
	"sort"
	"sync"

	"github.com/dshills/dragflow/internal/container"
	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/event"
	"github.com/dshills/dragflow/internal/group"
	"github.com/dshills/dragflow/internal/log"
)

// MoveVeto is the host's per-hover commitment hook. Returning false
// leaves the order untouched for this hover.
type MoveVeto func(event.MovePayload) bool

// Registry owns every in-flight session and the container→controller
// lookup. All operations are synchronous and safe to call from any
// adapter; mutating calls are defensive no-ops when the session they name
// does not exist.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	targets     map[string]Controller
	controllers map[*container.Model]Controller

	logger    *log.Logger
	onMove    MoveVeto
	transient []string
}

// RegistryOption configures a registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry's logger.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOnMove installs the host's hover-commitment veto.
func WithOnMove(fn MoveVeto) RegistryOption {
	return func(r *Registry) { r.onMove = fn }
}

// WithTransientClasses sets the default drag-transient classes stripped
// from clones when a controller does not implement CloneStyler.
func WithTransientClasses(names ...string) RegistryOption {
	return func(r *Registry) { r.transient = names }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions:    make(map[string]*Session),
		targets:     make(map[string]Controller),
		controllers: make(map[*container.Model]Controller),
		logger:      log.Null,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("session")
	return r
}

// Register adds a controller to the container lookup. Hovering a
// container that was never registered is an error state, so hosts must
// register every managed container at setup time.
func (r *Registry) Register(c Controller) error {
	if c == nil || c.Model() == nil {
		return ErrNilController
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[c.Model()] = c
	return nil
}

// Unregister removes a controller from the lookup.
func (r *Registry) Unregister(c Controller) {
	if c == nil || c.Model() == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, c.Model())
}

// ControllerFor returns the controller registered for the model.
func (r *Registry) ControllerFor(m *container.Model) (Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[m]
	return c, ok
}

// Controllers returns every registered controller.
func (r *Registry) Controllers() []Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Controller, 0, len(r.controllers))
	for _, c := range r.controllers {
		out = append(out, c)
	}
	return out
}

// ControllerForElement resolves the controller whose container element is
// el or an ancestor of el. Used by point hit-testing to map an arbitrary
// hovered node back to its container.
func (r *Registry) ControllerForElement(el *dom.Element) (Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for n := el; n != nil; n = n.Parent() {
		for m, c := range r.controllers {
			if m.Element() == n {
				return c, true
			}
		}
	}
	return nil, false
}

// Start creates a session for the gesture id. Any stale session with the
// same id is overwritten and its put target cleared; starting is always
// allowed from the origin's own perspective, so there is no compatibility
// check here. Items not belonging to the origin are dropped; with none
// left no session is created. Emits start on the origin sink.
func (r *Registry) Start(id string, items []*dom.Element, origin Controller) *Session {
	if origin == nil || origin.Model() == nil {
		return nil
	}

	model := origin.Model()
	owned := make([]*dom.Element, 0, len(items))
	indexes := make([]int, 0, len(items))
	for _, it := range items {
		idx := model.IndexOf(it)
		if idx < 0 {
			continue
		}
		owned = append(owned, it)
		indexes = append(indexes, idx)
	}
	if len(owned) == 0 {
		return nil
	}

	sess := &Session{
		id:           id,
		items:        owned,
		origin:       origin,
		originGroup:  resolveGroup(origin),
		startIndexes: indexes,
	}

	r.mu.Lock()
	if _, stale := r.sessions[id]; stale {
		r.logger.Warn("overwriting stale session %s", id)
	}
	r.sessions[id] = sess
	delete(r.targets, id)
	r.mu.Unlock()

	r.emit(origin.Sink(), event.TypeStart, id, event.SortPayload{
		Item:     sess.Primary(),
		Items:    sess.Items(),
		From:     model.Element(),
		To:       model.Element(),
		OldIndex: sess.StartIndex(),
		NewIndex: sess.StartIndex(),
	})
	return sess
}

// SetTarget records the candidate drop container for the session. A
// no-op without a session or when the origin group may not transfer into
// the target's group. The first cross-container target lazily resolves
// the pull mode and, in clone mode, creates the clone set — at most once
// per session no matter how many targets are hovered afterwards.
func (r *Registry) SetTarget(id string, target Controller) {
	if target == nil || target.Model() == nil {
		return
	}

	r.mu.Lock()
	sess, ok := r.sessions[id]
	if !ok || !r.compatibleLocked(sess, target) {
		r.mu.Unlock()
		return
	}
	if target.Model() != sess.origin.Model() && !sess.pullResolved {
		r.resolvePullLocked(sess, target)
	}
	r.targets[id] = target
	r.mu.Unlock()
}

// resolvePullLocked resolves the session's transfer mode against its
// first cross-container target and builds the clone set in clone mode.
func (r *Registry) resolvePullLocked(sess *Session, target Controller) {
	sess.pullResolved = true
	sess.pullMode = group.ModeMove

	og := sess.originGroup
	if og == nil {
		return
	}
	mode, err := og.PullModeTo(groupName(target))
	if err != nil {
		// Compatibility was checked; an error here means the group
		// changed underneath us. Default to move.
		r.logger.Warn("session %s: pull mode unresolved: %v", sess.id, err)
		return
	}
	sess.pullMode = mode
	if mode != group.ModeClone {
		return
	}

	strip := r.transient
	if cs, ok := sess.origin.(CloneStyler); ok {
		if own := cs.TransientClasses(); len(own) > 0 {
			strip = own
		}
	}
	sess.clones = make([]*dom.Element, len(sess.items))
	for i, it := range sess.items {
		sess.clones[i] = it.CloneForDrag(strip)
	}
}

// ClearTarget removes the recorded put target. The session and its clone
// set are untouched.
func (r *Registry) ClearTarget(id string) {
	r.mu.Lock()
	delete(r.targets, id)
	r.mu.Unlock()
}

// CanAcceptDrop reports whether the session may drop into the target.
// False without a session; same-group names short-circuit true; otherwise
// both directions must hold (origin pulls to target AND target puts from
// origin), falling back to plain name equality when either side has no
// resolvable group.
func (r *Registry) CanAcceptDrop(id string, target Controller) bool {
	if target == nil || target.Model() == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	return ok && r.compatibleLocked(sess, target)
}

func (r *Registry) compatibleLocked(sess *Session, target Controller) bool {
	if target.Model() == sess.origin.Model() {
		return true
	}
	tg := resolveGroup(target)
	if sess.originGroup == nil || tg == nil {
		return groupName(sess.origin) == groupName(target)
	}
	return group.Compatible(sess.originGroup, tg)
}

// End completes the session: the cross-container transfer events when a
// put target is recorded, then always unchoose and end on the origin
// sink, then removal of the session. A missing session is a no-op, so
// every adapter cleanup path may call End unconditionally; the second of
// two back-to-back calls does nothing.
func (r *Registry) End(id string) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	target := r.targets[id]
	delete(r.sessions, id)
	delete(r.targets, id)
	r.mu.Unlock()

	origin := sess.origin
	originEl := origin.Model().Element()
	cross := target != nil && target.Model() != origin.Model()
	mode, resolved := sess.PullMode()

	switch {
	case cross && mode == group.ModeClone:
		r.endClone(sess, target)

	case cross:
		if !resolved {
			mode = group.ModeMove
		}
		newIdx := target.Model().IndexOf(sess.Primary())
		tp := event.TransferPayload{
			SortPayload: event.SortPayload{
				Item:     sess.Primary(),
				Items:    sess.Items(),
				From:     originEl,
				To:       target.Model().Element(),
				OldIndex: sess.StartIndex(),
				NewIndex: newIdx,
			},
			PullMode: mode,
		}
		r.emit(origin.Sink(), event.TypeRemove, id, tp)
		if ts := target.Sink(); ts != nil && ts != origin.Sink() {
			r.emit(ts, event.TypeAdd, id, tp)
		}

	default:
		// Clone-mode drag that ended without a cross-container drop:
		// settle the origin back when the group asks for it.
		if mode == group.ModeClone && sess.originGroup != nil && sess.originGroup.RevertClone {
			r.restoreToOrigin(sess)
		}
	}

	to := originEl
	if cross {
		to = target.Model().Element()
	}
	final := event.SortPayload{
		Item:     sess.Primary(),
		Items:    sess.Items(),
		From:     originEl,
		To:       to,
		OldIndex: sess.StartIndex(),
		NewIndex: r.liveIndex(sess, target),
	}
	r.emit(origin.Sink(), event.TypeUnchoose, id, final)
	r.emit(origin.Sink(), event.TypeEnd, id, final)
}

// endClone settles a clone-mode cross-container drop: the originals go
// back to their start indexes, the clones materialize in the target at
// the drop position, and the clone/add pair is emitted.
func (r *Registry) endClone(sess *Session, target Controller) {
	origin := sess.origin
	dropIdx := target.Model().IndexOf(sess.Primary())
	if dropIdx < 0 {
		dropIdx = target.Model().Len()
	}

	r.restoreToOrigin(sess)
	for i, cl := range sess.clones {
		target.Model().Insert(cl, dropIdx+i)
	}

	cp := event.ClonePayload{
		TransferPayload: event.TransferPayload{
			SortPayload: event.SortPayload{
				Item:     sess.Primary(),
				Items:    sess.Items(),
				From:     origin.Model().Element(),
				To:       target.Model().Element(),
				OldIndex: sess.StartIndex(),
				NewIndex: dropIdx,
			},
			PullMode: group.ModeClone,
		},
		Clone:  sess.clones[0],
		Clones: sess.Clones(),
	}
	r.emit(origin.Sink(), event.TypeClone, sess.id, cp)

	if ts := target.Sink(); ts != nil && ts != origin.Sink() {
		ap := cp.TransferPayload
		ap.Item = cp.Clone
		ap.Items = cp.Clones
		r.emit(ts, event.TypeAdd, sess.id, ap)
	}
}

// CancelWithRevert restores every dragged item to its recorded start
// index in the origin container, clears the put target, and ends the
// session. The shared cleanup path for pointer-cancel, second-touch
// interruption, and keyboard Escape. A missing session is a no-op.
func (r *Registry) CancelWithRevert(id string) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.targets, id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	r.restoreToOrigin(sess)
	r.End(id)
}

// restoreToOrigin reinserts the session's items at their start indexes.
// The whole set is detached first: a start index is relative to the
// post-removal sibling list, so an item still sitting at a displaced
// position must not count as a sibling while the others go back.
// Insertion then proceeds ascending so each item lands against the
// already-settled prefix.
func (r *Registry) restoreToOrigin(sess *Session) {
	model := sess.origin.Model()
	type slot struct {
		item *dom.Element
		idx  int
	}
	slots := make([]slot, len(sess.items))
	for i, it := range sess.items {
		slots[i] = slot{item: it, idx: sess.startIndexes[i]}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].idx < slots[j].idx })
	for _, s := range slots {
		s.item.Detach()
	}
	for _, s := range slots {
		model.Insert(s.item, s.idx)
	}
}

// liveIndex returns the primary item's current index in whichever of the
// involved containers holds it now.
func (r *Registry) liveIndex(sess *Session, target Controller) int {
	if idx := sess.origin.Model().IndexOf(sess.Primary()); idx >= 0 {
		return idx
	}
	if target != nil {
		if idx := target.Model().IndexOf(sess.Primary()); idx >= 0 {
			return idx
		}
	}
	return event.NoIndex
}

// Session returns the session for the id.
func (r *Registry) Session(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// HasSession reports whether a session exists for the id.
func (r *Registry) HasSession(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// SessionCount returns the number of in-flight sessions.
func (r *Registry) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sessions returns every in-flight session.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// PutTarget returns the session's recorded put target.
func (r *Registry) PutTarget(id string) (Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.targets[id]
	return c, ok
}

func (r *Registry) emit(s *event.Sink, t event.Type, id string, p event.Payload) {
	if s == nil {
		return
	}
	s.Emit(t, p, event.WithSession(id))
}
