package session

import (
	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/event"
)

// MoveOver applies one hover-driven reorder: the dragged set lands before
// or after the hovered item in the target container. All adapters route
// their geometry through here so every modality produces identical event
// shapes. The move event (with its host veto) fires before the order
// changes; sort fires on any committed reshuffle, update and change only
// when the target is the session's origin. Reports whether the order
// changed.
func (r *Registry) MoveOver(id string, target Controller, hovered *dom.Element, after bool) bool {
	sess, ok := r.prepareTarget(id, target)
	if !ok {
		return false
	}

	idx := target.Model().InsertionIndex(sess.Primary(), hovered, after)
	if idx < 0 {
		return false
	}

	mp := event.MovePayload{
		Item:            sess.Primary(),
		Items:           sess.Items(),
		From:            sess.origin.Model().Element(),
		To:              target.Model().Element(),
		Related:         hovered,
		WillInsertAfter: after,
		DraggedRect:     sess.Primary().Bounds(),
		TargetRect:      hovered.Bounds(),
	}
	r.emit(sess.origin.Sink(), event.TypeMove, id, mp)
	if r.onMove != nil && !r.onMove(mp) {
		return false
	}

	return r.applySet(sess, target, idx)
}

// MoveSet is the index-addressed variant of MoveOver used by the keyboard
// path: the dragged set lands contiguously at the target index, relative
// order preserved. Same compatibility gating and emission rules, without
// the hover geometry and its veto. Reports whether the order changed.
func (r *Registry) MoveSet(id string, target Controller, idx int) bool {
	sess, ok := r.prepareTarget(id, target)
	if !ok {
		return false
	}
	return r.applySet(sess, target, idx)
}

// prepareTarget fetches the session, gates compatibility for
// cross-container moves, and records the put target.
func (r *Registry) prepareTarget(id string, target Controller) (*Session, bool) {
	if target == nil || target.Model() == nil {
		return nil, false
	}
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if !ok || !r.compatibleLocked(sess, target) {
		r.mu.Unlock()
		return nil, false
	}
	r.mu.Unlock()

	r.SetTarget(id, target)
	return sess, true
}

// applySet moves the session's items so they land contiguously at idx in
// the target, then emits the reorder events.
func (r *Registry) applySet(sess *Session, target Controller, idx int) bool {
	model := target.Model()
	oldIdx := model.IndexOf(sess.Primary())

	changed := false
	if oldIdx >= 0 {
		changed = model.MoveManyTo(sess.items, idx)
	} else {
		// Cross-container arrival: adopt each item in order.
		for i, it := range sess.items {
			if model.Insert(it, idx+i) {
				changed = true
			}
		}
	}
	if !changed {
		return false
	}

	sp := event.SortPayload{
		Item:     sess.Primary(),
		Items:    sess.Items(),
		From:     sess.origin.Model().Element(),
		To:       model.Element(),
		OldIndex: oldIdx,
		NewIndex: model.IndexOf(sess.Primary()),
	}
	r.emit(sess.origin.Sink(), event.TypeSort, sess.id, sp)
	if model == sess.origin.Model() {
		r.emit(sess.origin.Sink(), event.TypeUpdate, sess.id, sp)
		r.emit(sess.origin.Sink(), event.TypeChange, sess.id, sp)
	}
	return true
}
