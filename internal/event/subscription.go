package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState is the lifecycle state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionActive receives events.
	SubscriptionActive SubscriptionState = iota

	// SubscriptionPaused skips delivery but stays registered.
	SubscriptionPaused

	// SubscriptionCancelled is terminal; the sink sweeps it out.
	SubscriptionCancelled
)

// String returns the state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionActive:
		return "active"
	case SubscriptionPaused:
		return "paused"
	case SubscriptionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is one handler registration on a sink.
type Subscription struct {
	id        string
	eventType Type
	handler   Handler
	priority  Priority
	filter    FilterFunc
	once      bool

	// seq breaks priority ties in subscription order.
	seq uint64

	state atomic.Int32

	// fired guards once-subscriptions against double delivery.
	fired atomic.Bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// WithPriority sets the execution priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *Subscription) { s.priority = p }
}

// WithFilter sets a delivery predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(s *Subscription) { s.filter = f }
}

// WithOnce cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(s *Subscription) { s.once = true }
}

func newSubscription(t Type, h Handler, seq uint64, opts ...SubscriptionOption) *Subscription {
	s := &Subscription{
		id:        uuid.New().String(),
		eventType: t,
		handler:   h,
		priority:  PriorityNormal,
		seq:       seq,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the subscription's unique id.
func (s *Subscription) ID() string { return s.id }

// Type returns the subscribed event type.
func (s *Subscription) Type() Type { return s.eventType }

// Priority returns the execution priority.
func (s *Subscription) Priority() Priority { return s.priority }

// State returns the current lifecycle state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive reports whether the subscription currently receives events.
func (s *Subscription) IsActive() bool {
	return s.State() == SubscriptionActive
}

// Pause suspends delivery. No-op unless active.
func (s *Subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionActive), int32(SubscriptionPaused))
}

// Resume re-enables delivery. Returns ErrSubscriptionCancelled when the
// subscription has already been cancelled.
func (s *Subscription) Resume() error {
	if s.State() == SubscriptionCancelled {
		return ErrSubscriptionCancelled
	}
	s.state.CompareAndSwap(int32(SubscriptionPaused), int32(SubscriptionActive))
	return nil
}

// Cancel terminates the subscription. Idempotent.
func (s *Subscription) Cancel() {
	s.state.Store(int32(SubscriptionCancelled))
}

// shouldDeliver reports whether this event reaches the handler.
func (s *Subscription) shouldDeliver(e Event) bool {
	if !s.IsActive() {
		return false
	}
	if s.filter != nil && !s.filter(e) {
		return false
	}
	if s.once && !s.fired.CompareAndSwap(false, true) {
		return false
	}
	return true
}
