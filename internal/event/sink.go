package event

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/dragflow/internal/log"
)

// Sink is one container's event channel: synchronous ordered dispatch to
// subscribed handlers. Emission happens in the caller's goroutine and
// completes before Emit returns; handlers run by ascending priority, then
// subscription order. Handler panics are recovered and counted so one bad
// callback cannot break a drag.
type Sink struct {
	mu          sync.RWMutex
	containerID string
	subs        map[Type][]*Subscription
	seq         uint64
	closed      bool
	logger      *log.Logger

	emitted       atomic.Uint64
	delivered     atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// SinkOption configures a sink.
type SinkOption func(*Sink)

// WithLogger sets the sink's logger.
func WithLogger(l *log.Logger) SinkOption {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSink creates a sink for the container with the given id.
func NewSink(containerID string, opts ...SinkOption) *Sink {
	s := &Sink{
		containerID: containerID,
		subs:        make(map[Type][]*Subscription),
		logger:      log.Null,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("event").WithField("container", containerID)
	return s
}

// ContainerID returns the owning container's id.
func (s *Sink) ContainerID() string { return s.containerID }

// On subscribes a handler to an event type. TypeAny receives every event.
func (s *Sink) On(t Type, h Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if !t.Valid() {
		return nil, ErrInvalidType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSinkClosed
	}

	s.seq++
	sub := newSubscription(t, h, s.seq, opts...)
	s.subs[t] = append(s.subs[t], sub)
	return sub, nil
}

// OnFunc subscribes a handler function to an event type.
func (s *Sink) OnFunc(t Type, fn func(Event) error, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.On(t, HandlerFunc(fn), opts...)
}

// Once subscribes a handler that is cancelled after its first delivery.
func (s *Sink) Once(t Type, h Handler, opts ...SubscriptionOption) (*Subscription, error) {
	return s.On(t, h, append(opts, WithOnce())...)
}

// Off cancels a subscription and removes it from the sink.
func (s *Sink) Off(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(sub)
}

func (s *Sink) removeLocked(sub *Subscription) {
	list := s.subs[sub.eventType]
	for i, candidate := range list {
		if candidate == sub {
			s.subs[sub.eventType] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// EmitOption adjusts the emitted event's metadata.
type EmitOption func(*Metadata)

// WithSession stamps the emission with a drag session id.
func WithSession(id string) EmitOption {
	return func(m *Metadata) { m.Session = id }
}

// Emit publishes an event synchronously to all matching subscriptions, in
// priority-then-subscription order, and returns the emitted event. A
// closed sink emits nothing.
func (s *Sink) Emit(t Type, p Payload, opts ...EmitOption) Event {
	meta := newMetadata(s.containerID, "")
	for _, opt := range opts {
		opt(&meta)
	}
	ev := Event{Type: t, Meta: meta, Payload: p}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ev
	}
	matched := make([]*Subscription, 0, len(s.subs[t])+len(s.subs[TypeAny]))
	matched = append(matched, s.subs[t]...)
	if t != TypeAny {
		matched = append(matched, s.subs[TypeAny]...)
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].priority != matched[j].priority {
			return matched[i].priority < matched[j].priority
		}
		return matched[i].seq < matched[j].seq
	})

	s.emitted.Add(1)

	var spent []*Subscription
	for _, sub := range matched {
		if !sub.shouldDeliver(ev) {
			continue
		}
		s.dispatch(sub, ev)
		if sub.once {
			sub.Cancel()
			spent = append(spent, sub)
		}
	}

	if len(spent) > 0 {
		s.mu.Lock()
		for _, sub := range spent {
			s.removeLocked(sub)
		}
		s.mu.Unlock()
	}

	return ev
}

// dispatch runs one handler with panic isolation.
func (s *Sink) dispatch(sub *Subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.handlerPanics.Add(1)
			perr := &PanicError{SubscriptionID: sub.id, EventType: ev.Type, Recovered: r}
			s.logger.Error("handler panic: %v", perr)
		}
	}()

	if err := sub.handler.Handle(ev); err != nil {
		s.handlerErrors.Add(1)
		herr := &HandlerError{SubscriptionID: sub.id, EventType: ev.Type, Err: err}
		s.logger.Debug("handler error: %v", herr)
		return
	}
	s.delivered.Add(1)
}

// Close cancels every subscription and rejects further use.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, list := range s.subs {
		for _, sub := range list {
			sub.Cancel()
		}
	}
	s.subs = make(map[Type][]*Subscription)
}

// Closed reports whether the sink has been closed.
func (s *Sink) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// SubscriberCount returns the number of active subscriptions for a type.
func (s *Sink) SubscriberCount(t Type) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sub := range s.subs[t] {
		if sub.IsActive() {
			n++
		}
	}
	return n
}

// Stats contains sink counters.
type Stats struct {
	// Emitted is the number of Emit calls that dispatched.
	Emitted uint64

	// Delivered is the number of successful handler executions.
	Delivered uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of recovered handler panics.
	HandlerPanics uint64

	// ActiveSubscriptions is the current number of active subscriptions.
	ActiveSubscriptions int
}

// Stats returns a snapshot of the sink's counters.
func (s *Sink) Stats() Stats {
	s.mu.RLock()
	active := 0
	for _, list := range s.subs {
		for _, sub := range list {
			if sub.IsActive() {
				active++
			}
		}
	}
	s.mu.RUnlock()

	return Stats{
		Emitted:             s.emitted.Load(),
		Delivered:           s.delivered.Load(),
		HandlerErrors:       s.handlerErrors.Load(),
		HandlerPanics:       s.handlerPanics.Load(),
		ActiveSubscriptions: active,
	}
}
