package event

import (
	"errors"
	"fmt"
)

// Sink errors.
var (
	// ErrSinkClosed is returned when operating on a closed sink.
	ErrSinkClosed = errors.New("event: sink is closed")

	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("event: handler is nil")

	// ErrInvalidType is returned when subscribing to an unknown event type.
	ErrInvalidType = errors.New("event: invalid event type")

	// ErrSubscriptionCancelled is returned when resuming a cancelled
	// subscription.
	ErrSubscriptionCancelled = errors.New("event: subscription is cancelled")
)

// HandlerError wraps an error returned by a handler during dispatch.
type HandlerError struct {
	// SubscriptionID identifies the failing subscription.
	SubscriptionID string

	// EventType is the type being delivered.
	EventType Type

	// Err is the handler's error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("event: handler %s failed on %s: %v", e.SubscriptionID, e.EventType, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error { return e.Err }

// PanicError wraps a recovered handler panic.
type PanicError struct {
	// SubscriptionID identifies the panicking subscription.
	SubscriptionID string

	// EventType is the type being delivered.
	EventType Type

	// Recovered is the value recovered from the panic.
	Recovered any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("event: handler %s panicked on %s: %v", e.SubscriptionID, e.EventType, e.Recovered)
}
