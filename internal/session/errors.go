package session

import "errors"

// Registry errors.
var (
	// ErrNilController is returned when registering a nil or model-less
	// controller.
	ErrNilController = errors.New("session: controller is nil or has no model")

	// ErrUnknownContainer marks the degraded state where a hovered
	// container has no registered controller. Adapters treat it as
	// incompatible; it indicates a registration gap, not user error.
	ErrUnknownContainer = errors.New("session: no controller registered for container")
)
