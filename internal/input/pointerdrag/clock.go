package pointerdrag

import "time"

// Timer is a cancellable pending callback. Stop reports whether the
// callback was prevented from running.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Injectable so tests drive the press-delay
// path without sleeping.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock is the wall-clock implementation.
var SystemClock Clock = realClock{}
