// Package announce carries the accessibility announcements the keyboard
// path produces: grab, move, drop, and cancel messages phrased the way a
// screen reader live region expects them.
package announce

import (
	"fmt"
	"sync"

	"github.com/dshills/dragflow/internal/log"
)

// Announcer receives accessibility messages. Hosts bridge it to an ARIA
// live region or equivalent.
type Announcer interface {
	Announce(msg string)
}

// Func adapts a function to Announcer.
type Func func(msg string)

// Announce implements Announcer.
func (f Func) Announce(msg string) { f(msg) }

// LogAnnouncer writes announcements to a logger. The default when a host
// supplies nothing.
type LogAnnouncer struct {
	logger *log.Logger
}

// NewLogAnnouncer creates an announcer over the logger.
func NewLogAnnouncer(l *log.Logger) *LogAnnouncer {
	if l == nil {
		l = log.Null
	}
	return &LogAnnouncer{logger: l.WithComponent("announce")}
}

// Announce implements Announcer.
func (a *LogAnnouncer) Announce(msg string) {
	a.logger.Info("%s", msg)
}

// Recorder stores announcements in order. For tests and the demo's
// status line.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

// Announce implements Announcer.
func (r *Recorder) Announce(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// Messages returns a copy of the recorded announcements.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Last returns the most recent announcement, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return ""
	}
	return r.msgs[len(r.msgs)-1]
}

// Position phrases a 0-based index as "item N of M".
func Position(index, total int) string {
	return fmt.Sprintf("item %d of %d", index+1, total)
}

// Grabbed phrases a pickup of count items at the 0-based index.
func Grabbed(count, index, total int) string {
	if count > 1 {
		return fmt.Sprintf("grabbed %d items, %s", count, Position(index, total))
	}
	return "grabbed " + Position(index, total)
}

// Moved phrases a reposition to the 0-based index.
func Moved(index, total int) string {
	return "moved to " + Position(index, total)
}

// Dropped phrases a drop at the 0-based index.
func Dropped(index, total int) string {
	return "dropped at " + Position(index, total)
}

// Cancelled phrases a cancelled drag.
func Cancelled() string {
	return "drag cancelled, order restored"
}
