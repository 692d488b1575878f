package app

import (
	"time"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/dkeye/rtcroom/internal/domain"
)

// Throttle lets at most one message per interval through for each sender. The
// last-message time is refreshed on every message, delivered or not, so a
// suppressed message restarts the cooldown.
type Throttle struct {
	interval time.Duration
	now      func() time.Time
}

func NewThrottle(interval time.Duration, now func() time.Time) *Throttle {
	return &Throttle{interval: interval, now: now}
}

// Allow records a message from h and reports whether it may be delivered.
// ok is false when h is not in the roster.
func (t *Throttle) Allow(r *core.Roster, h domain.Handle) (p domain.Participant, deliver, ok bool) {
	now := t.now()
	prev, p, ok := r.MarkMessage(h, now)
	if !ok {
		return p, false, false
	}
	return p, prev.IsZero() || now.Sub(prev) >= t.interval, true
}
