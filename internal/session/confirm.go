package session

import (
	"time"

	"inventory-dashboard/internal/debounce"

	"github.com/google/uuid"
)

// confirm is the "tap again to delete" token. At most one record is armed;
// arming another replaces it. An armed token expires after ttl.
type confirm struct {
	sched debounce.Scheduler
	ttl   time.Duration

	id    uuid.UUID
	timer debounce.Timer
	gen   uint64
}

func newConfirm(sched debounce.Scheduler, ttl time.Duration) *confirm {
	return &confirm{sched: sched, ttl: ttl}
}

// Armed reports whether id is waiting for its second tap.
func (c *confirm) Armed(id uuid.UUID) bool {
	return c.id != uuid.Nil && c.id == id
}

func (c *confirm) Current() uuid.UUID {
	return c.id
}

// Arm marks id and schedules expire(gen). The callback must check the
// generation through Expire before clearing anything.
func (c *confirm) Arm(id uuid.UUID, expire func(gen uint64)) {
	c.stopTimer()
	c.gen++
	gen := c.gen
	c.id = id
	c.timer = c.sched.AfterFunc(c.ttl, func() { expire(gen) })
}

// Expire clears the token if gen is still the latest arming.
func (c *confirm) Expire(gen uint64) bool {
	if gen != c.gen || c.id == uuid.Nil {
		return false
	}
	c.id = uuid.Nil
	c.timer = nil
	return true
}

// Clear disarms early, cancelling the expiry.
func (c *confirm) Clear() {
	c.stopTimer()
	c.gen++
	c.id = uuid.Nil
}

func (c *confirm) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
