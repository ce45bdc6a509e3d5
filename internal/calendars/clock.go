package calendars

import (
	"sync/atomic"
	"time"
)

// Clock supplies timestamps for created_at and updated_at.
type Clock interface {
	Now() time.Time
}

// MonotonicClock returns UTC times at microsecond precision, each strictly
// later than the previous one it returned.
type MonotonicClock struct {
	last atomic.Int64 // unix microseconds
}

func (c *MonotonicClock) Now() time.Time {
	for {
		last := c.last.Load()
		now := time.Now().UnixMicro()
		if now <= last {
			now = last + 1
		}
		if c.last.CompareAndSwap(last, now) {
			return time.UnixMicro(now).UTC()
		}
	}
}
