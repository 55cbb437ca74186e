package event

import (
	"sync"
	"time"
)

// Clock supplies event timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock returns a constant time, optionally advancing by Step on every
// call. It is meant for tests and replays.
type FixedClock struct {
	mu   sync.Mutex
	At   time.Time
	Step time.Duration
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.At
	c.At = c.At.Add(c.Step)
	return now
}

// NotBefore returns at, or floor when at is earlier. Appending with clamped
// timestamps keeps the log non-decreasing even when the clock moves backwards.
func NotBefore(at, floor time.Time) time.Time {
	if at.Before(floor) {
		return floor
	}
	return at
}
