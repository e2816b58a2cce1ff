package testutil

import "sync"

// DeterministicClock is a thread-safe millisecond clock for tests.
//
// Each call to NowMillis advances the clock by a fixed step, so replies
// posted through an in-memory adapter get strictly increasing timestamps
// that are identical on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	step  int64
	ticks int64
}

// NewDeterministicClock creates a clock whose first reading is start.
//
// A step of zero or less is treated as 1ms.
func NewDeterministicClock(start, step int64) *DeterministicClock {
	if step <= 0 {
		step = 1
	}
	return &DeterministicClock{start: start, step: step}
}

// NowMillis returns the current reading and advances the clock.
func (c *DeterministicClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.start + c.ticks*c.step
	c.ticks++
	return now
}

// Current returns the next reading without advancing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start + c.ticks*c.step
}

// Reset rewinds the clock to its start.
//
// Used for test reuse. After Reset(), NowMillis returns start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
