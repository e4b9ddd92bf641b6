package game

import (
	"sync"
	"time"
)

// Countdown is a cancellable per-second countdown. It decrements a
// remaining-seconds value once per tick while active, never below zero, and
// never restarts itself: reaching zero fires onExpire exactly once and
// deactivates. Stop deactivates without resetting the remaining value.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	active    bool
	stopCh    chan struct{}

	interval time.Duration
	onTick   func(remaining int)
	onExpire func()
}

// NewCountdown builds a countdown of the given length. The interval is one
// real-time second unless overridden (tests use shorter ticks). Callbacks
// may be nil and are invoked outside the countdown's lock.
func NewCountdown(seconds int, interval time.Duration, onTick func(int), onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{
		remaining: seconds,
		interval:  interval,
		stopCh:    make(chan struct{}),
		onTick:    onTick,
		onExpire:  onExpire,
	}
}

// Start activates the countdown and spawns its ticking goroutine.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.active = true
	c.mu.Unlock()

	go c.run()
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.active {
				c.mu.Unlock()
				return
			}
			c.remaining--
			if c.remaining <= 0 {
				c.remaining = 0
				c.active = false
				c.mu.Unlock()
				if c.onExpire != nil {
					c.onExpire()
				}
				return
			}
			left := c.remaining
			c.mu.Unlock()
			if c.onTick != nil {
				c.onTick(left)
			}
		}
	}
}

// Stop deactivates the countdown, keeping the remaining value.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.active = false
	close(c.stopCh)
}

// Remaining reports the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Active reports whether the countdown is still ticking.
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
