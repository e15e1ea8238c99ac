package notify

import (
	"sync"
	"time"
)

// WindowRateLimiter caps the number of notifications per fixed window.
// It is shared by every file's classification path and safe for
// concurrent use.
type WindowRateLimiter struct {
	max    int
	window time.Duration

	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// NewWindowRateLimiter creates a limiter allowing max events per window.
func NewWindowRateLimiter(max int, window time.Duration) *WindowRateLimiter {
	return &WindowRateLimiter{
		max:         max,
		window:      window,
		windowStart: time.Now(),
	}
}

// Allow reports whether another event fits in the current window,
// consuming a slot when it does. The window resets once its duration
// has elapsed.
func (l *WindowRateLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.windowStart) >= l.window {
		l.count = 0
		l.windowStart = now
	}

	if l.count < l.max {
		l.count++
		return true
	}
	return false
}

// Reset clears the current window.
func (l *WindowRateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count = 0
	l.windowStart = time.Now()
}
