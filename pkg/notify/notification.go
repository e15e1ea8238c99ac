// Package notify provides alert dispatch with cross-file throttling.
package notify

import "time"

// Notification represents a notification to be sent.
type Notification struct {
	Title   string
	Message string
	Time    time.Time
	Pattern string
}

// Notifier sends notifications.
type Notifier interface {
	Send(notification Notification) error
}

// RateLimiter limits notification frequency.
type RateLimiter interface {
	Allow() bool
	Reset()
}
