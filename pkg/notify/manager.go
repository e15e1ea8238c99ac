package notify

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/matcharr/logwatcher/pkg/config"
	"github.com/matcharr/logwatcher/pkg/logging"
)

// maxBodyLen bounds the notification body; longer lines are cut to
// truncateAt and suffixed with an ellipsis.
const (
	maxBodyLen = 200
	truncateAt = 197
)

// Manager decides whether a matched line becomes a notification:
// eligibility, throttling, and payload shaping.
type Manager struct {
	cfg      *config.Config
	notifier Notifier
	limiter  RateLimiter
	logger   zerolog.Logger
}

// NewManager creates a notification manager.
func NewManager(cfg *config.Config, notifier Notifier, limiter RateLimiter) *Manager {
	return &Manager{
		cfg:      cfg,
		notifier: notifier,
		limiter:  limiter,
		logger:   logging.GetLogger("notify"),
	}
}

// Notify dispatches a notification for a matched line and reports
// whether one was actually sent. Ineligible patterns and throttled
// attempts are silently skipped; dispatch failures are logged and
// swallowed so matching and output continue.
func (m *Manager) Notify(pattern, line, sourceLabel string) bool {
	if !m.cfg.ShouldNotify(pattern) {
		return false
	}

	if m.limiter != nil && !m.limiter.Allow() {
		m.logger.Debug().Str("pattern", pattern).Msg("notification throttled")
		return false
	}

	n := Notification{
		Title:   formatTitle(pattern, sourceLabel),
		Message: truncate(line),
		Time:    time.Now(),
		Pattern: pattern,
	}

	if err := m.notifier.Send(n); err != nil {
		m.logger.Warn().Err(err).Str("pattern", pattern).Msg("notification dispatch failed")
		return false
	}
	return true
}

func formatTitle(pattern, sourceLabel string) string {
	if sourceLabel != "" {
		return fmt.Sprintf("%s detected in %s", pattern, sourceLabel)
	}
	return fmt.Sprintf("%s detected", pattern)
}

func truncate(line string) string {
	runes := []rune(line)
	if len(runes) <= maxBodyLen {
		return line
	}
	return string(runes[:truncateAt]) + "..."
}
