package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matcharr/logwatcher/pkg/config"
	"github.com/matcharr/logwatcher/pkg/match"
	"github.com/matcharr/logwatcher/pkg/notify"
	"github.com/matcharr/logwatcher/pkg/output"
	"github.com/matcharr/logwatcher/pkg/watcher"
)

// throttleWindow is the sliding interval the notification cap applies
// to.
const throttleWindow = time.Second

// Dependencies holds the wired application components.
type Dependencies struct {
	Config   *config.Config
	Matcher  *match.Matcher
	Printer  *output.Printer
	Notifier *notify.Manager
	Watcher  *watcher.Watcher
}

// newDependencies wires all components from the validated config.
func newDependencies(cfg *config.Config) *Dependencies {
	deps := &Dependencies{
		Config:  cfg,
		Matcher: match.New(cfg),
		Printer: output.NewPrinter(cfg, os.Stdout, os.Stderr),
	}

	limiter := notify.NewWindowRateLimiter(cfg.NotifyThrottle, throttleWindow)
	deps.Notifier = notify.NewManager(cfg, buildSink(cfg), limiter)
	deps.Watcher = watcher.New(cfg, deps.Matcher, deps.Printer, deps.Notifier)

	return deps
}

// buildSink picks the notification transport: ntfy when a topic is
// configured, the desktop environment otherwise, stdout as a last
// resort.
func buildSink(cfg *config.Config) notify.Notifier {
	if cfg.NtfyTopic != "" {
		return notify.NewNtfyClient(cfg.NtfyServer, cfg.NtfyTopic)
	}

	if desktop, err := notify.NewDesktopNotifier(); err == nil {
		return desktop
	} else if cfg.NotifyEnabled {
		log.Warn().Err(err).Msg("desktop notifications unavailable, falling back to stdout")
	}

	return notify.NewStdoutNotifier()
}
