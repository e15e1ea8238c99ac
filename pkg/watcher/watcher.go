// Package watcher wires tailers, the matcher, output, and the notifier
// into the run loop.
package watcher

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/matcharr/logwatcher/pkg/config"
	"github.com/matcharr/logwatcher/pkg/fileutil"
	"github.com/matcharr/logwatcher/pkg/logging"
	"github.com/matcharr/logwatcher/pkg/match"
	"github.com/matcharr/logwatcher/pkg/notify"
	"github.com/matcharr/logwatcher/pkg/output"
	"github.com/matcharr/logwatcher/pkg/tail"
)

// eventBufferSize bounds the shared event channel. Producers block on
// line sends when the consumer falls behind; error sends are dropped
// instead of blocking.
const eventBufferSize = 100

// Watcher runs the watch loop: one tail goroutine per file, a single
// consumer serializing classification, printing, and notification.
type Watcher struct {
	cfg      *config.Config
	matcher  *match.Matcher
	printer  *output.Printer
	notifier *notify.Manager

	stats  output.Stats
	logger zerolog.Logger
}

// New creates a watcher from its collaborators.
func New(cfg *config.Config, matcher *match.Matcher, printer *output.Printer, notifier *notify.Manager) *Watcher {
	return &Watcher{
		cfg:      cfg,
		matcher:  matcher,
		printer:  printer,
		notifier: notifier,
		logger:   logging.GetLogger("watcher"),
	}
}

// Stats returns the accumulated run counters.
func (w *Watcher) Stats() output.Stats {
	return w.stats
}

// Run validates the requested files and executes either a dry-run scan
// or the tail loop, then prints the shutdown summary.
func (w *Watcher) Run(ctx context.Context) error {
	valid, warnings, err := fileutil.Validate(w.cfg.Files)
	for _, warning := range warnings {
		w.printer.Warning(warning)
	}
	if err != nil {
		return err
	}

	w.stats.FilesWatched = len(valid)
	w.printer.StartupInfo()

	if w.cfg.DryRun {
		w.runDry(valid)
	} else {
		w.runTail(ctx, valid)
	}

	w.printer.ShutdownSummary(w.stats)
	return nil
}

// runDry scans each file once from the beginning, counting matches per
// pattern. No polling loop is started and nothing is notified.
func (w *Watcher) runDry(files []string) {
	w.logger.Info().Msg("running in dry-run mode")

	counts := make(map[string]int)
	for _, path := range files {
		label := fileutil.Basename(path)
		t := tail.New(path, w.cfg.PollInterval, w.cfg.BufferSize)

		err := t.ScanAll(func(line string) error {
			w.stats.LinesProcessed++
			if w.matcher.Excluded(line) {
				return nil
			}
			result := w.matcher.Classify(line)
			if result.Matched {
				w.stats.MatchesFound++
				counts[result.Pattern]++
				w.printer.PrintLine(line, label, result, true)
			}
			return nil
		})
		if err != nil {
			w.printer.FileError(path, err.Error())
		}
	}

	w.printer.DryRunSummary(counts)
}

// runTail spawns one tail goroutine per file and drains their shared
// event channel until every loop has stopped or ctx is cancelled.
func (w *Watcher) runTail(ctx context.Context, files []string) {
	w.logger.Info().Msg("running in tail mode")

	events := make(chan tail.Event, eventBufferSize)

	var wg sync.WaitGroup
	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			tail.New(path, w.cfg.PollInterval, w.cfg.BufferSize).Run(ctx, events)
		}(path)
	}

	go func() {
		wg.Wait()
		close(events)
	}()

	for ev := range events {
		switch ev.Kind {
		case tail.EventLine:
			w.ProcessLine(fileutil.Basename(ev.Path), ev.Line)
		case tail.EventRotated:
			w.printer.FileRotated(ev.Path)
		case tail.EventReopened:
			w.printer.FileReopened(ev.Path)
		case tail.EventError:
			w.printer.FileError(ev.Path, ev.Err.Error())
		}
	}
}

// ProcessLine classifies and renders one line, sending a notification
// when the matched pattern is eligible. Excluded lines are never
// classified; they render as plain non-matching lines.
func (w *Watcher) ProcessLine(sourceLabel, line string) {
	w.stats.LinesProcessed++

	if w.matcher.Excluded(line) {
		w.printer.PrintLine(line, sourceLabel, match.Result{}, false)
		return
	}

	result := w.matcher.Classify(line)
	if result.Matched {
		w.stats.MatchesFound++
		if result.ShouldNotify && w.notifier.Notify(result.Pattern, line, sourceLabel) {
			w.stats.NotificationsSent++
		}
	}

	w.printer.PrintLine(line, sourceLabel, result, false)
}
