// Package tail implements the per-file polling state machine: offset
// tracking, rotation detection and recovery, and line splitting with
// partial-line retention across polls.
package tail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/matcharr/logwatcher/pkg/fileutil"
	"github.com/matcharr/logwatcher/pkg/logging"
)

// EventKind discriminates tail events.
type EventKind int

const (
	// EventLine carries one complete, non-empty line.
	EventLine EventKind = iota
	// EventRotated reports an observed size decrease.
	EventRotated
	// EventReopened reports successful rotation recovery.
	EventReopened
	// EventError reports a terminal error for this file's loop.
	EventError
)

// Event is what a tailer emits onto the shared channel.
type Event struct {
	Kind EventKind
	Path string
	Line string
	Err  error
}

// Tailer tracks the read offset of a single growing file. It is owned
// exclusively by its polling goroutine and must not be shared.
type Tailer struct {
	path         string
	pollInterval time.Duration
	bufferSize   int
	settleDelay  time.Duration

	offset  int64
	partial []byte

	logger zerolog.Logger
}

// New creates a tailer for the given file.
func New(path string, pollInterval time.Duration, bufferSize int) *Tailer {
	return &Tailer{
		path:         path,
		pollInterval: pollInterval,
		bufferSize:   bufferSize,
		settleDelay:  time.Second,
		logger:       logging.GetLogger("tail").With().Str("file", path).Logger(),
	}
}

// Offset returns the last committed read offset.
func (t *Tailer) Offset() int64 {
	return t.offset
}

// Run polls the file until ctx is cancelled or a terminal error occurs,
// emitting events onto the channel. Tail semantics: pre-existing
// content is skipped, only bytes appended after start are read.
func (t *Tailer) Run(ctx context.Context, events chan<- Event) {
	size, err := fileutil.Size(t.path)
	if err != nil {
		t.sendError(events, err)
		return
	}
	t.offset = size
	t.logger.Debug().Int64("offset", size).Msg("tailing started")

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := t.poll(ctx, events); err != nil {
			if !errors.Is(err, context.Canceled) {
				t.sendError(events, err)
			}
			return
		}
	}
}

// poll runs one iteration of the state machine. A returned error is
// terminal for this file.
func (t *Tailer) poll(ctx context.Context, events chan<- Event) error {
	size, err := fileutil.Size(t.path)
	if err != nil {
		return err
	}

	switch {
	case size < t.offset:
		return t.recoverRotation(ctx, events)
	case size > t.offset:
		return t.readNew(ctx, events)
	default:
		return nil
	}
}

// recoverRotation handles an observed size decrease: report it, wait
// for the rotation to settle, then resume from offset zero if the file
// still exists.
func (t *Tailer) recoverRotation(ctx context.Context, events chan<- Event) error {
	t.logger.Info().Int64("offset", t.offset).Msg("rotation detected")
	if err := t.send(ctx, events, Event{Kind: EventRotated, Path: t.path}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(t.settleDelay):
	}

	if _, err := os.Stat(t.path); err != nil {
		return fmt.Errorf("file not found after rotation: %w", err)
	}

	t.offset = 0
	t.partial = nil
	return t.send(ctx, events, Event{Kind: EventReopened, Path: t.path})
}

// readNew reads from the committed offset to EOF, emitting complete
// lines. An unterminated trailing line is retained and prepended on the
// next read rather than dropped.
func (t *Tailer) readNew(ctx context.Context, events chan<- Event) error {
	f, err := os.Open(t.path) // #nosec G304 - operator-supplied path
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d failed: %w", t.offset, err)
	}

	reader := bufio.NewReaderSize(f, t.bufferSize)
	consumed := int64(0)

	for {
		chunk, readErr := reader.ReadBytes('\n')
		consumed += int64(len(chunk))

		if readErr == nil {
			line := string(t.partial) + string(chunk)
			t.partial = nil
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				if err := t.send(ctx, events, Event{Kind: EventLine, Path: t.path, Line: trimmed}); err != nil {
					return err
				}
			}
			continue
		}

		if errors.Is(readErr, io.EOF) {
			if len(chunk) > 0 {
				t.partial = append(t.partial, chunk...)
			}
			break
		}
		return readErr
	}

	t.offset += consumed
	return nil
}

// ScanAll reads the whole file once from the beginning, invoking fn for
// every non-empty trimmed line. Used by dry-run mode; no offsets are
// recorded.
func (t *Tailer) ScanAll(fn func(line string) error) error {
	f, err := os.Open(t.path) // #nosec G304 - operator-supplied path
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, t.bufferSize), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// send delivers an event, giving up only when ctx is cancelled.
func (t *Tailer) send(ctx context.Context, events chan<- Event, ev Event) error {
	select {
	case events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sendError is best-effort: if the channel is full the event is dropped
// rather than blocking a dying loop.
func (t *Tailer) sendError(events chan<- Event, err error) {
	t.logger.Error().Err(err).Msg("tailing stopped")
	select {
	case events <- Event{Kind: EventError, Path: t.path, Err: err}:
	default:
	}
}
