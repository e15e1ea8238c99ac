// Package runner executes a child process under a pseudo-terminal and
// feeds its output lines through the match pipeline. The pty makes
// line-buffered programs flush promptly, so matches fire as lines are
// produced rather than when the child's stdio buffer fills.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"github.com/rs/zerolog"

	"github.com/matcharr/logwatcher/pkg/logging"
)

// LineHandler consumes one complete, non-empty output line.
type LineHandler func(line string)

// Runner wraps a single child process. Display of the child's lines is
// the handler's job; the runner only splits and forwards them.
type Runner struct {
	handler LineHandler
	partial []byte
	logger  zerolog.Logger
}

// New creates a runner.
func New(handler LineHandler) *Runner {
	return &Runner{
		handler: handler,
		logger:  logging.GetLogger("runner"),
	}
}

// Run starts the command under a pty, streams its output until it
// exits or ctx is cancelled, and returns the child's exit code.
func (r *Runner) Run(ctx context.Context, command string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", command, err)
	}
	defer func() { _ = ptmx.Close() }()

	if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
		r.logger.Debug().Err(err).Msg("could not copy terminal size")
	}

	buf := make([]byte, 4096)
	for {
		n, readErr := ptmx.Read(buf)
		if n > 0 {
			r.handleData(buf[:n])
		}
		if readErr != nil {
			// Reading the pty master returns EIO once the child
			// closes its side; treat any read error as end of
			// stream and let Wait report the real outcome.
			break
		}
	}

	r.flush()

	if err := cmd.Wait(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return 0, fmt.Errorf("failed to wait for %s: %w", command, err)
		}
	}
	return cmd.ProcessState.ExitCode(), nil
}

// handleData splits raw output into lines, keeping an incomplete
// trailing line buffered until its terminator arrives.
func (r *Runner) handleData(data []byte) {
	buffer := append(r.partial, data...)
	r.partial = nil

	start := 0
	for i := 0; i < len(buffer); i++ {
		if buffer[i] == '\n' {
			r.emit(string(buffer[start:i]))
			start = i + 1
		}
	}

	if start < len(buffer) {
		r.partial = append(r.partial, buffer[start:]...)
	}
}

// flush emits whatever is left in the partial buffer as a final line.
func (r *Runner) flush() {
	if len(r.partial) == 0 {
		return
	}
	r.emit(string(r.partial))
	r.partial = nil
}

func (r *Runner) emit(line string) {
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		r.handler(trimmed)
	}
}
