// Package output renders classified lines and run-level events to the
// terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matcharr/logwatcher/pkg/config"
	"github.com/matcharr/logwatcher/pkg/match"
)

// Stats accumulates run counters for the shutdown summary.
type Stats struct {
	FilesWatched      int
	LinesProcessed    int
	MatchesFound      int
	NotificationsSent int
}

// Printer writes matched lines to stdout and diagnostics to stderr.
// Matched lines are colored per pattern unless color is disabled or
// stdout is not a terminal.
type Printer struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer

	color bool
	info  lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
}

// NewPrinter creates a printer for the given rule set.
func NewPrinter(cfg *config.Config, stdout, stderr io.Writer) *Printer {
	color := !cfg.NoColor
	if f, ok := stdout.(*os.File); ok && color {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return &Printer{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		color:  color,
		info:   lipgloss.NewStyle().Foreground(lipgloss.Color(config.Cyan.ANSICode())),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color(config.Yellow.ANSICode())),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color(config.Red.ANSICode())),
	}
}

// PrintLine renders one classified line. Non-matching lines are
// suppressed in quiet mode; matched lines get the pattern's color.
func (p *Printer) PrintLine(line, sourceLabel string, result match.Result, dryRun bool) {
	if p.cfg.Quiet && !result.Matched {
		return
	}

	out := ""
	if dryRun && result.Matched {
		out += "[DRY-RUN] "
	}
	if p.cfg.PrefixFiles && sourceLabel != "" {
		out += fmt.Sprintf("[%s] ", sourceLabel)
	}
	out += line

	if p.color && result.Matched && result.HasColor {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(result.Color.ANSICode()))
		fmt.Fprintln(p.stdout, style.Render(out))
		return
	}
	fmt.Fprintln(p.stdout, out)
}

// Info prints an informational message to stderr.
func (p *Printer) Info(message string) {
	p.printStderr(p.info, "Info: "+message)
}

// Warning prints a warning to stderr.
func (p *Printer) Warning(message string) {
	p.printStderr(p.warn, "Warning: "+message)
}

// Error prints an error to stderr.
func (p *Printer) Error(message string) {
	p.printStderr(p.fail, "Error: "+message)
}

func (p *Printer) printStderr(style lipgloss.Style, text string) {
	if p.color {
		fmt.Fprintln(p.stderr, style.Render(text))
		return
	}
	fmt.Fprintln(p.stderr, text)
}

// StartupInfo reports what is about to be watched.
func (p *Printer) StartupInfo() {
	p.Info(fmt.Sprintf("Watching %d file(s)", len(p.cfg.Files)))

	if texts := p.cfg.PatternTexts(); len(texts) > 0 {
		p.Info("Patterns: " + strings.Join(texts, ", "))
	}
	if p.cfg.NotifyEnabled {
		p.Info("Desktop notifications enabled")
	}
	if p.cfg.DryRun {
		p.Info("Dry-run mode: reading existing content only")
	}
}

// FileRotated reports a detected rotation.
func (p *Printer) FileRotated(path string) {
	p.Warning("File rotation detected for " + path)
}

// FileReopened reports successful rotation recovery.
func (p *Printer) FileReopened(path string) {
	p.Info("Reopened file: " + path)
}

// FileError reports a per-file failure.
func (p *Printer) FileError(path, message string) {
	p.Error(fmt.Sprintf("Error watching %s: %s", path, message))
}

// DryRunSummary prints per-pattern match counts in declaration order.
func (p *Printer) DryRunSummary(counts map[string]int) {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		p.Info("No matching lines found")
		return
	}

	p.Info("Dry-run summary:")
	for _, pattern := range p.cfg.PatternTexts() {
		if n, ok := counts[pattern]; ok && n > 0 {
			fmt.Fprintf(p.stdout, "  %s: %d matches\n", pattern, n)
		}
	}
	p.Info("Dry-run complete. No notifications sent.")
}

// ShutdownSummary prints the final run counters.
func (p *Printer) ShutdownSummary(stats Stats) {
	p.Info("Shutdown summary:")
	fmt.Fprintf(p.stdout, "  Files watched: %d\n", stats.FilesWatched)
	fmt.Fprintf(p.stdout, "  Lines processed: %d\n", stats.LinesProcessed)
	fmt.Fprintf(p.stdout, "  Matches found: %d\n", stats.MatchesFound)
	fmt.Fprintf(p.stdout, "  Notifications sent: %d\n", stats.NotificationsSent)
}
