package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matcharr/logwatcher/pkg/runner"
)

var execCmd = &cobra.Command{
	Use:   "exec [flags] -- COMMAND [ARGS...]",
	Short: "Watch the output of a command instead of a file",
	Long: `exec runs a command under a pseudo-terminal and feeds its output
through the same pattern matching, highlighting, and notification
pipeline used for files. The pseudo-terminal keeps line-buffered
programs flushing promptly. The child's exit code is propagated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	addRuleFlags(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}

	deps := newDependencies(cfg)

	label := filepath.Base(args[0])
	deps.Printer.Info("Watching output of " + label)

	r := runner.New(func(line string) {
		deps.Watcher.ProcessLine(label, line)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := r.Run(ctx, args[0], args[1:])
	if err != nil {
		return err
	}

	deps.Printer.ShutdownSummary(deps.Watcher.Stats())
	exitCode = code
	return nil
}
