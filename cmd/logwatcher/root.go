package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matcharr/logwatcher/pkg/config"
	"github.com/matcharr/logwatcher/pkg/logging"
)

var version = "dev"

// exitCode is what main exits with; the exec subcommand propagates the
// child's code through it.
var exitCode int

var (
	verbosity       int
	flagPatterns    string
	flagRegex       bool
	flagInsensitive bool
	flagExclude     string
	flagColorMap    colorMapFlag
	flagNotify      bool
	flagNotifyPats  string
	flagThrottle    int
	flagDryRun      bool
	flagQuiet       bool
	flagNoColor     bool
	flagPrefixFile  bool
	flagPoll        time.Duration
	flagBufferSize  int

	rootCmd = &cobra.Command{
		Use:   "logwatcher [flags] FILE...",
		Short: "Real-time log file monitoring with pattern highlighting and desktop notifications",
		Long: `logwatcher tails log files in real time, highlights lines matching
configured patterns, and sends rate-limited notifications. File rotation
is detected and recovered automatically.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWatch,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	addRuleFlags(rootCmd)
	rootCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "d", false, "Scan existing content once and report match counts, no tailing")
	rootCmd.Flags().DurationVar(&flagPoll, "poll-interval", 100*time.Millisecond, "File polling interval")
	rootCmd.Flags().IntVar(&flagBufferSize, "buffer-size", 8192, "Read buffer size in bytes")
	rootCmd.Flags().BoolVar(&flagPrefixFile, "prefix-file", false, "Prefix lines with filename (default: on for multiple files)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(execCmd)
}

// addRuleFlags registers the flags shared by the watch and exec paths.
func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagPatterns, "pattern", "p", "ERROR,WARN", "Comma-separated patterns to match")
	cmd.Flags().BoolVarP(&flagRegex, "regex", "r", false, "Treat patterns as regular expressions")
	cmd.Flags().BoolVarP(&flagInsensitive, "case-insensitive", "i", false, "Case-insensitive pattern matching")
	cmd.Flags().StringVarP(&flagExclude, "exclude", "x", "", "Comma-separated patterns that suppress matching lines")
	cmd.Flags().VarP(&flagColorMap, "color-map", "c", "Custom pattern:color mappings (e.g. \"ERROR:red,WARN:yellow\")")
	cmd.Flags().BoolVarP(&flagNotify, "notify", "n", true, "Enable desktop notifications")
	cmd.Flags().StringVar(&flagNotifyPats, "notify-patterns", "", "Patterns that trigger notifications (default: all patterns)")
	cmd.Flags().IntVar(&flagThrottle, "notify-throttle", 5, "Maximum notifications per second")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress non-matching lines")
	cmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")
}

// buildConfig layers command-line flags on top of the loaded options.
func buildConfig(cmd *cobra.Command, files []string) (*config.Config, error) {
	opts, err := config.LoadOptions()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("pattern") {
		opts.Patterns = flagPatterns
	}
	if flags.Changed("regex") {
		opts.Regex = flagRegex
	}
	if flags.Changed("case-insensitive") {
		opts.CaseInsensitive = flagInsensitive
	}
	if flags.Changed("exclude") {
		opts.Exclude = flagExclude
	}
	if len(flagColorMap) > 0 {
		opts.ColorMap = append(opts.ColorMap, flagColorMap...)
	}
	if flags.Changed("notify") {
		opts.Notify = flagNotify
	}
	if flags.Changed("notify-patterns") {
		opts.NotifyPatterns = flagNotifyPats
	}
	if flags.Changed("notify-throttle") {
		opts.NotifyThrottle = flagThrottle
	}
	if flags.Changed("quiet") {
		opts.Quiet = flagQuiet
	}
	if flags.Changed("no-color") {
		opts.NoColor = flagNoColor
	}
	if flags.Changed("poll-interval") {
		opts.PollInterval = flagPoll
	}
	if flags.Changed("buffer-size") {
		opts.BufferSize = flagBufferSize
	}
	if flags.Changed("prefix-file") {
		prefix := flagPrefixFile
		opts.PrefixFiles = &prefix
	}
	if flags.Changed("dry-run") {
		opts.DryRun = flagDryRun
	}

	if len(files) > 0 {
		opts.Files = files
	}

	return config.Build(opts)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Files) == 0 {
		return fmt.Errorf("no files specified")
	}

	deps := newDependencies(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return deps.Watcher.Run(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("logwatcher version %s\n", version)
	},
}
