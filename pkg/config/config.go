// Package config turns raw pattern, color, and tuning options into an
// immutable, validated rule set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Options holds the raw configuration before validation. Values are
// layered: defaults, then the optional YAML config file, then
// environment variables, then command-line flags.
type Options struct {
	Files           []string      `yaml:"files"`
	Patterns        string        `yaml:"patterns"`
	Regex           bool          `yaml:"regex"`
	CaseInsensitive bool          `yaml:"case_insensitive"`
	Exclude         string        `yaml:"exclude"`
	ColorMap        []string      `yaml:"color_map"`
	Notify          bool          `yaml:"notify"`
	NotifyPatterns  string        `yaml:"notify_patterns"`
	NotifyThrottle  int           `yaml:"notify_throttle"`
	NtfyServer      string        `yaml:"ntfy_server"`
	NtfyTopic       string        `yaml:"ntfy_topic"`
	Quiet           bool          `yaml:"quiet"`
	NoColor         bool          `yaml:"no_color"`
	PrefixFiles     *bool         `yaml:"prefix_files"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	BufferSize      int           `yaml:"buffer_size"`
	DryRun          bool          `yaml:"-"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Patterns:       "ERROR,WARN",
		Notify:         true,
		NotifyThrottle: 5,
		NtfyServer:     "https://ntfy.sh",
		PollInterval:   100 * time.Millisecond,
		BufferSize:     8192,
	}
}

// LoadOptions builds Options from defaults, the config file (if any),
// and environment variables. Flag handling happens in the command
// layer on top of the result.
func LoadOptions() (Options, error) {
	opts := DefaultOptions()

	if path := configPath(); path != "" {
		if err := loadFromFile(&opts, path); err != nil && !os.IsNotExist(err) {
			return opts, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(&opts); err != nil {
		return opts, fmt.Errorf("failed to load from environment: %w", err)
	}

	return opts, nil
}

// configPath returns the config file path.
func configPath() string {
	if path := os.Getenv("LOGWATCHER_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "logwatcher", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "logwatcher", "config.yaml")
	}

	return ""
}

func loadFromFile(opts *Options, path string) error {
	// #nosec G304 - the config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, opts)
}

func loadFromEnv(opts *Options) error {
	if server := os.Getenv("LOGWATCHER_NTFY_SERVER"); server != "" {
		opts.NtfyServer = server
	}

	if topic := os.Getenv("LOGWATCHER_NTFY_TOPIC"); topic != "" {
		opts.NtfyTopic = topic
	}

	if notify := os.Getenv("LOGWATCHER_NOTIFY"); notify != "" {
		switch notify {
		case "true", "1", "yes":
			opts.Notify = true
		case "false", "0", "no":
			opts.Notify = false
		default:
			return fmt.Errorf("invalid LOGWATCHER_NOTIFY value: %q (use true/false)", notify)
		}
	}

	if interval := os.Getenv("LOGWATCHER_POLL_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid LOGWATCHER_POLL_INTERVAL: %w", err)
		}
		opts.PollInterval = d
	}

	return nil
}

// Config is the validated, immutable rule set consumed by the matcher,
// tailer, and notifier.
type Config struct {
	Files           []string
	Rules           []Rule
	ExcludeRules    []Rule
	RegexMode       bool
	CaseInsensitive bool

	NotifyEnabled  bool
	NotifyThrottle int
	NtfyServer     string
	NtfyTopic      string

	DryRun      bool
	Quiet       bool
	NoColor     bool
	PrefixFiles bool

	PollInterval time.Duration
	BufferSize   int

	colorOverrides map[string]Color
	notifySet      map[string]struct{}
}

// Build validates options and produces the immutable Config.
func Build(opts Options) (*Config, error) {
	patterns := splitList(opts.Patterns)
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no patterns specified")
	}

	rules, err := buildRules(patterns, opts.Regex, opts.CaseInsensitive)
	if err != nil {
		return nil, err
	}

	excludeRules, err := buildRules(splitList(opts.Exclude), opts.Regex, opts.CaseInsensitive)
	if err != nil {
		return nil, err
	}

	overrides, err := parseColorMap(opts.ColorMap)
	if err != nil {
		return nil, err
	}

	notifyPatterns := splitList(opts.NotifyPatterns)
	if len(notifyPatterns) == 0 {
		notifyPatterns = patterns
	}
	notifySet := make(map[string]struct{}, len(notifyPatterns))
	for _, p := range notifyPatterns {
		notifySet[p] = struct{}{}
	}

	if opts.NotifyThrottle < 0 {
		return nil, fmt.Errorf("notify throttle must be non-negative")
	}
	if opts.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if opts.BufferSize <= 0 {
		return nil, fmt.Errorf("buffer size must be positive")
	}

	prefix := len(opts.Files) > 1
	if opts.PrefixFiles != nil {
		prefix = *opts.PrefixFiles
	}

	return &Config{
		Files:           opts.Files,
		Rules:           rules,
		ExcludeRules:    excludeRules,
		RegexMode:       opts.Regex,
		CaseInsensitive: opts.CaseInsensitive,
		NotifyEnabled:   opts.Notify && !opts.DryRun,
		NotifyThrottle:  opts.NotifyThrottle,
		NtfyServer:      opts.NtfyServer,
		NtfyTopic:       opts.NtfyTopic,
		DryRun:          opts.DryRun,
		Quiet:           opts.Quiet,
		NoColor:         opts.NoColor,
		PrefixFiles:     prefix,
		PollInterval:    opts.PollInterval,
		BufferSize:      opts.BufferSize,
		colorOverrides:  overrides,
		notifySet:       notifySet,
	}, nil
}

// parseColorMap parses "pattern:color" entries. Entries without a colon
// are ignored; unknown color names are errors.
func parseColorMap(entries []string) (map[string]Color, error) {
	overrides := make(map[string]Color, len(entries))
	for _, entry := range entries {
		pattern, name, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		color, err := ParseColor(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		overrides[strings.TrimSpace(pattern)] = color
	}
	return overrides, nil
}

// ColorFor resolves the display color for a pattern: explicit overrides
// first, then the built-in defaults.
func (c *Config) ColorFor(pattern string) (Color, bool) {
	if color, ok := c.colorOverrides[pattern]; ok {
		return color, true
	}
	return DefaultColor(pattern)
}

// ShouldNotify reports whether a match on the given pattern is
// notification-eligible.
func (c *Config) ShouldNotify(pattern string) bool {
	if !c.NotifyEnabled {
		return false
	}
	_, ok := c.notifySet[pattern]
	return ok
}

// PatternTexts returns the pattern texts in declaration order.
func (c *Config) PatternTexts() []string {
	texts := make([]string, len(c.Rules))
	for i, r := range c.Rules {
		texts[i] = r.Text
	}
	return texts
}
