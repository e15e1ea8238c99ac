package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Files = []string{"test.log"}
	return opts
}

func TestBuild_SplitsPatterns(t *testing.T) {
	opts := testOptions()
	opts.Patterns = " ERROR , WARN ,, FATAL "

	cfg, err := Build(opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"ERROR", "WARN", "FATAL"}, cfg.PatternTexts())
	for _, rule := range cfg.Rules {
		assert.Nil(t, rule.Regex(), "literal mode must not compile regexes")
	}
}

func TestBuild_NoPatterns(t *testing.T) {
	opts := testOptions()
	opts.Patterns = " , "

	_, err := Build(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no patterns")
}

func TestBuild_RegexMode(t *testing.T) {
	opts := testOptions()
	opts.Patterns = `user_id=\d+,ERROR`
	opts.Regex = true

	cfg, err := Build(opts)
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 2)

	for _, rule := range cfg.Rules {
		require.NotNil(t, rule.Regex())
	}
	assert.True(t, cfg.Rules[0].Regex().MatchString("user_id=42"))
	assert.False(t, cfg.Rules[0].Regex().MatchString("user_id=abc"))
}

func TestBuild_RegexCaseInsensitive(t *testing.T) {
	opts := testOptions()
	opts.Patterns = "ERROR"
	opts.Regex = true
	opts.CaseInsensitive = true

	cfg, err := Build(opts)
	require.NoError(t, err)
	assert.True(t, cfg.Rules[0].Regex().MatchString("an error occurred"))
}

func TestBuild_InvalidRegex(t *testing.T) {
	opts := testOptions()
	opts.Patterns = "valid,([unclosed"
	opts.Regex = true

	_, err := Build(opts)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "([unclosed", cfgErr.Pattern)
}

func TestBuild_OversizedRegex(t *testing.T) {
	// Counted repetition of a counted group explodes the compiled
	// program size well past the ceiling.
	opts := testOptions()
	opts.Patterns = "(?:a{800}){800}"
	opts.Regex = true

	_, err := Build(opts)
	require.Error(t, err)
}

func TestBuild_ExcludeRulesFollowMode(t *testing.T) {
	opts := testOptions()
	opts.Patterns = "ERROR"
	opts.Exclude = `DEBUG,trace_\d+`
	opts.Regex = true

	cfg, err := Build(opts)
	require.NoError(t, err)
	require.Len(t, cfg.ExcludeRules, 2)
	assert.NotNil(t, cfg.ExcludeRules[1].Regex())
}

func TestBuild_InvalidExcludeRegex(t *testing.T) {
	opts := testOptions()
	opts.Patterns = "ERROR"
	opts.Exclude = "([bad"
	opts.Regex = true

	_, err := Build(opts)
	require.Error(t, err)
}

func TestBuild_ColorOverrides(t *testing.T) {
	opts := testOptions()
	opts.Patterns = "ERROR,CUSTOM"
	opts.ColorMap = []string{"ERROR:blue", "CUSTOM:magenta", "malformed"}

	cfg, err := Build(opts)
	require.NoError(t, err)

	color, ok := cfg.ColorFor("ERROR")
	require.True(t, ok)
	assert.Equal(t, Blue, color, "override beats the default")

	color, ok = cfg.ColorFor("CUSTOM")
	require.True(t, ok)
	assert.Equal(t, Magenta, color)
}

func TestBuild_UnknownColor(t *testing.T) {
	opts := testOptions()
	opts.ColorMap = []string{"ERROR:chartreuse"}

	_, err := Build(opts)
	require.Error(t, err)

	var colorErr *UnknownColorError
	require.True(t, errors.As(err, &colorErr))
	assert.Equal(t, "chartreuse", colorErr.Name)
}

func TestBuild_NotifyPatternsDefaultToAll(t *testing.T) {
	opts := testOptions()
	opts.Patterns = "ERROR,WARN"

	cfg, err := Build(opts)
	require.NoError(t, err)

	assert.True(t, cfg.ShouldNotify("ERROR"))
	assert.True(t, cfg.ShouldNotify("WARN"))
	assert.False(t, cfg.ShouldNotify("INFO"))
}

func TestBuild_ExplicitNotifyPatterns(t *testing.T) {
	opts := testOptions()
	opts.Patterns = "ERROR,WARN,INFO"
	opts.NotifyPatterns = "ERROR"

	cfg, err := Build(opts)
	require.NoError(t, err)

	assert.True(t, cfg.ShouldNotify("ERROR"))
	assert.False(t, cfg.ShouldNotify("WARN"))
}

func TestBuild_NotifyDisabled(t *testing.T) {
	opts := testOptions()
	opts.Notify = false

	cfg, err := Build(opts)
	require.NoError(t, err)
	assert.False(t, cfg.ShouldNotify("ERROR"))
}

func TestBuild_DryRunDisablesNotify(t *testing.T) {
	opts := testOptions()
	opts.DryRun = true

	cfg, err := Build(opts)
	require.NoError(t, err)
	assert.False(t, cfg.ShouldNotify("ERROR"))
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"negative throttle", func(o *Options) { o.NotifyThrottle = -1 }},
		{"zero poll interval", func(o *Options) { o.PollInterval = 0 }},
		{"zero buffer size", func(o *Options) { o.BufferSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			_, err := Build(opts)
			assert.Error(t, err)
		})
	}
}

func TestBuild_PrefixFilesAuto(t *testing.T) {
	opts := testOptions()
	cfg, err := Build(opts)
	require.NoError(t, err)
	assert.False(t, cfg.PrefixFiles, "single file defaults to no prefix")

	opts.Files = []string{"a.log", "b.log"}
	cfg, err = Build(opts)
	require.NoError(t, err)
	assert.True(t, cfg.PrefixFiles, "multiple files default to prefixing")

	off := false
	opts.PrefixFiles = &off
	cfg, err = Build(opts)
	require.NoError(t, err)
	assert.False(t, cfg.PrefixFiles, "explicit choice wins")
}

func TestParseColor(t *testing.T) {
	for name, want := range map[string]Color{
		"black":   Black,
		"RED":     Red,
		"Green":   Green,
		"yellow":  Yellow,
		"blue":    Blue,
		"magenta": Magenta,
		"cyan":    Cyan,
		"white":   White,
	} {
		got, err := ParseColor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseColor("mauve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown color: mauve")
}

func TestDefaultColor(t *testing.T) {
	tests := []struct {
		pattern string
		want    Color
		ok      bool
	}{
		{"ERROR", Red, true},
		{"FATAL", Red, true},
		{"CRITICAL", Red, true},
		{"WARN", Yellow, true},
		{"WARNING", Yellow, true},
		{"INFO", Green, true},
		{"DEBUG", Cyan, true},
		{"TRACE", Magenta, true},
		{"CUSTOM", "", false},
	}

	for _, tt := range tests {
		got, ok := DefaultColor(tt.pattern)
		assert.Equal(t, tt.ok, ok, tt.pattern)
		assert.Equal(t, tt.want, got, tt.pattern)
	}
}

func TestLoadOptions_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	content := strings.Join([]string{
		"patterns: FATAL,PANIC",
		"notify_throttle: 2",
		"poll_interval: 250ms",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("LOGWATCHER_CONFIG", path)

	opts, err := LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, "FATAL,PANIC", opts.Patterns)
	assert.Equal(t, 2, opts.NotifyThrottle)
	assert.Equal(t, 250*time.Millisecond, opts.PollInterval)
}

func TestLoadOptions_EnvOverrides(t *testing.T) {
	t.Setenv("LOGWATCHER_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("LOGWATCHER_NTFY_TOPIC", "alerts")
	t.Setenv("LOGWATCHER_NOTIFY", "false")

	opts, err := LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, "alerts", opts.NtfyTopic)
	assert.False(t, opts.Notify)
}

func TestLoadOptions_InvalidEnv(t *testing.T) {
	t.Setenv("LOGWATCHER_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("LOGWATCHER_NOTIFY", "maybe")

	_, err := LoadOptions()
	assert.Error(t, err)
}
