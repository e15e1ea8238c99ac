// Package match classifies lines against a rule set.
package match

import (
	"strings"

	"github.com/matcharr/logwatcher/pkg/config"
)

// Result is the outcome of classifying a single line.
type Result struct {
	Matched      bool
	Pattern      string
	Color        config.Color
	HasColor     bool
	ShouldNotify bool
}

// Matcher is a stateless line classifier. Classify is pure: repeated
// calls on the same line yield identical results, and a Matcher is safe
// for concurrent use.
type Matcher struct {
	cfg *config.Config
}

// New creates a matcher for the given rule set.
func New(cfg *config.Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Excluded reports whether any exclude rule matches the line. Exclusion
// is an independent pass: callers check it before Classify, and an
// excluded line is never classified regardless of what it would match.
func (m *Matcher) Excluded(line string) bool {
	if len(m.cfg.ExcludeRules) == 0 {
		return false
	}

	if m.cfg.RegexMode {
		for _, rule := range m.cfg.ExcludeRules {
			if rule.Regex().MatchString(line) {
				return true
			}
		}
		return false
	}

	search := line
	if m.cfg.CaseInsensitive {
		search = strings.ToLower(line)
	}
	for _, rule := range m.cfg.ExcludeRules {
		text := rule.Text
		if m.cfg.CaseInsensitive {
			text = rule.LowerText()
		}
		if strings.Contains(search, text) {
			return true
		}
	}
	return false
}

// Classify matches the line against the rules in declaration order and
// returns the first hit, with display color and notify eligibility
// resolved from the rule set.
func (m *Matcher) Classify(line string) Result {
	if m.cfg.RegexMode {
		return m.classifyRegex(line)
	}
	return m.classifyLiteral(line)
}

func (m *Matcher) classifyLiteral(line string) Result {
	search := line
	if m.cfg.CaseInsensitive {
		search = strings.ToLower(line)
	}

	for _, rule := range m.cfg.Rules {
		text := rule.Text
		if m.cfg.CaseInsensitive {
			text = rule.LowerText()
		}
		if strings.Contains(search, text) {
			return m.hit(rule.Text)
		}
	}

	return Result{}
}

func (m *Matcher) classifyRegex(line string) Result {
	for _, rule := range m.cfg.Rules {
		if rule.Regex().MatchString(line) {
			return m.hit(rule.Text)
		}
	}

	return Result{}
}

func (m *Matcher) hit(pattern string) Result {
	color, hasColor := m.cfg.ColorFor(pattern)
	return Result{
		Matched:      true,
		Pattern:      pattern,
		Color:        color,
		HasColor:     hasColor,
		ShouldNotify: m.cfg.ShouldNotify(pattern),
	}
}

// HasMatch reports whether any rule matches, used for quiet-mode
// filtering.
func (m *Matcher) HasMatch(line string) bool {
	return m.Classify(line).Matched
}

// AllMatches returns every pattern that matches the line, in
// declaration order.
func (m *Matcher) AllMatches(line string) []string {
	var matches []string

	if m.cfg.RegexMode {
		for _, rule := range m.cfg.Rules {
			if rule.Regex().MatchString(line) {
				matches = append(matches, rule.Text)
			}
		}
		return matches
	}

	search := line
	if m.cfg.CaseInsensitive {
		search = strings.ToLower(line)
	}
	for _, rule := range m.cfg.Rules {
		text := rule.Text
		if m.cfg.CaseInsensitive {
			text = rule.LowerText()
		}
		if strings.Contains(search, text) {
			matches = append(matches, rule.Text)
		}
	}
	return matches
}
