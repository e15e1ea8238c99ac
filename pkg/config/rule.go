package config

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

// maxProgramSize caps the estimated in-memory size of a compiled
// regular expression program, rejecting pathological patterns before
// they are handed to the matcher.
const maxProgramSize = 10 << 20

// estimated bytes per compiled regexp instruction
const instSize = 40

// Rule is a single match rule. The pattern text and its compiled form
// travel together; Regex is nil in literal mode.
type Rule struct {
	Text  string
	lower string
	re    *regexp.Regexp
}

// Regex returns the compiled regular expression, or nil in literal mode.
func (r Rule) Regex() *regexp.Regexp {
	return r.re
}

// LowerText returns the pre-lowercased pattern text, used for the
// case-insensitive literal fast path.
func (r Rule) LowerText() string {
	return r.lower
}

// ConfigError reports an invalid pattern supplied by the operator.
type ConfigError struct {
	Pattern string
	Reason  string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q: %s: %v", e.Pattern, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// buildRules turns raw pattern texts into rules, compiling them when
// regexMode is set.
func buildRules(texts []string, regexMode, caseInsensitive bool) ([]Rule, error) {
	rules := make([]Rule, 0, len(texts))
	for _, text := range texts {
		rule := Rule{Text: text, lower: strings.ToLower(text)}
		if regexMode {
			re, err := compilePattern(text, caseInsensitive)
			if err != nil {
				return nil, err
			}
			rule.re = re
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// compilePattern compiles a regex pattern, enforcing the program size
// ceiling. Case-insensitivity is folded into the pattern itself so the
// compiled form is self-contained.
func compilePattern(text string, caseInsensitive bool) (*regexp.Regexp, error) {
	expr := text
	if caseInsensitive {
		expr = "(?i)" + expr
	}

	parsed, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return nil, &ConfigError{Pattern: text, Reason: "invalid syntax", Err: err}
	}
	prog, err := syntax.Compile(parsed.Simplify())
	if err != nil {
		return nil, &ConfigError{Pattern: text, Reason: "invalid syntax", Err: err}
	}
	if len(prog.Inst)*instSize > maxProgramSize {
		return nil, &ConfigError{Pattern: text, Reason: "compiled program exceeds size limit"}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &ConfigError{Pattern: text, Reason: "invalid syntax", Err: err}
	}
	return re, nil
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
