package scan

import (
	"fmt"
	"regexp"
	"strings"

	"boardsweep/internal/core"
	"boardsweep/internal/core/config"
)

// Matcher is the keyword policy: a row is a candidate when its title or any
// tag contains one of the keywords (case-insensitive), and no part of it
// matches the ignore expression. An empty keyword list matches every row,
// so the scan cap is the only brake in that case.
type Matcher struct {
	keywords []string
	ignore   *regexp.Regexp
}

// NewMatcher compiles the policy from configuration.
func NewMatcher(p config.Policy) (*Matcher, error) {
	m := &Matcher{}
	for _, k := range p.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			m.keywords = append(m.keywords, k)
		}
	}
	if p.IgnoreRegex != "" {
		re, err := regexp.Compile(p.IgnoreRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore_regex %q: %w", p.IgnoreRegex, err)
		}
		m.ignore = re
	}
	return m, nil
}

// Match reports whether the candidate passes the policy.
func (m *Matcher) Match(c core.Candidate) bool {
	if m.ignore != nil {
		for _, field := range append([]string{c.Title, c.Status}, c.Tags...) {
			if m.ignore.MatchString(field) {
				return false
			}
		}
	}
	if len(m.keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(c.Title + " " + strings.Join(c.Tags, " "))
	for _, k := range m.keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}
