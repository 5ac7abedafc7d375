// Package hosts implements the access-list line state machine.
package hosts

import (
	"strings"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// Matcher decides whether a free-text domain pattern hits a line.
// Matching is plain substring containment, the same as `grep pattern`.
type Matcher struct {
	patterns []string
}

// NewMatcher creates a matcher for the given patterns.
// Empty patterns are dropped so they never match every line.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		if p != "" {
			m.patterns = append(m.patterns, p)
		}
	}
	return m
}

// Match reports whether text contains any pattern.
func (m *Matcher) Match(text string) bool {
	for _, p := range m.patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Validate checks every pattern against the minimum length.
func (m *Matcher) Validate() error {
	for _, p := range m.patterns {
		if err := domain.ValidatePattern(p); err != nil {
			return err
		}
	}
	return nil
}

// Classify derives the tag and target domain of a raw line.
// The allow marker is checked first and always wins.
func Classify(raw string) domain.AccessLine {
	line := domain.AccessLine{Raw: raw, Tag: domain.TagUnrelated}

	if strings.Contains(raw, domain.AllowMarker) {
		line.Tag = domain.TagPermanentAllow
		return line
	}
	if !strings.Contains(raw, domain.BlockMarker) {
		return line
	}

	fields := strings.Fields(raw)
	if isCommented(raw) {
		line.Tag = domain.TagRejectionDisabled
		// "# 0.0.0.0 example.com # BLOCKME"
		if len(fields) >= 3 {
			line.Domain = fields[2]
		}
		return line
	}

	line.Tag = domain.TagRejectionActive
	// "0.0.0.0 example.com # BLOCKME"
	if len(fields) >= 2 {
		line.Domain = fields[1]
	}
	return line
}

func isCommented(raw string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(raw, isSpace), domain.CommentMarker)
}
