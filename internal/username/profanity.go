package username

import (
	"context"
	"fmt"

	"github.com/dlclark/regexp2"
)

// BlocklistChecker matches candidates against configured patterns.
// Patterns are matched case-insensitively anywhere in the candidate and
// may use lookarounds to catch padded or disguised spellings.
type BlocklistChecker struct {
	patterns []*regexp2.Regexp
}

// NewBlocklistChecker compiles the configured blocklist patterns
func NewBlocklistChecker(patterns []string) (*BlocklistChecker, error) {
	compiled := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("failed to compile blocked pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &BlocklistChecker{patterns: compiled}, nil
}

// IsUsernameAllowed reports whether the value clears every blocked pattern
func (c *BlocklistChecker) IsUsernameAllowed(ctx context.Context, value string) (Decision, error) {
	for _, re := range c.patterns {
		matched, err := re.MatchString(value)
		if err != nil {
			return Decision{}, fmt.Errorf("blocked pattern match failed: %w", err)
		}
		if matched {
			return Decision{Allowed: false, Reason: "contains a blocked word"}, nil
		}
	}
	return Decision{Allowed: true}, nil
}
