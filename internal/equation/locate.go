package equation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultPrefixPatterns match the common einsum/einops call sites.
var DefaultPrefixPatterns = []string{
	`\beinsum`,
	`\beinops\.(?:rearrange|reduce|repeat|einsum|pack|unpack)`,
	`\b(?:rearrange|reduce|repeat)`,
}

var namedParam = regexp.MustCompile(`^\s*(?:equation|pattern|subscripts)\s*=\s*`)

// Locator finds the quoted equation argument of a recognized call.
type Locator struct {
	prefix   *regexp.Regexp
	patterns []string
}

// NewLocator compiles every pattern on its own so that one bad pattern does not
// disable the rest. The valid ones are joined into a single alternation, each
// followed by an opening parenthesis. One error is returned per rejected
// pattern.
func NewLocator(patterns []string) (*Locator, []error) {
	var (
		valid []string
		errs  []error
	)
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("prefix pattern %q: %w", p, err))
			continue
		}
		valid = append(valid, p)
	}
	l := &Locator{patterns: valid}
	if len(valid) == 0 {
		return l, errs
	}
	groups := make([]string, len(valid))
	for i, p := range valid {
		groups[i] = "(?:" + p + ")"
	}
	re, err := regexp.Compile("(?:" + strings.Join(groups, "|") + `)\(`)
	if err != nil {
		errs = append(errs, fmt.Errorf("combined prefix pattern: %w", err))
		return l, errs
	}
	l.prefix = re
	return l, errs
}

// Patterns returns the prefix patterns that were accepted.
func (l *Locator) Patterns() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.patterns...)
}

// Locate returns the rune columns of the equation text on line. end is -1
// when the closing quote is missing and the equation runs to the end of the
// line.
func (l *Locator) Locate(line string) (start, end int, ok bool) {
	if l == nil || l.prefix == nil || strings.TrimSpace(line) == "" {
		return 0, 0, false
	}
	loc := l.prefix.FindStringIndex(line)
	if loc == nil {
		return 0, 0, false
	}
	cursor := loc[1]
	rest := line[cursor:]
	open := -1
	if m := namedParam.FindStringIndex(rest); m != nil {
		cursor += m[1]
		if cursor < len(line) && isQuote(line[cursor]) {
			open = cursor
		}
	} else if q := strings.IndexAny(rest, `"'`); q >= 0 {
		before := strings.TrimRight(rest[:q], " \t")
		if before == "" || strings.HasSuffix(before, ",") {
			open = cursor + q
		}
	}
	if open < 0 {
		return 0, 0, false
	}
	start = utf8.RuneCountInString(line[:open+1])
	closing := strings.IndexByte(line[open+1:], line[open])
	if closing < 0 {
		return start, -1, true
	}
	return start, utf8.RuneCountInString(line[:open+1+closing]), true
}

// Equation returns the located equation text and its starting column.
func (l *Locator) Equation(line string) (string, int, bool) {
	start, end, ok := l.Locate(line)
	if !ok {
		return "", 0, false
	}
	runes := []rune(line)
	if end < 0 || end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end]), start, true
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}
