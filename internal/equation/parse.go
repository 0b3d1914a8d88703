package equation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Spacing selects how an equation is split into terms.
type Spacing int

const (
	SpacingAuto Spacing = iota
	SpacingChars
	SpacingWords
)

func (s Spacing) String() string {
	switch s {
	case SpacingChars:
		return "chars"
	case SpacingWords:
		return "words"
	default:
		return "auto"
	}
}

// ParseSpacing accepts "auto", "chars" or "words".
func ParseSpacing(s string) (Spacing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SpacingAuto, nil
	case "chars", "char":
		return SpacingChars, nil
	case "words", "word":
		return SpacingWords, nil
	default:
		return SpacingAuto, fmt.Errorf("unknown spacing %q", s)
	}
}

var (
	charTerms = regexp.MustCompile(`\.\.\.|…|->|,|[\p{L}\p{N}_]`)
	wordTerms = regexp.MustCompile(`\.\.\.|…|->|,|[\p{L}\p{N}_]+`)
)

// Parser turns equation text into classified terms.
type Parser struct {
	Spacing Spacing
	Seed    int32
}

// Parse splits eq into terms, offsetting every Start by offset. Argument terms
// come first in source order, followed by the result terms.
func (p Parser) Parse(eq string, offset int) []Term {
	re := charTerms
	if p.resolve(eq) == SpacingWords {
		re = wordTerms
	}

	args := [][]Term{nil}
	var result []Term
	inResult := false
	col, last := offset, 0
	for _, loc := range re.FindAllStringIndex(eq, -1) {
		col += utf8.RuneCountInString(eq[last:loc[0]])
		last = loc[0]
		text := eq[loc[0]:loc[1]]
		switch text {
		case "->":
			inResult = true
			continue
		case ",":
			if !inResult {
				args = append(args, nil)
			}
			continue
		}
		t := Term{
			Start: col,
			Text:  text,
			Hash:  Hash(text, p.Seed),
			Color: NoColor,
		}
		if inResult {
			result = append(result, t)
		} else {
			args[len(args)-1] = append(args[len(args)-1], t)
		}
	}

	if len(result) > 0 {
		classify(args, result)
	}

	var out []Term
	for _, group := range args {
		out = append(out, group...)
	}
	return append(out, result...)
}

func (p Parser) resolve(eq string) Spacing {
	if p.Spacing != SpacingAuto {
		return p.Spacing
	}
	if strings.Contains(eq, "(") {
		return SpacingWords
	}
	for _, side := range strings.Split(eq, "->") {
		for _, seg := range strings.Split(side, ",") {
			if strings.ContainsAny(strings.TrimSpace(seg), " \t") {
				return SpacingWords
			}
		}
	}
	return SpacingChars
}

func classify(args [][]Term, result []Term) {
	for g := range args {
		for i := range args[g] {
			args[g][i].State = Reduced
		}
	}
	for r := range result {
		text := result[r].Text
		hits := 0
		for _, group := range args {
			if containsText(group, text) {
				hits++
			}
		}
		switch {
		case len(args) >= 2 && hits == len(args):
			markText(args, text, InAll)
			result[r].State = InAll
		case hits > 0:
			markText(args, text, Normal)
		default:
			result[r].State = New
		}
	}
}

func containsText(group []Term, text string) bool {
	for _, t := range group {
		if t.Text == text {
			return true
		}
	}
	return false
}

func markText(args [][]Term, text string, state State) {
	for g := range args {
		for i := range args[g] {
			if args[g][i].Text == text {
				args[g][i].State = state
			}
		}
	}
}
