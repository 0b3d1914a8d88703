// Package coloring assigns palette indexes to equation terms.
package coloring

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/einview/internal/equation"
)

// Policy selects how colors are picked for terms.
type Policy int

const (
	SemiHashed Policy = iota
	Hashed
	Ordered
)

func (p Policy) String() string {
	switch p {
	case Hashed:
		return "hashed"
	case Ordered:
		return "ordered"
	default:
		return "semi-hashed"
	}
}

// ParsePolicy accepts the config spellings of a policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "semi-hashed", "semihashed":
		return SemiHashed, nil
	case "hashed":
		return Hashed, nil
	case "ordered":
		return Ordered, nil
	default:
		return SemiHashed, fmt.Errorf("unknown coloring %q", s)
	}
}

// HashedColor maps a hash onto [0, count) with a non-negative modulo.
func HashedColor(hash int32, count int) int {
	return ((int(hash) % count) + count) % count
}

// Apply sets Color on every term. Terms with equal text always end up with the
// same color. A non-positive count leaves the terms uncolored.
func Apply(terms []equation.Term, policy Policy, count int) {
	if count <= 0 {
		return
	}
	switch policy {
	case Hashed:
		applyHashed(terms, count)
	case Ordered:
		applyOrdered(terms, count)
	default:
		applySemiHashed(terms, count)
	}
}

func applyHashed(terms []equation.Term, count int) {
	colors := make(map[string]int)
	for i := range terms {
		c, ok := colors[terms[i].Text]
		if !ok {
			c = HashedColor(terms[i].Hash, count)
			colors[terms[i].Text] = c
		}
		terms[i].Color = c
	}
}

func applyOrdered(terms []equation.Term, count int) {
	colors := make(map[string]int)
	next := 0
	for i := range terms {
		c, ok := colors[terms[i].Text]
		if !ok {
			c = next % count
			next++
			colors[terms[i].Text] = c
		}
		terms[i].Color = c
	}
}

func applySemiHashed(terms []equation.Term, count int) {
	colors := make(map[string]int)
	seen := make(map[string]bool)
	claimed := make([]bool, count)

	for i := range terms {
		text := terms[i].Text
		if c, ok := colors[text]; ok {
			terms[i].Color = c
			continue
		}
		if seen[text] {
			continue
		}
		seen[text] = true
		c := HashedColor(terms[i].Hash, count)
		if claimed[c] {
			continue
		}
		claimed[c] = true
		colors[text] = c
		terms[i].Color = c
	}

	for i := range terms {
		if terms[i].Color != equation.NoColor {
			continue
		}
		text := terms[i].Text
		if c, ok := colors[text]; ok {
			terms[i].Color = c
			continue
		}
		c := probe(claimed, HashedColor(terms[i].Hash, count))
		if c < 0 {
			// Every color is taken: start a new claim cycle and accept the
			// collision on the hashed color.
			clear(claimed)
			c = HashedColor(terms[i].Hash, count)
		}
		claimed[c] = true
		colors[text] = c
		terms[i].Color = c
	}
}

// probe returns the first unclaimed color at or after start, wrapping around,
// or -1 when all colors are claimed.
func probe(claimed []bool, start int) int {
	n := len(claimed)
	for k := 0; k < n; k++ {
		c := (start + k) % n
		if !claimed[c] {
			return c
		}
	}
	return -1
}
