// Package equation finds einsum/einops equations on a line of source text and
// splits them into classified terms.
package equation

import "unicode/utf8"

// State is the semantic role of a term inside its equation.
type State int

const (
	Normal State = iota
	InAll
	Reduced
	New
)

// StateCount is the number of distinct term states.
const StateCount = 4

// NoColor marks a term that has not been colored yet.
const NoColor = -1

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case InAll:
		return "in-all"
	case Reduced:
		return "reduced"
	case New:
		return "new"
	default:
		return "unknown"
	}
}

// Term is one index symbol of an equation. Start is the rune column in the
// owning line.
type Term struct {
	Start int
	Text  string
	Hash  int32
	State State
	Color int
}

// End returns the exclusive end column of the term.
func (t Term) End() int {
	return t.Start + utf8.RuneCountInString(t.Text)
}

// Hash is a seeded FNV-style rolling hash over the runes of text. Equal
// (text, seed) pairs always produce the same value.
func Hash(text string, seed int32) int32 {
	h := uint32(seed) ^ 0x811c9dc5
	for _, r := range text {
		h ^= uint32(r)
		h *= 0x01000193
	}
	h ^= h >> 16
	h *= 0x45d9f3b
	h ^= h >> 16
	return int32(h)
}
