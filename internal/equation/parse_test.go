package equation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type termWant struct {
	text  string
	start int
	state State
}

func requireTerms(t *testing.T, got []Term, want []termWant) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		require.Equal(t, w.text, got[i].Text, "term %d text", i)
		require.Equal(t, w.start, got[i].Start, "term %d start", i)
		require.Equal(t, w.state, got[i].State, "term %d (%s) state", i, w.text)
		require.Equal(t, NoColor, got[i].Color)
	}
}

func TestParseMatrixProduct(t *testing.T) {
	terms := Parser{}.Parse("ij,jk->ik", 0)
	requireTerms(t, terms, []termWant{
		{"i", 0, Normal},
		{"j", 1, Reduced},
		{"j", 3, Reduced},
		{"k", 4, Normal},
		{"i", 7, Normal},
		{"k", 8, Normal},
	})
}

func TestParseInAll(t *testing.T) {
	terms := Parser{}.Parse("i,i->i", 10)
	requireTerms(t, terms, []termWant{
		{"i", 10, InAll},
		{"i", 12, InAll},
		{"i", 15, InAll},
	})
}

func TestParseSingleArgumentIsNeverInAll(t *testing.T) {
	terms := Parser{}.Parse("ii->i", 0)
	for _, term := range terms {
		require.Equal(t, Normal, term.State)
	}
}

func TestParseNewAndReduced(t *testing.T) {
	terms := Parser{}.Parse("ab->bc", 0)
	requireTerms(t, terms, []termWant{
		{"a", 0, Reduced},
		{"b", 1, Normal},
		{"b", 4, Normal},
		{"c", 5, New},
	})
}

func TestParseWithoutArrowSkipsClassification(t *testing.T) {
	terms := Parser{}.Parse("ij,jk", 0)
	require.Len(t, terms, 4)
	for _, term := range terms {
		require.Equal(t, Normal, term.State)
	}
	terms = Parser{}.Parse("ij->", 0)
	for _, term := range terms {
		require.Equal(t, Normal, term.State)
	}
}

func TestParseWordsAuto(t *testing.T) {
	terms := Parser{}.Parse("b (h w) c -> b c h w", 0)
	requireTerms(t, terms, []termWant{
		{"b", 0, Normal},
		{"h", 3, Normal},
		{"w", 5, Normal},
		{"c", 8, Normal},
		{"b", 13, Normal},
		{"c", 15, Normal},
		{"h", 17, Normal},
		{"w", 19, Normal},
	})
}

func TestParseWordsFromSpaces(t *testing.T) {
	terms := Parser{}.Parse("batch seq, seq dim -> batch dim", 0)
	require.Equal(t, []string{"batch", "seq", "seq", "dim", "batch", "dim"}, texts(terms))
	require.Equal(t, Reduced, terms[1].State)
	require.Equal(t, Normal, terms[0].State)
}

func TestParseEllipsis(t *testing.T) {
	terms := Parser{}.Parse("...ij,...jk->...ik", 0)
	require.Equal(t, []string{"...", "i", "j", "...", "j", "k", "...", "i", "k"}, texts(terms))
	require.Equal(t, InAll, terms[0].State)
	require.Equal(t, InAll, terms[3].State)
	require.Equal(t, InAll, terms[6].State)
}

func TestParseForcedSpacing(t *testing.T) {
	terms := Parser{Spacing: SpacingChars}.Parse("ab c->ab", 0)
	require.Equal(t, []string{"a", "b", "c", "a", "b"}, texts(terms))
	terms = Parser{Spacing: SpacingWords}.Parse("ab,bc->ac", 0)
	require.Equal(t, []string{"ab", "bc", "ac"}, texts(terms))
	require.Equal(t, New, terms[2].State)
}

func TestParseMalformed(t *testing.T) {
	for _, eq := range []string{"", "->", ",,,", "->->", "))((", "a->b->c", "ü,ü->ü"} {
		require.NotPanics(t, func() { Parser{}.Parse(eq, 0) }, eq)
	}
	require.Empty(t, Parser{}.Parse("", 0))
}

func TestParseRuneColumns(t *testing.T) {
	terms := Parser{}.Parse("äb->b", 4)
	require.Equal(t, 4, terms[0].Start)
	require.Equal(t, 5, terms[1].Start)
	require.Equal(t, 8, terms[2].Start)
	require.Equal(t, 9, terms[2].End())
}

func TestParseHashesWithSeed(t *testing.T) {
	a := Parser{Seed: 7}.Parse("ij->j", 0)
	b := Parser{Seed: 7}.Parse("j,i->ij", 20)
	require.Equal(t, a[0].Hash, b[1].Hash)
	require.Equal(t, Hash("i", 7), a[0].Hash)
	require.NotEqual(t, Hash("i", 7), Hash("i", 8))
}

func TestParseSpacing(t *testing.T) {
	for in, want := range map[string]Spacing{"": SpacingAuto, "Auto": SpacingAuto, "chars": SpacingChars, "words": SpacingWords} {
		got, err := ParseSpacing(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseSpacing("tabs")
	require.Error(t, err)
}

func texts(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Text
	}
	return out
}
