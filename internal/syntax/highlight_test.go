package syntax

import (
	"testing"
)

func spanOf(spans []Span, kind string) (Span, bool) {
	for _, s := range spans {
		if s.Kind == kind {
			return s, true
		}
	}
	return Span{}, false
}

func TestPythonHighlights(t *testing.T) {
	h := New()
	defer h.Reset()

	src := "import torch\n# contraction\ny = torch.einsum(\"ij,jk->ik\", a, b)\nn = 42\n"
	if !h.Parse("python", src) {
		t.Fatalf("Parse returned false")
	}
	if h.Language() != "python" {
		t.Fatalf("Language = %q, want python", h.Language())
	}

	got := h.Highlights(0, 3)
	if s, ok := spanOf(got[0], KindKeyword); !ok || s.Start != 0 || s.End != 6 {
		t.Fatalf("row 0 keyword = %#v ok=%v, want [0,6)", s, ok)
	}
	if s, ok := spanOf(got[1], KindComment); !ok || s.Start != 0 || s.End != 13 {
		t.Fatalf("row 1 comment = %#v ok=%v, want [0,13)", s, ok)
	}
	if s, ok := spanOf(got[2], KindString); !ok || s.Start != 17 || s.End != 28 {
		t.Fatalf("row 2 string = %#v ok=%v, want [17,28)", s, ok)
	}
	if s, ok := spanOf(got[3], KindNumber); !ok || s.Start != 4 || s.End != 6 {
		t.Fatalf("row 3 number = %#v ok=%v, want [4,6)", s, ok)
	}
}

func TestHighlightsUseRuneColumns(t *testing.T) {
	h := New()
	defer h.Reset()

	if !h.Parse("python", "s = \"é\" # c\n") {
		t.Fatalf("Parse returned false")
	}
	s, ok := spanOf(h.Highlights(0, 0)[0], KindComment)
	if !ok {
		t.Fatalf("no comment span")
	}
	if s.Start != 8 || s.End != 11 {
		t.Fatalf("comment span = [%d,%d), want [8,11)", s.Start, s.End)
	}
}

func TestHighlightsWindow(t *testing.T) {
	h := New()
	defer h.Reset()

	if !h.Parse("go", "package main\n\n// one\n// two\n") {
		t.Fatalf("Parse returned false")
	}
	got := h.Highlights(2, 2)
	if _, ok := got[3]; ok {
		t.Fatalf("row outside the window highlighted: %#v", got)
	}
	if _, ok := spanOf(got[2], KindComment); !ok {
		t.Fatalf("row 2 comment missing: %#v", got)
	}
	if got := h.Highlights(3, 1); got != nil {
		t.Fatalf("inverted window = %#v, want nil", got)
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	h := New()
	if Supports("cobol") {
		t.Fatalf("Supports(cobol) = true")
	}
	if !Supports("python") || !Supports("go") {
		t.Fatalf("bundled grammars missing")
	}
	h.Parse("python", "x = 1\n")
	if h.Parse("cobol", "MOVE 1 TO X.") {
		t.Fatalf("Parse(cobol) = true")
	}
	if got := h.Highlights(0, 0); got != nil {
		t.Fatalf("Highlights after unsupported parse = %#v, want nil", got)
	}
}
