package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/einview/internal/annotate"
	"github.com/kobzarvs/einview/internal/equation"
)

func testGrid(t *testing.T, bold bool) *Grid {
	t.Helper()
	palette, errs := Palette(DefaultPalette[:3], Dark)
	if len(errs) != 0 {
		t.Fatalf("Palette errors: %v", errs)
	}
	return NewGrid(palette, bold, tcell.ColorBlack)
}

func TestGridStyleAt(t *testing.T) {
	g := testGrid(t, false)
	s := annotate.Style{State: equation.Reduced, Color: 1}
	g.Set(annotate.LayerFull, s, []annotate.Range{{Line: 2, Start: 4, End: 6}})

	st, ok := g.StyleAt(2, 5)
	if !ok {
		t.Fatalf("StyleAt(2,5) not annotated")
	}
	fg, _, attrs := st.Decompose()
	want, _ := g.style(annotate.LayerFull, s)
	wantFg, _, _ := want.Decompose()
	if fg != wantFg {
		t.Fatalf("fg = %v, want %v", fg, wantFg)
	}
	if attrs&tcell.AttrDim == 0 || attrs&tcell.AttrItalic == 0 {
		t.Fatalf("reduced term attrs = %v, want dim+italic", attrs)
	}
	if _, ok := g.StyleAt(2, 6); ok {
		t.Fatalf("StyleAt(2,6) annotated, end is exclusive")
	}
	if _, ok := g.StyleAt(3, 5); ok {
		t.Fatalf("StyleAt(3,5) annotated")
	}

	g.Set(annotate.LayerFull, s, nil)
	if _, ok := g.StyleAt(2, 5); ok {
		t.Fatalf("Set(nil) did not replace ranges")
	}
}

func TestGridLineLayerWins(t *testing.T) {
	g := testGrid(t, true)
	full := annotate.Style{State: equation.Normal, Color: 0}
	line := annotate.Style{State: equation.New, Color: 2}
	g.Set(annotate.LayerFull, full, []annotate.Range{{Line: 0, Start: 0, End: 3}})
	g.Set(annotate.LayerLine, line, []annotate.Range{{Line: 0, Start: 1, End: 2}})

	st, _ := g.StyleAt(0, 1)
	_, _, attrs := st.Decompose()
	if attrs&tcell.AttrReverse == 0 {
		t.Fatalf("line layer style not used, attrs = %v", attrs)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("bold terms not bold")
	}
	if g.Count() != 2 {
		t.Fatalf("Count = %d, want 2", g.Count())
	}
}

func TestGridIgnoresOutOfRange(t *testing.T) {
	g := testGrid(t, false)
	g.Set(annotate.LayerFull, annotate.Style{State: equation.Normal, Color: 7}, []annotate.Range{{Line: 0, Start: 0, End: 1}})
	g.Set(annotate.Layer(5), annotate.Style{State: equation.Normal, Color: 0}, []annotate.Range{{Line: 0, Start: 0, End: 1}})
	if g.Count() != 0 {
		t.Fatalf("Count = %d, want 0", g.Count())
	}
}

func TestGridDispose(t *testing.T) {
	g := testGrid(t, false)
	s := annotate.Style{State: equation.InAll, Color: 0}
	g.Set(annotate.LayerFull, s, []annotate.Range{{Line: 0, Start: 0, End: 1}})
	g.Dispose()
	if _, ok := g.StyleAt(0, 0); ok {
		t.Fatalf("disposed grid still annotates")
	}
	g.Set(annotate.LayerFull, s, []annotate.Range{{Line: 0, Start: 0, End: 1}})
	if g.Count() != 0 {
		t.Fatalf("disposed grid accepted ranges")
	}
}

func TestPaletteLightDarkens(t *testing.T) {
	dark, _ := Palette([]string{"#FFFFFF"}, Dark)
	light, _ := Palette([]string{"#FFFFFF"}, Light)
	dr, _, _ := dark[0].RGB()
	lr, _, _ := light[0].RGB()
	if lr >= dr {
		t.Fatalf("light palette red = %d, want below %d", lr, dr)
	}
}

func TestPaletteRejectsInvalid(t *testing.T) {
	colors, errs := Palette([]string{"#123456", "blue-ish", "#12"}, Dark)
	if len(colors) != 1 || len(errs) != 2 {
		t.Fatalf("Palette = %d colors, %d errors; want 1 and 2", len(colors), len(errs))
	}
}

func TestParseColor(t *testing.T) {
	if got := ParseColor("", tcell.ColorRed); got != tcell.ColorRed {
		t.Fatalf("ParseColor empty = %v", got)
	}
	if got := ParseColor("#000000", tcell.ColorRed); got != tcell.NewRGBColor(0, 0, 0) {
		t.Fatalf("ParseColor hex = %v", got)
	}
	if got := ParseColor("nonsense", tcell.ColorRed); got != tcell.ColorRed {
		t.Fatalf("ParseColor invalid = %v", got)
	}
	if k, err := ParseThemeKind("Light"); err != nil || k != Light {
		t.Fatalf("ParseThemeKind = %v, %v", k, err)
	}
}
