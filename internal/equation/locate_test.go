package equation

import (
	"strings"
	"testing"
)

func defaultLocator(t *testing.T) *Locator {
	t.Helper()
	l, errs := NewLocator(DefaultPrefixPatterns)
	if len(errs) != 0 {
		t.Fatalf("NewLocator errors: %v", errs)
	}
	return l
}

func TestLocateRoundTrip(t *testing.T) {
	l := defaultLocator(t)
	prefixes := []string{"einsum(", "torch.einsum(", "np.einsum(", "einops.rearrange(x, ", "rearrange(x,", "reduce(x,   "}
	quotes := []string{`"`, `'`}
	inners := []string{"ij,jk->ik", "b h w c -> b c h w", "...ij->...ji", "", "ü,ü->ü"}
	for _, prefix := range prefixes {
		for _, q := range quotes {
			for _, inner := range inners {
				head := "    out = " + prefix + q
				line := head + inner + q + ", a, b)"
				start, end, ok := l.Locate(line)
				if !ok {
					t.Fatalf("Locate(%q) not found", line)
				}
				wantStart := len([]rune(head))
				wantEnd := wantStart + len([]rune(inner))
				if start != wantStart || end != wantEnd {
					t.Fatalf("Locate(%q) = (%d, %d), want (%d, %d)", line, start, end, wantStart, wantEnd)
				}
			}
		}
	}
}

func TestLocateNamedParameter(t *testing.T) {
	l := defaultLocator(t)
	for _, name := range []string{"equation", "pattern", "subscripts"} {
		line := "y = einsum(" + name + ` = "ij->ji", operands=[x])`
		eq, col, ok := l.Equation(line)
		if !ok {
			t.Fatalf("Equation(%q) not found", line)
		}
		if eq != "ij->ji" {
			t.Fatalf("Equation(%q) = %q, want %q", line, eq, "ij->ji")
		}
		if col != strings.Index(line, `"`)+1 {
			t.Fatalf("column = %d, want %d", col, strings.Index(line, `"`)+1)
		}
	}
}

func TestLocateUnterminated(t *testing.T) {
	l := defaultLocator(t)
	line := `einsum("ij,jk`
	start, end, ok := l.Locate(line)
	if !ok {
		t.Fatalf("Locate(%q) not found", line)
	}
	if start != 8 || end != -1 {
		t.Fatalf("Locate = (%d, %d), want (8, -1)", start, end)
	}
	eq, _, _ := l.Equation(line)
	if eq != "ij,jk" {
		t.Fatalf("Equation = %q, want %q", eq, "ij,jk")
	}
}

func TestLocateNotFound(t *testing.T) {
	l := defaultLocator(t)
	lines := []string{
		"",
		"   \t ",
		"x = einsum",
		"x = einsum(",
		"x = einsum(a",
		`x = einsum(f("ij"), a)`,
		`print("ij,jk->ik")`,
		`y = einsum(equation=x)`,
	}
	for _, line := range lines {
		if _, _, ok := l.Locate(line); ok {
			t.Fatalf("Locate(%q) found, want not found", line)
		}
	}
}

func TestLocateFirstPrefixWins(t *testing.T) {
	l := defaultLocator(t)
	line := `einsum(x) + einsum("ij->j", y)`
	if _, _, ok := l.Locate(line); ok {
		t.Fatalf("Locate(%q) found, only the first prefix anchors the scan", line)
	}
}

func TestNewLocatorRejectsInvalidPatterns(t *testing.T) {
	l, errs := NewLocator([]string{"einsum", "(broken", "contract"})
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if got := l.Patterns(); len(got) != 2 {
		t.Fatalf("patterns = %v, want 2 valid", got)
	}
	if _, _, ok := l.Locate(`contract("ab,b->a", x, y)`); !ok {
		t.Fatalf("valid pattern stopped matching")
	}
}

func TestNilLocator(t *testing.T) {
	var l *Locator
	if _, _, ok := l.Locate(`einsum("ij")`); ok {
		t.Fatalf("nil locator found an equation")
	}
	empty, _ := NewLocator(nil)
	if _, _, ok := empty.Locate(`einsum("ij")`); ok {
		t.Fatalf("empty locator found an equation")
	}
}
