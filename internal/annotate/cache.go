package annotate

import (
	"slices"

	"github.com/kobzarvs/einview/internal/equation"
)

// Cache buckets ranges by (state, color). Cells are stored flat, state major.
type Cache struct {
	colors int
	cells  [][]Range
}

func NewCache(colors int) *Cache {
	if colors < 0 {
		colors = 0
	}
	return &Cache{
		colors: colors,
		cells:  make([][]Range, equation.StateCount*colors),
	}
}

func (c *Cache) index(s Style) (int, bool) {
	if s.State < 0 || int(s.State) >= equation.StateCount || s.Color < 0 || s.Color >= c.colors {
		return 0, false
	}
	return int(s.State)*c.colors + s.Color, true
}

// Add appends r to the cell for s. Out of range styles are dropped.
func (c *Cache) Add(s Style, r Range) {
	if i, ok := c.index(s); ok {
		c.cells[i] = append(c.cells[i], r)
	}
}

// Cell returns the ranges stored for s.
func (c *Cache) Cell(s Style) []Range {
	if i, ok := c.index(s); ok {
		return c.cells[i]
	}
	return nil
}

// Styles returns every addressable style in cell order.
func (c *Cache) Styles() []Style {
	out := make([]Style, 0, len(c.cells))
	for st := 0; st < equation.StateCount; st++ {
		for color := 0; color < c.colors; color++ {
			out = append(out, Style{State: equation.State(st), Color: color})
		}
	}
	return out
}

func (c *Cache) Clear() {
	for i := range c.cells {
		c.cells[i] = nil
	}
}

// Len returns the total number of ranges.
func (c *Cache) Len() int {
	n := 0
	for _, cell := range c.cells {
		n += len(cell)
	}
	return n
}

// MergeInto appends every range of c to dst. It reports whether anything was
// moved. c itself is left untouched.
func (c *Cache) MergeInto(dst *Cache) bool {
	moved := false
	for i, cell := range c.cells {
		if len(cell) == 0 || i >= len(dst.cells) {
			continue
		}
		dst.cells[i] = append(dst.cells[i], cell...)
		moved = true
	}
	return moved
}

// RemoveLines drops every range on one of the sorted lines and reports
// whether anything was removed.
func (c *Cache) RemoveLines(lines []int) bool {
	if len(lines) == 0 {
		return false
	}
	removed := false
	for i, cell := range c.cells {
		kept := cell[:0]
		for _, r := range cell {
			if _, found := slices.BinarySearch(lines, r.Line); found {
				removed = true
				continue
			}
			kept = append(kept, r)
		}
		c.cells[i] = kept
	}
	return removed
}

// LineRanges returns the ranges on line, grouped by style.
func (c *Cache) LineRanges(line int) map[Style][]Range {
	out := make(map[Style][]Range)
	for _, s := range c.Styles() {
		for _, r := range c.Cell(s) {
			if r.Line == line {
				out[s] = append(out[s], r)
			}
		}
	}
	return out
}
