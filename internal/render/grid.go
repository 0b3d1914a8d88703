// Package render turns annotation ranges into tcell styles.
package render

import (
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/einview/internal/annotate"
	"github.com/kobzarvs/einview/internal/equation"
	"github.com/kobzarvs/einview/internal/logger"
)

const layerCount = 2

// Grid holds one tcell.Style per layer, state and palette color together with
// the range list last set for it. It implements annotate.Renderer.
type Grid struct {
	colors   int
	styles   [layerCount][]tcell.Style
	ranges   [layerCount][][]annotate.Range
	byLine   map[int][]span
	stale    bool
	disposed bool
}

type span struct {
	start, end int
	layer      annotate.Layer
	style      tcell.Style
}

// NewGrid builds the style objects for palette. bold adds bold to every term.
func NewGrid(palette []tcell.Color, bold bool, bg tcell.Color) *Grid {
	g := &Grid{colors: len(palette), stale: true}
	n := equation.StateCount * len(palette)
	for layer := 0; layer < layerCount; layer++ {
		g.styles[layer] = make([]tcell.Style, n)
		g.ranges[layer] = make([][]annotate.Range, n)
		for st := 0; st < equation.StateCount; st++ {
			for c, fg := range palette {
				g.styles[layer][st*len(palette)+c] = termStyle(equation.State(st), fg, bg, bold)
			}
		}
	}
	return g
}

func termStyle(state equation.State, fg, bg tcell.Color, bold bool) tcell.Style {
	st := tcell.StyleDefault.Foreground(fg).Background(bg)
	switch state {
	case equation.InAll:
		st = st.Underline(true)
	case equation.Reduced:
		st = st.Dim(true).Italic(true)
	case equation.New:
		st = st.Reverse(true)
	}
	if bold {
		st = st.Bold(true)
	}
	return st
}

// Colors returns the palette size.
func (g *Grid) Colors() int {
	return g.colors
}

func (g *Grid) index(layer annotate.Layer, s annotate.Style) (int, bool) {
	if layer < 0 || int(layer) >= layerCount {
		return 0, false
	}
	if s.State < 0 || int(s.State) >= equation.StateCount || s.Color < 0 || s.Color >= g.colors {
		return 0, false
	}
	return int(s.State)*g.colors + s.Color, true
}

// Set replaces the range list of one style.
func (g *Grid) Set(layer annotate.Layer, s annotate.Style, ranges []annotate.Range) {
	if g.disposed {
		logger.Warn("render: Set on disposed grid", "layer", layer.String(), "state", s.State.String(), "color", s.Color)
		return
	}
	i, ok := g.index(layer, s)
	if !ok {
		return
	}
	g.ranges[layer][i] = ranges
	g.stale = true
}

// style returns the style object for one cell.
func (g *Grid) style(layer annotate.Layer, s annotate.Style) (tcell.Style, bool) {
	i, ok := g.index(layer, s)
	if !ok || g.disposed {
		return tcell.StyleDefault, false
	}
	return g.styles[layer][i], true
}

// StyleAt returns the annotation style covering (line, col). The Line layer
// takes precedence over the Full layer.
func (g *Grid) StyleAt(line, col int) (tcell.Style, bool) {
	if g.disposed {
		return tcell.StyleDefault, false
	}
	if g.stale {
		g.rebuild()
	}
	for _, sp := range g.byLine[line] {
		if col >= sp.start && col < sp.end {
			return sp.style, true
		}
	}
	return tcell.StyleDefault, false
}

// Count returns how many ranges are currently set across all styles.
func (g *Grid) Count() int {
	n := 0
	for layer := 0; layer < layerCount; layer++ {
		for _, rs := range g.ranges[layer] {
			n += len(rs)
		}
	}
	return n
}

func (g *Grid) rebuild() {
	g.byLine = make(map[int][]span)
	for layer := 0; layer < layerCount; layer++ {
		for i, rs := range g.ranges[layer] {
			for _, r := range rs {
				g.byLine[r.Line] = append(g.byLine[r.Line], span{
					start: r.Start,
					end:   r.End,
					layer: annotate.Layer(layer),
					style: g.styles[layer][i],
				})
			}
		}
	}
	for _, spans := range g.byLine {
		sort.SliceStable(spans, func(a, b int) bool {
			return spans[a].layer > spans[b].layer
		})
	}
	g.stale = false
}

// Dispose releases every style and range. The grid ignores later updates.
func (g *Grid) Dispose() {
	for layer := 0; layer < layerCount; layer++ {
		g.styles[layer] = nil
		g.ranges[layer] = nil
	}
	g.byLine = nil
	g.disposed = true
}
