// Package annotate keeps rendered equation annotations in step with document
// edits. Annotations live in two caches: Full for the whole document and Line
// for the lines currently being edited. Only the small Line cache has to be
// pushed to the renderer on a typical keystroke.
package annotate

import (
	"strings"

	"github.com/kobzarvs/einview/internal/equation"
)

// Range is a highlighted span on one line. Columns are runes, End exclusive.
type Range struct {
	Line  int
	Start int
	End   int
}

// Style addresses one renderer style: a term state combined with a palette
// index.
type Style struct {
	State equation.State
	Color int
}

// Layer tells the renderer which cache a range list belongs to. Each layer has
// its own set of style objects.
type Layer int

const (
	LayerFull Layer = iota
	LayerLine
)

func (l Layer) String() string {
	if l == LayerLine {
		return "line"
	}
	return "full"
}

// Renderer receives the complete range list for one style of one layer; each
// call replaces the previous list for that style.
type Renderer interface {
	Set(layer Layer, style Style, ranges []Range)
}

// Document is read access to the text being annotated.
type Document interface {
	LineCount() int
	Line(i int) string
}

// Edit is one replaced range of a change notification. StartLine and EndLine
// are the replaced lines, Text is what was inserted.
type Edit struct {
	StartLine int
	EndLine   int
	Text      string
}

// MultiLine reports whether the edit spans or inserts line breaks.
func (e Edit) MultiLine() bool {
	return e.StartLine != e.EndLine || strings.ContainsAny(e.Text, "\n\r")
}
