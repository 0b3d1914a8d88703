package annotate

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/einview/internal/equation"
)

// GateMode decides when annotations are shown.
type GateMode int

const (
	CursorNearLine GateMode = iota
	AlwaysOn
)

func (m GateMode) String() string {
	if m == AlwaysOn {
		return "always-on"
	}
	return "cursor-near-line"
}

// ParseGateMode accepts the config spellings of a gate mode.
func ParseGateMode(s string) (GateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cursor-near-line", "cursornearline":
		return CursorNearLine, nil
	case "always-on", "alwayson":
		return AlwaysOn, nil
	default:
		return CursorNearLine, fmt.Errorf("unknown mode %q", s)
	}
}

// Gate is the visibility switch for annotations.
type Gate struct {
	Mode   GateMode
	Radius int
}

// Open reports whether annotations should be rendered with the cursor anchored
// on anchor.
func (g Gate) Open(loc *equation.Locator, doc Document, anchor int) bool {
	if g.Mode == AlwaysOn {
		return true
	}
	return IsNear(loc, doc, anchor, g.Radius)
}

// IsNear probes the lines within radius of anchor, clamped to the document,
// and reports whether any of them holds an equation.
func IsNear(loc *equation.Locator, doc Document, anchor, radius int) bool {
	if doc == nil {
		return false
	}
	if radius < 0 {
		radius = 0
	}
	from := max(anchor-radius, 0)
	to := min(anchor+radius, doc.LineCount()-1)
	for i := from; i <= to; i++ {
		if _, _, ok := loc.Locate(doc.Line(i)); ok {
			return true
		}
	}
	return false
}
