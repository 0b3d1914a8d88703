package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is used when no valid custom palette is configured.
var DefaultPalette = []string{
	"#F07178",
	"#FFB454",
	"#C2D94C",
	"#59C2FF",
	"#D2A6FF",
	"#95E6CB",
	"#E6B673",
	"#FF8F40",
}

// ThemeKind is the brightness of the editor background.
type ThemeKind int

const (
	Dark ThemeKind = iota
	Light
)

func (k ThemeKind) String() string {
	if k == Light {
		return "light"
	}
	return "dark"
}

func ParseThemeKind(s string) (ThemeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return Dark, fmt.Errorf("unknown theme kind %q", s)
	}
}

// ParseHex validates one palette entry.
func ParseHex(s string) (colorful.Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("palette color %q: %w", s, err)
	}
	return c, nil
}

// Palette converts hex strings to terminal colors. Light themes get every
// color darkened in Lab space so terms stay readable. Invalid entries are
// skipped and reported.
func Palette(hexes []string, kind ThemeKind) ([]tcell.Color, []error) {
	var (
		out  []tcell.Color
		errs []error
	)
	black := colorful.Color{}
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if kind == Light {
			c = c.BlendLab(black, 0.35).Clamped()
		}
		r, g, b := c.RGB255()
		out = append(out, tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	return out, errs
}

// ParseColor reads a theme color, falling back when s is empty or invalid.
func ParseColor(s string, fallback tcell.Color) tcell.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if strings.EqualFold(s, "default") {
		return tcell.ColorDefault
	}
	if c, err := ParseHex(s); err == nil {
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	if c := tcell.GetColor(strings.ToLower(s)); c != tcell.ColorDefault {
		return c
	}
	return fallback
}
