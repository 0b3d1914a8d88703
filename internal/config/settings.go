package config

import (
	"fmt"
	"math"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"

	"github.com/kobzarvs/einview/internal/annotate"
	"github.com/kobzarvs/einview/internal/coloring"
	"github.com/kobzarvs/einview/internal/equation"
	"github.com/kobzarvs/einview/internal/render"
)

// Settings is the validated form of the [annotate] and [theme] tables.
// Problems found while normalizing never abort; they are collected in
// Diagnostics and the offending values fall back to defaults.
type Settings struct {
	Mode            annotate.GateMode
	CursorNearRange int
	Coloring        coloring.Policy
	HashSeed        int32
	Spacing         equation.Spacing
	IncludePatterns []string
	Palette         []string
	ThemeKind       render.ThemeKind
	BoldTerms       bool
	Locator         *equation.Locator
	Diagnostics     error
}

func Normalize(cfg Config) Settings {
	a := cfg.Annotate
	var (
		s    Settings
		diag error
		err  error
	)

	if s.Mode, err = annotate.ParseGateMode(a.Mode); err != nil {
		diag = multierr.Append(diag, err)
	}
	s.CursorNearRange = a.CursorNearRange
	if s.CursorNearRange < 0 {
		diag = multierr.Append(diag, fmt.Errorf("cursor-near-range %d is negative, using 0", a.CursorNearRange))
		s.CursorNearRange = 0
	}
	if s.Coloring, err = coloring.ParsePolicy(a.Coloring); err != nil {
		diag = multierr.Append(diag, err)
	}
	if a.HashSeed < math.MinInt32 || a.HashSeed > math.MaxInt32 {
		diag = multierr.Append(diag, fmt.Errorf("hash-seed %d does not fit in 32 bits, truncating", a.HashSeed))
	}
	s.HashSeed = int32(a.HashSeed)
	if s.Spacing, err = equation.ParseSpacing(a.Spacing); err != nil {
		diag = multierr.Append(diag, err)
	}
	if s.ThemeKind, err = render.ParseThemeKind(cfg.Theme.Kind); err != nil {
		diag = multierr.Append(diag, err)
	}
	s.BoldTerms = a.UseBoldTerms

	for _, p := range a.IncludedFilePatterns {
		if !doublestar.ValidatePattern(p) {
			diag = multierr.Append(diag, fmt.Errorf("included file pattern %q is not a valid glob", p))
			continue
		}
		s.IncludePatterns = append(s.IncludePatterns, p)
	}

	s.Palette = append([]string(nil), render.DefaultPalette...)
	if a.UseCustomPalette {
		var custom []string
		for _, h := range a.CustomPalette {
			if _, err := render.ParseHex(h); err != nil {
				diag = multierr.Append(diag, err)
				continue
			}
			custom = append(custom, h)
		}
		if len(custom) > 0 {
			s.Palette = custom
		} else {
			diag = multierr.Append(diag, fmt.Errorf("custom palette has no valid colors, using the default palette"))
		}
	}

	patterns := a.EquationPrefixPatterns
	if len(patterns) == 0 {
		patterns = equation.DefaultPrefixPatterns
	}
	var errs []error
	s.Locator, errs = equation.NewLocator(patterns)
	diag = multierr.Append(diag, multierr.Combine(errs...))

	s.Diagnostics = diag
	return s
}

// Options converts the settings into what the synchronizer consumes.
func (s Settings) Options() annotate.Options {
	return annotate.Options{
		Locator:  s.Locator,
		Parser:   equation.Parser{Spacing: s.Spacing, Seed: s.HashSeed},
		Coloring: s.Coloring,
		Colors:   len(s.Palette),
		Gate:     annotate.Gate{Mode: s.Mode, Radius: s.CursorNearRange},
	}
}

// Included reports whether a document is annotated. Patterns are matched
// against the slash path, the path without a leading slash, the base name and
// the language identifier.
func (s Settings) Included(filePath, languageID string) bool {
	var candidates []string
	if filePath != "" {
		slashed := filepath.ToSlash(filePath)
		candidates = append(candidates, slashed, strings.TrimPrefix(slashed, "/"), path.Base(slashed))
	}
	if languageID != "" {
		candidates = append(candidates, languageID)
	}
	for _, p := range s.IncludePatterns {
		for _, c := range candidates {
			if ok, _ := doublestar.Match(p, c); ok {
				return true
			}
		}
	}
	return false
}

// Warnings splits Diagnostics into one error per problem.
func (s Settings) Warnings() []error {
	return multierr.Errors(s.Diagnostics)
}
