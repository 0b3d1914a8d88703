package annotate

import (
	"slices"

	"github.com/kobzarvs/einview/internal/coloring"
	"github.com/kobzarvs/einview/internal/equation"
	"github.com/kobzarvs/einview/internal/logger"
)

// Options is the normalized configuration the synchronizer runs with.
type Options struct {
	Locator  *equation.Locator
	Parser   equation.Parser
	Coloring coloring.Policy
	Colors   int
	Gate     Gate
}

// Terms locates, parses and colors the equation on line. It returns nil when
// the line holds no equation.
func (o Options) Terms(line string) []equation.Term {
	eq, col, ok := o.Locator.Equation(line)
	if !ok {
		return nil
	}
	terms := o.Parser.Parse(eq, col)
	coloring.Apply(terms, o.Coloring, o.Colors)
	return terms
}

// Stats counts the work done so far.
type Stats struct {
	FullScans int
	Patches   int
}

// Synchronizer owns the Full and Line caches and decides, per notification,
// whether a full rescan or an incremental patch is needed. It is not safe for
// concurrent use; handlers are expected to run one at a time in delivery order.
type Synchronizer struct {
	opts     Options
	renderer Renderer
	doc      Document

	full   *Cache
	line   *Cache
	edited []int // sorted; lines owned by the Line cache

	anchor  int
	visible bool
	dirty   bool
	stats   Stats
}

func New(opts Options, r Renderer) *Synchronizer {
	return &Synchronizer{
		opts:     opts,
		renderer: r,
		full:     NewCache(opts.Colors),
		line:     NewCache(opts.Colors),
		dirty:    true,
	}
}

// Visible reports whether annotations are currently rendered.
func (s *Synchronizer) Visible() bool {
	return s.visible
}

func (s *Synchronizer) Stats() Stats {
	return s.stats
}

// Edited returns the lines currently owned by the Line cache.
func (s *Synchronizer) Edited() []int {
	return slices.Clone(s.edited)
}

// OnEditorSwitch makes doc the annotated document. A nil doc clears
// everything.
func (s *Synchronizer) OnEditorSwitch(doc Document, anchor int) {
	if s.visible || doc == nil {
		s.hide()
	}
	s.doc = doc
	s.anchor = anchor
	s.reset()
	if doc == nil {
		s.visible = false
		return
	}
	s.visible = s.opts.Gate.Open(s.opts.Locator, doc, anchor)
	if s.visible {
		s.rescan()
	}
}

// OnConfigChange applies new options. r replaces the renderer when non-nil;
// the caller is responsible for disposing the previous one. With a nil r the
// current renderer is cleared under the old palette first.
func (s *Synchronizer) OnConfigChange(opts Options, r Renderer) {
	if r != nil {
		s.renderer = r
	} else {
		s.hide()
	}
	s.opts = opts
	s.full = NewCache(opts.Colors)
	s.line = NewCache(opts.Colors)
	s.reset()
	if s.doc == nil {
		s.visible = false
		return
	}
	s.visible = opts.Gate.Open(opts.Locator, s.doc, s.anchor)
	if s.visible {
		s.rescan()
	} else {
		s.hide()
	}
}

// OnDocumentChange handles one batch of edits.
func (s *Synchronizer) OnDocumentChange(edits []Edit) {
	if s.doc == nil || len(edits) == 0 {
		return
	}
	if !s.visible {
		s.dirty = true
		return
	}
	lines := make([]int, 0, len(edits))
	for _, e := range edits {
		if e.MultiLine() {
			s.rescan()
			return
		}
		lines = append(lines, e.StartLine)
	}
	s.patch(lines)
}

// OnSelectionChange re-evaluates the gate for a new cursor anchor.
func (s *Synchronizer) OnSelectionChange(anchor int) {
	s.anchor = anchor
	if s.doc == nil {
		return
	}
	open := s.opts.Gate.Open(s.opts.Locator, s.doc, anchor)
	if open == s.visible {
		return
	}
	s.visible = open
	if !open {
		s.hide()
		return
	}
	if s.dirty {
		s.rescan()
		return
	}
	s.push(LayerFull, s.full)
	s.push(LayerLine, s.line)
}

// Teardown clears the renderer and drops the document.
func (s *Synchronizer) Teardown() {
	s.hide()
	s.doc = nil
	s.visible = false
	s.reset()
	s.renderer = nil
}

func (s *Synchronizer) reset() {
	s.full.Clear()
	s.line.Clear()
	s.edited = nil
	s.dirty = true
}

func (s *Synchronizer) rescan() {
	s.full.Clear()
	s.line.Clear()
	s.edited = nil
	n := s.doc.LineCount()
	for i := 0; i < n; i++ {
		s.scanLine(i, s.full)
	}
	s.dirty = false
	s.stats.FullScans++
	s.push(LayerFull, s.full)
	s.push(LayerLine, s.line)
	logger.Debug("annotate: full rescan", "lines", n, "ranges", s.full.Len())
}

func (s *Synchronizer) patch(touched []int) {
	n := s.doc.LineCount()
	lines := make([]int, 0, len(touched))
	for _, l := range touched {
		if l >= 0 && l < n {
			lines = append(lines, l)
		}
	}
	slices.Sort(lines)
	lines = slices.Compact(lines)

	if !slices.Equal(lines, s.edited) {
		changed := s.line.MergeInto(s.full)
		if s.full.RemoveLines(lines) {
			changed = true
		}
		if changed {
			s.push(LayerFull, s.full)
		}
		s.edited = lines
	}

	s.line.Clear()
	for _, l := range lines {
		s.scanLine(l, s.line)
	}
	s.stats.Patches++
	s.push(LayerLine, s.line)
	logger.Debug("annotate: patched lines", "lines", lines, "ranges", s.line.Len())
}

func (s *Synchronizer) scanLine(i int, c *Cache) {
	for _, t := range s.opts.Terms(s.doc.Line(i)) {
		c.Add(Style{State: t.State, Color: t.Color}, Range{Line: i, Start: t.Start, End: t.End()})
	}
}

func (s *Synchronizer) push(layer Layer, c *Cache) {
	if s.renderer == nil {
		return
	}
	for _, style := range c.Styles() {
		s.renderer.Set(layer, style, slices.Clone(c.Cell(style)))
	}
}

func (s *Synchronizer) hide() {
	if s.renderer == nil {
		return
	}
	for _, layer := range []Layer{LayerFull, LayerLine} {
		for _, style := range s.full.Styles() {
			s.renderer.Set(layer, style, nil)
		}
	}
}
