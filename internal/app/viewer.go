package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/einview/internal/annotate"
	"github.com/kobzarvs/einview/internal/config"
	"github.com/kobzarvs/einview/internal/editor"
	"github.com/kobzarvs/einview/internal/logger"
	"github.com/kobzarvs/einview/internal/render"
	"github.com/kobzarvs/einview/internal/syntax"
)

// viewer wires one editor to the annotation synchronizer, the style grid and
// the syntax base layer. Everything runs on the event loop goroutine.
type viewer struct {
	ed       *editor.Editor
	sync     *annotate.Synchronizer
	grid     *render.Grid
	hl       *syntax.Highlighter
	langs    config.Languages
	settings config.Settings

	langID     string
	included   bool
	parsedTick uint64
	parsed     bool
}

func newViewer(cfg config.Config, langs config.Languages) *viewer {
	v := &viewer{
		ed:    editor.New(cfg),
		hl:    syntax.New(),
		langs: langs,
	}
	v.settings = config.Normalize(cfg)
	v.report()
	v.grid = buildGrid(v.settings, cfg)
	v.sync = annotate.New(v.options(), v.grid)
	v.ed.SetOverlay(v.grid)
	return v
}

func buildGrid(s config.Settings, cfg config.Config) *render.Grid {
	palette, errs := render.Palette(s.Palette, s.ThemeKind)
	for _, err := range errs {
		logger.Warn("app: palette", "error", err)
	}
	bg := render.ParseColor(cfg.Theme.Background, tcell.ColorBlack)
	return render.NewGrid(palette, s.BoldTerms, bg)
}

func (v *viewer) options() annotate.Options {
	opts := v.settings.Options()
	opts.Colors = v.grid.Colors()
	return opts
}

func (v *viewer) report() {
	warnings := v.settings.Warnings()
	for _, err := range warnings {
		logger.Warn("app: config", "error", err)
	}
	if len(warnings) > 0 {
		v.ed.SetStatusMessage(fmt.Sprintf("config: %d problem(s), see log", len(warnings)))
	}
}

// open loads path and switches the synchronizer to it. Files outside the
// included patterns are shown without annotations.
func (v *viewer) open(path string) error {
	if err := v.ed.OpenFile(path); err != nil {
		return err
	}
	v.langID = v.langs.LanguageID(path)
	v.parsed = false
	v.switchDocument()
	return nil
}

func (v *viewer) switchDocument() {
	anchor := v.ed.Cursor().Row
	v.included = v.settings.Included(v.ed.Filename(), v.langID)
	if v.included {
		v.sync.OnEditorSwitch(v.ed, anchor)
	} else {
		logger.Info("app: file not annotated", "path", v.ed.Filename(), "language", v.langID)
		v.sync.OnEditorSwitch(nil, anchor)
	}
}

// handleKey forwards a key to the editor and then delivers the resulting
// change and selection notifications in that order.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	if v.ed.HandleKey(ev) {
		return true
	}
	if edits := v.ed.ConsumeEdits(); len(edits) > 0 {
		v.sync.OnDocumentChange(edits)
	}
	if anchor, ok := v.ed.ConsumeSelectionChange(); ok {
		v.sync.OnSelectionChange(anchor)
	}
	return false
}

// applyConfig swaps in a new grid built from cfg. The old grid is disposed
// before the synchronizer repopulates the new one.
func (v *viewer) applyConfig(cfg config.Config) {
	v.settings = config.Normalize(cfg)
	v.report()
	v.ed.ApplyConfig(cfg)

	old := v.grid
	v.grid = buildGrid(v.settings, cfg)
	old.Dispose()
	v.ed.SetOverlay(v.grid)
	v.sync.OnConfigChange(v.options(), v.grid)

	if v.ed.Filename() != "" && v.settings.Included(v.ed.Filename(), v.langID) != v.included {
		v.switchDocument()
	}
}

func (v *viewer) refreshHighlights() {
	if !syntax.Supports(v.langID) {
		v.ed.SetHighlights(-1, -1, nil)
		return
	}
	if tick := v.ed.ChangeTick(); !v.parsed || tick != v.parsedTick || v.hl.Language() != v.langID {
		v.parsed = v.hl.Parse(v.langID, v.ed.Content())
		v.parsedTick = tick
	}
	start, end := v.ed.VisibleRange()
	v.ed.SetHighlights(start, end, v.hl.Highlights(start, end))
}

func (v *viewer) close() {
	if v.ed.Dirty() {
		logger.Warn("app: closing with unsaved changes", "path", v.ed.Filename())
	}
	v.sync.Teardown()
	v.grid.Dispose()
	v.hl.Reset()
}
