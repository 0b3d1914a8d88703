package editor

import (
	"errors"
	"os"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/einview/internal/annotate"
	"github.com/kobzarvs/einview/internal/config"
	"github.com/kobzarvs/einview/internal/render"
	"github.com/kobzarvs/einview/internal/syntax"
)

type Cursor struct {
	Row int
	Col int
}

// Overlay paints annotation styles over the base text. render.Grid satisfies
// it.
type Overlay interface {
	StyleAt(line, col int) (tcell.Style, bool)
}

// Editor is a small modeless text editor. It records every mutation as an
// annotate.Edit so the host can forward change notifications, and it
// implements annotate.Document.
type Editor struct {
	lines         [][]rune
	cursor        Cursor
	scroll        int
	filename      string
	dirty         bool
	clipboard     []rune
	statusMessage string
	tabWidth      int
	viewHeight    int
	lineNumbers   bool

	styleMain             tcell.Style
	styleStatus           tcell.Style
	styleLineNumber       tcell.Style
	styleLineNumberActive tcell.Style
	styleSyntax           map[string]tcell.Style

	highlights     map[int][]syntax.Span
	highlightStart int
	highlightEnd   int
	overlay        Overlay

	edits            []annotate.Edit
	selectionChanged bool
	changeTick       uint64
}

var _ annotate.Document = (*Editor)(nil)

func New(cfg config.Config) *Editor {
	e := &Editor{
		lines:          [][]rune{{}},
		highlightStart: -1,
		highlightEnd:   -1,
	}
	e.ApplyConfig(cfg)
	return e
}

// ApplyConfig rebuilds styles and editor options. The buffer is untouched.
func (e *Editor) ApplyConfig(cfg config.Config) {
	e.tabWidth = max(cfg.Editor.TabWidth, 1)
	e.lineNumbers = cfg.Editor.LineNumbers

	mainFg := render.ParseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := render.ParseColor(cfg.Theme.Background, tcell.ColorBlack)
	statusFg := render.ParseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := render.ParseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	lineNumberFg := render.ParseColor(cfg.Theme.LineNumberForeground, tcell.ColorGray)
	syntaxStyle := func(hex string) tcell.Style {
		return tcell.StyleDefault.Foreground(render.ParseColor(hex, mainFg)).Background(mainBg)
	}
	e.styleMain = tcell.StyleDefault.Foreground(mainFg).Background(mainBg)
	e.styleStatus = tcell.StyleDefault.Foreground(statusFg).Background(statusBg)
	e.styleLineNumber = tcell.StyleDefault.Foreground(lineNumberFg).Background(mainBg)
	e.styleLineNumberActive = tcell.StyleDefault.Foreground(mainFg).Background(mainBg)
	e.styleSyntax = map[string]tcell.Style{
		syntax.KindKeyword: syntaxStyle(cfg.Theme.SyntaxKeyword),
		syntax.KindString:  syntaxStyle(cfg.Theme.SyntaxString),
		syntax.KindComment: syntaxStyle(cfg.Theme.SyntaxComment),
		syntax.KindNumber:  syntaxStyle(cfg.Theme.SyntaxNumber),
	}
}

func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	e.SetText(string(data))
	e.filename = path
	return nil
}

// SetText replaces the buffer without recording edits.
func (e *Editor) SetText(text string) {
	e.lines = splitLines([]byte(text))
	if len(e.lines) == 0 {
		e.lines = [][]rune{{}}
	}
	e.cursor = Cursor{}
	e.scroll = 0
	e.dirty = false
	e.statusMessage = ""
	e.edits = nil
	e.selectionChanged = false
	e.highlights = nil
	e.highlightStart = -1
	e.highlightEnd = -1
}

func (e *Editor) Save() error {
	if e.filename == "" {
		return errors.New("no file name")
	}
	if err := os.WriteFile(e.filename, []byte(e.Content()), 0o644); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// HandleKey applies one key press. It returns true when the user asked to
// quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.statusMessage != "" {
		e.statusMessage = ""
	}
	prev := e.cursor

	switch ctrlLetter(ev) {
	case 'q':
		return true
	case 's':
		if err := e.Save(); err != nil {
			e.statusMessage = err.Error()
		} else {
			e.statusMessage = "written"
		}
		return false
	case 'k':
		e.cutLine()
	case 'v':
		e.pasteLine()
	case 'a':
		e.cursor.Col = 0
	case 'e':
		e.cursor.Col = len(e.lines[e.cursor.Row])
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return true
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 && unicode.IsPrint(ev.Rune()) {
			e.insertRune(ev.Rune())
		}
	case tcell.KeyTab:
		e.insertRune('\t')
	case tcell.KeyEnter:
		e.insertNewline()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.deleteChar()
	case tcell.KeyLeft:
		e.moveLeft()
	case tcell.KeyRight:
		e.moveRight()
	case tcell.KeyUp:
		e.moveVertical(-1)
	case tcell.KeyDown:
		e.moveVertical(1)
	case tcell.KeyHome:
		e.cursor.Col = 0
	case tcell.KeyEnd:
		e.cursor.Col = len(e.lines[e.cursor.Row])
	case tcell.KeyPgUp:
		e.moveVertical(-e.viewHeightCached())
	case tcell.KeyPgDn:
		e.moveVertical(e.viewHeightCached())
	}

	if e.cursor != prev {
		e.selectionChanged = true
	}
	return false
}

// ctrlLetter returns the lower-case letter of a Ctrl+letter press, or 0.
func ctrlLetter(ev *tcell.EventKey) rune {
	k := ev.Key()
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		switch k {
		case tcell.KeyTab, tcell.KeyEnter, tcell.KeyBackspace:
			return 0
		}
		return 'a' + rune(k-tcell.KeyCtrlA)
	}
	if k == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 {
		r := unicode.ToLower(ev.Rune())
		if r >= 'a' && r <= 'z' {
			return r
		}
	}
	return 0
}

func (e *Editor) record(startLine, endLine int, text string) {
	e.edits = append(e.edits, annotate.Edit{StartLine: startLine, EndLine: endLine, Text: text})
	e.dirty = true
	e.changeTick++
}

func (e *Editor) insertRune(r rune) {
	row, col := e.cursor.Row, e.clampedCol()
	line := e.lines[row]
	line = append(line, 0)
	copy(line[col+1:], line[col:])
	line[col] = r
	e.lines[row] = line
	e.cursor = Cursor{Row: row, Col: col + 1}
	e.record(row, row, string(r))
}

func (e *Editor) insertNewline() {
	row, col := e.cursor.Row, e.clampedCol()
	line := e.lines[row]
	head := append([]rune(nil), line[:col]...)
	tail := append([]rune(nil), line[col:]...)
	e.lines[row] = head
	e.lines = insertLine(e.lines, row+1, tail)
	e.cursor = Cursor{Row: row + 1, Col: 0}
	e.record(row, row, "\n")
}

func (e *Editor) backspace() {
	row, col := e.cursor.Row, e.clampedCol()
	if col > 0 {
		line := e.lines[row]
		e.lines[row] = append(line[:col-1], line[col:]...)
		e.cursor = Cursor{Row: row, Col: col - 1}
		e.record(row, row, "")
		return
	}
	if row == 0 {
		return
	}
	prevLen := len(e.lines[row-1])
	e.joinLine(row - 1)
	e.cursor = Cursor{Row: row - 1, Col: prevLen}
	e.record(row-1, row, "")
}

func (e *Editor) deleteChar() {
	row, col := e.cursor.Row, e.clampedCol()
	line := e.lines[row]
	if col < len(line) {
		e.lines[row] = append(line[:col], line[col+1:]...)
		e.record(row, row, "")
		return
	}
	if row >= len(e.lines)-1 {
		return
	}
	e.joinLine(row)
	e.record(row, row+1, "")
}

func (e *Editor) joinLine(row int) {
	e.lines[row] = append(e.lines[row], e.lines[row+1]...)
	e.lines = append(e.lines[:row+1], e.lines[row+2:]...)
}

// cutLine removes the cursor line into the clipboard.
func (e *Editor) cutLine() {
	row := e.cursor.Row
	e.clipboard = append([]rune(nil), e.lines[row]...)
	switch {
	case len(e.lines) == 1:
		if len(e.lines[0]) == 0 {
			return
		}
		e.lines[0] = []rune{}
		e.record(0, 0, "")
	case row < len(e.lines)-1:
		e.lines = append(e.lines[:row], e.lines[row+1:]...)
		e.record(row, row+1, "")
	default:
		e.lines = e.lines[:row]
		e.record(row-1, row, "")
		row--
	}
	e.cursor = Cursor{Row: row, Col: 0}
}

// pasteLine inserts the clipboard as a new line above the cursor.
func (e *Editor) pasteLine() {
	if e.clipboard == nil {
		e.statusMessage = "clipboard empty"
		return
	}
	row := e.cursor.Row
	e.lines = insertLine(e.lines, row, append([]rune(nil), e.clipboard...))
	e.cursor = Cursor{Row: row + 1, Col: e.cursor.Col}
	e.record(row, row, string(e.clipboard)+"\n")
}

func insertLine(lines [][]rune, at int, line []rune) [][]rune {
	lines = append(lines, nil)
	copy(lines[at+1:], lines[at:])
	lines[at] = line
	return lines
}

func (e *Editor) clampedCol() int {
	col := e.cursor.Col
	if n := len(e.lines[e.cursor.Row]); col > n {
		col = n
	}
	if col < 0 {
		col = 0
	}
	return col
}

func (e *Editor) moveLeft() {
	if e.cursor.Col > 0 {
		e.cursor.Col = e.clampedCol() - 1
		return
	}
	if e.cursor.Row > 0 {
		e.cursor.Row--
		e.cursor.Col = len(e.lines[e.cursor.Row])
	}
}

func (e *Editor) moveRight() {
	if e.cursor.Col < len(e.lines[e.cursor.Row]) {
		e.cursor.Col++
		return
	}
	if e.cursor.Row < len(e.lines)-1 {
		e.cursor.Row++
		e.cursor.Col = 0
	}
}

func (e *Editor) moveVertical(delta int) {
	row := e.cursor.Row + delta
	if row < 0 {
		row = 0
	}
	if row >= len(e.lines) {
		row = len(e.lines) - 1
	}
	e.cursor.Row = row
	e.cursor.Col = e.clampedCol()
}

// ConsumeEdits returns the edits recorded since the last call.
func (e *Editor) ConsumeEdits() []annotate.Edit {
	edits := e.edits
	e.edits = nil
	return edits
}

// ConsumeSelectionChange reports whether the cursor moved since the last call
// and returns the anchor line.
func (e *Editor) ConsumeSelectionChange() (int, bool) {
	if !e.selectionChanged {
		return e.cursor.Row, false
	}
	e.selectionChanged = false
	return e.cursor.Row, true
}

func (e *Editor) setCursor(row, col int) {
	if row < 0 {
		row = 0
	}
	if row >= len(e.lines) {
		row = len(e.lines) - 1
	}
	prev := e.cursor
	e.cursor = Cursor{Row: row, Col: col}
	e.cursor.Col = e.clampedCol()
	if e.cursor != prev {
		e.selectionChanged = true
	}
}

func (e *Editor) Cursor() Cursor {
	return e.cursor
}

func (e *Editor) LineCount() int {
	return len(e.lines)
}

func (e *Editor) Line(i int) string {
	if i < 0 || i >= len(e.lines) {
		return ""
	}
	return string(e.lines[i])
}

func (e *Editor) Content() string {
	return joinLines(e.lines)
}

func (e *Editor) Filename() string {
	return e.filename
}

func (e *Editor) Dirty() bool {
	return e.dirty
}

func (e *Editor) ChangeTick() uint64 {
	return e.changeTick
}

func (e *Editor) SetStatusMessage(msg string) {
	e.statusMessage = msg
}

func (e *Editor) SetOverlay(o Overlay) {
	e.overlay = o
}

// VisibleRange returns the first and last buffer rows on screen.
func (e *Editor) VisibleRange() (int, int) {
	start := max(e.scroll, 0)
	end := max(start+e.viewHeight-1, start)
	if end >= len(e.lines) {
		end = len(e.lines) - 1
	}
	return start, end
}

func (e *Editor) SetHighlights(startLine, endLine int, spans map[int][]syntax.Span) {
	if spans == nil || startLine < 0 || endLine < startLine {
		e.highlights = nil
		e.highlightStart = -1
		e.highlightEnd = -1
		return
	}
	e.highlights = spans
	e.highlightStart = startLine
	e.highlightEnd = endLine
}

// UpdateScroll keeps the cursor on screen after a key press.
func (e *Editor) UpdateScroll() {
	e.ensureCursorVisible(e.viewHeightCached())
}

func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	if e.cursor.Row < e.scroll-1 || e.cursor.Row >= e.scroll+viewHeight+1 {
		e.scroll = max(e.cursor.Row-viewHeight/2, 0)
		return
	}
	if e.cursor.Row < e.scroll {
		e.scroll = e.cursor.Row
		return
	}
	if e.cursor.Row >= e.scroll+viewHeight {
		e.scroll = e.cursor.Row - viewHeight + 1
	}
}

func (e *Editor) viewHeightCached() int {
	if e.viewHeight < 1 {
		return 1
	}
	return e.viewHeight
}

func splitLines(data []byte) [][]rune {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func joinLines(lines [][]rune) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}
