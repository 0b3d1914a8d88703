package editor

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/einview/internal/syntax"
)

// Render draws the buffer, the gutter and the status line. Syntax spans form
// the base layer; overlay styles replace them cell by cell.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := max(h-1, 0)
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight)

	s.SetStyle(e.styleMain)
	s.Clear()

	gutterWidth := e.gutterWidth()
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= len(e.lines) {
			clearLine(s, y, w, e.styleMain)
			continue
		}
		e.drawLineWithGutter(s, y, w, gutterWidth, lineIdx)
	}
	e.renderStatusline(s, w, h-1)

	cy := e.cursor.Row - e.scroll
	if cy < 0 || cy >= viewHeight {
		s.HideCursor()
		s.Show()
		return
	}
	cx := min(gutterWidth+visualCol(e.lines[e.cursor.Row], e.cursor.Col, e.tabWidth), w-1)
	s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	s.ShowCursor(cx, cy)
	s.Show()
}

func (e *Editor) gutterWidth() int {
	if !e.lineNumbers {
		return 0
	}
	digits := max(len(strconv.Itoa(max(len(e.lines), 1))), 2)
	return 1 + digits + 1
}

func (e *Editor) drawLineWithGutter(s tcell.Screen, y, w, gutterWidth, lineIdx int) {
	if gutterWidth > 0 {
		numStr := fmt.Sprintf(" %*d ", gutterWidth-2, lineIdx+1)
		style := e.styleLineNumber
		if lineIdx == e.cursor.Row {
			style = e.styleLineNumberActive
		}
		for x, r := range numStr {
			if x >= w {
				break
			}
			s.SetContent(x, y, r, nil, style)
		}
	}
	if gutterWidth >= w {
		return
	}
	var spans []syntax.Span
	if lineIdx >= e.highlightStart && lineIdx <= e.highlightEnd {
		spans = e.highlights[lineIdx]
	}
	e.drawLine(s, y, w, gutterWidth, lineIdx, spans)
}

func (e *Editor) drawLine(s tcell.Screen, y, w, startX, lineIdx int, spans []syntax.Span) {
	x := startX
	col := 0
	for idx, r := range e.lines[lineIdx] {
		if x >= w {
			break
		}
		style := e.styleMain
		if kind, ok := spanKindAt(spans, idx); ok {
			if st, ok := e.styleSyntax[kind]; ok {
				style = st
			}
		}
		if e.overlay != nil {
			if st, ok := e.overlay.StyleAt(lineIdx, idx); ok {
				style = st
			}
		}
		if r == '\t' {
			spaces := e.tabWidth - (col % e.tabWidth)
			for i := 0; i < spaces && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
				col++
			}
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x++
		col++
	}
	for x < w {
		s.SetContent(x, y, ' ', nil, e.styleMain)
		x++
	}
}

// spanKindAt returns the kind of the last span covering col.
func spanKindAt(spans []syntax.Span, col int) (string, bool) {
	kind, found := "", false
	for _, sp := range spans {
		if col >= sp.Start && col < sp.End {
			kind, found = sp.Kind, true
		}
	}
	return kind, found
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := e.filename
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.dirty {
		dirty = "*"
	}
	status := fmt.Sprintf(" %s%s ", name, dirty)
	if e.statusMessage != "" {
		status = fmt.Sprintf(" %s%s | %s ", name, dirty, e.statusMessage)
	}
	col := visualCol(e.lines[e.cursor.Row], e.cursor.Col, e.tabWidth) + 1
	right := fmt.Sprintf(" Ln %d, Col %d ", e.cursor.Row+1, col)

	for x, r := range composeStatusLine(status, right, w) {
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func visualCol(line []rune, logicalCol int, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	logicalCol = min(max(logicalCol, 0), len(line))
	col := 0
	for i := 0; i < logicalCol; i++ {
		if line[i] == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col++
	}
	return col
}
