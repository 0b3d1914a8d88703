package syntax

import (
	"context"
	"math"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/kobzarvs/einview/internal/logger"
)

// Span is a highlighted run on one line. Columns are rune offsets and End is
// exclusive.
type Span struct {
	Start int
	End   int
	Kind  string
}

// Kinds produced by the highlight queries.
const (
	KindComment = "comment"
	KindString  = "string"
	KindNumber  = "number"
	KindKeyword = "keyword"
)

type language struct {
	lang  *sitter.Language
	query string
}

var languages = map[string]language{
	"python": {python.GetLanguage(), pythonHighlightQuery},
	"go":     {golang.GetLanguage(), goHighlightQuery},
}

// Highlighter keeps the parse tree of the open document and answers base
// syntax highlights for a line window. Equation annotations are drawn over
// these spans.
type Highlighter struct {
	mu      sync.RWMutex
	parsers map[string]*sitter.Parser
	queries map[string]*sitter.Query
	lang    string
	tree    *sitter.Tree
	source  []byte
	lines   [][]byte
}

func New() *Highlighter {
	return &Highlighter{
		parsers: make(map[string]*sitter.Parser),
		queries: make(map[string]*sitter.Query),
	}
}

// Supports reports whether a grammar is bundled for the language id.
func Supports(languageID string) bool {
	_, ok := languages[languageID]
	return ok
}

// Parse replaces the tree with a fresh parse of text. It returns false when
// the language has no grammar or its query failed to compile.
func (h *Highlighter) Parse(languageID, text string) bool {
	l, ok := languages[languageID]
	if !ok {
		h.Reset()
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	parser := h.parsers[languageID]
	if parser == nil {
		parser = sitter.NewParser()
		parser.SetLanguage(l.lang)
		h.parsers[languageID] = parser
	}
	if _, ok := h.queries[languageID]; !ok {
		query, err := sitter.NewQuery([]byte(l.query), l.lang)
		if err != nil {
			logger.Warn("syntax: highlight query failed", "language", languageID, "error", err)
		}
		h.queries[languageID] = query
	}
	if h.queries[languageID] == nil {
		return false
	}

	source := []byte(text)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		logger.Warn("syntax: parse failed", "language", languageID, "error", err)
		return false
	}
	if h.tree != nil {
		h.tree.Close()
	}
	h.lang = languageID
	h.tree = tree
	h.source = source
	h.lines = splitLines(source)
	return true
}

// Reset drops the current tree.
func (h *Highlighter) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tree != nil {
		h.tree.Close()
	}
	h.lang = ""
	h.tree = nil
	h.source = nil
	h.lines = nil
}

func (h *Highlighter) Language() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lang
}

// Highlights returns spans for rows startLine..endLine inclusive, keyed by row.
func (h *Highlighter) Highlights(startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.tree == nil {
		return nil
	}
	query := h.queries[h.lang]
	if query == nil {
		return nil
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, h.tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, h.source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			startRow := int(start.Row)
			endRow := int(end.Row)
			for row := max(startRow, startLine); row <= min(endRow, endLine); row++ {
				startCol := 0
				endCol := math.MaxInt32
				if row == startRow {
					startCol = int(start.Column)
				}
				if row == endRow {
					endCol = int(end.Column)
				}
				s := Span{Start: h.runeCol(row, startCol), End: h.runeCol(row, endCol), Kind: kind}
				if s.End > s.Start {
					out[row] = append(out[row], s)
				}
			}
		}
	}
	return out
}

// runeCol converts a tree-sitter byte column to a rune column.
func (h *Highlighter) runeCol(row, byteCol int) int {
	if row < 0 || row >= len(h.lines) {
		return 0
	}
	line := h.lines[row]
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return utf8.RuneCount(line[:byteCol])
}

func splitLines(source []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range source {
		if b == '\n' {
			lines = append(lines, source[start:i])
			start = i + 1
		}
	}
	return append(lines, source[start:])
}

const pythonHighlightQuery = `
((comment) @comment)
((string) @string)
((integer) @number)
((float) @number)
[
  "def" "class" "return" "if" "elif" "else" "for" "while" "in" "import"
  "from" "as" "with" "pass" "lambda" "not" "and" "or" "is" "yield" "try"
  "except" "finally" "raise" "del" "global" "nonlocal" "assert" "break"
  "continue" "async" "await"
] @keyword
((true) @keyword)
((false) @keyword)
((none) @keyword)
`

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @keyword)
((true) @keyword)
((false) @keyword)
`
