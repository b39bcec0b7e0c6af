package scanner

import (
	"fmt"
	"sort"
)

// Kind identifies the structural role of a token.
type Kind int

// Token kinds produced by the Scanner.
const (
	EOF Kind = iota
	Malformed
	SelectorText
	BraceOpen
	BraceClose
	PropertyName
	Colon
	ValueText
	Semicolon
	Comment
	StringLiteral
	AtKeyword
)

var kindNames = map[Kind]string{
	EOF:           "eof",
	Malformed:     "malformed",
	SelectorText:  "selector-text",
	BraceOpen:     "brace-open",
	BraceClose:    "brace-close",
	PropertyName:  "property-name",
	Colon:         "colon",
	ValueText:     "value-text",
	Semicolon:     "semicolon",
	Comment:       "comment",
	StringLiteral: "string-literal",
	AtKeyword:     "at-rule-keyword",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Position is a location in the source text.
type Position struct {
	Offset int // 0-based byte offset
	Line   int // 1-based
	Column int // 1-based byte column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open range of source text.
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return o.Start.Offset >= s.Start.Offset && o.End.Offset <= s.End.Offset
}

// Token is one structural unit of a stylesheet. Tokens are never modified
// after the Scanner produces them.
type Token struct {
	Kind Kind
	Text string
	Span Span

	// Reason explains a Malformed token.
	Reason string
	// LineComment marks a "//" comment.
	LineComment bool
}

// Lines maps byte offsets of one source text to positions.
type Lines struct {
	idx lineIndex
}

// NewLines indexes the line starts of src.
func NewLines(src string) *Lines {
	return &Lines{idx: newLineIndex(src)}
}

// Position converts a byte offset into a position.
func (l *Lines) Position(offset int) Position {
	return l.idx.position(offset)
}

// Span converts a byte range into a span.
func (l *Lines) Span(start, end int) Span {
	return l.idx.span(start, end)
}

// lineIndex holds the byte offset at which every line starts.
type lineIndex []int

func newLineIndex(src string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (li lineIndex) position(offset int) Position {
	line := sort.Search(len(li), func(i int) bool { return li[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - li[line] + 1,
	}
}

func (li lineIndex) span(start, end int) Span {
	return Span{Start: li.position(start), End: li.position(end)}
}
