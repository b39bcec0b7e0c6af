package parser

import (
	"path/filepath"
	"strings"

	"github.com/yacobolo/cssguide/internal/bem"
	"github.com/yacobolo/cssguide/internal/scanner"
)

// Dialect is the source flavour of a stylesheet.
type Dialect int

// Supported dialects
const (
	DialectCSS Dialect = iota
	DialectSCSS
	DialectHTML
)

func (d Dialect) String() string {
	switch d {
	case DialectSCSS:
		return "scss"
	case DialectHTML:
		return "html"
	default:
		return "css"
	}
}

// DialectFor picks a dialect from a file extension. Unknown extensions are
// treated as plain CSS.
func DialectFor(filename string) Dialect {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".scss", ".sass":
		return DialectSCSS
	case ".html", ".htm":
		return DialectHTML
	default:
		return DialectCSS
	}
}

// AnomalyKind classifies a recoverable parse problem.
type AnomalyKind int

// Parse anomaly kinds
const (
	MalformedInput AnomalyKind = iota
	UnbalancedBraces
	MissingSemicolon
)

// Anomaly is a recoverable problem found while parsing. Parsing always
// continues past it.
type Anomaly struct {
	Kind    AnomalyKind
	Message string
	Span    scanner.Span
}

// Stylesheet is the parse result for one input file.
type Stylesheet struct {
	Filename     string
	Dialect      Dialect
	Source       string
	Rules        []*RuleBlock
	Comments     []*Comment      // top-level comments not attached to a rule
	AtRules      []*AtRule       // statement at-rules such as @import
	InlineStyles []*InlineStyle  // HTML style="" attributes
	Anomalies    []Anomaly
	Span         scanner.Span

	lines *scanner.Lines
}

// Position converts a byte offset in Source to a position.
func (s *Stylesheet) Position(offset int) scanner.Position {
	if s.lines == nil {
		s.lines = scanner.NewLines(s.Source)
	}
	return s.lines.Position(offset)
}

// Walk visits every rule block depth-first in source order.
func (s *Stylesheet) Walk(fn func(*RuleBlock)) {
	var visit func(blocks []*RuleBlock)
	visit = func(blocks []*RuleBlock) {
		for _, b := range blocks {
			fn(b)
			visit(b.Children)
		}
	}
	visit(s.Rules)
}

// AllComments returns every standalone and inline comment in source order
// of discovery.
func (s *Stylesheet) AllComments() []*Comment {
	comments := append([]*Comment(nil), s.Comments...)
	s.Walk(func(b *RuleBlock) {
		if b.LeadingComment != nil {
			comments = append(comments, b.LeadingComment)
		}
		comments = append(comments, b.Comments...)
		for _, d := range b.Declarations {
			if d.Comment != nil {
				comments = append(comments, d.Comment)
			}
		}
	})
	return comments
}

// AtRule is an @-rule. Block at-rules own a RuleBlock; statement at-rules
// (@import, @include) end with a semicolon.
type AtRule struct {
	Name    string // "@media"
	Prelude string // "(max-width: 600px)"
	Strings []scanner.Token
	Span    scanner.Span
}

// RuleBlock is one selector group with its declarations and nested blocks.
type RuleBlock struct {
	Selectors      []*Selector
	AtRule         *AtRule // set for @media and other block at-rules
	Declarations   []*Declaration
	Children       []*RuleBlock
	Statements     []*AtRule  // @include, @extend and similar inside the block
	Comments       []*Comment // standalone comments inside the block
	SelectorText   *scanner.Token
	Strings        []scanner.Token // string literals in the selector
	LeadingComment *Comment
	Parent         *RuleBlock
	Open           scanner.Span
	Close          scanner.Span
	Closed         bool
	Depth          int // number of enclosing selector blocks
	Span           scanner.Span
}

// IsRule reports whether the block is a selector rule rather than an at-rule block.
func (b *RuleBlock) IsRule() bool {
	return b.AtRule == nil
}

// InKeyframes reports whether the block sits inside a @keyframes at-rule.
func (b *RuleBlock) InKeyframes() bool {
	for p := b.Parent; p != nil; p = p.Parent {
		if p.AtRule != nil && strings.HasSuffix(strings.ToLower(p.AtRule.Name), "keyframes") {
			return true
		}
	}
	return false
}

// Declaration is a single property: value pair.
type Declaration struct {
	Property     string
	Value        string
	Important    bool
	Terminated   bool // a semicolon followed the value
	Comment      *Comment
	Strings      []scanner.Token
	PropertySpan scanner.Span
	ValueSpan    scanner.Span
	Span         scanner.Span
}

// Comment is a /* block */ or // line comment.
type Comment struct {
	Text string
	Line bool
	Span scanner.Span
}

// Body returns the comment text without its markers.
func (c *Comment) Body() string {
	if c.Line {
		return strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
	}
	body := strings.TrimPrefix(c.Text, "/*")
	body = strings.TrimSuffix(body, "*/")
	return strings.TrimSpace(body)
}

// Selector is one entry of a comma-separated selector group.
type Selector struct {
	Raw             string
	Span            scanner.Span
	Classes         []ClassRef
	IDs             []NameRef
	Tags            []NameRef
	IsID            bool
	ContainsHTMLTag bool
}

// Subject returns the last class of the selector, the one the rule styles.
func (s *Selector) Subject() (ClassRef, bool) {
	if len(s.Classes) == 0 {
		return ClassRef{}, false
	}
	return s.Classes[len(s.Classes)-1], true
}

// ClassRef is a class name used in a selector. Names built from a SCSS
// parent reference (&__item) are resolved against the parent rule.
type ClassRef struct {
	Name         string
	Span         scanner.Span
	Resolved     bool // name was built from "&"
	Interpolated bool // contains #{...}
	BEM          bem.Result
}

// NameRef is an id or tag name with its location.
type NameRef struct {
	Name string
	Span scanner.Span
}

// InlineStyle is an HTML style="" attribute.
type InlineStyle struct {
	Value string
	Span  scanner.Span
}
