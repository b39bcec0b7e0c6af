// Package parser builds a Stylesheet tree from scanner tokens.
//
// The tree holds only what the style checks need: selector groups,
// declarations, nested blocks, comments and at-rules. Problems such as a
// missing semicolon or an unclosed block are recorded as anomalies and the
// parse carries on, so later checks still see the valid prefix.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/yacobolo/cssguide/internal/scanner"
)

var importantPattern = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

// Parser parses stylesheets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a parser. A nil logger disables logging.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("parser")}
}

// Parse parses a stylesheet with a no-op logger.
func Parse(filename, src string) *Stylesheet {
	return NewParser(nil).Parse(filename, src)
}

// Parse parses src. The dialect is picked from the filename. HTML sources
// are reduced to their <style> elements first.
func (p *Parser) Parse(filename, src string) *Stylesheet {
	dialect := DialectFor(filename)
	sheet := &Stylesheet{
		Filename: filename,
		Dialect:  dialect,
		Source:   src,
	}
	sheet.lines = scanner.NewLines(src)
	sheet.Span = sheet.lines.Span(0, len(src))

	if dialect == DialectHTML {
		regions, inline := extractStyles(src, sheet.lines.Position)
		sheet.InlineStyles = inline
		for _, r := range regions {
			p.parseTokens(sheet, scanner.New(maskOutside(src, r.start, r.end)))
		}
		p.log.Debug("Parsed HTML styles",
			zap.String("file", filename),
			zap.Int("styleElements", len(regions)),
			zap.Int("inlineStyles", len(inline)))
		return sheet
	}

	p.parseTokens(sheet, scanner.New(src))
	p.log.Debug("Parsed stylesheet",
		zap.String("file", filename),
		zap.String("dialect", dialect.String()),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("anomalies", len(sheet.Anomalies)))
	return sheet
}

// parseState tracks an in-progress parse over one token stream.
type parseState struct {
	sheet *Stylesheet
	sc    *scanner.Scanner

	stack       []*RuleBlock
	selector    *scanner.Token
	selStrings  []scanner.Token
	atRule      *AtRule
	prelude     bool
	decl        *Declaration
	lastDecl    *Declaration
	lastComment *Comment
	strings     *[]scanner.Token
}

func (p *Parser) parseTokens(sheet *Stylesheet, sc *scanner.Scanner) {
	st := &parseState{sheet: sheet, sc: sc}
	for {
		tok := sc.Next()
		if tok.Kind == scanner.EOF {
			st.finish(tok)
			return
		}
		st.handle(tok)
	}
}

func (st *parseState) current() *RuleBlock {
	if len(st.stack) == 0 {
		return nil
	}
	return st.stack[len(st.stack)-1]
}

func (st *parseState) anomaly(kind AnomalyKind, span scanner.Span, format string, args ...any) {
	st.sheet.Anomalies = append(st.sheet.Anomalies, Anomaly{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

func (st *parseState) handle(tok scanner.Token) {
	if tok.Kind != scanner.ValueText && tok.Kind != scanner.StringLiteral && tok.Kind != scanner.Comment {
		st.prelude = false
	}

	switch tok.Kind {
	case scanner.Malformed:
		st.anomaly(MalformedInput, tok.Span, "%s; the rest of the file was not checked", tok.Reason)

	case scanner.Comment:
		st.comment(tok)

	case scanner.StringLiteral:
		if st.strings != nil {
			*st.strings = append(*st.strings, tok)
		}

	case scanner.SelectorText:
		st.closePending()
		t := tok
		st.selector = &t
		st.selStrings = nil
		st.strings = &st.selStrings

	case scanner.AtKeyword:
		st.closePending()
		st.atRule = &AtRule{Name: tok.Text, Span: tok.Span}
		st.prelude = true
		st.strings = &st.atRule.Strings

	case scanner.ValueText:
		switch {
		case st.prelude && st.atRule != nil:
			st.atRule.Prelude = tok.Text
			st.atRule.Span.End = tok.Span.End
			st.prelude = false
		case st.decl != nil:
			st.decl.Value = tok.Text
			st.decl.ValueSpan = tok.Span
			st.decl.Span.End = tok.Span.End
			st.strings = &st.decl.Strings
		default:
			st.anomaly(MalformedInput, tok.Span, "value %q without a property", tok.Text)
		}

	case scanner.PropertyName:
		if st.decl != nil {
			st.endDeclaration(false)
		}
		st.decl = &Declaration{
			Property:     tok.Text,
			PropertySpan: tok.Span,
			Span:         tok.Span,
		}
		st.strings = &st.decl.Strings

	case scanner.Colon:
		if st.decl == nil {
			st.anomaly(MalformedInput, tok.Span, "':' without a property name")
		}

	case scanner.Semicolon:
		switch {
		case st.decl != nil:
			st.decl.Span.End = tok.Span.End
			st.endDeclaration(true)
		case st.atRule != nil:
			st.atRule.Span.End = tok.Span.End
			st.endStatement()
		case st.selector != nil:
			st.anomaly(MalformedInput, st.selector.Span, "selector %q has no declaration block", st.selector.Text)
			st.selector = nil
		}

	case scanner.BraceOpen:
		st.openBlock(tok)

	case scanner.BraceClose:
		st.closeBlock(tok)
	}
}

// closePending drops a selector or at-rule that never got a block or a
// semicolon before the next statement began.
func (st *parseState) closePending() {
	if st.decl != nil {
		st.endDeclaration(false)
	}
	if st.selector != nil {
		st.anomaly(MalformedInput, st.selector.Span, "selector %q has no declaration block", st.selector.Text)
		st.selector = nil
	}
	if st.atRule != nil {
		st.endStatement()
	}
}

func (st *parseState) comment(tok scanner.Token) {
	c := &Comment{Text: tok.Text, Line: tok.LineComment, Span: tok.Span}

	// Same-line comment after a declaration explains that declaration.
	target := st.decl
	if target == nil {
		target = st.lastDecl
	}
	if target != nil && target.Comment == nil && c.Span.Start.Line == target.Span.End.Line &&
		c.Span.Start.Offset >= target.PropertySpan.End.Offset {
		target.Comment = c
		return
	}

	if b := st.current(); b != nil {
		b.Comments = append(b.Comments, c)
	} else {
		st.sheet.Comments = append(st.sheet.Comments, c)
	}
	st.lastComment = c
}

func (st *parseState) endDeclaration(terminated bool) {
	d := st.decl
	st.decl = nil
	st.strings = nil
	d.Terminated = terminated

	if loc := importantPattern.FindStringIndex(d.Value); loc != nil {
		d.Important = true
		d.Value = d.Value[:loc[0]]
	}

	b := st.current()
	if b == nil {
		st.anomaly(MalformedInput, d.Span, "declaration %q outside of a rule", d.Property)
		return
	}
	b.Declarations = append(b.Declarations, d)
	st.lastDecl = d
	st.lastComment = nil
}

func (st *parseState) endStatement() {
	at := st.atRule
	st.atRule = nil
	st.strings = nil
	if b := st.current(); b != nil {
		b.Statements = append(b.Statements, at)
	} else {
		st.sheet.AtRules = append(st.sheet.AtRules, at)
	}
	st.lastComment = nil
}

func (st *parseState) openBlock(tok scanner.Token) {
	if st.decl != nil {
		// "prop: value {" only happens on broken input
		st.endDeclaration(false)
	}

	parent := st.current()
	block := &RuleBlock{
		Parent: parent,
		Open:   tok.Span,
		Span:   tok.Span,
	}

	for p := parent; p != nil; p = p.Parent {
		if p.IsRule() {
			block.Depth++
		}
	}

	switch {
	case st.atRule != nil:
		block.AtRule = st.atRule
		block.Span.Start = st.atRule.Span.Start
		st.atRule = nil
	case st.selector != nil:
		block.SelectorText = st.selector
		block.Strings = st.selStrings
		block.Span.Start = st.selector.Span.Start
		block.Selectors = splitSelectors(st.sc, *st.selector, parent)
		if c := st.lastComment; c != nil && c.Span.End.Line >= st.selector.Span.Start.Line-1 {
			block.LeadingComment = c
			st.detachComment(c, parent)
		}
		st.selector = nil
	default:
		st.anomaly(MalformedInput, tok.Span, "'{' without a selector")
	}
	st.strings = nil
	st.lastComment = nil
	st.lastDecl = nil

	if parent != nil {
		parent.Children = append(parent.Children, block)
	} else {
		st.sheet.Rules = append(st.sheet.Rules, block)
	}
	st.stack = append(st.stack, block)
}

// detachComment moves a comment that turned out to lead a rule out of the
// standalone comment list.
func (st *parseState) detachComment(c *Comment, parent *RuleBlock) {
	list := &st.sheet.Comments
	if parent != nil {
		list = &parent.Comments
	}
	for i, existing := range *list {
		if existing == c {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func (st *parseState) closeBlock(tok scanner.Token) {
	if st.decl != nil {
		d := st.decl
		st.anomaly(MissingSemicolon, scanner.Span{Start: d.Span.End, End: d.Span.End},
			"missing semicolon after %q declaration", d.Property)
		st.endDeclaration(false)
	}
	if st.atRule != nil {
		st.anomaly(MissingSemicolon, scanner.Span{Start: st.atRule.Span.End, End: st.atRule.Span.End},
			"missing semicolon after %s", st.atRule.Name)
		st.endStatement()
	}
	if st.selector != nil {
		st.anomaly(MalformedInput, st.selector.Span, "selector %q has no declaration block", st.selector.Text)
		st.selector = nil
	}

	block := st.current()
	if block == nil {
		st.anomaly(UnbalancedBraces, tok.Span, "unexpected '}' with no open block")
		return
	}
	st.stack = st.stack[:len(st.stack)-1]
	block.Close = tok.Span
	block.Closed = true
	block.Span.End = tok.Span.End
	st.lastDecl = nil
	st.lastComment = nil
	st.strings = nil
}

func (st *parseState) finish(eof scanner.Token) {
	if st.decl != nil {
		st.endDeclaration(false)
	}
	if st.atRule != nil {
		st.endStatement()
	}
	if st.selector != nil {
		st.anomaly(MalformedInput, st.selector.Span, "selector %q has no declaration block", st.selector.Text)
		st.selector = nil
	}
	if len(st.stack) == 0 {
		return
	}

	for _, b := range st.stack {
		b.Span.End = eof.Span.End
	}
	innermost := st.current()
	st.anomaly(UnbalancedBraces, innermost.Open,
		"%d unclosed block(s) at end of file; innermost opened here", len(st.stack))
	st.stack = nil
}

// splitSelectors splits a selector group on top-level commas and analyzes
// each selector. Offsets come from the original source so comments inside
// the group do not shift positions.
func splitSelectors(sc *scanner.Scanner, tok scanner.Token, parent *RuleBlock) []*Selector {
	src := sc.Source()
	start, end := tok.Span.Start.Offset, tok.Span.End.Offset
	raw := src[start:end]

	var selectors []*Selector
	emit := func(from, to int) {
		piece := raw[from:to]
		lead := len(piece) - len(strings.TrimLeft(piece, " \t\r\n\f"))
		piece = strings.TrimSpace(piece)
		if piece == "" {
			return
		}
		s := start + from + lead
		selectors = append(selectors, analyzeSelector(sc, piece, s, parent))
	}

	depth := 0
	from := 0
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '"', '\'':
			i = skipString(raw, i)
		case '/':
			if i+1 < len(raw) && raw[i+1] == '*' {
				if j := strings.Index(raw[i+2:], "*/"); j >= 0 {
					i += j + 3
				}
			}
		case ',':
			if depth == 0 {
				emit(from, i)
				from = i + 1
			}
		}
	}
	emit(from, len(raw))
	return selectors
}

// skipString returns the index of the closing quote of the string starting at i.
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}
