package rules

import (
	"fmt"
	"strings"

	"github.com/yacobolo/cssguide/internal/parser"
)

// headerEnd returns the offset where a block's selector or at-rule prelude
// ends, or -1 when the block has neither.
func headerEnd(b *parser.RuleBlock) int {
	switch {
	case b.SelectorText != nil:
		return b.SelectorText.Span.End.Offset
	case b.AtRule != nil:
		return b.AtRule.Span.End.Offset
	default:
		return -1
	}
}

// onOneLine reports whether the whole block sits on a single line.
func onOneLine(b *parser.RuleBlock) bool {
	return b.Closed && b.Open.Start.Line == b.Close.Start.Line
}

// lineBefore returns the text between the start of offset's line and offset.
func lineBefore(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	return src[start:offset]
}

func checkBracePlacement(p *Pass, n Node) {
	b := n.Block
	src := n.Sheet.Source

	if end := headerEnd(b); end >= 0 {
		open := b.Open.Start
		// a comment between the header and '{' belongs to the header
		if i := strings.LastIndex(src[end:open.Offset], "*/"); i >= 0 {
			end += i + len("*/")
		}
		switch {
		case p.Sheet.Position(end).Line != open.Line:
			p.Report(b.Open, "opening brace should be on the same line as the selector",
				"move '{' up to the end of the selector line")
		case src[end:open.Offset] != " ":
			p.Report(b.Open, "put exactly one space before the opening brace", "")
		}
	}

	if !b.Closed || onOneLine(b) {
		return
	}
	if strings.TrimSpace(lineBefore(src, b.Close.Start.Offset)) != "" {
		p.Report(b.Close, "closing brace should be on its own line", "")
	}
}

func checkSelectorPerLine(p *Pass, n Node) {
	sels := n.Block.Selectors
	for i := 1; i < len(sels); i++ {
		if sels[i].Span.Start.Line == sels[i-1].Span.End.Line {
			p.Report(sels[i].Span, fmt.Sprintf("selector %q should be on its own line", sels[i].Raw),
				"break the line after each comma of a selector group")
		}
	}
}

func checkDeclarationPerLine(p *Pass, n Node) {
	b := n.Block
	decls := b.Declarations
	if len(decls) < 2 {
		return
	}

	if decls[0].Span.Start.Line == b.Open.Start.Line {
		p.Report(decls[0].PropertySpan,
			fmt.Sprintf("declaration %q should start on a new line", decls[0].Property),
			"only rules with a single declaration may be written on one line")
	}
	for i := 1; i < len(decls); i++ {
		if decls[i].Span.Start.Line == decls[i-1].Span.End.Line {
			p.Report(decls[i].PropertySpan,
				fmt.Sprintf("declaration %q should be on its own line", decls[i].Property), "")
		}
	}
}

// hasDeepRuleChild reports whether any selector block below b exists.
func hasDeepRuleChild(b *parser.RuleBlock) bool {
	for _, c := range b.Children {
		if c.IsRule() || hasDeepRuleChild(c) {
			return true
		}
	}
	return false
}

func checkNestingDepth(p *Pass, n Node) {
	b := n.Block
	limit := p.Options.MaxNestingDepth
	if !b.IsRule() || b.Depth <= limit || hasDeepRuleChild(b) {
		return
	}
	span := b.Span
	if b.SelectorText != nil {
		span = b.SelectorText.Span
	}
	p.Report(span, fmt.Sprintf("selector nested %d levels deep (maximum %d)", b.Depth, limit),
		"flatten the rule into its own BEM class")
}

func checkPropertyOrder(p *Pass, n Node) {
	f, ok := p.Options.Order.Check(n.Block.Declarations)
	if !ok {
		return
	}
	p.Report(f.Declaration.PropertySpan,
		fmt.Sprintf("property %q (%s) should come before %q (%s)",
			f.Declaration.Property, f.Group, f.After.Property, f.AfterGroup),
		"order properties: position, box, typography, decoration")
}
