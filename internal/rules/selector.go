package rules

import (
	"fmt"
	"strings"

	"github.com/yacobolo/cssguide/internal/parser"
)

func checkBEMName(p *Pass, n Node) {
	for _, c := range n.Selector.Classes {
		if c.Interpolated || c.BEM.Valid() {
			continue
		}
		p.Report(c.Span, fmt.Sprintf("class %q is not valid BEM: %s", c.Name, c.BEM.Reason),
			"use block, block__element, block--modifier_value or block__element--modifier_value")
	}
}

func checkNotLowercase(p *Pass, n Node) {
	for _, c := range n.Selector.Classes {
		if c.Name == strings.ToLower(c.Name) {
			continue
		}
		p.Report(c.Span, fmt.Sprintf("class %q must be lowercase", c.Name), "write "+strings.ToLower(c.Name))
	}
}

func checkIDSelector(p *Pass, n Node) {
	for _, id := range n.Selector.IDs {
		p.Report(id.Span, fmt.Sprintf("id selector #%s", id.Name), "style the element through a class")
	}
}

// scopedByClass reports whether any enclosing rule selects by class or id.
func scopedByClass(b *parser.RuleBlock) bool {
	for parent := b.Parent; parent != nil; parent = parent.Parent {
		for _, s := range parent.Selectors {
			if len(s.Classes) > 0 || len(s.IDs) > 0 {
				return true
			}
		}
	}
	return false
}

// checkHTMLTagInSelector flags tags that qualify a class (div.menu) or sit in
// a class-scoped selector (.menu li). Plain element selectors such as body
// or "ul li" are base styles and pass.
func checkHTMLTagInSelector(p *Pass, n Node) {
	sel := n.Selector
	if !sel.ContainsHTMLTag {
		return
	}
	if len(sel.Classes) == 0 && len(sel.IDs) == 0 && !scopedByClass(n.Block) {
		return
	}
	for _, tag := range sel.Tags {
		p.Report(tag.Span, fmt.Sprintf("html tag %q in class selector %q", tag.Name, sel.Raw),
			"give the element its own BEM element class")
	}
}
