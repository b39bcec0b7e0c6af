package rules

import (
	"strings"
	"unicode"

	"github.com/yacobolo/cssguide/internal/parser"
)

func checkCommentSpacing(p *Pass, n Node) {
	c := n.Comment
	var inner string
	if c.Line {
		inner = strings.TrimLeft(c.Text, "/")
	} else {
		inner = strings.TrimPrefix(c.Text, "/*")
		inner = strings.TrimSuffix(inner, "*/")
	}
	if strings.Trim(inner, "*/!-= \t\r\n") == "" {
		return
	}

	lead := strings.TrimLeft(inner, "*!")
	padded := lead != "" && unicode.IsSpace(rune(lead[0]))
	if !c.Line {
		trail := strings.TrimRight(inner, "*")
		padded = padded && trail != "" && unicode.IsSpace(rune(trail[len(trail)-1]))
	}
	if padded {
		return
	}

	want := "/* " + c.Body() + " */"
	if c.Line {
		want = "// " + c.Body()
	}
	p.Report(c.Span, "comment text should be padded with spaces", "write "+want)
}

func checkLineComment(p *Pass, n Node) {
	if !n.Comment.Line || n.Sheet.Dialect == parser.DialectSCSS {
		return
	}
	p.Report(n.Comment.Span, "// comments are not valid CSS", "use /* ... */")
}

func checkFinalNewline(p *Pass, n Node) {
	src := n.Sheet.Source
	if src == "" || strings.HasSuffix(src, "\n") {
		return
	}
	p.ReportAt(len(src), "file does not end with a newline", "")
}

func checkInlineStyle(p *Pass, n Node) {
	for _, s := range n.Sheet.InlineStyles {
		p.Report(s.Span, "inline style attribute", "move the declarations into a stylesheet class")
	}
}
