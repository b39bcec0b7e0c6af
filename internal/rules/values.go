package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"github.com/yacobolo/cssguide/internal/parser"
)

var (
	hexColorPattern = regexp.MustCompile(`#[0-9A-Za-z]+`)
	quotedURL       = regexp.MustCompile(`(?i)\burl\(\s*['"]`)
)

// Zero-length units. Time, angle, frequency and percentage units are left
// alone since 0 without them is invalid or changes meaning.
var lengthUnits = map[string]bool{
	"px": true, "em": true, "rem": true, "ex": true, "ch": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true,
	"cm": true, "mm": true, "q": true, "in": true, "pt": true, "pc": true,
}

// maskValue blanks comments, string literals and url() arguments so numeric
// and color scans do not look inside them. Offsets are preserved.
func maskValue(v string) string {
	b := []byte(v)
	for i := 0; i < len(b); i++ {
		switch c := b[i]; {
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			end := strings.Index(v[i+2:], "*/")
			if end < 0 {
				end = len(v)
			} else {
				end += i + 4
			}
			for k := i; k < end; k++ {
				b[k] = ' '
			}
			i = end - 1
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(b) && b[j] != c {
				if b[j] == '\\' {
					j++
				}
				j++
			}
			for k := i; k <= j && k < len(b); k++ {
				b[k] = ' '
			}
			i = j
		case (c == 'u' || c == 'U') && strings.EqualFold(safeSlice(v, i, i+4), "url("):
			end := strings.IndexByte(v[i:], ')')
			if end < 0 {
				end = len(v) - i
			}
			for k := i + 4; k < i+end; k++ {
				b[k] = ' '
			}
			i += end
		}
	}
	return string(b)
}

func safeSlice(s string, from, to int) string {
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// dimension is a number, with its optional unit, found in a value.
type dimension struct {
	Text   string
	Number string
	Unit   string
	Offset int // within the value
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

// continuesWord reports whether a number starting after c would be part of
// an identifier or hex color rather than a value of its own.
func continuesWord(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-' || c == '#' || c == '.' || c == '$' || c == '@'
}

// dimensions lists the numbers in a declaration value.
func dimensions(value string) []dimension {
	m := maskValue(value)
	var out []dimension
	for i := 0; i < len(m); {
		c := m[i]
		digitAt := func(k int) bool { return k < len(m) && isDigit(m[k]) }

		starts := isDigit(c) ||
			(c == '.' && digitAt(i+1)) ||
			((c == '-' || c == '+') && (digitAt(i+1) || (i+1 < len(m) && m[i+1] == '.' && digitAt(i+2))))
		if !starts || (i > 0 && continuesWord(m[i-1])) {
			i++
			continue
		}

		j := i
		if c == '-' || c == '+' {
			j++
		}
		for j < len(m) && (isDigit(m[j]) || m[j] == '.') {
			j++
		}
		numEnd := j
		for j < len(m) && (isLetter(m[j]) || m[j] == '%') {
			j++
		}
		out = append(out, dimension{
			Text:   value[i:j],
			Number: value[i:numEnd],
			Unit:   value[numEnd:j],
			Offset: i,
		})
		i = j
	}
	return out
}

// valueText returns the declaration value as written in the source, so
// offsets found in it map straight back to the file.
func valueText(p *Pass, d *parser.Declaration) string {
	return p.Sheet.Source[d.ValueSpan.Start.Offset:d.ValueSpan.End.Offset]
}

// valueOffset returns the absolute source offset of a position inside the
// declaration value.
func valueOffset(d *parser.Declaration, i int) int {
	return d.ValueSpan.Start.Offset + i
}

func checkLeadingZero(p *Pass, n Node) {
	d := n.Declaration
	for _, dim := range dimensions(valueText(p, d)) {
		sign, digits := "", dim.Number
		if digits[0] == '-' || digits[0] == '+' {
			sign, digits = digits[:1], digits[1:]
		}
		if len(digits) < 3 || digits[0] != '0' {
			continue
		}
		trimmed := strings.TrimLeft(digits, "0")
		if !strings.HasPrefix(trimmed, ".") || len(trimmed) < 2 {
			continue
		}
		want := sign + trimmed + dim.Unit
		p.ReportRange(valueOffset(d, dim.Offset), valueOffset(d, dim.Offset+len(dim.Text)),
			fmt.Sprintf("leading zero in %q", dim.Text), fmt.Sprintf("write %s", want))
	}
}

func checkZeroUnit(p *Pass, n Node) {
	d := n.Declaration
	for _, dim := range dimensions(valueText(p, d)) {
		if !lengthUnits[strings.ToLower(dim.Unit)] {
			continue
		}
		f, err := strconv.ParseFloat(dim.Number, 64)
		if err != nil || f != 0 {
			continue
		}
		p.ReportRange(valueOffset(d, dim.Offset), valueOffset(d, dim.Offset+len(dim.Text)),
			fmt.Sprintf("unit on zero value %q", dim.Text), "write 0")
	}
}

// hexColor is a #-prefixed word found in a value.
type hexColor struct {
	Text   string
	Offset int
}

func hexColors(value string) []hexColor {
	m := maskValue(value)
	var out []hexColor
	for _, loc := range hexColorPattern.FindAllStringIndex(m, -1) {
		if loc[0] > 0 && continuesWord(m[loc[0]-1]) {
			continue
		}
		out = append(out, hexColor{Text: value[loc[0]:loc[1]], Offset: loc[0]})
	}
	return out
}

func validHex(text string) bool {
	switch len(text) - 1 {
	case 3, 4, 6, 8:
	default:
		return false
	}
	_, err := csscolorparser.Parse(text)
	return err == nil
}

// shortHex returns the three or four digit form of a six or eight digit hex
// color, when one exists.
func shortHex(text string) (string, bool) {
	digits := text[1:]
	if len(digits) != 6 && len(digits) != 8 {
		return "", false
	}
	var short strings.Builder
	short.WriteByte('#')
	for i := 0; i < len(digits); i += 2 {
		if !strings.EqualFold(digits[i:i+1], digits[i+1:i+2]) {
			return "", false
		}
		short.WriteByte(digits[i])
	}

	long, err := csscolorparser.Parse(text)
	if err != nil {
		return "", false
	}
	c, err := csscolorparser.Parse(short.String())
	if err != nil || c.R != long.R || c.G != long.G || c.B != long.B || c.A != long.A {
		return "", false
	}
	return short.String(), true
}

func checkHexColorInvalid(p *Pass, n Node) {
	d := n.Declaration
	for _, h := range hexColors(valueText(p, d)) {
		if validHex(h.Text) {
			continue
		}
		p.ReportRange(valueOffset(d, h.Offset), valueOffset(d, h.Offset+len(h.Text)),
			fmt.Sprintf("invalid hex color %q", h.Text), "use 3, 4, 6 or 8 hex digits")
	}
}

func checkHexColorCase(p *Pass, n Node) {
	d := n.Declaration
	for _, h := range hexColors(valueText(p, d)) {
		if !validHex(h.Text) || h.Text == strings.ToLower(h.Text) {
			continue
		}
		p.ReportRange(valueOffset(d, h.Offset), valueOffset(d, h.Offset+len(h.Text)),
			fmt.Sprintf("hex color %q should be lowercase", h.Text), "write "+strings.ToLower(h.Text))
	}
}

func checkHexColorShorthand(p *Pass, n Node) {
	d := n.Declaration
	for _, h := range hexColors(valueText(p, d)) {
		if !validHex(h.Text) {
			continue
		}
		short, ok := shortHex(h.Text)
		if !ok {
			continue
		}
		p.ReportRange(valueOffset(d, h.Offset), valueOffset(d, h.Offset+len(h.Text)),
			fmt.Sprintf("hex color %q can be shortened", h.Text), "write "+strings.ToLower(short))
	}
}

func checkURLQuotes(p *Pass, n Node) {
	d := n.Declaration
	for _, loc := range quotedURL.FindAllStringIndex(valueText(p, d), -1) {
		p.ReportRange(valueOffset(d, loc[0]), valueOffset(d, loc[1]),
			"quoted url() argument", "remove the quotes inside url()")
	}
}

// checkQuoteStyle flags double-quoted strings in selectors, values and
// at-rule preludes. A double-quoted string that itself contains a single
// quote is allowed.
func checkQuoteStyle(p *Pass, n Node) {
	check := func(text string, start, end int) {
		if !strings.HasPrefix(text, `"`) || strings.Contains(text, "'") {
			return
		}
		p.ReportRange(start, end, fmt.Sprintf("string %s uses double quotes", text), "use single quotes")
	}

	for _, at := range n.Sheet.AtRules {
		for _, s := range at.Strings {
			check(s.Text, s.Span.Start.Offset, s.Span.End.Offset)
		}
	}
	n.Sheet.Walk(func(b *parser.RuleBlock) {
		for _, s := range b.Strings {
			check(s.Text, s.Span.Start.Offset, s.Span.End.Offset)
		}
		if b.AtRule != nil {
			for _, s := range b.AtRule.Strings {
				check(s.Text, s.Span.Start.Offset, s.Span.End.Offset)
			}
		}
		for _, at := range b.Statements {
			for _, s := range at.Strings {
				check(s.Text, s.Span.Start.Offset, s.Span.End.Offset)
			}
		}
		for _, d := range b.Declarations {
			for _, s := range d.Strings {
				check(s.Text, s.Span.Start.Offset, s.Span.End.Offset)
			}
		}
	})
}

// reasonAbove returns a comment in block b that ends on the line above line.
func reasonAbove(b *parser.RuleBlock, line int) *parser.Comment {
	for _, c := range b.Comments {
		if c.Span.End.Line == line-1 {
			return c
		}
	}
	if b.LeadingComment != nil && b.LeadingComment.Span.End.Line == line-1 {
		return b.LeadingComment
	}
	return nil
}

// hasReason reports whether a comment has any text. A TODO marker counts
// as a reason.
func hasReason(c *parser.Comment) bool {
	return c != nil && c.Body() != ""
}

func checkImportantReason(p *Pass, n Node) {
	d := n.Declaration
	if !d.Important {
		return
	}
	if hasReason(d.Comment) || hasReason(reasonAbove(n.Block, d.Span.Start.Line)) {
		return
	}

	start, end := d.ValueSpan.Start.Offset, d.ValueSpan.End.Offset
	if i := strings.LastIndexByte(p.Sheet.Source[start:end], '!'); i >= 0 {
		start += i
	}
	p.ReportRange(start, end, fmt.Sprintf("!important on %q without a reason", d.Property),
		"add a comment on the same line or the line above explaining why, e.g. /* TODO: remove after the widget redesign */")
}

func checkZIndexRange(p *Pass, n Node) {
	d := n.Declaration
	if !strings.EqualFold(d.Property, "z-index") {
		return
	}
	z, err := strconv.Atoi(strings.TrimSpace(d.Value))
	if err != nil {
		return
	}
	if len(Classify(p.Options.ZIndexBands, z)) > 0 {
		return
	}
	p.Report(d.ValueSpan, fmt.Sprintf("z-index %d is outside every stacking band", z),
		"use a value from "+describeBands(p.Options.ZIndexBands))
}
