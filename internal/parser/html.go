package parser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yacobolo/cssguide/internal/scanner"
)

var styleAttrPattern = regexp.MustCompile(`(?is)\sstyle\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)

// styleRegion is the byte range of the text inside one <style> element.
type styleRegion struct {
	start, end int
}

// extractStyles finds <style> element contents and style="" attributes in
// an HTML document.
func extractStyles(src string, pos func(int) scanner.Position) ([]styleRegion, []*InlineStyle) {
	var (
		regions []styleRegion
		inline  []*InlineStyle
		inStyle bool
		offset  int
	)

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return regions, inline
		}
		// TagName lowercases the buffer in place, so copy Raw first.
		raw := string(z.Raw())
		start := offset
		offset += len(raw)

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if atom.Lookup(name) == atom.Style && tt == html.StartTagToken {
				inStyle = true
			}
			if hasAttr {
				inline = append(inline, inlineStyles(raw, start, pos)...)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Style {
				inStyle = false
			}
		case html.TextToken:
			if inStyle {
				regions = append(regions, styleRegion{start: start, end: offset})
			}
		}
	}
}

func inlineStyles(rawTag string, base int, pos func(int) scanner.Position) []*InlineStyle {
	var styles []*InlineStyle
	for _, m := range styleAttrPattern.FindAllStringSubmatchIndex(rawTag, -1) {
		for g := 1; g <= 3; g++ {
			from, to := m[2*g], m[2*g+1]
			if from < 0 {
				continue
			}
			styles = append(styles, &InlineStyle{
				Value: html.UnescapeString(rawTag[from:to]),
				Span:  scanner.Span{Start: pos(base + from), End: pos(base + to)},
			})
			break
		}
	}
	return styles
}

// maskOutside blanks every byte of src outside [start, end) while keeping
// line breaks, so positions in the masked text match the original file.
func maskOutside(src string, start, end int) string {
	b := []byte(src)
	for i := range b {
		if i >= start && i < end {
			continue
		}
		if b[i] != '\n' && b[i] != '\r' {
			b[i] = ' '
		}
	}
	return string(b)
}
