package parser

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/yacobolo/cssguide/internal/bem"
	"github.com/yacobolo/cssguide/internal/scanner"
)

// Pseudo-classes whose arguments are selectors and must be analyzed too.
var selectorPseudos = map[string]bool{
	"not":     true,
	"is":      true,
	"where":   true,
	"has":     true,
	"matches": true,
}

type selectorAnalyzer struct {
	sc     *scanner.Scanner
	sel    *Selector
	parent *RuleBlock
	base   int
}

// analyzeSelector extracts classes, ids and type selectors from one selector.
// start is the byte offset of raw within the scanned source.
func analyzeSelector(sc *scanner.Scanner, raw string, start int, parent *RuleBlock) *Selector {
	sel := &Selector{Raw: raw}
	a := &selectorAnalyzer{sc: sc, sel: sel, parent: parent, base: start}
	sel.Span = a.span(0, len(raw))
	a.scan(raw, 0)
	sel.IsID = len(sel.IDs) > 0
	sel.ContainsHTMLTag = len(sel.Tags) > 0
	return sel
}

func (a *selectorAnalyzer) span(from, to int) scanner.Span {
	return scanner.Span{Start: a.sc.Position(a.base + from), End: a.sc.Position(a.base + to)}
}

// scan walks s, whose first byte sits at offset off within the selector.
func (a *selectorAnalyzer) scan(s string, off int) {
	compoundStart := true
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isCombinator(c):
			compoundStart = true
			i++

		case c == '.':
			j, interp := scanName(s, i+1)
			if j > i+1 {
				a.addClass(s[i+1:j], off+i+1, off+j, false, interp)
			}
			compoundStart = false
			i = max(j, i+1)

		case c == '#':
			if i+1 < len(s) && s[i+1] == '{' {
				i = skipInterpolation(s, i)
				compoundStart = false
				continue
			}
			j, _ := scanName(s, i+1)
			if j > i+1 {
				a.sel.IDs = append(a.sel.IDs, NameRef{Name: s[i+1 : j], Span: a.span(off+i, off+j)})
			}
			compoundStart = false
			i = max(j, i+1)

		case c == '&':
			j, interp := scanName(s, i+1)
			if j > i+1 {
				if base, ok := a.parentSubject(); ok {
					a.addClass(base+s[i+1:j], off+i, off+j, true, interp)
				}
			}
			compoundStart = false
			i = max(j, i+1)

		case c == ':':
			j := i + 1
			if j < len(s) && s[j] == ':' {
				j++
			}
			k, _ := scanName(s, j)
			pseudo := strings.ToLower(s[j:k])
			if k < len(s) && s[k] == '(' {
				end := matchClose(s, k, '(', ')')
				if selectorPseudos[pseudo] {
					a.scan(s[k+1:end], off+k+1)
				}
				k = min(end+1, len(s))
			}
			compoundStart = false
			i = max(k, i+1)

		case c == '[':
			i = min(matchClose(s, i, '[', ']')+1, len(s))
			compoundStart = false

		case c == '"' || c == '\'':
			i = skipString(s, i) + 1

		case c == '%':
			// SCSS placeholder
			j, _ := scanName(s, i+1)
			compoundStart = false
			i = max(j, i+1)

		case isNameStart(c):
			j, _ := scanName(s, i)
			if compoundStart {
				a.addTag(s[i:j], off+i, off+j)
			}
			compoundStart = false
			i = j

		default:
			compoundStart = false
			i++
		}
	}
}

func (a *selectorAnalyzer) addClass(name string, from, to int, resolved, interp bool) {
	a.sel.Classes = append(a.sel.Classes, ClassRef{
		Name:         name,
		Span:         a.span(from, to),
		Resolved:     resolved,
		Interpolated: interp,
		BEM:          bem.Parse(strings.ToLower(name)),
	})
}

// htmlElements are the element names treated as HTML tags. atom.Lookup
// alone also knows attribute names such as href or content.
var htmlElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.Address: true, atom.Area: true, atom.Article: true,
	atom.Aside: true, atom.Audio: true, atom.B: true, atom.Base: true, atom.Bdi: true, atom.Bdo: true,
	atom.Blockquote: true, atom.Body: true, atom.Br: true, atom.Button: true, atom.Canvas: true,
	atom.Caption: true, atom.Cite: true, atom.Code: true, atom.Col: true, atom.Colgroup: true,
	atom.Data: true, atom.Datalist: true, atom.Dd: true, atom.Del: true, atom.Details: true,
	atom.Dfn: true, atom.Dialog: true, atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Em: true,
	atom.Embed: true, atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Head: true, atom.Header: true, atom.Hgroup: true,
	atom.Hr: true, atom.Html: true, atom.I: true, atom.Iframe: true, atom.Img: true, atom.Input: true,
	atom.Ins: true, atom.Kbd: true, atom.Label: true, atom.Legend: true, atom.Li: true,
	atom.Link: true, atom.Main: true, atom.Map: true, atom.Mark: true, atom.Math: true,
	atom.Menu: true, atom.Meta: true, atom.Meter: true, atom.Nav: true, atom.Noscript: true,
	atom.Object: true, atom.Ol: true, atom.Optgroup: true, atom.Option: true, atom.Output: true,
	atom.P: true, atom.Param: true, atom.Picture: true, atom.Pre: true, atom.Progress: true,
	atom.Q: true, atom.Rp: true, atom.Rt: true, atom.Ruby: true, atom.S: true, atom.Samp: true,
	atom.Script: true, atom.Search: true, atom.Section: true, atom.Select: true, atom.Slot: true,
	atom.Small: true, atom.Source: true, atom.Span: true, atom.Strong: true, atom.Style: true,
	atom.Sub: true, atom.Summary: true, atom.Sup: true, atom.Svg: true, atom.Table: true,
	atom.Tbody: true, atom.Td: true, atom.Template: true, atom.Textarea: true, atom.Tfoot: true,
	atom.Th: true, atom.Thead: true, atom.Time: true, atom.Title: true, atom.Tr: true,
	atom.Track: true, atom.U: true, atom.Ul: true, atom.Var: true, atom.Video: true, atom.Wbr: true,
}

func (a *selectorAnalyzer) addTag(name string, from, to int) {
	if !htmlElements[atom.Lookup([]byte(strings.ToLower(name)))] {
		return
	}
	a.sel.Tags = append(a.sel.Tags, NameRef{Name: name, Span: a.span(from, to)})
}

// parentSubject returns the class an "&" refers to: the subject of the first
// selector of the nearest enclosing rule.
func (a *selectorAnalyzer) parentSubject() (string, bool) {
	for p := a.parent; p != nil; p = p.Parent {
		if !p.IsRule() {
			continue
		}
		if len(p.Selectors) == 0 {
			return "", false
		}
		c, ok := p.Selectors[0].Subject()
		return c.Name, ok
	}
	return "", false
}

func isCombinator(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '>', '+', '~', ',':
		return true
	}
	return false
}

func isNameStart(c byte) bool {
	return c == '_' || c == '-' || c == '\\' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}

// scanName returns the end of the identifier starting at i and whether it
// contains a SCSS interpolation.
func scanName(s string, i int) (int, bool) {
	interp := false
	for i < len(s) {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i += 2
		case s[i] == '#' && i+1 < len(s) && s[i+1] == '{':
			i = skipInterpolation(s, i)
			interp = true
		case isNameByte(s[i]):
			i++
		default:
			return i, interp
		}
	}
	return i, interp
}

// skipInterpolation returns the offset just past the "}" closing the "#{" at i.
func skipInterpolation(s string, i int) int {
	return min(matchClose(s, i+1, '{', '}')+1, len(s))
}

// matchClose returns the index of the bracket matching the one at i, or
// len(s) when it is never closed.
func matchClose(s string, i int, opening, closing byte) int {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j
			}
		case '"', '\'':
			j = skipString(s, j)
		}
	}
	return len(s)
}
