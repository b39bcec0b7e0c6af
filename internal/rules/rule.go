// Package rules holds the style checks and the engine that runs them.
//
// Rules are data: each RuleDef names the node kind it inspects and a pure
// check function. The engine walks a parsed stylesheet once and hands every
// node to the enabled rules of its kind. Checks read only the immutable tree
// and the engine options, so their order never changes the outcome.
package rules

import (
	"sort"

	"github.com/yacobolo/cssguide/internal/parser"
	"github.com/yacobolo/cssguide/internal/scanner"
)

// Rule identifiers.
const (
	MalformedInput   = "malformed-input"
	UnbalancedBraces = "unbalanced-braces"
	MissingSemicolon = "missing-semicolon"
	FileUnreadable   = "file-unreadable"

	BracePlacement     = "brace-placement"
	SelectorPerLine    = "selector-per-line"
	DeclarationPerLine = "declaration-per-line"
	NestingDepth       = "nesting-depth"
	PropertyOrder      = "property-order"

	LeadingZero       = "leading-zero"
	ZeroUnit          = "zero-unit"
	HexColorShorthand = "hex-color-shorthand"
	HexColorCase      = "hex-color-case"
	HexColorInvalid   = "hex-color-invalid"
	QuoteStyle        = "quote-style"
	URLQuotes         = "url-quotes"
	ImportantReason   = "important-reason"
	ZIndexRange       = "z-index-range"

	BEMName           = "bem-name"
	NotLowercase      = "not-lowercase"
	IDSelector        = "id-selector"
	HTMLTagInSelector = "html-tag-in-selector"

	CommentSpacing   = "comment-spacing"
	LineCommentInCSS = "line-comment-in-css"

	FinalNewline = "final-newline"
	InlineStyle  = "inline-style"
)

// NodeKind is the kind of tree node a rule inspects.
type NodeKind int

// Node kinds, in the order the engine visits them.
const (
	KindParse NodeKind = iota
	KindStylesheet
	KindBlock
	KindDeclaration
	KindSelector
	KindComment
)

func (k NodeKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindStylesheet:
		return "stylesheet"
	case KindBlock:
		return "block"
	case KindDeclaration:
		return "declaration"
	case KindSelector:
		return "selector"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Node is the unit handed to a check. Sheet is always set; the other fields
// are filled according to the rule's kind.
type Node struct {
	Sheet       *parser.Stylesheet
	Block       *parser.RuleBlock
	Declaration *parser.Declaration
	Selector    *parser.Selector
	Comment     *parser.Comment
}

// CheckFunc inspects one node and reports violations through the pass.
type CheckFunc func(p *Pass, n Node)

// RuleDef is a data-driven rule definition.
type RuleDef struct {
	ID          string
	Group       string // "parse", "format", "values", "naming", "comments"
	Description string
	Severity    Severity
	Kind        NodeKind
	Check       CheckFunc // nil for parse rules
}

// Pass collects the violations of one rule over one stylesheet.
type Pass struct {
	Rule    *RuleDef
	Options *Options
	Sheet   *parser.Stylesheet

	violations []Violation
}

// Report records a violation at span.
func (p *Pass) Report(span scanner.Span, message, hint string) {
	p.violations = append(p.violations, Violation{
		File:     p.Sheet.Filename,
		Rule:     p.Rule.ID,
		Severity: p.Rule.Severity,
		Message:  message,
		Hint:     hint,
		Span:     span,
	})
}

// ReportAt records a zero-width violation at a byte offset of the source.
func (p *Pass) ReportAt(offset int, message, hint string) {
	pos := p.Sheet.Position(offset)
	p.Report(scanner.Span{Start: pos, End: pos}, message, hint)
}

// ReportRange records a violation over a byte range of the source.
func (p *Pass) ReportRange(start, end int, message, hint string) {
	p.Report(scanner.Span{Start: p.Sheet.Position(start), End: p.Sheet.Position(end)}, message, hint)
}

var registry = []*RuleDef{
	{ID: MalformedInput, Group: "parse", Severity: SeverityError, Kind: KindParse,
		Description: "Unterminated string or comment; the rest of the file is not checked"},
	{ID: UnbalancedBraces, Group: "parse", Severity: SeverityError, Kind: KindParse,
		Description: "Every '{' needs a matching '}'"},
	{ID: MissingSemicolon, Group: "parse", Severity: SeverityWarning, Kind: KindParse,
		Description: "End every declaration with a semicolon, including the last one"},
	{ID: FileUnreadable, Group: "parse", Severity: SeverityError, Kind: KindParse,
		Description: "The file could not be read"},

	{ID: BracePlacement, Group: "format", Severity: SeverityWarning, Kind: KindBlock, Check: checkBracePlacement,
		Description: "Opening brace on the selector line after one space; closing brace on its own line"},
	{ID: SelectorPerLine, Group: "format", Severity: SeverityWarning, Kind: KindBlock, Check: checkSelectorPerLine,
		Description: "Put each selector of a group on its own line"},
	{ID: DeclarationPerLine, Group: "format", Severity: SeverityWarning, Kind: KindBlock, Check: checkDeclarationPerLine,
		Description: "Put each declaration on its own line; single-declaration rules may be one-liners"},
	{ID: NestingDepth, Group: "format", Severity: SeverityError, Kind: KindBlock, Check: checkNestingDepth,
		Description: "Do not nest selectors deeper than the configured maximum"},
	{ID: PropertyOrder, Group: "format", Severity: SeverityWarning, Kind: KindBlock, Check: checkPropertyOrder,
		Description: "Order properties by group: position, box, typography, decoration"},

	{ID: LeadingZero, Group: "values", Severity: SeverityWarning, Kind: KindDeclaration, Check: checkLeadingZero,
		Description: "Omit the leading zero of fractional values (.5em, not 0.5em)"},
	{ID: ZeroUnit, Group: "values", Severity: SeverityWarning, Kind: KindDeclaration, Check: checkZeroUnit,
		Description: "Omit units on zero lengths (0, not 0px)"},
	{ID: HexColorShorthand, Group: "values", Severity: SeverityWarning, Kind: KindDeclaration, Check: checkHexColorShorthand,
		Description: "Use three-digit hex colors where possible (#fff, not #ffffff)"},
	{ID: HexColorCase, Group: "values", Severity: SeverityWarning, Kind: KindDeclaration, Check: checkHexColorCase,
		Description: "Write hex colors in lowercase"},
	{ID: HexColorInvalid, Group: "values", Severity: SeverityError, Kind: KindDeclaration, Check: checkHexColorInvalid,
		Description: "Hex colors must be valid colors"},
	{ID: QuoteStyle, Group: "values", Severity: SeverityWarning, Kind: KindStylesheet, Check: checkQuoteStyle,
		Description: "Use single quotes for strings"},
	{ID: URLQuotes, Group: "values", Severity: SeverityWarning, Kind: KindDeclaration, Check: checkURLQuotes,
		Description: "Do not quote url() arguments"},
	{ID: ImportantReason, Group: "values", Severity: SeverityWarning, Kind: KindDeclaration, Check: checkImportantReason,
		Description: "Explain every !important in a comment on the same line or the line above"},
	{ID: ZIndexRange, Group: "values", Severity: SeverityError, Kind: KindDeclaration, Check: checkZIndexRange,
		Description: "z-index values must fall inside a stacking band"},

	{ID: BEMName, Group: "naming", Severity: SeverityError, Kind: KindSelector, Check: checkBEMName,
		Description: "Class names follow block__element--modifier_value"},
	{ID: NotLowercase, Group: "naming", Severity: SeverityError, Kind: KindSelector, Check: checkNotLowercase,
		Description: "Class names are lowercase"},
	{ID: IDSelector, Group: "naming", Severity: SeverityError, Kind: KindSelector, Check: checkIDSelector,
		Description: "Style through classes, not ids"},
	{ID: HTMLTagInSelector, Group: "naming", Severity: SeverityWarning, Kind: KindSelector, Check: checkHTMLTagInSelector,
		Description: "Do not qualify or scope class selectors with HTML tags"},

	{ID: CommentSpacing, Group: "comments", Severity: SeverityWarning, Kind: KindComment, Check: checkCommentSpacing,
		Description: "Pad comment text with a space on each side"},
	{ID: LineCommentInCSS, Group: "comments", Severity: SeverityError, Kind: KindComment, Check: checkLineComment,
		Description: "Plain CSS has no // comments"},

	{ID: FinalNewline, Group: "format", Severity: SeverityWarning, Kind: KindStylesheet, Check: checkFinalNewline,
		Description: "End files with a newline"},
	{ID: InlineStyle, Group: "format", Severity: SeverityWarning, Kind: KindStylesheet, Check: checkInlineStyle,
		Description: "Move style attributes into a stylesheet"},
}

var byID = func() map[string]*RuleDef {
	m := make(map[string]*RuleDef, len(registry))
	for _, r := range registry {
		m[r.ID] = r
	}
	return m
}()

// All returns every rule definition in registry order.
func All() []*RuleDef {
	out := make([]*RuleDef, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the rule with the given id.
func Lookup(id string) (*RuleDef, bool) {
	r, ok := byID[id]
	return r, ok
}

// IDs returns every rule id, sorted.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for _, r := range registry {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	return ids
}
