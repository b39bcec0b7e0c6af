package rules

import (
	"fmt"
	"sort"

	"github.com/yacobolo/cssguide/internal/parser"
	"github.com/yacobolo/cssguide/internal/scanner"
)

// Violation is one breach of a style rule. Violations are never modified
// after a check produces them.
type Violation struct {
	File     string
	Rule     string
	Severity Severity
	Message  string
	Hint     string
	Span     scanner.Span
}

func (v Violation) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s (%s)",
		v.File, v.Span.Start.Line, v.Span.Start.Column, v.Severity, v.Message, v.Rule)
}

// Sort orders violations by file, line, column, then rule id. Violations
// that compare equal keep their discovery order.
func Sort(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}
		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}
		return a.Rule < b.Rule
	})
}

var anomalyRules = map[parser.AnomalyKind]string{
	parser.MalformedInput:   MalformedInput,
	parser.UnbalancedBraces: UnbalancedBraces,
	parser.MissingSemicolon: MissingSemicolon,
}

// anomalyHints suggests a fix for each parse anomaly kind.
var anomalyHints = map[parser.AnomalyKind]string{
	parser.MalformedInput:   "close the string or comment",
	parser.UnbalancedBraces: "check that every '{' has a matching '}'",
	parser.MissingSemicolon: "add ';' after the value",
}

// FromAnomaly converts a parse anomaly into a violation of the matching
// parse rule.
func FromAnomaly(file string, a parser.Anomaly) Violation {
	id := anomalyRules[a.Kind]
	def := byID[id]
	return Violation{
		File:     file,
		Rule:     id,
		Severity: def.Severity,
		Message:  a.Message,
		Hint:     anomalyHints[a.Kind],
		Span:     a.Span,
	}
}

// Unreadable returns the violation reported for a file that could not be read.
func Unreadable(file string, err error) Violation {
	pos := scanner.Position{Line: 1, Column: 1}
	return Violation{
		File:     file,
		Rule:     FileUnreadable,
		Severity: SeverityError,
		Message:  fmt.Sprintf("cannot read file: %v", err),
		Span:     scanner.Span{Start: pos, End: pos},
	}
}
