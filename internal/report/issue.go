// Package report turns violations into sorted diagnostics and renders them
// as terminal text, JSON or Markdown.
package report

import (
	"sort"
	"strings"

	"github.com/yacobolo/cssguide/internal/rules"
	"github.com/yacobolo/cssguide/internal/runner"
)

// Issue is one reported violation with its source context.
type Issue struct {
	File        string
	Line        int
	Column      int
	EndLine     int
	EndColumn   int
	Rule        string
	Severity    rules.Severity
	Message     string
	Hint        string
	SourceLines []string
}

// NewIssue converts a violation. source is the file content, or empty when
// it is not available.
func NewIssue(v rules.Violation, source string) Issue {
	is := Issue{
		File:      v.File,
		Line:      v.Span.Start.Line,
		Column:    v.Span.Start.Column,
		EndLine:   v.Span.End.Line,
		EndColumn: v.Span.End.Column,
		Rule:      v.Rule,
		Severity:  v.Severity,
		Message:   v.Message,
		Hint:      v.Hint,
	}
	if line, ok := sourceLine(source, v.Span.Start.Offset); ok {
		is.SourceLines = []string{line}
	}
	return is
}

// sourceLine returns the line containing offset, without its newline.
func sourceLine(src string, offset int) (string, bool) {
	if src == "" || offset < 0 || offset > len(src) {
		return "", false
	}
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}
	return strings.TrimRight(src[start:end], "\r"), true
}

// Report is the merged result of a lint run.
type Report struct {
	Issues         []Issue
	FilesScanned   int
	FilesWithIssue int
	// TruncatedCount is the number of issues hidden by Limit.
	TruncatedCount int
}

// New merges per-file results into a sorted report. Nothing is dropped.
func New(results []runner.Result) *Report {
	r := &Report{FilesScanned: len(results)}
	for _, res := range results {
		if len(res.Violations) > 0 {
			r.FilesWithIssue++
		}
		for _, v := range res.Violations {
			r.Issues = append(r.Issues, NewIssue(v, res.Source))
		}
	}
	Sort(r.Issues)
	return r
}

// Sort orders issues by file, line, column, rule and message. The sort is
// stable so equal issues keep discovery order.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}

// Failed reports whether any issue is at or above threshold.
func (r *Report) Failed(threshold rules.Severity) bool {
	for _, is := range r.Issues {
		if is.Severity.AtLeast(threshold) {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (r *Report) Counts() (errs, warnings int) {
	for _, is := range r.Issues {
		switch is.Severity {
		case rules.SeverityError:
			errs++
		case rules.SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}

// RuleCount is the number of issues of one rule.
type RuleCount struct {
	Rule  string
	Count int
}

// ByRule counts issues per rule, most frequent first.
func (r *Report) ByRule() []RuleCount {
	counts := make(map[string]int)
	for _, is := range r.Issues {
		counts[is.Rule]++
	}
	out := make([]RuleCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, RuleCount{Rule: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Rule < out[j].Rule
	})
	return out
}

// Limit returns a copy of the report keeping at most maxPerRule issues of
// each rule and at most maxSame issues with the same message. Zero disables
// a limit.
func (r *Report) Limit(maxPerRule, maxSame int) *Report {
	out := *r
	out.Issues = nil

	perRule := make(map[string]int)
	perMessage := make(map[string]int)
	for _, is := range r.Issues {
		if maxPerRule > 0 && perRule[is.Rule] >= maxPerRule {
			continue
		}
		if maxSame > 0 && perMessage[is.Message] >= maxSame {
			continue
		}
		perRule[is.Rule]++
		perMessage[is.Message]++
		out.Issues = append(out.Issues, is)
	}
	out.TruncatedCount = r.TruncatedCount + len(r.Issues) - len(out.Issues)
	return &out
}
