package report

import (
	"encoding/json"
	"io"
	"time"
)

// now is replaced in tests.
var now = time.Now

// JSONOutput is the versioned JSON export schema.
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Rules     []JSONRule  `json:"rules"`
	Issues    []JSONIssue `json:"issues"`
}

// JSONSummary contains high-level counts.
type JSONSummary struct {
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Truncated       int `json:"truncated"`
	FilesScanned    int `json:"files_scanned"`
	FilesWithIssues int `json:"files_with_issues"`
}

// JSONRule is the issue count of one rule.
type JSONRule struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

// JSONIssue is a single violation.
type JSONIssue struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line"`
	EndColumn int    `json:"end_column"`
	Severity  string `json:"severity"`
	Rule      string `json:"rule"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Source    string `json:"source,omitempty"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildJSONOutput(rep))
}

func buildJSONOutput(rep *Report) JSONOutput {
	errs, warnings := rep.Counts()

	issues := make([]JSONIssue, len(rep.Issues))
	for i, is := range rep.Issues {
		source := ""
		if len(is.SourceLines) > 0 {
			source = is.SourceLines[0]
		}
		issues[i] = JSONIssue{
			File:      is.File,
			Line:      is.Line,
			Column:    is.Column,
			EndLine:   is.EndLine,
			EndColumn: is.EndColumn,
			Severity:  is.Severity.String(),
			Rule:      is.Rule,
			Message:   is.Message,
			Hint:      is.Hint,
			Source:    source,
		}
	}

	byRule := rep.ByRule()
	ruleCounts := make([]JSONRule, len(byRule))
	for i, rc := range byRule {
		ruleCounts[i] = JSONRule{Rule: rc.Rule, Count: rc.Count}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:     len(rep.Issues),
			Errors:          errs,
			Warnings:        warnings,
			Truncated:       rep.TruncatedCount,
			FilesScanned:    rep.FilesScanned,
			FilesWithIssues: rep.FilesWithIssue,
		},
		Rules:  ruleCounts,
		Issues: issues,
	}
}
