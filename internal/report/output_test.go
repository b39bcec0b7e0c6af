package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/cssguide/internal/rules"
)

func sampleReport() *Report {
	return &Report{
		FilesScanned:   4,
		FilesWithIssue: 1,
		Issues: []Issue{
			{
				File:        "web/card.scss",
				Line:        3,
				Column:      5,
				EndLine:     3,
				EndColumn:   12,
				Rule:        rules.BEMName,
				Severity:    rules.SeverityError,
				Message:     `class "card__a__b" nests elements`,
				SourceLines: []string{"  .card__a__b {"},
			},
			{
				File:     "web/card.scss",
				Line:     7,
				Column:   10,
				Rule:     rules.LeadingZero,
				Severity: rules.SeverityWarning,
				Message:  "leading zero | in 0.5em",
				Hint:     "write .5em",
			},
		},
	}
}

func TestDetermineFormat(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		quiet bool
		want  Format
	}{
		{name: "default", want: FormatIssues},
		{name: "issues", flag: "issues", want: FormatIssues},
		{name: "summary", flag: "summary", want: FormatSummary},
		{name: "full", flag: "full", want: FormatFull},
		{name: "json", flag: "JSON", want: FormatJSON},
		{name: "markdown", flag: "markdown", want: FormatMarkdown},
		{name: "markdown shorthand", flag: "md", want: FormatMarkdown},
		{name: "unknown falls back", flag: "xml", want: FormatIssues},
		{name: "quiet overrides flag", flag: "full", quiet: true, want: FormatIssues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineFormat(tt.flag, tt.quiet))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.0", out.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", out.Timestamp)
	assert.Equal(t, JSONSummary{
		TotalIssues:     2,
		Errors:          1,
		Warnings:        1,
		FilesScanned:    4,
		FilesWithIssues: 1,
	}, out.Summary)

	require.Len(t, out.Issues, 2)
	assert.Equal(t, JSONIssue{
		File:      "web/card.scss",
		Line:      3,
		Column:    5,
		EndLine:   3,
		EndColumn: 12,
		Severity:  "error",
		Rule:      "bem-name",
		Message:   `class "card__a__b" nests elements`,
		Source:    "  .card__a__b {",
	}, out.Issues[0])
	assert.Equal(t, "write .5em", out.Issues[1].Hint)
	assert.Len(t, out.Rules, 2)
}

func TestWriteJSON_EmptyIssuesIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &Report{FilesScanned: 1}))
	assert.Contains(t, buf.String(), `"issues": []`)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "# Style Guide Report")
	assert.Contains(t, out, "- Issues: 2 (1 error, 1 warning)")
	assert.Contains(t, out, "| `bem-name` | 1 |")
	assert.Contains(t, out, "## `web/card.scss`")
	assert.Contains(t, out, `| 7 | 10 | warning | `+"`leading-zero`"+` | leading zero \| in 0.5em (write .5em) |`)
}

func TestWriteMarkdown_Clean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, &Report{FilesScanned: 2}))
	assert.Contains(t, buf.String(), "No issues found.")
	assert.NotContains(t, buf.String(), "## Rules")
}

func TestWrite_AllFormats(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatIssues, "web/card.scss:3:5: error:"},
		{FormatSummary, "Style Guide Statistics"},
		{FormatFull, "Top Rules"},
		{FormatJSON, `"total_issues": 2`},
		{FormatMarkdown, "# Style Guide Report"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, sampleReport(), Options{Format: tt.format}))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	var buf bytes.Buffer
	assert.Error(t, Write(&buf, sampleReport(), Options{Format: "xml"}))
}

func TestSummaryFormat_NoIssueLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), Options{Format: FormatSummary}))

	out := buf.String()
	assert.NotContains(t, out, "web/card.scss:3:5")
	assert.Contains(t, out, "Files Scanned:     4")
	assert.Contains(t, out, "] 75.0%")
	assert.Contains(t, out, "1. bem-name - 1 occurrence")
}

func TestRenderStyle_NoColors(t *testing.T) {
	assert.Equal(t, "plain", RenderStyle(StyleRed, "plain", false))
}
