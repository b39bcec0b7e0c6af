package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes a report suitable for pasting into an issue or pull
// request.
func WriteMarkdown(w io.Writer, rep *Report) error {
	bw := bufio.NewWriter(w)
	errs, warnings := rep.Counts()

	fmt.Fprintln(bw, "# Style Guide Report")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "- Files scanned: %d\n", rep.FilesScanned)
	fmt.Fprintf(bw, "- Files with issues: %d\n", rep.FilesWithIssue)
	fmt.Fprintf(bw, "- Issues: %d (%s, %s)\n", len(rep.Issues),
		pluralizeCount(errs, "error", "errors"),
		pluralizeCount(warnings, "warning", "warnings"))
	if rep.TruncatedCount > 0 {
		fmt.Fprintf(bw, "- Truncated: %d\n", rep.TruncatedCount)
	}

	if len(rep.Issues) == 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "No issues found.")
		return bw.Flush()
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "## Rules")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "| Rule | Count |")
	fmt.Fprintln(bw, "|------|------:|")
	for _, rc := range rep.ByRule() {
		fmt.Fprintf(bw, "| `%s` | %d |\n", rc.Rule, rc.Count)
	}

	file := ""
	for _, is := range rep.Issues {
		if is.File != file {
			file = is.File
			fmt.Fprintln(bw)
			fmt.Fprintf(bw, "## `%s`\n", file)
			fmt.Fprintln(bw)
			fmt.Fprintln(bw, "| Line | Column | Severity | Rule | Message |")
			fmt.Fprintln(bw, "|-----:|-------:|----------|------|---------|")
		}
		msg := escapeCell(is.Message)
		if is.Hint != "" {
			msg += " (" + escapeCell(is.Hint) + ")"
		}
		fmt.Fprintf(bw, "| %d | %d | %s | `%s` | %s |\n", is.Line, is.Column, is.Severity, is.Rule, msg)
	}

	return bw.Flush()
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
