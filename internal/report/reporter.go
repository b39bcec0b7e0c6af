package report

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Reporter prints issues in golangci-lint format.
type Reporter struct {
	w             io.Writer
	useColors     bool
	printLines    bool
	printRuleName bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts Options) *Reporter {
	return &Reporter{
		w:             w,
		useColors:     opts.UseColors,
		printLines:    opts.PrintLines,
		printRuleName: opts.PrintRuleName,
	}
}

// ShouldUseColors decides whether terminal colors are enabled. An explicit
// request wins, then FORCE_COLOR and GitHub Actions, then a TTY check.
func ShouldUseColors(explicit bool) bool {
	if explicit {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		return true
	}
	return false
}

// PrintIssues prints every issue. Issues are expected to be sorted.
func (r *Reporter) PrintIssues(issues []Issue) {
	for _, is := range issues {
		r.printIssue(is)
	}
}

// printIssue formats one issue as "file:line:col: severity: message (rule)".
func (r *Reporter) printIssue(is Issue) {
	location := fmt.Sprintf("%s:%d:%d:", is.File, is.Line, is.Column)
	severity := is.Severity.String() + ":"

	ruleSuffix := ""
	if r.printRuleName {
		ruleSuffix = fmt.Sprintf(" (%s)", is.Rule)
	}

	fmt.Fprintf(r.w, "%s %s %s%s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		RenderStyle(severityStyle(is.Severity.String()), severity, r.useColors),
		is.Message,
		RenderStyle(StyleGray, ruleSuffix, r.useColors))

	if r.printLines && len(is.SourceLines) > 0 {
		for _, line := range is.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}
		caret := buildCaretIndicator(is.SourceLines[0], is.Column)
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
	}

	if is.Hint != "" {
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleGray, "hint: "+is.Hint, r.useColors))
	}
}

// buildCaretIndicator builds a "^" aligned under column, copying tabs from
// the source line so the caret lines up in any tab width.
func buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}
	return padding.String() + "^"
}

// PrintSummary prints issue counts with a per-rule breakdown.
func (r *Reporter) PrintSummary(rep *Report) {
	total := len(rep.Issues)
	errs, warnings := rep.Counts()

	fmt.Fprintln(r.w, "")

	if total == 0 && rep.TruncatedCount == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGreen,
			fmt.Sprintf("No issues in %s.", pluralizeCount(rep.FilesScanned, "file", "files")), r.useColors))
		return
	}

	var parts []string
	if errs > 0 && warnings > 0 {
		parts = append(parts, pluralizeCount(errs, "error", "errors")+", "+
			pluralizeCount(warnings, "warning", "warnings"))
	}
	if rep.TruncatedCount > 0 {
		parts = append(parts, pluralizeCount(rep.TruncatedCount, "issue", "issues")+" truncated")
	}
	if len(parts) > 0 {
		fmt.Fprintf(r.w, "%s (%s):\n", pluralizeCount(total, "issue", "issues"), strings.Join(parts, "; "))
	} else {
		fmt.Fprintf(r.w, "%s:\n", pluralizeCount(total, "issue", "issues"))
	}

	for _, rc := range rep.ByRule() {
		fmt.Fprintf(r.w, "* %s: %d\n", rc.Rule, rc.Count)
	}

	if total > 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --output-format full to see statistics", r.useColors))
	}
}

func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
