package report

import (
	"fmt"
	"io"
	"strings"
)

// Format is an output format.
type Format string

// Output formats
const (
	FormatIssues   Format = "issues"   // golangci-lint style lines
	FormatSummary  Format = "summary"  // statistics only
	FormatFull     Format = "full"     // issues and statistics
	FormatJSON     Format = "json"     // machine readable envelope
	FormatMarkdown Format = "markdown" // shareable report
)

// Formats lists every output format.
func Formats() []Format {
	return []Format{FormatIssues, FormatSummary, FormatFull, FormatJSON, FormatMarkdown}
}

// DetermineFormat maps a flag value to a format. Quiet mode and unknown
// values fall back to issues.
func DetermineFormat(flag string, quiet bool) Format {
	if quiet {
		return FormatIssues
	}
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "summary":
		return FormatSummary
	case "full":
		return FormatFull
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	default:
		return FormatIssues
	}
}

// Options controls rendering.
type Options struct {
	Format        Format
	UseColors     bool
	PrintLines    bool
	PrintRuleName bool
}

// Write renders rep to w in the requested format.
func Write(w io.Writer, rep *Report, opts Options) error {
	switch opts.Format {
	case FormatIssues, "":
		r := NewReporter(w, opts)
		r.PrintIssues(rep.Issues)
		r.PrintSummary(rep)

	case FormatSummary:
		s := NewStatsReporter(w, opts.UseColors)
		s.PrintStatistics(rep)
		s.PrintCleanProgress(rep)
		s.PrintTopRules(rep)

	case FormatFull:
		r := NewReporter(w, opts)
		r.PrintIssues(rep.Issues)
		r.PrintSummary(rep)

		s := NewStatsReporter(w, opts.UseColors)
		s.PrintStatistics(rep)
		s.PrintCleanProgress(rep)
		s.PrintTopRules(rep)

	case FormatJSON:
		if err := WriteJSON(w, rep); err != nil {
			return fmt.Errorf("write json: %w", err)
		}

	case FormatMarkdown:
		if err := WriteMarkdown(w, rep); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}

	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
	return nil
}
