package report

import (
	"fmt"
	"io"

	"github.com/yacobolo/cssguide/internal/rules"
)

// StatsReporter prints run statistics and the most frequent rules.
type StatsReporter struct {
	w         io.Writer
	useColors bool
}

// NewStatsReporter creates a statistics reporter.
func NewStatsReporter(w io.Writer, useColors bool) *StatsReporter {
	return &StatsReporter{w: w, useColors: useColors}
}

// PrintStatistics prints file and severity totals.
func (r *StatsReporter) PrintStatistics(rep *Report) {
	errs, warnings := rep.Counts()

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Style Guide Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------------")
	fmt.Fprintf(r.w, "Files Scanned:     %d\n", rep.FilesScanned)
	fmt.Fprintf(r.w, "Files With Issues: %d\n", rep.FilesWithIssue)
	fmt.Fprintf(r.w, "Errors:            %d\n", errs)
	fmt.Fprintf(r.w, "Warnings:          %d\n", warnings)
	if rep.TruncatedCount > 0 {
		fmt.Fprintf(r.w, "Truncated:         %d\n", rep.TruncatedCount)
	}
}

// PrintCleanProgress shows the share of files without issues.
func (r *StatsReporter) PrintCleanProgress(rep *Report) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Clean Files", r.useColors))
	fmt.Fprintln(r.w, "-----------")
	printProgressBar(r.w, cleanPercentage(rep))
}

// PrintTopRules lists the rules with the most issues and how to fix them.
func (r *StatsReporter) PrintTopRules(rep *Report) {
	counts := rep.ByRule()
	if len(counts) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Top Rules", r.useColors))
	fmt.Fprintln(r.w, "---------")

	for i, rc := range counts {
		if i >= 10 {
			break
		}
		desc := ""
		if def, ok := rules.Lookup(rc.Rule); ok {
			desc = def.Description
		}
		fmt.Fprintf(r.w, "%d. %s - %s → %s\n",
			i+1, rc.Rule, pluralizeCount(rc.Count, "occurrence", "occurrences"), desc)
	}
}

func cleanPercentage(rep *Report) float64 {
	if rep.FilesScanned == 0 {
		return 100
	}
	clean := rep.FilesScanned - rep.FilesWithIssue
	return float64(clean) / float64(rep.FilesScanned) * 100
}

func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}
