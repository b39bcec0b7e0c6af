package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/cssguide/internal/config"
	"github.com/yacobolo/cssguide/internal/report"
	"github.com/yacobolo/cssguide/internal/rules"
	"github.com/yacobolo/cssguide/internal/runner"
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Lint stylesheets against the style guide",
	Long: `Lint CSS, SCSS and HTML files. Paths may be files, directories or
doublestar globs such as "web/**/*.scss". Use "-" to read from stdin.

Exit status is 1 when any violation reaches --fail-on.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), lintPaths(args))
	},
}

func init() {
	defaults := config.Default()

	f := lintCmd.Flags()
	f.String("output-format", "issues", "Output format: issues|summary|full|json|markdown")
	f.String("fail-on", defaults.FailOn, "Lowest severity that fails the run: error|warning")
	f.Int("max-nesting-depth", defaults.MaxNestingDepth, "Maximum selector nesting depth")
	f.StringSlice("enable", nil, "Run only these rules")
	f.StringSlice("disable", nil, "Skip these rules")
	f.Int("workers", 0, "Files linted in parallel (0=GOMAXPROCS)")
	f.Int("max-issues-per-rule", 0, "Max issues to show per rule (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-rule-name", true, "Show (rule-id) suffix on issues")
	f.Bool("respect-gitignore", true, "Skip files matched by ./.gitignore when walking")
	f.String("stdin-filename", "stdin.css", "Filename used for stdin input; its extension picks the dialect")
}

func runLint(ctx context.Context, stdout io.Writer, stdin io.Reader, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	out := buildOutputSettings()
	log := newLogger(getBool("verbose", false), out.Quiet)
	defer func() { _ = log.Sync() }()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	engineOpts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	runOpts := []runner.Option{
		runner.WithWorkers(cfg.Workers),
		runner.WithLogger(log),
	}
	if out.Gitignore {
		gi, err := runner.LoadGitIgnore(".gitignore")
		if err != nil {
			return err
		}
		runOpts = append(runOpts, runner.WithGitIgnore(gi))
	}
	r := runner.New(rules.NewEngine(engineOpts, log), runOpts...)

	var (
		results []runner.Result
		files   []string
	)
	for _, p := range paths {
		if p == "-" {
			results = append(results, r.LintReader(out.StdinFilename, stdin))
			continue
		}
		files = append(files, p)
	}
	if len(files) > 0 {
		fileResults, stats, err := r.Run(ctx, files)
		if err != nil {
			return err
		}
		log.Debug("lint finished",
			zap.Int("files", stats.FilesLinted),
			zap.Int("skipped", stats.FilesSkipped))
		results = append(results, fileResults...)
	}

	rep := report.New(results)
	failed := rep.Failed(cfg.FailOnSeverity())

	if !out.Quiet {
		shown := rep.Limit(out.MaxIssuesPerRule, out.MaxSameIssues)
		opts := report.Options{
			Format:        report.DetermineFormat(out.Format, out.Quiet),
			UseColors:     report.ShouldUseColors(out.Color),
			PrintLines:    out.PrintLines,
			PrintRuleName: out.PrintRuleName,
		}
		if opts.Format == report.FormatJSON || opts.Format == report.FormatMarkdown {
			opts.UseColors = false
		}
		if err := report.Write(stdout, shown, opts); err != nil {
			return err
		}
	}

	if failed {
		return &exitError{code: 1}
	}
	return nil
}
