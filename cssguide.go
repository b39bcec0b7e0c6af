// Package cssguide checks CSS, SCSS and HTML-embedded styles against a style
// guide: selector formatting, BEM naming, property ordering, comment
// conventions, z-index bands, and quote and case normalization.
//
// # Linting files
//
//	cfg := cssguide.DefaultConfig()
//	res, err := cssguide.Lint(ctx, cfg, []string{"web/styles"})
//	if err != nil {
//		return err
//	}
//	if res.Report.Failed(cfg.FailOnSeverity()) {
//		os.Exit(1)
//	}
//
// # Linting a string
//
//	violations, err := cssguide.LintSource("card.scss", src, cfg)
//
// # CLI Tool
//
//	go install github.com/yacobolo/cssguide/cmd/cssguide@latest
package cssguide

import (
	"context"

	"go.uber.org/zap"

	"github.com/yacobolo/cssguide/internal/config"
	"github.com/yacobolo/cssguide/internal/report"
	"github.com/yacobolo/cssguide/internal/rules"
	"github.com/yacobolo/cssguide/internal/runner"
)

type (
	// Config is the linter configuration.
	Config = config.Config
	// Violation is one breach of a style rule.
	Violation = rules.Violation
	// Severity ranks violations.
	Severity = rules.Severity
	// Report is the sorted, merged result of a run.
	Report = report.Report
	// Stats describes file discovery.
	Stats = runner.Stats
)

// Severities
const (
	SeverityWarning = rules.SeverityWarning
	SeverityError   = rules.SeverityError
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return config.Default()
}

// Result is the outcome of Lint.
type Result struct {
	Report *Report
	Stats  Stats
}

type lintOptions struct {
	log        *zap.Logger
	gitignore  string
	useIgnores bool
}

// Option configures Lint.
type Option func(*lintOptions)

// WithLogger sets the logger used by every component.
func WithLogger(log *zap.Logger) Option {
	return func(o *lintOptions) { o.log = log }
}

// WithGitIgnore skips discovered files matched by the .gitignore at path.
func WithGitIgnore(path string) Option {
	return func(o *lintOptions) {
		o.gitignore = path
		o.useIgnores = true
	}
}

// Lint lints every file named by paths. A path may be a file, a directory or
// a doublestar glob. The configuration is validated before any file is read.
// Problems in the inputs are reported as violations. Lint returns an error
// only for an invalid configuration, a bad glob or a cancelled context.
func Lint(ctx context.Context, cfg Config, paths []string, opts ...Option) (*Result, error) {
	o := lintOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	r, err := newRunner(cfg, o)
	if err != nil {
		return nil, err
	}

	results, stats, err := r.Run(ctx, paths)
	if err != nil {
		return nil, err
	}
	return &Result{Report: report.New(results), Stats: stats}, nil
}

// LintSource lints src as if it were read from filename. The extension picks
// the dialect.
func LintSource(filename, src string, cfg Config) ([]Violation, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	sheetResult := runner.New(rules.NewEngine(opts, nil)).LintSource(filename, src)
	return sheetResult.Violations, nil
}

// Passed reports whether no violation reaches the failOn threshold.
func Passed(violations []Violation, failOn Severity) bool {
	for _, v := range violations {
		if v.Severity.AtLeast(failOn) {
			return false
		}
	}
	return true
}

func newRunner(cfg Config, o lintOptions) (*runner.Runner, error) {
	engineOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	runOpts := []runner.Option{
		runner.WithWorkers(cfg.Workers),
		runner.WithLogger(o.log),
	}
	if o.useIgnores {
		gi, err := runner.LoadGitIgnore(o.gitignore)
		if err != nil {
			return nil, err
		}
		runOpts = append(runOpts, runner.WithGitIgnore(gi))
	}

	return runner.New(rules.NewEngine(engineOpts, o.log), runOpts...), nil
}
