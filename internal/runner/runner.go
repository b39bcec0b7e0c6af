// Package runner discovers stylesheet files and lints them in parallel.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/cssguide/internal/parser"
	"github.com/yacobolo/cssguide/internal/rules"
)

// Extensions lists the file extensions picked up when walking a directory.
var Extensions = []string{"css", "scss", "sass", "html", "htm"}

// Result holds the violations of one file.
type Result struct {
	File       string
	Source     string
	Violations []rules.Violation
}

// Stats tracks file discovery.
type Stats struct {
	FilesDiscovered int // every file matched by an input
	FilesLinted     int // files handed to the engine
	FilesSkipped    int // files excluded by .gitignore
}

// Runner lints files with a shared engine. It is safe for concurrent use.
type Runner struct {
	engine  *rules.Engine
	parser  *parser.Parser
	workers int
	ignore  *ignore.GitIgnore
	log     *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of files linted at once. Values below 1 use
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithGitIgnore skips discovered files matched by gi. Explicitly named files
// are always linted.
func WithGitIgnore(gi *ignore.GitIgnore) Option {
	return func(r *Runner) { r.ignore = gi }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a runner around engine.
func New(engine *rules.Engine, opts ...Option) *Runner {
	r := &Runner{engine: engine, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	r.log = r.log.Named("runner")
	r.parser = parser.NewParser(r.log)
	return r
}

// LoadGitIgnore compiles the .gitignore file at path. A missing file is not
// an error and yields nil.
func LoadGitIgnore(path string) (*ignore.GitIgnore, error) {
	gi, err := ignore.CompileIgnoreFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return gi, nil
}

// Discover expands inputs into a deduplicated file list. An input may be a
// directory (walked for stylesheet extensions), a file, or a doublestar
// glob. A plain path that does not exist is kept so that reading it reports
// the file as unreadable.
func (r *Runner) Discover(inputs []string) ([]string, Stats, error) {
	var (
		files []string
		stats Stats
		seen  = make(map[string]bool)
	)

	add := func(path string, explicit bool) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true
		stats.FilesDiscovered++
		if !explicit && r.ignored(path) {
			stats.FilesSkipped++
			r.log.Debug("skipping ignored file", zap.String("file", path))
			return
		}
		files = append(files, path)
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		switch {
		case err == nil && info.IsDir():
			pattern := filepath.Join(input, "**", "*.{"+strings.Join(Extensions, ",")+"}")
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, stats, fmt.Errorf("walk %s: %w", input, err)
			}
			for _, m := range matches {
				add(m, false)
			}

		case err == nil:
			add(input, true)

		case hasMeta(input):
			if !doublestar.ValidatePathPattern(input) {
				return nil, stats, fmt.Errorf("invalid glob pattern %q: %w", input, doublestar.ErrBadPattern)
			}
			matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
			if err != nil {
				return nil, stats, fmt.Errorf("expand %s: %w", input, err)
			}
			for _, m := range matches {
				add(m, false)
			}

		default:
			add(input, true)
		}
	}

	stats.FilesLinted = len(files)
	return files, stats, nil
}

// Run discovers the inputs and lints every file. Results are in discovery
// order. Unreadable files yield a file-unreadable violation unless that rule
// is disabled. Run only fails
// on a bad input pattern or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, inputs []string) ([]Result, Stats, error) {
	files, stats, err := r.Discover(inputs)
	if err != nil {
		return nil, stats, err
	}
	r.log.Debug("discovered files",
		zap.Int("files", len(files)),
		zap.Int("skipped", stats.FilesSkipped),
		zap.Int("workers", r.workers))

	results, err := r.LintFiles(ctx, files)
	return results, stats, err
}

// LintFiles lints files in parallel. Each worker writes only its own slot of
// the result slice.
func (r *Runner) LintFiles(ctx context.Context, files []string) ([]Result, error) {
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.lintFile(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lint cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lint cancelled: %w", err)
	}
	return results, nil
}

func (r *Runner) lintFile(file string) Result {
	data, err := os.ReadFile(file)
	if err != nil {
		r.log.Debug("cannot read file", zap.String("file", file), zap.Error(err))
		return r.unreadable(file, err)
	}
	return r.LintSource(file, string(data))
}

// LintSource lints an in-memory source. The filename picks the dialect.
func (r *Runner) LintSource(filename, src string) Result {
	sheet := r.parser.Parse(filename, src)
	violations := r.engine.Check(sheet)
	r.log.Debug("linted file",
		zap.String("file", filename),
		zap.Stringer("dialect", sheet.Dialect),
		zap.Int("violations", len(violations)))
	return Result{File: filename, Source: src, Violations: violations}
}

// LintReader lints everything read from rd under the given filename.
func (r *Runner) LintReader(filename string, rd io.Reader) Result {
	data, err := io.ReadAll(rd)
	if err != nil {
		return r.unreadable(filename, err)
	}
	return r.LintSource(filename, string(data))
}

func (r *Runner) unreadable(file string, err error) Result {
	res := Result{File: file}
	if r.engine.Enabled(rules.FileUnreadable) {
		res.Violations = []rules.Violation{rules.Unreadable(file, err)}
	}
	return res
}

func (r *Runner) ignored(path string) bool {
	if r.ignore == nil || filepath.IsAbs(path) {
		return false
	}
	return r.ignore.MatchesPath(filepath.ToSlash(path))
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
