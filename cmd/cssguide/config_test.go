package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/cssguide/internal/config"
	"github.com/yacobolo/cssguide/internal/rules"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), defaultConfigPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	path := writeConfig(t, `
verbose: true
lint:
  fail-on: warning
  max-nesting-depth: 2
  workers: 4
  disable:
    - final-newline
  property-groups:
    gap: box
    "grid-*": position
  z-index-bands:
    - name: base
      min: 1
      max: 10
    - name: overlay
      min: 11
      max: 20
  output-format: json
  max-same-issues: 3
`)
	require.NoError(t, loadConfigFromPath(path))

	cfg, err := buildConfig()
	require.NoError(t, err)

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "warning", cfg.FailOn)
	assert.Equal(t, 2, cfg.MaxNestingDepth)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"final-newline"}, cfg.Disabled)
	assert.Equal(t, map[string]string{"gap": "box", "grid-*": "position"}, cfg.PropertyGroups)
	assert.Equal(t, []rules.Band{
		{Name: "base", Min: 1, Max: 10},
		{Name: "overlay", Min: 11, Max: 20},
	}, cfg.ZIndexBands)
	require.NoError(t, cfg.Validate())

	out := buildOutputSettings()
	assert.Equal(t, "json", out.Format)
	assert.Equal(t, 3, out.MaxSameIssues)
	assert.True(t, out.PrintLines)
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	require.NoError(t, loadConfigFromPath("/nonexistent/.cssguide.yaml"))

	cfg, err := buildConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	out := buildOutputSettings()
	assert.Equal(t, "issues", out.Format)
	assert.True(t, out.Gitignore)
	assert.Equal(t, "stdin.css", out.StdinFilename)
	assert.Equal(t, []string{"."}, lintPaths(nil))
}

func TestConfigFileInvalidYAML(t *testing.T) {
	resetKoanf()
	path := writeConfig(t, "lint: [unclosed\n")
	assert.Error(t, loadConfigFromPath(path))
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	path := writeConfig(t, `
lint:
  fail-on: error
  max-nesting-depth: 1
`)
	t.Setenv("CSSGUIDE_LINT_FAIL_ON", "warning")
	t.Setenv("CSSGUIDE_LINT_MAX_NESTING_DEPTH", "3")
	t.Setenv("CSSGUIDE_LINT_DISABLE", "final-newline,quote-style")

	require.NoError(t, loadConfigFromPath(path))

	cfg, err := buildConfig()
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.FailOn)
	assert.Equal(t, 3, cfg.MaxNestingDepth)
	assert.Equal(t, []string{"final-newline", "quote-style"}, cfg.Disabled)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CSSGUIDE_VERBOSE", "verbose"},
		{"CSSGUIDE_LINT_FAIL_ON", "lint.fail-on"},
		{"CSSGUIDE_LINT_MAX_ISSUES_PER_RULE", "lint.max-issues-per-rule"},
		{"CSSGUIDE_LINT_WORKERS", "lint.workers"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().String("fail-on", "error", "")
	cmd.Flags().Int("max-nesting-depth", 1, "")
	cmd.Flags().StringSlice("enable", nil, "")
	return cmd
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	resetKoanf()

	path := writeConfig(t, `
lint:
  fail-on: warning
  max-nesting-depth: 4
`)
	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, cmd.Flags().Set("max-nesting-depth", "2"))
	require.NoError(t, cmd.Flags().Set("enable", "bem-name,id-selector"))

	require.NoError(t, loadConfig(cmd))

	cfg, err := buildConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxNestingDepth, "explicit flag wins")
	assert.Equal(t, "warning", cfg.FailOn, "unset flag default does not override the file")
	assert.Equal(t, []string{"bem-name", "id-selector"}, cfg.Enabled)
	assert.False(t, k.Bool("quiet"))
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	resetKoanf()

	data, err := defaultConfig()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# cssguide configuration"))

	path := writeConfig(t, string(data))
	require.NoError(t, loadConfigFromPath(path))

	cfg, err := buildConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	want := config.Default()
	assert.Equal(t, want.ZIndexBands, cfg.ZIndexBands)
	assert.Equal(t, want.MaxNestingDepth, cfg.MaxNestingDepth)
	assert.Equal(t, "box", cfg.PropertyGroups["aspect-ratio"])
	assert.Equal(t, []string{"."}, lintPaths(nil))
}

func TestRunLint(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("ok.css", []byte(".ok {\n  top: 0;\n}\n"), 0o644))
	require.NoError(t, os.WriteFile("bad.css", []byte(".a {\n  color: red\n\n"), 0o644))

	tests := []struct {
		name     string
		paths    []string
		wantExit bool
		wantOut  string
	}{
		{name: "clean", paths: []string{"ok.css"}, wantOut: "No issues in 1 file."},
		{name: "errors fail", paths: []string{"bad.css"}, wantExit: true, wantOut: "(unbalanced-braces)"},
		{name: "missing file fails", paths: []string{"gone.css"}, wantExit: true, wantOut: "(file-unreadable)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetKoanf()
			require.NoError(t, loadConfigFromPath(defaultConfigPath))

			var buf bytes.Buffer
			err := runLint(context.Background(), &buf, strings.NewReader(""), tt.paths)

			if tt.wantExit {
				var exit *exitError
				require.True(t, errors.As(err, &exit), "got %v", err)
				assert.Equal(t, 1, exit.code)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestRunLint_FailOnWarning(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("warn.css", []byte(".a {\n  margin: 0.5em;\n}\n"), 0o644))

	resetKoanf()
	require.NoError(t, loadConfigFromPath(defaultConfigPath))
	var buf bytes.Buffer
	require.NoError(t, runLint(context.Background(), &buf, nil, []string{"warn.css"}))

	resetKoanf()
	t.Setenv("CSSGUIDE_LINT_FAIL_ON", "warning")
	require.NoError(t, loadConfigFromPath(defaultConfigPath))
	err := runLint(context.Background(), &buf, nil, []string{"warn.css"})
	var exit *exitError
	assert.True(t, errors.As(err, &exit))
}

func TestRunLint_Stdin(t *testing.T) {
	t.Chdir(t.TempDir())
	resetKoanf()
	t.Setenv("CSSGUIDE_LINT_STDIN_FILENAME", "input.scss")
	t.Setenv("CSSGUIDE_LINT_OUTPUT_FORMAT", "json")
	require.NoError(t, loadConfigFromPath(defaultConfigPath))

	var buf bytes.Buffer
	err := runLint(context.Background(), &buf, strings.NewReader(".card {\n  margin: 0.5em;\n}\n"), []string{"-"})
	require.NoError(t, err, "leading-zero is a warning")
	assert.Contains(t, buf.String(), `"file": "input.scss"`)
	assert.Contains(t, buf.String(), `"rule": "leading-zero"`)
}

func TestRunLint_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	resetKoanf()
	t.Setenv("CSSGUIDE_LINT_ENABLE", "no-such-rule")
	require.NoError(t, loadConfigFromPath(defaultConfigPath))

	err := runLint(context.Background(), &bytes.Buffer{}, nil, []string{"."})
	assert.ErrorContains(t, err, `unknown rule "no-such-rule"`)
}

func TestPrintRules(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRules(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "RULE"))
	for _, id := range rules.IDs() {
		assert.Contains(t, out, id)
	}
}
