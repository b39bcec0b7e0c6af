package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/cssguide/internal/config"
)

const defaultConfigPath = ".cssguide.yaml"

var k = koanf.New(".")

// globalFlags stay at the top level of the config tree. Every other flag
// lives under "lint.".
var globalFlags = map[string]bool{
	"verbose": true,
	"quiet":   true,
	"color":   true,
	"config":  true,
}

// envSections are config sections addressable from the environment.
var envSections = []string{"lint"}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Flag defaults only fill keys that no file or env value set.
	if err := k.Load(posflag.ProviderWithFlag(cmd.Flags(), ".", k, flagKey(cmd.Flags())), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

func flagKey(fs *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if f.Name == "config" || f.Name == "help" {
			return "", nil
		}
		key := f.Name
		if !globalFlags[key] {
			key = "lint." + key
		}
		return key, posflag.FlagVal(fs, f)
	}
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("CSSGUIDE_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key:
//
//	CSSGUIDE_LINT_FAIL_ON -> lint.fail-on
//	CSSGUIDE_VERBOSE      -> verbose
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "CSSGUIDE_"))
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(s, section+"_"); ok {
			return section + "." + strings.ReplaceAll(rest, "_", "-")
		}
	}
	return strings.ReplaceAll(s, "_", "-")
}

// buildConfig decodes the "lint" section over the built-in defaults.
func buildConfig() (config.Config, error) {
	cfg := config.Default()
	if err := k.UnmarshalWithConf("lint", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	// Comma separated env values arrive as a single string.
	cfg.Enabled = splitList(cfg.Enabled)
	cfg.Disabled = splitList(cfg.Disabled)
	return cfg, nil
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// outputSettings controls rendering and is not part of the lint config.
type outputSettings struct {
	Format           string
	Quiet            bool
	Color            bool
	PrintLines       bool
	PrintRuleName    bool
	MaxIssuesPerRule int
	MaxSameIssues    int
	Gitignore        bool
	StdinFilename    string
}

func buildOutputSettings() outputSettings {
	return outputSettings{
		Format:           getString("lint.output-format", "issues"),
		Quiet:            getBool("quiet", false),
		Color:            getBool("color", false),
		PrintLines:       getBool("lint.print-lines", true),
		PrintRuleName:    getBool("lint.print-rule-name", true),
		MaxIssuesPerRule: getInt("lint.max-issues-per-rule", 0),
		MaxSameIssues:    getInt("lint.max-same-issues", 0),
		Gitignore:        getBool("lint.respect-gitignore", true),
		StdinFilename:    getString("lint.stdin-filename", "stdin.css"),
	}
}

// lintPaths returns the positional arguments, falling back to lint.paths
// from the config and then the current directory.
func lintPaths(args []string) []string {
	if len(args) > 0 {
		return args
	}
	if paths := k.Strings("lint.paths"); len(paths) > 0 {
		return paths
	}
	return []string{"."}
}

func getString(key, defaultVal string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if k.Exists(key) {
		return k.Int(key)
	}
	return defaultVal
}
