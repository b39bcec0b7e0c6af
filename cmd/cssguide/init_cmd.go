package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yacobolo/cssguide/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssguide.yaml config file",
	Long:  `Create a .cssguide.yaml configuration file in the current directory with the built-in defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		data, err := defaultConfig()
		if err != nil {
			return err
		}
		if err := os.WriteFile(defaultConfigPath, data, 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigPath)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}

// fileConfig is the layout of .cssguide.yaml.
type fileConfig struct {
	Verbose bool        `yaml:"verbose"`
	Color   bool        `yaml:"color"`
	Lint    lintSection `yaml:"lint"`
}

type lintSection struct {
	config.Config `yaml:",inline"`

	Paths            []string `yaml:"paths"`
	OutputFormat     string   `yaml:"output-format"`
	MaxIssuesPerRule int      `yaml:"max-issues-per-rule"`
	MaxSameIssues    int      `yaml:"max-same-issues"`
	PrintLines       bool     `yaml:"print-lines"`
	PrintRuleName    bool     `yaml:"print-rule-name"`
	RespectGitignore bool     `yaml:"respect-gitignore"`
}

const configHeader = `# cssguide configuration
# Precedence: flags > CSSGUIDE_* environment variables > this file > defaults.
# Property groups: position | box | typography | decoration.
# Patterns ending in "*" match every property with that prefix.
`

func defaultConfig() ([]byte, error) {
	cfg := config.Default()
	cfg.PropertyGroups = map[string]string{"aspect-ratio": "box"}

	fc := fileConfig{
		Lint: lintSection{
			Config:           cfg,
			Paths:            []string{"."},
			OutputFormat:     "issues",
			PrintLines:       true,
			PrintRuleName:    true,
			RespectGitignore: true,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	return buf.Bytes(), nil
}
