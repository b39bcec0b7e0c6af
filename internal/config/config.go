// Package config holds the linter configuration model, its defaults and
// validation.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/yacobolo/cssguide/internal/order"
	"github.com/yacobolo/cssguide/internal/rules"
)

// Config is the full linter configuration.
type Config struct {
	MaxNestingDepth int `koanf:"max-nesting-depth" yaml:"max-nesting-depth"`
	// PropertyGroups maps a property, or a prefix pattern ending in "*", to a
	// group name. Entries are merged over the built-in table.
	PropertyGroups map[string]string `koanf:"property-groups" yaml:"property-groups,omitempty"`
	ZIndexBands    []rules.Band      `koanf:"z-index-bands" yaml:"z-index-bands"`
	// Enabled limits the run to these rules. Empty means all rules.
	Enabled  []string `koanf:"enable" yaml:"enable,omitempty"`
	Disabled []string `koanf:"disable" yaml:"disable,omitempty"`
	FailOn   string   `koanf:"fail-on" yaml:"fail-on"`
	// Workers is the number of files linted in parallel. 0 uses GOMAXPROCS.
	Workers int `koanf:"workers" yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxNestingDepth: 1,
		ZIndexBands:     rules.DefaultBands(),
		FailOn:          rules.SeverityError.String(),
	}
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	var err error

	if c.MaxNestingDepth < 0 {
		err = multierr.Append(err, fmt.Errorf("max-nesting-depth must not be negative, got %d", c.MaxNestingDepth))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, perr := rules.ParseSeverity(c.FailOn); perr != nil {
		err = multierr.Append(err, fmt.Errorf("fail-on: %w", perr))
	}

	for _, id := range c.Enabled {
		if _, ok := rules.Lookup(id); !ok {
			err = multierr.Append(err, fmt.Errorf("enable: unknown rule %q", id))
		}
	}
	for _, id := range c.Disabled {
		if _, ok := rules.Lookup(id); !ok {
			err = multierr.Append(err, fmt.Errorf("disable: unknown rule %q", id))
		}
	}

	for _, pattern := range sortedKeys(c.PropertyGroups) {
		if strings.TrimSpace(strings.TrimSuffix(pattern, "*")) == "" {
			err = multierr.Append(err, errors.New("property-groups: empty property pattern"))
			continue
		}
		if _, gerr := order.ParseGroup(c.PropertyGroups[pattern]); gerr != nil {
			err = multierr.Append(err, fmt.Errorf("property-groups[%s]: %w", pattern, gerr))
		}
	}

	if len(c.ZIndexBands) == 0 {
		err = multierr.Append(err, errors.New("z-index-bands: at least one band is required"))
	}
	for i, b := range c.ZIndexBands {
		if b.Name == "" {
			err = multierr.Append(err, fmt.Errorf("z-index-bands[%d]: name is required", i))
		}
		if b.Min > b.Max {
			err = multierr.Append(err, fmt.Errorf("z-index-bands[%d] (%s): min %d is above max %d", i, b.Name, b.Min, b.Max))
		}
	}

	return err
}

// FailOnSeverity returns the exit threshold. Call Validate first.
func (c Config) FailOnSeverity() rules.Severity {
	s, err := rules.ParseSeverity(c.FailOn)
	if err != nil {
		return rules.SeverityError
	}
	return s
}

// Options validates the configuration and converts it into engine options.
func (c Config) Options() (rules.Options, error) {
	if err := c.Validate(); err != nil {
		return rules.Options{}, err
	}

	overrides := make(map[string]order.Group, len(c.PropertyGroups))
	for pattern, name := range c.PropertyGroups {
		g, _ := order.ParseGroup(name)
		overrides[pattern] = g
	}

	return rules.Options{
		MaxNestingDepth: c.MaxNestingDepth,
		Order:           order.Merge(order.DefaultGroups, overrides),
		ZIndexBands:     append([]rules.Band(nil), c.ZIndexBands...),
		Enabled:         append([]string(nil), c.Enabled...),
		Disabled:        append([]string(nil), c.Disabled...),
	}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
