package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/ktop/internal/config"
	"github.com/rileyhilliard/ktop/internal/util"
)

// ConfigFileCheck reports which config file would be loaded.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(_ context.Context) CheckResult {
	_, res := config.LoadOrDefault(c.ConfigPath)

	switch res.Source {
	case config.SourceFallback:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    res.Notice(),
			Suggestion: errorText(res.Err),
		}
	case config.SourceDefault:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'ktop init' to create one, or use --fix to write the defaults to " + config.GlobalPath(),
			Fixable:    config.GlobalPath() != "",
		}
	default:
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Config file: " + res.Path,
		}
	}
}

// Fix writes the default configuration to the global config path when no
// config file exists yet.
func (c *ConfigFileCheck) Fix() error {
	path := config.GlobalPath()
	if path == "" {
		return fmt.Errorf("cannot determine the global config directory")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return config.Save(path, config.DefaultConfig())
}

// ConfigValuesCheck reports the effective settings and any values that
// normalization replaced or dropped.
type ConfigValuesCheck struct {
	ConfigPath string
}

func (c *ConfigValuesCheck) Name() string     { return "config_values" }
func (c *ConfigValuesCheck) Category() string { return CategoryConfig }

func (c *ConfigValuesCheck) Run(_ context.Context) CheckResult {
	cfg, res := config.LoadOrDefault(c.ConfigPath)

	if len(res.Warnings) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    util.CountNoun(len(res.Warnings), "config value", "config values") + " adjusted",
			Suggestion: strings.Join(res.Warnings, "\n"),
		}
	}

	n := len(cfg.Git.Repos)
	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("Redraw every %s, repositories every %s, %s",
			cfg.TickRate(), cfg.GitInterval(), util.CountNoun(n, "repository", "repositories")),
	}
}

func (c *ConfigValuesCheck) Fix() error {
	return nil // Values need a human decision
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigValuesCheck{ConfigPath: configPath},
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
