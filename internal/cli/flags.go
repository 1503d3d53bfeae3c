package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/ktop/internal/config"
	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/logger"
)

// DashboardFlags override config values for a single dashboard run.
type DashboardFlags struct {
	TickRateMs      int
	GitIntervalSecs int
	Repos           []string
}

var dashFlags DashboardFlags

// AddDashboardFlags registers --tick-rate, --git-interval and --repo on a command.
func AddDashboardFlags(cmd *cobra.Command, flags *DashboardFlags) {
	cmd.Flags().IntVar(&flags.TickRateMs, "tick-rate", config.DefaultTickRateMs, "redraw period in milliseconds")
	cmd.Flags().IntVar(&flags.GitIntervalSecs, "git-interval", config.DefaultGitIntervalSecs, "repository polling period in seconds")
	cmd.Flags().StringArrayVar(&flags.Repos, "repo", nil, "repository to watch, repeatable (replaces git.repos)")
}

// Apply copies every flag the user set onto cfg. changed reports whether a
// flag was given on the command line. Repo paths are normalized the same
// way as config values and any resulting warnings are returned.
func (f DashboardFlags) Apply(cfg *config.Config, changed func(name string) bool) ([]string, error) {
	if changed("tick-rate") {
		if f.TickRateMs <= 0 {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("--tick-rate must be positive, got %d", f.TickRateMs),
				fmt.Sprintf("Try the default, %d", config.DefaultTickRateMs))
		}
		cfg.TickRateMs = f.TickRateMs
	}
	if changed("git-interval") {
		if f.GitIntervalSecs <= 0 {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("--git-interval must be positive, got %d", f.GitIntervalSecs),
				fmt.Sprintf("Try the default, %d", config.DefaultGitIntervalSecs))
		}
		cfg.Git.IntervalSecs = f.GitIntervalSecs
	}
	if changed("repo") {
		cfg.Git.Repos = append([]string(nil), f.Repos...)
	}
	return config.Normalize(cfg), nil
}

// loadConfig resolves the effective configuration: file and environment,
// then command-line overrides. A config that can't be used falls back to
// defaults with a warning, unless --strict-config is set.
func loadConfig(cmd *cobra.Command, log logger.Logger) (*config.Config, config.Result, error) {
	cfg, res := config.LoadOrDefault(cfgFile)

	if res.Source == config.SourceFallback {
		if strictConfig {
			return nil, res, res.Err
		}
		log.Warn("%s (%s)", res.Notice(), shortError(res.Err))
	}
	for _, w := range res.Warnings {
		log.Warn("config: %s", w)
	}

	warnings, err := dashFlags.Apply(cfg, cmd.Flags().Changed)
	if err != nil {
		return nil, res, err
	}
	for _, w := range warnings {
		log.Warn("flags: %s", w)
	}

	log.Debug("config from %s: tick %s, git every %s, %d repo(s)",
		res.Source, cfg.TickRate(), cfg.GitInterval(), len(cfg.Git.Repos))
	return cfg, res, nil
}
