package config

import "time"

// Defaults applied when a field is absent or not positive.
const (
	DefaultTickRateMs      = 250
	DefaultGitIntervalSecs = 5
)

// Config represents the ktop configuration file.
type Config struct {
	// TickRateMs is the redraw timer period in milliseconds.
	TickRateMs int       `yaml:"tick_rate_ms" toml:"tick_rate_ms" json:"tick_rate_ms" mapstructure:"tick_rate_ms"`
	Git        GitConfig `yaml:"git" toml:"git" json:"git" mapstructure:"git"`
}

// GitConfig controls the repository panel.
type GitConfig struct {
	// IntervalSecs is the repository polling period in seconds.
	IntervalSecs int `yaml:"interval_secs" toml:"interval_secs" json:"interval_secs" mapstructure:"interval_secs"`

	// Repos are working-tree paths to watch. Supports ~ and $VAR expansion.
	// Empty disables the repository source.
	Repos []string `yaml:"repos" toml:"repos" json:"repos" mapstructure:"repos"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		TickRateMs: DefaultTickRateMs,
		Git: GitConfig{
			IntervalSecs: DefaultGitIntervalSecs,
			Repos:        []string{},
		},
	}
}

// TickRate returns the redraw period.
func (c *Config) TickRate() time.Duration {
	return time.Duration(c.TickRateMs) * time.Millisecond
}

// GitInterval returns the repository polling period.
func (c *Config) GitInterval() time.Duration {
	return time.Duration(c.Git.IntervalSecs) * time.Second
}
