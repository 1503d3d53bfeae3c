package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/ktop/internal/errors"
)

const (
	// LocalConfigFile is looked up in the working directory first.
	LocalConfigFile = "ktop.toml"
	// LocalConfigFileYAML is the YAML alternative in the working directory.
	LocalConfigFileYAML = "ktop.yaml"
	// GlobalConfigDir is the directory under $XDG_CONFIG_HOME for global config.
	GlobalConfigDir = "ktop"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.toml"
	// EnvPrefix prefixes environment overrides, e.g. KTOP_TICK_RATE_MS.
	EnvPrefix = "KTOP"
)

// Source says where the effective configuration came from.
type Source int

const (
	// SourceDefault means no config file was found.
	SourceDefault Source = iota
	// SourceFile means the config file was loaded.
	SourceFile
	// SourceFallback means a config file exists but could not be used, so
	// defaults apply.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceFallback:
		return "defaults (config invalid)"
	default:
		return "defaults"
	}
}

// Result describes how LoadOrDefault arrived at its configuration.
type Result struct {
	Source Source
	// Path is the file that was loaded or rejected; empty for SourceDefault.
	Path string
	// Err is the load failure behind SourceFallback.
	Err error
	// Warnings lists values that were replaced or dropped during normalization.
	Warnings []string
}

// Notice returns a one-line summary for the status bar, or "" when there
// is nothing to report.
func (r Result) Notice() string {
	if r.Source == SourceFallback {
		if r.Path == "" {
			return "KTOP_* environment overrides are invalid, using defaults"
		}
		return fmt.Sprintf("config %s is invalid, using defaults", filepath.Base(r.Path))
	}
	if len(r.Warnings) > 0 {
		return "config: " + r.Warnings[0]
	}
	return ""
}

// GlobalPath returns $XDG_CONFIG_HOME/ktop/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset. Returns "" if neither resolves.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, GlobalConfigDir, GlobalConfigFile)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. ktop.toml in the current directory
// 3. ktop.yaml in the current directory
// 4. $XDG_CONFIG_HOME/ktop/config.toml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	for _, name := range []string{LocalConfigFile, LocalConfigFileYAML} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	if global := GlobalPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Load reads config from path, applies KTOP_* environment overrides and
// normalizes the result. The returned warnings come from Normalize.
func Load(path string) (*Config, []string, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Run 'ktop init' to create a config file, or specify one with --config")
		}
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid TOML or YAML")
	}

	return parseConfig(v, path)
}

// LoadOrDefault finds and loads the config. It never fails: an absent file
// yields defaults with SourceDefault, and a file that can't be read or
// parsed yields defaults with SourceFallback and the error in Result.Err.
// Callers decide whether a fallback is fatal.
func LoadOrDefault(explicit string) (*Config, Result) {
	path, err := Find(explicit)
	if err != nil {
		return fallback(explicit, err)
	}

	if path == "" {
		cfg, warnings, err := parseConfig(newViper(), "")
		if err != nil {
			return fallback("", err)
		}
		return cfg, Result{Source: SourceDefault, Warnings: warnings}
	}

	cfg, warnings, err := Load(path)
	if err != nil {
		return fallback(path, err)
	}
	return cfg, Result{Source: SourceFile, Path: path, Warnings: warnings}
}

func fallback(path string, err error) (*Config, Result) {
	return DefaultConfig(), Result{Source: SourceFallback, Path: path, Err: err}
}

// newViper returns a viper instance with defaults and environment
// overrides registered. Keys map to KTOP_<KEY> with dots as underscores.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("tick_rate_ms", DefaultTickRateMs)
	v.SetDefault("git.interval_secs", DefaultGitIntervalSecs)
	v.SetDefault("git.repos", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, []string, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config values in "+where,
			"tick_rate_ms and git.interval_secs must be integers and git.repos a list of paths")
	}

	return cfg, Normalize(cfg), nil
}
