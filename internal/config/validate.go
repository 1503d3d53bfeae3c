package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Normalize repairs cfg in place and returns a warning for every value it
// replaced or dropped:
//   - tick_rate_ms and git.interval_secs that are not positive get their defaults
//   - repo paths are trimmed and expanded (see ExpandPath)
//   - empty repo entries are dropped
//   - duplicate repo paths are dropped, keeping the first
func Normalize(cfg *Config) []string {
	var warnings []string

	if cfg.TickRateMs <= 0 {
		warnings = append(warnings, fmt.Sprintf("tick_rate_ms must be positive (got %d), using %d",
			cfg.TickRateMs, DefaultTickRateMs))
		cfg.TickRateMs = DefaultTickRateMs
	}
	if cfg.Git.IntervalSecs <= 0 {
		warnings = append(warnings, fmt.Sprintf("git.interval_secs must be positive (got %d), using %d",
			cfg.Git.IntervalSecs, DefaultGitIntervalSecs))
		cfg.Git.IntervalSecs = DefaultGitIntervalSecs
	}

	repos, repoWarnings := normalizeRepos(cfg.Git.Repos)
	cfg.Git.Repos = repos
	return append(warnings, repoWarnings...)
}

func normalizeRepos(in []string) ([]string, []string) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	var warnings []string

	for i, raw := range in {
		if strings.TrimSpace(raw) == "" {
			warnings = append(warnings, fmt.Sprintf("git.repos[%d] is empty, skipping", i))
			continue
		}
		path := ExpandPath(raw)
		key := filepath.Clean(path)
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("git.repos lists %s more than once", path))
			continue
		}
		seen[key] = true
		out = append(out, path)
	}
	return out, warnings
}
