package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}

	return path
}

// ExpandPath trims whitespace, expands $VAR and ${VAR} references from the
// environment, then expands a leading ~. Unset variables expand to "".
func ExpandPath(path string) string {
	return ExpandTilde(os.ExpandEnv(strings.TrimSpace(path)))
}
