package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/ktop/internal/errors"
)

// isolate runs the test in an empty directory with its own global config
// home and resets the package-level flag values it touches.
func isolate(t *testing.T) (cwd, xdg string) {
	t.Helper()
	cwd = t.TempDir()
	xdg = t.TempDir()
	t.Chdir(cwd)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("KTOP_TICK_RATE_MS", "")
	t.Setenv("KTOP_GIT_INTERVAL_SECS", "")

	saved := struct {
		cfgFile, logFile, logLevel string
		strict, yaml, json         bool
	}{cfgFile, logFile, logLevel, strictConfig, configYAML, configJSON}
	t.Cleanup(func() {
		cfgFile, logFile, logLevel = saved.cfgFile, saved.logFile, saved.logLevel
		strictConfig, configYAML, configJSON = saved.strict, saved.yaml, saved.json
	})
	cfgFile, logFile, logLevel = "", "", "info"
	strictConfig, configYAML, configJSON = false, false, false
	return cwd, xdg
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"nil", nil, exitOK, ""},
		{"exit error keeps its code", errors.NewExitError(3), 3, ""},
		{"wrapped exit error", fmt.Errorf("doctor: %w", errors.NewExitError(1)), 1, ""},
		{
			"structured error",
			errors.New(errors.ErrConfig, "Unknown log level \"loud\"", "Use one of: debug"),
			exitError,
			"✗ Unknown log level \"loud\"\n\n  Use one of: debug\n",
		},
		{"unknown flag is usage", fmt.Errorf("unknown flag: --nope"), exitUsage, "✗ unknown flag: --nope\n\n  Run 'ktop --help' for usage.\n"},
		{"plain error", fmt.Errorf("boom"), exitError, "✗ boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, handleError(&buf, tt.err))
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}

func TestIsUsageError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{`unknown command "foo" for "ktop"`, true},
		{"unknown flag: --foo", true},
		{"unknown shorthand flag: 'x' in -x", true},
		{`invalid argument "fast" for "--tick-rate" flag: strconv.ParseInt: parsing "fast": invalid syntax`, true},
		{"accepts 0 arg(s), received 1", true},
		{"requires at least 1 arg(s), only received 0", true},
		{"flag needs an argument: --repo", true},
		{"config ktop.toml is invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isUsageError(fmt.Errorf("%s", tt.msg)))
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "WARN", "Error"} {
		assert.NoError(t, validateLogLevel(level), level)
	}

	err := validateLogLevel("verbose")
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), `Unknown log level "verbose"`)
}

func TestShortError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", fmt.Errorf("boom"), "boom"},
		{"multi-line keeps first line", fmt.Errorf("first\nsecond"), "first"},
		{
			"structured with cause",
			errors.WrapWithCode(fmt.Errorf("toml: line 2: expected value"), errors.ErrConfig, "Failed to read config file ktop.toml", "Check the file"),
			"Failed to read config file ktop.toml: toml: line 2: expected value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortError(tt.err))
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"init", "config", "doctor", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"config", "log-file", "log-level", "strict-config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	for _, name := range []string{"tick-rate", "git-interval", "repo"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
}
