package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/logger"
)

// Global flags
var (
	cfgFile      string
	logFile      string
	logLevel     string
	strictConfig bool
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var logLevels = []string{"debug", "info", "warn", "error"}

// rootCmd runs the dashboard.
var rootCmd = &cobra.Command{
	Use:   "ktop",
	Short: "Terminal dashboard for system resources and git repositories",
	Long: `ktop shows live CPU, memory and disk usage alongside the status of the git
repositories you work in.

Keyboard shortcuts:
  q / Ctrl+C   Quit
  Tab          Next tab
  Shift+Tab    Previous tab
  r            Refresh now

Configuration is read from --config, ./ktop.toml, ./ktop.yaml or
~/.config/ktop/config.toml, in that order. KTOP_TICK_RATE_MS and
KTOP_GIT_INTERVAL_SECS override the file.

Examples:
  ktop
  ktop --repo . --repo ~/src/api
  ktop --tick-rate 500 --git-interval 10`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateLogLevel(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./ktop.toml, ./ktop.yaml, then ~/.config/ktop/config.toml)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file, rotated at 10 MB")
	pf.StringVar(&logLevel, "log-level", "info", "log level: "+strings.Join(logLevels, ", "))
	pf.BoolVar(&strictConfig, "strict-config", false, "exit instead of using defaults when the config file is invalid")

	AddDashboardFlags(rootCmd, &dashFlags)
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits the process with its status.
// SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(handleError(os.Stderr, err))
}

// handleError prints err for a human and returns the exit code for it.
func handleError(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}

	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	var kErr *errors.Error
	if stderrors.As(err, &kErr) {
		fmt.Fprint(w, kErr.Error())
		return exitError
	}

	fmt.Fprintf(w, "✗ %s\n", err.Error())
	if isUsageError(err) {
		fmt.Fprintln(w, "\n  Run 'ktop --help' for usage.")
		return exitUsage
	}
	return exitError
}

// isUsageError checks if the error came from cobra rejecting the command line.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return strings.Contains(msg, "flag needs an argument")
}

func validateLogLevel(level string) error {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown log level %q", level),
		"Use one of: "+strings.Join(logLevels, ", "))
}

// setupLogging builds the logging pipeline and installs it as the package
// default. tui keeps records off stderr while the dashboard owns the screen.
func setupLogging(tui bool, stderr io.Writer) (*logger.Pipeline, logger.Logger, error) {
	p, err := logger.Setup(logger.Options{
		File:   logFile,
		Level:  logLevel,
		TUI:    tui,
		Stderr: stderr,
	})
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open the log file "+logFile,
			"Check the --log-file path is writable")
	}
	log := logger.FromSlog(p.Logger, "")
	logger.SetDefault(log)
	return p, log, nil
}

// shortError renders err on one line.
func shortError(err error) string {
	var kErr *errors.Error
	if stderrors.As(err, &kErr) {
		return kErr.Short()
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
