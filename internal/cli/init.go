package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/ktop/internal/config"
	"github.com/rileyhilliard/ktop/internal/doctor"
	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/gitstatus"
	"github.com/rileyhilliard/ktop/internal/ui"
	"github.com/rileyhilliard/ktop/internal/util"
)

var initFlags struct {
	repos    []string
	interval int
	tickRate int
	yaml     bool
	global   bool
	force    bool
}

// initCmd writes a new config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a ktop config file",
	Long: `Write a ktop configuration file.

Without --repo and with a terminal on stdin, a short form asks for the
repositories to watch and the polling periods. Otherwise the flags are
used as given.

The file is ./ktop.toml (./ktop.yaml with --yaml), or the global
~/.config/ktop/config.toml with --global.

Examples:
  ktop init
  ktop init --repo . --repo ~/src/api --interval 10
  ktop init --global --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.Context(), InitOptions{
			Repos:          initFlags.repos,
			IntervalSecs:   initFlags.interval,
			TickRateMs:     initFlags.tickRate,
			YAML:           initFlags.yaml,
			Global:         initFlags.global,
			Overwrite:      initFlags.force,
			NonInteractive: len(initFlags.repos) > 0 || !isatty.IsTerminal(os.Stdin.Fd()),
			Out:            cmd.OutOrStdout(),
		})
	},
}

func init() {
	initCmd.Flags().StringArrayVar(&initFlags.repos, "repo", nil, "repository to watch, repeatable")
	initCmd.Flags().IntVar(&initFlags.interval, "interval", config.DefaultGitIntervalSecs, "repository polling period in seconds")
	initCmd.Flags().IntVar(&initFlags.tickRate, "tick-rate", config.DefaultTickRateMs, "redraw period in milliseconds")
	initCmd.Flags().BoolVar(&initFlags.yaml, "yaml", false, "write YAML instead of TOML")
	initCmd.Flags().BoolVar(&initFlags.global, "global", false, "write the global config instead of one in the current directory")
	initCmd.Flags().BoolVarP(&initFlags.force, "force", "f", false, "overwrite an existing config file")
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Repos        []string
	IntervalSecs int
	TickRateMs   int

	YAML           bool // Write ktop.yaml instead of ktop.toml
	Global         bool // Write the global config file
	Overwrite      bool // Overwrite existing config without asking
	NonInteractive bool // Skip prompts, use the values above

	Out    io.Writer
	Prober doctor.RepoProber // Defaults to gitstatus.New()
}

// Init creates a new config file.
func Init(ctx context.Context, opts InitOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Prober == nil {
		opts.Prober = gitstatus.New()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	path := initPath(opts)

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			ui.Fprint(opts.Out, "Cancelled.\n")
			return nil
		}
	}

	if !opts.NonInteractive {
		if err := promptInit(&opts); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.TickRateMs = opts.TickRateMs
	cfg.Git.IntervalSecs = opts.IntervalSecs
	cfg.Git.Repos = append(cfg.Git.Repos, opts.Repos...)
	for _, w := range config.Normalize(cfg) {
		ui.Fprint(opts.Out, ui.StatusLine(ui.LevelWarn, w, ""))
	}
	// Keep the paths as typed; expansion happens again at load time.
	cfg.Git.Repos = keepAsTyped(opts.Repos)

	if len(cfg.Git.Repos) > 0 {
		checkRepos(ctx, opts.Out, opts.Prober, cfg.Git.Repos)
	}

	if err := config.Save(path, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", path),
			"Check directory permissions")
	}

	ui.Fprint(opts.Out, ui.StatusLine(ui.LevelPass, "Created "+path, ""))
	ui.Fprint(opts.Out, "\nNext steps:\n")
	ui.Fprint(opts.Out, "  ktop                 - Start the dashboard\n")
	ui.Fprint(opts.Out, "  ktop config add-repo - Watch another repository\n")
	ui.Fprint(opts.Out, "  ktop doctor          - Check configuration\n")
	return nil
}

func initPath(opts InitOptions) string {
	if opts.Global {
		path := config.GlobalPath()
		if opts.YAML {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml"
		}
		return path
	}
	if opts.YAML {
		return config.LocalConfigFileYAML
	}
	return config.LocalConfigFile
}

// keepAsTyped drops blank and repeated entries but leaves ~ and $VAR alone.
func keepAsTyped(repos []string) []string {
	out := make([]string, 0, len(repos))
	seen := make(map[string]bool, len(repos))
	for _, r := range repos {
		r = strings.TrimSpace(r)
		key := filepath.Clean(config.ExpandPath(r))
		if r == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// checkRepos probes each path and warns about the ones the dashboard
// would skip. The config is written either way.
func checkRepos(ctx context.Context, w io.Writer, prober doctor.RepoProber, repos []string) {
	spinner := ui.NewSpinner(w, "Checking "+util.CountNoun(len(repos), "repository", "repositories"))
	spinner.Start()

	var problems []string
	for _, repo := range repos {
		path := config.ExpandPath(repo)
		if _, err := prober.Status(ctx, path); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", repo, shortError(err)))
		}
	}

	if len(problems) == 0 {
		spinner.Success()
		return
	}
	spinner.Skip()
	for _, p := range problems {
		ui.Fprint(w, ui.StatusLine(ui.LevelWarn, p, ""))
	}
	ui.Fprint(w, ui.StatusLine(ui.LevelInfo, "The dashboard skips paths that aren't repository roots", ""))
}

// promptInit asks for the values the flags would otherwise supply.
func promptInit(opts *InitOptions) error {
	reposText := strings.Join(opts.Repos, "\n")
	intervalStr := strconv.Itoa(opts.IntervalSecs)
	tickStr := strconv.Itoa(opts.TickRateMs)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Repositories to watch").
				Description("One path per line. ~ and $VAR are expanded. Leave empty for none.").
				Placeholder("~/src/api").
				Value(&reposText),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Repository polling interval (seconds)").
				Value(&intervalStr).
				Validate(positiveInt),
			huh.NewInput().
				Title("Redraw period (milliseconds)").
				Value(&tickStr).
				Validate(positiveInt),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Pass --repo, --interval and --tick-rate to skip the prompts")
	}

	opts.Repos = splitLines(reposText)
	opts.IntervalSecs, _ = strconv.Atoi(strings.TrimSpace(intervalStr))
	opts.TickRateMs, _ = strconv.Atoi(strings.TrimSpace(tickStr))
	return nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number greater than zero")
	}
	return nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
