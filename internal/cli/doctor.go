package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/ktop/internal/config"
	"github.com/rileyhilliard/ktop/internal/doctor"
	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/gitstatus"
	"github.com/rileyhilliard/ktop/internal/sysinfo"
	"github.com/rileyhilliard/ktop/internal/ui"
	"github.com/rileyhilliard/ktop/internal/util"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd diagnoses environment and configuration issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose git, config, repository and terminal issues",
	Long: `Run diagnostic checks to find out why the dashboard looks wrong.

Checks:
  - Which config file is loaded and whether it is valid
  - Values that were adjusted while loading
  - git availability and version
  - Every configured repository path
  - Resource sampling on this host
  - Terminal size

Examples:
  ktop doctor
  ktop doctor --json
  ktop doctor --fix`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "write a default config file if none exists")
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []doctor.Section `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	Fixed    int  `json:"fixed,omitempty"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand(cmd *cobra.Command) error {
	pipeline, log, err := setupLogging(false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer pipeline.Close()

	// Repo paths come from whatever config would be used; a broken config
	// is reported by the config checks.
	cfg, _ := config.LoadOrDefault(cfgFile)
	checks := collectChecks(cfgFile, cfg.Git.Repos)
	log.Debug("running %d checks", len(checks))

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var results []doctor.CheckResult
	if doctorJSON {
		results = doctor.RunAll(ctx, checks)
	} else {
		spinner := ui.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Running %d checks", len(checks)))
		spinner.Start()
		results = doctor.RunAll(ctx, checks)
		spinner.Success()
	}

	fixed := 0
	if doctorFix {
		results, fixed = doctor.Fix(ctx, checks, results)
	}

	if doctorJSON {
		if err := outputDoctorJSON(out, checks, results, fixed); err != nil {
			return err
		}
	} else {
		outputDoctorText(out, checks, results, fixed)
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

// collectChecks gathers all diagnostic checks for the given repo list.
func collectChecks(cfgPath string, repos []string) []doctor.Check {
	var checks []doctor.Check
	checks = append(checks, doctor.NewConfigChecks(cfgPath)...)
	checks = append(checks, doctor.NewGitChecks(gitstatus.New(), repos)...)
	checks = append(checks, doctor.NewSystemChecks(sysinfo.NewCollector())...)
	return checks
}

func summarize(results []doctor.CheckResult, fixed int) SummaryOutput {
	counts := doctor.CountByStatus(results)
	return SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		Fixed:    fixed,
		AllClear: !doctor.HasIssues(results),
	}
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed int) error {
	return WriteJSONSuccess(w, DoctorOutput{
		Categories: doctor.Group(checks, results),
		Summary:    summarize(results, fixed),
	})
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed int) {
	ui.Fprint(w, "\n"+ui.Header(formatVersion(version), "Diagnostic report")+"\n")

	for _, section := range doctor.Group(checks, results) {
		ui.Fprint(w, ui.Heading(section.Name)+"\n")
		for _, r := range section.Results {
			ui.Fprint(w, ui.StatusLine(statusLevel(r.Status), r.Message, r.Suggestion))
		}
		ui.Fprint(w, "\n")
	}

	ui.Fprint(w, ui.Divider()+"\n\n")

	summary := summarize(results, fixed)
	if fixed > 0 {
		ui.Fprint(w, ui.StatusLine(ui.LevelPass, "Fixed "+util.CountNoun(fixed, "issue", "issues"), ""))
	}
	if summary.AllClear {
		ui.Fprint(w, ui.StatusLine(ui.LevelPass, doctor.Summary(results), ""))
	} else {
		level := ui.LevelWarn
		if summary.Fail > 0 {
			level = ui.LevelFail
		}
		ui.Fprint(w, ui.StatusLine(level, doctor.Summary(results), ""))
		if summary.Fixable > 0 && !doctorFix {
			ui.Fprint(w, fmt.Sprintf("\n  Run with %s to attempt automatic fixes where possible.\n", ui.Muted("--fix")))
		}
	}
	ui.Fprint(w, "\n")
}

func statusLevel(s doctor.CheckStatus) ui.Level {
	switch s {
	case doctor.StatusPass:
		return ui.LevelPass
	case doctor.StatusWarn:
		return ui.LevelWarn
	default:
		return ui.LevelFail
	}
}
