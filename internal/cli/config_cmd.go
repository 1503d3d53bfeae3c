package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/ktop/internal/config"
	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/ui"
)

var (
	configYAML bool
	configJSON bool
)

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration the dashboard would use, after defaults, the
config file and KTOP_* environment overrides are applied, and say where it
came from.

Examples:
  ktop config
  ktop config --yaml
  ktop config --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configCommand(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// configAddRepoCmd appends repositories to the config file
var configAddRepoCmd = &cobra.Command{
	Use:   "add-repo PATH...",
	Short: "Add repositories to the config file",
	Long: `Append paths to git.repos in the config file that ktop would load.
Paths already listed are left alone. YAML files keep their comments and
layout. TOML files are rewritten in full: comments are lost and every
setting is written out, including ones left at their defaults.

When no config file exists yet, ./ktop.toml is created.

Examples:
  ktop config add-repo .
  ktop config add-repo ~/src/api ~/src/web`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addRepoCommand(cmd.OutOrStdout(), args)
	},
}

func init() {
	configCmd.Flags().BoolVar(&configYAML, "yaml", false, "print as YAML instead of TOML")
	configCmd.Flags().BoolVar(&configJSON, "json", false, "print as JSON")
	configCmd.MarkFlagsMutuallyExclusive("yaml", "json")
	configCmd.AddCommand(configAddRepoCmd)
}

// ConfigOutput is the --json shape of ktop config.
type ConfigOutput struct {
	Source   string         `json:"source"`
	Path     string         `json:"path,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    *JSONError     `json:"error,omitempty"`
	Config   *config.Config `json:"config"`
}

func configCommand(out, errOut io.Writer) error {
	cfg, res := config.LoadOrDefault(cfgFile)
	if res.Source == config.SourceFallback && strictConfig {
		return res.Err
	}

	if configJSON {
		return WriteJSONSuccess(out, ConfigOutput{
			Source:   res.Source.String(),
			Path:     res.Path,
			Warnings: res.Warnings,
			Error:    ErrorToJSON(res.Err),
			Config:   cfg,
		})
	}

	rows := [][2]string{{"source", res.Source.String()}}
	if res.Path != "" {
		rows = append(rows, [2]string{"path", res.Path})
	}
	ui.Fprint(errOut, ui.KeyValues(rows))
	if res.Err != nil {
		ui.Fprint(errOut, ui.StatusLine(ui.LevelFail, res.Notice(), shortError(res.Err)))
	}
	for _, w := range res.Warnings {
		ui.Fprint(errOut, ui.StatusLine(ui.LevelWarn, w, ""))
	}
	ui.Fprint(errOut, "\n")

	format := config.FormatTOML
	if configYAML {
		format = config.FormatYAML
	}
	data, err := config.Marshal(cfg, format)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode the configuration", "")
	}
	_, err = out.Write(data)
	return err
}

func addRepoCommand(out io.Writer, repos []string) error {
	path, err := config.Find(cfgFile)
	if err != nil {
		return err
	}
	if path == "" {
		path = config.LocalConfigFile
		if err := config.Save(path, config.DefaultConfig()); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to create "+path, "Check directory permissions")
		}
		ui.Fprint(out, ui.StatusLine(ui.LevelPass, "Created "+path, ""))
	}

	for _, repo := range repos {
		if _, err := os.Stat(config.ExpandPath(repo)); err != nil {
			ui.Fprint(out, ui.StatusLine(ui.LevelWarn, repo+" does not exist yet", ""))
		}
		changed, err := config.AddRepo(path, repo)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Failed to add %s to %s", repo, path),
				"Check the file is valid and git.repos is a list")
		}
		if changed {
			ui.Fprint(out, ui.StatusLine(ui.LevelPass, fmt.Sprintf("Added %s to %s", repo, path), ""))
		} else {
			ui.Fprint(out, ui.StatusLine(ui.LevelInfo, fmt.Sprintf("%s is already in %s", repo, path), ""))
		}
	}
	return nil
}
