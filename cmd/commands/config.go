package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fitchpad/fitchpad-cli/internal/cli"
	"github.com/fitchpad/fitchpad-cli/pkg/files"
	"github.com/fitchpad/fitchpad-cli/pkg/models"
)

// NewConfigCommand creates the config command with its init and show
// subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fitchpad settings",
		Long: `Create or inspect the settings file.

Settings are read from <user config dir>/fitchpad/settings.yaml unless
--config is given. FITCHPAD_* environment variables override the file,
e.g. FITCHPAD_ORACLE_COMMAND.

Examples:
  # Write the default settings
  fitchpad config init

  # Show the effective settings
  fitchpad config show`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := cli.SettingsFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		ok, err := cli.Confirm(fmt.Sprintf("%s exists. Overwrite with defaults?", path), false)
		if err != nil {
			return err
		}
		if !ok {
			cli.PrintInfo("Kept existing settings")
			return nil
		}
	}

	if err := files.WriteSettings(path, models.DefaultSettings()); err != nil {
		return err
	}
	cli.PrintSuccess("Wrote default settings to %s", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := cli.SettingsFilePath()
	if err != nil {
		return err
	}
	settings, err := files.LoadSettings(path)
	if err != nil {
		return err
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "json" {
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, settings)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(content)
	return err
}
