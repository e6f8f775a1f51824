package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitchpad/fitchpad-cli/internal/cli"
	"github.com/fitchpad/fitchpad-cli/pkg/files"
	"github.com/fitchpad/fitchpad-cli/pkg/fitch"
)

// TabItem represents one saved tab in the tabs list output
type TabItem struct {
	Name          string `json:"name" yaml:"name"`
	Target        string `json:"target,omitempty" yaml:"target,omitempty"`
	TargetReached bool   `json:"target_reached" yaml:"target_reached"`
	Lines         int    `json:"lines" yaml:"lines"`
	FirstLine     string `json:"first_line" yaml:"first_line"`
}

// TabsResult represents the output structure for tabs list
type TabsResult struct {
	Tabs  []TabItem `json:"tabs" yaml:"tabs"`
	Count int       `json:"count" yaml:"count"`
}

var tabsExportToFile string

// NewTabsCommand creates the tabs command with its list and export
// subcommands
func NewTabsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "Inspect the tabs saved by the editor",
		Long: `Read the session the editor saved in the state directory.

Examples:
  # List saved tabs
  fitchpad tabs list

  # List as YAML
  fitchpad tabs list -o yaml

  # Print one tab's proof
  fitchpad tabs export new.txt

  # Save one tab's proof to a file
  fitchpad tabs export new.txt --file proof.txt`,
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List saved tabs",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE:    runTabsList,
	}

	exportCmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Print the proof of a saved tab",
		Args:  cobra.ExactArgs(1),
		RunE:  runTabsExport,
	}
	exportCmd.Flags().StringVarP(&tabsExportToFile, "file", "f", "", "Write to file instead of stdout")

	cmd.AddCommand(listCmd, exportCmd)
	return cmd
}

// readSavedSession loads the stored record; ok is false when nothing was
// saved yet
func readSavedSession() (record *files.PersistedSession, ok bool, err error) {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return nil, false, err
	}
	defer ctx.Close()

	store, err := ctx.Store()
	if err != nil {
		return nil, false, err
	}

	record, err = files.ReadSession(store)
	if errors.Is(err, files.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read saved session from %s: %w", store.Dir(), err)
	}
	return record, true, nil
}

func runTabsList(cmd *cobra.Command, args []string) error {
	record, ok, err := readSavedSession()
	if err != nil {
		return err
	}

	result := TabsResult{Tabs: []TabItem{}}
	if ok {
		for _, f := range record.Files {
			result.Tabs = append(result.Tabs, TabItem{
				Name:          f.Name,
				Target:        f.ProofTarget,
				TargetReached: f.ConfettiPlayed,
				Lines:         len(fitch.SplitLines(f.Content)),
				FirstLine:     cli.FirstLine(f.Content),
			})
		}
	}
	result.Count = len(result.Tabs)

	outputFormat, _ := cmd.Flags().GetString("output")
	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, result)
	}

	if result.Count == 0 {
		cli.PrintInfo("No saved tabs")
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("NAME", "LINES", "TARGET", "FIRST LINE")
	for _, tab := range result.Tabs {
		target := tab.Target
		if tab.TargetReached {
			target += " ✓"
		}
		table.Row(tab.Name, strconv.Itoa(tab.Lines), target, cli.TruncateString(tab.FirstLine, 40))
	}
	table.Flush()
	return nil
}

func runTabsExport(cmd *cobra.Command, args []string) error {
	record, ok, err := readSavedSession()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no saved session")
	}

	name := args[0]
	var names []string
	for _, f := range record.Files {
		if f.Name != name {
			names = append(names, f.Name)
			continue
		}
		if tabsExportToFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), f.Content)
			return nil
		}
		if err := os.WriteFile(tabsExportToFile, []byte(f.Content+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", tabsExportToFile, err)
		}
		cli.PrintSuccess("Exported %s to %s", name, tabsExportToFile)
		return nil
	}
	return fmt.Errorf("no saved tab named %q (saved: %s)", name, strings.Join(names, ", "))
}
