package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/fitchpad/fitchpad-cli/internal/cli"
	"github.com/fitchpad/fitchpad-cli/pkg/oracle"
)

var (
	latexCopy   bool
	latexToFile string
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// NewLatexCommand creates the latex command
func NewLatexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latex <file>",
		Short: "Export a proof as LaTeX",
		Long: `Convert a proof to LaTeX with the configured exporter
(oracle.latex_command in the settings).

By default the LaTeX source is written to stdout.

Examples:
  # Print LaTeX
  fitchpad latex proof.txt

  # Copy LaTeX to the clipboard
  fitchpad latex proof.txt --copy

  # Write LaTeX to a file
  fitchpad latex proof.txt --file proof.tex`,
		Args:    cobra.ExactArgs(1),
		Aliases: []string{"tex"},
		RunE:    runLatex,
	}

	cmd.Flags().BoolVarP(&latexCopy, "copy", "c", false, "Copy the LaTeX source to the clipboard")
	cmd.Flags().StringVarP(&latexToFile, "file", "f", "", "Write to file instead of stdout")

	return cmd
}

func runLatex(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	proof, err := cli.ReadProofFile(args[0])
	if err != nil {
		return err
	}

	latex, err := ctx.Oracle().ExportLatex(cmd.Context(), proof)
	if errors.Is(err, oracle.ErrUnsupported) {
		return fmt.Errorf("no LaTeX exporter configured: set oracle.latex_command in %s", ctx.SettingsPath)
	}
	if err != nil {
		return fmt.Errorf("failed to export LaTeX: %w", err)
	}

	switch {
	case latexCopy:
		if err := copyToClipboard(latex); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		cli.PrintSuccess("LaTeX copied to clipboard (%d bytes)", len(latex))
	case latexToFile != "":
		if err := os.WriteFile(latexToFile, []byte(latex+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", latexToFile, err)
		}
		cli.PrintSuccess("Exported LaTeX to %s", latexToFile)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), latex)
	}
	return nil
}
