package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitchpad/fitchpad-cli/internal/cli"
	"github.com/fitchpad/fitchpad-cli/pkg/fitch"
	"github.com/fitchpad/fitchpad-cli/pkg/oracle"
)

// ErrProofNotCorrect is returned by check when the checker did not accept
// the proof. The command has already printed the feedback.
var ErrProofNotCorrect = errors.New("proof is not correct")

// CheckResult represents the output structure for the check command
type CheckResult struct {
	File          string `json:"file" yaml:"file"`
	Status        string `json:"status" yaml:"status"`
	Message       string `json:"message" yaml:"message"`
	Row           *int   `json:"row,omitempty" yaml:"row,omitempty"`
	Target        string `json:"target,omitempty" yaml:"target,omitempty"`
	TargetReached bool   `json:"target_reached" yaml:"target_reached"`
}

var (
	checkTarget  string
	checkAllowed string
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check a proof with the configured checker",
		Long: `Run the proof checker on a proof file and print its feedback.

The exit code is 1 unless the checker reports the proof as correct.
Use "-" to read the proof from stdin.

Examples:
  # Check a proof
  fitchpad check proof.txt

  # Check that the proof derives a target
  fitchpad check proof.txt --target "A ∨ B"

  # Override the allowed variable names
  fitchpad check proof.txt --allowed x,y

  # Machine readable feedback
  fitchpad check proof.txt -o json`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("allowed") {
				return oracle.ValidateAllowedVariables(checkAllowed)
			}
			return nil
		},
		RunE: runCheck,
	}

	cmd.Flags().StringVarP(&checkTarget, "target", "t", "", "Formula the proof should derive")
	cmd.Flags().StringVar(&checkAllowed, "allowed", "", "Comma separated variable names (default from settings)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	proof, err := cli.ReadProofFile(args[0])
	if err != nil {
		return err
	}

	allowed := ctx.Settings.Proof.AllowedVariables
	if cmd.Flags().Changed("allowed") {
		allowed = checkAllowed
	}

	proofOracle := ctx.Oracle()
	if cmd.Flags().Changed("allowed") && !oracle.SupportsAllowedVariables(proofOracle) {
		cli.PrintWarning("--allowed is ignored: the configured checker does not support allowed variable names")
	}

	target, _ := fitch.ReplaceAllSymbols(checkTarget)
	checker := oracle.NewChecker(proofOracle, allowed, ctx.Logger.With("component", "checker"))
	report := checker.Check(cmd.Context(), proof, target)

	result := CheckResult{
		File:          args[0],
		Status:        report.Status.String(),
		Message:       report.Message,
		Target:        target,
		TargetReached: report.TargetReached,
	}
	if report.HasRow {
		row := report.Row + 1
		result.Row = &row
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	switch outputFormat {
	case "json", "yaml":
		if err := cli.OutputResults(cmd.OutOrStdout(), outputFormat, result); err != nil {
			return err
		}
	default:
		outputCheckText(cmd, result)
	}

	if report.Status != oracle.StatusCorrect {
		return ErrProofNotCorrect
	}
	return nil
}

func outputCheckText(cmd *cobra.Command, result CheckResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Message)
	if result.Row != nil {
		fmt.Fprintf(out, "  at editor line %d\n", *result.Row)
	}
	if result.Target == "" {
		return
	}
	if result.TargetReached {
		cli.PrintSuccess("Proof target reached: %s", result.Target)
	} else {
		cli.PrintWarning("Proof target not reached: %s", result.Target)
	}
}
