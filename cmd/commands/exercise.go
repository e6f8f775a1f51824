package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitchpad/fitchpad-cli/internal/cli"
	"github.com/fitchpad/fitchpad-cli/pkg/exercises"
)

// ExerciseItem represents one exercise in command output
type ExerciseItem struct {
	Number      int      `json:"number" yaml:"number"`
	Assumptions []string `json:"assumptions" yaml:"assumptions"`
	Conclusion  string   `json:"conclusion" yaml:"conclusion"`
	Proof       string   `json:"proof" yaml:"proof"`
}

var exerciseListAll bool

// NewExerciseCommand creates the exercise command
func NewExerciseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise [number]",
		Short: "Print a practice exercise",
		Long: `Print one of the bundled exercises: its assumptions as the start
of a proof and the formula to derive.

Without a number a random exercise is picked.

Examples:
  # Random exercise
  fitchpad exercise

  # Exercise 3
  fitchpad exercise 3

  # All exercises
  fitchpad exercise --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExercise,
	}

	cmd.Flags().BoolVarP(&exerciseListAll, "list", "l", false, "List all exercises")

	return cmd
}

func runExercise(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	if exerciseListAll {
		all := exercises.All()
		items := make([]ExerciseItem, len(all))
		for i, ex := range all {
			items[i] = exerciseItem(i+1, ex)
		}
		switch outputFormat {
		case "json", "yaml":
			return cli.OutputResults(cmd.OutOrStdout(), outputFormat, items)
		}

		table := cli.NewTableFormatter(cmd.OutOrStdout())
		table.Header("#", "ASSUMPTIONS", "CONCLUSION")
		for _, item := range items {
			table.Row(strconv.Itoa(item.Number), strings.Join(item.Assumptions, ", "), item.Conclusion)
		}
		table.Flush()
		return nil
	}

	var item ExerciseItem
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid exercise number: %s", args[0])
		}
		ex, err := exercises.Get(n - 1)
		if err != nil {
			return fmt.Errorf("exercise %d: %w (1-%d available)", n, err, len(exercises.All()))
		}
		item = exerciseItem(n, ex)
	} else {
		i := exercises.RandomIndex(nil)
		ex, err := exercises.Get(i)
		if err != nil {
			return err
		}
		item = exerciseItem(i+1, ex)
	}

	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, item)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exercise %d: derive %s\n\n", item.Number, item.Conclusion)
	fmt.Fprintln(out, item.Proof)
	return nil
}

func exerciseItem(number int, ex exercises.Exercise) ExerciseItem {
	return ExerciseItem{
		Number:      number,
		Assumptions: ex.Assumptions,
		Conclusion:  ex.Conclusion,
		Proof:       ex.Proof(),
	}
}
