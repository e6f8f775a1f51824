package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fitchpad/fitchpad-cli/cmd/commands"
	"github.com/fitchpad/fitchpad-cli/internal/cli"
	"github.com/fitchpad/fitchpad-cli/pkg/files"
	"github.com/fitchpad/fitchpad-cli/pkg/session"
	"github.com/fitchpad/fitchpad-cli/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	configFlag    string
	logStderrFlag bool
	quietFlag     bool
	noColorFlag   bool
	yesFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "fitchpad [file...]",
	Short: "Terminal editor for Fitch-style natural deduction proofs",
	Long: `Fitchpad is a terminal editor for Fitch-style natural deduction proofs.
It keeps the scope bars and line numbers of a proof in shape while you type,
checks the proof with an external checker and remembers your open tabs.

Files given on the command line are opened as tabs.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.SetGlobalFlags(quietFlag, noColorFlag, yesFlag)
		cli.SetConfigFlags(configFlag, logStderrFlag)
		cli.SetOutput(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		output, _ := cmd.Flags().GetString("output")
		return cli.ValidateOutputFormat(output)
	},
	RunE: runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Fitchpad",
	Long:  `Display the current version of the Fitchpad CLI tool`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Fitchpad version %s\n", version)
	},
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewCommandContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	store, err := ctx.Store()
	if err != nil {
		return err
	}

	sess := session.New(session.WithLogger(ctx.Logger.With("component", "session")))
	codec := files.NewCodec(store, ctx.Logger.With("component", "storage"))
	codec.Load(sess)
	codec.Attach(sess)

	for _, path := range args {
		proof, err := cli.ReadProofFile(path)
		if err != nil {
			return err
		}
		sess.OpenTab(proof, filepath.Base(path))
	}

	app := tui.NewApp(tui.Options{
		Session:  sess,
		Codec:    codec,
		Oracle:   ctx.Oracle(),
		Settings: ctx.Settings,
		Logger:   ctx.Logger.With("component", "tui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	watchCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	watcher, err := files.NewWatcher(store, files.WatcherConfig{Logger: ctx.Logger.With("component", "watcher")})
	if err != nil {
		ctx.Logger.Warn("storage watcher unavailable, edits from other windows will not show", "error", err)
	} else if err := watcher.Start(watchCtx); err != nil {
		ctx.Logger.Warn("storage watcher unavailable, edits from other windows will not show", "error", err)
		watcher.Stop()
	} else {
		defer watcher.Stop()
		go tui.ForwardStorageChanges(p.Send, watcher.Changes())
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}

	if err := codec.Save(sess); err != nil {
		ctx.Logger.Error("failed to save session on exit", "error", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Settings file (default <user config dir>/fitchpad/settings.yaml)")
	rootCmd.PersistentFlags().BoolVar(&logStderrFlag, "log-stderr", false, "Also write the log to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress informational messages")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Print plain labels instead of symbols")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Answer yes to confirmations")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json, yaml)")

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewLatexCommand())
	rootCmd.AddCommand(commands.NewTabsCommand())
	rootCmd.AddCommand(commands.NewExerciseCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrProofNotCorrect) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
