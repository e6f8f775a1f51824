package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/fitchpad/fitchpad-cli/internal/cli"
)

// testEnv is a settings file and state directory in a temp dir
type testEnv struct {
	dir          string
	settingsPath string
	stateDir     string
}

// setupCommandTest writes a settings file whose checker commands are the
// given shell scripts. Empty scripts leave the command unset.
func setupCommandTest(t *testing.T, checker, latex string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:          dir,
		settingsPath: filepath.Join(dir, "settings.yaml"),
		stateDir:     filepath.Join(dir, "state"),
	}

	var b strings.Builder
	b.WriteString("storage:\n  dir: " + env.stateDir + "\n")
	b.WriteString("log:\n  level: debug\n")
	b.WriteString("oracle:\n  timeout: 5s\n")
	if checker != "" {
		b.WriteString("  command: " + writeScript(t, dir, "checker.sh", checker) + "\n")
	}
	if latex != "" {
		b.WriteString("  latex_command: " + writeScript(t, dir, "latex.sh", latex) + "\n")
	}
	require.NoError(t, os.WriteFile(env.settingsPath, []byte(b.String()), 0644))
	return env
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on windows")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func (e *testEnv) writeProof(t *testing.T, name, proof string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(proof), 0644))
	return path
}

// executeCommand runs cmd under a root carrying the persistent output
// flag and returns everything written to stdout and stderr
func executeCommand(t *testing.T, env *testEnv, stdin string, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "fitchpad", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("output", "o", "text", "Output format")
	root.AddCommand(cmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{cmd.Name()}, args...))

	cli.SetGlobalFlags(false, true, false)
	cli.SetConfigFlags(env.settingsPath, false)
	cli.SetOutput(strings.NewReader(stdin), &out, &out)
	t.Cleanup(func() {
		cli.SetGlobalFlags(false, false, false)
		cli.SetConfigFlags("", false)
		cli.SetOutput(os.Stdin, os.Stdout, os.Stderr)
	})

	err := root.Execute()
	return out.String(), err
}
