package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitchpad/fitchpad-cli/pkg/files"
)

func TestNewCommandContext(t *testing.T) {
	dir := t.TempDir()
	stateDir := filepath.Join(dir, "state")
	path := filepath.Join(dir, files.SettingsFile)
	content := "storage:\n  dir: " + stateDir + "\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	SetConfigFlags(path, false)
	t.Cleanup(func() { SetConfigFlags("", false) })

	ctx, err := NewCommandContext()
	require.NoError(t, err)

	assert.Equal(t, path, ctx.SettingsPath)
	assert.Equal(t, stateDir, ctx.StateDir)
	assert.Equal(t, "debug", ctx.Settings.Log.Level)

	ctx.Logger.Debug("context ready")
	require.NoError(t, ctx.Close())

	logData, err := os.ReadFile(filepath.Join(stateDir, files.LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "context ready")

	store, err := ctx.Store()
	require.NoError(t, err)
	assert.Equal(t, stateDir, store.Dir())
	assert.NotNil(t, ctx.Oracle())
}

func TestNewCommandContext_InvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), files.SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644))

	SetConfigFlags(path, false)
	t.Cleanup(func() { SetConfigFlags("", false) })

	_, err := NewCommandContext()
	assert.Error(t, err)
}

func TestReadProofFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 | A\n  |----"), 0644))

	proof, err := ReadProofFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 | A\n  |----", proof)

	captureOutput(t, "1 | B")
	proof, err = ReadProofFile("-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(proof, "1 | B"))

	_, err = ReadProofFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
