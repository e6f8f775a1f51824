package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fitchpad/fitchpad-cli/internal/logging"
	"github.com/fitchpad/fitchpad-cli/pkg/files"
	"github.com/fitchpad/fitchpad-cli/pkg/models"
	"github.com/fitchpad/fitchpad-cli/pkg/oracle"
)

// Persistent flags shared by every command
var (
	settingsPath string
	logToStderr  bool
)

// SetConfigFlags sets the settings file and log destination flags
func SetConfigFlags(path string, toStderr bool) {
	settingsPath = path
	logToStderr = toStderr
}

// SettingsFilePath returns the --config path or the default settings file
func SettingsFilePath() (string, error) {
	if settingsPath != "" {
		return settingsPath, nil
	}
	return files.DefaultSettingsPath()
}

// CommandContext holds what commands share: settings, the logger and the
// state directory
type CommandContext struct {
	SettingsPath string
	Settings     *models.Settings
	Logger       *slog.Logger
	StateDir     string

	logCloser io.Closer
}

// NewCommandContext loads settings and opens the log file. Close must be
// called when the command finishes.
func NewCommandContext() (*CommandContext, error) {
	path, err := SettingsFilePath()
	if err != nil {
		return nil, err
	}

	settings, err := files.LoadSettings(path)
	if err != nil {
		return nil, err
	}

	stateDir, err := files.StateDir(settings)
	if err != nil {
		return nil, err
	}

	opts := logging.Options{
		Level:   settings.Log.Level,
		File:    filepath.Join(stateDir, files.LogFile),
		Journal: settings.Log.Journal,
	}
	if logToStderr {
		opts.Stderr = os.Stderr
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return &CommandContext{
		SettingsPath: path,
		Settings:     settings,
		Logger:       logger,
		StateDir:     stateDir,
		logCloser:    closer,
	}, nil
}

// Store opens the session store in the state directory
func (c *CommandContext) Store() (*files.FileStore, error) {
	return files.NewFileStore(c.StateDir)
}

// Oracle creates the proof checker from settings
func (c *CommandContext) Oracle() *oracle.ExecOracle {
	return oracle.NewExecOracle(c.Settings.Oracle, c.Logger.With("component", "oracle"))
}

// Close releases the log file
func (c *CommandContext) Close() error {
	if c.logCloser == nil {
		return nil
	}
	return c.logCloser.Close()
}

// ReadProofFile reads a proof from path, or from stdin when path is "-"
func ReadProofFile(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read proof from stdin: %w", err)
		}
		return string(data), nil
	}
	if err := ValidateFilePath(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read proof %s: %w", path, err)
	}
	return string(data), nil
}
